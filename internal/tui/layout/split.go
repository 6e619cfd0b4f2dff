package layout

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// SplitPaneLayout arranges a left and right panel side by side with an
// optional full-width bottom panel.
type SplitPaneLayout interface {
	tea.Model
	Sizeable
	SetLeftPanel(panel Container) tea.Cmd
	SetRightPanel(panel Container) tea.Cmd
	SetBottomPanel(panel Container) tea.Cmd
	ClearLeftPanel() tea.Cmd
	ClearRightPanel() tea.Cmd
}

type splitPaneLayout struct {
	width  int
	height int

	ratio        float64
	bottomHeight int

	leftPanel   Container
	rightPanel  Container
	bottomPanel Container
}

type SplitPaneOption func(*splitPaneLayout)

func NewSplitPane(options ...SplitPaneOption) SplitPaneLayout {
	layout := &splitPaneLayout{
		ratio:        0.3,
		bottomHeight: 5,
	}
	for _, option := range options {
		option(layout)
	}
	return layout
}

func WithLeftPanel(panel Container) SplitPaneOption {
	return func(s *splitPaneLayout) {
		s.leftPanel = panel
	}
}

func WithRightPanel(panel Container) SplitPaneOption {
	return func(s *splitPaneLayout) {
		s.rightPanel = panel
	}
}

func WithBottomPanel(panel Container) SplitPaneOption {
	return func(s *splitPaneLayout) {
		s.bottomPanel = panel
	}
}

// WithRatio sets the share of the width given to the left panel.
func WithRatio(ratio float64) SplitPaneOption {
	return func(s *splitPaneLayout) {
		s.ratio = ratio
	}
}

// WithBottomHeight sets the height of the bottom panel in rows.
func WithBottomHeight(height int) SplitPaneOption {
	return func(s *splitPaneLayout) {
		s.bottomHeight = height
	}
}

func (s *splitPaneLayout) Init() tea.Cmd {
	var cmds []tea.Cmd
	for _, panel := range []Container{s.leftPanel, s.rightPanel, s.bottomPanel} {
		if panel != nil {
			cmds = append(cmds, panel.Init())
		}
	}
	return tea.Batch(cmds...)
}

func (s *splitPaneLayout) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	if s.leftPanel != nil {
		u, cmd := s.leftPanel.Update(msg)
		s.leftPanel = u.(Container)
		cmds = append(cmds, cmd)
	}
	if s.rightPanel != nil {
		u, cmd := s.rightPanel.Update(msg)
		s.rightPanel = u.(Container)
		cmds = append(cmds, cmd)
	}
	if s.bottomPanel != nil {
		u, cmd := s.bottomPanel.Update(msg)
		s.bottomPanel = u.(Container)
		cmds = append(cmds, cmd)
	}
	return s, tea.Batch(cmds...)
}

func (s *splitPaneLayout) View() string {
	var top string
	switch {
	case s.leftPanel != nil && s.rightPanel != nil:
		top = lipgloss.JoinHorizontal(lipgloss.Top, s.leftPanel.View(), s.rightPanel.View())
	case s.leftPanel != nil:
		top = s.leftPanel.View()
	case s.rightPanel != nil:
		top = s.rightPanel.View()
	}

	if s.bottomPanel == nil {
		return top
	}
	if top == "" {
		return s.bottomPanel.View()
	}
	return lipgloss.JoinVertical(lipgloss.Left, top, s.bottomPanel.View())
}

func (s *splitPaneLayout) SetSize(width, height int) tea.Cmd {
	s.width = width
	s.height = height
	return s.resize()
}

func (s *splitPaneLayout) resize() tea.Cmd {
	topHeight := s.height
	if s.bottomPanel != nil {
		topHeight -= s.bottomHeight
	}

	var cmds []tea.Cmd
	switch {
	case s.leftPanel != nil && s.rightPanel != nil:
		leftWidth := int(float64(s.width) * s.ratio)
		cmds = append(cmds,
			s.leftPanel.SetSize(leftWidth, topHeight),
			s.rightPanel.SetSize(s.width-leftWidth, topHeight),
		)
	case s.leftPanel != nil:
		cmds = append(cmds, s.leftPanel.SetSize(s.width, topHeight))
	case s.rightPanel != nil:
		cmds = append(cmds, s.rightPanel.SetSize(s.width, topHeight))
	}
	if s.bottomPanel != nil {
		cmds = append(cmds, s.bottomPanel.SetSize(s.width, s.bottomHeight))
	}
	return tea.Batch(cmds...)
}

func (s *splitPaneLayout) GetSize() (int, int) {
	return s.width, s.height
}

func (s *splitPaneLayout) SetLeftPanel(panel Container) tea.Cmd {
	s.leftPanel = panel
	if s.width > 0 && s.height > 0 {
		return s.resize()
	}
	return nil
}

func (s *splitPaneLayout) SetRightPanel(panel Container) tea.Cmd {
	s.rightPanel = panel
	if s.width > 0 && s.height > 0 {
		return s.resize()
	}
	return nil
}

func (s *splitPaneLayout) SetBottomPanel(panel Container) tea.Cmd {
	s.bottomPanel = panel
	if s.width > 0 && s.height > 0 {
		return s.resize()
	}
	return nil
}

func (s *splitPaneLayout) ClearLeftPanel() tea.Cmd {
	s.leftPanel = nil
	if s.width > 0 && s.height > 0 {
		return s.resize()
	}
	return nil
}

func (s *splitPaneLayout) ClearRightPanel() tea.Cmd {
	s.rightPanel = nil
	if s.width > 0 && s.height > 0 {
		return s.resize()
	}
	return nil
}
