package logs

import (
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/notedown-sh/notedown/internal/logging"
	"github.com/notedown-sh/notedown/internal/tui/layout"
	"github.com/notedown-sh/notedown/internal/tui/styles"
	"github.com/notedown-sh/notedown/internal/tui/theme"
)

type DetailComponent interface {
	tea.Model
	layout.Sizeable
	layout.Bindings
}

type detailCmp struct {
	width      int
	height     int
	currentLog logging.Log
	viewport   viewport.Model
}

func (i *detailCmp) Init() tea.Cmd {
	return nil
}

func (i *detailCmp) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case selectedLogMsg:
		if msg.ID != i.currentLog.ID {
			i.currentLog = logging.Log(msg)
			i.updateContent()
		}
		return i, nil
	}

	var cmd tea.Cmd
	i.viewport, cmd = i.viewport.Update(msg)
	return i, cmd
}

func (i *detailCmp) updateContent() {
	t := theme.CurrentTheme()
	base := styles.BaseStyle()
	var content strings.Builder

	content.WriteString(base.Bold(true).Foreground(t.Primary()).
		Render(i.currentLog.Timestamp.Local().Format("2006-01-02 15:04:05")))
	content.WriteString("\n")
	content.WriteString(base.Foreground(t.TextMuted()).Render(i.currentLog.Level))
	content.WriteString("\n\n")
	content.WriteString(base.Render(i.currentLog.Message))

	if len(i.currentLog.Attributes) > 0 {
		content.WriteString("\n\n")
		keys := make([]string, 0, len(i.currentLog.Attributes))
		for k := range i.currentLog.Attributes {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			content.WriteString(base.Foreground(t.Accent()).Render(k))
			content.WriteString(base.Foreground(t.TextMuted()).Render("="))
			content.WriteString(base.Render(i.currentLog.Attributes[k]))
			content.WriteString("\n")
		}
	}

	i.viewport.SetContent(content.String())
	i.viewport.GotoTop()
}

func (i *detailCmp) View() string {
	t := theme.CurrentTheme()
	return styles.BaseStyle().
		Width(i.width).
		Height(i.height).
		BorderStyle(lipgloss.NormalBorder()).
		BorderTop(true).
		BorderForeground(t.BorderNormal()).
		Render(i.viewport.View())
}

func (i *detailCmp) GetSize() (int, int) {
	return i.width, i.height
}

func (i *detailCmp) SetSize(width int, height int) tea.Cmd {
	i.width = width
	i.height = height
	i.viewport.Width = width
	i.viewport.Height = max(0, height-1)
	i.updateContent()
	return nil
}

func (i *detailCmp) BindingKeys() []key.Binding {
	return layout.KeyMapToSlice(i.viewport.KeyMap)
}

func NewLogsDetails() DetailComponent {
	return &detailCmp{
		viewport: viewport.New(0, 0),
	}
}
