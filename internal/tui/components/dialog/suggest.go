package dialog

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"

	"github.com/notedown-sh/notedown/internal/command"
	"github.com/notedown-sh/notedown/internal/document"
	"github.com/notedown-sh/notedown/internal/tui/layout"
	"github.com/notedown-sh/notedown/internal/tui/styles"
	"github.com/notedown-sh/notedown/internal/tui/theme"
	"github.com/notedown-sh/notedown/internal/tui/util"
)

const suggestDialogWidth = 36

// Anchor is the screen cell a suggestion popup hangs off: the position of
// the trigger slash relative to the editor's top-left corner.
type Anchor struct {
	X int
	Y int
}

// ShowSuggestionsMsg opens a suggestion session at the given anchor.
type ShowSuggestionsMsg struct {
	Query  string
	Range  document.Range
	Anchor Anchor
}

// FilterSuggestionsMsg updates an open session's query and anchor.
type FilterSuggestionsMsg struct {
	Query  string
	Range  document.Range
	Anchor Anchor
}

// CloseSuggestionsMsg destroys an open session without committing.
type CloseSuggestionsMsg struct{}

// CommandSelectedMsg reports a committed candidate together with the rune
// range its Apply must delete first.
type CommandSelectedMsg struct {
	Command command.Command
	Range   document.Range
}

// SuggestDialog is the suggestion popup controller. It owns the session
// state; the editor only feeds it open/filter/close events.
type SuggestDialog interface {
	tea.Model
	layout.Bindings

	IsOpen() bool
	Anchor() Anchor
	InBounds(msg tea.MouseMsg) bool
}

type suggestDialogCmp struct {
	registry *command.Registry

	open        bool
	query       string
	rng         document.Range
	anchor      Anchor
	candidates  []command.Command
	selectedIdx int
}

type suggestKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Enter  key.Binding
	Escape key.Binding
}

var suggestKeys = suggestKeyMap{
	Up: key.NewBinding(
		key.WithKeys("up"),
		key.WithHelp("↑", "previous command"),
	),
	Down: key.NewBinding(
		key.WithKeys("down"),
		key.WithHelp("↓", "next command"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "insert"),
	),
	Escape: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "dismiss"),
	),
}

func (s *suggestDialogCmp) Init() tea.Cmd {
	return nil
}

func (s *suggestDialogCmp) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ShowSuggestionsMsg:
		// A fresh trigger replaces any session still around.
		s.open = true
		s.query = msg.Query
		s.rng = msg.Range
		s.anchor = msg.Anchor
		s.refilter()
		return s, nil

	case FilterSuggestionsMsg:
		if !s.open {
			return s, nil
		}
		s.rng = msg.Range
		s.anchor = msg.Anchor
		if msg.Query != s.query {
			s.query = msg.Query
			s.refilter()
		}
		return s, nil

	case CloseSuggestionsMsg:
		s.reset()
		return s, nil

	case tea.KeyMsg:
		if !s.open {
			return s, nil
		}
		switch {
		case key.Matches(msg, suggestKeys.Up):
			s.move(-1)
		case key.Matches(msg, suggestKeys.Down):
			s.move(1)
		case key.Matches(msg, suggestKeys.Enter):
			return s, s.commit(s.selectedIdx)
		case key.Matches(msg, suggestKeys.Escape):
			s.reset()
		}
		return s, nil

	case tea.MouseMsg:
		if !s.open || msg.Type != tea.MouseLeft {
			return s, nil
		}
		for i := range s.candidates {
			if zone.Get(s.zoneID(i)).InBounds(msg) {
				s.selectedIdx = i
				return s, s.commit(i)
			}
		}
		return s, nil
	}

	return s, nil
}

// refilter recomputes the candidate list for the current query. The
// highlight always snaps back to the top of the new list.
func (s *suggestDialogCmp) refilter() {
	s.candidates = command.Filter(s.registry, s.query)
	s.selectedIdx = 0
}

// move steps the highlight, wrapping at both ends.
func (s *suggestDialogCmp) move(delta int) {
	n := len(s.candidates)
	if n == 0 {
		return
	}
	s.selectedIdx = ((s.selectedIdx+delta)%n + n) % n
}

// commit selects a candidate and hands it to the page. Enter on an empty
// list is consumed without effect; the session stays open.
func (s *suggestDialogCmp) commit(idx int) tea.Cmd {
	if len(s.candidates) == 0 {
		return nil
	}
	selected := s.candidates[idx]
	rng := s.rng
	s.reset()
	return util.CmdHandler(CommandSelectedMsg{Command: selected, Range: rng})
}

func (s *suggestDialogCmp) reset() {
	s.open = false
	s.query = ""
	s.rng = document.Range{}
	s.candidates = nil
	s.selectedIdx = 0
}

func (s *suggestDialogCmp) zoneID(i int) string {
	return "suggest-" + s.candidates[i].ID
}

func (s *suggestDialogCmp) View() string {
	if !s.open || len(s.candidates) == 0 {
		// No matches keeps the session alive but paints nothing; the next
		// query change can bring candidates back.
		return ""
	}

	t := theme.CurrentTheme()
	base := styles.BaseStyle()
	itemWidth := suggestDialogWidth - 2

	rows := make([]string, 0, len(s.candidates))
	for i, c := range s.candidates {
		label := c.Icon + " " + c.Title
		row := base.Width(itemWidth).Padding(0, 1)
		text := base.Bold(true).Render(label) +
			base.Foreground(t.TextMuted()).Render("  "+c.Description)
		if i == s.selectedIdx {
			sel := lipgloss.NewStyle().
				Background(t.Primary()).
				Foreground(t.Background())
			row = row.Background(t.Primary())
			text = sel.Bold(true).Render(label) + sel.Render("  "+c.Description)
		}
		rows = append(rows, zone.Mark(s.zoneID(i), row.Render(text)))
	}

	content := lipgloss.JoinVertical(lipgloss.Left, rows...)
	return styles.BaseStyle().
		Padding(0, 0).
		Border(lipgloss.RoundedBorder()).
		BorderBackground(t.Background()).
		BorderForeground(t.BorderFocused()).
		Width(suggestDialogWidth).
		Render(content)
}

func (s *suggestDialogCmp) IsOpen() bool {
	return s.open
}

// InBounds reports whether a mouse event lands on one of the popup rows.
// The page uses it to keep popup clicks away from the editor, which would
// otherwise steal focus from the trigger block before the commit lands.
func (s *suggestDialogCmp) InBounds(msg tea.MouseMsg) bool {
	if !s.open {
		return false
	}
	for i := range s.candidates {
		if zone.Get(s.zoneID(i)).InBounds(msg) {
			return true
		}
	}
	return false
}

func (s *suggestDialogCmp) Anchor() Anchor {
	return s.anchor
}

func (s *suggestDialogCmp) BindingKeys() []key.Binding {
	return layout.KeyMapToSlice(suggestKeys)
}

func NewSuggestDialog(registry *command.Registry) SuggestDialog {
	return &suggestDialogCmp{registry: registry}
}
