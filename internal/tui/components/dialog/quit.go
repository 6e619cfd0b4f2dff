package dialog

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/notedown-sh/notedown/internal/tui/layout"
	"github.com/notedown-sh/notedown/internal/tui/styles"
	"github.com/notedown-sh/notedown/internal/tui/theme"
	"github.com/notedown-sh/notedown/internal/tui/util"
)

const quitQuestion = "Quit without saving changes?"

// CloseQuitDialogMsg dismisses the quit confirmation.
type CloseQuitDialogMsg struct{}

// QuitConfirmedMsg tells the app to save (when asked) and exit.
type QuitConfirmedMsg struct {
	Save bool
}

type QuitDialog interface {
	tea.Model
	layout.Bindings
}

type quitDialogCmp struct {
	selectedNo bool
}

type quitKeyMap struct {
	LeftRight  key.Binding
	EnterSpace key.Binding
	Yes        key.Binding
	No         key.Binding
	Escape     key.Binding
}

var quitKeys = quitKeyMap{
	LeftRight: key.NewBinding(
		key.WithKeys("left", "right", "h", "l", "tab"),
		key.WithHelp("←/→", "switch options"),
	),
	EnterSpace: key.NewBinding(
		key.WithKeys("enter", " "),
		key.WithHelp("enter/space", "confirm"),
	),
	Yes: key.NewBinding(
		key.WithKeys("y", "Y"),
		key.WithHelp("y/Y", "yes"),
	),
	No: key.NewBinding(
		key.WithKeys("n", "N"),
		key.WithHelp("n/N", "no"),
	),
	Escape: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "close"),
	),
}

func (q *quitDialogCmp) Init() tea.Cmd {
	return nil
}

func (q *quitDialogCmp) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, quitKeys.LeftRight):
			q.selectedNo = !q.selectedNo
			return q, nil
		case key.Matches(msg, quitKeys.EnterSpace):
			if !q.selectedNo {
				return q, util.CmdHandler(QuitConfirmedMsg{})
			}
			return q, util.CmdHandler(CloseQuitDialogMsg{})
		case key.Matches(msg, quitKeys.Yes):
			return q, util.CmdHandler(QuitConfirmedMsg{})
		case key.Matches(msg, quitKeys.No), key.Matches(msg, quitKeys.Escape):
			return q, util.CmdHandler(CloseQuitDialogMsg{})
		}
	}
	return q, nil
}

func (q *quitDialogCmp) View() string {
	t := theme.CurrentTheme()
	base := styles.BaseStyle()

	yesStyle := base
	noStyle := base
	if q.selectedNo {
		noStyle = noStyle.Background(t.Primary()).Foreground(t.Background())
		yesStyle = yesStyle.Foreground(t.Primary())
	} else {
		yesStyle = yesStyle.Background(t.Primary()).Foreground(t.Background())
		noStyle = noStyle.Foreground(t.Primary())
	}

	yesButton := yesStyle.Padding(0, 2).Render("Yes")
	noButton := noStyle.Padding(0, 2).Render("No")
	buttons := lipgloss.JoinHorizontal(lipgloss.Left, yesButton, base.Render("  "), noButton)

	width := lipgloss.Width(quitQuestion)
	pad := width - lipgloss.Width(buttons)
	if pad > 0 {
		buttons = base.Render(strings.Repeat(" ", pad/2)) + buttons
	}

	content := base.Render(
		lipgloss.JoinVertical(
			lipgloss.Center,
			base.Render(quitQuestion),
			base.Render(""),
			buttons,
		),
	)

	return base.
		Padding(1, 2).
		Border(lipgloss.RoundedBorder()).
		BorderBackground(t.Background()).
		BorderForeground(t.BorderFocused()).
		Render(content)
}

func (q *quitDialogCmp) BindingKeys() []key.Binding {
	return layout.KeyMapToSlice(quitKeys)
}

func NewQuitDialog() QuitDialog {
	return &quitDialogCmp{selectedNo: true}
}
