package dialog

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/notedown-sh/notedown/internal/tui/layout"
	"github.com/notedown-sh/notedown/internal/tui/styles"
	"github.com/notedown-sh/notedown/internal/tui/theme"
	"github.com/notedown-sh/notedown/internal/tui/util"
)

const helpDialogWidth = 56

// CloseHelpDialogMsg dismisses the help overlay.
type CloseHelpDialogMsg struct{}

type HelpDialog interface {
	tea.Model
	layout.Bindings

	SetBindings(bindings []key.Binding)
}

type helpDialogCmp struct {
	bindings []key.Binding
}

func (h *helpDialogCmp) Init() tea.Cmd {
	return nil
}

func (h *helpDialogCmp) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "?", "q":
			return h, util.CmdHandler(CloseHelpDialogMsg{})
		}
	}
	return h, nil
}

func (h *helpDialogCmp) View() string {
	t := theme.CurrentTheme()
	base := styles.BaseStyle()

	title := base.Bold(true).
		Foreground(t.Primary()).
		Padding(0, 1).
		Render("Keyboard shortcuts")

	keyWidth := 0
	for _, b := range h.bindings {
		if w := lipgloss.Width(b.Help().Key); w > keyWidth {
			keyWidth = w
		}
	}

	seen := map[string]struct{}{}
	rows := make([]string, 0, len(h.bindings))
	for _, b := range h.bindings {
		help := b.Help()
		if help.Key == "" && help.Desc == "" {
			continue
		}
		if _, dup := seen[help.Key]; dup {
			continue
		}
		seen[help.Key] = struct{}{}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Left,
			base.Width(keyWidth+2).Padding(0, 1).Foreground(t.Accent()).Render(help.Key),
			base.Foreground(t.Text()).Render(help.Desc),
		))
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		title,
		base.Render(""),
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)

	return base.
		Padding(1, 1).
		Border(lipgloss.RoundedBorder()).
		BorderBackground(t.Background()).
		BorderForeground(t.BorderFocused()).
		Width(helpDialogWidth).
		Render(content)
}

func (h *helpDialogCmp) SetBindings(bindings []key.Binding) {
	h.bindings = bindings
}

func (h *helpDialogCmp) BindingKeys() []key.Binding {
	return h.bindings
}

func NewHelpDialog() HelpDialog {
	return &helpDialogCmp{}
}
