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

const (
	numVisibleThemes = 10
	themeDialogWidth = 36
)

// ThemeSelectedMsg is sent when a theme is applied for good.
type ThemeSelectedMsg struct {
	ThemeName string
}

// CloseThemeDialogMsg dismisses the theme dialog.
type CloseThemeDialogMsg struct{}

// ThemeDialog lists the registered themes and previews them live as the
// selection moves; escape restores whatever was active before.
type ThemeDialog interface {
	tea.Model
	layout.Bindings
}

type themeDialogCmp struct {
	themes        []string
	originalTheme string

	selectedIdx  int
	scrollOffset int
}

type themeKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Enter  key.Binding
	Escape key.Binding
	J      key.Binding
	K      key.Binding
}

var themeKeys = themeKeyMap{
	Up: key.NewBinding(
		key.WithKeys("up"),
		key.WithHelp("↑", "previous theme"),
	),
	Down: key.NewBinding(
		key.WithKeys("down"),
		key.WithHelp("↓", "next theme"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "apply theme"),
	),
	Escape: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "close"),
	),
	J: key.NewBinding(
		key.WithKeys("j"),
		key.WithHelp("j", "next theme"),
	),
	K: key.NewBinding(
		key.WithKeys("k"),
		key.WithHelp("k", "previous theme"),
	),
}

func (d *themeDialogCmp) Init() tea.Cmd {
	return nil
}

func (d *themeDialogCmp) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, themeKeys.Up) || key.Matches(msg, themeKeys.K):
			d.moveSelection(-1)
			d.preview()
		case key.Matches(msg, themeKeys.Down) || key.Matches(msg, themeKeys.J):
			d.moveSelection(1)
			d.preview()
		case key.Matches(msg, themeKeys.Enter):
			name := d.themes[d.selectedIdx]
			if err := theme.SetTheme(name); err != nil {
				return d, util.CmdHandler(CloseThemeDialogMsg{})
			}
			return d, tea.Sequence(
				util.CmdHandler(CloseThemeDialogMsg{}),
				util.CmdHandler(ThemeSelectedMsg{ThemeName: name}),
			)
		case key.Matches(msg, themeKeys.Escape):
			theme.SetTheme(d.originalTheme)
			return d, util.CmdHandler(CloseThemeDialogMsg{})
		}
	}
	return d, nil
}

func (d *themeDialogCmp) moveSelection(delta int) {
	n := len(d.themes)
	if n == 0 {
		return
	}
	d.selectedIdx = ((d.selectedIdx+delta)%n + n) % n
	if d.selectedIdx < d.scrollOffset {
		d.scrollOffset = d.selectedIdx
	}
	if d.selectedIdx >= d.scrollOffset+numVisibleThemes {
		d.scrollOffset = d.selectedIdx - (numVisibleThemes - 1)
	}
}

func (d *themeDialogCmp) preview() {
	theme.SetTheme(d.themes[d.selectedIdx])
}

func (d *themeDialogCmp) View() string {
	t := theme.CurrentTheme()
	base := styles.BaseStyle()

	title := base.Bold(true).
		Foreground(t.Primary()).
		Padding(0, 1).
		Render("Theme")

	end := min(d.scrollOffset+numVisibleThemes, len(d.themes))
	rows := make([]string, 0, end-d.scrollOffset)
	for i := d.scrollOffset; i < end; i++ {
		style := base.Width(themeDialogWidth - 4).Padding(0, 1)
		if i == d.selectedIdx {
			style = style.Background(t.Primary()).Foreground(t.Background())
		}
		rows = append(rows, style.Render(d.themes[i]))
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
		Width(themeDialogWidth).
		Render(content)
}

func (d *themeDialogCmp) BindingKeys() []key.Binding {
	return layout.KeyMapToSlice(themeKeys)
}

func NewThemeDialog() ThemeDialog {
	themes := theme.AvailableThemes()
	current := theme.CurrentThemeName()
	selectedIdx := 0
	for i, name := range themes {
		if name == current {
			selectedIdx = i
		}
	}
	return &themeDialogCmp{
		themes:        themes,
		originalTheme: current,
		selectedIdx:   selectedIdx,
	}
}
