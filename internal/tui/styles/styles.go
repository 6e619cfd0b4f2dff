package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/notedown-sh/notedown/internal/tui/theme"
)

// BaseStyle returns the base style with background and text colors from the
// current theme.
func BaseStyle() lipgloss.Style {
	t := theme.CurrentTheme()
	return lipgloss.NewStyle().
		Background(t.Background()).
		Foreground(t.Text())
}

// Padded returns the base style with standard horizontal padding.
func Padded() lipgloss.Style {
	return BaseStyle().Padding(0, 1)
}

// Bold returns the base style with bold text.
func Bold() lipgloss.Style {
	return BaseStyle().Bold(true)
}

// Muted returns the base style with muted text color.
func Muted() lipgloss.Style {
	t := theme.CurrentTheme()
	return BaseStyle().Foreground(t.TextMuted())
}

// Regular returns a style with no decoration.
func Regular() lipgloss.Style {
	return lipgloss.NewStyle()
}
