package theme

import (
	"github.com/charmbracelet/lipgloss"
)

// NotedownTheme implements the Theme interface with the default notedown
// colors. It provides both dark and light variants.
type NotedownTheme struct {
	BaseTheme
}

// NewNotedownTheme creates a new instance of the default theme.
func NewNotedownTheme() *NotedownTheme {
	// Dark mode colors
	darkBackground := "#212121"
	darkCurrentLine := "#252525"
	darkSelection := "#303030"
	darkForeground := "#e0e0e0"
	darkComment := "#6a6a6a"
	darkPrimary := "#fab283"
	darkSecondary := "#5c9cf5"
	darkAccent := "#9d7cd8"
	darkRed := "#e06c75"
	darkOrange := "#f5a742"
	darkGreen := "#7fd88f"
	darkCyan := "#56b6c2"
	darkYellow := "#e5c07b"
	darkBorder := "#4b4c5c"

	// Light mode colors
	lightBackground := "#f8f8f7"
	lightCurrentLine := "#f0f0ef"
	lightSelection := "#e5e5e4"
	lightForeground := "#2a2a2a"
	lightComment := "#8a8a8a"
	lightPrimary := "#3b7dd8"
	lightSecondary := "#7b5bb6"
	lightAccent := "#d68c27"
	lightRed := "#d1383d"
	lightOrange := "#d68c27"
	lightGreen := "#3d9a57"
	lightCyan := "#318795"
	lightYellow := "#b0851f"
	lightBorder := "#d3d3d2"

	theme := &NotedownTheme{}

	theme.PrimaryColor = lipgloss.AdaptiveColor{
		Dark:  darkPrimary,
		Light: lightPrimary,
	}
	theme.SecondaryColor = lipgloss.AdaptiveColor{
		Dark:  darkSecondary,
		Light: lightSecondary,
	}
	theme.AccentColor = lipgloss.AdaptiveColor{
		Dark:  darkAccent,
		Light: lightAccent,
	}

	theme.ErrorColor = lipgloss.AdaptiveColor{
		Dark:  darkRed,
		Light: lightRed,
	}
	theme.WarningColor = lipgloss.AdaptiveColor{
		Dark:  darkOrange,
		Light: lightOrange,
	}
	theme.SuccessColor = lipgloss.AdaptiveColor{
		Dark:  darkGreen,
		Light: lightGreen,
	}
	theme.InfoColor = lipgloss.AdaptiveColor{
		Dark:  darkCyan,
		Light: lightCyan,
	}

	theme.TextColor = lipgloss.AdaptiveColor{
		Dark:  darkForeground,
		Light: lightForeground,
	}
	theme.TextMutedColor = lipgloss.AdaptiveColor{
		Dark:  darkComment,
		Light: lightComment,
	}
	theme.TextEmphasizedColor = lipgloss.AdaptiveColor{
		Dark:  darkYellow,
		Light: lightYellow,
	}

	theme.BackgroundColor = lipgloss.AdaptiveColor{
		Dark:  darkBackground,
		Light: lightBackground,
	}
	theme.BackgroundSecondaryColor = lipgloss.AdaptiveColor{
		Dark:  darkCurrentLine,
		Light: lightCurrentLine,
	}
	theme.BackgroundDarkerColor = lipgloss.AdaptiveColor{
		Dark:  "#121212",
		Light: "#ffffff",
	}

	theme.BorderNormalColor = lipgloss.AdaptiveColor{
		Dark:  darkBorder,
		Light: lightBorder,
	}
	theme.BorderFocusedColor = theme.PrimaryColor
	theme.BorderDimColor = lipgloss.AdaptiveColor{
		Dark:  darkSelection,
		Light: lightSelection,
	}

	theme.DiffAddedColor = lipgloss.AdaptiveColor{
		Dark:  "#478247",
		Light: "#2E7D32",
	}
	theme.DiffRemovedColor = lipgloss.AdaptiveColor{
		Dark:  "#7C4444",
		Light: "#C62828",
	}
	theme.DiffAddedBgColor = lipgloss.AdaptiveColor{
		Dark:  "#2A3429",
		Light: "#E8F5E9",
	}
	theme.DiffRemovedBgColor = lipgloss.AdaptiveColor{
		Dark:  "#332929",
		Light: "#FFEBEE",
	}

	theme.MarkdownHeadingColor = theme.PrimaryColor
	theme.MarkdownCodeColor = lipgloss.AdaptiveColor{
		Dark:  darkGreen,
		Light: lightGreen,
	}
	theme.MarkdownBlockQuoteColor = lipgloss.AdaptiveColor{
		Dark:  darkYellow,
		Light: lightYellow,
	}
	theme.MarkdownListItemColor = theme.SecondaryColor
	theme.MarkdownLinkColor = theme.SecondaryColor

	return theme
}

func init() {
	RegisterTheme("notedown", NewNotedownTheme())
}
