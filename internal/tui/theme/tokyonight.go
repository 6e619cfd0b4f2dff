package theme

import (
	"github.com/charmbracelet/lipgloss"
)

// TokyoNightTheme implements the Theme interface with Tokyo Night colors.
// It provides both dark and light variants.
type TokyoNightTheme struct {
	BaseTheme
}

// NewTokyoNightTheme creates a new instance of the Tokyo Night theme.
func NewTokyoNightTheme() *TokyoNightTheme {
	// Dark mode - Tokyo Night Moon variant
	darkBackground := "#1a1b26"
	darkCurrentLine := "#1e2030"
	darkSelection := "#292e42"
	darkForeground := "#c8d3f5"
	darkComment := "#828bb8"
	darkBlue := "#82aaff"
	darkPurple := "#c099ff"
	darkOrange := "#ff966c"
	darkRed := "#ff757f"
	darkYellow := "#ffc777"
	darkGreen := "#c3e88d"
	darkCyan := "#86e1fc"
	darkBorder := "#545c7e"

	// Light mode - Tokyo Night Day variant
	lightBackground := "#e1e2e7"
	lightCurrentLine := "#d5d6db"
	lightSelection := "#a8aecb"
	lightForeground := "#3760bf"
	lightComment := "#8990a3"
	lightBlue := "#2e7de9"
	lightPurple := "#9854f1"
	lightOrange := "#b15c00"
	lightRed := "#f52a65"
	lightYellow := "#8c6c3e"
	lightGreen := "#587539"
	lightCyan := "#007197"
	lightBorder := "#9699a8"

	theme := &TokyoNightTheme{}

	theme.PrimaryColor = lipgloss.AdaptiveColor{Dark: darkBlue, Light: lightBlue}
	theme.SecondaryColor = lipgloss.AdaptiveColor{Dark: darkPurple, Light: lightPurple}
	theme.AccentColor = lipgloss.AdaptiveColor{Dark: darkOrange, Light: lightOrange}

	theme.ErrorColor = lipgloss.AdaptiveColor{Dark: darkRed, Light: lightRed}
	theme.WarningColor = lipgloss.AdaptiveColor{Dark: darkOrange, Light: lightOrange}
	theme.SuccessColor = lipgloss.AdaptiveColor{Dark: darkGreen, Light: lightGreen}
	theme.InfoColor = lipgloss.AdaptiveColor{Dark: darkCyan, Light: lightCyan}

	theme.TextColor = lipgloss.AdaptiveColor{Dark: darkForeground, Light: lightForeground}
	theme.TextMutedColor = lipgloss.AdaptiveColor{Dark: darkComment, Light: lightComment}
	theme.TextEmphasizedColor = lipgloss.AdaptiveColor{Dark: darkYellow, Light: lightYellow}

	theme.BackgroundColor = lipgloss.AdaptiveColor{Dark: darkBackground, Light: lightBackground}
	theme.BackgroundSecondaryColor = lipgloss.AdaptiveColor{Dark: darkCurrentLine, Light: lightCurrentLine}
	theme.BackgroundDarkerColor = lipgloss.AdaptiveColor{Dark: "#16161e", Light: "#f0f0f5"}

	theme.BorderNormalColor = lipgloss.AdaptiveColor{Dark: darkBorder, Light: lightBorder}
	theme.BorderFocusedColor = theme.PrimaryColor
	theme.BorderDimColor = lipgloss.AdaptiveColor{Dark: darkSelection, Light: lightSelection}

	theme.DiffAddedColor = lipgloss.AdaptiveColor{Dark: darkGreen, Light: lightGreen}
	theme.DiffRemovedColor = lipgloss.AdaptiveColor{Dark: darkRed, Light: lightRed}
	theme.DiffAddedBgColor = lipgloss.AdaptiveColor{Dark: "#20303b", Light: "#d5e5d5"}
	theme.DiffRemovedBgColor = lipgloss.AdaptiveColor{Dark: "#37222c", Light: "#f7d8db"}

	theme.MarkdownHeadingColor = theme.PrimaryColor
	theme.MarkdownCodeColor = lipgloss.AdaptiveColor{Dark: darkGreen, Light: lightGreen}
	theme.MarkdownBlockQuoteColor = lipgloss.AdaptiveColor{Dark: darkYellow, Light: lightYellow}
	theme.MarkdownListItemColor = theme.SecondaryColor
	theme.MarkdownLinkColor = lipgloss.AdaptiveColor{Dark: darkCyan, Light: lightCyan}

	return theme
}

func init() {
	RegisterTheme("tokyonight", NewTokyoNightTheme())
}
