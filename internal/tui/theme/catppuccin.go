package theme

import (
	catppuccin "github.com/catppuccin/go"
	"github.com/charmbracelet/lipgloss"
)

// CatppuccinTheme implements the Theme interface using the catppuccin
// palette library: Mocha for dark terminals, Latte for light ones.
type CatppuccinTheme struct {
	BaseTheme
}

// NewCatppuccinTheme creates a new instance of the Catppuccin theme.
func NewCatppuccinTheme() *CatppuccinTheme {
	mocha := catppuccin.Mocha
	latte := catppuccin.Latte

	adaptive := func(dark, light catppuccin.Color) lipgloss.AdaptiveColor {
		return lipgloss.AdaptiveColor{Dark: dark.Hex, Light: light.Hex}
	}

	theme := &CatppuccinTheme{}

	theme.PrimaryColor = adaptive(mocha.Mauve(), latte.Mauve())
	theme.SecondaryColor = adaptive(mocha.Blue(), latte.Blue())
	theme.AccentColor = adaptive(mocha.Peach(), latte.Peach())

	theme.ErrorColor = adaptive(mocha.Red(), latte.Red())
	theme.WarningColor = adaptive(mocha.Yellow(), latte.Yellow())
	theme.SuccessColor = adaptive(mocha.Green(), latte.Green())
	theme.InfoColor = adaptive(mocha.Sky(), latte.Sky())

	theme.TextColor = adaptive(mocha.Text(), latte.Text())
	theme.TextMutedColor = adaptive(mocha.Overlay1(), latte.Overlay1())
	theme.TextEmphasizedColor = adaptive(mocha.Rosewater(), latte.Rosewater())

	theme.BackgroundColor = adaptive(mocha.Base(), latte.Base())
	theme.BackgroundSecondaryColor = adaptive(mocha.Mantle(), latte.Mantle())
	theme.BackgroundDarkerColor = adaptive(mocha.Crust(), latte.Crust())

	theme.BorderNormalColor = adaptive(mocha.Surface1(), latte.Surface1())
	theme.BorderFocusedColor = theme.PrimaryColor
	theme.BorderDimColor = adaptive(mocha.Surface0(), latte.Surface0())

	theme.DiffAddedColor = adaptive(mocha.Green(), latte.Green())
	theme.DiffRemovedColor = adaptive(mocha.Red(), latte.Red())
	theme.DiffAddedBgColor = lipgloss.AdaptiveColor{Dark: "#2A3429", Light: "#E8F5E9"}
	theme.DiffRemovedBgColor = lipgloss.AdaptiveColor{Dark: "#332929", Light: "#FFEBEE"}

	theme.MarkdownHeadingColor = theme.PrimaryColor
	theme.MarkdownCodeColor = adaptive(mocha.Green(), latte.Green())
	theme.MarkdownBlockQuoteColor = adaptive(mocha.Yellow(), latte.Yellow())
	theme.MarkdownListItemColor = theme.SecondaryColor
	theme.MarkdownLinkColor = adaptive(mocha.Lavender(), latte.Lavender())

	return theme
}

func init() {
	RegisterTheme("catppuccin", NewCatppuccinTheme())
}
