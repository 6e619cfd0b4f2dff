package theme

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// LoadCustomTheme registers a "custom" theme built from hex color overrides
// in the user's config. Unspecified colors fall back to the default theme;
// derived backgrounds are blended from the configured background.
func LoadCustomTheme(colors map[string]string) error {
	base := NewNotedownTheme()
	theme := &NotedownTheme{BaseTheme: base.BaseTheme}

	slots := map[string]*lipgloss.AdaptiveColor{
		"primary":    &theme.PrimaryColor,
		"secondary":  &theme.SecondaryColor,
		"accent":     &theme.AccentColor,
		"error":      &theme.ErrorColor,
		"warning":    &theme.WarningColor,
		"success":    &theme.SuccessColor,
		"info":       &theme.InfoColor,
		"text":       &theme.TextColor,
		"textMuted":  &theme.TextMutedColor,
		"background": &theme.BackgroundColor,
		"border":     &theme.BorderNormalColor,
	}

	for name, hex := range colors {
		slot, ok := slots[name]
		if !ok {
			return fmt.Errorf("unknown theme color %q", name)
		}
		c, err := colorful.Hex(hex)
		if err != nil {
			return fmt.Errorf("theme color %q: %w", name, err)
		}
		// Same value in both modes: a custom theme targets one palette.
		*slot = lipgloss.AdaptiveColor{Dark: c.Hex(), Light: c.Hex()}
	}

	if hex, ok := colors["background"]; ok {
		bg, err := colorful.Hex(hex)
		if err != nil {
			return fmt.Errorf("theme color %q: %w", "background", err)
		}
		secondary := bg.BlendLab(colorful.Color{R: 1, G: 1, B: 1}, 0.03).Hex()
		darker := bg.BlendLab(colorful.Color{}, 0.25).Hex()
		theme.BackgroundSecondaryColor = lipgloss.AdaptiveColor{Dark: secondary, Light: secondary}
		theme.BackgroundDarkerColor = lipgloss.AdaptiveColor{Dark: darker, Light: darker}
	}

	theme.BorderFocusedColor = theme.PrimaryColor
	theme.MarkdownHeadingColor = theme.PrimaryColor
	theme.MarkdownListItemColor = theme.SecondaryColor
	theme.MarkdownLinkColor = theme.SecondaryColor

	RegisterTheme("custom", theme)
	return nil
}
