package styles

import (
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/ansi"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/notedown-sh/notedown/internal/tui/theme"
)

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }
func uintPtr(u uint) *uint    { return &u }

// adaptiveColor picks the side of an adaptive color matching the actual
// terminal background, since glamour styles carry plain color strings.
func adaptiveColor(c lipgloss.AdaptiveColor) *string {
	if termenv.HasDarkBackground() {
		return strPtr(c.Dark)
	}
	return strPtr(c.Light)
}

// markdownStyleConfig builds a glamour style from the current theme so
// rendered previews match the rest of the UI.
func markdownStyleConfig() ansi.StyleConfig {
	t := theme.CurrentTheme()

	text := adaptiveColor(t.Text())
	muted := adaptiveColor(t.TextMuted())
	heading := adaptiveColor(t.MarkdownHeading())
	code := adaptiveColor(t.MarkdownCode())
	quote := adaptiveColor(t.MarkdownBlockQuote())
	link := adaptiveColor(t.MarkdownLink())
	listItem := adaptiveColor(t.MarkdownListItem())

	return ansi.StyleConfig{
		Document: ansi.StyleBlock{
			StylePrimitive: ansi.StylePrimitive{
				Color: text,
			},
			Margin: uintPtr(0),
		},
		BlockQuote: ansi.StyleBlock{
			StylePrimitive: ansi.StylePrimitive{
				Color:  quote,
				Italic: boolPtr(true),
			},
			Indent:      uintPtr(1),
			IndentToken: strPtr("┃ "),
		},
		Paragraph: ansi.StyleBlock{
			StylePrimitive: ansi.StylePrimitive{
				Color: text,
			},
		},
		List: ansi.StyleList{
			StyleBlock: ansi.StyleBlock{
				StylePrimitive: ansi.StylePrimitive{
					Color: text,
				},
			},
			LevelIndent: 2,
		},
		Heading: ansi.StyleBlock{
			StylePrimitive: ansi.StylePrimitive{
				Color: heading,
				Bold:  boolPtr(true),
			},
		},
		H1: ansi.StyleBlock{
			StylePrimitive: ansi.StylePrimitive{
				Prefix: "# ",
				Color:  heading,
				Bold:   boolPtr(true),
			},
		},
		H2: ansi.StyleBlock{
			StylePrimitive: ansi.StylePrimitive{
				Prefix: "## ",
				Color:  heading,
				Bold:   boolPtr(true),
			},
		},
		H3: ansi.StyleBlock{
			StylePrimitive: ansi.StylePrimitive{
				Prefix: "### ",
				Color:  heading,
				Bold:   boolPtr(true),
			},
		},
		Emph: ansi.StylePrimitive{
			Italic: boolPtr(true),
		},
		Strong: ansi.StylePrimitive{
			Bold: boolPtr(true),
		},
		HorizontalRule: ansi.StylePrimitive{
			Color:  muted,
			Format: "\n─────────────────────────\n",
		},
		Item: ansi.StylePrimitive{
			BlockPrefix: "• ",
			Color:       listItem,
		},
		Enumeration: ansi.StylePrimitive{
			BlockSuffix: ". ",
			Color:       listItem,
		},
		Link: ansi.StylePrimitive{
			Color:     link,
			Underline: boolPtr(true),
		},
		LinkText: ansi.StylePrimitive{
			Color: link,
		},
		Code: ansi.StyleBlock{
			StylePrimitive: ansi.StylePrimitive{
				Color: code,
			},
		},
		CodeBlock: ansi.StyleCodeBlock{
			StyleBlock: ansi.StyleBlock{
				StylePrimitive: ansi.StylePrimitive{
					Color: code,
				},
				Margin: uintPtr(1),
			},
		},
		Text: ansi.StylePrimitive{
			Color: text,
		},
	}
}

// GetMarkdownRenderer returns a glamour renderer themed to the current
// theme, wrapped at the given width.
func GetMarkdownRenderer(width int) *glamour.TermRenderer {
	r, _ := glamour.NewTermRenderer(
		glamour.WithStyles(markdownStyleConfig()),
		glamour.WithWordWrap(width),
	)
	return r
}
