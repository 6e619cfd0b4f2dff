// Package format renders notes for export and non-interactive output.
package format

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/charmbracelet/glamour"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// OutputFormat selects how a note body is rendered on the way out.
type OutputFormat string

const (
	// MarkdownFormat passes the note body through untouched (default).
	MarkdownFormat OutputFormat = "markdown"

	// TextFormat strips markdown styling via a no-color glamour render.
	TextFormat OutputFormat = "text"

	// TerminalFormat renders markdown with ANSI styling for terminals.
	TerminalFormat OutputFormat = "terminal"

	// JSONFormat wraps the note in a JSON object.
	JSONFormat OutputFormat = "json"

	// HTMLFormat converts the note body to HTML.
	HTMLFormat OutputFormat = "html"
)

// IsValid checks if the output format is valid
func (f OutputFormat) IsValid() bool {
	switch f {
	case MarkdownFormat, TextFormat, TerminalFormat, JSONFormat, HTMLFormat:
		return true
	}
	return false
}

// String returns the string representation of the output format
func (f OutputFormat) String() string {
	return string(f)
}

// FormatNote renders a note body according to the given format. The title is
// only used by formats that carry structure (json).
func FormatNote(title, body string, format OutputFormat) (string, error) {
	switch format {
	case MarkdownFormat:
		return body, nil
	case TextFormat:
		r, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle("notty"),
			glamour.WithWordWrap(0),
		)
		if err != nil {
			return "", fmt.Errorf("glamour.NewTermRenderer: %w", err)
		}
		return r.Render(body)
	case TerminalFormat:
		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(80),
		)
		if err != nil {
			return "", fmt.Errorf("glamour.NewTermRenderer: %w", err)
		}
		return r.Render(body)
	case JSONFormat:
		jsonData := map[string]string{
			"title": title,
			"body":  body,
		}
		jsonBytes, err := json.MarshalIndent(jsonData, "", "  ")
		if err != nil {
			return "", fmt.Errorf("failed to marshal JSON: %w", err)
		}
		return string(jsonBytes), nil
	case HTMLFormat:
		md := goldmark.New(goldmark.WithExtensions(extension.GFM))
		var buf bytes.Buffer
		if err := md.Convert([]byte(body), &buf); err != nil {
			return "", fmt.Errorf("goldmark.Convert: %w", err)
		}
		return buf.String(), nil
	default:
		return "", fmt.Errorf("unsupported output format: %s", format)
	}
}
