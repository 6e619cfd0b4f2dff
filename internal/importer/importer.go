// Package importer converts external content (HTML pages, clipboard dumps)
// into notes.
package importer

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"

	"github.com/notedown-sh/notedown/internal/document"
)

// Result holds the converted content of an import.
type Result struct {
	Title    string
	Markdown string
	Document document.Document
}

// FromHTML converts an HTML page into a note. Chrome elements (scripts,
// styles, navigation) are stripped before conversion; the page title becomes
// the note title.
func FromHTML(html string) (Result, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return Result{}, fmt.Errorf("goquery.NewDocumentFromReader: %w", err)
	}

	title := strings.TrimSpace(doc.Find("title").First().Text())
	doc.Find("script, style, nav, header, footer, iframe, noscript").Remove()

	body, err := doc.Find("body").Html()
	if err != nil {
		return Result{}, fmt.Errorf("extracting body: %w", err)
	}
	if strings.TrimSpace(body) == "" {
		body = html
	}

	converter := md.NewConverter("", true, nil)
	markdown, err := converter.ConvertString(body)
	if err != nil {
		return Result{}, fmt.Errorf("failed to convert HTML to markdown: %w", err)
	}
	markdown = strings.TrimSpace(markdown) + "\n"

	parsed := document.ParseMarkdown([]byte(markdown))
	if title == "" {
		title = firstHeading(parsed)
	}

	return Result{
		Title:    title,
		Markdown: markdown,
		Document: parsed,
	}, nil
}

// FromURL fetches a page and converts it. Response bodies are capped at 5MB.
func FromURL(ctx context.Context, url string) (Result, error) {
	client := &http.Client{
		Timeout: 30 * time.Second,
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Result{}, fmt.Errorf("http.NewRequestWithContext: %w", err)
	}
	// Some sites block requests without a browser User-Agent.
	req.Header.Set("User-Agent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")

	resp, err := client.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Result{}, fmt.Errorf("HTTP error: %s", resp.Status)
	}

	const maxBytes = 5 * 1024 * 1024
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBytes))
	if err != nil {
		return Result{}, fmt.Errorf("reading response body: %w", err)
	}

	return FromHTML(string(body))
}

func firstHeading(doc document.Document) string {
	for _, b := range doc.Blocks {
		if b.Type == document.Heading {
			return b.Text
		}
	}
	return "Imported note"
}
