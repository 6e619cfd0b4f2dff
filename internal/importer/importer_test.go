package importer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notedown-sh/notedown/internal/document"
)

func TestFromHTML(t *testing.T) {
	t.Parallel()

	html := `<!DOCTYPE html>
<html>
<head>
  <title>Grocery Tips</title>
  <style>body { color: red; }</style>
</head>
<body>
  <nav><a href="/">home</a></nav>
  <h1>Grocery Tips</h1>
  <p>Buy <strong>oat milk</strong> in bulk.</p>
  <ul>
    <li>milk</li>
    <li>bread</li>
  </ul>
  <script>alert("hi")</script>
</body>
</html>`

	result, err := FromHTML(html)
	require.NoError(t, err)

	assert.Equal(t, "Grocery Tips", result.Title)
	assert.Contains(t, result.Markdown, "# Grocery Tips")
	assert.Contains(t, result.Markdown, "**oat milk**")
	assert.NotContains(t, result.Markdown, "alert")
	assert.NotContains(t, result.Markdown, "color: red")
	assert.NotContains(t, result.Markdown, "home")

	require.NotEmpty(t, result.Document.Blocks)
	assert.Equal(t, document.Heading, result.Document.Blocks[0].Type)
	assert.Equal(t, "Grocery Tips", result.Document.Blocks[0].Text)

	var bullets []string
	for _, b := range result.Document.Blocks {
		if b.Type == document.BulletItem {
			bullets = append(bullets, b.Text)
		}
	}
	assert.Equal(t, []string{"milk", "bread"}, bullets)
}

func TestFromHTMLWithoutTitleFallsBackToHeading(t *testing.T) {
	t.Parallel()

	result, err := FromHTML("<body><h1>Untitled Page</h1><p>text</p></body>")
	require.NoError(t, err)
	assert.Equal(t, "Untitled Page", result.Title)
}

func TestFromHTMLPlainFragment(t *testing.T) {
	t.Parallel()

	result, err := FromHTML("<p>just a paragraph</p>")
	require.NoError(t, err)
	assert.True(t, strings.Contains(result.Markdown, "just a paragraph"))
}
