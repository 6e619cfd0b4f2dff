package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMarkdownBlocks(t *testing.T) {
	t.Parallel()

	src := "## Plan\n\n- first\n- second\n\n> [!warning]\n> careful here\n\n```go\nfunc main() {}\n```\n\n---\n\n![diagram](img/arch.png)\n"
	doc := ParseMarkdown([]byte(src))

	require.Len(t, doc.Blocks, 7)

	assert.Equal(t, Heading, doc.Blocks[0].Type)
	assert.Equal(t, 2, doc.Blocks[0].Level)
	assert.Equal(t, "Plan", doc.Blocks[0].Text)

	assert.Equal(t, BulletItem, doc.Blocks[1].Type)
	assert.Equal(t, "first", doc.Blocks[1].Text)
	assert.Equal(t, BulletItem, doc.Blocks[2].Type)

	assert.Equal(t, Callout, doc.Blocks[3].Type)
	assert.Equal(t, "warning", doc.Blocks[3].Kind)
	assert.Equal(t, "careful here", doc.Blocks[3].Text)

	assert.Equal(t, Code, doc.Blocks[4].Type)
	assert.Equal(t, "go", doc.Blocks[4].Language)
	assert.Equal(t, "func main() {}", doc.Blocks[4].Text)

	assert.Equal(t, Divider, doc.Blocks[5].Type)

	assert.Equal(t, Image, doc.Blocks[6].Type)
	assert.Equal(t, "img/arch.png", doc.Blocks[6].Path)
	assert.Equal(t, "diagram", doc.Blocks[6].Alt)
}

func TestParseMarkdownEmptyInputYieldsOneParagraph(t *testing.T) {
	t.Parallel()

	doc := ParseMarkdown(nil)
	require.Len(t, doc.Blocks, 1)
	assert.Equal(t, Paragraph, doc.Blocks[0].Type)
	assert.Empty(t, doc.Blocks[0].Text)
}

func TestMarkdownRenumbersOrderedItems(t *testing.T) {
	t.Parallel()

	doc := Document{Blocks: []Block{
		{Type: OrderedItem, Text: "alpha"},
		{Type: OrderedItem, Text: "beta"},
		{Type: Paragraph, Text: "break"},
		{Type: OrderedItem, Text: "gamma"},
	}}

	out := string(doc.Markdown())
	assert.Contains(t, out, "1. alpha")
	assert.Contains(t, out, "2. beta")
	// A paragraph in between restarts the numbering.
	assert.Contains(t, out, "1. gamma")
}

func TestMarkdownClampsHeadingLevel(t *testing.T) {
	t.Parallel()

	doc := Document{Blocks: []Block{
		{Type: Heading, Level: 0, Text: "low"},
		{Type: Heading, Level: 7, Text: "high"},
	}}

	out := string(doc.Markdown())
	assert.Contains(t, out, "# low")
	assert.Contains(t, out, "### high")
	assert.NotContains(t, out, "####")
}

func TestMarkdownRoundTripPreservesStructure(t *testing.T) {
	t.Parallel()

	doc := Document{Blocks: []Block{
		{Type: Heading, Level: 1, Text: "Title"},
		{Type: Paragraph, Text: "Body text."},
		{Type: Quote, Text: "line one\nline two"},
		{Type: Code, Language: "sh", Text: "echo hi"},
	}}

	again := ParseMarkdown(doc.Markdown())
	require.Len(t, again.Blocks, len(doc.Blocks))
	for i := range doc.Blocks {
		assert.Equal(t, doc.Blocks[i].Type, again.Blocks[i].Type, "block %d", i)
		assert.Equal(t, doc.Blocks[i].Text, again.Blocks[i].Text, "block %d", i)
	}
}

func TestRangeClampAndDelete(t *testing.T) {
	t.Parallel()

	b := Block{Type: Paragraph, Text: "plan /head"}
	b.DeleteRange(Range{Start: 5, End: 10})
	assert.Equal(t, "plan ", b.Text)

	b = Block{Type: Paragraph, Text: "short"}
	b.DeleteRange(Range{Start: 3, End: 99})
	assert.Equal(t, "sho", b.Text)

	r := Range{Start: -4, End: 2}.Clamp("ab")
	assert.Equal(t, Range{Start: 0, End: 2}, r)
}

func TestRangeContainsIncludesEnd(t *testing.T) {
	t.Parallel()

	r := Range{Start: 2, End: 5}
	assert.True(t, r.Contains(2))
	assert.True(t, r.Contains(5))
	assert.False(t, r.Contains(1))
	assert.False(t, r.Contains(6))
}

func TestInsertAfterAndRemove(t *testing.T) {
	t.Parallel()

	doc := Document{Blocks: []Block{
		{ID: "a", Type: Paragraph},
		{ID: "b", Type: Paragraph},
	}}

	doc.InsertAfter(0, Block{ID: "mid", Type: Divider})
	require.Len(t, doc.Blocks, 3)
	assert.Equal(t, "mid", doc.Blocks[1].ID)

	doc.InsertAfter(-1, Block{ID: "front", Type: Paragraph})
	assert.Equal(t, "front", doc.Blocks[0].ID)

	doc.Remove(0)
	doc.Remove(0)
	doc.Remove(0)
	doc.Remove(0)
	// Removing everything leaves an editable empty paragraph.
	require.Len(t, doc.Blocks, 1)
	assert.Equal(t, Paragraph, doc.Blocks[0].Type)
}

func TestSchemaJSONRoundTrip(t *testing.T) {
	t.Parallel()

	doc := Document{Blocks: []Block{
		{Type: Heading, Level: 2, Text: "Notes"},
		{Type: BulletItem, Text: "one"},
		{Type: BulletItem, Text: "two"},
		{Type: OrderedItem, Text: "three"},
		{Type: Callout, Kind: "tip", Text: "remember"},
		{Type: Code, Language: "go", Text: "x := 1"},
		{Type: Divider},
		{Type: Image, Path: "a.png", Alt: "pic"},
	}}

	data, err := SchemaJSON(doc)
	require.NoError(t, err)

	again, err := FromSchemaJSON(data)
	require.NoError(t, err)
	require.Len(t, again.Blocks, len(doc.Blocks))

	assert.Equal(t, Heading, again.Blocks[0].Type)
	assert.Equal(t, 2, again.Blocks[0].Level)
	assert.Equal(t, BulletItem, again.Blocks[1].Type)
	assert.Equal(t, BulletItem, again.Blocks[2].Type)
	assert.Equal(t, OrderedItem, again.Blocks[3].Type)
	assert.Equal(t, "tip", again.Blocks[4].Kind)
	assert.Equal(t, "remember", again.Blocks[4].Text)
	assert.Equal(t, "go", again.Blocks[5].Language)
	assert.Equal(t, Divider, again.Blocks[6].Type)
	assert.Equal(t, "a.png", again.Blocks[7].Path)
}
