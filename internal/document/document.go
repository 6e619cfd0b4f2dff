// Package document defines the block model notedown edits: an ordered list
// of typed blocks, each holding one run of text. The model is deliberately
// small; richer interchange goes through the prosemirror schema in schema.go.
package document

import (
	"github.com/google/uuid"
)

// BlockType enumerates every block kind the editor can render.
type BlockType string

const (
	Paragraph   BlockType = "paragraph"
	Heading     BlockType = "heading"
	BulletItem  BlockType = "bullet_item"
	OrderedItem BlockType = "ordered_item"
	Quote       BlockType = "quote"
	Code        BlockType = "code"
	Callout     BlockType = "callout"
	Divider     BlockType = "divider"
	Image       BlockType = "image"
)

// Block is one editable unit of a document.
type Block struct {
	ID       string
	Type     BlockType
	Text     string
	Level    int    // heading level 1-3
	Kind     string // callout kind: note, warning, tip
	Language string // code block language
	Path     string // image source path
	Alt      string // image alt text
}

// NewBlock returns a block of the given type with a fresh ID.
func NewBlock(t BlockType) Block {
	return Block{ID: uuid.New().String(), Type: t}
}

// Range marks a half-open run of runes [Start, End) within one block's text.
type Range struct {
	Start int
	End   int
}

// Len returns the number of runes covered by the range.
func (r Range) Len() int {
	return r.End - r.Start
}

// Contains reports whether the rune offset falls inside [Start, End].
// The end offset counts as inside so a caret sitting right after the last
// typed rune is still tracked.
func (r Range) Contains(offset int) bool {
	return offset >= r.Start && offset <= r.End
}

// Clamp restricts the range to the bounds of text.
func (r Range) Clamp(text string) Range {
	n := len([]rune(text))
	if r.Start < 0 {
		r.Start = 0
	}
	if r.End > n {
		r.End = n
	}
	if r.Start > r.End {
		r.Start = r.End
	}
	return r
}

// DeleteRange removes the runes covered by r from the block's text.
func (b *Block) DeleteRange(r Range) {
	runes := []rune(b.Text)
	r = r.Clamp(b.Text)
	b.Text = string(runes[:r.Start]) + string(runes[r.End:])
}

// ReplaceRange substitutes the runes covered by r with repl.
func (b *Block) ReplaceRange(r Range, repl string) {
	runes := []rune(b.Text)
	r = r.Clamp(b.Text)
	b.Text = string(runes[:r.Start]) + repl + string(runes[r.End:])
}

// Document is an ordered list of blocks. A document always contains at
// least one block; an empty document is a single empty paragraph.
type Document struct {
	Blocks []Block
}

// New returns a document holding a single empty paragraph.
func New() Document {
	return Document{Blocks: []Block{NewBlock(Paragraph)}}
}

// BlockByID returns the index of the block with the given ID, or -1.
func (d *Document) BlockByID(id string) int {
	for i := range d.Blocks {
		if d.Blocks[i].ID == id {
			return i
		}
	}
	return -1
}

// InsertAfter places block b directly after index i. An index below zero
// prepends; an index at or past the end appends.
func (d *Document) InsertAfter(i int, b Block) {
	switch {
	case i < 0:
		d.Blocks = append([]Block{b}, d.Blocks...)
	case i >= len(d.Blocks)-1:
		d.Blocks = append(d.Blocks, b)
	default:
		d.Blocks = append(d.Blocks[:i+1], append([]Block{b}, d.Blocks[i+1:]...)...)
	}
}

// Remove deletes the block at index i. Removing the last remaining block
// leaves a single empty paragraph so the document stays editable.
func (d *Document) Remove(i int) {
	if i < 0 || i >= len(d.Blocks) {
		return
	}
	d.Blocks = append(d.Blocks[:i], d.Blocks[i+1:]...)
	if len(d.Blocks) == 0 {
		d.Blocks = []Block{NewBlock(Paragraph)}
	}
}

// Move shifts the block at index from to index to, preserving order of the
// other blocks.
func (d *Document) Move(from, to int) {
	if from < 0 || from >= len(d.Blocks) || to < 0 || to >= len(d.Blocks) || from == to {
		return
	}
	b := d.Blocks[from]
	d.Blocks = append(d.Blocks[:from], d.Blocks[from+1:]...)
	d.Blocks = append(d.Blocks[:to], append([]Block{b}, d.Blocks[to:]...)...)
}
