package command

import (
	"github.com/notedown-sh/notedown/internal/document"
)

// setType returns an Apply that deletes the trigger range and restyles the
// current block.
func setType(t document.BlockType, level int) func(Surface, document.Range) {
	return func(s Surface, r document.Range) {
		s.DeleteRange(r)
		s.SetBlockType(t, level)
	}
}

// insertAfter returns an Apply that deletes the trigger range and inserts a
// fresh block of the given type after the current one.
func insertAfter(make func() document.Block) func(Surface, document.Range) {
	return func(s Surface, r document.Range) {
		s.DeleteRange(r)
		s.InsertBlockAfter(make())
	}
}

// Builtin returns the built-in registry in display order.
func Builtin() *Registry {
	r := NewRegistry()

	r.MustRegister(Command{
		ID:          "paragraph",
		Title:       "Paragraph",
		Description: "Plain body text",
		Icon:        "¶",
		Apply:       setType(document.Paragraph, 0),
	})
	r.MustRegister(Command{
		ID:          "heading1",
		Title:       "Heading 1",
		Description: "Large section heading",
		Icon:        "H1",
		Apply:       setType(document.Heading, 1),
	})
	r.MustRegister(Command{
		ID:          "heading2",
		Title:       "Heading 2",
		Description: "Medium section heading",
		Icon:        "H2",
		Apply:       setType(document.Heading, 2),
	})
	r.MustRegister(Command{
		ID:          "heading3",
		Title:       "Heading 3",
		Description: "Small section heading",
		Icon:        "H3",
		Apply:       setType(document.Heading, 3),
	})
	r.MustRegister(Command{
		ID:          "bullet_list",
		Title:       "Bullet List",
		Description: "Unordered list item",
		Icon:        "•",
		Apply:       setType(document.BulletItem, 0),
	})
	r.MustRegister(Command{
		ID:          "ordered_list",
		Title:       "Ordered List",
		Description: "Numbered list item",
		Icon:        "1.",
		Apply:       setType(document.OrderedItem, 0),
	})
	r.MustRegister(Command{
		ID:          "quote",
		Title:       "Quote",
		Description: "Block quotation",
		Icon:        "❝",
		Apply:       setType(document.Quote, 0),
	})
	r.MustRegister(Command{
		ID:          "code",
		Title:       "Code Block",
		Description: "Monospaced code with syntax highlighting",
		Icon:        "</>",
		Apply:       setType(document.Code, 0),
	})
	r.MustRegister(Command{
		ID:          "callout",
		Title:       "Callout",
		Description: "Highlighted note box",
		Icon:        "!",
		Apply: func(s Surface, rng document.Range) {
			s.DeleteRange(rng)
			s.SetBlockType(document.Callout, 0)
		},
	})
	r.MustRegister(Command{
		ID:          "divider",
		Title:       "Divider",
		Description: "Horizontal rule",
		Icon:        "—",
		Apply:       insertAfter(func() document.Block { return document.NewBlock(document.Divider) }),
	})
	r.MustRegister(Command{
		ID:          "image",
		Title:       "Image",
		Description: "Image from a file path",
		Icon:        "🖼",
		Apply:       insertAfter(func() document.Block { return document.NewBlock(document.Image) }),
	})

	return r
}
