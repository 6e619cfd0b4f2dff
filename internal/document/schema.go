package document

import (
	"encoding/json"
	"fmt"

	"github.com/cozy/prosemirror-go/model"
)

// The prosemirror schema is the canonical interchange format: the HTTP
// server and the MCP tools speak validated schema JSON, not the internal
// block slice.

var (
	empty = ""

	headingAttrs = map[string]*model.AttributeSpec{
		"level": {Default: 1},
	}
	calloutAttrs = map[string]*model.AttributeSpec{
		"kind": {Default: "note"},
	}
	codeAttrs = map[string]*model.AttributeSpec{
		"language": {Default: ""},
	}
	imageAttrs = map[string]*model.AttributeSpec{
		"src": {},
		"alt": {Default: ""},
	}
)

var nodes = []*model.NodeSpec{
	{Key: "doc", Content: "block+"},
	{Key: "paragraph", Content: "inline*", Group: "block"},
	{Key: "heading", Content: "inline*", Group: "block", Attrs: headingAttrs},
	{Key: "bullet_list", Content: "list_item+", Group: "block"},
	{Key: "ordered_list", Content: "list_item+", Group: "block"},
	{Key: "list_item", Content: "paragraph"},
	{Key: "blockquote", Content: "block+", Group: "block"},
	{Key: "code_block", Content: "text*", Marks: &empty, Group: "block", Attrs: codeAttrs},

	// The callout is the one custom node: a quote-like container carrying a
	// kind attribute (note, warning, tip) that drives its rendering.
	{Key: "callout", Content: "block+", Group: "block", Attrs: calloutAttrs},

	{Key: "horizontal_rule", Group: "block"},
	{Key: "image", Group: "block", Attrs: imageAttrs},
	{Key: "text", Group: "inline"},
	{Key: "hard_break", Group: "inline", Inline: true},
}

var marks = []*model.MarkSpec{
	{Key: "em"},
	{Key: "strong"},
	{Key: "code"},
}

// Schema is the canonical notedown document schema.
var Schema, _ = model.NewSchema(&model.SchemaSpec{
	Nodes: nodes,
	Marks: marks,
})

// ToNode converts the block model into a schema-validated node tree.
func ToNode(d Document) (*model.Node, error) {
	var children []any

	appendNode := func(typ string, attrs map[string]any, text string) {
		n := map[string]any{"type": typ}
		if len(attrs) > 0 {
			n["attrs"] = attrs
		}
		if text != "" {
			n["content"] = []any{map[string]any{"type": "text", "text": text}}
		}
		children = append(children, n)
	}
	wrapParagraph := func(text string) map[string]any {
		p := map[string]any{"type": "paragraph"}
		if text != "" {
			p["content"] = []any{map[string]any{"type": "text", "text": text}}
		}
		return p
	}

	var pendingList []any
	var pendingType string
	flushList := func() {
		if len(pendingList) == 0 {
			return
		}
		children = append(children, map[string]any{
			"type":    pendingType,
			"content": pendingList,
		})
		pendingList = nil
		pendingType = ""
	}

	for _, b := range d.Blocks {
		if b.Type != BulletItem && b.Type != OrderedItem {
			flushList()
		}
		switch b.Type {
		case Heading:
			level := b.Level
			if level < 1 {
				level = 1
			}
			appendNode("heading", map[string]any{"level": level}, b.Text)
		case BulletItem, OrderedItem:
			listType := "bullet_list"
			if b.Type == OrderedItem {
				listType = "ordered_list"
			}
			if pendingType != listType {
				flushList()
				pendingType = listType
			}
			pendingList = append(pendingList, map[string]any{
				"type":    "list_item",
				"content": []any{wrapParagraph(b.Text)},
			})
		case Quote:
			children = append(children, map[string]any{
				"type":    "blockquote",
				"content": []any{wrapParagraph(b.Text)},
			})
		case Callout:
			kind := b.Kind
			if kind == "" {
				kind = "note"
			}
			children = append(children, map[string]any{
				"type":    "callout",
				"attrs":   map[string]any{"kind": kind},
				"content": []any{wrapParagraph(b.Text)},
			})
		case Code:
			appendNode("code_block", map[string]any{"language": b.Language}, b.Text)
		case Divider:
			appendNode("horizontal_rule", nil, "")
		case Image:
			appendNode("image", map[string]any{"src": b.Path, "alt": b.Alt}, "")
		default:
			appendNode("paragraph", nil, b.Text)
		}
	}
	flushList()

	if len(children) == 0 {
		children = append(children, map[string]any{"type": "paragraph"})
	}

	node, err := model.NodeFromJSON(Schema, map[string]any{
		"type":    "doc",
		"content": children,
	})
	if err != nil {
		return nil, fmt.Errorf("model.NodeFromJSON: %w", err)
	}
	return node, nil
}

// FromNode converts a schema node tree back into the block model.
func FromNode(node *model.Node) Document {
	doc := Document{}

	node.ForEach(func(child *model.Node, _ int, _ int) {
		switch child.Type.Name {
		case "heading":
			b := NewBlock(Heading)
			b.Level = intAttr(child, "level", 1)
			b.Text = child.TextContent()
			doc.Blocks = append(doc.Blocks, b)
		case "bullet_list", "ordered_list":
			typ := BulletItem
			if child.Type.Name == "ordered_list" {
				typ = OrderedItem
			}
			child.ForEach(func(item *model.Node, _ int, _ int) {
				b := NewBlock(typ)
				b.Text = item.TextContent()
				doc.Blocks = append(doc.Blocks, b)
			})
		case "blockquote":
			b := NewBlock(Quote)
			b.Text = child.TextContent()
			doc.Blocks = append(doc.Blocks, b)
		case "callout":
			b := NewBlock(Callout)
			b.Kind = stringAttr(child, "kind", "note")
			b.Text = child.TextContent()
			doc.Blocks = append(doc.Blocks, b)
		case "code_block":
			b := NewBlock(Code)
			b.Language = stringAttr(child, "language", "")
			b.Text = child.TextContent()
			doc.Blocks = append(doc.Blocks, b)
		case "horizontal_rule":
			doc.Blocks = append(doc.Blocks, NewBlock(Divider))
		case "image":
			b := NewBlock(Image)
			b.Path = stringAttr(child, "src", "")
			b.Alt = stringAttr(child, "alt", "")
			doc.Blocks = append(doc.Blocks, b)
		default:
			b := NewBlock(Paragraph)
			b.Text = child.TextContent()
			doc.Blocks = append(doc.Blocks, b)
		}
	})

	if len(doc.Blocks) == 0 {
		doc.Blocks = []Block{NewBlock(Paragraph)}
	}
	return doc
}

// SchemaJSON renders the document as canonical schema JSON.
func SchemaJSON(d Document) ([]byte, error) {
	node, err := ToNode(d)
	if err != nil {
		return nil, err
	}
	return json.Marshal(node.ToJSON())
}

// FromSchemaJSON parses canonical schema JSON into the block model.
func FromSchemaJSON(data []byte) (Document, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return Document{}, fmt.Errorf("json.Unmarshal: %w", err)
	}
	node, err := model.NodeFromJSON(Schema, raw)
	if err != nil {
		return Document{}, fmt.Errorf("model.NodeFromJSON: %w", err)
	}
	return FromNode(node), nil
}

func intAttr(n *model.Node, key string, fallback int) int {
	if v, ok := n.Attrs[key]; ok {
		switch x := v.(type) {
		case int:
			return x
		case float64:
			return int(x)
		}
	}
	return fallback
}

func stringAttr(n *model.Node, key string, fallback string) string {
	if v, ok := n.Attrs[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return fallback
}
