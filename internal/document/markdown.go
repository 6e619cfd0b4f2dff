package document

import (
	"fmt"
	"regexp"
	"strings"
)

// The markdown codec covers exactly the block types the editor produces.
// It round-trips its own output; arbitrary markdown degrades gracefully to
// paragraphs.

var (
	headingRe = regexp.MustCompile(`^(#{1,3})\s+(.*)$`)
	bulletRe  = regexp.MustCompile(`^[-*]\s+(.*)$`)
	orderedRe = regexp.MustCompile(`^\d+[.)]\s+(.*)$`)
	imageRe   = regexp.MustCompile(`^!\[([^\]]*)\]\(([^)]+)\)$`)
	calloutRe = regexp.MustCompile(`^>\s*\[!(\w+)\]\s*(.*)$`)
)

// ParseMarkdown converts markdown source into a document.
func ParseMarkdown(src []byte) Document {
	lines := strings.Split(strings.ReplaceAll(string(src), "\r\n", "\n"), "\n")
	doc := Document{}

	i := 0
	for i < len(lines) {
		line := lines[i]
		trimmed := strings.TrimRight(line, " \t")

		switch {
		case trimmed == "":
			i++

		case strings.HasPrefix(trimmed, "```"):
			b := NewBlock(Code)
			b.Language = strings.TrimPrefix(trimmed, "```")
			var body []string
			i++
			for i < len(lines) && !strings.HasPrefix(strings.TrimRight(lines[i], " \t"), "```") {
				body = append(body, lines[i])
				i++
			}
			if i < len(lines) {
				i++ // closing fence
			}
			b.Text = strings.Join(body, "\n")
			doc.Blocks = append(doc.Blocks, b)

		case trimmed == "---" || trimmed == "***":
			doc.Blocks = append(doc.Blocks, NewBlock(Divider))
			i++

		case headingRe.MatchString(trimmed):
			m := headingRe.FindStringSubmatch(trimmed)
			b := NewBlock(Heading)
			b.Level = len(m[1])
			b.Text = m[2]
			doc.Blocks = append(doc.Blocks, b)
			i++

		case calloutRe.MatchString(trimmed):
			m := calloutRe.FindStringSubmatch(trimmed)
			b := NewBlock(Callout)
			b.Kind = strings.ToLower(m[1])
			var body []string
			if m[2] != "" {
				body = append(body, m[2])
			}
			i++
			for i < len(lines) && strings.HasPrefix(lines[i], ">") {
				body = append(body, strings.TrimPrefix(strings.TrimPrefix(lines[i], ">"), " "))
				i++
			}
			b.Text = strings.Join(body, "\n")
			doc.Blocks = append(doc.Blocks, b)

		case strings.HasPrefix(trimmed, ">"):
			b := NewBlock(Quote)
			var body []string
			for i < len(lines) && strings.HasPrefix(lines[i], ">") {
				body = append(body, strings.TrimPrefix(strings.TrimPrefix(lines[i], ">"), " "))
				i++
			}
			b.Text = strings.Join(body, "\n")
			doc.Blocks = append(doc.Blocks, b)

		case bulletRe.MatchString(trimmed):
			m := bulletRe.FindStringSubmatch(trimmed)
			b := NewBlock(BulletItem)
			b.Text = m[1]
			doc.Blocks = append(doc.Blocks, b)
			i++

		case orderedRe.MatchString(trimmed):
			m := orderedRe.FindStringSubmatch(trimmed)
			b := NewBlock(OrderedItem)
			b.Text = m[1]
			doc.Blocks = append(doc.Blocks, b)
			i++

		case imageRe.MatchString(trimmed):
			m := imageRe.FindStringSubmatch(trimmed)
			b := NewBlock(Image)
			b.Alt = m[1]
			b.Path = m[2]
			doc.Blocks = append(doc.Blocks, b)
			i++

		default:
			b := NewBlock(Paragraph)
			b.Text = trimmed
			doc.Blocks = append(doc.Blocks, b)
			i++
		}
	}

	if len(doc.Blocks) == 0 {
		doc.Blocks = []Block{NewBlock(Paragraph)}
	}
	return doc
}

// Markdown renders the document back to markdown source.
func (d Document) Markdown() []byte {
	var out []string
	ordinal := 0

	for _, b := range d.Blocks {
		if b.Type != OrderedItem {
			ordinal = 0
		}
		switch b.Type {
		case Heading:
			level := b.Level
			if level < 1 {
				level = 1
			}
			if level > 3 {
				level = 3
			}
			out = append(out, fmt.Sprintf("%s %s", strings.Repeat("#", level), b.Text))
		case BulletItem:
			out = append(out, "- "+b.Text)
		case OrderedItem:
			ordinal++
			out = append(out, fmt.Sprintf("%d. %s", ordinal, b.Text))
		case Quote:
			out = append(out, quoteLines(b.Text))
		case Callout:
			kind := b.Kind
			if kind == "" {
				kind = "note"
			}
			out = append(out, fmt.Sprintf("> [!%s]\n%s", kind, quoteLines(b.Text)))
		case Code:
			out = append(out, fmt.Sprintf("```%s\n%s\n```", b.Language, b.Text))
		case Divider:
			out = append(out, "---")
		case Image:
			out = append(out, fmt.Sprintf("![%s](%s)", b.Alt, b.Path))
		default:
			out = append(out, b.Text)
		}
	}

	return []byte(strings.Join(out, "\n\n") + "\n")
}

func quoteLines(text string) string {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = "> " + l
	}
	return strings.Join(lines, "\n")
}
