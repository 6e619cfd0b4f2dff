package page

import (
	"testing"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notedown-sh/notedown/internal/command"
	"github.com/notedown-sh/notedown/internal/document"
	"github.com/notedown-sh/notedown/internal/note"
	"github.com/notedown-sh/notedown/internal/tui/components/dialog"
	"github.com/notedown-sh/notedown/internal/tui/components/editor"
)

// recordingSuggest stands in for the popup so click routing can be observed
// without a zone manager behind the test.
type recordingSuggest struct {
	open     bool
	inBounds bool
	clicks   int
}

func (s *recordingSuggest) Init() tea.Cmd { return nil }

func (s *recordingSuggest) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if _, ok := msg.(tea.MouseMsg); ok {
		s.clicks++
	}
	return s, nil
}

func (s *recordingSuggest) View() string               { return "" }
func (s *recordingSuggest) BindingKeys() []key.Binding { return nil }
func (s *recordingSuggest) IsOpen() bool               { return s.open }
func (s *recordingSuggest) Anchor() dialog.Anchor      { return dialog.Anchor{} }
func (s *recordingSuggest) InBounds(tea.MouseMsg) bool { return s.inBounds }

func heading1(t *testing.T) command.Command {
	t.Helper()
	for _, c := range command.Builtin().Commands() {
		if c.Title == "Heading 1" {
			return c
		}
	}
	t.Fatal("Heading 1 not registered")
	return command.Command{}
}

func TestPopupClickCommitsAtTriggerBlock(t *testing.T) {
	t.Parallel()

	suggest := &recordingSuggest{open: true, inBounds: true}
	p := &editorPage{editor: editor.NewEditor(), suggest: suggest}
	p.SetSize(80, 24)

	body := "first\n\nsecond\n\nthird\n\nfourth"
	p.Update(NoteSelectedMsg{Note: note.Note{ID: "n1", Title: "t", Body: body}})

	// Open a session with a slash at the start of the first block.
	p.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'/'}})

	// Click a popup row drawn over the fourth block. The dialog consumes
	// it; the editor must not see it and refocus the block underneath.
	p.Update(tea.MouseMsg{Type: tea.MouseLeft, X: 2, Y: 3})
	assert.Equal(t, 1, suggest.clicks, "the dialog consumes the click")

	p.Update(dialog.CommandSelectedMsg{
		Command: heading1(t),
		Range:   document.Range{Start: 0, End: 1},
	})

	doc := p.editor.Document()
	require.Len(t, doc.Blocks, 4)
	assert.Equal(t, document.Heading, doc.Blocks[0].Type, "the trigger block is restyled")
	assert.Equal(t, "first", doc.Blocks[0].Text, "the slash is deleted from the trigger block")
	assert.Equal(t, document.Paragraph, doc.Blocks[3].Type)
	assert.Equal(t, "fourth", doc.Blocks[3].Text, "the block under the pointer is untouched")
}

func TestOutsideClickReachesEditor(t *testing.T) {
	t.Parallel()

	suggest := &recordingSuggest{open: true, inBounds: false}
	p := &editorPage{editor: editor.NewEditor(), suggest: suggest}
	p.SetSize(80, 24)

	body := "first\n\nsecond\n\nthird"
	p.Update(NoteSelectedMsg{Note: note.Note{ID: "n1", Title: "t", Body: body}})

	p.Update(tea.MouseMsg{Type: tea.MouseLeft, X: 0, Y: 2})
	assert.Equal(t, 0, suggest.clicks, "clicks outside the popup skip the dialog")

	// Typing lands in the clicked block, proving focus followed the click.
	p.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}})
	doc := p.editor.Document()
	require.Len(t, doc.Blocks, 3)
	assert.Equal(t, "thirdx", doc.Blocks[2].Text)
}
