package editor

import (
	"testing"

	"github.com/charmbracelet/bubbles/cursor"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notedown-sh/notedown/internal/command"
	"github.com/notedown-sh/notedown/internal/document"
	"github.com/notedown-sh/notedown/internal/tui/components/dialog"
)

func newTestEditor(t *testing.T) *editorCmp {
	t.Helper()
	m := NewEditor().(*editorCmp)
	m.input.Cursor.SetMode(cursor.CursorStatic)
	m.SetSize(80, 24)
	return m
}

// drain executes a command tree and returns every message it produces.
func drain(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, drain(c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

func press(m *editorCmp, msg tea.KeyMsg) []tea.Msg {
	_, cmd := m.handleKey(msg)
	return drain(cmd)
}

func typeString(m *editorCmp, s string) []tea.Msg {
	var out []tea.Msg
	for _, r := range s {
		out = append(out, press(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})...)
	}
	return out
}

func TestSlashAtBlockStartOpensSession(t *testing.T) {
	t.Parallel()

	m := newTestEditor(t)
	msgs := typeString(m, "/")

	var shows []dialog.ShowSuggestionsMsg
	for _, msg := range msgs {
		if show, ok := msg.(dialog.ShowSuggestionsMsg); ok {
			shows = append(shows, show)
		}
	}
	require.Len(t, shows, 1, "one open event per edit")
	assert.Equal(t, "", shows[0].Query)
	assert.Equal(t, document.Range{Start: 0, End: 1}, shows[0].Range)
	assert.Equal(t, dialog.Anchor{X: 0, Y: 0}, shows[0].Anchor)
}

func TestSlashAfterWhitespaceOpensSession(t *testing.T) {
	t.Parallel()

	m := newTestEditor(t)
	msgs := typeString(m, "hi /")

	var show *dialog.ShowSuggestionsMsg
	for _, msg := range msgs {
		if s, ok := msg.(dialog.ShowSuggestionsMsg); ok {
			show = &s
		}
	}
	require.NotNil(t, show)
	assert.Equal(t, document.Range{Start: 3, End: 4}, show.Range)
	assert.Equal(t, 3, show.Anchor.X, "anchor sits on the slash")
}

func TestSlashMidWordDoesNotOpen(t *testing.T) {
	t.Parallel()

	m := newTestEditor(t)
	msgs := typeString(m, "a/b")

	for _, msg := range msgs {
		_, isShow := msg.(dialog.ShowSuggestionsMsg)
		assert.False(t, isShow, "slash inside a word is plain text")
	}
	assert.Equal(t, "a/b", m.input.Value())
}

func TestSlashInsideCodeBlockDoesNotOpen(t *testing.T) {
	t.Parallel()

	m := newTestEditor(t)
	m.SetBlockType(document.Code, 0)
	msgs := typeString(m, "/")

	for _, msg := range msgs {
		_, isShow := msg.(dialog.ShowSuggestionsMsg)
		assert.False(t, isShow, "no suggestions inside code blocks")
	}
}

func TestTypingStreamsQueryUpdates(t *testing.T) {
	t.Parallel()

	m := newTestEditor(t)
	typeString(m, "/")

	msgs := typeString(m, "h")
	require.Len(t, msgs, 1)
	filter, ok := msgs[0].(dialog.FilterSuggestionsMsg)
	require.True(t, ok)
	assert.Equal(t, "h", filter.Query)
	assert.Equal(t, document.Range{Start: 0, End: 2}, filter.Range)

	msgs = typeString(m, "e")
	require.Len(t, msgs, 1)
	filter, ok = msgs[0].(dialog.FilterSuggestionsMsg)
	require.True(t, ok)
	assert.Equal(t, "he", filter.Query)
	assert.Equal(t, document.Range{Start: 0, End: 3}, filter.Range)
}

func TestBackspacePastTriggerCloses(t *testing.T) {
	t.Parallel()

	m := newTestEditor(t)
	typeString(m, "/")

	msgs := press(m, tea.KeyMsg{Type: tea.KeyBackspace})
	require.Len(t, msgs, 1)
	_, ok := msgs[0].(dialog.CloseSuggestionsMsg)
	assert.True(t, ok, "deleting the trigger closes destructively")
	assert.Equal(t, "", m.input.Value())
	assert.Nil(t, m.trigger)
}

func TestCaretLeavingRangeCloses(t *testing.T) {
	t.Parallel()

	m := newTestEditor(t)
	typeString(m, "/h")

	// One step left keeps the caret after the slash; the query shrinks.
	msgs := press(m, tea.KeyMsg{Type: tea.KeyLeft})
	require.Len(t, msgs, 1)
	filter, ok := msgs[0].(dialog.FilterSuggestionsMsg)
	require.True(t, ok)
	assert.Equal(t, "", filter.Query)

	// The next step lands on the slash itself and ends the session.
	msgs = press(m, tea.KeyMsg{Type: tea.KeyLeft})
	require.Len(t, msgs, 1)
	_, ok = msgs[0].(dialog.CloseSuggestionsMsg)
	assert.True(t, ok)
	assert.Equal(t, "/h", m.input.Value(), "closing never edits text")
}

func TestSwitchingBlocksCloses(t *testing.T) {
	t.Parallel()

	m := newTestEditor(t)
	m.SetDocument(document.Document{Blocks: []document.Block{
		{ID: "a", Type: document.Paragraph, Text: ""},
		{ID: "b", Type: document.Paragraph, Text: "below"},
	}})
	typeString(m, "/")
	require.NotNil(t, m.trigger)

	msgs := press(m, tea.KeyMsg{Type: tea.KeyDown})
	require.Len(t, msgs, 1)
	_, ok := msgs[0].(dialog.CloseSuggestionsMsg)
	assert.True(t, ok)
	assert.Equal(t, 1, m.row)
}

func TestEscapeLeavesContentByteIdentical(t *testing.T) {
	t.Parallel()

	m := newTestEditor(t)
	typeString(m, "note /he")
	require.NotNil(t, m.trigger)

	// Escape is routed to the dialog by the page; the editor hears that
	// the session ended and takes the trigger text back out.
	m.EndTrigger()

	assert.Equal(t, "note ", m.input.Value())
	assert.Equal(t, "note ", m.Document().Blocks[0].Text)
	assert.Equal(t, 5, m.input.Position(), "caret returns to the slash's position")

	// With no session the watcher stays quiet on further typing.
	msgs := typeString(m, "x")
	for _, msg := range msgs {
		switch msg.(type) {
		case dialog.ShowSuggestionsMsg, dialog.FilterSuggestionsMsg, dialog.CloseSuggestionsMsg:
			t.Fatalf("unexpected suggestion message %T", msg)
		}
	}
}

func TestNoSecondSessionWhileOneIsOpen(t *testing.T) {
	t.Parallel()

	m := newTestEditor(t)
	typeString(m, "/")
	start := m.trigger.start

	msgs := typeString(m, "/")
	require.Len(t, msgs, 1)
	filter, ok := msgs[0].(dialog.FilterSuggestionsMsg)
	require.True(t, ok, "a second slash feeds the open session's query")
	assert.Equal(t, "/", filter.Query)
	assert.Equal(t, start, m.trigger.start)
}

func TestApplyCommandDeletesRangeThenRestyles(t *testing.T) {
	t.Parallel()

	m := newTestEditor(t)
	typeString(m, "plan /h")
	require.NotNil(t, m.trigger)

	registry := command.Builtin()
	var heading3 command.Command
	for _, c := range registry.Commands() {
		if c.Title == "Heading 3" {
			heading3 = c
		}
	}
	require.NotNil(t, heading3.Apply)

	drain(m.ApplyCommand(heading3, document.Range{Start: 5, End: 7}))

	b := m.Document().Blocks[0]
	assert.Equal(t, "plan ", b.Text, "the trigger range is deleted first")
	assert.Equal(t, document.Heading, b.Type)
	assert.Equal(t, 3, b.Level)
	assert.Equal(t, 5, m.input.Position(), "caret lands at the range start")
	assert.Nil(t, m.trigger)
	assert.True(t, m.Dirty())
}

func TestApplyCommandInsertsDividerBelow(t *testing.T) {
	t.Parallel()

	m := newTestEditor(t)
	typeString(m, "/")

	registry := command.Builtin()
	var divider command.Command
	for _, c := range registry.Commands() {
		if c.Title == "Divider" {
			divider = c
		}
	}
	require.NotNil(t, divider.Apply)

	drain(m.ApplyCommand(divider, document.Range{Start: 0, End: 1}))

	doc := m.Document()
	require.Len(t, doc.Blocks, 2)
	assert.Equal(t, "", doc.Blocks[0].Text)
	assert.Equal(t, document.Divider, doc.Blocks[1].Type)
	assert.Equal(t, 1, m.row, "focus moves into the inserted block")
}

func TestAppendBlocksFocusesFirstAppended(t *testing.T) {
	t.Parallel()

	m := newTestEditor(t)
	typeString(m, "intro")
	m.dirty = false

	extra := document.ParseMarkdown([]byte("more prose\n\n- a list item\n"))
	msgs := drain(m.AppendBlocks(extra.Blocks))

	doc := m.Document()
	require.Len(t, doc.Blocks, 3)
	assert.Equal(t, "intro", doc.Blocks[0].Text)
	assert.Equal(t, "more prose", doc.Blocks[1].Text)
	assert.Equal(t, document.BulletItem, doc.Blocks[2].Type)
	assert.Equal(t, 1, m.row, "focus moves to the first appended block")
	assert.Contains(t, msgs, DirtyChangedMsg{Dirty: true})
}

func TestAppendBlocksNoopOnEmptySlice(t *testing.T) {
	t.Parallel()

	m := newTestEditor(t)
	typeString(m, "intro")
	m.dirty = false

	require.Nil(t, m.AppendBlocks(nil))
	assert.Equal(t, 0, m.row)
	assert.False(t, m.Dirty())
}

func TestEnterSplitsBlockAtCaret(t *testing.T) {
	t.Parallel()

	m := newTestEditor(t)
	typeString(m, "hello")
	m.input.SetCursor(2)

	press(m, tea.KeyMsg{Type: tea.KeyEnter})

	doc := m.Document()
	require.Len(t, doc.Blocks, 2)
	assert.Equal(t, "he", doc.Blocks[0].Text)
	assert.Equal(t, "llo", doc.Blocks[1].Text)
	assert.Equal(t, 1, m.row)
	assert.Equal(t, 0, m.input.Position())
}

func TestBackspaceAtStartDemotesThenMerges(t *testing.T) {
	t.Parallel()

	m := newTestEditor(t)
	m.SetDocument(document.Document{Blocks: []document.Block{
		{ID: "a", Type: document.Paragraph, Text: "up"},
		{ID: "b", Type: document.Heading, Level: 2, Text: "down"},
	}})
	press(m, tea.KeyMsg{Type: tea.KeyDown})
	m.input.SetCursor(0)

	// First backspace turns the heading back into a paragraph.
	press(m, tea.KeyMsg{Type: tea.KeyBackspace})
	assert.Equal(t, document.Paragraph, m.Document().Blocks[1].Type)

	// Second backspace merges into the row above.
	press(m, tea.KeyMsg{Type: tea.KeyBackspace})
	doc := m.Document()
	require.Len(t, doc.Blocks, 1)
	assert.Equal(t, "updown", doc.Blocks[0].Text)
	assert.Equal(t, 2, m.input.Position())
}

func TestEnterWhileSessionOpenViaPageRouting(t *testing.T) {
	t.Parallel()

	// The page never forwards Enter to the editor while the popup is
	// open, so a stale session plus Enter can only happen through the
	// dialog's commit path; here we only check Enter closes cleanly when
	// the editor does receive it after a dismiss.
	m := newTestEditor(t)
	typeString(m, "/")
	m.EndTrigger()

	press(m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Len(t, m.Document().Blocks, 2)
}
