// Package editor implements the block editor: an ordered list of typed
// blocks edited one at a time through a single-line input. It owns the
// trigger watcher that opens and feeds the slash-command suggestion popup,
// and implements command.Surface so committed commands can edit the
// document without reaching into editor internals.
package editor

import (
	"strings"
	"unicode"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/notedown-sh/notedown/internal/command"
	"github.com/notedown-sh/notedown/internal/document"
	"github.com/notedown-sh/notedown/internal/status"
	"github.com/notedown-sh/notedown/internal/tui/components/dialog"
	"github.com/notedown-sh/notedown/internal/tui/layout"
	"github.com/notedown-sh/notedown/internal/tui/styles"
	"github.com/notedown-sh/notedown/internal/tui/theme"
	"github.com/notedown-sh/notedown/internal/tui/util"
)

// SaveRequestedMsg asks the page to persist the current document.
type SaveRequestedMsg struct{}

// DirtyChangedMsg reports whether the document has unsaved edits.
type DirtyChangedMsg struct {
	Dirty bool
}

type Editor interface {
	tea.Model
	layout.Sizeable
	layout.Bindings

	SetDocument(doc document.Document)
	Document() document.Document
	Dirty() bool
	MarkClean()
	ApplyCommand(c command.Command, r document.Range) tea.Cmd
	AppendBlocks(blocks []document.Block) tea.Cmd
	EndTrigger()
}

// triggerSession tracks an open slash-command session: the row holding the
// trigger and the rune offset of the slash within that row's text.
type triggerSession struct {
	row   int
	start int
}

type editorCmp struct {
	width  int
	height int

	doc    document.Document
	row    int
	input  textinput.Model
	scroll int
	dirty  bool

	trigger    *triggerSession
	lastAnchor dialog.Anchor
}

type EditorKeyMap struct {
	Save      key.Binding
	DeleteRow key.Binding
	MoveUp    key.Binding
	MoveDown  key.Binding
	Paste     key.Binding
	CopyRow   key.Binding
}

var editorKeys = EditorKeyMap{
	Save: key.NewBinding(
		key.WithKeys("ctrl+s"),
		key.WithHelp("ctrl+s", "save note"),
	),
	DeleteRow: key.NewBinding(
		key.WithKeys("ctrl+d"),
		key.WithHelp("ctrl+d", "delete block"),
	),
	MoveUp: key.NewBinding(
		key.WithKeys("alt+up"),
		key.WithHelp("alt+↑", "move block up"),
	),
	MoveDown: key.NewBinding(
		key.WithKeys("alt+down"),
		key.WithHelp("alt+↓", "move block down"),
	),
	Paste: key.NewBinding(
		key.WithKeys("ctrl+v"),
		key.WithHelp("ctrl+v", "paste"),
	),
	CopyRow: key.NewBinding(
		key.WithKeys("alt+c"),
		key.WithHelp("alt+c", "copy block"),
	),
}

func (m *editorCmp) Init() tea.Cmd {
	return textinput.Blink
}

func (m *editorCmp) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		if msg.Type == tea.MouseLeft {
			return m, m.handleClick(msg)
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *editorCmp) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, editorKeys.Save):
		return m, util.CmdHandler(SaveRequestedMsg{})
	case key.Matches(msg, editorKeys.DeleteRow):
		return m, m.deleteRow()
	case key.Matches(msg, editorKeys.MoveUp):
		return m, m.moveRow(-1)
	case key.Matches(msg, editorKeys.MoveDown):
		return m, m.moveRow(1)
	case key.Matches(msg, editorKeys.Paste):
		return m, m.paste()
	case key.Matches(msg, editorKeys.CopyRow):
		return m, m.copyRow()
	}

	switch msg.Type {
	case tea.KeyEnter:
		return m, m.splitRow()
	case tea.KeyUp:
		return m, m.focusRow(m.row-1, -1)
	case tea.KeyDown:
		return m, m.focusRow(m.row+1, -1)
	case tea.KeyBackspace:
		if m.input.Position() == 0 {
			return m, m.mergeWithPrevious()
		}
	}

	prevValue := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.storeInput()
	var dirty tea.Cmd
	if m.input.Value() != prevValue {
		dirty = m.markDirty()
	}
	return m, tea.Batch(cmd, dirty, m.watchTrigger(prevValue))
}

// watchTrigger runs once per edit or caret move on the focused row. It
// opens a suggestion session when a slash lands at a legal start, streams
// query updates while one is open, and closes it when the caret escapes
// the tracked range or the slash itself is gone.
func (m *editorCmp) watchTrigger(prevValue string) tea.Cmd {
	value := m.input.Value()
	pos := m.input.Position()
	runes := []rune(value)

	if m.trigger == nil {
		if m.block().Type == document.Code {
			return nil
		}
		if value == prevValue {
			return nil
		}
		if pos < 1 || pos > len(runes) || runes[pos-1] != '/' {
			return nil
		}
		if pos-1 > 0 && !unicode.IsSpace(runes[pos-2]) {
			return nil
		}
		m.trigger = &triggerSession{row: m.row, start: pos - 1}
		return util.CmdHandler(dialog.ShowSuggestionsMsg{
			Query:  "",
			Range:  document.Range{Start: pos - 1, End: pos},
			Anchor: m.anchor(),
		})
	}

	if m.row != m.trigger.row ||
		pos <= m.trigger.start ||
		m.trigger.start >= len(runes) ||
		runes[m.trigger.start] != '/' {
		m.trigger = nil
		return util.CmdHandler(dialog.CloseSuggestionsMsg{})
	}

	return util.CmdHandler(dialog.FilterSuggestionsMsg{
		Query:  string(runes[m.trigger.start+1 : pos]),
		Range:  document.Range{Start: m.trigger.start, End: pos},
		Anchor: m.anchor(),
	})
}

// anchor returns the screen cell of the trigger slash. When the focused
// row has scrolled out of the viewport the previous anchor is reused so
// the session survives until the row is visible again.
func (m *editorCmp) anchor() dialog.Anchor {
	if m.trigger != nil && (m.trigger.row < m.scroll || m.trigger.row >= m.scroll+m.height) {
		return m.lastAnchor
	}
	col := m.input.Position()
	if m.trigger != nil {
		col = m.trigger.start
	}
	runes := []rune(m.input.Value())
	if col > len(runes) {
		col = len(runes)
	}
	m.lastAnchor = dialog.Anchor{
		X: lipgloss.Width(m.prefix(m.row)) + lipgloss.Width(string(runes[:col])),
		Y: m.row - m.scroll,
	}
	return m.lastAnchor
}

func (m *editorCmp) closeTrigger() tea.Cmd {
	if m.trigger == nil {
		return nil
	}
	m.trigger = nil
	return util.CmdHandler(dialog.CloseSuggestionsMsg{})
}

// EndTrigger ends the watcher session on an explicit dismissal and removes
// the trigger slash plus the typed query, leaving the block as it was
// before the slash and the caret back at the slash's position. The page
// calls it when the popup is dismissed on a key the editor never sees.
func (m *editorCmp) EndTrigger() {
	tr := m.trigger
	m.trigger = nil
	if tr == nil || tr.row != m.row {
		return
	}
	runes := []rune(m.input.Value())
	pos := m.input.Position()
	if tr.start >= len(runes) || runes[tr.start] != '/' || pos < tr.start || pos > len(runes) {
		return
	}
	m.input.SetValue(string(runes[:tr.start]) + string(runes[pos:]))
	m.input.SetCursor(tr.start)
	m.storeInput()
}

// ApplyCommand runs a committed slash command against the editor through
// the Surface boundary. The session is over either way.
func (m *editorCmp) ApplyCommand(c command.Command, r document.Range) tea.Cmd {
	m.trigger = nil
	c.Apply(m, r)
	return m.markDirty()
}

// DeleteRange implements command.Surface on the focused block.
func (m *editorCmp) DeleteRange(r document.Range) {
	b := m.block()
	b.DeleteRange(r)
	m.input.SetValue(b.Text)
	m.input.SetCursor(r.Clamp(b.Text).Start)
}

// SetBlockType implements command.Surface.
func (m *editorCmp) SetBlockType(t document.BlockType, level int) {
	b := m.block()
	b.Type = t
	b.Level = level
}

// InsertBlockAfter implements command.Surface.
func (m *editorCmp) InsertBlockAfter(b document.Block) {
	m.storeInput()
	m.doc.InsertAfter(m.row, b)
	m.row++
	m.loadInput()
	m.ensureVisible()
}

func (m *editorCmp) block() *document.Block {
	return &m.doc.Blocks[m.row]
}

func (m *editorCmp) storeInput() {
	m.doc.Blocks[m.row].Text = m.input.Value()
}

func (m *editorCmp) loadInput() {
	m.input.SetValue(m.block().Text)
	m.input.CursorEnd()
}

func (m *editorCmp) markDirty() tea.Cmd {
	if m.dirty {
		return nil
	}
	m.dirty = true
	return util.CmdHandler(DirtyChangedMsg{Dirty: true})
}

// splitRow breaks the focused block at the caret, carrying the tail into a
// fresh paragraph below.
func (m *editorCmp) splitRow() tea.Cmd {
	close := m.closeTrigger()

	runes := []rune(m.input.Value())
	pos := m.input.Position()
	head, tail := string(runes[:pos]), string(runes[pos:])

	m.doc.Blocks[m.row].Text = head
	next := document.NewBlock(document.Paragraph)
	next.Text = tail
	m.doc.InsertAfter(m.row, next)
	m.row++
	m.input.SetValue(tail)
	m.input.SetCursor(0)
	m.ensureVisible()
	return tea.Batch(close, m.markDirty())
}

// mergeWithPrevious handles backspace at offset zero: a styled block first
// falls back to a paragraph, a paragraph is merged into the row above.
func (m *editorCmp) mergeWithPrevious() tea.Cmd {
	close := m.closeTrigger()

	b := m.block()
	if b.Type != document.Paragraph {
		b.Type = document.Paragraph
		b.Level = 0
		return tea.Batch(close, m.markDirty())
	}
	if m.row == 0 {
		return close
	}

	m.storeInput()
	prev := &m.doc.Blocks[m.row-1]
	caret := len([]rune(prev.Text))
	prev.Text += b.Text
	m.doc.Remove(m.row)
	m.row--
	m.input.SetValue(m.block().Text)
	m.input.SetCursor(caret)
	m.ensureVisible()
	return tea.Batch(close, m.markDirty())
}

func (m *editorCmp) deleteRow() tea.Cmd {
	close := m.closeTrigger()
	m.doc.Remove(m.row)
	if m.row >= len(m.doc.Blocks) {
		m.row = len(m.doc.Blocks) - 1
	}
	m.loadInput()
	m.ensureVisible()
	return tea.Batch(close, m.markDirty())
}

func (m *editorCmp) moveRow(delta int) tea.Cmd {
	to := m.row + delta
	if to < 0 || to >= len(m.doc.Blocks) {
		return nil
	}
	close := m.closeTrigger()
	m.storeInput()
	m.doc.Move(m.row, to)
	m.row = to
	m.ensureVisible()
	return tea.Batch(close, m.markDirty())
}

func (m *editorCmp) focusRow(row, caret int) tea.Cmd {
	if row < 0 || row >= len(m.doc.Blocks) {
		return nil
	}
	close := m.closeTrigger()
	m.storeInput()
	m.row = row
	m.loadInput()
	if caret >= 0 {
		m.input.SetCursor(caret)
	}
	m.ensureVisible()
	return close
}

func (m *editorCmp) handleClick(msg tea.MouseMsg) tea.Cmd {
	row := m.scroll + msg.Y
	if row < 0 || row >= len(m.doc.Blocks) {
		return nil
	}
	return m.focusRow(row, -1)
}

// copyRow puts the focused block on the clipboard as markdown.
func (m *editorCmp) copyRow() tea.Cmd {
	m.storeInput()
	one := document.Document{Blocks: []document.Block{*m.block()}}
	text := strings.TrimRight(string(one.Markdown()), "\n")
	if err := clipboard.WriteAll(text); err != nil {
		return nil
	}
	status.Info("Block copied")
	return nil
}

func (m *editorCmp) paste() tea.Cmd {
	text, err := clipboard.ReadAll()
	if err != nil || text == "" {
		return nil
	}
	// Flatten; blocks hold a single run of text.
	text = strings.ReplaceAll(text, "\n", " ")
	runes := []rune(m.input.Value())
	pos := m.input.Position()
	prev := m.input.Value()
	m.input.SetValue(string(runes[:pos]) + text + string(runes[pos:]))
	m.input.SetCursor(pos + len([]rune(text)))
	m.storeInput()
	return tea.Batch(m.watchTrigger(prev), m.markDirty())
}

func (m *editorCmp) ensureVisible() {
	if m.row < m.scroll {
		m.scroll = m.row
	}
	if m.height > 0 && m.row >= m.scroll+m.height {
		m.scroll = m.row - m.height + 1
	}
}

// prefix returns the rendered marker in front of a block's text.
func (m *editorCmp) prefix(i int) string {
	t := theme.CurrentTheme()
	base := styles.BaseStyle()
	b := m.doc.Blocks[i]
	switch b.Type {
	case document.Heading:
		level := util.Clamp(b.Level, 1, 3)
		return base.Bold(true).Foreground(t.MarkdownHeading()).
			Render(strings.Repeat("#", level) + " ")
	case document.BulletItem:
		return base.Foreground(t.MarkdownListItem()).Render("• ")
	case document.OrderedItem:
		return base.Foreground(t.MarkdownListItem()).Render(m.ordinal(i) + ". ")
	case document.Quote:
		return base.Foreground(t.MarkdownBlockQuote()).Render("┃ ")
	case document.Code:
		return base.Foreground(t.MarkdownCode()).Render("  ")
	case document.Callout:
		kind := b.Kind
		if kind == "" {
			kind = "note"
		}
		color := t.Info()
		switch kind {
		case "warning":
			color = t.Warning()
		case "tip":
			color = t.Success()
		}
		return base.Foreground(color).Render("▍" + kind + " ")
	default:
		return base.Render("")
	}
}

// ordinal numbers a run of consecutive ordered items starting at one.
func (m *editorCmp) ordinal(i int) string {
	n := 1
	for j := i - 1; j >= 0 && m.doc.Blocks[j].Type == document.OrderedItem; j-- {
		n++
	}
	return itoa(n)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var digits []byte
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	return string(digits)
}

func (m *editorCmp) renderBlock(i int) string {
	t := theme.CurrentTheme()
	base := styles.BaseStyle()
	b := m.doc.Blocks[i]

	if b.Type == document.Divider {
		width := max(m.width, 3)
		return base.Foreground(t.BorderDim()).Render(strings.Repeat("─", width))
	}
	if b.Type == document.Image {
		label := b.Alt
		if label == "" {
			label = b.Path
		}
		return base.Foreground(t.TextMuted()).
			Render(styles.DocumentIcon + " " + label + " (" + b.Path + ")")
	}

	if i == m.row {
		return m.prefix(i) + m.input.View()
	}

	text := b.Text
	switch b.Type {
	case document.Heading:
		return m.prefix(i) + base.Bold(true).Foreground(t.MarkdownHeading()).Render(text)
	case document.Quote:
		return m.prefix(i) + base.Italic(true).Foreground(t.MarkdownBlockQuote()).Render(text)
	case document.Code:
		return m.prefix(i) + m.highlightCode(b)
	default:
		return m.prefix(i) + base.Render(text)
	}
}

// highlightCode runs an unfocused code block through chroma. The focused
// row stays a plain input so the caret math holds.
func (m *editorCmp) highlightCode(b document.Block) string {
	lang := b.Language
	if lang == "" {
		lang = "text"
	}
	var sb strings.Builder
	if err := quick.Highlight(&sb, b.Text, lang, "terminal256", "monokai"); err != nil {
		return styles.BaseStyle().Foreground(theme.CurrentTheme().MarkdownCode()).Render(b.Text)
	}
	return strings.TrimRight(sb.String(), "\n")
}

func (m *editorCmp) View() string {
	if m.height <= 0 {
		return ""
	}
	lines := make([]string, 0, m.height)
	for i := m.scroll; i < len(m.doc.Blocks) && i < m.scroll+m.height; i++ {
		lines = append(lines, m.renderBlock(i))
	}
	view := strings.Join(lines, "\n")
	return styles.BaseStyle().
		Width(m.width).
		Height(m.height).
		Render(view)
}

func (m *editorCmp) SetSize(width, height int) tea.Cmd {
	m.width = width
	m.height = height
	m.input.Width = 0
	m.ensureVisible()
	return nil
}

func (m *editorCmp) GetSize() (int, int) {
	return m.width, m.height
}

func (m *editorCmp) SetDocument(doc document.Document) {
	if len(doc.Blocks) == 0 {
		doc = document.New()
	}
	m.doc = doc
	m.row = 0
	m.scroll = 0
	m.trigger = nil
	m.dirty = false
	m.loadInput()
	m.input.SetCursor(0)
}

func (m *editorCmp) Document() document.Document {
	m.storeInput()
	return m.doc
}

// AppendBlocks adds blocks to the end of the document and moves focus to the
// first of them, leaving any earlier rows untouched.
func (m *editorCmp) AppendBlocks(blocks []document.Block) tea.Cmd {
	if len(blocks) == 0 {
		return nil
	}
	close := m.closeTrigger()
	m.storeInput()
	m.doc.Blocks = append(m.doc.Blocks, blocks...)
	m.row = len(m.doc.Blocks) - len(blocks)
	m.loadInput()
	m.ensureVisible()
	return tea.Batch(close, m.markDirty())
}

func (m *editorCmp) Dirty() bool {
	return m.dirty
}

func (m *editorCmp) MarkClean() {
	m.dirty = false
}

func (m *editorCmp) BindingKeys() []key.Binding {
	return layout.KeyMapToSlice(editorKeys)
}

func createInput() textinput.Model {
	t := theme.CurrentTheme()
	ti := textinput.New()
	ti.Prompt = ""
	ti.TextStyle = lipgloss.NewStyle().Background(t.Background()).Foreground(t.Text())
	ti.PlaceholderStyle = lipgloss.NewStyle().Background(t.Background()).Foreground(t.TextMuted())
	ti.Cursor.Style = lipgloss.NewStyle().Foreground(t.Primary())
	ti.Focus()
	return ti
}

func NewEditor() Editor {
	m := &editorCmp{
		doc:   document.New(),
		input: createInput(),
	}
	m.loadInput()
	m.input.SetCursor(0)
	return m
}
