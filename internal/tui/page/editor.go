package page

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/notedown-sh/notedown/internal/app"
	"github.com/notedown-sh/notedown/internal/command"
	"github.com/notedown-sh/notedown/internal/document"
	"github.com/notedown-sh/notedown/internal/note"
	"github.com/notedown-sh/notedown/internal/revision"
	"github.com/notedown-sh/notedown/internal/status"
	"github.com/notedown-sh/notedown/internal/tui/components/dialog"
	"github.com/notedown-sh/notedown/internal/tui/components/editor"
	"github.com/notedown-sh/notedown/internal/tui/layout"
	"github.com/notedown-sh/notedown/internal/tui/util"
)

var EditorPage PageID = "editor"

// NoteSelectedMsg loads a note into the editor page.
type NoteSelectedMsg struct {
	Note note.Note
}

// NoteSavedMsg reports a completed save.
type NoteSavedMsg struct {
	Note note.Note
}

// NewNoteMsg starts a fresh unsaved document.
type NewNoteMsg struct{}

// AppendContentMsg adds markdown to the end of the open document.
type AppendContentMsg struct {
	Markdown string
}

type EditorPageCmp interface {
	tea.Model
	layout.Sizeable
	layout.Bindings

	CurrentNote() (note.Note, bool)
	Dirty() bool
	Markdown() string
}

type editorPage struct {
	width, height int

	app     *app.App
	editor  editor.Editor
	suggest dialog.SuggestDialog

	note    note.Note
	hasNote bool
}

func (p *editorPage) Init() tea.Cmd {
	return tea.Batch(p.editor.Init(), p.suggest.Init())
}

func (p *editorPage) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return p, p.SetSize(msg.Width, msg.Height)

	case NoteSelectedMsg:
		p.note = msg.Note
		p.hasNote = true
		p.editor.SetDocument(document.ParseMarkdown([]byte(msg.Note.Body)))
		return p, nil

	case NewNoteMsg:
		p.note = note.Note{}
		p.hasNote = false
		p.editor.SetDocument(document.New())
		return p, nil

	case NoteSavedMsg:
		p.note = msg.Note
		p.hasNote = true
		p.editor.MarkClean()
		return p, nil

	case AppendContentMsg:
		appended := document.ParseMarkdown([]byte(msg.Markdown))
		return p, p.editor.AppendBlocks(appended.Blocks)

	case dialog.ShowSuggestionsMsg, dialog.FilterSuggestionsMsg, dialog.CloseSuggestionsMsg:
		u, cmd := p.suggest.Update(msg)
		p.suggest = u.(dialog.SuggestDialog)
		return p, cmd

	case dialog.CommandSelectedMsg:
		return p, p.editor.ApplyCommand(msg.Command, msg.Range)

	case editor.SaveRequestedMsg:
		return p, p.save()

	case tea.KeyMsg:
		// While the popup is open it owns navigation and commit keys; the
		// editor never sees them. Everything else flows to the editor,
		// which is what drives the query updates.
		if p.suggest.IsOpen() {
			switch msg.String() {
			case "up", "down", "enter":
				u, cmd := p.suggest.Update(msg)
				p.suggest = u.(dialog.SuggestDialog)
				return p, cmd
			case "esc":
				p.editor.EndTrigger()
				u, cmd := p.suggest.Update(msg)
				p.suggest = u.(dialog.SuggestDialog)
				return p, cmd
			}
		}
		u, cmd := p.editor.Update(msg)
		p.editor = u.(editor.Editor)
		return p, cmd

	case tea.MouseMsg:
		// A click on a popup row belongs to the dialog alone. Letting it
		// reach the editor too would refocus the block under the popup and
		// the commit would then edit the wrong block.
		if p.suggest.IsOpen() && p.suggest.InBounds(msg) {
			u, cmd := p.suggest.Update(msg)
			p.suggest = u.(dialog.SuggestDialog)
			return p, cmd
		}
		u, cmd := p.editor.Update(msg)
		p.editor = u.(editor.Editor)
		return p, cmd
	}

	u, cmd := p.editor.Update(msg)
	p.editor = u.(editor.Editor)
	return p, cmd
}

// save persists the document as markdown: note row, revision snapshot, and
// the file on disk. A document without a backing note gets one created
// from its first heading.
func (p *editorPage) save() tea.Cmd {
	doc := p.editor.Document()
	body := string(doc.Markdown())
	current := p.note
	hasNote := p.hasNote
	workingDir := p.app.WorkingDir()

	return func() tea.Msg {
		ctx := context.Background()

		var (
			saved note.Note
			err   error
		)
		if hasNote {
			saved, err = note.Update(ctx, current.ID, current.Title, body)
		} else {
			title := titleFromDocument(doc)
			saved, err = note.Create(ctx, title, note.Slug(title)+".md", body)
		}
		if err != nil {
			status.Error(fmt.Sprintf("save failed: %v", err))
			return nil
		}

		if _, err := revision.CreateVersion(ctx, saved.ID, body); err != nil {
			status.Error(fmt.Sprintf("revision failed: %v", err))
			return nil
		}

		if saved.Path != "" {
			path := filepath.Join(workingDir, saved.Path)
			if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
				status.Error(fmt.Sprintf("write failed: %v", err))
				return nil
			}
		}

		status.Info("Saved " + saved.Title)
		return NoteSavedMsg{Note: saved}
	}
}

func titleFromDocument(doc document.Document) string {
	for _, b := range doc.Blocks {
		if b.Type == document.Heading && strings.TrimSpace(b.Text) != "" {
			return strings.TrimSpace(b.Text)
		}
	}
	for _, b := range doc.Blocks {
		if strings.TrimSpace(b.Text) != "" {
			title := strings.TrimSpace(b.Text)
			if len(title) > 60 {
				title = title[:60]
			}
			return title
		}
	}
	return "Untitled"
}

func (p *editorPage) View() string {
	view := p.editor.View()

	if p.suggest.IsOpen() {
		popup := p.suggest.View()
		if popup != "" {
			a := p.suggest.Anchor()
			view = layout.PlaceOverlay(a.X, a.Y+1, popup, view, true)
		}
	}

	return view
}

func (p *editorPage) CurrentNote() (note.Note, bool) {
	return p.note, p.hasNote
}

func (p *editorPage) Dirty() bool {
	return p.editor.Dirty()
}

// Markdown serializes the current document, saved or not.
func (p *editorPage) Markdown() string {
	return string(p.editor.Document().Markdown())
}

func (p *editorPage) SetSize(width, height int) tea.Cmd {
	p.width = width
	p.height = height
	return p.editor.SetSize(width, height)
}

func (p *editorPage) GetSize() (int, int) {
	return p.width, p.height
}

func (p *editorPage) BindingKeys() []key.Binding {
	bindings := p.editor.BindingKeys()
	bindings = append(bindings, p.suggest.BindingKeys()...)
	return bindings
}

// SaveCmd exposes the save flow to the app-level palette.
func (p *editorPage) SaveCmd() tea.Cmd {
	return util.CmdHandler(editor.SaveRequestedMsg{})
}

func NewEditorPage(a *app.App, registry *command.Registry) EditorPageCmp {
	return &editorPage{
		app:     a,
		editor:  editor.NewEditor(),
		suggest: dialog.NewSuggestDialog(registry),
	}
}
