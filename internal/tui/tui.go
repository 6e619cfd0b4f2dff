// Package tui wires the pages, dialogs, and status bar into the top-level
// bubbletea model.
package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"

	"github.com/notedown-sh/notedown/internal/app"
	"github.com/notedown-sh/notedown/internal/assist"
	"github.com/notedown-sh/notedown/internal/command"
	"github.com/notedown-sh/notedown/internal/logging"
	"github.com/notedown-sh/notedown/internal/note"
	"github.com/notedown-sh/notedown/internal/pubsub"
	"github.com/notedown-sh/notedown/internal/status"
	"github.com/notedown-sh/notedown/internal/tui/components/core"
	"github.com/notedown-sh/notedown/internal/tui/components/dialog"
	"github.com/notedown-sh/notedown/internal/tui/components/editor"
	"github.com/notedown-sh/notedown/internal/tui/layout"
	"github.com/notedown-sh/notedown/internal/tui/page"
	"github.com/notedown-sh/notedown/internal/tui/util"
)

type keyMap struct {
	Logs        key.Binding
	Preview     key.Binding
	Palette     key.Binding
	SwitchTheme key.Binding
	NewNote     key.Binding
	Help        key.Binding
	Quit        key.Binding
}

var keys = keyMap{
	Logs: key.NewBinding(
		key.WithKeys("ctrl+l"),
		key.WithHelp("ctrl+l", "logs"),
	),
	Preview: key.NewBinding(
		key.WithKeys("ctrl+p"),
		key.WithHelp("ctrl+p", "toggle preview"),
	),
	Palette: key.NewBinding(
		key.WithKeys("ctrl+k"),
		key.WithHelp("ctrl+k", "command palette"),
	),
	SwitchTheme: key.NewBinding(
		key.WithKeys("ctrl+t"),
		key.WithHelp("ctrl+t", "switch theme"),
	),
	NewNote: key.NewBinding(
		key.WithKeys("ctrl+n"),
		key.WithHelp("ctrl+n", "new note"),
	),
	Help: key.NewBinding(
		key.WithKeys("ctrl+_"),
		key.WithHelp("ctrl+?", "toggle help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("ctrl+c"),
		key.WithHelp("ctrl+c", "quit"),
	),
}

var returnKey = key.NewBinding(
	key.WithKeys("esc"),
	key.WithHelp("esc", "go back"),
)

type appModel struct {
	width, height int
	currentPage   page.PageID
	previousPage  page.PageID
	pages         map[page.PageID]tea.Model
	loadedPages   map[page.PageID]bool
	status        core.StatusCmp
	app           *app.App

	editorPage page.EditorPageCmp

	showPalette bool
	palette     dialog.PaletteDialog

	showThemeDialog bool
	themeDialog     dialog.ThemeDialog

	showHelp bool
	help     dialog.HelpDialog

	showQuit bool
	quit     dialog.QuitDialog
}

func (a appModel) Init() tea.Cmd {
	var cmds []tea.Cmd
	cmd := a.pages[a.currentPage].Init()
	a.loadedPages[a.currentPage] = true
	cmds = append(cmds, cmd)
	cmds = append(cmds, a.status.Init())
	cmds = append(cmds, a.palette.Init())
	cmds = append(cmds, a.help.Init())
	cmds = append(cmds, a.quit.Init())
	return tea.Batch(cmds...)
}

func (a appModel) updateAllPages(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd
	for id := range a.pages {
		a.pages[id], cmd = a.pages[id].Update(msg)
		cmds = append(cmds, cmd)
	}
	return a, tea.Batch(cmds...)
}

func (a appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case cursor.BlinkMsg:
		return a.updateAllPages(msg)
	case spinner.TickMsg:
		return a.updateAllPages(msg)

	case tea.WindowSizeMsg:
		msg.Height -= 1 // status bar
		a.width, a.height = msg.Width, msg.Height

		s, _ := a.status.Update(tea.WindowSizeMsg{Width: msg.Width, Height: 1})
		a.status = s.(core.StatusCmp)

		a.pages[a.currentPage], cmd = a.pages[a.currentPage].Update(msg)
		cmds = append(cmds, cmd)
		return a, tea.Batch(cmds...)

	case page.NoteSelectedMsg, page.NoteSavedMsg, page.NewNoteMsg, page.AppendContentMsg:
		a.pages[page.EditorPage], cmd = a.pages[page.EditorPage].Update(msg)
		cmds = append(cmds, cmd, a.syncStatusNote())
		return a, tea.Batch(cmds...)

	case editor.DirtyChangedMsg:
		return a, a.syncStatusNote()

	case pubsub.Event[logging.Log]:
		a.pages[page.LogsPage], cmd = a.pages[page.LogsPage].Update(msg)
		return a, cmd

	case pubsub.Event[status.StatusMessage]:
		s, cmd := a.status.Update(msg)
		a.status = s.(core.StatusCmp)
		return a, cmd

	case core.SetNoteMsg:
		s, cmd := a.status.Update(msg)
		a.status = s.(core.StatusCmp)
		return a, cmd

	case dialog.ClosePaletteMsg:
		a.showPalette = false
		return a, nil

	case dialog.PaletteSelectedMsg:
		a.showPalette = false
		return a, a.runPaletteAction(msg.Item)

	case dialog.CloseThemeDialogMsg:
		a.showThemeDialog = false
		return a, nil

	case dialog.ThemeSelectedMsg:
		a.showThemeDialog = false
		status.Info("Theme changed to " + msg.ThemeName)
		return a, nil

	case dialog.CloseHelpDialogMsg:
		a.showHelp = false
		return a, nil

	case dialog.CloseQuitDialogMsg:
		a.showQuit = false
		return a, nil

	case dialog.QuitConfirmedMsg:
		return a, tea.Quit

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			a.showQuit = !a.showQuit
			a.showPalette = false
			a.showThemeDialog = false
			a.showHelp = false
			return a, nil

		case key.Matches(msg, keys.Palette):
			if a.anyDialogOpen() {
				return a, nil
			}
			a.palette.SetItems(a.paletteItems())
			a.showPalette = true
			return a, nil

		case key.Matches(msg, keys.SwitchTheme):
			if a.anyDialogOpen() {
				return a, nil
			}
			a.themeDialog = dialog.NewThemeDialog()
			a.showThemeDialog = true
			return a, a.themeDialog.Init()

		case key.Matches(msg, keys.Help):
			if a.showQuit {
				return a, nil
			}
			a.showHelp = !a.showHelp
			return a, nil

		case key.Matches(msg, keys.Logs):
			if a.anyDialogOpen() {
				return a, nil
			}
			return a, a.moveToPage(page.LogsPage)

		case key.Matches(msg, keys.Preview):
			if a.anyDialogOpen() {
				return a, nil
			}
			if a.currentPage == page.PreviewPage {
				return a, a.moveToPage(page.EditorPage)
			}
			return a, a.moveToPage(page.PreviewPage)

		case key.Matches(msg, keys.NewNote):
			if a.anyDialogOpen() || a.currentPage != page.EditorPage {
				return a, nil
			}
			return a, util.CmdHandler(page.NewNoteMsg{})

		case key.Matches(msg, returnKey):
			if a.anyDialogOpen() {
				break
			}
			if a.currentPage == page.LogsPage || a.currentPage == page.PreviewPage {
				return a, a.moveToPage(page.EditorPage)
			}
		}
	}

	if a.showQuit {
		q, quitCmd := a.quit.Update(msg)
		a.quit = q.(dialog.QuitDialog)
		cmds = append(cmds, quitCmd)
		if _, ok := msg.(tea.KeyMsg); ok {
			return a, tea.Batch(cmds...)
		}
	}

	if a.showPalette {
		p, paletteCmd := a.palette.Update(msg)
		a.palette = p.(dialog.PaletteDialog)
		cmds = append(cmds, paletteCmd)
		if _, ok := msg.(tea.KeyMsg); ok {
			return a, tea.Batch(cmds...)
		}
	}

	if a.showThemeDialog {
		d, themeCmd := a.themeDialog.Update(msg)
		a.themeDialog = d.(dialog.ThemeDialog)
		cmds = append(cmds, themeCmd)
		if _, ok := msg.(tea.KeyMsg); ok {
			return a, tea.Batch(cmds...)
		}
	}

	if a.showHelp {
		h, helpCmd := a.help.Update(msg)
		a.help = h.(dialog.HelpDialog)
		cmds = append(cmds, helpCmd)
		if _, ok := msg.(tea.KeyMsg); ok {
			return a, tea.Batch(cmds...)
		}
	}

	s, cmd := a.status.Update(msg)
	cmds = append(cmds, cmd)
	a.status = s.(core.StatusCmp)

	a.pages[a.currentPage], cmd = a.pages[a.currentPage].Update(msg)
	cmds = append(cmds, cmd)
	return a, tea.Batch(cmds...)
}

func (a *appModel) anyDialogOpen() bool {
	return a.showPalette || a.showThemeDialog || a.showHelp || a.showQuit
}

// syncStatusNote mirrors the editor page's note state into the status bar.
func (a *appModel) syncStatusNote() tea.Cmd {
	n, ok := a.editorPage.CurrentNote()
	title := ""
	if ok {
		title = n.Title
	}
	return util.CmdHandler(core.SetNoteMsg{Title: title, Dirty: a.editorPage.Dirty()})
}

// paletteItems builds the app actions plus an open entry for every note.
func (a *appModel) paletteItems() []dialog.PaletteItem {
	items := []dialog.PaletteItem{
		{Title: "New note", Action: dialog.PaletteNewNote},
		{Title: "Save note", Action: dialog.PaletteSaveNote},
		{Title: "Continue writing", Action: dialog.PaletteContinue},
		{Title: "Toggle preview", Action: dialog.PalettePreview},
		{Title: "Switch theme", Action: dialog.PaletteSwitchTheme},
		{Title: "View logs", Action: dialog.PaletteLogs},
		{Title: "Quit", Action: dialog.PaletteQuit},
	}
	notes, err := note.List(context.Background())
	if err != nil {
		status.Error(err.Error())
		return items
	}
	for _, n := range notes {
		items = append(items, dialog.PaletteItem{
			Title:  "Open: " + n.Title,
			Action: dialog.PaletteOpenNote,
			NoteID: n.ID,
		})
	}
	return items
}

func (a *appModel) runPaletteAction(item dialog.PaletteItem) tea.Cmd {
	switch item.Action {
	case dialog.PaletteNewNote:
		return tea.Batch(
			a.moveToPage(page.EditorPage),
			util.CmdHandler(page.NewNoteMsg{}),
		)
	case dialog.PaletteSaveNote:
		return util.CmdHandler(editor.SaveRequestedMsg{})
	case dialog.PaletteOpenNote:
		noteID := item.NoteID
		return tea.Batch(
			a.moveToPage(page.EditorPage),
			func() tea.Msg {
				n, err := note.Get(context.Background(), noteID)
				if err != nil {
					status.Error(err.Error())
					return nil
				}
				return page.NoteSelectedMsg{Note: n}
			},
		)
	case dialog.PaletteContinue:
		body := a.editorPage.Markdown()
		if strings.TrimSpace(body) == "" {
			status.Warn("Nothing to continue from")
			return nil
		}
		return tea.Batch(
			a.moveToPage(page.EditorPage),
			func() tea.Msg {
				provider, err := a.app.Assist()
				if err != nil {
					status.Error(err.Error())
					return nil
				}
				out, err := assist.Run(context.Background(), provider, assist.TaskContinue, body)
				if err != nil {
					status.Error(err.Error())
					return nil
				}
				if strings.TrimSpace(out) == "" {
					status.Warn("Assistant returned nothing")
					return nil
				}
				return page.AppendContentMsg{Markdown: out}
			},
		)
	case dialog.PaletteSwitchTheme:
		a.themeDialog = dialog.NewThemeDialog()
		a.showThemeDialog = true
		return a.themeDialog.Init()
	case dialog.PalettePreview:
		return a.moveToPage(page.PreviewPage)
	case dialog.PaletteLogs:
		return a.moveToPage(page.LogsPage)
	case dialog.PaletteQuit:
		a.showQuit = true
		return nil
	}
	return nil
}

func (a *appModel) moveToPage(pageID page.PageID) tea.Cmd {
	var cmds []tea.Cmd
	if _, ok := a.loadedPages[pageID]; !ok {
		cmd := a.pages[pageID].Init()
		cmds = append(cmds, cmd)
		a.loadedPages[pageID] = true
	}
	a.previousPage = a.currentPage
	a.currentPage = pageID
	if sizable, ok := a.pages[a.currentPage].(layout.Sizeable); ok {
		cmd := sizable.SetSize(a.width, a.height)
		cmds = append(cmds, cmd)
	}

	if pageID == page.PreviewPage {
		n, _ := a.editorPage.CurrentNote()
		title := n.Title
		if title == "" {
			title = "untitled"
		}
		cmds = append(cmds, util.CmdHandler(page.PreviewContentMsg{
			Title:      title,
			Body:       a.editorPage.Markdown(),
			WorkingDir: a.app.WorkingDir(),
		}))
	}

	return tea.Batch(cmds...)
}

func (a appModel) View() string {
	components := []string{
		a.pages[a.currentPage].View(),
		a.status.View(),
	}
	appView := lipgloss.JoinVertical(lipgloss.Top, components...)

	placeCentered := func(overlay string) {
		row := lipgloss.Height(appView)/2 - lipgloss.Height(overlay)/2
		col := lipgloss.Width(appView)/2 - lipgloss.Width(overlay)/2
		appView = layout.PlaceOverlay(col, row, overlay, appView, true)
	}

	if a.showPalette {
		placeCentered(a.palette.View())
	}

	if a.showThemeDialog {
		placeCentered(a.themeDialog.View())
	}

	if a.showHelp {
		bindings := layout.KeyMapToSlice(keys)
		if p, ok := a.pages[a.currentPage].(layout.Bindings); ok {
			bindings = append(bindings, p.BindingKeys()...)
		}
		if a.currentPage != page.EditorPage {
			bindings = append(bindings, returnKey)
		}
		a.help.SetBindings(bindings)
		placeCentered(a.help.View())
	}

	if a.showQuit {
		placeCentered(a.quit.View())
	}

	// Zones registered by the dialogs resolve against the final frame.
	return zone.Scan(appView)
}

func New(app *app.App) tea.Model {
	registry := command.Builtin()
	editorPage := page.NewEditorPage(app, registry)

	return appModel{
		currentPage: page.EditorPage,
		loadedPages: make(map[page.PageID]bool),
		status:      core.NewStatusCmp(),
		app:         app,
		editorPage:  editorPage,
		palette:     dialog.NewPaletteDialog(),
		themeDialog: dialog.NewThemeDialog(),
		help:        dialog.NewHelpDialog(),
		quit:        dialog.NewQuitDialog(),
		pages: map[page.PageID]tea.Model{
			page.EditorPage:  editorPage,
			page.PreviewPage: page.NewPreviewPage(),
			page.LogsPage:    page.NewLogsPage(),
		},
	}
}
