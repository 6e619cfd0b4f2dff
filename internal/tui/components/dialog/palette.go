package dialog

import (
	"fmt"
	"sort"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/lithammer/fuzzysearch/fuzzy"
	zone "github.com/lrstanley/bubblezone"

	"github.com/notedown-sh/notedown/internal/tui/layout"
	"github.com/notedown-sh/notedown/internal/tui/styles"
	"github.com/notedown-sh/notedown/internal/tui/theme"
	"github.com/notedown-sh/notedown/internal/tui/util"
)

const (
	paletteWidth       = 48
	numVisibleActions  = 10
	palettePlaceholder = "Type to search…"
)

// PaletteAction identifies an app-level command in the palette.
type PaletteAction string

const (
	PaletteNewNote     PaletteAction = "new_note"
	PaletteSaveNote    PaletteAction = "save_note"
	PaletteOpenNote    PaletteAction = "open_note"
	PaletteSwitchTheme PaletteAction = "switch_theme"
	PalettePreview     PaletteAction = "toggle_preview"
	PaletteContinue    PaletteAction = "continue_writing"
	PaletteLogs        PaletteAction = "view_logs"
	PaletteQuit        PaletteAction = "quit"
)

// PaletteItem is one selectable palette entry. Open-note entries carry the
// note's ID next to the action.
type PaletteItem struct {
	Title  string
	Action PaletteAction
	NoteID string
}

// PaletteSelectedMsg reports the chosen entry.
type PaletteSelectedMsg struct {
	Item PaletteItem
}

// ClosePaletteMsg dismisses the palette.
type ClosePaletteMsg struct{}

type PaletteDialog interface {
	tea.Model
	layout.Bindings

	SetItems(items []PaletteItem)
}

type paletteDialogCmp struct {
	items    []PaletteItem
	filtered []PaletteItem
	input    textinput.Model

	selectedIdx  int
	scrollOffset int
}

type paletteKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Enter  key.Binding
	Escape key.Binding
}

var paletteKeys = paletteKeyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "ctrl+p"),
		key.WithHelp("↑", "previous entry"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "ctrl+n"),
		key.WithHelp("↓", "next entry"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "run"),
	),
	Escape: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "close"),
	),
}

func (d *paletteDialogCmp) Init() tea.Cmd {
	return textinput.Blink
}

func (d *paletteDialogCmp) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, paletteKeys.Up):
			d.moveSelection(-1)
			return d, nil
		case key.Matches(msg, paletteKeys.Down):
			d.moveSelection(1)
			return d, nil
		case key.Matches(msg, paletteKeys.Enter):
			if len(d.filtered) == 0 {
				return d, nil
			}
			item := d.filtered[d.selectedIdx]
			return d, tea.Sequence(
				util.CmdHandler(ClosePaletteMsg{}),
				util.CmdHandler(PaletteSelectedMsg{Item: item}),
			)
		case key.Matches(msg, paletteKeys.Escape):
			return d, util.CmdHandler(ClosePaletteMsg{})
		}
	}

	if msg, ok := msg.(tea.MouseMsg); ok && msg.Type == tea.MouseLeft {
		for i := range d.filtered {
			if zone.Get(paletteZoneID(i)).InBounds(msg) {
				item := d.filtered[i]
				return d, tea.Sequence(
					util.CmdHandler(ClosePaletteMsg{}),
					util.CmdHandler(PaletteSelectedMsg{Item: item}),
				)
			}
		}
		return d, nil
	}

	prev := d.input.Value()
	var cmd tea.Cmd
	d.input, cmd = d.input.Update(msg)
	if d.input.Value() != prev {
		d.refilter()
	}
	return d, cmd
}

func paletteZoneID(i int) string {
	return fmt.Sprintf("palette-%d", i)
}

// refilter fuzzy-ranks items against the query; the empty query keeps the
// caller's original order.
func (d *paletteDialogCmp) refilter() {
	query := d.input.Value()
	if query == "" {
		d.filtered = d.items
	} else {
		titles := make([]string, len(d.items))
		for i, item := range d.items {
			titles[i] = item.Title
		}
		matches := fuzzy.RankFindFold(query, titles)
		sort.Sort(matches)
		d.filtered = make([]PaletteItem, 0, len(matches))
		for _, match := range matches {
			d.filtered = append(d.filtered, d.items[match.OriginalIndex])
		}
	}
	d.selectedIdx = 0
	d.scrollOffset = 0
}

func (d *paletteDialogCmp) moveSelection(delta int) {
	n := len(d.filtered)
	if n == 0 {
		return
	}
	d.selectedIdx = ((d.selectedIdx+delta)%n + n) % n
	if d.selectedIdx < d.scrollOffset {
		d.scrollOffset = d.selectedIdx
	}
	if d.selectedIdx >= d.scrollOffset+numVisibleActions {
		d.scrollOffset = d.selectedIdx - (numVisibleActions - 1)
	}
}

func (d *paletteDialogCmp) View() string {
	t := theme.CurrentTheme()
	base := styles.BaseStyle()

	rows := []string{base.Width(paletteWidth - 4).Padding(0, 1).Render(d.input.View())}
	end := min(d.scrollOffset+numVisibleActions, len(d.filtered))
	for i := d.scrollOffset; i < end; i++ {
		style := base.Width(paletteWidth - 4).Padding(0, 1)
		if i == d.selectedIdx {
			style = style.Background(t.Primary()).Foreground(t.Background())
		}
		rows = append(rows, zone.Mark(paletteZoneID(i), style.Render(d.filtered[i].Title)))
	}
	if len(d.filtered) == 0 {
		rows = append(rows, base.Width(paletteWidth-4).Padding(0, 1).
			Foreground(t.TextMuted()).Render("No matches"))
	}

	return base.
		Padding(1, 1).
		Border(lipgloss.RoundedBorder()).
		BorderBackground(t.Background()).
		BorderForeground(t.BorderFocused()).
		Width(paletteWidth).
		Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (d *paletteDialogCmp) SetItems(items []PaletteItem) {
	d.items = items
	d.input.SetValue("")
	d.refilter()
}

func (d *paletteDialogCmp) BindingKeys() []key.Binding {
	return layout.KeyMapToSlice(paletteKeys)
}

func NewPaletteDialog() PaletteDialog {
	t := theme.CurrentTheme()
	ti := textinput.New()
	ti.Placeholder = palettePlaceholder
	ti.Prompt = "> "
	ti.PromptStyle = lipgloss.NewStyle().Background(t.Background()).Foreground(t.Primary())
	ti.TextStyle = lipgloss.NewStyle().Background(t.Background()).Foreground(t.Text())
	ti.PlaceholderStyle = lipgloss.NewStyle().Background(t.Background()).Foreground(t.TextMuted())
	ti.Focus()
	return &paletteDialogCmp{input: ti}
}
