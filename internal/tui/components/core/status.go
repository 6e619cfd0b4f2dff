package core

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/notedown-sh/notedown/internal/pubsub"
	"github.com/notedown-sh/notedown/internal/status"
	"github.com/notedown-sh/notedown/internal/tui/styles"
	"github.com/notedown-sh/notedown/internal/tui/theme"
)

// SetNoteMsg updates the note segment of the status bar.
type SetNoteMsg struct {
	Title string
	Dirty bool
}

type StatusCmp interface {
	tea.Model
	SetHelpWidgetMsg(string)
}

type statusCmp struct {
	statusMessages []statusMessage
	width          int
	messageTTL     time.Duration

	noteTitle string
	dirty     bool
	helpMsg   string
}

type statusMessage struct {
	Level     status.Level
	Message   string
	ExpiresAt time.Time
}

// clearMessageCmd ticks once a second so expired messages fall off.
func (m *statusCmp) clearMessageCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return statusCleanupMsg{time: t}
	})
}

type statusCleanupMsg struct {
	time time.Time
}

func (m *statusCmp) Init() tea.Cmd {
	return m.clearMessageCmd()
}

func (m *statusCmp) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	case SetNoteMsg:
		m.noteTitle = msg.Title
		m.dirty = msg.Dirty
		return m, nil
	case pubsub.Event[status.StatusMessage]:
		if msg.Type == status.EventStatusPublished {
			m.statusMessages = append(m.statusMessages, statusMessage{
				Level:     msg.Payload.Level,
				Message:   msg.Payload.Message,
				ExpiresAt: msg.Payload.Timestamp.Add(m.messageTTL),
			})
		}
		return m, nil
	case statusCleanupMsg:
		var active []statusMessage
		for _, sm := range m.statusMessages {
			if sm.ExpiresAt.After(msg.time) {
				active = append(active, sm)
			}
		}
		m.statusMessages = active
		return m, m.clearMessageCmd()
	}
	return m, nil
}

func (m *statusCmp) helpWidget() string {
	t := theme.CurrentTheme()
	helpText := m.helpMsg
	if helpText == "" {
		helpText = "ctrl+? help"
	}
	return styles.Padded().
		Background(t.TextMuted()).
		Foreground(t.BackgroundDarker()).
		Bold(true).
		Render(helpText)
}

func (m *statusCmp) noteWidget() string {
	t := theme.CurrentTheme()
	title := m.noteTitle
	if title == "" {
		title = "untitled"
	}
	if m.dirty {
		title += " •"
	}
	return styles.Padded().
		Background(t.Secondary()).
		Foreground(t.Background()).
		Render(title)
}

func (m *statusCmp) View() string {
	t := theme.CurrentTheme()

	bar := m.helpWidget()
	note := m.noteWidget()
	themeName := styles.Padded().
		Background(t.BackgroundDarker()).
		Foreground(t.TextMuted()).
		Render(theme.CurrentThemeName())

	statusWidth := max(
		0,
		m.width-
			lipgloss.Width(bar)-
			lipgloss.Width(note)-
			lipgloss.Width(themeName),
	)

	if len(m.statusMessages) > 0 {
		sm := m.statusMessages[0]
		infoStyle := styles.Padded().
			Foreground(t.Background()).
			Width(statusWidth)

		switch sm.Level {
		case status.LevelInfo:
			infoStyle = infoStyle.Background(t.Info())
		case status.LevelWarn:
			infoStyle = infoStyle.Background(t.Warning())
		case status.LevelError:
			infoStyle = infoStyle.Background(t.Error())
		case status.LevelDebug:
			infoStyle = infoStyle.Background(t.TextMuted())
		}

		msg := sm.Message
		availWidth := statusWidth - 10
		if len(msg) > availWidth && availWidth > 0 {
			msg = msg[:availWidth] + "..."
		}
		bar += infoStyle.Render(msg)
	} else {
		bar += styles.Padded().
			Foreground(t.Text()).
			Background(t.BackgroundSecondary()).
			Width(statusWidth).
			Render("")
	}

	bar += note
	bar += themeName
	return bar
}

func (m *statusCmp) SetHelpWidgetMsg(s string) {
	m.helpMsg = s
}

func NewStatusCmp() StatusCmp {
	return &statusCmp{
		messageTTL: 4 * time.Second,
	}
}
