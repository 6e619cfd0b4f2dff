// Package spinner provides a standalone progress spinner for the
// non-interactive commands (import, export, backup). It runs its own
// bubbletea program on stderr so command output on stdout stays clean.
package spinner

import (
	"os"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/notedown-sh/notedown/internal/tui/theme"
)

type Spinner struct {
	prog *tea.Program
	done chan struct{}
}

type quitMsg struct{}

type spinnerModel struct {
	spinner  spinner.Model
	message  string
	quitting bool
}

func (m spinnerModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m spinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case quitMsg:
		m.quitting = true
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m spinnerModel) View() string {
	if m.quitting {
		return ""
	}
	return m.spinner.View() + " " + m.message
}

func NewSpinner(message string) *Spinner {
	t := theme.CurrentTheme()
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(t.Primary())

	model := spinnerModel{
		spinner: s,
		message: message,
	}

	prog := tea.NewProgram(
		model,
		tea.WithOutput(os.Stderr),
		tea.WithoutCatchPanics(),
	)

	return &Spinner{
		prog: prog,
		done: make(chan struct{}),
	}
}

func (s *Spinner) Start() {
	go func() {
		defer close(s.done)
		_, _ = s.prog.Run()
	}()
}

func (s *Spinner) Stop() {
	s.prog.Send(quitMsg{})
	<-s.done
}
