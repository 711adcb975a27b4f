package ui

import (
	"os"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

type taskDoneMsg struct{ err error }

// taskModel shows a spinner until run returns or the user presses ctrl+c.
type taskModel struct {
	spinner spinner.Model
	label   string
	run     func() error

	err  error
	done bool
}

func (m *taskModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		return taskDoneMsg{err: m.run()}
	})
}

func (m *taskModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.err, m.done = ErrCancelled, true
			return m, tea.Quit
		}
	case taskDoneMsg:
		m.err, m.done = msg.err, true
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *taskModel) View() string {
	if m.done {
		return ""
	}
	return m.spinner.View() + " " + valueStyle.Render(m.label)
}

// Spin runs task behind a spinner on stderr. A ctrl+c returns ErrCancelled
// without waiting for task.
func Spin[T any](label string, task func() (T, error)) (T, error) {
	var result T
	m := &taskModel{
		spinner: newSpinner(),
		label:   label,
		run: func() error {
			var err error
			result, err = task()
			return err
		},
	}

	if _, err := tea.NewProgram(m, tea.WithOutput(os.Stderr)).Run(); err != nil {
		var zero T
		return zero, err
	}
	if m.err != nil {
		var zero T
		return zero, m.err
	}
	return result, nil
}
