// Package prompt holds the interactive pieces of the bootstrap: the one
// overwrite-or-skip question and the spinner shown during the clone.
// Everything degrades to a non-interactive default when stdin is not a
// terminal, so the tool stays usable from provisioning scripts and CI.
package prompt

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/robokits/go-wstools/internal/workspace"
)

var (
	spinnerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	successStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	pathStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true)
	questionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)

// Interactive reports whether stdin is attached to a terminal
func Interactive() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// ConfirmOverwrite asks once whether an existing clone should be replaced.
// Skip is the default: a non-interactive stdin, enter, "n", q, esc and
// ctrl+c all answer skip. Only an explicit "y" overwrites.
func ConfirmOverwrite(path string) (workspace.Choice, error) {
	if !Interactive() {
		return workspace.ChoiceSkip, nil
	}

	final, err := tea.NewProgram(newConfirmModel(path)).Run()
	if err != nil {
		return workspace.ChoiceSkip, fmt.Errorf("prompt failed: %w", err)
	}
	return final.(confirmModel).choice, nil
}

type confirmModel struct {
	path     string
	choice   workspace.Choice
	answered bool
}

func newConfirmModel(path string) confirmModel {
	return confirmModel{path: path, choice: workspace.ChoiceSkip}
}

func (m confirmModel) Init() tea.Cmd {
	return nil
}

func (m confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "y", "Y":
		m.choice = workspace.ChoiceOverwrite
		m.answered = true
		return m, tea.Quit
	case "n", "N", "enter", "q", "esc", "ctrl+c":
		m.choice = workspace.ChoiceSkip
		m.answered = true
		return m, tea.Quit
	}
	return m, nil
}

func (m confirmModel) View() string {
	if m.answered {
		return fmt.Sprintf("\n  %s existing clone: %s\n\n", m.choice, pathStyle.Render(m.path))
	}
	return fmt.Sprintf("\n  %s already contains a clone.\n  %s\n\n",
		pathStyle.Render(m.path),
		questionStyle.Render("Overwrite it? [y/N]"))
}

// ErrInterrupted indicates the user aborted the clone with ctrl+c.
// An interrupted clone is never a success: callers must treat the
// destination as partial and clean it up.
var ErrInterrupted = errors.New("clone interrupted")

// RunClone executes do while showing a spinner with the clone target.
// Ctrl+c cancels the context passed to do and reports ErrInterrupted.
// Without a terminal it just runs do.
func RunClone(ctx context.Context, url, path string, do func(context.Context) error) error {
	if !Interactive() {
		return do(ctx)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	final, err := tea.NewProgram(newCloneModel(ctx, cancel, url, path, do)).Run()
	if err != nil {
		return fmt.Errorf("clone display failed: %w", err)
	}
	return final.(cloneModel).err
}

type cloneModel struct {
	spinner spinner.Model
	url     string
	path    string
	ctx     context.Context
	cancel  context.CancelFunc
	do      func(context.Context) error
	done    bool
	err     error
}

type cloneCompleteMsg struct {
	err error
}

func newCloneModel(ctx context.Context, cancel context.CancelFunc, url, path string, do func(context.Context) error) cloneModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = spinnerStyle

	return cloneModel{spinner: s, url: url, path: path, ctx: ctx, cancel: cancel, do: do}
}

func (m cloneModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		return cloneCompleteMsg{err: m.do(m.ctx)}
	})
}

func (m cloneModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			if !m.done {
				// Kill the clone and report the interruption; quitting
				// with a nil error here would let the caller promote a
				// partial clone.
				m.cancel()
				m.done = true
				m.err = ErrInterrupted
			}
			return m, tea.Quit
		}

	case cloneCompleteMsg:
		if m.done {
			// Completion racing an interruption: the interruption wins.
			return m, tea.Quit
		}
		m.done = true
		m.err = msg.err
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m cloneModel) View() string {
	if m.done {
		switch {
		case errors.Is(m.err, ErrInterrupted):
			return errorStyle.Render(fmt.Sprintf("\n  ✗ Clone of %s interrupted\n\n", m.url))
		case m.err != nil:
			return errorStyle.Render(fmt.Sprintf("\n  ✗ Clone failed: %v\n\n", m.err))
		}
		return successStyle.Render(fmt.Sprintf("\n  ✓ Cloned to %s\n\n", m.path))
	}
	return fmt.Sprintf("\n  %s Cloning %s\n  %s\n\n",
		m.spinner.View(), pathStyle.Render(m.url), pathStyle.Render("→ "+m.path))
}
