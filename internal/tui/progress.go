// internal/tui/progress.go
//
// A bubbletea model that follows a batch run. The run executes in its own
// goroutine and reports through ProgressMsg; DoneMsg ends the program.

package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kingrea/seedbed/internal/batch"
)

const (
	defaultBarWidth = 48
	maxRecentSteps  = 6
)

// ProgressMsg carries one progress report into the model.
type ProgressMsg batch.Progress

// DoneMsg is sent once the run returns.
type DoneMsg struct {
	Result batch.Result
	Err    error
}

// RunFunc executes a batch run, reporting progress through observe.
type RunFunc func(ctx context.Context, observe func(batch.Progress)) (batch.Result, error)

// Model renders a spinner, a progress bar and the most recent steps.
type Model struct {
	title    string
	total    int
	bar      progress.Model
	spin     spinner.Model
	last     batch.Progress
	recent   []batch.Progress
	started  time.Time
	cancel   context.CancelFunc
	stopping bool
	done     bool
	result   batch.Result
	err      error
}

// NewModel builds a model for a run of total steps. cancel is called when
// the user interrupts.
func NewModel(title string, total int, cancel context.CancelFunc) Model {
	bar := progress.New(progress.WithDefaultGradient(), progress.WithWidth(defaultBarWidth))
	spin := spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(titleStyle))
	return Model{
		title:   title,
		total:   total,
		bar:     bar,
		spin:    spin,
		started: time.Now(),
		cancel:  cancel,
	}
}

// Init starts the spinner.
func (m Model) Init() tea.Cmd {
	return m.spin.Tick
}

// Update handles progress, completion, window and key messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ProgressMsg:
		p := batch.Progress(msg)
		m.last = p
		if p.Total > 0 {
			m.total = p.Total
		}
		m.recent = append(m.recent, p)
		if len(m.recent) > maxRecentSteps {
			m.recent = m.recent[len(m.recent)-maxRecentSteps:]
		}
		return m, nil
	case DoneMsg:
		m.done = true
		m.result = msg.Result
		m.err = msg.Err
		return m, tea.Quit
	case tea.WindowSizeMsg:
		width := msg.Width - 4
		if width > defaultBarWidth*2 {
			width = defaultBarWidth * 2
		}
		if width > 10 {
			m.bar.Width = width
		}
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			if !m.stopping && m.cancel != nil {
				m.stopping = true
				m.cancel()
			}
		}
		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View renders the current state.
func (m Model) View() string {
	if m.done {
		return RenderResult(m.result) + "\n"
	}
	var b strings.Builder
	status := m.title
	if m.stopping {
		status = warnStyle.Render("Stopping after the current step...")
	}
	fmt.Fprintf(&b, "%s %s\n\n", m.spin.View(), titleStyle.Render(status))
	b.WriteString(m.bar.ViewAs(m.fraction()))
	fmt.Fprintf(&b, "  %d/%d\n", m.last.Processed, m.total)
	for _, p := range m.recent {
		b.WriteString(renderStep(p))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(fmt.Sprintf("%d items, %s elapsed. ctrl+c to stop.", m.last.Items, time.Since(m.started).Truncate(time.Second))))
	return lipgloss.NewStyle().Padding(0, panelPadding).Render(b.String()) + "\n"
}

// Result returns the finished run.
func (m Model) Result() (batch.Result, error) {
	return m.result, m.err
}

func (m Model) fraction() float64 {
	if m.total == 0 {
		return 0
	}
	return float64(m.last.Processed) / float64(m.total)
}

func renderStep(p batch.Progress) string {
	if p.Err != nil {
		return failStyle.Render("✗ ") + p.Label + " " + detailStyle.Render(p.Err.Error())
	}
	return okStyle.Render("✓ ") + p.Label + " " + detailStyle.Render(fmt.Sprintf("%d items in %s", p.StepItems, p.Duration.Round(time.Millisecond)))
}

// Run drives run under a bubbletea program until it returns.
func Run(ctx context.Context, title string, total int, run RunFunc, opts ...tea.ProgramOption) (batch.Result, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	program := tea.NewProgram(NewModel(title, total, cancel), opts...)
	done := make(chan DoneMsg, 1)
	go func() {
		result, err := run(ctx, func(p batch.Progress) { program.Send(ProgressMsg(p)) })
		msg := DoneMsg{Result: result, Err: err}
		done <- msg
		program.Send(msg)
	}()

	if _, err := program.Run(); err != nil {
		cancel()
		msg := <-done
		if msg.Err != nil {
			return msg.Result, msg.Err
		}
		return msg.Result, fmt.Errorf("tui: %w", err)
	}
	msg := <-done
	return msg.Result, msg.Err
}
