package modal

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"

	"dsexport/internal/domain"
	"dsexport/internal/reporting"
	"dsexport/internal/services/catalog"
	"dsexport/internal/services/submission"
	"dsexport/internal/services/workflow"
)

// openedMsg is sent when both loaders have finished.
type openedMsg struct{ err error }

// stateMsg carries a submission state transition.
type stateMsg struct{ state domain.SubmissionState }

// exportedMsg is sent when a submission finished.
type exportedMsg struct {
	out submission.Outcome
	err error
}

// Listen forwards the workflow's submission transitions to send, normally a
// tea.Program's Send.
func Listen(wf *workflow.Workflow, send func(tea.Msg)) {
	wf.Orchestrator().Subscribe(func(st domain.SubmissionState) {
		send(stateMsg{state: st})
	})
}

// Model is the bubbletea model of the export dialog.
type Model struct {
	wf      *workflow.Workflow
	ctx     context.Context
	cancel  context.CancelFunc
	spinner spinner.Model

	loading bool
	cursor  int
	state   domain.SubmissionState
	status  string
	failed  bool
	closed  bool
	// quitting is set when the user interrupted a pending export; the
	// dialog closes once the cancelled request has returned.
	quitting bool
}

// New returns a dialog for wf. Cancelling ctx, or pressing Ctrl+C, aborts
// pending requests.
func New(ctx context.Context, wf *workflow.Workflow) *Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = cursorStyle
	ctx, cancel := context.WithCancel(ctx)
	return &Model{wf: wf, ctx: ctx, cancel: cancel, spinner: s, loading: true}
}

// Closed reports whether the user dismissed the dialog.
func (m *Model) Closed() bool { return m.closed }

func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.open)
}

func (m *Model) open() tea.Msg {
	return openedMsg{err: m.wf.Open(m.ctx)}
}

func (m *Model) export() tea.Msg {
	out, err := m.wf.Export(m.ctx)
	return exportedMsg{out: out, err: err}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case openedMsg:
		m.loading = false
		if name, ok := m.wf.Selected(); ok {
			m.cursor = m.indexOf(name)
		}
		if msg.err != nil && !errors.Is(msg.err, catalog.ErrSuperseded) {
			m.setError(reporting.Message(msg.err))
		}
		return m, nil

	case stateMsg:
		m.state = msg.state
		return m, nil

	case exportedMsg:
		m.state = m.wf.Orchestrator().State()
		switch {
		case errors.Is(msg.err, submission.ErrSubmissionInFlight):
		case msg.err != nil:
			m.setError(reporting.Message(msg.err))
		case msg.out.SaveErr != nil && !msg.out.Saved():
			m.setError(fmt.Sprintf("export received but not saved: %v", msg.out.SaveErr))
		case msg.out.SaveErr != nil:
			m.setError(fmt.Sprintf("Saved %s (warning: %v)", msg.out.Artifact.Path, msg.out.SaveErr))
		default:
			m.setStatus(fmt.Sprintf("Saved %s (%s)", msg.out.Artifact.Path, humanize.Bytes(uint64(msg.out.Artifact.Size))))
		}
		if m.quitting && !m.state.Busy() {
			return m.close()
		}
		return m, nil
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		if !m.wf.Orchestrator().Dismissable() {
			m.quitting = true
			m.cancel()
			m.setStatus("Cancelling export...")
			return m, nil
		}
		return m.close()

	case "esc", "q":
		if !m.wf.Orchestrator().Dismissable() {
			m.setStatus("An export is in progress.")
			return m, nil
		}
		return m.close()

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case "down", "j":
		if m.cursor < len(m.wf.Formats())-1 {
			m.cursor++
		}
		return m, nil

	case " ", "enter":
		formats := m.wf.Formats()
		if m.cursor >= len(formats) {
			return m, nil
		}
		if err := m.wf.Select(formats[m.cursor].Name); err != nil {
			m.setError(err.Error())
		} else {
			m.setStatus("")
		}
		return m, nil

	case "e", "ctrl+s":
		if m.loading || m.wf.Orchestrator().State().Busy() {
			return m, nil
		}
		m.setStatus("")
		// Reflect InFlight at once; the listener confirms it.
		m.state = domain.SubmissionInFlight
		return m, tea.Batch(m.export, m.spinner.Tick)
	}
	return m, nil
}

func (m *Model) close() (tea.Model, tea.Cmd) {
	m.cancel()
	m.closed = true
	return m, tea.Quit
}

func (m *Model) indexOf(name string) int {
	for i, f := range m.wf.Formats() {
		if f.Name == name {
			return i
		}
	}
	return 0
}

func (m *Model) setStatus(s string) { m.status, m.failed = s, false }
func (m *Model) setError(s string)  { m.status, m.failed = s, true }

func (m *Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Export data"))
	b.WriteString(mutedStyle.Render("  dataset " + m.wf.Dataset().String()))
	b.WriteString("\n\n")

	if m.loading {
		b.WriteString(m.spinner.View() + " Loading formats...\n")
		return boxStyle.Render(b.String())
	}

	b.WriteString(headingStyle.Render("Formats") + "\n")
	m.viewFormats(&b)

	if recs := m.wf.History(); len(recs) > 0 {
		b.WriteString("\n" + headingStyle.Render("Previous exports") + "\n")
		for _, r := range recs {
			line := r.Name
			if !r.CreatedAt.IsZero() {
				line += "  " + humanize.Time(r.CreatedAt)
			}
			if r.Size > 0 {
				line += "  " + humanize.Bytes(uint64(r.Size))
			}
			b.WriteString(mutedStyle.Render("  "+line) + "\n")
		}
	}

	b.WriteString("\n")
	if m.state.Busy() {
		b.WriteString(m.spinner.View() + " Exporting...\n")
		if m.state == domain.SubmissionInFlightLong {
			b.WriteString(noticeStyle.Render(submission.LongWaitNotice) + "\n")
		}
	}
	if m.status != "" {
		style := successStyle
		if m.failed {
			style = errorStyle
		}
		b.WriteString(style.Render(m.status) + "\n")
	}

	help := "↑/↓ move • enter select • e export • esc close"
	if m.state.Busy() {
		help = "↑/↓ move • enter select"
	}
	b.WriteString("\n" + mutedStyle.Render(help))
	return boxStyle.Render(b.String())
}

func (m *Model) viewFormats(b *strings.Builder) {
	formats := m.wf.Formats()
	if len(formats) == 0 {
		b.WriteString(mutedStyle.Render("  No export formats available.") + "\n")
		return
	}
	selected, _ := m.wf.Selected()
	for i, f := range formats {
		pointer := "  "
		if i == m.cursor {
			pointer = cursorStyle.Render("> ")
		}
		mark := "○ "
		if f.Name == selected {
			mark = "● "
		}
		title := f.Title
		if title == "" {
			title = f.Name
		}
		if f.Disabled {
			title = disabledStyle.Render(title)
		}
		line := pointer + mark + title
		if len(f.Tags) > 0 {
			line += " " + tagStyle.Render("["+strings.Join(f.Tags, ", ")+"]")
		}
		b.WriteString(line + "\n")
		if f.Description != "" && i == m.cursor {
			b.WriteString(mutedStyle.Render("    "+f.Description) + "\n")
		}
	}
}
