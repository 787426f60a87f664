package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// StepStatus is the state of one row in the live step view.
type StepStatus int

const (
	StepPending StepStatus = iota
	StepRunning
	StepWaiting // transaction sent, waiting for confirmations
	StepDone
	StepFailed
)

// StepRow is one workflow step.
type StepRow struct {
	Name    string
	Status  StepStatus
	Detail  string
	Started time.Time
	Elapsed time.Duration
}

// StepUpdateMsg moves the named step to Status. A non-empty Detail replaces
// the row's detail text.
type StepUpdateMsg struct {
	Name   string
	Status StepStatus
	Detail string
}

// StepsFinishedMsg ends the view. Err is nil on success.
type StepsFinishedMsg struct {
	Err error
}

type stepsTickMsg struct{}

// StepsModel is the Bubble Tea model for the live workflow view.
type StepsModel struct {
	Title       string
	Rows        []StepRow
	RowIndex    map[string]int
	Frame       int
	Finished    bool
	Err         error
	Interrupted bool

	now func() time.Time
}

// NewStepsModel creates a view with one pending row per step name.
func NewStepsModel(title string, names []string) StepsModel {
	m := StepsModel{
		Title:    title,
		Rows:     make([]StepRow, len(names)),
		RowIndex: make(map[string]int, len(names)),
		now:      time.Now,
	}
	for i, n := range names {
		m.Rows[i] = StepRow{Name: n}
		m.RowIndex[n] = i
	}
	return m
}

func (m StepsModel) Init() tea.Cmd { return stepsTick() }

func stepsTick() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(time.Time) tea.Msg {
		return stepsTickMsg{}
	})
}

func (m StepsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.Interrupted = true
			return m, tea.Quit
		case "q", "esc":
			if m.Finished {
				return m, tea.Quit
			}
		}

	case stepsTickMsg:
		m.Frame = (m.Frame + 1) % len(spinnerFrames)
		if m.Finished {
			return m, nil
		}
		return m, stepsTick()

	case StepUpdateMsg:
		idx, ok := m.RowIndex[msg.Name]
		if !ok {
			return m, nil
		}
		row := &m.Rows[idx]
		now := m.now()
		if row.Status == StepPending {
			row.Started = now
		}
		row.Status = msg.Status
		if msg.Detail != "" {
			row.Detail = msg.Detail
		}
		if msg.Status == StepDone || msg.Status == StepFailed {
			row.Elapsed = now.Sub(row.Started)
		}

	case StepsFinishedMsg:
		m.Finished = true
		m.Err = msg.Err
		return m, tea.Quit
	}

	return m, nil
}

func (m StepsModel) View() string {
	var sb strings.Builder
	spin := spinnerFrames[m.Frame]

	// ── Title ────────────────────────────────────────────────────────────
	sb.WriteString(StyleTitle.Render(m.Title) + "\n")

	// ── Progress ─────────────────────────────────────────────────────────
	done := 0
	for _, r := range m.Rows {
		if r.Status == StepDone {
			done++
		}
	}
	switch {
	case m.Err != nil:
		sb.WriteString(StyleError.Render(fmt.Sprintf("✗ failed after %d/%d steps", done, len(m.Rows))))
	case m.Finished:
		sb.WriteString(StyleSuccess.Render(fmt.Sprintf("✓ %d/%d steps done", done, len(m.Rows))))
	default:
		sb.WriteString(StyleInfo.Render(fmt.Sprintf("%s %d/%d steps", spin, done, len(m.Rows))))
	}
	sb.WriteString("\n\n")

	// ── Steps ────────────────────────────────────────────────────────────
	const (
		wStatus = 3
		wName   = 24
		wTime   = 8
	)
	for _, r := range m.Rows {
		status, detail := renderStepRow(r, spin)
		elapsed := ""
		if r.Elapsed > 0 {
			elapsed = StyleMeta.Render(r.Elapsed.Truncate(time.Millisecond).String())
		}
		sb.WriteString(
			padR(status, wStatus) +
				padR(stepName(r), wName) + "  " +
				padR(elapsed, wTime) + "  " +
				detail + "\n",
		)
	}

	if m.Err != nil {
		sb.WriteString("\n" + Err(trimErr(m.Err.Error(), 100)) + "\n")
	}
	if !m.Finished {
		sb.WriteString("\n" + StyleMeta.Render("[ctrl+c] abort") + "\n")
	}
	return sb.String()
}

func stepName(r StepRow) string {
	switch r.Status {
	case StepPending:
		return StyleMeta.Render(r.Name)
	case StepFailed:
		return StyleError.Render(r.Name)
	default:
		return StyleValue.Render(r.Name)
	}
}

func renderStepRow(r StepRow, spin string) (status, detail string) {
	switch r.Status {
	case StepRunning:
		return StyleInfo.Render(spin), StyleMeta.Render(r.Detail)
	case StepWaiting:
		return StyleWarning.Render(spin), StyleWarning.Render("⏳ ") + StyleAddress.Render(r.Detail)
	case StepDone:
		return StyleSuccess.Render("✓"), StyleAddress.Render(r.Detail)
	case StepFailed:
		return StyleError.Render("✗"), StyleError.Render(trimErr(r.Detail, 40))
	}
	return StyleMeta.Render("·"), ""
}

// padR pads s to visible width n (ANSI-safe using lipgloss.Width).
func padR(s string, n int) string {
	w := lipgloss.Width(s)
	if w >= n {
		return s
	}
	return s + strings.Repeat(" ", n-w)
}

// trimErr strips noisy transport prefixes from an error message and cuts it
// to limit characters.
func trimErr(s string, limit int) string {
	for _, prefix := range []string{
		"Post \"", "dial tcp", "connection refused", "context deadline",
	} {
		if idx := strings.Index(s, prefix); idx >= 0 {
			s = s[idx:]
			break
		}
	}
	if len(s) > limit {
		return s[:limit] + "…"
	}
	return s
}
