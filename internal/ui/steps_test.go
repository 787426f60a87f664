package ui

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSteps() StepsModel {
	m := NewStepsModel("Borrow on localhost", []string{"wrap", "lending pool", "deposit"})
	clock := time.Unix(1_700_000_000, 0)
	m.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	return m
}

func update(t *testing.T, m StepsModel, msg tea.Msg) (StepsModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	sm, ok := next.(StepsModel)
	require.True(t, ok)
	return sm, cmd
}

func TestNewStepsModelAllPending(t *testing.T) {
	m := testSteps()
	require.Len(t, m.Rows, 3)
	for _, r := range m.Rows {
		assert.Equal(t, StepPending, r.Status)
	}
	assert.Equal(t, 1, m.RowIndex["lending pool"])
}

func TestStepsModelTracksStatusAndElapsed(t *testing.T) {
	m := testSteps()
	m, _ = update(t, m, StepUpdateMsg{Name: "wrap", Status: StepRunning})
	m, _ = update(t, m, StepUpdateMsg{Name: "wrap", Status: StepWaiting, Detail: "0xabc"})
	m, _ = update(t, m, StepUpdateMsg{Name: "wrap", Status: StepDone})

	row := m.Rows[0]
	assert.Equal(t, StepDone, row.Status)
	assert.Equal(t, "0xabc", row.Detail, "empty detail keeps the previous one")
	assert.Equal(t, 2*time.Second, row.Elapsed)
}

func TestStepsModelIgnoresUnknownStep(t *testing.T) {
	m := testSteps()
	m, cmd := update(t, m, StepUpdateMsg{Name: "teleport", Status: StepDone})
	assert.Nil(t, cmd)
	for _, r := range m.Rows {
		assert.Equal(t, StepPending, r.Status)
	}
}

func TestStepsModelFinishedQuits(t *testing.T) {
	m := testSteps()
	m, cmd := update(t, m, StepsFinishedMsg{Err: errors.New("step \"deposit\": execution reverted")})
	require.NotNil(t, cmd)
	assert.True(t, m.Finished)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	view := m.View()
	assert.Contains(t, view, "failed after 0/3 steps")
	assert.Contains(t, view, "execution reverted")
}

func TestStepsModelCtrlCInterrupts(t *testing.T) {
	m := testSteps()
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	assert.True(t, m.Interrupted)
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestStepsModelQKeyOnlyAfterFinish(t *testing.T) {
	m := testSteps()
	_, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	assert.Nil(t, cmd, "q does not abort a running workflow")
}

func TestStepsModelTickStopsAfterFinish(t *testing.T) {
	m := testSteps()
	m, cmd := update(t, m, stepsTickMsg{})
	assert.NotNil(t, cmd)
	assert.Equal(t, 1, m.Frame)

	m.Finished = true
	_, cmd = update(t, m, stepsTickMsg{})
	assert.Nil(t, cmd)
}

func TestStepsModelView(t *testing.T) {
	m := testSteps()
	m, _ = update(t, m, StepUpdateMsg{Name: "wrap", Status: StepDone, Detail: "0xfeed"})
	m, _ = update(t, m, StepUpdateMsg{Name: "lending pool", Status: StepRunning})

	view := m.View()
	assert.Contains(t, view, "Borrow on localhost")
	assert.Contains(t, view, "1/3 steps")
	assert.Contains(t, view, "0xfeed")
	assert.Contains(t, view, "ctrl+c")
	assert.Less(t, strings.Index(view, "wrap"), strings.Index(view, "deposit"))
}

func TestTrimErr(t *testing.T) {
	assert.Equal(t, "short", trimErr("short", 30))
	assert.Equal(t, `Post "x": dial tcp 127.0.0.1:8…`,
		trimErr(`RPC request failed: Post "x": dial tcp 127.0.0.1:8545: connection refused`, 30))
	assert.Equal(t, "abc…", trimErr("abcdef", 3))
}

func TestPadR(t *testing.T) {
	assert.Equal(t, "ab  ", padR("ab", 4))
	assert.Equal(t, "abcd", padR("abcd", 2))
}

func TestConfirmDanger(t *testing.T) {
	var out bytes.Buffer
	assert.True(t, ConfirmDanger(strings.NewReader("yes\n"), &out, "Remove wallet?"))
	assert.Contains(t, out.String(), "Remove wallet?")
	assert.True(t, ConfirmDanger(strings.NewReader("Y\n"), &out, "x"))
	assert.False(t, ConfirmDanger(strings.NewReader("\n"), &out, "x"))
	assert.False(t, ConfirmDanger(strings.NewReader(""), &out, "x"))
}
