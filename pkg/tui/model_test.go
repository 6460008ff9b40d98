package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mscrnt/porchconf/pkg/porch"
	"github.com/mscrnt/porchconf/pkg/session"
	"github.com/mscrnt/porchconf/pkg/timing"
)

type recorder struct {
	confs []porch.Conf
}

func (r *recorder) Append(c porch.Conf) (porch.Conf, error) {
	r.confs = append(r.confs, c)
	return c, nil
}

func press(t *testing.T, m Model, msgs ...tea.Msg) Model {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		var ok bool
		m, ok = next.(Model)
		require.True(t, ok)
	}
	return m
}

func typeText(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func fillAll(t *testing.T, m Model) Model {
	t.Helper()
	for _, v := range []string{"234", "1080", "2400", "1180", "2550", "2408", "1080", "30", "10", "60"} {
		m = press(t, m, typeText(v), tea.KeyMsg{Type: tea.KeyTab})
	}
	return m
}

func TestNewOpensDefaultSession(t *testing.T) {
	mgr := session.NewManager()
	m := New(mgr, &recorder{})

	require.Equal(t, 1, mgr.Len())
	assert.Equal(t, "Default | DSC", mgr.List()[0].Title())
	assert.Contains(t, m.View(), "Default | DSC")
}

func TestTypingUpdatesSessionAndOutputs(t *testing.T) {
	mgr := session.NewManager()
	m := New(mgr, &recorder{})
	m = fillAll(t, m)

	s := mgr.List()[0]
	assert.Equal(t, "234", s.Input(timing.TxVid))
	assert.Equal(t, "60", s.Input(timing.HBP))
	assert.True(t, s.Complete())
	assert.Contains(t, m.View(), "77.7819")
}

func TestSaveIncompleteShowsError(t *testing.T) {
	rec := &recorder{}
	m := New(session.NewManager(), rec)
	m = press(t, m, typeText("234"), tea.KeyMsg{Type: tea.KeyCtrlS})

	assert.Empty(t, rec.confs)
	assert.True(t, m.statusErr)
	assert.Contains(t, m.status, "not saved")
}

func TestSave(t *testing.T) {
	rec := &recorder{}
	m := New(session.NewManager(), rec)
	m = fillAll(t, m)
	m = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})

	require.Len(t, rec.confs, 1)
	assert.False(t, m.statusErr)
	assert.Equal(t, porch.DefaultName, rec.confs[0].Name)
	assert.Contains(t, m.View(), "✓")
}

func TestNewSessionAndClose(t *testing.T) {
	mgr := session.NewManager()
	m := New(mgr, &recorder{})

	m = press(t, m,
		tea.KeyMsg{Type: tea.KeyCtrlN},
		typeText("scaled"),
		tea.KeyMsg{Type: tea.KeyTab},
		tea.KeyMsg{Type: tea.KeyEnter},
	)
	require.Equal(t, 2, mgr.Len())
	assert.Equal(t, "scaled | NonDSC", mgr.List()[1].Title())
	assert.Equal(t, 1, m.active)

	// duplicate title is refused
	m = press(t, m,
		tea.KeyMsg{Type: tea.KeyCtrlN},
		typeText("scaled"),
		tea.KeyMsg{Type: tea.KeyTab},
		tea.KeyMsg{Type: tea.KeyEnter},
	)
	assert.True(t, m.statusErr)
	assert.Equal(t, 2, mgr.Len())
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})

	m = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlW})
	require.Equal(t, 1, mgr.Len())
	assert.Equal(t, 0, m.active)
	assert.Len(t, m.tabs, 1)
}

func TestFocusWraps(t *testing.T) {
	m := New(session.NewManager(), &recorder{})
	m = press(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.Equal(t, timing.NumInputs-1, m.focus)
	m = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, 0, m.focus)
}
