package session

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mscrnt/porchconf/pkg/porch"
	"github.com/mscrnt/porchconf/pkg/timing"
)

type recorder struct {
	confs []porch.Conf
	err   error
}

func (r *recorder) Append(c porch.Conf) (porch.Conf, error) {
	if r.err != nil {
		return porch.Conf{}, r.err
	}
	r.confs = append(r.confs, c)
	return c, nil
}

func fill(s *Session) {
	raw := []string{"234", "1080", "2400", "1180", "2550", "2408", "1080", "30", "10", "60"}
	for i, f := range timing.AllInputs {
		s.SetInput(f, raw[i])
	}
}

func TestSaveIncomplete(t *testing.T) {
	s := New("panel", timing.DSC)
	fill(s)
	s.SetInput(timing.HBP, "  ")

	r := &recorder{}
	_, err := s.Save(r)
	require.ErrorIs(t, err, ErrIncomplete)
	assert.Empty(t, r.confs)
	assert.False(t, s.Saved())
	assert.Equal(t, []timing.InputField{timing.HBP}, s.Missing())
}

func TestSave(t *testing.T) {
	s := New("panel", timing.DSC)
	fill(s)
	require.True(t, s.Complete())

	r := &recorder{}
	c, err := s.Save(r)
	require.NoError(t, err)
	require.Len(t, r.confs, 1)
	assert.True(t, s.Saved())

	assert.Equal(t, "panel", c.Name)
	assert.Equal(t, timing.DSC, c.Mode)
	assert.True(t, c.Consistent())
	assert.InDelta(t, 77.7819, c.Outputs.Get(timing.FPS).Float32(), 1e-3)

	s.SetInput(timing.TxVid, "235")
	assert.False(t, s.Saved(), "editing clears the saved flag")
}

func TestSaveBadNumber(t *testing.T) {
	s := New("panel", timing.NonDSC)
	fill(s)
	s.SetInput(timing.VTotal, "25x0")

	r := &recorder{}
	_, err := s.Save(r)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "vtotal")
	assert.Empty(t, r.confs)
}

func TestSaveAppenderError(t *testing.T) {
	s := New("panel", timing.DSC)
	fill(s)

	boom := errors.New("disk full")
	_, err := s.Save(&recorder{err: boom})
	require.ErrorIs(t, err, boom)
	assert.False(t, s.Saved())
}

func TestLiveOutputsWithPartialInput(t *testing.T) {
	s := New("panel", timing.DSC)
	s.SetInput(timing.VActive, "2400")
	s.SetInput(timing.HTotal, "1180")
	s.SetInput(timing.AdjVActive, "2408")
	s.SetInput(timing.TxVid, "oops")

	in, err := s.Inputs()
	require.Error(t, err)
	assert.False(t, in.Get(timing.TxVid).Valid())

	out := s.Outputs()
	assert.InDelta(t, 1176.0797, out.Get(timing.AdjHTotal).Float32(), 1e-3)
	assert.False(t, out.Get(timing.FPS).Valid())
}

func TestManagerOpen(t *testing.T) {
	m := NewManager()

	a, err := m.Open("panel", timing.DSC)
	require.NoError(t, err)
	assert.Equal(t, "panel | DSC", a.Title())

	_, err = m.Open("panel", timing.DSC)
	assert.ErrorIs(t, err, ErrDuplicate)

	_, err = m.Open("  panel  ", timing.DSC)
	assert.ErrorIs(t, err, ErrDuplicate)

	_, err = m.Open("panel", timing.NonDSC)
	assert.NoError(t, err, "same name in another mode is a different window")

	_, err = m.Open("", timing.DSC)
	assert.ErrorIs(t, err, porch.ErrEmptyName)

	assert.Equal(t, 2, m.Len())
}

func TestManagerGetClose(t *testing.T) {
	m := NewManager()
	a, err := m.Open("a", timing.DSC)
	require.NoError(t, err)
	b, err := m.Open("b", timing.DSC)
	require.NoError(t, err)

	got, err := m.Get(b.ID)
	require.NoError(t, err)
	assert.Same(t, b, got)

	require.NoError(t, m.Close(a.ID))
	list := m.List()
	require.Len(t, list, 1)
	assert.Equal(t, b.ID, list[0].ID)

	assert.ErrorIs(t, m.Close(a.ID), ErrUnknownSession)
	_, err = m.Get(uuid.New())
	assert.ErrorIs(t, err, ErrUnknownSession)

	_, err = m.Open("a", timing.DSC)
	assert.NoError(t, err, "a closed title can be reopened")
}
