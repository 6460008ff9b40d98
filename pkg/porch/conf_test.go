package porch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mscrnt/porchconf/pkg/timing"
)

func fullInputs() timing.Inputs {
	var in timing.Inputs
	for i, v := range []float32{234, 1080, 2400, 1180, 2550, 2408, 1080, 30, 10, 60} {
		in.Set(timing.AllInputs[i], timing.Some(v))
	}
	return in
}

func TestNew(t *testing.T) {
	a := New()
	b := New()

	assert.Equal(t, DefaultName, a.Name)
	assert.Equal(t, timing.DSC, a.Mode)
	assert.NotEqual(t, a.ID, b.ID)
	assert.True(t, a.Same(b))
}

func TestNewWithInputs(t *testing.T) {
	c := NewWithInputs("panel", timing.NonDSC, fullInputs())

	assert.True(t, c.Consistent())
	assert.True(t, c.Outputs.Get(timing.FPS).Valid())
	assert.False(t, c.Outputs.Get(timing.HBlankMinus40).Valid())
	assert.Equal(t, "panel | NonDSC", c.Title())

	c.Inputs.Set(timing.HTotal, timing.Some(1200))
	assert.False(t, c.Consistent())
	c.Recompute()
	assert.True(t, c.Consistent())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		conf    Conf
		wantErr error
	}{
		{name: "valid", conf: NewWithInputs("panel A", timing.DSC, fullInputs())},
		{name: "empty name", conf: NewWithInputs("  ", timing.DSC, fullInputs()), wantErr: ErrEmptyName},
		{name: "pipe token", conf: NewWithInputs("a | b", timing.DSC, fullInputs()), wantErr: ErrInvalidName},
		{name: "newline", conf: NewWithInputs("a\nb", timing.DSC, fullInputs()), wantErr: ErrInvalidName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.conf.Validate()
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.wantErr)
		})
	}

	partial := New()
	partial.Name = "partial"
	partial.Inputs.Set(timing.TxVid, timing.Some(234))
	err := partial.Validate()
	require.ErrorIs(t, err, ErrMissingInputs)
	assert.Contains(t, err.Error(), "hbp")
}

func TestPipeInsideWordIsAllowed(t *testing.T) {
	assert.NoError(t, ValidateName("a|b"))
}
