package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mscrnt/porchconf/pkg/porch"
	"github.com/mscrnt/porchconf/pkg/porchfile"
	"github.com/mscrnt/porchconf/pkg/timing"
)

func panel(name string, mode timing.Mode, txvid float32) porch.Conf {
	var in timing.Inputs
	values := []float32{txvid, 1080, 2400, 1180, 2550, 2408, 1080, 30, 10, 60}
	for i, f := range timing.AllInputs {
		in.Set(f, timing.Some(values[i]))
	}
	return porch.NewWithInputs(name, mode, in)
}

func newStore(t *testing.T) *Store {
	t.Helper()
	return New(filepath.Join(t.TempDir(), "PorchConf.txt"), WithLogger(zerolog.Nop()))
}

func seed(t *testing.T, s *Store, n int) {
	t.Helper()
	require.NoError(t, s.Init())
	require.NoError(t, s.Load())
	for i := 0; i < n; i++ {
		mode := timing.DSC
		if i%2 == 1 {
			mode = timing.NonDSC
		}
		_, err := s.Append(panel("panel "+string(rune('A'+i)), mode, float32(200+i)))
		require.NoError(t, err)
	}
}

func TestAppendCreatesHeader(t *testing.T) {
	s := newStore(t)

	_, err := s.Append(panel("first", timing.DSC, 234))
	require.NoError(t, err)

	data, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	assert.True(t, len(data) > len(porchfile.Header))
	assert.Equal(t, porchfile.Header+"\n", string(data[:len(porchfile.Header)+1]))

	require.NoError(t, s.Load())
	require.Equal(t, 1, s.Len())
	assert.Equal(t, "first", s.Records()[0].Name)
}

func TestAppendToEmptyFileWritesHeader(t *testing.T) {
	s := newStore(t)
	require.NoError(t, os.WriteFile(s.Path(), nil, 0o600))

	_, err := s.Append(panel("first", timing.NonDSC, 234))
	require.NoError(t, err)

	require.NoError(t, s.Load())
	assert.Equal(t, 1, s.Len())
}

func TestAppendAddsToLoadedSet(t *testing.T) {
	s := newStore(t)
	seed(t, s, 2)
	assert.Equal(t, 2, s.Len())

	saved, err := s.Append(panel("  spaced   name ", timing.DSC, 250))
	require.NoError(t, err)
	assert.Equal(t, "spaced name", saved.Name)
	assert.True(t, saved.Consistent())
	require.Equal(t, 3, s.Len())

	got, err := s.At(2)
	require.NoError(t, err)
	assert.Equal(t, saved.ID, got.ID)
}

func TestAppendIncompleteLeavesFileUntouched(t *testing.T) {
	s := newStore(t)
	seed(t, s, 1)
	before, err := os.ReadFile(s.Path())
	require.NoError(t, err)

	c := panel("partial", timing.DSC, 234)
	c.Inputs.Set(timing.HBP, timing.None)
	_, err = s.Append(c)
	require.ErrorIs(t, err, porch.ErrMissingInputs)

	after, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	assert.Equal(t, before, after)
	assert.Equal(t, 1, s.Len())
}

func TestDeleteAtThenReload(t *testing.T) {
	s := newStore(t)
	seed(t, s, 4)
	before := s.Records()

	require.NoError(t, s.DeleteAt(1))
	require.Equal(t, 3, s.Len())

	reloaded := New(s.Path(), WithLogger(zerolog.Nop()))
	require.NoError(t, reloaded.Load())
	got := reloaded.Records()
	require.Len(t, got, 3)

	want := []porch.Conf{before[0], before[2], before[3]}
	for i := range want {
		assert.True(t, want[i].Same(got[i]), "record %d", i)
	}

	// IDs survive the rewrite in the same store
	for i, c := range s.Records() {
		assert.Equal(t, want[i].ID, c.ID)
	}
}

func TestDeleteAtOutOfRange(t *testing.T) {
	s := newStore(t)
	seed(t, s, 2)

	for _, i := range []int{-1, 2, 10} {
		err := s.DeleteAt(i)
		assert.ErrorIs(t, err, ErrInvalidIndex, "index %d", i)
	}
	assert.Equal(t, 2, s.Len())
}

func TestDeleteByID(t *testing.T) {
	s := newStore(t)
	seed(t, s, 3)
	target := s.Records()[2]

	require.NoError(t, s.Delete(target.ID))
	require.Equal(t, 2, s.Len())
	for _, c := range s.Records() {
		assert.NotEqual(t, target.ID, c.ID)
	}

	err := s.Delete(uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLoadMissingFile(t *testing.T) {
	s := newStore(t)

	err := s.Load()
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
	assert.Equal(t, 0, s.Len())
	assert.False(t, s.Valid())
}

func TestLoadBadHeader(t *testing.T) {
	s := newStore(t)
	require.NoError(t, os.WriteFile(s.Path(), []byte("not a porch file\n0.  ====\n"), 0o600))

	err := s.Load()
	require.ErrorIs(t, err, porchfile.ErrBadHeader)
	assert.Equal(t, 0, s.Len())
	assert.False(t, s.Valid())
}

func TestLoadPartial(t *testing.T) {
	s := newStore(t)
	seed(t, s, 2)

	f, err := os.OpenFile(s.Path(), os.O_APPEND|os.O_WRONLY, 0o600)
	require.NoError(t, err)
	_, err = f.WriteString("42. bogus\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	err = s.Load()
	var fe *porchfile.FormatError
	require.ErrorAs(t, err, &fe)
	assert.ErrorIs(t, err, porchfile.ErrUnknownPrefix)
	assert.Equal(t, 2, s.Len())
	assert.False(t, s.Valid())
}

func TestRewriteKeepsPrecision(t *testing.T) {
	path := filepath.Join(t.TempDir(), "PorchConf.txt")
	s := New(path, WithPrecision(-1), WithLogger(zerolog.Nop()))
	seed(t, s, 1)
	want := s.Records()[0]

	require.NoError(t, s.Rewrite())
	require.Equal(t, 1, s.Len())
	assert.True(t, want.Same(s.Records()[0]))
}

func TestAtAndFind(t *testing.T) {
	s := newStore(t)
	seed(t, s, 2)

	c, err := s.At(1)
	require.NoError(t, err)
	i, err := s.Find(c.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, i)

	_, err = s.At(5)
	assert.ErrorIs(t, err, ErrInvalidIndex)
}

func TestRecordsIsACopy(t *testing.T) {
	s := newStore(t)
	seed(t, s, 1)

	recs := s.Records()
	recs[0].Name = "changed"
	assert.NotEqual(t, "changed", s.Records()[0].Name)
}

func TestWatchReloads(t *testing.T) {
	s := newStore(t)
	seed(t, s, 1)

	writer := New(s.Path(), WithLogger(zerolog.Nop()))
	require.NoError(t, writer.Load())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	done := make(chan error, 1)
	reloaded := make(chan int, 4)
	go func() {
		done <- s.Watch(ctx, 20*time.Millisecond, func(err error) {
			if err == nil {
				reloaded <- s.Len()
			}
		})
	}()

	// Give the watcher time to register before writing.
	time.Sleep(200 * time.Millisecond)
	_, err := writer.Append(panel("from elsewhere", timing.DSC, 240))
	require.NoError(t, err)

	select {
	case n := <-reloaded:
		assert.Equal(t, 2, n)
	case <-ctx.Done():
		t.Fatal("watch did not reload")
	}

	cancel()
	assert.NoError(t, <-done)
}

func TestReloadAtNineDigits(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "PorchConf.txt"), WithPrecision(9), WithLogger(zerolog.Nop()))

	var in timing.Inputs
	for i, v := range []float32{234, 1080, 3, 1, 1, 7, 0.4285715, 30, 10, 60} {
		in.Set(timing.AllInputs[i], timing.Some(v))
	}
	saved, err := s.Append(porch.NewWithInputs("p", timing.DSC, in))
	require.NoError(t, err)

	require.NoError(t, s.Load())
	assert.True(t, s.Valid())
	require.Equal(t, 1, s.Len())
	assert.True(t, saved.Same(s.Records()[0]))
}

func TestReloadKeepsMarginAtMinusOne(t *testing.T) {
	s := newStore(t)

	var in timing.Inputs
	for i, v := range []float32{234, 1080, 2400, 1119, 2550, 2408, 1080, 30, 10, 60} {
		in.Set(timing.AllInputs[i], timing.Some(v))
	}
	_, err := s.Append(porch.NewWithInputs("tight", timing.DSC, in))
	require.NoError(t, err)

	require.NoError(t, s.Load())
	got, err := s.At(0)
	require.NoError(t, err)
	assert.Equal(t, float32(-1), got.Outputs.Get(timing.HBlankMinus40).Float32())
	assert.True(t, got.Outputs.Get(timing.HBlankMinus40).Valid())
	assert.True(t, got.Consistent())
}
