// Package store keeps the ordered working set of porch confs and mirrors it
// to the backing porch file.
package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mscrnt/porchconf/pkg/logging"
	"github.com/mscrnt/porchconf/pkg/porch"
	"github.com/mscrnt/porchconf/pkg/porchfile"
)

var (
	// ErrInvalidIndex is returned for a position outside the working set
	ErrInvalidIndex = errors.New("index out of range")
	// ErrNotFound is returned when no record has the requested ID
	ErrNotFound = errors.New("record not found")
)

// Store is the in-memory working set backed by one porch file.
// It is not safe for concurrent use.
type Store struct {
	path   string
	enc    *porchfile.Encoder
	logger zerolog.Logger
	confs  []porch.Conf
	valid  bool
}

// Option configures a Store
type Option func(*Store)

// WithPrecision sets the significant digits used when writing numbers
func WithPrecision(precision int) Option {
	return func(s *Store) {
		s.enc = porchfile.NewEncoder(precision)
	}
}

// WithLogger replaces the store's logger
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// New creates a store for the file at path. Nothing is read until Load.
func New(path string, opts ...Option) *Store {
	s := &Store{
		path:   path,
		enc:    porchfile.NewEncoder(porchfile.DefaultPrecision),
		logger: logging.For("store"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the backing file path
func (s *Store) Path() string {
	return s.path
}

// Load clears the working set and decodes the backing file into it.
//
// When the file cannot be opened the store stays empty. When decoding fails
// the records read before the failing line are kept, but Valid reports false.
func (s *Store) Load() error {
	s.confs = nil
	s.valid = false

	f, err := os.Open(s.path)
	if err != nil {
		s.logger.Error().Err(err).Str("path", s.path).Msg("unable to open porch file")
		return fmt.Errorf("failed to open porch file: %w", err)
	}
	defer func() { _ = f.Close() }()

	confs, err := porchfile.Decode(f)
	s.confs = confs
	if err != nil {
		ev := s.logger.Error().Err(err).Str("path", s.path)
		var fe *porchfile.FormatError
		if errors.As(err, &fe) {
			ev = ev.Int("line", fe.Line).Str("prefix", fe.Prefix)
		}
		ev.Int("records", len(confs)).Msg("porch file is malformed")
		return err
	}

	s.valid = true
	s.logger.Debug().Str("path", s.path).Int("records", len(confs)).Msg("porch file loaded")
	return nil
}

// Valid reports whether the last Load decoded the whole file
func (s *Store) Valid() bool {
	return s.valid
}

// Len returns the number of records in the working set
func (s *Store) Len() int {
	return len(s.confs)
}

// Records returns a copy of the working set in display order
func (s *Store) Records() []porch.Conf {
	out := make([]porch.Conf, len(s.confs))
	copy(out, s.confs)
	return out
}

// At returns the record at position i
func (s *Store) At(i int) (porch.Conf, error) {
	if i < 0 || i >= len(s.confs) {
		return porch.Conf{}, fmt.Errorf("%w: %d (have %d)", ErrInvalidIndex, i, len(s.confs))
	}
	return s.confs[i], nil
}

// Find returns the position of the record with the given ID
func (s *Store) Find(id uuid.UUID) (int, error) {
	for i := range s.confs {
		if s.confs[i].ID == id {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// Init creates the backing file with its header when it is missing or empty
func (s *Store) Init() error {
	info, err := os.Stat(s.path)
	switch {
	case err == nil && info.Size() > 0:
		return nil
	case err != nil && !errors.Is(err, os.ErrNotExist):
		s.logger.Error().Err(err).Str("path", s.path).Msg("unable to stat porch file")
		return fmt.Errorf("failed to stat porch file: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create porch file directory: %w", err)
		}
	}

	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644) // #nosec G302 G304 -- porch file is user data
	if err != nil {
		s.logger.Error().Err(err).Str("path", s.path).Msg("unable to create porch file")
		return fmt.Errorf("failed to create porch file: %w", err)
	}
	defer func() { _ = f.Close() }()

	if err := s.enc.WriteAll(f, nil); err != nil {
		s.logger.Error().Err(err).Str("path", s.path).Msg("unable to write porch file header")
		return err
	}
	s.logger.Info().Str("path", s.path).Msg("porch file created")
	return nil
}

// Append recomputes the conf's outputs and appends it to the backing file.
// The name is normalized and every input must be set. When the working set
// was loaded successfully the record is added to it as well; the stored
// record is returned.
func (s *Store) Append(conf porch.Conf) (porch.Conf, error) {
	conf.Name = porch.NormalizeName(conf.Name)
	if err := conf.Validate(); err != nil {
		return porch.Conf{}, err
	}
	if conf.ID == uuid.Nil {
		conf.ID = uuid.New()
	}
	conf.Recompute()

	if err := s.Init(); err != nil {
		return porch.Conf{}, err
	}

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_WRONLY, 0o644) // #nosec G302 G304 -- porch file is user data
	if err != nil {
		s.logger.Error().Err(err).Str("path", s.path).Msg("unable to open porch file for append")
		return porch.Conf{}, fmt.Errorf("failed to open porch file: %w", err)
	}
	defer func() { _ = f.Close() }()

	if err := s.enc.Append(f, conf); err != nil {
		s.logger.Error().Err(err).Str("path", s.path).Str("name", conf.Name).Msg("unable to append porch conf")
		return porch.Conf{}, err
	}

	if s.valid {
		s.confs = append(s.confs, conf)
	}
	s.logger.Info().Str("path", s.path).Str("title", conf.Title()).Msg("porch conf saved")
	return conf, nil
}

// DeleteAt removes the record at position i and rewrites the file
func (s *Store) DeleteAt(i int) error {
	if i < 0 || i >= len(s.confs) {
		return fmt.Errorf("%w: %d (have %d)", ErrInvalidIndex, i, len(s.confs))
	}
	prev := s.confs
	removed := s.confs[i]
	s.confs = append(s.confs[:i:i], s.confs[i+1:]...)

	if written, err := s.rewrite(); err != nil {
		if !written {
			s.confs = prev
		}
		return err
	}
	s.logger.Info().Str("path", s.path).Int("index", i).Str("title", removed.Title()).Msg("porch conf deleted")
	return nil
}

// Delete removes the record with the given ID and rewrites the file
func (s *Store) Delete(id uuid.UUID) error {
	i, err := s.Find(id)
	if err != nil {
		return err
	}
	return s.DeleteAt(i)
}

// Rewrite replaces the backing file with the current working set and reloads
// it. The new content is written to a temporary file that is renamed over
// the old one. Records keep their IDs across the reload.
func (s *Store) Rewrite() error {
	_, err := s.rewrite()
	return err
}

// rewrite reports whether the backing file was replaced
func (s *Store) rewrite() (bool, error) {
	for i := range s.confs {
		s.confs[i].Name = porch.NormalizeName(s.confs[i].Name)
		s.confs[i].Recompute()
	}

	if err := s.writeAtomic(); err != nil {
		s.logger.Error().Err(err).Str("path", s.path).Msg("unable to rewrite porch file")
		return false, err
	}

	ids := make([]uuid.UUID, len(s.confs))
	for i := range s.confs {
		ids[i] = s.confs[i].ID
	}
	if err := s.Load(); err != nil {
		return true, err
	}
	if len(s.confs) == len(ids) {
		for i := range s.confs {
			s.confs[i].ID = ids[i]
		}
	}
	return true, nil
}

func (s *Store) writeAtomic() error {
	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create temporary porch file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if err := s.enc.WriteAll(tmp, s.confs); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to sync porch file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close porch file: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil { // #nosec G302 -- porch file is user data
		return fmt.Errorf("failed to set porch file permissions: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("failed to replace porch file: %w", err)
	}
	return nil
}
