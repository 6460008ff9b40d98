// Package session holds the live, string-valued input buffers of open
// calculator windows and turns them into porch confs on save.
package session

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/mscrnt/porchconf/pkg/porch"
	"github.com/mscrnt/porchconf/pkg/timing"
)

var (
	// ErrIncomplete is returned by Save while any input is still empty
	ErrIncomplete = errors.New("all inputs must be filled before saving")
	// ErrDuplicate is returned when a session with the same title is open
	ErrDuplicate = errors.New("a session with this name and mode is already open")
	// ErrUnknownSession is returned for an ID that is not open
	ErrUnknownSession = errors.New("unknown session")
)

// Appender persists a conf. *store.Store satisfies it.
type Appender interface {
	Append(conf porch.Conf) (porch.Conf, error)
}

// Session is one open calculator window
type Session struct {
	ID   uuid.UUID
	Name string
	Mode timing.Mode

	raw   [timing.NumInputs]string
	saved bool
}

// New returns an empty session
func New(name string, mode timing.Mode) *Session {
	return &Session{
		ID:   uuid.New(),
		Name: porch.NormalizeName(name),
		Mode: mode,
	}
}

// Title returns "<name> | <mode>"
func (s *Session) Title() string {
	return porch.Title(s.Name, s.Mode)
}

// SetInput stores the raw text typed for a field. Editing clears the saved flag.
func (s *Session) SetInput(f timing.InputField, raw string) {
	if s.raw[f] != raw {
		s.saved = false
	}
	s.raw[f] = raw
}

// Input returns the raw text of a field
func (s *Session) Input(f timing.InputField) string {
	return s.raw[f]
}

// Inputs parses the raw buffers. Fields that fail to parse stay unset and
// their errors are joined into the returned error.
func (s *Session) Inputs() (timing.Inputs, error) {
	var in timing.Inputs
	var errs []error
	for _, f := range timing.AllInputs {
		v, err := timing.ParseInput(s.raw[f])
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", f.Name(), err))
			continue
		}
		in.Set(f, v)
	}
	return in, errors.Join(errs...)
}

// Outputs computes the outputs for whatever inputs currently parse
func (s *Session) Outputs() timing.Outputs {
	in, _ := s.Inputs()
	return timing.Compute(s.Mode, in)
}

// Missing returns the fields whose buffer is still empty
func (s *Session) Missing() []timing.InputField {
	var missing []timing.InputField
	for _, f := range timing.AllInputs {
		if strings.TrimSpace(s.raw[f]) == "" {
			missing = append(missing, f)
		}
	}
	return missing
}

// Complete reports whether every buffer holds text
func (s *Session) Complete() bool {
	return len(s.Missing()) == 0
}

// Conf builds a conf from the current buffers
func (s *Session) Conf() (porch.Conf, error) {
	in, err := s.Inputs()
	if err != nil {
		return porch.Conf{}, err
	}
	return porch.NewWithInputs(s.Name, s.Mode, in), nil
}

// Save appends the session's conf through a. It fails with ErrIncomplete
// without touching a while any buffer is empty.
func (s *Session) Save(a Appender) (porch.Conf, error) {
	if !s.Complete() {
		return porch.Conf{}, ErrIncomplete
	}
	c, err := s.Conf()
	if err != nil {
		return porch.Conf{}, err
	}
	saved, err := a.Append(c)
	if err != nil {
		return porch.Conf{}, err
	}
	s.saved = true
	return saved, nil
}

// Saved reports whether the buffers were saved since the last edit
func (s *Session) Saved() bool {
	return s.saved
}

// Manager is the ordered collection of open sessions
type Manager struct {
	sessions []*Session
}

// NewManager returns an empty manager
func NewManager() *Manager {
	return &Manager{}
}

// Open adds a session. Empty names and titles already open are rejected.
func (m *Manager) Open(name string, mode timing.Mode) (*Session, error) {
	name = porch.NormalizeName(name)
	if err := porch.ValidateName(name); err != nil {
		return nil, err
	}
	title := porch.Title(name, mode)
	for _, s := range m.sessions {
		if s.Title() == title {
			return nil, fmt.Errorf("%w: %s", ErrDuplicate, title)
		}
	}
	s := New(name, mode)
	m.sessions = append(m.sessions, s)
	return s, nil
}

// Get returns an open session
func (m *Manager) Get(id uuid.UUID) (*Session, error) {
	for _, s := range m.sessions {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownSession, id)
}

// Close removes a session
func (m *Manager) Close(id uuid.UUID) error {
	for i, s := range m.sessions {
		if s.ID == id {
			m.sessions = append(m.sessions[:i], m.sessions[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrUnknownSession, id)
}

// List returns the open sessions in the order they were opened
func (m *Manager) List() []*Session {
	out := make([]*Session, len(m.sessions))
	copy(out, m.sessions)
	return out
}

// Len returns the number of open sessions
func (m *Manager) Len() int {
	return len(m.sessions)
}
