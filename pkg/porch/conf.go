// Package porch defines the porch configuration record shared by the codec,
// the store and the presentation layers.
package porch

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"

	"github.com/mscrnt/porchconf/pkg/timing"
)

// DefaultName is the name of a freshly constructed Conf
const DefaultName = "Default"

// NameSeparator joins name and mode in titles and in the porch file
const NameSeparator = "|"

var (
	// ErrEmptyName is returned for a blank name
	ErrEmptyName = errors.New("name must not be empty")
	// ErrInvalidName is returned for names the porch file cannot carry
	ErrInvalidName = errors.New("name must be a single line without a standalone '|'")
	// ErrMissingInputs is returned when a Conf is saved with unset inputs
	ErrMissingInputs = errors.New("missing inputs")
)

// Conf is one named parameter set with its derived outputs
type Conf struct {
	ID      uuid.UUID
	Name    string
	Mode    timing.Mode
	Inputs  timing.Inputs
	Outputs timing.Outputs
}

// New returns a default DSC Conf with a fresh identity
func New() Conf {
	return Conf{
		ID:   uuid.New(),
		Name: DefaultName,
		Mode: timing.DSC,
	}
}

// NewWithInputs builds a Conf and computes its outputs
func NewWithInputs(name string, mode timing.Mode, in timing.Inputs) Conf {
	c := New()
	c.Name = name
	c.Mode = mode
	c.Inputs = in
	c.Recompute()
	return c
}

// Recompute derives the outputs from the current inputs and mode
func (c *Conf) Recompute() {
	c.Outputs = timing.Compute(c.Mode, c.Inputs)
}

// outputTolerance is the relative difference between a stored and a computed
// output that still counts as equal. The porch file keeps six significant
// digits by default.
const outputTolerance = 1e-5

// Consistent reports whether the stored outputs match a fresh computation
// to within the rounding of the porch file
func (c Conf) Consistent() bool {
	fresh := timing.Compute(c.Mode, c.Inputs)
	for _, f := range timing.AllOutputs {
		if !closeValue(c.Outputs.Get(f), fresh.Get(f)) {
			return false
		}
	}
	return true
}

func closeValue(a, b timing.Value) bool {
	av, aok := a.Get()
	bv, bok := b.Get()
	if aok != bok {
		return false
	}
	if !aok {
		return true
	}
	x, y := float64(av), float64(bv)
	return math.Abs(x-y) <= outputTolerance*math.Max(math.Abs(x), math.Abs(y))
}

// Title returns the "<name> | <mode>" display title
func (c Conf) Title() string {
	return Title(c.Name, c.Mode)
}

// Title formats a display title for a name and mode
func Title(name string, mode timing.Mode) string {
	return fmt.Sprintf("%s %s %s", name, NameSeparator, mode)
}

// NormalizeName collapses runs of whitespace, which the porch file does not keep
func NormalizeName(name string) string {
	return strings.Join(strings.Fields(name), " ")
}

// ValidateName checks that a name survives the porch file encoding
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrEmptyName
	}
	if strings.ContainsAny(name, "\r\n") {
		return ErrInvalidName
	}
	for _, tok := range strings.Fields(name) {
		if tok == NameSeparator {
			return ErrInvalidName
		}
	}
	return nil
}

// Validate checks the name and that every input is present
func (c Conf) Validate() error {
	if err := ValidateName(c.Name); err != nil {
		return err
	}
	if missing := c.Inputs.Missing(); len(missing) > 0 {
		names := make([]string, len(missing))
		for i, f := range missing {
			names[i] = f.Name()
		}
		return fmt.Errorf("%w: %s", ErrMissingInputs, strings.Join(names, ", "))
	}
	return nil
}

// Same reports whether two Confs hold the same data, ignoring identity
func (c Conf) Same(o Conf) bool {
	return c.Name == o.Name && c.Mode == o.Mode && c.Inputs == o.Inputs && c.Outputs == o.Outputs
}
