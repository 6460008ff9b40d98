// Package timing implements the porch timing formulas for DSC and NonDSC links.
//
// Every function in this package is pure. Inputs are optional values so that a
// partially typed parameter set still yields whichever outputs its present
// fields allow.
package timing

import (
	"fmt"
	"strings"
)

// Mode selects the link timing mode
type Mode int

const (
	// DSC is a Display Stream Compression link. It has two extra outputs.
	DSC Mode = iota
	// NonDSC is an uncompressed link.
	NonDSC
)

// Modes lists the supported modes in display order
var Modes = []Mode{DSC, NonDSC}

// String returns the wire token for the mode
func (m Mode) String() string {
	switch m {
	case DSC:
		return "DSC"
	case NonDSC:
		return "NonDSC"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode parses a mode name, ignoring case
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "dsc":
		return DSC, nil
	case "nondsc", "non-dsc":
		return NonDSC, nil
	default:
		return 0, fmt.Errorf("unknown mode %q (want DSC or NonDSC)", s)
	}
}

// Outputs returns the output fields that are meaningful for the mode
func (m Mode) Outputs() []OutputField {
	if m == DSC {
		return AllOutputs
	}
	return AllOutputs[:NumCommonOutputs]
}
