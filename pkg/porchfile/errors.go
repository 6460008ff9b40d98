package porchfile

import (
	"errors"
	"fmt"
)

var (
	// ErrBadHeader is returned when the first line is not Header
	ErrBadHeader = errors.New("porch file header is wrong, the first line must be \"" + Header + "\"")
	// ErrUnknownPrefix is returned for a line whose prefix is not part of the format
	ErrUnknownPrefix = errors.New("incorrect porch file format: unknown line prefix")
	// ErrFieldOutsideRecord is returned for a field line before any "0." line
	ErrFieldOutsideRecord = errors.New("field line before record start")
	// ErrBadMode is returned when the mode line is not DSC or NonDSC
	ErrBadMode = errors.New("mode must be DSC or NonDSC")
	// ErrBadNumber is returned when a numeric field does not parse
	ErrBadNumber = errors.New("invalid number")
)

// FormatError reports a malformed line
type FormatError struct {
	Line   int
	Prefix string
	Err    error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("line %d (%q): %v", e.Line, e.Prefix, e.Err)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}
