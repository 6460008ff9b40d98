package porchfile

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/mscrnt/porchconf/pkg/porch"
	"github.com/mscrnt/porchconf/pkg/timing"
)

const maxLineSize = 1 << 20

type decodeState int

const (
	awaitingRecordStart decodeState = iota
	inRecord
)

type decoder struct {
	state decodeState
	confs []porch.Conf
}

// apply feeds one token to the state machine
func (d *decoder) apply(tok Token) error {
	if tok.Kind == TokenStart {
		d.confs = append(d.confs, porch.New())
		d.state = inRecord
		return nil
	}
	if tok.Kind == TokenDivider {
		return nil
	}
	if d.state != inRecord {
		return &FormatError{Line: tok.Line, Prefix: tok.Prefix, Err: ErrFieldOutsideRecord}
	}

	c := &d.confs[len(d.confs)-1]
	switch tok.Kind {
	case TokenName:
		c.Name = tok.Name
	case TokenMode:
		c.Mode = tok.Mode
	case TokenInput:
		c.Inputs.Set(tok.Input, tok.Value)
	case TokenOutput:
		v := tok.Value
		if tok.Sentinel && !matchesComputed(*c, tok.Output, v) {
			v = timing.None
		}
		c.Outputs.Set(tok.Output, v)
	}
	return nil
}

// matchesComputed reports whether a -1 or -2 read from an output line is the
// real output of the record. The mode and inputs precede the outputs in a
// block, so they are known here. A value rounded by a low encoder precision
// still matches within half a unit.
func matchesComputed(c porch.Conf, f timing.OutputField, v timing.Value) bool {
	want, ok := timing.Compute(c.Mode, c.Inputs).Get(f).Get()
	if !ok {
		return false
	}
	return math.Abs(float64(want-v.Float32())) <= 0.5
}

// Decode reads a whole porch file.
//
// A wrong header returns ErrBadHeader and no records. A malformed body line
// stops decoding: the records read up to that line are returned together
// with a *FormatError, and nothing after the line is applied.
func Decode(r io.Reader) ([]porch.Conf, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return nil, fmt.Errorf("failed to read porch file: %w", err)
		}
		return nil, ErrBadHeader
	}
	header := strings.TrimPrefix(strings.TrimSuffix(sc.Text(), "\r"), "\ufeff")
	if header != Header {
		return nil, ErrBadHeader
	}

	d := &decoder{}
	lineNo := 1
	for sc.Scan() {
		lineNo++
		tok, ok, err := Tokenize(strings.TrimSuffix(sc.Text(), "\r"), lineNo)
		if err != nil {
			return d.confs, err
		}
		if !ok {
			continue
		}
		if err := d.apply(tok); err != nil {
			return d.confs, err
		}
	}
	if err := sc.Err(); err != nil {
		return d.confs, fmt.Errorf("failed to read porch file: %w", err)
	}

	return d.confs, nil
}
