package porchfile

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/mscrnt/porchconf/pkg/porch"
	"github.com/mscrnt/porchconf/pkg/timing"
)

// Encoder writes porch file records
type Encoder struct {
	// Precision is the number of significant digits written for numbers.
	// -1 writes the shortest text that reads back to the same float32.
	Precision int
}

// NewEncoder returns an Encoder with the given precision
func NewEncoder(precision int) *Encoder {
	return &Encoder{Precision: precision}
}

// WriteAll writes the header followed by every record
func (e *Encoder) WriteAll(w io.Writer, confs []porch.Conf) error {
	bw := bufio.NewWriter(w)
	_, _ = bw.WriteString(Header + "\n")
	for i := range confs {
		e.writeBlock(bw, &confs[i])
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write porch file: %w", err)
	}
	return nil
}

// Append writes a single record block without the header. The caller must
// position w at the end of a file that already carries the header.
func (e *Encoder) Append(w io.Writer, conf porch.Conf) error {
	bw := bufio.NewWriter(w)
	e.writeBlock(bw, &conf)
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to append porch record: %w", err)
	}
	return nil
}

// writeBlock relies on bufio's sticky error; Flush reports it
func (e *Encoder) writeBlock(w *bufio.Writer, c *porch.Conf) {
	line := func(prefix int, body string) {
		_, _ = w.WriteString(pad(prefixToken(prefix), prefixWidth) + body + "\n")
	}
	field := func(prefix int, value, label string, width int) {
		line(prefix, pad(value, width)+label)
	}

	line(prefixStart, recordRule)
	field(prefixName, c.Title(), nameLabel, textWidth)
	field(prefixMode, c.Mode.String(), modeLabel, textWidth)

	line(prefixInputRule, inputRule)
	for _, f := range timing.AllInputs {
		field(inputPrefix(f), e.number(c.Inputs.Get(f).Get()), f.Label(), numberWidth)
	}

	line(prefixOutputRule, outputRule)
	for _, f := range c.Mode.Outputs() {
		v, ok := c.Outputs.Get(f).Get()
		if !ok && f.DSCOnly() {
			v, ok = sentinelNotApplicable, true
		}
		field(outputPrefix(f), e.number(v, ok), f.Label(), numberWidth)
	}
}

// pad left-justifies s to width bytes. A value that fills the column still
// gets one space so it stays apart from the label.
func pad(s string, width int) string {
	if len(s) >= width {
		return s + " "
	}
	return s + strings.Repeat(" ", width-len(s))
}

func (e *Encoder) number(v float32, ok bool) string {
	if !ok {
		v = sentinelUnset
	}
	return formatNumber(v, e.Precision)
}
