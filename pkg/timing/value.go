package timing

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Value is an optional float32 measurement. The zero value is unset.
type Value struct {
	v  float32
	ok bool
}

// None is the unset value
var None Value

// Some returns a set value
func Some(v float32) Value {
	return Value{v: v, ok: true}
}

// Get returns the value and whether it is set
func (v Value) Get() (float32, bool) {
	return v.v, v.ok
}

// Valid reports whether the value is set
func (v Value) Valid() bool {
	return v.ok
}

// Float32 returns the value, or 0 when unset
func (v Value) Float32() float32 {
	if !v.ok {
		return 0
	}
	return v.v
}

// String formats the value the way the calculator displays it
func (v Value) String() string {
	if !v.ok {
		return "-"
	}
	return fmt.Sprintf("%.4f", v.v)
}

// ParseInput parses a raw input string. Blank input is unset and not an error.
func ParseInput(raw string) (Value, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return None, nil
	}
	f, err := strconv.ParseFloat(raw, 32)
	if err != nil {
		return None, fmt.Errorf("invalid number %q", raw)
	}
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return None, fmt.Errorf("invalid number %q", raw)
	}
	return Some(float32(f)), nil
}

func finite(f float32) (Value, bool) {
	if math.IsInf(float64(f), 0) || math.IsNaN(float64(f)) {
		return None, false
	}
	return Some(f), true
}
