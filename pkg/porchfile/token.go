package porchfile

import (
	"errors"
	"strconv"
	"strings"

	"github.com/mscrnt/porchconf/pkg/porch"
	"github.com/mscrnt/porchconf/pkg/timing"
)

// maxNumberWidth bounds the numeric prefix search of a value column
const maxNumberWidth = 64

// TokenKind classifies a porch file line
type TokenKind int

const (
	// TokenStart is the "0." record start marker
	TokenStart TokenKind = iota
	// TokenDivider is one of the "3." and "14." section rules
	TokenDivider
	// TokenName is the "1." name line
	TokenName
	// TokenMode is the "2." mode line
	TokenMode
	// TokenInput is one of the "4." to "13." input lines
	TokenInput
	// TokenOutput is one of the "15." to "21." output lines
	TokenOutput
)

// Token is one parsed porch file line
type Token struct {
	Kind   TokenKind
	Line   int
	Prefix string

	Name   string             // TokenName
	Mode   timing.Mode        // TokenMode
	Input  timing.InputField  // TokenInput
	Output timing.OutputField // TokenOutput
	Value  timing.Value       // TokenInput, TokenOutput

	// Sentinel marks an output line holding -1 or -2. Value keeps the literal
	// number; the decoder decides whether it is real or unset.
	Sentinel bool
}

// IsField reports whether the token carries data for the current record
func (t Token) IsField() bool {
	switch t.Kind {
	case TokenName, TokenMode, TokenInput, TokenOutput:
		return true
	}
	return false
}

// Tokenize parses one body line. It returns ok=false for a blank line.
func Tokenize(line string, lineNo int) (tok Token, ok bool, err error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Token{}, false, nil
	}

	tok = Token{Line: lineNo, Prefix: fields[0]}
	fail := func(cause error) (Token, bool, error) {
		return Token{}, false, &FormatError{Line: lineNo, Prefix: fields[0], Err: cause}
	}

	n, perr := parsePrefix(fields[0])
	if perr != nil {
		return fail(ErrUnknownPrefix)
	}
	rest := fields[1:]

	switch {
	case n == prefixStart:
		tok.Kind = TokenStart
	case n == prefixInputRule || n == prefixOutputRule:
		tok.Kind = TokenDivider
	case n == prefixName:
		tok.Kind = TokenName
		tok.Name = parseName(rest)
	case n == prefixMode:
		if len(rest) == 0 {
			return fail(ErrBadMode)
		}
		switch rest[0] {
		case timing.DSC.String():
			tok.Mode = timing.DSC
		case timing.NonDSC.String():
			tok.Mode = timing.NonDSC
		default:
			return fail(ErrBadMode)
		}
		tok.Kind = TokenMode
	case n >= prefixFirstInput && n < prefixFirstInput+timing.NumInputs:
		v, verr := parseNumber(rest)
		if verr != nil {
			return fail(verr)
		}
		tok.Kind = TokenInput
		tok.Input = timing.InputField(n - prefixFirstInput)
		if !isSentinel(v) {
			tok.Value = timing.Some(v)
		}
	case n >= prefixFirstOutput && n < prefixFirstOutput+timing.NumOutputs:
		v, verr := parseNumber(rest)
		if verr != nil {
			return fail(verr)
		}
		tok.Kind = TokenOutput
		tok.Output = timing.OutputField(n - prefixFirstOutput)
		tok.Value = timing.Some(v)
		tok.Sentinel = isSentinel(v)
	default:
		return fail(ErrUnknownPrefix)
	}

	return tok, true, nil
}

// parsePrefix accepts "N." with N a decimal number written without leading zeros
func parsePrefix(s string) (int, error) {
	digits, found := strings.CutSuffix(s, ".")
	if !found || digits == "" || (len(digits) > 1 && digits[0] == '0') {
		return 0, ErrUnknownPrefix
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return 0, ErrUnknownPrefix
		}
	}
	return strconv.Atoi(digits)
}

// parseName joins the words before the "|" that separates name and mode
func parseName(words []string) string {
	var name []string
	for _, w := range words {
		if w == porch.NameSeparator {
			break
		}
		name = append(name, w)
	}
	return strings.Join(name, " ")
}

// parseNumber reads the number at the start of the first word. Files written
// without a separator can have the label glued to the number, so the longest
// numeric prefix is taken, as stream extraction would.
func parseNumber(words []string) (float32, error) {
	if len(words) == 0 {
		return 0, ErrBadNumber
	}
	w := words[0]
	if len(w) > maxNumberWidth {
		w = w[:maxNumberWidth]
	}
	for end := len(w); end > 0; end-- {
		f, err := strconv.ParseFloat(w[:end], 32)
		if err == nil {
			return float32(f), nil
		}
		if errors.Is(err, strconv.ErrRange) {
			return 0, ErrBadNumber
		}
	}
	return 0, ErrBadNumber
}

func isSentinel(v float32) bool {
	return v == sentinelUnset || v == sentinelNotApplicable
}
