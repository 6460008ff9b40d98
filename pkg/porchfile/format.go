// Package porchfile reads and writes the porch configuration text file.
//
// The file starts with a fixed header line. Every record is a block of
// numbered lines ("0." to "21.") holding one value each, left-justified to a
// fixed width and followed by a human-readable label:
//
//	PorchConfHeader@zionFisher //Do not delete this line or you will not be able to open this file
//	0.  ============================================================
//	1.  panel | DSC              Porch Name
//	2.  DSC                      Porch Type
//	3.  ---------------------------input----------------------------
//	4.  234            txvid
//	...
//	14. ---------------------------output---------------------------
//	15. 77.7819        帧率
//	...
//
// Lines 20 and 21 are only written for DSC records.
package porchfile

import (
	"strconv"

	"github.com/mscrnt/porchconf/pkg/timing"
)

// Header is the mandatory first line of a porch file
const Header = "PorchConfHeader@zionFisher //Do not delete this line or you will not be able to open this file"

// DefaultPrecision is six significant digits, as existing porch files are written
const DefaultPrecision = 6

const (
	prefixWidth = 4
	textWidth   = 25
	numberWidth = 15

	recordRule = "============================================================"
	inputRule  = "---------------------------input----------------------------"
	outputRule = "---------------------------output---------------------------"
	nameLabel  = "Porch Name"
	modeLabel  = "Porch Type"
)

// Line prefixes
const (
	prefixStart       = 0
	prefixName        = 1
	prefixMode        = 2
	prefixInputRule   = 3
	prefixFirstInput  = 4
	prefixOutputRule  = 14
	prefixFirstOutput = 15
)

// Sentinels written for values that are not set. On an input line they always
// mean unset; on an output line only when the inputs compute something else.
const (
	sentinelUnset         float32 = -1
	sentinelNotApplicable float32 = -2
)

func inputPrefix(f timing.InputField) int {
	return prefixFirstInput + int(f)
}

func outputPrefix(f timing.OutputField) int {
	return prefixFirstOutput + int(f)
}

func prefixToken(n int) string {
	return strconv.Itoa(n) + "."
}

func formatNumber(v float32, precision int) string {
	return strconv.FormatFloat(float64(v), 'g', precision, 32)
}
