package timing

import (
	"fmt"
	"strings"
)

// InputField identifies one of the ten raw timing inputs
type InputField int

// Input fields in wire order
const (
	TxVid InputField = iota
	HActive
	VActive
	HTotal
	VTotal
	AdjVActive
	AdjHActive
	HFP
	HSync
	HBP

	NumInputs = iota
)

// AllInputs lists the input fields in wire order
var AllInputs = []InputField{TxVid, HActive, VActive, HTotal, VTotal, AdjVActive, AdjHActive, HFP, HSync, HBP}

type fieldInfo struct {
	name  string // canonical name, also the CLI flag
	label string // trailing label in the porch file
	hint  string
}

var inputInfo = [NumInputs]fieldInfo{
	TxVid:      {"txvid", "txvid", "video TX clock rate"},
	HActive:    {"hactive", "hactive", "horizontal resolution sent by the host"},
	VActive:    {"vactive", "vactive", "vertical resolution sent by the host"},
	HTotal:     {"htotal", "htotal", "horizontal total: hactive + HSYNC + HBP + HFP"},
	VTotal:     {"vtotal", "vtotal", "vertical total: vactive + VSYNC + VFP + VBP"},
	AdjVActive: {"adj_vactive", "adj_vactive", "vertical resolution required by the panel"},
	AdjHActive: {"adj_hactive", "adj_hactive", "horizontal resolution required by the panel"},
	HFP:        {"hfp", "HFP", "horizontal front porch"},
	HSync:      {"hsync", "HSYNC", "horizontal sync width"},
	HBP:        {"hbp", "HBP", "horizontal back porch"},
}

// Name returns the canonical lower-case field name
func (f InputField) Name() string {
	if f < 0 || int(f) >= NumInputs {
		return fmt.Sprintf("input(%d)", int(f))
	}
	return inputInfo[f].name
}

// Label returns the label written after the value in the porch file
func (f InputField) Label() string {
	if f < 0 || int(f) >= NumInputs {
		return ""
	}
	return inputInfo[f].label
}

// Hint returns a one-line description for help text
func (f InputField) Hint() string {
	if f < 0 || int(f) >= NumInputs {
		return ""
	}
	return inputInfo[f].hint
}

func (f InputField) String() string { return f.Name() }

// ParseInputField looks up an input field by canonical name or label
func ParseInputField(s string) (InputField, error) {
	for _, f := range AllInputs {
		if strings.EqualFold(s, inputInfo[f].name) || strings.EqualFold(s, inputInfo[f].label) {
			return f, nil
		}
	}
	return 0, fmt.Errorf("unknown input field %q", s)
}

// OutputField identifies one derived output
type OutputField int

// Output fields in wire order. The last two exist only in DSC mode.
const (
	FPS OutputField = iota
	AdjHTotal
	AdjHBlank
	MinimumHLine
	MinimumLaneRate
	AdjHBlankMinus40
	HBlankMinus40

	NumOutputs = iota
)

// NumCommonOutputs is the number of outputs shared by both modes
const NumCommonOutputs = 5

// AllOutputs lists the output fields in wire order
var AllOutputs = []OutputField{FPS, AdjHTotal, AdjHBlank, MinimumHLine, MinimumLaneRate, AdjHBlankMinus40, HBlankMinus40}

var outputInfo = [NumOutputs]fieldInfo{
	FPS:              {"fps", "帧率", "frame rate"},
	AdjHTotal:        {"adj_htotal", "adj_htotal", "scaled horizontal total: vactive * htotal / adj_vactive"},
	AdjHBlank:        {"adj_hblank", "adj_hblank", "adj_htotal - adj_hactive"},
	MinimumHLine:     {"minimum_hline", "进 LP 时最小 HLINE", "minimum HLINE time to enter LP mode"},
	MinimumLaneRate:  {"minimum_lane_rate", "切 LP mode, Lane 速率至少需要达到的值", "minimum lane rate to switch to LP mode"},
	AdjHBlankMinus40: {"adj_hblank_minus_40", "adj_hblank - 40", "adj_hblank - 40"},
	HBlankMinus40:    {"hblank_minus_40", "hblank - 40", "htotal - 40 - hactive"},
}

// Name returns the canonical lower-case field name
func (f OutputField) Name() string {
	if f < 0 || int(f) >= NumOutputs {
		return fmt.Sprintf("output(%d)", int(f))
	}
	return outputInfo[f].name
}

// Label returns the label written after the value in the porch file
func (f OutputField) Label() string {
	if f < 0 || int(f) >= NumOutputs {
		return ""
	}
	return outputInfo[f].label
}

// Hint returns a one-line description for help text
func (f OutputField) Hint() string {
	if f < 0 || int(f) >= NumOutputs {
		return ""
	}
	return outputInfo[f].hint
}

func (f OutputField) String() string { return f.Name() }

// DSCOnly reports whether the output only exists in DSC mode
func (f OutputField) DSCOnly() bool {
	return f >= NumCommonOutputs
}

// Inputs holds the raw inputs indexed by InputField
type Inputs [NumInputs]Value

// Get returns one input
func (in Inputs) Get(f InputField) Value { return in[f] }

// Set stores one input
func (in *Inputs) Set(f InputField, v Value) { in[f] = v }

// Has reports whether every listed field is set
func (in Inputs) Has(fields ...InputField) bool {
	for _, f := range fields {
		if !in[f].ok {
			return false
		}
	}
	return true
}

// Missing returns the fields that are unset
func (in Inputs) Missing() []InputField {
	var missing []InputField
	for _, f := range AllInputs {
		if !in[f].ok {
			missing = append(missing, f)
		}
	}
	return missing
}

// Complete reports whether all ten inputs are set
func (in Inputs) Complete() bool {
	return len(in.Missing()) == 0
}

// Outputs holds the derived outputs indexed by OutputField
type Outputs [NumOutputs]Value

// Get returns one output
func (out Outputs) Get(f OutputField) Value { return out[f] }

// Set stores one output
func (out *Outputs) Set(f OutputField, v Value) { out[f] = v }
