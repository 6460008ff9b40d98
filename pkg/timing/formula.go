package timing

import (
	"errors"
	"math"
)

// LaneRateSignificance is the step the minimum lane rate is rounded up to
const LaneRateSignificance = 25

// Fixed protocol overhead of the minimum HLINE formula: 4*50 + 4*96 + 4*40 + 14
const hlineOverhead = 4*50 + 4*96 + 4*40 + 14

var (
	// ErrNegative is returned by CeilToSignificance for negative arguments
	ErrNegative = errors.New("value and significance must not be negative")
	// ErrZeroSignificance is returned by CeilToSignificance when significance is zero
	ErrZeroSignificance = errors.New("significance must not be zero")
	// ErrOverflow is returned by CeilToSignificance when the result does not fit in an int32
	ErrOverflow = errors.New("value is too large to round")
)

// CeilToSignificance rounds value up to a whole unit, then up again to a
// multiple of significance. A whole-unit value that is already a multiple is
// still moved to the next multiple, so 50 becomes 75 for a significance of 25.
// Values below significance return significance.
func CeilToSignificance(value float32, significance int) (int, error) {
	if value < 0 || significance < 0 {
		return -1, ErrNegative
	}
	if value < float32(significance) {
		return significance, nil
	}
	if significance == 0 {
		return -1, ErrZeroSignificance
	}

	if float64(value) > float64(math.MaxInt32-significance) {
		return -1, ErrOverflow
	}

	n := int(math.Ceil(float64(value)))
	offset := significance - n%significance
	return n + offset, nil
}

// Compute derives every output whose inputs are present. It is safe to call
// on every keystroke: nothing is cached and partial input only suppresses the
// outputs that depend on the missing fields. Non-finite results (a zero
// divisor) are left unset.
func Compute(mode Mode, in Inputs) Outputs {
	var out Outputs

	if v, ok := adjHTotal(in); ok {
		out[AdjHTotal] = v
	}
	if v, ok := adjHBlank(in); ok {
		out[AdjHBlank] = v
	}
	if v, ok := minimumHLine(in); ok {
		out[MinimumHLine] = v
	}
	if v, ok := minimumLaneRate(in); ok {
		out[MinimumLaneRate] = v
	}

	switch mode {
	case DSC:
		if v, ok := dscFPS(in); ok {
			out[FPS] = v
		}
		if v, ok := adjHBlank(in); ok {
			out[AdjHBlankMinus40] = Some(v.v - 40)
		}
		if in.Has(HActive, HTotal) {
			out[HBlankMinus40], _ = finite(in[HTotal].v - 40 - in[HActive].v)
		}
	case NonDSC:
		if v, ok := nonDSCFPS(in); ok {
			out[FPS] = v
		}
	}

	return out
}

// adjHTotal: vactive * htotal = adj_vactive * adj_htotal
func adjHTotal(in Inputs) (Value, bool) {
	if !in.Has(VActive, HTotal, AdjVActive) {
		return None, false
	}
	return finite(in[VActive].v * in[HTotal].v / in[AdjVActive].v)
}

func adjHBlank(in Inputs) (Value, bool) {
	if !in.Has(AdjHActive) {
		return None, false
	}
	total, ok := adjHTotal(in)
	if !ok {
		return None, false
	}
	return finite(total.v - in[AdjHActive].v)
}

func minimumHLine(in Inputs) (Value, bool) {
	if !in.Has(AdjHActive, HSync, HBP) {
		return None, false
	}
	sum := float32(hlineOverhead) + 3*in[AdjHActive].v + 4*in[HSync].v + 4*in[HBP].v
	return finite(float32(math.Ceil(float64(sum / 3))))
}

func minimumLaneRate(in Inputs) (Value, bool) {
	if !in.Has(TxVid, AdjHActive, HFP, HSync, HBP) {
		return None, false
	}
	total, ok := adjHTotal(in)
	if !ok {
		return None, false
	}

	line := float32(in[AdjHActive].v*3/4) + in[HFP].v + in[HSync].v + in[HBP].v
	rate := float32(line*float32(in[TxVid].v/total.v)) * 8 * 1.2
	if math.IsInf(float64(rate), 0) || math.IsNaN(float64(rate)) {
		return None, false
	}

	lane, err := CeilToSignificance(rate, LaneRateSignificance)
	if err != nil {
		return None, false
	}
	return Some(float32(lane)), true
}

func dscFPS(in Inputs) (Value, bool) {
	if !in.Has(TxVid, VTotal) {
		return None, false
	}
	total, ok := adjHTotal(in)
	if !ok {
		return None, false
	}
	lines := (in[VTotal].v - in[VActive].v) + in[AdjVActive].v
	return finite(in[TxVid].v * 1e6 / (total.v * lines))
}

func nonDSCFPS(in Inputs) (Value, bool) {
	if !in.Has(TxVid, HTotal, VTotal) {
		return None, false
	}
	return finite(in[TxVid].v * 1e6 / (in[HTotal].v * in[VTotal].v))
}
