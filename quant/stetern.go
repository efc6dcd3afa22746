package quant

import (
	"github.com/born-ml/quant/autodiff"
	"github.com/born-ml/quant/tensor"
)

// DefaultTernThreshold is the default fixed ternarization threshold.
const DefaultTernThreshold = 0.05

// SteTern is the ternarization quantizer
//
//	q(x) = +1 for x >= t, 0 for -t < x < t, -1 for x <= -t
//
// where the threshold t is either fixed (thresholdValue) or computed per
// call as 0.7*mean(|x|) following the Ternary Weight Networks paper. The
// backward pass is a straight-through identity clipped to |x| <= clipValue.
//
// Reference: "Ternary Weight Networks" (https://arxiv.org/abs/1605.04711).
type SteTern struct {
	base
	thresholdValue        float64
	ternaryWeightNetworks bool
	clipValue             float64
}

// NewSteTern creates a ternarization quantizer.
func NewSteTern(thresholdValue float64, ternaryWeightNetworks bool, clipValue float64) *SteTern {
	return &SteTern{
		base:                  newBase("ste_tern"),
		thresholdValue:        thresholdValue,
		ternaryWeightNetworks: ternaryWeightNetworks,
		clipValue:             clipValue,
	}
}

// Build prepares instrumentation, if requested.
func (q *SteTern) Build(shape tensor.Shape) error {
	return q.buildOnce(shape, nil)
}

// Call ternarizes x into {-1, 0, +1}.
func (q *SteTern) Call(tape *autodiff.GradientTape, x *tensor.RawTensor) *tensor.RawTensor {
	mustBuild(q, x)
	return q.observe(SteTernFn(tape, x, q.thresholdValue, q.ternaryWeightNetworks, q.clipValue))
}

// Precision returns 2.
func (q *SteTern) Precision() int {
	return 2
}

// Config returns the serializable constructor arguments.
func (q *SteTern) Config() Config {
	return Config{Name: "ste_tern", Args: map[string]any{
		"threshold_value":         q.thresholdValue,
		"ternary_weight_networks": q.ternaryWeightNetworks,
		"clip_value":              q.clipValue,
	}}
}
