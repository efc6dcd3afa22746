package quant

import (
	"github.com/born-ml/quant/autodiff"
	"github.com/born-ml/quant/tensor"
)

// SteHeaviside is the binarization quantizer with output values {0, +1}:
//
//	q(x) = +1 for x > 0, 0 for x <= 0
//
// with a straight-through gradient clipped to |x| <= clipValue.
type SteHeaviside struct {
	base
	clipValue float64
}

// NewSteHeaviside creates a heaviside quantizer. clipValue is the gradient
// clipping threshold; 0 or less disables clipping.
func NewSteHeaviside(clipValue float64) *SteHeaviside {
	return &SteHeaviside{base: newBase("ste_heaviside"), clipValue: clipValue}
}

// Build prepares instrumentation, if requested.
func (q *SteHeaviside) Build(shape tensor.Shape) error {
	return q.buildOnce(shape, nil)
}

// Call binarizes x into {0, +1}.
func (q *SteHeaviside) Call(tape *autodiff.GradientTape, x *tensor.RawTensor) *tensor.RawTensor {
	mustBuild(q, x)
	return q.observe(SteHeavisideFn(tape, x, q.clipValue))
}

// Precision returns 1.
func (q *SteHeaviside) Precision() int {
	return 1
}

// Config returns the serializable constructor arguments.
func (q *SteHeaviside) Config() Config {
	return Config{Name: "ste_heaviside", Args: map[string]any{"clip_value": q.clipValue}}
}
