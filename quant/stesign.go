package quant

import (
	"github.com/born-ml/quant/autodiff"
	"github.com/born-ml/quant/tensor"
)

// DefaultClipValue is the default gradient-clipping threshold of the STE
// family.
const DefaultClipValue = 1.0

// SteSign is the binary quantizer
//
//	q(x) = -1 for x < 0, +1 for x >= 0
//
// with the straight-through estimator: the backward pass is an identity
// clipped to |x| <= clipValue.
//
// Reference: "Binarized Neural Networks" (https://arxiv.org/abs/1602.02830).
type SteSign struct {
	base
	clipValue float64
}

// NewSteSign creates a binary sign quantizer. clipValue is the gradient
// clipping threshold; 0 or less disables clipping.
func NewSteSign(clipValue float64) *SteSign {
	return &SteSign{base: newBase("ste_sign"), clipValue: clipValue}
}

// Build prepares instrumentation, if requested.
func (q *SteSign) Build(shape tensor.Shape) error {
	return q.buildOnce(shape, nil)
}

// Call binarizes x into {-1, +1}.
func (q *SteSign) Call(tape *autodiff.GradientTape, x *tensor.RawTensor) *tensor.RawTensor {
	mustBuild(q, x)
	return q.observe(SteSignFn(tape, x, q.clipValue))
}

// Precision returns 1.
func (q *SteSign) Precision() int {
	return 1
}

// ClipValue returns the gradient clipping threshold.
func (q *SteSign) ClipValue() float64 {
	return q.clipValue
}

// Config returns the serializable constructor arguments.
func (q *SteSign) Config() Config {
	return Config{Name: "ste_sign", Args: map[string]any{"clip_value": q.clipValue}}
}
