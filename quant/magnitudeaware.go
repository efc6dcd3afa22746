package quant

import (
	"github.com/born-ml/quant/autodiff"
	"github.com/born-ml/quant/tensor"
)

// MagnitudeAwareSign is the scaled sign quantizer of Bi-Real Net §3.3:
//
//	q(x) = scale * sign_ste(x)
//
// where scale = mean(|x|) reduced over all axes except the last, held
// constant with respect to the gradient (the scale computation itself is
// detached from the graph).
//
// Reference: "Bi-Real Net" (https://arxiv.org/abs/1808.00278).
type MagnitudeAwareSign struct {
	base
	clipValue float64
}

// NewMagnitudeAwareSign creates a magnitude-aware sign quantizer. clipValue
// is the gradient clipping threshold of the inner sign; 0 or less disables
// clipping.
func NewMagnitudeAwareSign(clipValue float64) *MagnitudeAwareSign {
	return &MagnitudeAwareSign{base: newBase("magnitude_aware_sign"), clipValue: clipValue}
}

// Build prepares instrumentation, if requested.
func (q *MagnitudeAwareSign) Build(shape tensor.Shape) error {
	return q.buildOnce(shape, nil)
}

// Call computes scale * sign(x) with the scale detached from the gradient.
func (q *MagnitudeAwareSign) Call(tape *autodiff.GradientTape, x *tensor.RawTensor) *tensor.RawTensor {
	mustBuild(q, x)

	// Computed off-tape: no gradient flows through the scale.
	scale := tensor.MeanAbsExceptLast(x)

	outputs := autodiff.Mul(tape, SteSignFn(tape, x, q.clipValue), scale)
	return q.observe(outputs)
}

// Precision returns 1.
func (q *MagnitudeAwareSign) Precision() int {
	return 1
}

// Config returns the serializable constructor arguments.
func (q *MagnitudeAwareSign) Config() Config {
	return Config{Name: "magnitude_aware_sign", Args: map[string]any{"clip_value": q.clipValue}}
}
