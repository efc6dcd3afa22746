package quant

import (
	"github.com/born-ml/quant/autodiff"
	"github.com/born-ml/quant/tensor"
)

// ApproxSign is the binary quantizer with the ApproxSign gradient: a
// piecewise-linear approximation (2 - 2|x|) of the sign derivative inside
// |x| <= 1, zero outside. No free parameters.
//
// Reference: "Bi-Real Net" (https://arxiv.org/abs/1808.00278).
type ApproxSign struct {
	base
}

// NewApproxSign creates an ApproxSign quantizer.
func NewApproxSign() *ApproxSign {
	return &ApproxSign{base: newBase("approx_sign")}
}

// Build prepares instrumentation, if requested.
func (q *ApproxSign) Build(shape tensor.Shape) error {
	return q.buildOnce(shape, nil)
}

// Call binarizes x into {-1, +1}.
func (q *ApproxSign) Call(tape *autodiff.GradientTape, x *tensor.RawTensor) *tensor.RawTensor {
	mustBuild(q, x)
	return q.observe(ApproxSignFn(tape, x))
}

// Precision returns 1.
func (q *ApproxSign) Precision() int {
	return 1
}

// Config returns the serializable constructor arguments.
func (q *ApproxSign) Config() Config {
	return Config{Name: "approx_sign"}
}
