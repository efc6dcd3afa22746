package quant

import (
	"github.com/born-ml/quant/autodiff"
	"github.com/born-ml/quant/tensor"
)

// DefaultSwishBeta is the default sharpness of the SignSwish gradient.
const DefaultSwishBeta = 5.0

// SwishSign is the binary quantizer with the SignSwish gradient:
//
//	dq/dx = beta*(2 - beta*x*tanh(beta*x/2)) / (1 + cosh(beta*x))
//
// Larger beta approximates the sign derivative more closely.
//
// Reference: "BNN+: Improved Binary Network Training"
// (https://arxiv.org/abs/1812.11800).
type SwishSign struct {
	base
	beta float64
}

// NewSwishSign creates a SwishSign quantizer with the given beta.
func NewSwishSign(beta float64) *SwishSign {
	return &SwishSign{base: newBase("swish_sign"), beta: beta}
}

// Build prepares instrumentation, if requested.
func (q *SwishSign) Build(shape tensor.Shape) error {
	return q.buildOnce(shape, nil)
}

// Call binarizes x into {-1, +1}.
func (q *SwishSign) Call(tape *autodiff.GradientTape, x *tensor.RawTensor) *tensor.RawTensor {
	mustBuild(q, x)
	return q.observe(SwishSignFn(tape, x, q.beta))
}

// Precision returns 1.
func (q *SwishSign) Precision() int {
	return 1
}

// Config returns the serializable constructor arguments.
func (q *SwishSign) Config() Config {
	return Config{Name: "swish_sign", Args: map[string]any{"beta": q.beta}}
}
