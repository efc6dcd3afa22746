package quant

import (
	"github.com/born-ml/quant/autodiff"
	"github.com/born-ml/quant/tensor"
)

// NoOp is a serializable identity quantizer.
//
// It never changes its input. It exists to tag a variable with a desired
// precision that downstream optimizer/metric logic recognizes, and to attach
// training metrics to an otherwise unquantized variable.
type NoOp struct {
	base
	precision int
}

// NewNoOp creates an identity quantizer tagged with the given precision.
// The precision has no mathematical effect.
func NewNoOp(precision int) *NoOp {
	return &NoOp{base: newBase("no_op"), precision: precision}
}

// Build prepares instrumentation, if requested.
func (q *NoOp) Build(shape tensor.Shape) error {
	return q.buildOnce(shape, nil)
}

// Call returns x unchanged.
func (q *NoOp) Call(_ *autodiff.GradientTape, x *tensor.RawTensor) *tensor.RawTensor {
	mustBuild(q, x)
	return q.observe(x)
}

// Precision returns the tag given at construction.
func (q *NoOp) Precision() int {
	return q.precision
}

// Config returns the serializable constructor arguments.
func (q *NoOp) Config() Config {
	return Config{Name: "no_op", Args: map[string]any{"precision": q.precision}}
}
