package autodiff

import "github.com/born-ml/quant/tensor"

// BackwardFunc computes the input gradient of a custom operation.
// It receives the ORIGINAL forward input and the upstream gradient, never
// the forward output.
type BackwardFunc func(x, dy *tensor.RawTensor) *tensor.RawTensor

// CustomOp pairs an arbitrary forward computation with an arbitrary backward
// rule. This is how discretization operators install their gradient
// estimators: the true derivative of a step function is zero almost
// everywhere, so the backward rule substitutes a surrogate.
type CustomOp struct {
	input    *tensor.RawTensor
	output   *tensor.RawTensor
	backward BackwardFunc
}

// NewCustomOp creates a CustomOp for an already-computed forward value.
func NewCustomOp(input, output *tensor.RawTensor, backward BackwardFunc) *CustomOp {
	return &CustomOp{
		input:    input,
		output:   output,
		backward: backward,
	}
}

// Backward invokes the custom gradient rule.
func (op *CustomOp) Backward(outputGrad *tensor.RawTensor) []*tensor.RawTensor {
	return []*tensor.RawTensor{op.backward(op.input, outputGrad)}
}

// Inputs returns the input tensors [x].
func (op *CustomOp) Inputs() []*tensor.RawTensor {
	return []*tensor.RawTensor{op.input}
}

// Output returns the forward output.
func (op *CustomOp) Output() *tensor.RawTensor {
	return op.output
}

// Custom computes forward(x) and registers backward as its gradient rule.
//
// The backward rule is installed per call, not stored on any object: each
// invocation records a fresh operation against the tape, so the same forward
// function can be used concurrently across tensors in one pass.
func Custom(tape *GradientTape, x *tensor.RawTensor,
	forward func(x *tensor.RawTensor) *tensor.RawTensor,
	backward BackwardFunc,
) *tensor.RawTensor {
	result := forward(x)
	tape.Record(NewCustomOp(x, result, backward))
	return result
}
