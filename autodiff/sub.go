package autodiff

import "github.com/born-ml/quant/tensor"

// SubOp represents element-wise subtraction: output = a - b.
//
// Backward pass: d(a-b)/da = 1, d(a-b)/db = -1.
type SubOp struct {
	inputs []*tensor.RawTensor // [a, b]
	output *tensor.RawTensor   // a - b
}

// NewSubOp creates a new SubOp.
func NewSubOp(a, b, output *tensor.RawTensor) *SubOp {
	return &SubOp{
		inputs: []*tensor.RawTensor{a, b},
		output: output,
	}
}

// Backward computes input gradients for subtraction.
func (op *SubOp) Backward(outputGrad *tensor.RawTensor) []*tensor.RawTensor {
	a, b := op.inputs[0], op.inputs[1]
	return []*tensor.RawTensor{
		tensor.SumTo(outputGrad, a.Shape()),
		tensor.SumTo(tensor.Neg(outputGrad), b.Shape()),
	}
}

// Inputs returns the input tensors [a, b].
func (op *SubOp) Inputs() []*tensor.RawTensor {
	return op.inputs
}

// Output returns the output tensor a - b.
func (op *SubOp) Output() *tensor.RawTensor {
	return op.output
}

// Sub performs element-wise subtraction and records the operation.
func Sub(tape *GradientTape, a, b *tensor.RawTensor) *tensor.RawTensor {
	result := tensor.Sub(a, b)
	tape.Record(NewSubOp(a, b, result))
	return result
}
