package autodiff

import "github.com/born-ml/quant/tensor"

// DivOp represents element-wise division: output = a / b.
//
// Backward pass:
//   - d(a/b)/da = 1/b
//   - d(a/b)/db = -a/b²
type DivOp struct {
	inputs []*tensor.RawTensor // [a, b]
	output *tensor.RawTensor   // a / b
}

// NewDivOp creates a new DivOp.
func NewDivOp(a, b, output *tensor.RawTensor) *DivOp {
	return &DivOp{
		inputs: []*tensor.RawTensor{a, b},
		output: output,
	}
}

// Backward computes input gradients for division.
func (op *DivOp) Backward(outputGrad *tensor.RawTensor) []*tensor.RawTensor {
	a, b := op.inputs[0], op.inputs[1]

	// grad_a = outputGrad / b
	gradA := tensor.Div(outputGrad, b)

	// grad_b = -outputGrad * a / b²
	gradB := tensor.Neg(tensor.Div(tensor.Mul(outputGrad, a), tensor.Mul(b, b)))

	return []*tensor.RawTensor{
		tensor.SumTo(gradA, a.Shape()),
		tensor.SumTo(gradB, b.Shape()),
	}
}

// Inputs returns the input tensors [a, b].
func (op *DivOp) Inputs() []*tensor.RawTensor {
	return op.inputs
}

// Output returns the output tensor a / b.
func (op *DivOp) Output() *tensor.RawTensor {
	return op.output
}

// Div performs element-wise division and records the operation.
func Div(tape *GradientTape, a, b *tensor.RawTensor) *tensor.RawTensor {
	result := tensor.Div(a, b)
	tape.Record(NewDivOp(a, b, result))
	return result
}
