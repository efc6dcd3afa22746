package autodiff

import "github.com/born-ml/quant/tensor"

// AbsOp represents the element-wise absolute value.
//
// Backward pass: d|x|/dx = sign(x), with the sign(0)=+1 convention used
// throughout this library.
type AbsOp struct {
	input  *tensor.RawTensor
	output *tensor.RawTensor
}

// NewAbsOp creates a new AbsOp.
func NewAbsOp(x, output *tensor.RawTensor) *AbsOp {
	return &AbsOp{
		input:  x,
		output: output,
	}
}

// Backward computes the input gradient: outputGrad * sign(x).
func (op *AbsOp) Backward(outputGrad *tensor.RawTensor) []*tensor.RawTensor {
	return []*tensor.RawTensor{tensor.Mul(outputGrad, tensor.Sign(op.input))}
}

// Inputs returns the input tensors [x].
func (op *AbsOp) Inputs() []*tensor.RawTensor {
	return []*tensor.RawTensor{op.input}
}

// Output returns the output tensor |x|.
func (op *AbsOp) Output() *tensor.RawTensor {
	return op.output
}

// Abs applies the element-wise absolute value and records the operation.
func Abs(tape *GradientTape, x *tensor.RawTensor) *tensor.RawTensor {
	result := tensor.Abs(x)
	tape.Record(NewAbsOp(x, result))
	return result
}
