package autodiff

import "github.com/born-ml/quant/tensor"

// SqrtOp represents the element-wise square root.
//
// Backward pass: d(sqrt(x))/dx = 1 / (2*sqrt(x)). The forward output is
// reused as the denominator.
type SqrtOp struct {
	input  *tensor.RawTensor
	output *tensor.RawTensor
}

// NewSqrtOp creates a new SqrtOp.
func NewSqrtOp(x, output *tensor.RawTensor) *SqrtOp {
	return &SqrtOp{
		input:  x,
		output: output,
	}
}

// Backward computes the input gradient: outputGrad / (2*sqrt(x)).
func (op *SqrtOp) Backward(outputGrad *tensor.RawTensor) []*tensor.RawTensor {
	y := op.output
	grad := tensor.ZerosLike(outputGrad)
	for i := 0; i < y.NumElements(); i++ {
		if s := y.Float64At(i); s != 0 {
			grad.SetFloat64At(i, outputGrad.Float64At(i)/(2*s))
		}
	}
	return []*tensor.RawTensor{grad}
}

// Inputs returns the input tensors [x].
func (op *SqrtOp) Inputs() []*tensor.RawTensor {
	return []*tensor.RawTensor{op.input}
}

// Output returns the output tensor sqrt(x).
func (op *SqrtOp) Output() *tensor.RawTensor {
	return op.output
}

// Sqrt applies the element-wise square root and records the operation.
func Sqrt(tape *GradientTape, x *tensor.RawTensor) *tensor.RawTensor {
	result := tensor.Sqrt(x)
	tape.Record(NewSqrtOp(x, result))
	return result
}
