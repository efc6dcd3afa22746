package autodiff

import "github.com/born-ml/quant/tensor"

// TanhOp represents the hyperbolic tangent activation.
//
// Backward pass: d(tanh(x))/dx = 1 - tanh²(x). The forward output is reused
// to avoid recomputing tanh.
type TanhOp struct {
	input  *tensor.RawTensor
	output *tensor.RawTensor
}

// NewTanhOp creates a new TanhOp.
func NewTanhOp(x, output *tensor.RawTensor) *TanhOp {
	return &TanhOp{
		input:  x,
		output: output,
	}
}

// Backward computes the input gradient: outputGrad * (1 - tanh²(x)).
func (op *TanhOp) Backward(outputGrad *tensor.RawTensor) []*tensor.RawTensor {
	y := op.output
	grad := tensor.ZerosLike(outputGrad)
	for i := 0; i < y.NumElements(); i++ {
		t := y.Float64At(i)
		grad.SetFloat64At(i, outputGrad.Float64At(i)*(1-t*t))
	}
	return []*tensor.RawTensor{grad}
}

// Inputs returns the input tensors [x].
func (op *TanhOp) Inputs() []*tensor.RawTensor {
	return []*tensor.RawTensor{op.input}
}

// Output returns the output tensor tanh(x).
func (op *TanhOp) Output() *tensor.RawTensor {
	return op.output
}

// Tanh applies the hyperbolic tangent and records the operation.
func Tanh(tape *GradientTape, x *tensor.RawTensor) *tensor.RawTensor {
	result := tensor.Tanh(x)
	tape.Record(NewTanhOp(x, result))
	return result
}
