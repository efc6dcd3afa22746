package autodiff

import "github.com/born-ml/quant/tensor"

// AffineOp represents output = x*scale + shift with constant scalars.
// The constants are not graph nodes; gradient flows only to x.
//
// Backward pass: d(x*scale + shift)/dx = scale.
type AffineOp struct {
	input  *tensor.RawTensor
	output *tensor.RawTensor
	scale  float64
}

// NewAffineOp creates a new AffineOp.
func NewAffineOp(x, output *tensor.RawTensor, scale float64) *AffineOp {
	return &AffineOp{
		input:  x,
		output: output,
		scale:  scale,
	}
}

// Backward computes the input gradient: outputGrad * scale.
func (op *AffineOp) Backward(outputGrad *tensor.RawTensor) []*tensor.RawTensor {
	return []*tensor.RawTensor{tensor.MulScalar(outputGrad, op.scale)}
}

// Inputs returns the input tensors [x].
func (op *AffineOp) Inputs() []*tensor.RawTensor {
	return []*tensor.RawTensor{op.input}
}

// Output returns the output tensor.
func (op *AffineOp) Output() *tensor.RawTensor {
	return op.output
}

// Affine computes x*scale + shift and records the operation.
func Affine(tape *GradientTape, x *tensor.RawTensor, scale, shift float64) *tensor.RawTensor {
	result := tensor.AddScalar(tensor.MulScalar(x, scale), shift)
	tape.Record(NewAffineOp(x, result, scale))
	return result
}
