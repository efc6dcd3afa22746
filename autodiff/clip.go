package autodiff

import "github.com/born-ml/quant/tensor"

// ClipOp represents value clipping: output = min(max(x, lo), hi).
//
// Backward pass: gradient passes through where the input was inside [lo, hi]
// (inclusive) and is blocked where the input saturated.
type ClipOp struct {
	input  *tensor.RawTensor
	output *tensor.RawTensor
	lo, hi float64
}

// NewClipOp creates a new ClipOp.
func NewClipOp(x, output *tensor.RawTensor, lo, hi float64) *ClipOp {
	return &ClipOp{
		input:  x,
		output: output,
		lo:     lo,
		hi:     hi,
	}
}

// Backward masks the gradient to the non-saturated region.
func (op *ClipOp) Backward(outputGrad *tensor.RawTensor) []*tensor.RawTensor {
	x := op.input
	grad := tensor.ZerosLike(outputGrad)
	for i := 0; i < x.NumElements(); i++ {
		if v := x.Float64At(i); v >= op.lo && v <= op.hi {
			grad.SetFloat64At(i, outputGrad.Float64At(i))
		}
	}
	return []*tensor.RawTensor{grad}
}

// Inputs returns the input tensors [x].
func (op *ClipOp) Inputs() []*tensor.RawTensor {
	return []*tensor.RawTensor{op.input}
}

// Output returns the clipped tensor.
func (op *ClipOp) Output() *tensor.RawTensor {
	return op.output
}

// Clip limits x to [lo, hi] and records the operation.
func Clip(tape *GradientTape, x *tensor.RawTensor, lo, hi float64) *tensor.RawTensor {
	result := tensor.Clip(x, lo, hi)
	tape.Record(NewClipOp(x, result, lo, hi))
	return result
}
