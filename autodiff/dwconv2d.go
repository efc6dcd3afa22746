package autodiff

import "github.com/born-ml/quant/tensor"

// DepthwiseConv2DOp represents a depthwise convolution (stride 1, same
// padding, kernel [kh, kw, C, M]).
//
// Backward pass computes gradients for both the input and the kernel, so a
// learnable kernel updates through the same tape walk.
type DepthwiseConv2DOp struct {
	inputs []*tensor.RawTensor // [x, kernel]
	output *tensor.RawTensor
}

// NewDepthwiseConv2DOp creates a new DepthwiseConv2DOp.
func NewDepthwiseConv2DOp(x, kernel, output *tensor.RawTensor) *DepthwiseConv2DOp {
	return &DepthwiseConv2DOp{
		inputs: []*tensor.RawTensor{x, kernel},
		output: output,
	}
}

// Backward computes gradients for [x, kernel].
func (op *DepthwiseConv2DOp) Backward(outputGrad *tensor.RawTensor) []*tensor.RawTensor {
	dx, dkernel := tensor.DepthwiseConv2DBackward(op.inputs[0], op.inputs[1], outputGrad)
	return []*tensor.RawTensor{dx, dkernel}
}

// Inputs returns the input tensors [x, kernel].
func (op *DepthwiseConv2DOp) Inputs() []*tensor.RawTensor {
	return op.inputs
}

// Output returns the convolved tensor.
func (op *DepthwiseConv2DOp) Output() *tensor.RawTensor {
	return op.output
}

// DepthwiseConv2D performs a depthwise convolution and records the operation.
func DepthwiseConv2D(tape *GradientTape, x, kernel *tensor.RawTensor) *tensor.RawTensor {
	result := tensor.DepthwiseConv2D(x, kernel)
	tape.Record(NewDepthwiseConv2DOp(x, kernel, result))
	return result
}
