package autodiff

import "github.com/born-ml/quant/tensor"

// AvgPool2DOp represents average pooling (stride 1, same padding).
//
// Backward pass: each input position receives 1/count of the gradient of
// every pooling window that covered it.
type AvgPool2DOp struct {
	input  *tensor.RawTensor
	output *tensor.RawTensor
	window int
}

// NewAvgPool2DOp creates a new AvgPool2DOp.
func NewAvgPool2DOp(x, output *tensor.RawTensor, window int) *AvgPool2DOp {
	return &AvgPool2DOp{
		input:  x,
		output: output,
		window: window,
	}
}

// Backward routes the gradient back through the pooling windows.
func (op *AvgPool2DOp) Backward(outputGrad *tensor.RawTensor) []*tensor.RawTensor {
	return []*tensor.RawTensor{tensor.AvgPool2DBackward(outputGrad, op.window)}
}

// Inputs returns the input tensors [x].
func (op *AvgPool2DOp) Inputs() []*tensor.RawTensor {
	return []*tensor.RawTensor{op.input}
}

// Output returns the pooled tensor.
func (op *AvgPool2DOp) Output() *tensor.RawTensor {
	return op.output
}

// AvgPool2D performs average pooling with a window×window kernel (stride 1,
// same padding) and records the operation.
func AvgPool2D(tape *GradientTape, x *tensor.RawTensor, window int) *tensor.RawTensor {
	result := tensor.AvgPool2D(x, window)
	tape.Record(NewAvgPool2DOp(x, result, window))
	return result
}
