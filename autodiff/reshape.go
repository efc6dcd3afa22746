package autodiff

import "github.com/born-ml/quant/tensor"

// ReshapeOp represents a shape change with unchanged data.
//
// Backward pass: the gradient is reshaped back to the input's shape. Without
// recording this operation, gradients would stop at the reshaped tensor and
// never reach the original.
type ReshapeOp struct {
	input  *tensor.RawTensor
	output *tensor.RawTensor
}

// NewReshapeOp creates a new ReshapeOp.
func NewReshapeOp(x, output *tensor.RawTensor) *ReshapeOp {
	return &ReshapeOp{
		input:  x,
		output: output,
	}
}

// Backward reshapes the gradient back to the input shape.
func (op *ReshapeOp) Backward(outputGrad *tensor.RawTensor) []*tensor.RawTensor {
	return []*tensor.RawTensor{tensor.Reshape(outputGrad, op.input.Shape())}
}

// Inputs returns the input tensors [x].
func (op *ReshapeOp) Inputs() []*tensor.RawTensor {
	return []*tensor.RawTensor{op.input}
}

// Output returns the reshaped tensor.
func (op *ReshapeOp) Output() *tensor.RawTensor {
	return op.output
}

// Reshape changes the tensor's shape and records the operation.
func Reshape(tape *GradientTape, x *tensor.RawTensor, newShape tensor.Shape) *tensor.RawTensor {
	result := tensor.Reshape(x, newShape)
	tape.Record(NewReshapeOp(x, result))
	return result
}
