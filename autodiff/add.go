package autodiff

import "github.com/born-ml/quant/tensor"

// AddOp represents element-wise addition: output = a + b.
//
// Backward pass: gradient flows unchanged to both inputs, reduced over any
// broadcast dimensions.
type AddOp struct {
	inputs []*tensor.RawTensor // [a, b]
	output *tensor.RawTensor   // a + b
}

// NewAddOp creates a new AddOp.
func NewAddOp(a, b, output *tensor.RawTensor) *AddOp {
	return &AddOp{
		inputs: []*tensor.RawTensor{a, b},
		output: output,
	}
}

// Backward computes input gradients for addition.
func (op *AddOp) Backward(outputGrad *tensor.RawTensor) []*tensor.RawTensor {
	a, b := op.inputs[0], op.inputs[1]
	return []*tensor.RawTensor{
		tensor.SumTo(outputGrad, a.Shape()),
		tensor.SumTo(outputGrad, b.Shape()),
	}
}

// Inputs returns the input tensors [a, b].
func (op *AddOp) Inputs() []*tensor.RawTensor {
	return op.inputs
}

// Output returns the output tensor a + b.
func (op *AddOp) Output() *tensor.RawTensor {
	return op.output
}

// Add performs element-wise addition and records the operation.
func Add(tape *GradientTape, a, b *tensor.RawTensor) *tensor.RawTensor {
	result := tensor.Add(a, b)
	tape.Record(NewAddOp(a, b, result))
	return result
}
