// Package autodiff implements reverse-mode automatic differentiation on a
// gradient tape.
//
// Operations are registered against the graph-building context explicitly:
// every differentiable function in this package takes the tape as its first
// argument, computes the forward value through the tensor package, and records
// an Operation when the tape is recording. Anything computed directly through
// the tensor package is off-tape and therefore detached from the gradient;
// that is the stop-gradient convention used throughout the quant operators.
//
// Custom pairs an arbitrary forward computation with an arbitrary backward
// rule; it is the combinator the quantization estimators are built on.
//
// Usage:
//
//	tape := autodiff.NewGradientTape()
//	tape.StartRecording()
//	y := autodiff.Mul(tape, x, x) // y = x²
//	grads := tape.Backward(y, nil)
//	fmt.Println(grads[x].AsFloat32()) // dy/dx = 2x
package autodiff

import "github.com/born-ml/quant/tensor"

// Operation represents a differentiable operation in the computation graph.
// Each operation records its inputs and output during the forward pass,
// and computes input gradients during the backward pass.
type Operation interface {
	// Backward computes gradients for inputs given the output gradient.
	// Returns a slice of gradients corresponding to each input tensor;
	// a nil entry means no gradient flows to that input.
	Backward(outputGrad *tensor.RawTensor) []*tensor.RawTensor

	// Inputs returns the input tensors for this operation.
	Inputs() []*tensor.RawTensor

	// Output returns the output tensor produced by this operation.
	Output() *tensor.RawTensor
}
