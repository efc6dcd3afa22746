package tensor

import (
	"fmt"
	"math"
)

// SumAll sums all elements to a scalar (shape {}).
func SumAll(t *RawTensor) *RawTensor {
	result, err := NewRaw(Shape{}, t.DType())
	if err != nil {
		panic(fmt.Sprintf("sumall: %v", err))
	}

	var sum float64
	for i := 0; i < t.NumElements(); i++ {
		sum += t.Float64At(i)
	}
	result.SetFloat64At(0, sum)
	return result
}

// MeanAll returns the mean over all elements as a Go float.
func MeanAll(t *RawTensor) float64 {
	n := t.NumElements()
	if n == 0 {
		return 0
	}
	var sum float64
	for i := 0; i < n; i++ {
		sum += t.Float64At(i)
	}
	return sum / float64(n)
}

// MeanAbsAll returns the mean absolute value over all elements.
func MeanAbsAll(t *RawTensor) float64 {
	n := t.NumElements()
	if n == 0 {
		return 0
	}
	var sum float64
	for i := 0; i < n; i++ {
		sum += math.Abs(t.Float64At(i))
	}
	return sum / float64(n)
}

// MaxAbsAll returns the maximum absolute value over all elements.
func MaxAbsAll(t *RawTensor) float64 {
	var maxAbs float64
	for i := 0; i < t.NumElements(); i++ {
		if a := math.Abs(t.Float64At(i)); a > maxAbs {
			maxAbs = a
		}
	}
	return maxAbs
}

// MeanAbsExceptLast reduces mean(|x|) over all axes except the last.
// The result has shape [lastDim].
func MeanAbsExceptLast(t *RawTensor) *RawTensor {
	shape := t.Shape()
	if len(shape) == 0 {
		panic("meanabsexceptlast: scalar input has no last axis")
	}
	lastDim := shape[len(shape)-1]

	result, err := NewRaw(Shape{lastDim}, t.DType())
	if err != nil {
		panic(fmt.Sprintf("meanabsexceptlast: %v", err))
	}

	groups := t.NumElements() / lastDim
	sums := make([]float64, lastDim)
	for i := 0; i < t.NumElements(); i++ {
		sums[i%lastDim] += math.Abs(t.Float64At(i))
	}
	for c := 0; c < lastDim; c++ {
		result.SetFloat64At(c, sums[c]/float64(groups))
	}
	return result
}

// SumTo reduces t to targetShape by summing over broadcast dimensions.
// This inverts a broadcast: if a tensor of targetShape was broadcast to
// t.Shape() in the forward pass, SumTo maps the gradient back.
func SumTo(t *RawTensor, targetShape Shape) *RawTensor {
	if t.Shape().Equal(targetShape) {
		return t.Clone()
	}
	if len(targetShape) == 0 {
		return SumAll(t)
	}

	shape := t.Shape()
	result, err := NewRaw(targetShape, t.DType())
	if err != nil {
		panic(fmt.Sprintf("sumto: %v", err))
	}

	// Every source element accumulates into the target position it was
	// broadcast from (right-aligned index mapping, size-1 dims collapse).
	n := shape.NumElements()
	for i := 0; i < n; i++ {
		ti := broadcastIndex(i, shape, targetShape)
		result.SetFloat64At(ti, result.Float64At(ti)+t.Float64At(i))
	}
	return result
}
