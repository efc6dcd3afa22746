package tensor

import (
	"fmt"
	"math/rand"
)

// Zeros creates a tensor filled with zeros.
func Zeros(shape Shape, dtype DataType) *RawTensor {
	t, err := NewRaw(shape, dtype)
	if err != nil {
		panic(fmt.Sprintf("zeros: %v", err))
	}
	return t
}

// Ones creates a tensor filled with ones.
func Ones(shape Shape, dtype DataType) *RawTensor {
	return Full(shape, 1.0, dtype)
}

// Full creates a tensor filled with a specific value.
func Full(shape Shape, value float64, dtype DataType) *RawTensor {
	t, err := NewRaw(shape, dtype)
	if err != nil {
		panic(fmt.Sprintf("full: %v", err))
	}
	for i := 0; i < t.NumElements(); i++ {
		t.SetFloat64At(i, value)
	}
	return t
}

// Randn creates a tensor filled with random values from N(0, 1).
func Randn(shape Shape, dtype DataType) *RawTensor {
	t, err := NewRaw(shape, dtype)
	if err != nil {
		panic(fmt.Sprintf("randn: %v", err))
	}
	for i := 0; i < t.NumElements(); i++ {
		//nolint:gosec // math/rand for initialization, not security-critical
		t.SetFloat64At(i, rand.NormFloat64())
	}
	return t
}

// FromFloat32 creates a Float32 tensor from a Go slice.
// The data is copied.
func FromFloat32(data []float32, shape Shape) (*RawTensor, error) {
	if len(data) != shape.NumElements() {
		return nil, fmt.Errorf("data length %d does not match shape %v (%d elements)",
			len(data), shape, shape.NumElements())
	}
	t, err := NewRaw(shape, Float32)
	if err != nil {
		return nil, err
	}
	copy(t.AsFloat32(), data)
	return t, nil
}

// FromFloat64 creates a Float64 tensor from a Go slice.
// The data is copied.
func FromFloat64(data []float64, shape Shape) (*RawTensor, error) {
	if len(data) != shape.NumElements() {
		return nil, fmt.Errorf("data length %d does not match shape %v (%d elements)",
			len(data), shape, shape.NumElements())
	}
	t, err := NewRaw(shape, Float64)
	if err != nil {
		return nil, err
	}
	copy(t.AsFloat64(), data)
	return t, nil
}

// ZerosLike creates a zero tensor with the same shape and dtype as t.
func ZerosLike(t *RawTensor) *RawTensor {
	return Zeros(t.Shape(), t.DType())
}

// OnesLike creates a ones tensor with the same shape and dtype as t.
func OnesLike(t *RawTensor) *RawTensor {
	return Full(t.Shape(), 1.0, t.DType())
}
