package tensor

import "fmt"

// Add performs element-wise addition with NumPy-style broadcasting.
func Add(a, b *RawTensor) *RawTensor {
	return binaryOp("add", a, b,
		func(x, y float32) float32 { return x + y },
		func(x, y float64) float64 { return x + y })
}

// Sub performs element-wise subtraction with broadcasting.
func Sub(a, b *RawTensor) *RawTensor {
	return binaryOp("sub", a, b,
		func(x, y float32) float32 { return x - y },
		func(x, y float64) float64 { return x - y })
}

// Mul performs element-wise multiplication with broadcasting.
func Mul(a, b *RawTensor) *RawTensor {
	return binaryOp("mul", a, b,
		func(x, y float32) float32 { return x * y },
		func(x, y float64) float64 { return x * y })
}

// Div performs element-wise division with broadcasting.
func Div(a, b *RawTensor) *RawTensor {
	return binaryOp("div", a, b,
		func(x, y float32) float32 { return x / y },
		func(x, y float64) float64 { return x / y })
}

// binaryOp applies f element-wise over a and b with broadcasting.
func binaryOp(name string, a, b *RawTensor,
	f32 func(x, y float32) float32,
	f64 func(x, y float64) float64,
) *RawTensor {
	if a.DType() != b.DType() {
		panic(fmt.Sprintf("%s: dtype mismatch %s vs %s", name, a.DType(), b.DType()))
	}

	outShape, needsBroadcast, err := BroadcastShapes(a.Shape(), b.Shape())
	if err != nil {
		panic(fmt.Sprintf("%s: %v", name, err))
	}

	result, err := NewRaw(outShape, a.DType())
	if err != nil {
		panic(fmt.Sprintf("%s: failed to create result tensor: %v", name, err))
	}

	if !needsBroadcast {
		// Fast path: identical shapes, flat iteration.
		switch a.DType() {
		case Float32:
			ad, bd, rd := a.AsFloat32(), b.AsFloat32(), result.AsFloat32()
			for i := range rd {
				rd[i] = f32(ad[i], bd[i])
			}
		case Float64:
			ad, bd, rd := a.AsFloat64(), b.AsFloat64(), result.AsFloat64()
			for i := range rd {
				rd[i] = f64(ad[i], bd[i])
			}
		}
		return result
	}

	// Slow path: map every output index to the corresponding (possibly
	// repeated) input indices.
	n := outShape.NumElements()
	for i := 0; i < n; i++ {
		ai := broadcastIndex(i, outShape, a.Shape())
		bi := broadcastIndex(i, outShape, b.Shape())
		switch a.DType() {
		case Float32:
			result.AsFloat32()[i] = f32(a.AsFloat32()[ai], b.AsFloat32()[bi])
		case Float64:
			result.AsFloat64()[i] = f64(a.AsFloat64()[ai], b.AsFloat64()[bi])
		}
	}
	return result
}

// broadcastIndex maps a flat index into outShape to the flat index of the
// broadcast operand with shape inShape (right-aligned, size-1 dims repeat).
func broadcastIndex(flat int, outShape, inShape Shape) int {
	outStrides := outShape.ComputeStrides()
	inStrides := inShape.ComputeStrides()

	idx := 0
	offset := len(outShape) - len(inShape)
	for d := 0; d < len(outShape); d++ {
		coord := flat / outStrides[d] % outShape[d]
		inDim := d - offset
		if inDim < 0 {
			continue
		}
		if inShape[inDim] == 1 {
			continue
		}
		idx += coord * inStrides[inDim]
	}
	return idx
}

// Reshape returns a tensor with the same data and a new shape.
// The number of elements must match.
func Reshape(t *RawTensor, newShape Shape) *RawTensor {
	if t.NumElements() != newShape.NumElements() {
		panic(fmt.Sprintf("reshape: cannot reshape %v (%d elements) to %v (%d elements)",
			t.Shape(), t.NumElements(), newShape, newShape.NumElements()))
	}
	result := t.Clone()
	result.shape = newShape.Clone()
	result.stride = newShape.ComputeStrides()
	return result
}
