package tensor

import (
	"fmt"
	"math"
)

// unaryOp applies f element-wise.
func unaryOp(name string, x *RawTensor, f func(v float64) float64) *RawTensor {
	result, err := NewRaw(x.Shape(), x.DType())
	if err != nil {
		panic(fmt.Sprintf("%s: %v", name, err))
	}

	switch x.DType() {
	case Float32:
		src := x.AsFloat32()
		dst := result.AsFloat32()
		for i, v := range src {
			dst[i] = float32(f(float64(v)))
		}
	case Float64:
		src := x.AsFloat64()
		dst := result.AsFloat64()
		for i, v := range src {
			dst[i] = f(v)
		}
	default:
		panic(fmt.Sprintf("%s: unsupported dtype %s", name, x.DType()))
	}

	return result
}

// Sign computes the element-wise sign with the binary convention sign(0) = +1.
// The output takes values in {-1, +1}.
func Sign(x *RawTensor) *RawTensor {
	return unaryOp("sign", x, func(v float64) float64 {
		if v < 0 {
			return -1
		}
		return 1
	})
}

// Heaviside computes the element-wise step function: 1 for x > 0, 0 otherwise.
func Heaviside(x *RawTensor) *RawTensor {
	return unaryOp("heaviside", x, func(v float64) float64 {
		if v > 0 {
			return 1
		}
		return 0
	})
}

// Neg computes element-wise negation.
func Neg(x *RawTensor) *RawTensor {
	return unaryOp("neg", x, func(v float64) float64 { return -v })
}

// Abs computes the element-wise absolute value.
func Abs(x *RawTensor) *RawTensor {
	return unaryOp("abs", x, math.Abs)
}

// Tanh computes the element-wise hyperbolic tangent.
func Tanh(x *RawTensor) *RawTensor {
	return unaryOp("tanh", x, math.Tanh)
}

// Sqrt computes the element-wise square root.
func Sqrt(x *RawTensor) *RawTensor {
	return unaryOp("sqrt", x, math.Sqrt)
}

// Round computes element-wise rounding half away from zero.
func Round(x *RawTensor) *RawTensor {
	return unaryOp("round", x, math.Round)
}

// Exp computes the element-wise exponential.
func Exp(x *RawTensor) *RawTensor {
	return unaryOp("exp", x, math.Exp)
}

// Clip limits values to the [min, max] range element-wise.
func Clip(x *RawTensor, min, max float64) *RawTensor {
	if min > max {
		panic(fmt.Sprintf("clip: min %v > max %v", min, max))
	}
	return unaryOp("clip", x, func(v float64) float64 {
		if v < min {
			return min
		}
		if v > max {
			return max
		}
		return v
	})
}

// AddScalar computes x + c element-wise.
func AddScalar(x *RawTensor, c float64) *RawTensor {
	return unaryOp("addscalar", x, func(v float64) float64 { return v + c })
}

// MulScalar computes x * c element-wise.
func MulScalar(x *RawTensor, c float64) *RawTensor {
	return unaryOp("mulscalar", x, func(v float64) float64 { return v * c })
}
