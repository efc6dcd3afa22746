package quant

import (
	"math"

	"github.com/born-ml/quant/autodiff"
	"github.com/born-ml/quant/tensor"
)

// The free functions below are the (forward, backward) pairs the quantizer
// variants are built on. Each is registered through autodiff.Custom at the
// point of use: the backward rule receives the original input and the
// upstream gradient, never the forward output.

// SteSignFn computes sign(x) in {-1,+1} (sign(0) = +1) with the
// straight-through estimator: the backward pass is a clipped identity.
func SteSignFn(tape *autodiff.GradientTape, x *tensor.RawTensor, clipValue float64) *tensor.RawTensor {
	return autodiff.Custom(tape, x, tensor.Sign,
		func(x, dy *tensor.RawTensor) *tensor.RawTensor {
			return ClippedGradient(x, dy, clipValue)
		})
}

// ApproxSignFn computes sign(x) with the ApproxSign gradient:
// (1 - |x|) * 2 * dy where |x| <= 1, zero elsewhere.
func ApproxSignFn(tape *autodiff.GradientTape, x *tensor.RawTensor) *tensor.RawTensor {
	return autodiff.Custom(tape, x, tensor.Sign,
		func(x, dy *tensor.RawTensor) *tensor.RawTensor {
			grad := tensor.ZerosLike(dy)
			for i := 0; i < x.NumElements(); i++ {
				absX := math.Abs(x.Float64At(i))
				if absX <= 1 {
					grad.SetFloat64At(i, (1-absX)*2*dy.Float64At(i))
				}
			}
			return grad
		})
}

// SwishSignFn computes sign(x) with the SignSwish gradient:
// beta*(2 - b*x*tanh(b*x/2)) / (1 + cosh(b*x)) * dy.
func SwishSignFn(tape *autodiff.GradientTape, x *tensor.RawTensor, beta float64) *tensor.RawTensor {
	return autodiff.Custom(tape, x, tensor.Sign,
		func(x, dy *tensor.RawTensor) *tensor.RawTensor {
			grad := tensor.ZerosLike(dy)
			for i := 0; i < x.NumElements(); i++ {
				bx := beta * x.Float64At(i)
				g := beta * (2 - bx*math.Tanh(bx*0.5)) / (1 + math.Cosh(bx))
				grad.SetFloat64At(i, g*dy.Float64At(i))
			}
			return grad
		})
}

// SteHeavisideFn computes heaviside(x) in {0,+1} (0 maps to 0) with a
// clipped straight-through gradient.
func SteHeavisideFn(tape *autodiff.GradientTape, x *tensor.RawTensor, clipValue float64) *tensor.RawTensor {
	return autodiff.Custom(tape, x, tensor.Heaviside,
		func(x, dy *tensor.RawTensor) *tensor.RawTensor {
			return ClippedGradient(x, dy, clipValue)
		})
}

// SteTernFn ternarizes x into {-1,0,+1}: sign(sign(x+t) + sign(x-t)) with the
// raw sign convention (sign(0) = 0) in the inner terms, which resolves the
// boundaries as x >= t → +1 and x <= -t → -1.
//
// The threshold t is thresholdValue, or 0.7*mean(|x|) computed per call when
// ternaryWeightNetworks is set. The backward pass is a clipped identity.
func SteTernFn(tape *autodiff.GradientTape, x *tensor.RawTensor,
	thresholdValue float64, ternaryWeightNetworks bool, clipValue float64,
) *tensor.RawTensor {
	forward := func(x *tensor.RawTensor) *tensor.RawTensor {
		threshold := thresholdValue
		if ternaryWeightNetworks {
			threshold = 0.7 * tensor.MeanAbsAll(x)
		}

		out := tensor.ZerosLike(x)
		for i := 0; i < x.NumElements(); i++ {
			switch v := x.Float64At(i); {
			case v >= threshold:
				out.SetFloat64At(i, 1)
			case v <= -threshold:
				out.SetFloat64At(i, -1)
			}
		}
		return out
	}

	return autodiff.Custom(tape, x, forward,
		func(x, dy *tensor.RawTensor) *tensor.RawTensor {
			return ClippedGradient(x, dy, clipValue)
		})
}
