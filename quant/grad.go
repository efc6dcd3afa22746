package quant

import (
	"math"

	"github.com/born-ml/quant/tensor"
)

// ClippedGradient computes the masked straight-through pass used by the STE
// family: dy where |x| <= clip, zero elsewhere. The boundary is inclusive.
//
// A clip of 0 or less disables clipping and returns dy unchanged: the true
// gradient of a discretization is zero or undefined almost everywhere, so
// gradient flow is approximated by treating the function as identity inside
// the trust region [-clip, clip] and as saturated outside it.
func ClippedGradient(x, dy *tensor.RawTensor, clip float64) *tensor.RawTensor {
	if clip <= 0 {
		return dy.Clone()
	}

	grad := tensor.ZerosLike(dy)
	for i := 0; i < x.NumElements(); i++ {
		if math.Abs(x.Float64At(i)) <= clip {
			grad.SetFloat64At(i, dy.Float64At(i))
		}
	}
	return grad
}
