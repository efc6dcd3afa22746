package quant_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/quant/quant"
	"github.com/born-ml/quant/tensor"
)

func TestDoReFaInvalidMode(t *testing.T) {
	_, err := quant.NewDoReFa(2, "gradients")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid DoReFa quantizer mode "gradients"`)
}

func TestDoReFaInvalidBitWidth(t *testing.T) {
	_, err := quant.NewDoReFa(0, quant.ModeActivations)
	require.Error(t, err)
}

func TestDoReFaActivations1Bit(t *testing.T) {
	q := mustDoReFa(t, 1, quant.ModeActivations)
	x := tensorF64(t, []float64{-0.3, 0.3, 0.6, 1.4}, tensor.Shape{4})

	y := q.Call(recordingTape(), x)
	assert.Equal(t, []float64{0, 0, 1, 1}, values(y))
}

func TestDoReFaActivations2BitLevels(t *testing.T) {
	q := mustDoReFa(t, 2, quant.ModeActivations)
	x := tensorF64(t, []float64{0, 0.2, 0.4, 0.9}, tensor.Shape{4})

	// n = 3: levels are multiples of 1/3.
	y := q.Call(recordingTape(), x)
	want := []float64{0, 1.0 / 3, 1.0 / 3, 1}
	for i, w := range want {
		assert.InDelta(t, w, y.Float64At(i), 1e-12, "element %d", i)
	}
}

func TestDoReFaActivationsGradientIsClipMask(t *testing.T) {
	q := mustDoReFa(t, 2, quant.ModeActivations)
	x := tensorF64(t, []float64{-0.5, 0.25, 0.75, 1.5}, tensor.Shape{4})

	_, dx := callAndGrad(t, q, x)
	// The quantization step has an identity gradient; only the [0, 1] clip
	// masks.
	assert.Equal(t, []float64{0, 1, 1, 0}, values(dx))
}

func TestDoReFaWeights(t *testing.T) {
	q := mustDoReFa(t, 2, quant.ModeWeights)
	x := tensorF64(t, []float64{-10, 0.1, 10}, tensor.Shape{3})

	// tanh ≈ [-1, 0.0997, 1], divisor ≈ 1, mapped to [0, 0.55, 1],
	// quantized at n=3 to [0, 2/3, 1] and rescaled to [-1, 1/3, 1].
	y := q.Call(recordingTape(), x)
	want := []float64{-1, 1.0 / 3, 1}
	for i, w := range want {
		assert.InDelta(t, w, y.Float64At(i), 1e-6, "element %d", i)
	}
}

func TestDoReFaWeightsRange(t *testing.T) {
	q := mustDoReFa(t, 3, quant.ModeWeights)
	x := tensor.Randn(tensor.Shape{64}, tensor.Float64)

	y := q.Call(recordingTape(), x)
	for i := 0; i < y.NumElements(); i++ {
		v := y.Float64At(i)
		assert.GreaterOrEqual(t, v, -1.0)
		assert.LessOrEqual(t, v, 1.0)

		// Values sit on the 2^k-1 grid after the [-1, 1] rescale.
		onGrid := (v + 1) / 2 * 7
		assert.InDelta(t, math.Round(onGrid), onGrid, 1e-5, "element %d = %v", i, v)
	}
}

func TestDoReFaWeightsAllZero(t *testing.T) {
	q := mustDoReFa(t, 2, quant.ModeWeights)
	x := tensorF64(t, []float64{0, 0, 0}, tensor.Shape{3})

	// With no magnitude to norm, everything maps to the midpoint 0.5 and
	// quantizes to a constant.
	y := q.Call(recordingTape(), x)
	first := y.Float64At(0)
	for i := 1; i < y.NumElements(); i++ {
		assert.Equal(t, first, y.Float64At(i))
	}
}

func TestDoReFaWeightsGradientFlows(t *testing.T) {
	q := mustDoReFa(t, 2, quant.ModeWeights)
	x := tensorF64(t, []float64{-0.5, 0.1, 0.4}, tensor.Shape{3})

	_, dx := callAndGrad(t, q, x)
	// Chain: 2 * (1/(2*divisor)) * (1 - tanh²(x)), nothing masked for small x.
	divisor := math.Tanh(0.5)
	for i, v := range values(x) {
		want := 2 * (1 / (2 * divisor)) * (1 - math.Pow(math.Tanh(v), 2))
		assert.InDelta(t, want, dx.Float64At(i), 1e-9, "element %d", i)
	}
}

func TestDoReFaConfig(t *testing.T) {
	q := mustDoReFa(t, 4, quant.ModeWeights)
	cfg := q.Config()
	assert.Equal(t, "dorefa", cfg.Name)
	assert.Equal(t, 4, cfg.Args["k_bit"])
	assert.Equal(t, quant.ModeWeights, cfg.Args["mode"])
	assert.Equal(t, quant.ModeWeights, q.Mode())
}
