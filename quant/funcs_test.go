package quant_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/quant/quant"
	"github.com/born-ml/quant/tensor"
)

func callAndGrad(t *testing.T, q quant.Quantizer, x *tensor.RawTensor) (y, dx *tensor.RawTensor) {
	t.Helper()
	tape := recordingTape()
	y = q.Call(tape, x)
	grads := tape.Backward(y, nil)
	dx = grads[x]
	require.NotNil(t, dx, "no gradient reached the input")
	return y, dx
}

func TestSteSignValues(t *testing.T) {
	q := quant.NewSteSign(1)
	x := tensorF64(t, []float64{-2, -0.5, 0, 0.5, 2}, tensor.Shape{5})

	y := q.Call(recordingTape(), x)
	assert.Equal(t, []float64{-1, -1, 1, 1, 1}, values(y))
}

func TestSteSignGradientMask(t *testing.T) {
	q := quant.NewSteSign(1)
	x := tensorF64(t, []float64{-2, -0.5, 0.5, 2}, tensor.Shape{4})

	_, dx := callAndGrad(t, q, x)
	assert.Equal(t, []float64{0, 1, 1, 0}, values(dx))
}

func TestSteSignGradientBoundaryInclusive(t *testing.T) {
	q := quant.NewSteSign(1)
	x := tensorF64(t, []float64{-1, 1, -1.0001, 1.0001}, tensor.Shape{4})

	_, dx := callAndGrad(t, q, x)
	assert.Equal(t, []float64{1, 1, 0, 0}, values(dx))
}

func TestSteSignClipDisabled(t *testing.T) {
	q := quant.NewSteSign(0)
	x := tensorF64(t, []float64{-100, -1, 1, 100}, tensor.Shape{4})

	_, dx := callAndGrad(t, q, x)
	assert.Equal(t, []float64{1, 1, 1, 1}, values(dx))
}

func TestApproxSignGradient(t *testing.T) {
	q := quant.NewApproxSign()
	x := tensorF64(t, []float64{0, 0.5, -0.5, 1, 2}, tensor.Shape{5})

	y, dx := callAndGrad(t, q, x)
	assert.Equal(t, []float64{1, 1, -1, 1, 1}, values(y))

	// (1 - |x|) * 2 inside the unit interval, zero outside.
	want := []float64{2, 1, 1, 0, 0}
	for i, w := range want {
		assert.InDelta(t, w, dx.Float64At(i), 1e-12, "element %d", i)
	}
}

func TestSwishSignGradient(t *testing.T) {
	beta := 5.0
	q := quant.NewSwishSign(beta)
	x := tensorF64(t, []float64{0, 0.3, -0.3, 3}, tensor.Shape{4})

	_, dx := callAndGrad(t, q, x)
	for i, v := range values(x) {
		bx := beta * v
		want := beta * (2 - bx*math.Tanh(bx/2)) / (1 + math.Cosh(bx))
		assert.InDelta(t, want, dx.Float64At(i), 1e-9, "element %d", i)
	}

	// At zero the derivative is exactly beta.
	assert.InDelta(t, beta, dx.Float64At(0), 1e-12)
}

func TestSteHeavisideValues(t *testing.T) {
	q := quant.NewSteHeaviside(1)
	x := tensorF64(t, []float64{-1, 0, 0.001, 3}, tensor.Shape{4})

	y, dx := callAndGrad(t, q, x)
	assert.Equal(t, []float64{0, 0, 1, 1}, values(y))
	// |x| <= 1 passes gradient, including the -1 boundary.
	assert.Equal(t, []float64{1, 1, 1, 0}, values(dx))
}

func TestSteHeavisideGradientMask(t *testing.T) {
	q := quant.NewSteHeaviside(1)
	x := tensorF64(t, []float64{-2, -0.5, 0.5, 2}, tensor.Shape{4})

	_, dx := callAndGrad(t, q, x)
	assert.Equal(t, []float64{0, 1, 1, 0}, values(dx))
}

func TestSteTernValues(t *testing.T) {
	q := quant.NewSteTern(0.1, false, 1)
	x := tensorF64(t, []float64{-0.2, -0.05, 0.05, 0.2}, tensor.Shape{4})

	y := q.Call(recordingTape(), x)
	assert.Equal(t, []float64{-1, 0, 0, 1}, values(y))
}

func TestSteTernBoundaryBelongsToTheBands(t *testing.T) {
	q := quant.NewSteTern(0.1, false, 1)
	x := tensorF64(t, []float64{0.1, -0.1, 0.0999, -0.0999}, tensor.Shape{4})

	y := q.Call(recordingTape(), x)
	assert.Equal(t, []float64{1, -1, 0, 0}, values(y))
}

func TestSteTernLowerThreshold(t *testing.T) {
	q := quant.NewSteTern(0.05, false, 1)
	x := tensorF64(t, []float64{-0.2, -0.05, 0.05, 0.2}, tensor.Shape{4})

	y := q.Call(recordingTape(), x)
	assert.Equal(t, []float64{-1, -1, 1, 1}, values(y))
}

func TestSteTernGradientMask(t *testing.T) {
	q := quant.NewSteTern(0.05, false, 1)
	x := tensorF64(t, []float64{-2, -0.5, 0.5, 2}, tensor.Shape{4})

	_, dx := callAndGrad(t, q, x)
	assert.Equal(t, []float64{0, 1, 1, 0}, values(dx))
}

func TestSteTernTernaryWeightNetworks(t *testing.T) {
	q := quant.NewSteTern(0.05, true, 1)
	// mean(|x|) = 0.775, threshold = 0.5425: only the 1s survive.
	x := tensorF64(t, []float64{1, 1, 1, -0.1}, tensor.Shape{4})

	y := q.Call(recordingTape(), x)
	assert.Equal(t, []float64{1, 1, 1, 0}, values(y))
}

func TestMagnitudeAwareSignValues(t *testing.T) {
	q := quant.NewMagnitudeAwareSign(1)
	// Per-column scale: col0 = mean(0.1, 0.3) = 0.2, col1 = mean(0.2, 0.4) = 0.3.
	x := tensorF64(t, []float64{0.1, -0.2, 0.3, -0.4}, tensor.Shape{2, 2})

	y, dx := callAndGrad(t, q, x)
	want := []float64{0.2, -0.3, 0.2, -0.3}
	for i, w := range want {
		assert.InDelta(t, w, y.Float64At(i), 1e-9, "output %d", i)
	}

	// The scale is a constant in the backward pass, so the gradient is the
	// clipped identity times the scale.
	wantGrad := []float64{0.2, 0.3, 0.2, 0.3}
	for i, w := range wantGrad {
		assert.InDelta(t, w, dx.Float64At(i), 1e-9, "grad %d", i)
	}
}

func TestMagnitudeAwareSignScaleDetached(t *testing.T) {
	q := quant.NewMagnitudeAwareSign(1)
	// |x| > clip everywhere: gradient must be exactly zero even though the
	// scale depends on x.
	x := tensorF64(t, []float64{2, -3, 4, -5}, tensor.Shape{2, 2})

	_, dx := callAndGrad(t, q, x)
	assert.Equal(t, []float64{0, 0, 0, 0}, values(dx))
}
