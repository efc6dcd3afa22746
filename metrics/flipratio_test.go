package metrics_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/quant/metrics"
	"github.com/born-ml/quant/tensor"
)

func signs(t *testing.T, data []float64) *tensor.RawTensor {
	t.Helper()
	raw, err := tensor.FromFloat64(data, tensor.Shape{len(data)})
	require.NoError(t, err)
	return raw
}

func TestFlipRatioFirstUpdateSeeds(t *testing.T) {
	m := metrics.NewFlipRatio("flip_ratio/test")
	require.NoError(t, m.Build(tensor.Shape{4}))

	ratio := m.Update(signs(t, []float64{1, -1, 1, -1}))
	assert.Equal(t, 0.0, ratio)
	assert.Equal(t, 0, m.Steps())
	assert.Equal(t, 0.0, m.Mean())
}

func TestFlipRatioCountsFlips(t *testing.T) {
	m := metrics.NewFlipRatio("flip_ratio/test")
	require.NoError(t, m.Build(tensor.Shape{4}))

	m.Update(signs(t, []float64{1, -1, 1, -1}))

	ratio := m.Update(signs(t, []float64{1, 1, 1, -1}))
	assert.Equal(t, 0.25, ratio)

	ratio = m.Update(signs(t, []float64{-1, -1, -1, 1}))
	assert.Equal(t, 1.0, ratio)

	assert.Equal(t, 2, m.Steps())
	assert.InDelta(t, 0.625, m.Mean(), 1e-12)
}

func TestFlipRatioZeroCountsAsPositive(t *testing.T) {
	m := metrics.NewFlipRatio("flip_ratio/test")
	require.NoError(t, m.Build(tensor.Shape{2}))

	m.Update(signs(t, []float64{0, -1}))
	// 0 and +1 share a sign bucket, so only the second element flips.
	ratio := m.Update(signs(t, []float64{1, 1}))
	assert.Equal(t, 0.5, ratio)
}

func TestFlipRatioBuildShapeIsImmutable(t *testing.T) {
	m := metrics.NewFlipRatio("flip_ratio/test")
	require.NoError(t, m.Build(tensor.Shape{4}))
	require.NoError(t, m.Build(tensor.Shape{4})) // idempotent

	err := m.Build(tensor.Shape{8})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already built")
}

func TestFlipRatioUpdateBeforeBuildPanics(t *testing.T) {
	m := metrics.NewFlipRatio("flip_ratio/test")
	assert.Panics(t, func() {
		m.Update(signs(t, []float64{1}))
	})
}

func TestFlipRatioUpdateShapeMismatchPanics(t *testing.T) {
	m := metrics.NewFlipRatio("flip_ratio/test")
	require.NoError(t, m.Build(tensor.Shape{2}))
	assert.Panics(t, func() {
		m.Update(signs(t, []float64{1, -1, 1}))
	})
}

func TestFlipRatioReset(t *testing.T) {
	m := metrics.NewFlipRatio("flip_ratio/test")
	require.NoError(t, m.Build(tensor.Shape{2}))

	m.Update(signs(t, []float64{1, -1}))
	m.Update(signs(t, []float64{-1, 1}))
	require.Equal(t, 1, m.Steps())

	m.Reset()
	assert.Equal(t, 0, m.Steps())
	assert.Equal(t, 0.0, m.Mean())

	// The next update seeds again; the built shape survives the reset.
	assert.Equal(t, 0.0, m.Update(signs(t, []float64{1, 1})))
}
