package quant_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/quant/quant"
	"github.com/born-ml/quant/tensor"
)

func TestConfigJSONRoundTrip(t *testing.T) {
	orig := quant.NewSteSign(0.25).Config()

	data, err := orig.ToJSON()
	require.NoError(t, err)

	decoded, err := quant.ConfigFromJSON(data)
	require.NoError(t, err)
	assert.Equal(t, "ste_sign", decoded.Name)

	q, err := quant.FromConfig(decoded)
	require.NoError(t, err)

	sign, ok := q.(*quant.SteSign)
	require.True(t, ok)
	assert.Equal(t, 0.25, sign.ClipValue())
}

func TestConfigRoundTripAllVariants(t *testing.T) {
	shape := tensor.Shape{2, 4, 4, 3}
	for _, name := range quant.KnownQuantizers {
		orig, err := quant.Get(name)
		require.NoError(t, err, name)

		data, err := orig.Config().ToJSON()
		require.NoError(t, err, name)

		decoded, err := quant.ConfigFromJSON(data)
		require.NoError(t, err, name)

		rebuilt, err := quant.FromConfig(decoded)
		require.NoError(t, err, name)
		assert.Equal(t, orig.Config().Name, rebuilt.Config().Name, name)
		assert.Equal(t, orig.Precision(), rebuilt.Precision(), name)

		require.NoError(t, orig.Build(shape), name)
		require.NoError(t, rebuilt.Build(shape), name)
		if lab, ok := orig.(*quant.LAB); ok {
			// The convolution kernel is randomly initialized, so align the
			// learnable parameters before comparing outputs.
			copy(rebuilt.(*quant.LAB).Kernel().AsFloat32(), lab.Kernel().AsFloat32())
			copy(rebuilt.(*quant.LAB).Beta().AsFloat32(), lab.Beta().AsFloat32())
		}

		x := tensor.Randn(shape, tensor.Float32)
		assert.Equal(t, values(orig.Call(nil, x)), values(rebuilt.Call(nil, x)),
			"%s: rebuilt instance diverges from the original", name)
	}
}

func TestFromConfigDoReFaArgs(t *testing.T) {
	q, err := quant.FromConfig(quant.Config{
		Name: "dorefa",
		// Numbers as float64, the way a JSON round trip delivers them.
		Args: map[string]any{"k_bit": float64(3), "mode": "weights"},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, q.Precision())

	dorefa, ok := q.(*quant.DoReFa)
	require.True(t, ok)
	assert.Equal(t, quant.ModeWeights, dorefa.Mode())
}

func TestFromConfigDoReFaLongName(t *testing.T) {
	q, err := quant.FromConfig(quant.Config{Name: "DoReFa_Quantizer", Args: map[string]any{"k_bit": 2, "mode": "activations"}})
	require.NoError(t, err)
	assert.Equal(t, "dorefa", q.Config().Name)
}

func TestFromConfigInvalidDoReFaModePropagates(t *testing.T) {
	_, err := quant.FromConfig(quant.Config{Name: "dorefa", Args: map[string]any{"k_bit": 2, "mode": "bits"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid DoReFa quantizer mode")
}

func TestFromConfigSteTernDefaults(t *testing.T) {
	q, err := quant.FromConfig(quant.Config{Name: "ste_tern"})
	require.NoError(t, err)

	cfg := q.Config()
	assert.Equal(t, quant.DefaultTernThreshold, cfg.Args["threshold_value"])
	assert.Equal(t, false, cfg.Args["ternary_weight_networks"])
	assert.Equal(t, quant.DefaultClipValue, cfg.Args["clip_value"])
}

func TestFromConfigLABFixedBeta(t *testing.T) {
	q, err := quant.FromConfig(quant.Config{
		Name: "lab",
		Args: map[string]any{"trainable": false, "beta": 2.5},
	})
	require.NoError(t, err)

	lab, ok := q.(*quant.LAB)
	require.True(t, ok)
	assert.False(t, lab.BetaTrainable())
	assert.InDelta(t, 2.5, lab.Beta().Float64At(0), 1e-6)
}

func TestFromConfigUnknownName(t *testing.T) {
	_, err := quant.FromConfig(quant.Config{Name: "xnor_popcount"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown quantizer")
}

func TestFromConfigIsCaseInsensitive(t *testing.T) {
	for _, name := range []string{"Niblack", "SAUVOLA", "LAB"} {
		q, err := quant.Get(name)
		require.NoError(t, err, name)
		require.NotNil(t, q, name)
	}
}
