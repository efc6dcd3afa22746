package quant

import (
	"fmt"

	"github.com/born-ml/quant/autodiff"
	"github.com/born-ml/quant/tensor"
)

// DefaultSauvolaK is the default sensitivity of the Sauvola threshold.
const DefaultSauvolaK = 0.5

// Sauvola is the adaptive binarizer with Sauvola's local threshold:
//
//	t(x) = mean(x) * (1 + k*(std(x)/R - 1))
//	q(x) = sign(x - t(x))
//
// where R is the dynamic range of the local standard deviation, computed per
// call and held constant with respect to the gradient. Mean and std share the
// pooling chain with Niblack; the final sign uses the straight-through
// estimator.
type Sauvola struct {
	base
	window int
	k      float64
	sign   *SteSign
}

// NewSauvola creates a Sauvola binarizer. The window must be positive and
// odd; k is typically DefaultSauvolaK.
func NewSauvola(window int, k float64) (*Sauvola, error) {
	if window <= 0 || window%2 == 0 {
		return nil, fmt.Errorf("invalid window %d (must be positive and odd)", window)
	}
	return &Sauvola{base: newBase("sauvola"), window: window, k: k}, nil
}

// Build prepares the nested sign quantizer and instrumentation.
func (q *Sauvola) Build(shape tensor.Shape) error {
	return q.buildOnce(shape, func(shape tensor.Shape) error {
		if len(shape) != 4 {
			return fmt.Errorf("expected 4D input [N,H,W,C], got shape %v", shape)
		}
		q.sign = NewSteSign(DefaultClipValue)
		return nil
	})
}

// Call binarizes x into {-1, +1} against the local Sauvola threshold.
func (q *Sauvola) Call(tape *autodiff.GradientTape, x *tensor.RawTensor) *tensor.RawTensor {
	mustBuild(q, x)

	mn, std := localStats(tape, x, q.window)

	// The range R is a per-call constant: computed off-tape so the threshold
	// gradient treats it as fixed.
	r := tensor.MaxAbsAll(std)

	// t = mn * (k/R * std + (1 - k))
	threshold := autodiff.Mul(tape, mn, autodiff.Affine(tape, std, q.k/(r+adaptiveEps), 1-q.k))
	outputs := q.sign.Call(tape, autodiff.Sub(tape, x, threshold))
	return q.observe(outputs)
}

// Precision returns 1.
func (q *Sauvola) Precision() int {
	return 1
}

// Config returns the serializable constructor arguments.
func (q *Sauvola) Config() Config {
	return Config{Name: "sauvola", Args: map[string]any{"window": q.window, "k": q.k}}
}
