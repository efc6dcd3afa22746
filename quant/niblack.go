package quant

import (
	"fmt"

	"github.com/born-ml/quant/autodiff"
	"github.com/born-ml/quant/tensor"
)

// Defaults for the local-threshold binarizers.
const (
	DefaultAdaptiveWindow = 3
	DefaultNiblackK       = -0.2

	// adaptiveEps keeps the local standard deviation differentiable at zero
	// variance and guards the Sauvola range divisor.
	adaptiveEps = 1e-9
)

// Niblack is the adaptive binarizer with Niblack's local threshold:
//
//	t(x) = mean(x) + k * std(x)
//	q(x) = sign(x - t(x))
//
// where mean and std are computed over a window×window neighborhood via
// average pooling (stride 1, same padding). The whole threshold chain stays
// on the tape; the final sign uses the straight-through estimator.
type Niblack struct {
	base
	window int
	k      float64
	sign   *SteSign
}

// NewNiblack creates a Niblack binarizer. The window must be positive and
// odd; k is typically negative (DefaultNiblackK).
func NewNiblack(window int, k float64) (*Niblack, error) {
	if window <= 0 || window%2 == 0 {
		return nil, fmt.Errorf("invalid window %d (must be positive and odd)", window)
	}
	return &Niblack{base: newBase("niblack"), window: window, k: k}, nil
}

// Build prepares the nested sign quantizer and instrumentation.
func (q *Niblack) Build(shape tensor.Shape) error {
	return q.buildOnce(shape, func(shape tensor.Shape) error {
		if len(shape) != 4 {
			return fmt.Errorf("expected 4D input [N,H,W,C], got shape %v", shape)
		}
		q.sign = NewSteSign(DefaultClipValue)
		return nil
	})
}

// Call binarizes x into {-1, +1} against the local Niblack threshold.
func (q *Niblack) Call(tape *autodiff.GradientTape, x *tensor.RawTensor) *tensor.RawTensor {
	mustBuild(q, x)

	mn, std := localStats(tape, x, q.window)
	threshold := autodiff.Add(tape, mn, autodiff.Affine(tape, std, q.k, 0))
	outputs := q.sign.Call(tape, autodiff.Sub(tape, x, threshold))
	return q.observe(outputs)
}

// localStats computes the windowed mean and standard deviation of x, both on
// the tape.
func localStats(tape *autodiff.GradientTape, x *tensor.RawTensor, window int) (mn, std *tensor.RawTensor) {
	mn = autodiff.AvgPool2D(tape, x, window)
	diff := autodiff.Sub(tape, x, mn)
	variance := autodiff.AvgPool2D(tape, autodiff.Mul(tape, diff, diff), window)
	std = autodiff.Sqrt(tape, autodiff.Affine(tape, variance, 1, adaptiveEps))
	return mn, std
}

// Precision returns 1.
func (q *Niblack) Precision() int {
	return 1
}

// Config returns the serializable constructor arguments.
func (q *Niblack) Config() Config {
	return Config{Name: "niblack", Args: map[string]any{"window": q.window, "k": q.k}}
}
