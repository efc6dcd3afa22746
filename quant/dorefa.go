package quant

import (
	"fmt"

	"github.com/born-ml/quant/autodiff"
	"github.com/born-ml/quant/tensor"
)

// DoReFa modes.
const (
	ModeActivations = "activations"
	ModeWeights     = "weights"
)

// DoReFa is the k-bit uniform quantizer from the DoReFa paper:
//
//	quantize_k(x) = round(x * n) / n,  n = 2^k - 1
//
// applied on the [0, 1] range with an identity backward gradient (the
// quantization step is not clipped; only the mode-specific preprocessing
// shapes the gradient).
//
// Activations mode hard-clips the input to [0, 1]. Weights mode soft-limits
// through tanh, norms by the gradient-detached maximum magnitude (a zero
// divisor norms nothing: all-zero weights stay zero), maps to [0, 1],
// quantizes and rescales to [-1, 1].
//
// Reference: "DoReFa-Net" (https://arxiv.org/abs/1606.06160).
type DoReFa struct {
	base
	kBit int
	mode string
}

// NewDoReFa creates a k-bit quantizer in the given mode. The mode is
// validated here and is immutable; an invalid mode is a construction error.
func NewDoReFa(kBit int, mode string) (*DoReFa, error) {
	if mode != ModeActivations && mode != ModeWeights {
		return nil, fmt.Errorf("invalid DoReFa quantizer mode %q, valid values are %q and %q",
			mode, ModeActivations, ModeWeights)
	}
	if kBit < 1 {
		return nil, fmt.Errorf("invalid DoReFa bit width %d (must be >= 1)", kBit)
	}
	return &DoReFa{base: newBase("dorefa"), kBit: kBit, mode: mode}, nil
}

// Build prepares instrumentation, if requested.
func (q *DoReFa) Build(shape tensor.Shape) error {
	return q.buildOnce(shape, nil)
}

// Call quantizes x to 2^kBit uniform levels.
func (q *DoReFa) Call(tape *autodiff.GradientTape, x *tensor.RawTensor) *tensor.RawTensor {
	mustBuild(q, x)

	var pre *tensor.RawTensor
	switch q.mode {
	case ModeActivations:
		pre = autodiff.Clip(tape, x, 0, 1)
	case ModeWeights:
		pre = q.weightPreprocess(tape, x)
	default:
		// Mode is validated at construction; re-validate in case it was
		// corrupted afterwards.
		panic(fmt.Sprintf("invalid DoReFa quantizer mode %q, valid values are %q and %q",
			q.mode, ModeActivations, ModeWeights))
	}

	n := float64(int(1)<<q.kBit - 1)
	outputs := autodiff.Custom(tape, pre,
		func(x *tensor.RawTensor) *tensor.RawTensor {
			return tensor.MulScalar(tensor.Round(tensor.MulScalar(x, n)), 1/n)
		},
		func(_, dy *tensor.RawTensor) *tensor.RawTensor {
			return dy.Clone() // Identity gradient: no clipping at all
		})

	// Scale weights from the [0, 1] quantization range back to [-1, 1].
	if q.mode == ModeWeights {
		outputs = autodiff.Affine(tape, outputs, 2, -1)
	}

	return q.observe(outputs)
}

// weightPreprocess soft-limits weights to [-1, 1] via tanh, norms them by the
// maximum magnitude so the full quantizable range is used, and shifts into
// [0, 1].
func (q *DoReFa) weightPreprocess(tape *autodiff.GradientTape, x *tensor.RawTensor) *tensor.RawTensor {
	limited := autodiff.Tanh(tape, x)

	// The divisor is computed off-tape: it must act as a constant in the
	// backward pass, otherwise the maximum element's gradient picks up a
	// spurious quotient-rule term.
	divisor := tensor.MaxAbsAll(limited)
	if divisor == 0 {
		// All weights are zero; nothing is normed.
		return autodiff.Affine(tape, limited, 0, 0.5)
	}
	return autodiff.Affine(tape, limited, 1/(2*divisor), 0.5)
}

// Precision returns the bit width k.
func (q *DoReFa) Precision() int {
	return q.kBit
}

// Mode returns the quantization mode.
func (q *DoReFa) Mode() string {
	return q.mode
}

// Config returns the serializable constructor arguments.
func (q *DoReFa) Config() Config {
	return Config{Name: "dorefa", Args: map[string]any{"k_bit": q.kBit, "mode": q.mode}}
}
