package quant

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/born-ml/quant/autodiff"
	"github.com/born-ml/quant/tensor"
)

// labWindow is the spatial extent of the LAB context kernel.
const labWindow = 3

// LAB is a learnable adaptive binarizer. Each input channel is filtered by a
// learnable 3×3 depthwise kernel with two multiplier slots, producing two
// score maps per channel. The output is +1 where the second score wins and -1
// where the first does:
//
//	scores = depthwise_conv(x, kernel)          [N, H, W, 2, C]
//	q(x)   = argmax(beta * scores) mapped to {-1, +1}
//
// The backward pass differentiates the soft-argmax relaxation of the hard
// argmax: with p = softmax over the two score slots, the gradient into the
// scores is ±2*p0*p1*dy. The sharpness beta is a learnable scalar unless
// constructed with a fixed value.
//
// Unlike the pointwise quantizers, LAB holds trainable state (kernel and
// beta) that the host layer must register with its optimizer.
type LAB struct {
	base
	beta      *tensor.RawTensor // scalar, shape [1]
	betaFixed bool
	kernel    *tensor.RawTensor // [3, 3, C, 2]
	channels  int
}

// NewLAB creates a LAB quantizer with a learnable beta initialized to 1.
func NewLAB() *LAB {
	return &LAB{
		base: newBase("lab"),
		beta: tensor.Full(tensor.Shape{1}, 1.0, tensor.Float32),
	}
}

// NewLABWithBeta creates a LAB quantizer with a fixed sharpness beta.
func NewLABWithBeta(beta float64) *LAB {
	return &LAB{
		base:      newBase("lab"),
		beta:      tensor.Full(tensor.Shape{1}, beta, tensor.Float32),
		betaFixed: true,
	}
}

// Build validates the NHWC input shape and initializes the context kernel
// with Xavier-uniform values.
func (q *LAB) Build(shape tensor.Shape) error {
	return q.buildOnce(shape, func(shape tensor.Shape) error {
		if len(shape) != 4 {
			return fmt.Errorf("expected 4D input [N,H,W,C], got shape %v", shape)
		}
		q.channels = shape[3]
		q.kernel = xavierUniform(tensor.Shape{labWindow, labWindow, q.channels, 2})
		return nil
	})
}

func xavierUniform(shape tensor.Shape) *tensor.RawTensor {
	kh, kw, m := shape[0], shape[1], shape[3]
	fanIn := kh * kw
	fanOut := kh * kw * m
	bound := math.Sqrt(6.0 / float64(fanIn+fanOut))

	t := tensor.Zeros(shape, tensor.Float32)
	for i := 0; i < t.NumElements(); i++ {
		//nolint:gosec // math/rand for initialization, not security-critical
		t.SetFloat64At(i, (2*rand.Float64()-1)*bound)
	}
	return t
}

// Call binarizes x into {-1, +1} using the learned local context.
func (q *LAB) Call(tape *autodiff.GradientTape, x *tensor.RawTensor) *tensor.RawTensor {
	mustBuild(q, x)

	shape := x.Shape()
	n, h, w, c := shape[0], shape[1], shape[2], shape[3]
	if c != q.channels {
		panic(fmt.Sprintf("%s: built for %d channels, got input with %d", q.Name(), q.channels, c))
	}

	scores := autodiff.DepthwiseConv2D(tape, x, q.kernel)
	stacked := autodiff.Reshape(tape, scores, tensor.Shape{n, h, w, 2, c})
	scaled := autodiff.Mul(tape, stacked, q.beta)

	outputs := autodiff.Custom(tape, scaled, hardArgmaxSign, softArgmaxGrad)
	return q.observe(outputs)
}

// hardArgmaxSign collapses the two score slots of a [N,H,W,2,C] tensor into a
// [N,H,W,C] tensor of {-1, +1}: +1 where slot 1 wins, -1 otherwise.
func hardArgmaxSign(x *tensor.RawTensor) *tensor.RawTensor {
	shape := x.Shape()
	n, h, w, c := shape[0], shape[1], shape[2], shape[4]

	out := tensor.Zeros(tensor.Shape{n, h, w, c}, x.DType())
	pixels := n * h * w
	for p := 0; p < pixels; p++ {
		for ch := 0; ch < c; ch++ {
			x0 := x.Float64At((p*2+0)*c + ch)
			x1 := x.Float64At((p*2+1)*c + ch)
			if x1 > x0 {
				out.SetFloat64At(p*c+ch, 1)
			} else {
				out.SetFloat64At(p*c+ch, -1)
			}
		}
	}
	return out
}

// softArgmaxGrad is the gradient of the soft relaxation of hardArgmaxSign.
// With p1 = sigmoid(x1 - x0) the relaxed output is 2*p1 - 1, so the score
// gradients are dx1 = 2*p0*p1*dy and dx0 = -dx1.
func softArgmaxGrad(x, dy *tensor.RawTensor) *tensor.RawTensor {
	shape := x.Shape()
	n, h, w, c := shape[0], shape[1], shape[2], shape[4]

	grad := tensor.ZerosLike(x)
	pixels := n * h * w
	for p := 0; p < pixels; p++ {
		for ch := 0; ch < c; ch++ {
			i0 := (p*2+0)*c + ch
			i1 := (p*2+1)*c + ch
			p1 := 1 / (1 + math.Exp(x.Float64At(i0)-x.Float64At(i1)))
			g := 2 * p1 * (1 - p1) * dy.Float64At(p*c+ch)
			grad.SetFloat64At(i1, g)
			grad.SetFloat64At(i0, -g)
		}
	}
	return grad
}

// Beta returns the sharpness parameter (shape [1]). It participates in the
// tape and accumulates gradients unless the quantizer was built with a fixed
// beta.
func (q *LAB) Beta() *tensor.RawTensor {
	return q.beta
}

// BetaTrainable reports whether beta should be registered with an optimizer.
func (q *LAB) BetaTrainable() bool {
	return !q.betaFixed
}

// Kernel returns the learnable context kernel ([3, 3, C, 2]), or nil before
// the first Build.
func (q *LAB) Kernel() *tensor.RawTensor {
	return q.kernel
}

// Precision returns 1.
func (q *LAB) Precision() int {
	return 1
}

// Config returns the serializable constructor arguments.
func (q *LAB) Config() Config {
	return Config{Name: "lab", Args: map[string]any{
		"beta":      q.beta.Float64At(0),
		"trainable": !q.betaFixed,
	}}
}
