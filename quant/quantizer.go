// Package quant implements quantization operators for low-bit neural-network
// training: differentiable functions that map continuous tensors to binary,
// ternary or k-bit discrete tensors, each paired with a surrogate gradient
// rule installed through the autodiff tape.
//
// Operators are used either by name through the registry:
//
//	q, err := quant.Get("ste_sign")
//	y := q.Call(tape, x)
//
// or constructed directly:
//
//	q := quant.NewSteSign(1.0)
//	y := q.Call(tape, x)
//
// Every operator preserves the input shape, contributes no trainable
// parameters to the host layer, and serializes to a plain Config record.
package quant

import (
	"fmt"
	"strconv"
	"sync"

	"github.com/born-ml/quant/autodiff"
	"github.com/born-ml/quant/metrics"
	"github.com/born-ml/quant/tensor"
)

// Quantizer is the capability interface every quantization operator
// implements.
//
// Call transforms an input tensor into a discretized tensor of the same
// shape, registering the operator's gradient rule against the tape. Build is
// invoked lazily with the first input shape and is idempotent; shape-derived
// sub-components (pooling windows, auxiliary convolutions, flip-ratio
// instrumentation) are allocated there and immutable afterwards.
type Quantizer interface {
	// Call discretizes x. The output shape always equals the input shape.
	Call(tape *autodiff.GradientTape, x *tensor.RawTensor) *tensor.RawTensor

	// Build prepares shape-dependent state. It runs at most once per
	// instance; later calls return the first call's result.
	Build(shape tensor.Shape) error

	// Precision is the declared output bit width. It is a tag consumed by
	// external optimizer/metric logic, not enforced numerically here.
	Precision() int

	// Name is the process-unique instance name.
	Name() string

	// Config returns the serializable constructor-argument record.
	Config() Config
}

// Per-basename instance counters. Concurrent construction serializes here so
// instance names stay unique within the process.
var (
	uidMu sync.Mutex
	uids  = make(map[string]int)
)

func uniqueName(baseName string) string {
	uidMu.Lock()
	defer uidMu.Unlock()
	uids[baseName]++
	return baseName + "_" + strconv.Itoa(uids[baseName])
}

// base carries the behavior shared by all operators: the unique instance
// name, the optional metrics list and the lazily-built flip-ratio
// instrumentation. Variants embed it (composition, not a class hierarchy).
type base struct {
	name        string
	metricNames []string

	once     sync.Once
	buildErr error
	flip     *metrics.FlipRatio
}

func newBase(baseName string) base {
	return base{name: uniqueName(baseName)}
}

// Name returns the process-unique instance name.
func (b *base) Name() string {
	return b.name
}

// Metrics returns the metrics requested for this operator.
func (b *base) Metrics() []string {
	return b.metricNames
}

// SetMetrics sets the requested metrics. Must be called before the first
// Build; the kernel-quantizer lookup uses it to attach ambient defaults.
func (b *base) SetMetrics(names []string) {
	b.metricNames = names
}

// FlipRatio returns the attached flip-ratio metric, or nil if none was
// requested.
func (b *base) FlipRatio() *metrics.FlipRatio {
	return b.flip
}

// buildOnce runs fn and the shared build work exactly once, even under
// concurrent first calls. fn may be nil for variants without shape-dependent
// state of their own.
func (b *base) buildOnce(shape tensor.Shape, fn func(tensor.Shape) error) error {
	b.once.Do(func() {
		if fn != nil {
			if err := fn(shape); err != nil {
				b.buildErr = err
				return
			}
		}
		b.buildErr = b.buildMetrics(shape)
	})
	return b.buildErr
}

func (b *base) buildMetrics(shape tensor.Shape) error {
	for _, name := range b.metricNames {
		if name != "flip_ratio" {
			return fmt.Errorf("%s: unknown metric %q, available metrics: %v", b.name, name, metrics.KnownMetrics)
		}
	}
	for _, name := range b.metricNames {
		if name == "flip_ratio" && b.flip == nil {
			b.flip = metrics.NewFlipRatio("flip_ratio/" + b.name)
			if err := b.flip.Build(shape); err != nil {
				return err
			}
		}
	}
	return nil
}

// observe feeds the discretized output to the attached instrumentation as a
// side channel. The returned tensor is always the argument, unaltered.
func (b *base) observe(outputs *tensor.RawTensor) *tensor.RawTensor {
	if b.flip != nil {
		b.flip.Update(outputs)
	}
	return outputs
}

// mustBuild runs the lazy build against the first observed input shape.
// Build failures abort the call: they indicate a misconfigured operator, not
// a recoverable condition.
func mustBuild(q Quantizer, x *tensor.RawTensor) {
	if err := q.Build(x.Shape()); err != nil {
		panic(fmt.Sprintf("%s: %v", q.Name(), err))
	}
}
