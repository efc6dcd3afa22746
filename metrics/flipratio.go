// Package metrics provides training instrumentation for quantized layers.
//
// The flip ratio tracks how often the discretized sign of a tensor changes
// between successive forward passes: a high ratio early in training is
// expected, a high ratio late in training usually means the learning rate is
// too large for a binarized layer to settle.
package metrics

import (
	"fmt"
	"sync"

	"github.com/born-ml/quant/tensor"
)

// FlipRatio measures the fraction of elements whose sign changed since the
// previous update.
//
// The metric is shape-aware: Build must be called with the exact input shape
// before the first Update, and the shape is immutable thereafter. Updates are
// safe for concurrent use.
type FlipRatio struct {
	name string

	mu    sync.Mutex
	prev  []int8 // Signs from the previous update; nil until first update
	shape tensor.Shape
	built bool

	totalRatio float64
	steps      int
}

// NewFlipRatio creates a flip-ratio metric with the given name
// (conventionally "flip_ratio/<quantizer name>").
func NewFlipRatio(name string) *FlipRatio {
	return &FlipRatio{name: name}
}

// Name returns the metric name.
func (m *FlipRatio) Name() string {
	return m.name
}

// Build allocates sign storage for the given input shape.
// Calling Build twice with a different shape is an error.
func (m *FlipRatio) Build(shape tensor.Shape) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.built {
		if !m.shape.Equal(shape) {
			return fmt.Errorf("flip ratio %q already built for shape %v, got %v", m.name, m.shape, shape)
		}
		return nil
	}
	if err := shape.Validate(); err != nil {
		return fmt.Errorf("flip ratio %q: %w", m.name, err)
	}

	m.shape = shape.Clone()
	m.built = true
	return nil
}

// Update consumes the current discretized tensor and returns the fraction of
// elements whose sign differs from the previous update. The first update
// returns 0 and only seeds the stored signs.
func (m *FlipRatio) Update(t *tensor.RawTensor) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.built {
		panic(fmt.Sprintf("flip ratio %q: Update called before Build", m.name))
	}
	if !t.Shape().Equal(m.shape) {
		panic(fmt.Sprintf("flip ratio %q: shape %v does not match built shape %v", m.name, t.Shape(), m.shape))
	}

	n := t.NumElements()
	signs := make([]int8, n)
	for i := 0; i < n; i++ {
		if t.Float64At(i) < 0 {
			signs[i] = -1
		} else {
			signs[i] = 1
		}
	}

	if m.prev == nil {
		m.prev = signs
		return 0
	}

	flips := 0
	for i := 0; i < n; i++ {
		if signs[i] != m.prev[i] {
			flips++
		}
	}
	m.prev = signs

	ratio := float64(flips) / float64(n)
	m.totalRatio += ratio
	m.steps++
	return ratio
}

// Mean returns the mean flip ratio over all updates after the first.
func (m *FlipRatio) Mean() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.steps == 0 {
		return 0
	}
	return m.totalRatio / float64(m.steps)
}

// Steps returns the number of counted updates (the seeding update excluded).
func (m *FlipRatio) Steps() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.steps
}

// Reset clears the stored signs and counters. The built shape is kept.
func (m *FlipRatio) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prev = nil
	m.totalRatio = 0
	m.steps = 0
}
