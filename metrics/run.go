package metrics

import (
	"sort"
	"sync"

	"github.com/google/uuid"
)

// Run aggregates named metric series over a training run.
//
// Each run carries a unique ID so exported summaries from different runs can
// be told apart when collected into the same sink.
type Run struct {
	id string

	mu     sync.Mutex
	series map[string][]float64
}

// NewRun creates an empty run with a fresh ID.
func NewRun() *Run {
	return &Run{
		id:     uuid.NewString(),
		series: make(map[string][]float64),
	}
}

// ID returns the run's unique identifier.
func (r *Run) ID() string {
	return r.id
}

// Record appends a value to the named series.
func (r *Run) Record(name string, value float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.series[name] = append(r.series[name], value)
}

// Series returns a copy of the named series, or nil if nothing was recorded.
func (r *Run) Series(name string) []float64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	values, ok := r.series[name]
	if !ok {
		return nil
	}
	return append([]float64(nil), values...)
}

// Summary returns the mean of every series, keyed by name.
func (r *Run) Summary() map[string]float64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	summary := make(map[string]float64, len(r.series))
	for name, values := range r.series {
		var sum float64
		for _, v := range values {
			sum += v
		}
		summary[name] = sum / float64(len(values))
	}
	return summary
}

// Names returns the recorded series names in sorted order.
func (r *Run) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	names := make([]string, 0, len(r.series))
	for name := range r.series {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
