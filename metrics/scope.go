package metrics

import (
	"fmt"
	"sync"
)

// KnownMetrics lists the metric names a quantizer can request.
var KnownMetrics = []string{"flip_ratio"}

var (
	scopeMu sync.Mutex
	scoped  [][]string
)

// Scope pushes a set of default training metrics and returns a restore
// function. Quantizers resolved through the kernel-quantizer lookup while the
// scope is active pick these up unless they were constructed with an explicit
// metrics list.
//
//	defer metrics.Scope("flip_ratio")()
func Scope(names ...string) func() {
	for _, name := range names {
		if !isKnown(name) {
			panic(fmt.Sprintf("unknown training metric %q, available metrics: %v", name, KnownMetrics))
		}
	}

	scopeMu.Lock()
	scoped = append(scoped, names)
	scopeMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			scopeMu.Lock()
			scoped = scoped[:len(scoped)-1]
			scopeMu.Unlock()
		})
	}
}

// Defaults returns the innermost active scope's metric names, or nil when no
// scope is active.
func Defaults() []string {
	scopeMu.Lock()
	defer scopeMu.Unlock()

	if len(scoped) == 0 {
		return nil
	}
	top := scoped[len(scoped)-1]
	return append([]string(nil), top...)
}

func isKnown(name string) bool {
	for _, known := range KnownMetrics {
		if name == known {
			return true
		}
	}
	return false
}
