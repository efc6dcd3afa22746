package quant

import (
	"fmt"

	"github.com/born-ml/quant/metrics"
)

// Get resolves an identifier to a quantizer instance. Accepted identifiers:
//
//   - string: an operator name, constructed with default arguments
//   - Config: a full constructor-argument record
//   - Quantizer: returned as is
//   - nil: returns nil (callers treat a nil quantizer as "no quantization")
//
// Each non-Quantizer identifier yields a fresh instance.
func Get(identifier any) (Quantizer, error) {
	switch v := identifier.(type) {
	case nil:
		return nil, nil
	case Quantizer:
		return v, nil
	case string:
		return FromConfig(Config{Name: v})
	case Config:
		return FromConfig(v)
	default:
		return nil, fmt.Errorf("cannot interpret quantization function identifier of type %T: %v", identifier, identifier)
	}
}

// metricsConfigurable is satisfied by every base-backed quantizer.
type metricsConfigurable interface {
	Metrics() []string
	SetMetrics([]string)
}

// GetKernelQuantizer resolves an identifier like Get and additionally
// attaches the ambient default metrics (see metrics.Scope) to instances that
// do not already carry an explicit metrics list. Weight quantizers resolved
// through this path therefore pick up flip-ratio instrumentation inside a
// metrics scope without per-instance wiring.
func GetKernelQuantizer(identifier any) (Quantizer, error) {
	q, err := Get(identifier)
	if err != nil || q == nil {
		return q, err
	}
	if mc, ok := q.(metricsConfigurable); ok && len(mc.Metrics()) == 0 {
		mc.SetMetrics(metrics.Defaults())
	}
	return q, nil
}
