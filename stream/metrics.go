package stream

import (
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics are the counters maintained by a Processor.
type Metrics struct {
	// Items counts processed items by outcome.
	Items *prometheus.CounterVec

	// VerifySeconds observes the time spent on each item, expansion
	// included.
	VerifySeconds *prometheus.HistogramVec
}

// NewMetrics creates the processor metrics and registers them on reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		Items: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "fndsa",
				Subsystem: "stream",
				Name:      "items_total",
				Help:      "The number of verified items, by outcome.",
			},
			[]string{"outcome"},
		),
		VerifySeconds: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "fndsa",
				Subsystem: "stream",
				Name:      "verify_seconds",
				Help:      "The time to expand and verify one item, in seconds.",
				Buckets:   prometheus.ExponentialBuckets(1e-6, 2, 16),
			},
			[]string{"mode"},
		),
	}
	if reg == nil {
		return m, nil
	}
	for _, c := range []prometheus.Collector{m.Items, m.VerifySeconds} {
		if err := reg.Register(c); err != nil {
			return nil, errors.Wrap(err, "registering stream metrics")
		}
	}
	return m, nil
}
