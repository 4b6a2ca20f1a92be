package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

// Collector holds the engine's Prometheus metrics. It implements the
// engine.Recorder interface.
type Collector struct {
	fragmentsTotal     *prometheus.CounterVec
	repairFailures     prometheus.Counter
	validationFailures prometheus.Counter
	mergesTotal        prometheus.Counter
	emissionsTotal     prometheus.Counter

	logger *zap.Logger
}

// NewCollector creates a Collector registered on reg; a nil reg uses the
// default registerer. Registering the same namespace twice on one registerer
// panics, as usual with promauto.
func NewCollector(namespace string, reg prometheus.Registerer, logger *zap.Logger) *Collector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	factory := promauto.With(reg)

	c := &Collector{
		logger: logger.With(zap.String("component", "metrics")),
	}

	c.fragmentsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fragments_total",
			Help:      "Fragments observed, by channel-filter disposition.",
		},
		[]string{"disposition"},
	)
	c.repairFailures = factory.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "repair_failures_total",
			Help:      "Text buffers that no repair heuristic could parse yet.",
		},
	)
	c.validationFailures = factory.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "validation_failures_total",
			Help:      "Parsed mappings rejected by schema validation.",
		},
	)
	c.mergesTotal = factory.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_merged_total",
			Help:      "Successful merges of a validated record.",
		},
	)
	c.emissionsTotal = factory.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_emitted_total",
			Help:      "Records surfaced to the caller by the emission gate.",
		},
	)

	c.logger.Debug("metrics collector initialized", zap.String("namespace", namespace))
	return c
}

// FragmentObserved counts one fragment by disposition.
func (c *Collector) FragmentObserved(disposition string) {
	c.fragmentsTotal.WithLabelValues(disposition).Inc()
}

// RepairFailed counts one unrepairable buffer state.
func (c *Collector) RepairFailed() {
	c.repairFailures.Inc()
}

// ValidationFailed counts one schema validation rejection.
func (c *Collector) ValidationFailed() {
	c.validationFailures.Inc()
}

// RecordMerged counts one successful merge.
func (c *Collector) RecordMerged() {
	c.mergesTotal.Inc()
}

// RecordEmitted counts one surfaced record.
func (c *Collector) RecordEmitted() {
	c.emissionsTotal.Inc()
}
