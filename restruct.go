// Package restruct provides a top-level convenience entry point for
// incremental structured-output reconstruction.
//
// Usage:
//
//	desc := schema.MustNew(
//		schema.String("response"),
//		schema.Enum("sentiment", "positive", "neutral", "negative"),
//	)
//	eng, err := restruct.New(desc, restruct.WithThrottleChars(50))
//
// This is a thin wrapper around [engine.New]; both produce identical
// results. Use this package when you prefer the shorter import path, or when
// you want the Prometheus wiring that [WithPrometheus] adds on top of the
// engine options.
package restruct

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/BaSui01/restruct/engine"
	"github.com/BaSui01/restruct/internal/metrics"
	"github.com/BaSui01/restruct/schema"
)

// Option configures the engine created by [New].
type Option = engine.Option

// New creates a reconstruction engine for the descriptor.
func New(desc *schema.Descriptor, opts ...Option) (*engine.Engine, error) {
	return engine.New(desc, opts...)
}

// Re-export engine options so callers never need to import engine/ for the
// common path.

// WithThrottleChars sets the emission throttle in characters.
var WithThrottleChars = engine.WithThrottleChars

// WithTargetChannel selects the channel to reconstruct from a multiplexed
// stream.
var WithTargetChannel = engine.WithTargetChannel

// WithPrimaryContentFields overrides the primary-content candidate list.
var WithPrimaryContentFields = engine.WithPrimaryContentFields

// WithLogger sets a custom zap logger.
var WithLogger = engine.WithLogger

// WithPrometheus wires the engine's counters to a Prometheus registerer
// under the given namespace. A nil registerer uses the default one.
func WithPrometheus(namespace string, reg prometheus.Registerer, logger *zap.Logger) Option {
	return engine.WithRecorder(metrics.NewCollector(namespace, reg, logger))
}
