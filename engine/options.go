package engine

import "go.uber.org/zap"

// Option configures an Engine at construction.
type Option func(e *Engine, primaryCandidates *[]string)

// WithThrottleChars sets the minimum growth of the primary content field, in
// characters, between length-driven emissions. Non-positive values emit on
// every growth.
func WithThrottleChars(n int) Option {
	return func(e *Engine, _ *[]string) {
		e.gate.throttle = n
	}
}

// WithTargetChannel sets the channel the engine reconstructs from when the
// fragment stream multiplexes several channels. Unset, only untagged
// fragments are accumulated.
func WithTargetChannel(name string) Option {
	return func(e *Engine, _ *[]string) {
		e.filter.target = name
	}
}

// WithPrimaryContentFields overrides the ordered candidate list used to pick
// the primary content field.
func WithPrimaryContentFields(names ...string) Option {
	return func(_ *Engine, primaryCandidates *[]string) {
		*primaryCandidates = names
	}
}

// WithLogger sets the zap logger. Defaults to a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine, _ *[]string) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r Recorder) Option {
	return func(e *Engine, _ *[]string) {
		e.metrics = r
	}
}
