package engine

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/BaSui01/restruct/record"
	"github.com/BaSui01/restruct/repair"
	"github.com/BaSui01/restruct/schema"
)

// Fragment dispositions reported to the metrics recorder.
const (
	DispositionAccumulated = "accumulated"
	DispositionIgnored     = "ignored"
	DispositionSwitched    = "switched"
)

// Recorder receives engine counters. internal/metrics provides the
// Prometheus-backed implementation; a nil Recorder is never called.
type Recorder interface {
	FragmentObserved(disposition string)
	RepairFailed()
	ValidationFailed()
	RecordMerged()
	RecordEmitted()
}

// Engine reconstructs one structured record from a fragment stream. It owns
// all mutable state for the stream and must be driven from a single
// goroutine; see the package documentation for the threading contract.
type Engine struct {
	id        string
	desc      *schema.Descriptor
	validator *record.Validator
	merger    *record.Merger
	filter    channelFilter
	gate      emissionGate

	buf strings.Builder
	// lastPartial is the last successfully validated mapping snapshot.
	// Unioning each new parse into it keeps fields absent from a partial
	// view at their previously-known values.
	lastPartial map[string]any
	lastMerged  *record.Record
	lastValid   *record.Record

	logger  *zap.Logger
	metrics Recorder
}

// New constructs an Engine for the descriptor. An invalid or nil descriptor
// is the only error this package ever surfaces; everything at AddFragment
// time degrades to "no update" instead.
func New(desc *schema.Descriptor, opts ...Option) (*Engine, error) {
	if desc == nil {
		return nil, fmt.Errorf("engine: nil schema descriptor")
	}

	e := &Engine{
		id:        uuid.NewString(),
		desc:      desc,
		validator: record.NewValidator(desc),
		gate:      emissionGate{throttle: DefaultThrottleChars},
		logger:    zap.NewNop(),
	}

	var primaryCandidates []string
	for _, opt := range opts {
		opt(e, &primaryCandidates)
	}

	e.merger = record.NewMerger(desc, primaryCandidates)
	e.gate.primary = e.merger.PrimaryField()
	e.logger = e.logger.With(
		zap.String("component", "reconstruction_engine"),
		zap.String("engine_id", e.id),
	)
	return e, nil
}

// ID returns the engine's instance identifier, carried in its log fields.
func (e *Engine) ID() string {
	return e.id
}

// AddFragment feeds one fragment through the reconstruction pipeline and
// returns the record to emit, or nil when this fragment produced no
// surfaced update. It never fails on malformed input.
func (e *Engine) AddFragment(f Fragment) *record.Record {
	if f == nil {
		return nil
	}

	switch e.filter.apply(f.Meta()) {
	case channelIgnore:
		e.observe(DispositionIgnored)
		e.logger.Debug("fragment ignored",
			zap.String("channel", f.Meta().Channel),
			zap.String("subchannel", f.Meta().Subchannel))
		return nil
	case channelSwitch:
		e.observe(DispositionSwitched)
		e.logger.Debug("channel switch, buffer reset",
			zap.String("channel", f.Meta().Channel))
		e.resetStream()
	default:
		e.observe(DispositionAccumulated)
	}

	switch frag := f.(type) {
	case Text:
		return e.addText(frag.Content)
	case *Text:
		return e.addText(frag.Content)
	case Mapping:
		return e.advance(frag.Values)
	case *Mapping:
		return e.advance(frag.Values)
	case Typed:
		return e.addTyped(frag.Record)
	case *Typed:
		return e.addTyped(frag.Record)
	}
	return nil
}

func (e *Engine) addText(content string) *record.Record {
	if content == "" {
		return nil
	}
	e.buf.WriteString(content)

	partial, ok := repair.Repair(e.buf.String())
	if !ok {
		if e.metrics != nil {
			e.metrics.RepairFailed()
		}
		e.logger.Debug("buffer not yet repairable", zap.Int("buffer_len", e.buf.Len()))
		return nil
	}
	return e.advance(partial)
}

func (e *Engine) advance(partial map[string]any) *record.Record {
	combined := partial
	if len(e.lastPartial) > 0 {
		combined = make(map[string]any, len(e.lastPartial)+len(partial))
		for k, v := range e.lastPartial {
			combined[k] = v
		}
		for k, v := range partial {
			combined[k] = v
		}
	}

	full, ok := e.desc.Fill(combined)
	if !ok {
		return nil
	}

	rec, err := e.validator.Validate(full)
	if err != nil {
		if e.metrics != nil {
			e.metrics.ValidationFailed()
		}
		e.logger.Debug("validation failed", zap.Error(err))
		return nil
	}

	e.lastPartial = combined
	return e.mergeAndGate(rec)
}

func (e *Engine) addTyped(rec *record.Record) *record.Record {
	if rec == nil {
		return nil
	}
	// A record validated against a different descriptor is re-checked
	// against ours before merging.
	if rec.Descriptor() != e.desc {
		return e.advance(rec.Fields())
	}
	return e.mergeAndGate(rec)
}

func (e *Engine) mergeAndGate(rec *record.Record) *record.Record {
	res := e.merger.Merge(e.lastMerged, rec)
	e.lastMerged = res.Record
	e.lastValid = res.Record
	if e.metrics != nil {
		e.metrics.RecordMerged()
	}
	if len(res.ChangedFields) > 0 {
		e.logger.Debug("record merged",
			zap.Strings("changed_fields", res.ChangedFields),
			zap.Bool("structural_change", res.StructuralChange))
	}

	if !e.gate.consider(res.Record) {
		return nil
	}
	if e.metrics != nil {
		e.metrics.RecordEmitted()
	}
	return res.Record.Clone()
}

// LastValid returns the most recently produced record regardless of whether
// it was emitted, or nil when none has been produced yet. Callers use it to
// flush the final state at stream end.
func (e *Engine) LastValid() *record.Record {
	return e.lastValid.Clone()
}

// Reset clears all state so the engine can be reused for a new session.
func (e *Engine) Reset() {
	e.resetStream()
	e.filter.reset()
	e.lastValid = nil
}

// resetStream clears the buffer and merge/emission bookkeeping. The
// caller-visible last-valid record is left alone: on a channel switch it
// stays available until a record from the new buffer replaces it.
func (e *Engine) resetStream() {
	e.buf.Reset()
	e.lastPartial = nil
	e.lastMerged = nil
	e.gate.reset()
}

func (e *Engine) observe(disposition string) {
	if e.metrics != nil {
		e.metrics.FragmentObserved(disposition)
	}
}
