package engine

import (
	"reflect"
	"unicode/utf8"

	"github.com/BaSui01/restruct/record"
)

// DefaultThrottleChars is the default minimum growth of the primary content
// field, in characters, between length-driven emissions.
const DefaultThrottleChars = 50

// emissionGate decides, after each successful merge, whether the new record
// is worth surfacing to the caller. It bounds the number of observable
// updates while guaranteeing that structural changes are never dropped.
type emissionGate struct {
	throttle int
	// primary is the primary content field name, "" when the schema has
	// none (which disables length throttling entirely).
	primary string

	lastEmitted *record.Record
	// lastLen is the primary content length, in runes, at the last emission.
	lastLen           int
	emittedSinceReset bool
}

// consider applies the emission rules in order: always emit the first
// successful merge since the last reset; emit when the primary content grew
// by at least the throttle size; emit when any non-primary field differs
// from the last emitted record; otherwise hold.
func (g *emissionGate) consider(merged *record.Record) bool {
	if !g.emittedSinceReset {
		g.mark(merged)
		return true
	}

	if g.primary != "" {
		grown := utf8.RuneCountInString(merged.StringField(g.primary)) - g.lastLen
		if grown >= g.throttle {
			g.mark(merged)
			return true
		}
	}

	if g.differsFromEmitted(merged) {
		g.mark(merged)
		return true
	}
	return false
}

// differsFromEmitted reports whether merged differs from the last emitted
// record in any field other than the primary content field. Without a
// primary field every structurally-valid change is eligible, so all fields
// count (field names are never empty, so nothing is skipped).
func (g *emissionGate) differsFromEmitted(merged *record.Record) bool {
	if g.lastEmitted == nil {
		return true
	}
	prev := g.lastEmitted.Fields()
	next := merged.Fields()
	for _, f := range merged.Descriptor().Fields() {
		if f.Name == g.primary {
			continue
		}
		if !reflect.DeepEqual(prev[f.Name], next[f.Name]) {
			return true
		}
	}
	return false
}

func (g *emissionGate) mark(merged *record.Record) {
	g.lastEmitted = merged.Clone()
	if g.primary != "" {
		g.lastLen = utf8.RuneCountInString(merged.StringField(g.primary))
	}
	g.emittedSinceReset = true
}

func (g *emissionGate) reset() {
	g.lastEmitted = nil
	g.lastLen = 0
	g.emittedSinceReset = false
}
