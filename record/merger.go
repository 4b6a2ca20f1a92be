package record

import (
	"reflect"
	"strings"

	"github.com/BaSui01/restruct/schema"
)

// DefaultPrimaryContentFields is the built-in ordered list of conventional
// names for the field holding the model's free-text output. The first schema
// field whose name appears here becomes the primary content field.
var DefaultPrimaryContentFields = []string{
	"response", "content", "answer", "text", "message", "output",
}

// MergeResult is the outcome of one merge step.
type MergeResult struct {
	// Record is the new effective record.
	Record *Record
	// ChangedFields lists the fields whose value differs from the previous
	// record, in schema order. A nil previous record marks every field.
	ChangedFields []string
	// StructuralChange reports whether any field other than the primary
	// content field changed.
	StructuralChange bool
}

// Merger combines a newly validated record with the previously produced one
// using field-type-aware rules: list fields grow monotonically, every other
// field takes the newest value.
type Merger struct {
	desc    *schema.Descriptor
	primary string
}

// NewMerger creates a Merger for records of desc. candidates is the ordered
// primary-content name list; nil falls back to DefaultPrimaryContentFields.
func NewMerger(desc *schema.Descriptor, candidates []string) *Merger {
	if candidates == nil {
		candidates = DefaultPrimaryContentFields
	}
	return &Merger{desc: desc, primary: pickPrimary(desc, candidates)}
}

// pickPrimary returns the first schema field (in declaration order) whose
// name is one of the candidates, or "" when the schema has none.
func pickPrimary(desc *schema.Descriptor, candidates []string) string {
	for _, f := range desc.Fields() {
		for _, c := range candidates {
			if f.Name == c {
				return f.Name
			}
		}
	}
	return ""
}

// PrimaryField returns the name of the primary content field, or "" when the
// schema has none (which disables emission throttling by content length).
func (m *Merger) PrimaryField() string {
	return m.primary
}

// Merge combines prev with next. With no previous record, next is the result
// outright. List fields never shrink and never drop previously-known
// elements; all other fields take next's value even when it differs.
func (m *Merger) Merge(prev, next *Record) MergeResult {
	if prev == nil {
		changed := make([]string, 0, m.desc.Len())
		for _, f := range m.desc.Fields() {
			changed = append(changed, f.Name)
		}
		return MergeResult{
			Record:           next,
			ChangedFields:    changed,
			StructuralChange: true,
		}
	}

	values := make(map[string]any, m.desc.Len())
	var changed []string
	structural := false

	for _, f := range m.desc.Fields() {
		prevVal := prev.values[f.Name]
		nextVal := next.values[f.Name]

		var merged any
		if f.Type == schema.TypeList {
			merged = mergeList(asList(prevVal), asList(nextVal))
		} else {
			merged = nextVal
		}
		values[f.Name] = merged

		if !reflect.DeepEqual(prevVal, merged) {
			changed = append(changed, f.Name)
			if f.Name != m.primary {
				structural = true
			}
		}
	}

	return MergeResult{
		Record:           &Record{desc: m.desc, values: values},
		ChangedFields:    changed,
		StructuralChange: structural,
	}
}

func asList(v any) []any {
	l, _ := v.([]any)
	return l
}

// mergeList grows a list field monotonically. The common case is a
// cumulative reparse of the same growing buffer: next then covers prev
// except that prev's final element may have been a truncated view of its
// completed value, so next replaces prev wholesale. Otherwise next is a
// non-cumulative partial view and only its genuinely new elements are
// appended; nothing previously known is dropped or reordered.
func mergeList(prev, next []any) []any {
	if len(next) >= len(prev) && coversPrefix(prev, next) {
		out := make([]any, len(next))
		copy(out, next)
		return out
	}

	out := make([]any, len(prev), len(prev)+len(next))
	copy(out, prev)
	for _, v := range next {
		if !containsValue(out, v) {
			out = append(out, v)
		}
	}
	return out
}

// coversPrefix reports whether next extends prev element for element,
// allowing the last element of prev to be a string prefix of its counterpart
// (the element that was still streaming when prev was parsed).
func coversPrefix(prev, next []any) bool {
	for i, p := range prev {
		if reflect.DeepEqual(p, next[i]) {
			continue
		}
		if i == len(prev)-1 && extendsString(p, next[i]) {
			continue
		}
		return false
	}
	return true
}

func extendsString(old, newer any) bool {
	os, ok1 := old.(string)
	ns, ok2 := newer.(string)
	return ok1 && ok2 && strings.HasPrefix(ns, os)
}

func containsValue(list []any, v any) bool {
	for _, e := range list {
		if reflect.DeepEqual(e, v) {
			return true
		}
	}
	return false
}
