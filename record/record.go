package record

import (
	"bytes"
	"reflect"

	json "github.com/goccy/go-json"

	"github.com/BaSui01/restruct/schema"
)

// Record is a schema-validated, immutable record. Values are held in the
// canonical Go forms established by the Validator: string, bool, int64,
// float64, []any, and nil for unset optional fields.
type Record struct {
	desc   *schema.Descriptor
	values map[string]any
}

// Descriptor returns the schema this record conforms to.
func (r *Record) Descriptor() *schema.Descriptor {
	return r.desc
}

// Get returns the value of a declared field.
func (r *Record) Get(name string) (any, bool) {
	if !r.desc.Has(name) {
		return nil, false
	}
	return copyValue(r.values[name]), true
}

// StringField returns the field's value as a string, or "" when the field is
// not a string. Used by emission throttling on the primary content field.
func (r *Record) StringField(name string) string {
	s, _ := r.values[name].(string)
	return s
}

// Fields returns a copy of all field values keyed by name.
func (r *Record) Fields() map[string]any {
	out := make(map[string]any, len(r.values))
	for k, v := range r.values {
		out[k] = copyValue(v)
	}
	return out
}

// Clone returns an independent copy of the record.
func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}
	return &Record{desc: r.desc, values: r.Fields()}
}

// Equal reports whether both records hold the same values for every field.
func (r *Record) Equal(other *Record) bool {
	if r == nil || other == nil {
		return r == other
	}
	return reflect.DeepEqual(r.values, other.values)
}

// MarshalJSON serializes the record with fields in schema declaration order.
func (r *Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range r.desc.Fields() {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f.Name)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(r.values[f.Name])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// copyValue deep-copies the JSON-shaped values a record can hold.
func copyValue(v any) any {
	switch t := v.(type) {
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = copyValue(e)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = copyValue(e)
		}
		return out
	default:
		return v
	}
}
