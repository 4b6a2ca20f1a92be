package schema

import (
	"fmt"
	"math"
)

// FieldType is the type tag of a schema field.
type FieldType string

const (
	TypeString   FieldType = "string"
	TypeBoolean  FieldType = "boolean"
	TypeInteger  FieldType = "integer"
	TypeFloat    FieldType = "float"
	TypeList     FieldType = "list"
	TypeEnum     FieldType = "enum"
	TypeOptional FieldType = "optional"
)

// Field declares one schema field: its name, type tag, optional explicit
// default and, for enum fields, the allowed options in declaration order.
type Field struct {
	Name    string    `yaml:"name" json:"name"`
	Type    FieldType `yaml:"type" json:"type"`
	Default any       `yaml:"default,omitempty" json:"default,omitempty"`
	Options []string  `yaml:"options,omitempty" json:"options,omitempty"`
}

// String declares a string field.
func String(name string) Field {
	return Field{Name: name, Type: TypeString}
}

// Boolean declares a boolean field.
func Boolean(name string) Field {
	return Field{Name: name, Type: TypeBoolean}
}

// Integer declares an integer field.
func Integer(name string) Field {
	return Field{Name: name, Type: TypeInteger}
}

// Float declares a float field.
func Float(name string) Field {
	return Field{Name: name, Type: TypeFloat}
}

// List declares a list field.
func List(name string) Field {
	return Field{Name: name, Type: TypeList}
}

// Enum declares an enum field with its allowed options.
func Enum(name string, options ...string) Field {
	return Field{Name: name, Type: TypeEnum, Options: options}
}

// Optional declares an optional field (any value, defaults to null).
func Optional(name string) Field {
	return Field{Name: name, Type: TypeOptional}
}

// WithDefault sets an explicit default value and returns the field for
// chaining.
func (f Field) WithDefault(def any) Field {
	f.Default = def
	return f
}

// DefaultValue returns the field's explicit default when declared, otherwise
// a type-appropriate synthesized default: empty string, false, zero, empty
// list, null for optional fields, first option for enum fields.
func (f Field) DefaultValue() any {
	if f.Default != nil {
		return f.Default
	}
	switch f.Type {
	case TypeString:
		return ""
	case TypeBoolean:
		return false
	case TypeInteger:
		return int64(0)
	case TypeFloat:
		return float64(0)
	case TypeList:
		return []any{}
	case TypeEnum:
		if len(f.Options) > 0 {
			return f.Options[0]
		}
		return ""
	case TypeOptional:
		return nil
	}
	return nil
}

// Descriptor is an immutable, ordered schema definition. It is safe to share
// across engines without synchronization; nothing mutates it after New.
type Descriptor struct {
	fields []Field
	index  map[string]int
}

// New builds and validates a Descriptor. Invalid schemas (empty or duplicate
// field names, unknown type tags, enums without options, defaults that do
// not match the declared type) are programmer errors and fail here, never
// later at reconstruction time.
func New(fields ...Field) (*Descriptor, error) {
	if len(fields) == 0 {
		return nil, fmt.Errorf("schema: descriptor requires at least one field")
	}

	d := &Descriptor{
		fields: make([]Field, len(fields)),
		index:  make(map[string]int, len(fields)),
	}
	copy(d.fields, fields)

	for i, f := range d.fields {
		if f.Name == "" {
			return nil, fmt.Errorf("schema: field %d has an empty name", i)
		}
		if _, dup := d.index[f.Name]; dup {
			return nil, fmt.Errorf("schema: duplicate field name %q", f.Name)
		}
		if err := validateField(f); err != nil {
			return nil, err
		}
		d.index[f.Name] = i
	}
	return d, nil
}

// MustNew is New, panicking on error. Intended for static schemas in tests
// and examples.
func MustNew(fields ...Field) *Descriptor {
	d, err := New(fields...)
	if err != nil {
		panic(err)
	}
	return d
}

func validateField(f Field) error {
	switch f.Type {
	case TypeString, TypeBoolean, TypeInteger, TypeFloat, TypeList, TypeOptional:
	case TypeEnum:
		if len(f.Options) == 0 {
			return fmt.Errorf("schema: enum field %q has no options", f.Name)
		}
	default:
		return fmt.Errorf("schema: field %q has unknown type tag %q", f.Name, f.Type)
	}

	if f.Default == nil {
		return nil
	}
	if err := checkDefaultType(f); err != nil {
		return err
	}
	return nil
}

func checkDefaultType(f Field) error {
	switch f.Type {
	case TypeString:
		if _, ok := f.Default.(string); !ok {
			return fmt.Errorf("schema: string field %q has non-string default %T", f.Name, f.Default)
		}
	case TypeBoolean:
		if _, ok := f.Default.(bool); !ok {
			return fmt.Errorf("schema: boolean field %q has non-boolean default %T", f.Name, f.Default)
		}
	case TypeInteger:
		n, ok := asFloat(f.Default)
		if !ok || n != math.Trunc(n) {
			return fmt.Errorf("schema: integer field %q has non-integer default %v", f.Name, f.Default)
		}
	case TypeFloat:
		if _, ok := asFloat(f.Default); !ok {
			return fmt.Errorf("schema: float field %q has non-numeric default %v", f.Name, f.Default)
		}
	case TypeList:
		switch f.Default.(type) {
		case []any, []string:
		default:
			return fmt.Errorf("schema: list field %q has non-list default %T", f.Name, f.Default)
		}
	case TypeEnum:
		s, ok := f.Default.(string)
		if !ok {
			return fmt.Errorf("schema: enum field %q has non-string default %T", f.Name, f.Default)
		}
		found := false
		for _, opt := range f.Options {
			if opt == s {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("schema: enum field %q default %q is not an option", f.Name, s)
		}
	case TypeOptional:
		// Any default is acceptable for optional fields.
	}
	return nil
}

// asFloat widens the numeric representations produced by JSON and YAML
// decoding to float64.
func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case uint64:
		return float64(n), true
	}
	return 0, false
}

// Fields returns a copy of the ordered field list.
func (d *Descriptor) Fields() []Field {
	out := make([]Field, len(d.fields))
	copy(out, d.fields)
	return out
}

// Len returns the number of declared fields.
func (d *Descriptor) Len() int {
	return len(d.fields)
}

// Field returns the declaration for name.
func (d *Descriptor) Field(name string) (Field, bool) {
	i, ok := d.index[name]
	if !ok {
		return Field{}, false
	}
	return d.fields[i], true
}

// Has reports whether name is a declared field.
func (d *Descriptor) Has(name string) bool {
	_, ok := d.index[name]
	return ok
}
