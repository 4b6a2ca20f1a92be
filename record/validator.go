package record

import (
	"fmt"
	"math"
	"strings"

	"github.com/BaSui01/restruct/schema"
)

// FieldError is a validation error located at a specific field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error implements the error interface.
func (e *FieldError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors collects every field violation found in one pass.
type ValidationErrors struct {
	Errors []FieldError `json:"errors"`
}

// Error implements the error interface.
func (e *ValidationErrors) Error() string {
	if len(e.Errors) == 0 {
		return "validation failed"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	msgs := make([]string, len(e.Errors))
	for i, err := range e.Errors {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("validation failed with %d errors: %s", len(e.Errors), strings.Join(msgs, "; "))
}

// Validator turns schema-complete mappings into Records. A validation
// failure means the mapping's runtime types do not satisfy the schema even
// after defaulting; the caller treats that as "no update this round".
type Validator struct {
	desc *schema.Descriptor
}

// NewValidator creates a Validator for the descriptor.
func NewValidator(desc *schema.Descriptor) *Validator {
	return &Validator{desc: desc}
}

// Validate checks every declared field of full against its type tag and
// returns the canonicalized Record, or a *ValidationErrors describing each
// violating field.
func (v *Validator) Validate(full map[string]any) (*Record, error) {
	values := make(map[string]any, v.desc.Len())
	var errs []FieldError

	for _, f := range v.desc.Fields() {
		raw, ok := full[f.Name]
		if !ok {
			errs = append(errs, FieldError{Field: f.Name, Message: "field is missing"})
			continue
		}
		val, err := canonicalize(f, raw)
		if err != nil {
			errs = append(errs, FieldError{Field: f.Name, Message: err.Error()})
			continue
		}
		values[f.Name] = val
	}

	if len(errs) > 0 {
		return nil, &ValidationErrors{Errors: errs}
	}
	return &Record{desc: v.desc, values: values}, nil
}

// canonicalize checks raw against the field's type tag and converts it to
// the canonical in-memory form.
func canonicalize(f schema.Field, raw any) (any, error) {
	switch f.Type {
	case schema.TypeString:
		s, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("expected string, got %T", raw)
		}
		return s, nil

	case schema.TypeBoolean:
		b, ok := raw.(bool)
		if !ok {
			return nil, fmt.Errorf("expected boolean, got %T", raw)
		}
		return b, nil

	case schema.TypeInteger:
		n, ok := toFloat(raw)
		if !ok {
			return nil, fmt.Errorf("expected integer, got %T", raw)
		}
		if n != math.Trunc(n) {
			return nil, fmt.Errorf("expected integer, got %v", n)
		}
		return int64(n), nil

	case schema.TypeFloat:
		n, ok := toFloat(raw)
		if !ok {
			return nil, fmt.Errorf("expected number, got %T", raw)
		}
		return n, nil

	case schema.TypeList:
		switch l := raw.(type) {
		case []any:
			return copyValue(l), nil
		case []string:
			out := make([]any, len(l))
			for i, s := range l {
				out[i] = s
			}
			return out, nil
		default:
			return nil, fmt.Errorf("expected list, got %T", raw)
		}

	case schema.TypeEnum:
		s, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("expected one of %v, got %T", f.Options, raw)
		}
		for _, opt := range f.Options {
			if opt == s {
				return s, nil
			}
		}
		return nil, fmt.Errorf("value %q is not one of %v", s, f.Options)

	case schema.TypeOptional:
		return copyValue(raw), nil
	}
	return nil, fmt.Errorf("unknown type tag %q", f.Type)
}

func toFloat(v any) (float64, bool) {
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
