package record

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BaSui01/restruct/schema"
)

func scenarioDescriptor(t *testing.T) *schema.Descriptor {
	t.Helper()
	desc, err := schema.New(
		schema.String("response"),
		schema.Enum("sentiment", "positive", "neutral", "negative").WithDefault("neutral"),
		schema.Boolean("requires_escalation"),
		schema.List("suggested_actions"),
		schema.Optional("escalation_reason"),
		schema.Integer("ticket_id"),
		schema.Float("confidence"),
	)
	require.NoError(t, err)
	return desc
}

func complete(overrides map[string]any) map[string]any {
	full := map[string]any{
		"response":            "",
		"sentiment":           "neutral",
		"requires_escalation": false,
		"suggested_actions":   []any{},
		"escalation_reason":   nil,
		"ticket_id":           int64(0),
		"confidence":          float64(0),
	}
	for k, v := range overrides {
		full[k] = v
	}
	return full
}

func TestValidator_Valid(t *testing.T) {
	v := NewValidator(scenarioDescriptor(t))

	rec, err := v.Validate(complete(map[string]any{
		"response":   "hello",
		"sentiment":  "positive",
		"ticket_id":  float64(42), // JSON numbers arrive as float64
		"confidence": 0.9,
	}))
	require.NoError(t, err)

	got, ok := rec.Get("ticket_id")
	require.True(t, ok)
	assert.Equal(t, int64(42), got, "integers canonicalize to int64")

	got, ok = rec.Get("confidence")
	require.True(t, ok)
	assert.Equal(t, 0.9, got)

	assert.Equal(t, "hello", rec.StringField("response"))
}

func TestValidator_TypeMismatches(t *testing.T) {
	v := NewValidator(scenarioDescriptor(t))

	tests := []struct {
		name      string
		overrides map[string]any
		errMsg    string
	}{
		{
			name:      "object in string field",
			overrides: map[string]any{"response": map[string]any{"nested": true}},
			errMsg:    "expected string",
		},
		{
			name:      "string in boolean field",
			overrides: map[string]any{"requires_escalation": "yes"},
			errMsg:    "expected boolean",
		},
		{
			name:      "fractional value in integer field",
			overrides: map[string]any{"ticket_id": 1.5},
			errMsg:    "expected integer",
		},
		{
			name:      "string in float field",
			overrides: map[string]any{"confidence": "0.9"},
			errMsg:    "expected number",
		},
		{
			name:      "scalar in list field",
			overrides: map[string]any{"suggested_actions": "call"},
			errMsg:    "expected list",
		},
		{
			name:      "value outside enum options",
			overrides: map[string]any{"sentiment": "positiv"},
			errMsg:    "not one of",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := v.Validate(complete(tt.overrides))
			require.Error(t, err)

			verrs, ok := err.(*ValidationErrors)
			require.True(t, ok)
			require.NotEmpty(t, verrs.Errors)
			assert.Contains(t, verrs.Errors[0].Message, tt.errMsg)
		})
	}
}

func TestValidator_MissingFieldRejected(t *testing.T) {
	v := NewValidator(scenarioDescriptor(t))
	full := complete(nil)
	delete(full, "confidence")

	_, err := v.Validate(full)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "confidence")
	assert.Contains(t, err.Error(), "missing")
}

func TestValidator_OptionalAcceptsAnything(t *testing.T) {
	v := NewValidator(scenarioDescriptor(t))

	for _, val := range []any{nil, "reason", float64(3), map[string]any{"k": "v"}} {
		rec, err := v.Validate(complete(map[string]any{"escalation_reason": val}))
		require.NoError(t, err)
		got, _ := rec.Get("escalation_reason")
		assert.Equal(t, val, got)
	}
}

func TestRecord_CloneIsIndependent(t *testing.T) {
	v := NewValidator(scenarioDescriptor(t))
	rec, err := v.Validate(complete(map[string]any{
		"suggested_actions": []any{"call", "email"},
	}))
	require.NoError(t, err)

	clone := rec.Clone()
	fields := clone.Fields()
	fields["suggested_actions"].([]any)[0] = "mutated"

	got, _ := rec.Get("suggested_actions")
	assert.Equal(t, []any{"call", "email"}, got)
	assert.True(t, rec.Equal(clone))
}

func TestRecord_MarshalJSONIsSchemaOrdered(t *testing.T) {
	desc, err := schema.New(
		schema.String("zeta"),
		schema.String("alpha"),
	)
	require.NoError(t, err)

	rec, err := NewValidator(desc).Validate(map[string]any{"zeta": "1", "alpha": "2"})
	require.NoError(t, err)

	data, err := rec.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `{"zeta":"1","alpha":"2"}`, string(data))
}
