package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_ValidDescriptor(t *testing.T) {
	desc, err := New(
		String("response"),
		Enum("sentiment", "positive", "neutral", "negative").WithDefault("neutral"),
		Boolean("requires_escalation"),
		Float("confidence"),
	)
	require.NoError(t, err)
	assert.Equal(t, 4, desc.Len())

	f, ok := desc.Field("sentiment")
	require.True(t, ok)
	assert.Equal(t, TypeEnum, f.Type)
	assert.Equal(t, "neutral", f.Default)

	assert.True(t, desc.Has("confidence"))
	assert.False(t, desc.Has("missing"))
}

func TestNew_ConstructionErrors(t *testing.T) {
	tests := []struct {
		name   string
		fields []Field
		errMsg string
	}{
		{
			name:   "no fields",
			fields: nil,
			errMsg: "at least one field",
		},
		{
			name:   "empty field name",
			fields: []Field{{Name: "", Type: TypeString}},
			errMsg: "empty name",
		},
		{
			name:   "duplicate field name",
			fields: []Field{String("a"), Boolean("a")},
			errMsg: "duplicate field name",
		},
		{
			name:   "unknown type tag",
			fields: []Field{{Name: "a", Type: "timestamp"}},
			errMsg: "unknown type tag",
		},
		{
			name:   "enum without options",
			fields: []Field{{Name: "a", Type: TypeEnum}},
			errMsg: "no options",
		},
		{
			name:   "string default of wrong type",
			fields: []Field{String("a").WithDefault(42)},
			errMsg: "non-string default",
		},
		{
			name:   "integer default with fraction",
			fields: []Field{Integer("a").WithDefault(1.5)},
			errMsg: "non-integer default",
		},
		{
			name:   "enum default outside options",
			fields: []Field{Enum("a", "x", "y").WithDefault("z")},
			errMsg: "not an option",
		},
		{
			name:   "list default of wrong type",
			fields: []Field{List("a").WithDefault("not a list")},
			errMsg: "non-list default",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.fields...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestField_DefaultValue(t *testing.T) {
	tests := []struct {
		name  string
		field Field
		want  any
	}{
		{"string", String("a"), ""},
		{"boolean", Boolean("a"), false},
		{"integer", Integer("a"), int64(0)},
		{"float", Float("a"), float64(0)},
		{"list", List("a"), []any{}},
		{"optional", Optional("a"), nil},
		{"enum first option", Enum("a", "x", "y"), "x"},
		{"explicit default wins", String("a").WithDefault("hello"), "hello"},
		{"explicit enum default", Enum("a", "x", "y").WithDefault("y"), "y"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.field.DefaultValue())
		})
	}
}

func TestDescriptor_Fill(t *testing.T) {
	desc := MustNew(
		String("response"),
		Enum("sentiment", "positive", "neutral", "negative").WithDefault("neutral"),
		Boolean("requires_escalation"),
		List("actions"),
		Optional("escalation_reason"),
	)

	t.Run("empty input yields no result", func(t *testing.T) {
		full, ok := desc.Fill(nil)
		assert.False(t, ok)
		assert.Nil(t, full)

		full, ok = desc.Fill(map[string]any{})
		assert.False(t, ok)
		assert.Nil(t, full)
	})

	t.Run("missing fields take defaults", func(t *testing.T) {
		full, ok := desc.Fill(map[string]any{"response": "hi"})
		require.True(t, ok)
		assert.Equal(t, map[string]any{
			"response":            "hi",
			"sentiment":           "neutral",
			"requires_escalation": false,
			"actions":             []any{},
			"escalation_reason":   nil,
		}, full)
	})

	t.Run("undeclared keys are dropped", func(t *testing.T) {
		full, ok := desc.Fill(map[string]any{"respon": nil, "response": "hi"})
		require.True(t, ok)
		assert.NotContains(t, full, "respon")
		assert.Equal(t, "hi", full["response"])
	})

	t.Run("present values pass through unchanged", func(t *testing.T) {
		full, ok := desc.Fill(map[string]any{
			"response":  "x",
			"sentiment": "positive",
			"actions":   []any{"call"},
		})
		require.True(t, ok)
		assert.Equal(t, "positive", full["sentiment"])
		assert.Equal(t, []any{"call"}, full["actions"])
	})
}

func TestMustNew_PanicsOnInvalid(t *testing.T) {
	assert.Panics(t, func() { MustNew() })
}
