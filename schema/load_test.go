package schema

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const descriptorYAML = `
fields:
  - name: response
    type: string
    default: ""
  - name: sentiment
    type: enum
    options: [positive, neutral, negative]
    default: neutral
  - name: requires_escalation
    type: boolean
  - name: confidence
    type: float
`

func TestParse_YAML(t *testing.T) {
	desc, err := Parse([]byte(descriptorYAML))
	require.NoError(t, err)
	assert.Equal(t, 4, desc.Len())

	f, ok := desc.Field("sentiment")
	require.True(t, ok)
	assert.Equal(t, []string{"positive", "neutral", "negative"}, f.Options)
	assert.Equal(t, "neutral", f.Default)
}

func TestParse_InvalidDescriptor(t *testing.T) {
	_, err := Parse([]byte("fields:\n  - name: a\n    type: nonsense\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown type tag")
}

func TestParseJSON(t *testing.T) {
	data := `{"fields": [
		{"name": "response", "type": "string"},
		{"name": "tags", "type": "list"}
	]}`
	desc, err := ParseJSON([]byte(data))
	require.NoError(t, err)
	assert.Equal(t, 2, desc.Len())
	assert.True(t, desc.Has("tags"))
}

func TestLoad_DispatchesOnExtension(t *testing.T) {
	dir := t.TempDir()

	yamlPath := filepath.Join(dir, "schema.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte(descriptorYAML), 0o644))
	desc, err := Load(yamlPath)
	require.NoError(t, err)
	assert.Equal(t, 4, desc.Len())

	jsonPath := filepath.Join(dir, "schema.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{"fields":[{"name":"a","type":"string"}]}`), 0o644))
	desc, err = Load(jsonPath)
	require.NoError(t, err)
	assert.Equal(t, 1, desc.Len())

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}
