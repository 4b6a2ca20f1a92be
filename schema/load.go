package schema

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// descriptorFile is the on-disk shape of a schema descriptor.
type descriptorFile struct {
	Fields []Field `yaml:"fields" json:"fields"`
}

// Parse builds a Descriptor from YAML bytes. JSON input also parses, YAML
// being a superset.
func Parse(data []byte) (*Descriptor, error) {
	var file descriptorFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("schema: parse descriptor: %w", err)
	}
	return New(file.Fields...)
}

// ParseJSON builds a Descriptor from JSON bytes.
func ParseJSON(data []byte) (*Descriptor, error) {
	var file descriptorFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("schema: parse descriptor: %w", err)
	}
	return New(file.Fields...)
}

// Load reads a descriptor from a YAML or JSON file, dispatching on the
// extension.
func Load(path string) (*Descriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("schema: read descriptor file: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return ParseJSON(data)
	default:
		return Parse(data)
	}
}
