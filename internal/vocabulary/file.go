package vocabulary

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadFile decodes a YAML vocabulary file and merges it over the builtin
// vocabulary.
func LoadFile(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read vocabulary %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes YAML vocabulary bytes and merges them over the builtin
// vocabulary.
func Parse(data []byte) (*Snapshot, error) {
	var override Snapshot
	if err := yaml.Unmarshal(data, &override); err != nil {
		return nil, fmt.Errorf("parse vocabulary: %w", err)
	}
	merged := Merge(Builtin(), &override)
	if err := merged.Validate(); err != nil {
		return nil, fmt.Errorf("invalid vocabulary: %w", err)
	}
	return merged, nil
}

// Encode renders a snapshot as YAML.
func Encode(s *Snapshot) ([]byte, error) {
	return yaml.Marshal(s)
}
