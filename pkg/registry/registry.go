// pkg/registry/registry.go
package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"visual-mapper/internal/common/validation"
)

var sections = map[string]bool{"hero": true, "main": true, "footer": true}

func LoadRegistry(path string) (*ComponentRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var reg ComponentRegistry
	if err := json.Unmarshal(data, &reg); err != nil {
		return nil, fmt.Errorf("failed to parse registry %s: %w", path, err)
	}
	return &reg, nil
}

// SaveRegistry writes reg as indented JSON, creating the directory if needed.
func SaveRegistry(reg *ComponentRegistry, path string) error {
	data, err := json.MarshalIndent(reg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal registry: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write registry file: %w", err)
	}
	return nil
}

// Validate checks the structural rules of a registry and returns every
// problem found, sorted.
func (r *ComponentRegistry) Validate() []string {
	var problems []string
	if r.Version == "" {
		problems = append(problems, "registry missing required field: version")
	}
	if len(r.Components) == 0 {
		problems = append(problems, "registry contains no components")
	}

	names := make(map[string]bool, len(r.Components))
	for _, c := range r.Components {
		if c.Name == "" {
			problems = append(problems, "component missing required field: name")
			continue
		}
		if names[c.Name] {
			problems = append(problems, fmt.Sprintf("duplicate component name: %s", c.Name))
		}
		names[c.Name] = true

		if err := validation.ValidateComponentName(c.Name); err != nil {
			problems = append(problems, fmt.Sprintf("component %s: %v", c.Name, err))
		}
		if c.Category == "" {
			problems = append(problems, fmt.Sprintf("component %s missing required field: category", c.Name))
		}
		if !sections[c.Section] {
			problems = append(problems, fmt.Sprintf("component %s: unknown section %q", c.Name, c.Section))
		}
		if len(c.Terms) == 0 {
			problems = append(problems, fmt.Sprintf("component %s has no vocabulary terms", c.Name))
		}
	}
	sort.Strings(problems)
	return problems
}

// Find returns the component with the given name.
func (r *ComponentRegistry) Find(name string) (Component, bool) {
	for _, c := range r.Components {
		if c.Name == name {
			return c, true
		}
	}
	return Component{}, false
}
