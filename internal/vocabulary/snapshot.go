// Package vocabulary provides the read-only term tables the scoring engine
// matches against: component terms, literal exact-match rules, context and
// position triggers and generic-penalty words.
package vocabulary

import (
	"fmt"
	"strings"

	"visual-mapper/internal/catalog"
	"visual-mapper/internal/common/validation"
)

// Component is one catalog entry together with its vocabulary terms.
type Component struct {
	Name        catalog.ComponentType `yaml:"name" json:"name"`
	Category    string                `yaml:"category,omitempty" json:"category,omitempty"`
	Description string                `yaml:"description,omitempty" json:"description,omitempty"`
	Terms       []string              `yaml:"terms" json:"terms"`
}

// ExactRule maps a literal key to a component type. Rules are evaluated in
// order.
type ExactRule struct {
	Key       string                `yaml:"key" json:"key"`
	Component catalog.ComponentType `yaml:"component" json:"component"`
}

// Snapshot is an immutable, versioned view of the vocabulary. Callers must
// not modify a snapshot after it has been handed to the mapper.
type Snapshot struct {
	Version          string                             `yaml:"version" json:"version"`
	Components       []Component                        `yaml:"components" json:"components"`
	ExactRules       []ExactRule                        `yaml:"exact_rules" json:"exact_rules"`
	ContextTriggers  map[catalog.ComponentType][]string `yaml:"context_triggers" json:"context_triggers"`
	PositionTriggers map[catalog.Section][]string       `yaml:"position_triggers" json:"position_triggers"`
	PositionKeywords []string                           `yaml:"position_keywords" json:"position_keywords"`
	GenericTerms     []string                           `yaml:"generic_terms" json:"generic_terms"`
}

// Types returns the component types in snapshot order.
func (s *Snapshot) Types() []catalog.ComponentType {
	out := make([]catalog.ComponentType, 0, len(s.Components))
	for _, c := range s.Components {
		out = append(out, c.Name)
	}
	return out
}

// TermsFor returns the vocabulary terms of one component type.
func (s *Snapshot) TermsFor(t catalog.ComponentType) []string {
	for _, c := range s.Components {
		if c.Name == t {
			return c.Terms
		}
	}
	return nil
}

// Clone deep-copies the snapshot.
func (s *Snapshot) Clone() *Snapshot {
	out := &Snapshot{
		Version:          s.Version,
		Components:       make([]Component, len(s.Components)),
		ExactRules:       append([]ExactRule(nil), s.ExactRules...),
		ContextTriggers:  make(map[catalog.ComponentType][]string, len(s.ContextTriggers)),
		PositionTriggers: make(map[catalog.Section][]string, len(s.PositionTriggers)),
		PositionKeywords: append([]string(nil), s.PositionKeywords...),
		GenericTerms:     append([]string(nil), s.GenericTerms...),
	}
	for i, c := range s.Components {
		c.Terms = append([]string(nil), c.Terms...)
		out.Components[i] = c
	}
	for k, v := range s.ContextTriggers {
		out.ContextTriggers[k] = append([]string(nil), v...)
	}
	for k, v := range s.PositionTriggers {
		out.PositionTriggers[k] = append([]string(nil), v...)
	}
	return out
}

// Validate checks structural consistency.
func (s *Snapshot) Validate() error {
	if len(s.Components) == 0 {
		return fmt.Errorf("vocabulary has no components")
	}
	seen := make(map[catalog.ComponentType]bool, len(s.Components))
	for i, c := range s.Components {
		if strings.TrimSpace(string(c.Name)) == "" {
			return fmt.Errorf("component %d has no name", i)
		}
		if err := validation.ValidateComponentName(string(c.Name)); err != nil {
			return err
		}
		if seen[c.Name] {
			return fmt.Errorf("duplicate component %q", c.Name)
		}
		seen[c.Name] = true
	}
	for i, r := range s.ExactRules {
		if strings.TrimSpace(r.Key) == "" {
			return fmt.Errorf("exact rule %d has an empty key", i)
		}
		if r.Component == "" {
			return fmt.Errorf("exact rule %q has no component", r.Key)
		}
		if err := validation.ValidateComponentName(string(r.Component)); err != nil {
			return fmt.Errorf("exact rule %q: %w", r.Key, err)
		}
	}
	for section := range s.PositionTriggers {
		switch section {
		case catalog.SectionHero, catalog.SectionMain, catalog.SectionFooter:
		default:
			return fmt.Errorf("position triggers reference unknown section %q", section)
		}
	}
	return nil
}

// Merge overlays override on base and returns a new snapshot. Components with
// the same name take the override's terms; new components are appended.
// Non-empty lists in override replace the base lists and trigger maps are
// merged per key.
func Merge(base, override *Snapshot) *Snapshot {
	out := base.Clone()
	if override == nil {
		return out
	}
	if override.Version != "" {
		out.Version = override.Version
	}

	index := make(map[catalog.ComponentType]int, len(out.Components))
	for i, c := range out.Components {
		index[c.Name] = i
	}
	for _, c := range override.Components {
		c.Terms = append([]string(nil), c.Terms...)
		if i, ok := index[c.Name]; ok {
			if c.Category == "" {
				c.Category = out.Components[i].Category
			}
			if c.Description == "" {
				c.Description = out.Components[i].Description
			}
			out.Components[i] = c
			continue
		}
		index[c.Name] = len(out.Components)
		out.Components = append(out.Components, c)
	}

	if len(override.ExactRules) > 0 {
		out.ExactRules = append([]ExactRule(nil), override.ExactRules...)
	}
	for k, v := range override.ContextTriggers {
		out.ContextTriggers[k] = append([]string(nil), v...)
	}
	for k, v := range override.PositionTriggers {
		out.PositionTriggers[k] = append([]string(nil), v...)
	}
	if len(override.PositionKeywords) > 0 {
		out.PositionKeywords = append([]string(nil), override.PositionKeywords...)
	}
	if len(override.GenericTerms) > 0 {
		out.GenericTerms = append([]string(nil), override.GenericTerms...)
	}
	return out
}
