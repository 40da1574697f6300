// Package props fills every component instance of a balanced layout with
// display properties and validates them against per-type JSON schemas.
package props

import (
	"fmt"
	"strings"

	"visual-mapper/internal/catalog"
	"visual-mapper/internal/common/textnorm"
	"visual-mapper/internal/mapping/layout"
)

// SchemaValidator is the schema store consumed by the synthesizer. found is
// false when no schema exists for name.
type SchemaValidator interface {
	Validate(name string, doc interface{}) (found bool, err error)
}

// Synthesizer generates props. It is immutable after construction.
type Synthesizer struct {
	cfg        Config
	generators map[catalog.ComponentType]Generator
	settings   map[catalog.ComponentType]GeneratorConfig
	schemas    SchemaValidator
	unknown    []string
}

// New resolves the generator registry and settings once. schemas may be nil,
// which behaves like an empty store.
func New(cfg Config, schemas SchemaValidator) *Synthesizer {
	settings, unknown := resolveGenerators(cfg.Generators)
	return &Synthesizer{
		cfg:        cfg,
		generators: Generators(),
		settings:   settings,
		schemas:    schemas,
		unknown:    unknown,
	}
}

// Config returns the synthesizer settings.
func (s *Synthesizer) Config() Config { return s.cfg }

// UnknownGeneratorKeys lists configured generator keys that name no catalog
// type. They are ignored.
func (s *Synthesizer) UnknownGeneratorKeys() []string {
	return append([]string(nil), s.unknown...)
}

// Synthesize replaces the props of every instance. The returned warnings are
// also appended to the returned layout's Warnings. The input is not modified.
func (s *Synthesizer) Synthesize(in layout.Layout, entities, keyphrases []string, contextText string) (layout.Layout, []string) {
	if !s.cfg.Enabled {
		return in, nil
	}

	out := in.Clone()
	var warnings []string
	for _, section := range catalog.Sections {
		items := out.Sections.Get(section)
		for i := range items {
			text := AllText(entities, keyphrases, contextText, items[i].Term)
			p, warning := s.Props(items[i].Component, text)
			items[i].Props = p
			if warning != "" {
				warnings = append(warnings, warning)
			}
		}
	}
	out.Warnings = append(out.Warnings, warnings...)
	return out, warnings
}

// Props generates and validates props for one type. text must already be
// lower-cased. A non-empty warning means the defaults were applied.
func (s *Synthesizer) Props(t catalog.ComponentType, text string) (map[string]interface{}, string) {
	settings := s.settings[t]

	var generated map[string]interface{}
	if gen, ok := s.generators[t]; ok {
		generated = gen(text, settings)
	} else {
		generated = defaultsProps(text, settings)
	}

	if !s.cfg.ValidationEnabled || s.schemas == nil {
		return generated, ""
	}
	if found, err := s.schemas.Validate(string(t), generated); found && err != nil {
		return defaultsProps(text, settings), fmt.Sprintf("%s: invalid props, applied defaults", t)
	}
	return generated, ""
}

// AllText is the lower-cased text every generator reads.
func AllText(entities, keyphrases []string, contextText, term string) string {
	parts := make([]string, 0, len(entities)+len(keyphrases)+2)
	parts = append(parts, entities...)
	parts = append(parts, keyphrases...)
	parts = append(parts, contextText, term)
	return textnorm.Lower(strings.Join(parts, " "))
}

// TypeStats counts instances of one type by whether they carry props.
type TypeStats struct {
	Count        int `json:"count"`
	WithProps    int `json:"with_props"`
	WithoutProps int `json:"without_props"`
}

// Stats summarizes props coverage of a layout.
type Stats struct {
	TotalComponents        int                                 `json:"total_components"`
	ComponentsWithProps    int                                 `json:"components_with_props"`
	ComponentsWithoutProps int                                 `json:"components_without_props"`
	ByType                 map[catalog.ComponentType]TypeStats `json:"by_type"`
}

// CollectStats reports how many instances carry non-empty props.
func CollectStats(l layout.Layout) Stats {
	stats := Stats{ByType: map[catalog.ComponentType]TypeStats{}}
	l.Each(func(_ catalog.Section, _ int, c layout.ComponentInstance) {
		ts := stats.ByType[c.Component]
		ts.Count++
		stats.TotalComponents++
		if len(c.Props) > 0 {
			ts.WithProps++
			stats.ComponentsWithProps++
		} else {
			ts.WithoutProps++
			stats.ComponentsWithoutProps++
		}
		stats.ByType[c.Component] = ts
	})
	return stats
}
