// Package layout defines the page layout produced by the mapping pipeline.
package layout

import (
	"encoding/json"

	"visual-mapper/internal/catalog"
)

// MatchType records where a component instance came from.
type MatchType string

const (
	MatchTemplateSkeleton MatchType = "template-skeleton"
	MatchHybridScoring    MatchType = "hybrid_scoring"
	MatchFallback         MatchType = "fallback"
)

// ComponentInstance is one placed UI element.
type ComponentInstance struct {
	Component  catalog.ComponentType  `json:"component"`
	Props      map[string]interface{} `json:"props"`
	Confidence float64                `json:"confidence"`
	MatchType  MatchType              `json:"match_type"`
	Term       string                 `json:"term"`
}

// Clone returns a copy whose props map can be changed independently.
func (c ComponentInstance) Clone() ComponentInstance {
	c.Props = CloneProps(c.Props)
	return c
}

// Sections holds the three fixed page regions.
type Sections struct {
	Hero   []ComponentInstance `json:"hero"`
	Main   []ComponentInstance `json:"main"`
	Footer []ComponentInstance `json:"footer"`
}

// Get returns the instances of one section.
func (s Sections) Get(section catalog.Section) []ComponentInstance {
	switch section {
	case catalog.SectionHero:
		return s.Hero
	case catalog.SectionFooter:
		return s.Footer
	default:
		return s.Main
	}
}

// With returns a copy of s with one section replaced.
func (s Sections) With(section catalog.Section, items []ComponentInstance) Sections {
	switch section {
	case catalog.SectionHero:
		s.Hero = items
	case catalog.SectionFooter:
		s.Footer = items
	default:
		s.Main = items
	}
	return s
}

// Clone deep-copies every section.
func (s Sections) Clone() Sections {
	return Sections{
		Hero:   cloneList(s.Hero),
		Main:   cloneList(s.Main),
		Footer: cloneList(s.Footer),
	}
}

// Total returns the number of instances across all sections.
func (s Sections) Total() int {
	return len(s.Hero) + len(s.Main) + len(s.Footer)
}

// MarshalJSON always emits all three keys, empty sections as [].
func (s Sections) MarshalJSON() ([]byte, error) {
	type plain Sections
	out := plain{
		Hero:   nonNil(s.Hero),
		Main:   nonNil(s.Main),
		Footer: nonNil(s.Footer),
	}
	return json.Marshal(out)
}

// Layout is a template name plus its populated sections. Warnings collected
// while transforming the layout are reported separately and never serialized
// as part of it.
type Layout struct {
	Template string   `json:"template"`
	Sections Sections `json:"sections"`
	Count    int      `json:"count"`
	Warnings []string `json:"-"`
}

// New builds a layout and computes its count.
func New(template string, sections Sections) Layout {
	return Layout{
		Template: template,
		Sections: sections,
		Count:    sections.Total(),
	}
}

// Clone deep-copies the layout.
func (l Layout) Clone() Layout {
	out := l
	out.Sections = l.Sections.Clone()
	if l.Warnings != nil {
		out.Warnings = append([]string(nil), l.Warnings...)
	}
	return out
}

// Recount returns l with Count set to the sum of section lengths.
func (l Layout) Recount() Layout {
	l.Count = l.Sections.Total()
	return l
}

// Each calls fn for every instance in render order.
func (l Layout) Each(fn func(section catalog.Section, index int, c ComponentInstance)) {
	for _, section := range catalog.Sections {
		for i, c := range l.Sections.Get(section) {
			fn(section, i, c)
		}
	}
}

// CloneProps deep-copies a props map, including nested maps and slices.
func CloneProps(props map[string]interface{}) map[string]interface{} {
	if props == nil {
		return nil
	}
	out := make(map[string]interface{}, len(props))
	for k, v := range props {
		out[k] = CloneValue(v)
	}
	return out
}

// CloneValue deep-copies a single prop value.
func CloneValue(v interface{}) interface{} {
	switch val := v.(type) {
	case map[string]interface{}:
		return CloneProps(val)
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, item := range val {
			out[i] = CloneValue(item)
		}
		return out
	case []string:
		return append([]string(nil), val...)
	case []map[string]interface{}:
		out := make([]map[string]interface{}, len(val))
		for i, item := range val {
			out[i] = CloneProps(item)
		}
		return out
	default:
		return v
	}
}

func cloneList(items []ComponentInstance) []ComponentInstance {
	if items == nil {
		return nil
	}
	out := make([]ComponentInstance, len(items))
	for i, c := range items {
		out[i] = c.Clone()
	}
	return out
}

func nonNil(items []ComponentInstance) []ComponentInstance {
	if items == nil {
		return []ComponentInstance{}
	}
	return items
}
