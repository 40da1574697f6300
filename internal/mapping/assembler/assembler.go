// Package assembler merges scored component instances into a template
// skeleton.
package assembler

import (
	"visual-mapper/internal/catalog"
	"visual-mapper/internal/mapping/layout"
)

// Outcome records what happened to one merged instance.
type Outcome string

const (
	Appended Outcome = "appended"
	Replaced Outcome = "replaced"
	Dropped  Outcome = "dropped"
)

// Placement describes where a merged instance went.
type Placement struct {
	Component catalog.ComponentType
	Section   catalog.Section
	Outcome   Outcome
}

// Assemble places each instance into its placement section. An instance whose
// type is already present in that section replaces the existing one only when
// strictly more confident; otherwise it is dropped. The skeleton is not
// modified.
func Assemble(skeleton layout.Layout, instances []layout.ComponentInstance) (layout.Layout, []Placement) {
	out := skeleton.Clone()
	placements := make([]Placement, 0, len(instances))

	for _, inst := range instances {
		section := catalog.SectionFor(inst.Component)
		items := out.Sections.Get(section)

		outcome := Appended
		idx := indexOf(items, inst.Component)
		switch {
		case idx < 0:
			items = append(items, inst.Clone())
		case inst.Confidence > items[idx].Confidence:
			items[idx] = inst.Clone()
			outcome = Replaced
		default:
			outcome = Dropped
		}

		out.Sections = out.Sections.With(section, items)
		placements = append(placements, Placement{Component: inst.Component, Section: section, Outcome: outcome})
	}

	return out.Recount(), placements
}

func indexOf(items []layout.ComponentInstance, t catalog.ComponentType) int {
	for i, c := range items {
		if c.Component == t {
			return i
		}
	}
	return -1
}
