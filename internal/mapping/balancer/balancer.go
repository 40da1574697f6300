// Package balancer enforces section capacity, uniqueness, repeat and
// minimum-content rules on an assembled layout.
package balancer

import (
	"fmt"
	"sort"
	"strings"

	"visual-mapper/internal/catalog"
	"visual-mapper/internal/mapping/layout"
)

// Balancer runs the balancing passes. It holds no per-request state.
type Balancer struct {
	cfg        Config
	meaningful map[catalog.ComponentType]bool
}

// New builds a balancer.
func New(cfg Config) *Balancer {
	meaningful := make(map[catalog.ComponentType]bool, len(cfg.MeaningfulKeys))
	for _, k := range cfg.MeaningfulKeys {
		meaningful[k] = true
	}
	return &Balancer{cfg: cfg, meaningful: meaningful}
}

// Config returns the balancer's limits.
func (b *Balancer) Config() Config { return b.cfg }

// Balance runs size limiting, deduplication, repeat limiting and the
// meaningful-main guarantee in that order. Warnings from every pass are
// appended to the returned layout's Warnings. The input is not modified.
func (b *Balancer) Balance(in layout.Layout) layout.Layout {
	out := in.Clone()
	var warnings []string

	for _, pass := range []func(layout.Layout) (layout.Layout, []string){
		b.LimitSizes,
		b.Deduplicate,
		b.LimitRepeats,
		b.EnsureMeaningfulMain,
	} {
		var w []string
		out, w = pass(out)
		warnings = append(warnings, w...)
	}

	out.Warnings = append(out.Warnings, warnings...)
	return out.Recount()
}

// LimitSizes caps hero and footer. Overflowing sections keep their most
// confident instances, ordered by descending confidence; the rest move to
// the end of main in their original relative order. Main is never capped.
func (b *Balancer) LimitSizes(in layout.Layout) (layout.Layout, []string) {
	limit := b.cfg.MaxComponentsPerSection
	out := in
	var warnings []string

	for _, section := range []catalog.Section{catalog.SectionHero, catalog.SectionFooter} {
		items := out.Sections.Get(section)
		if limit < 0 || len(items) <= limit {
			continue
		}

		order := make([]int, len(items))
		for i := range order {
			order[i] = i
		}
		sort.SliceStable(order, func(i, j int) bool {
			return items[order[i]].Confidence > items[order[j]].Confidence
		})

		kept := make([]layout.ComponentInstance, 0, limit)
		for _, idx := range order[:limit] {
			kept = append(kept, items[idx])
		}
		excessIdx := append([]int(nil), order[limit:]...)
		sort.Ints(excessIdx)

		main := append([]layout.ComponentInstance(nil), out.Sections.Main...)
		for _, idx := range excessIdx {
			main = append(main, items[idx])
		}

		out.Sections = out.Sections.With(section, kept).With(catalog.SectionMain, main)
		warnings = append(warnings, fmt.Sprintf("size_limit: %s overflow %d components moved to main", section, len(excessIdx)))
	}

	return out.Recount(), warnings
}

// Deduplicate collapses same-type instances within a section into the most
// confident one, enriching its props from the others.
func (b *Balancer) Deduplicate(in layout.Layout) (layout.Layout, []string) {
	out := in
	var warnings []string

	for _, section := range catalog.Sections {
		items := out.Sections.Get(section)
		if len(items) == 0 {
			continue
		}

		var order []catalog.ComponentType
		groups := make(map[catalog.ComponentType][]layout.ComponentInstance)
		for _, c := range items {
			if _, ok := groups[c.Component]; !ok {
				order = append(order, c.Component)
			}
			groups[c.Component] = append(groups[c.Component], c)
		}

		deduped := make([]layout.ComponentInstance, 0, len(order))
		for _, t := range order {
			group := groups[t]
			if len(group) == 1 {
				deduped = append(deduped, group[0])
				continue
			}
			deduped = append(deduped, mergeGroup(group))
			warnings = append(warnings, fmt.Sprintf("dedup: %s x%d → x1", t, len(group)))
		}
		out.Sections = out.Sections.With(section, deduped)
	}

	return out.Recount(), warnings
}

// mergeGroup keeps the most confident instance (earliest on ties) and folds
// the others' props into a copy of its props.
func mergeGroup(group []layout.ComponentInstance) layout.ComponentInstance {
	sorted := append([]layout.ComponentInstance(nil), group...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Confidence > sorted[j].Confidence
	})

	base := sorted[0].Clone()
	if base.Props == nil {
		base.Props = map[string]interface{}{}
	}
	for _, other := range sorted[1:] {
		for key, value := range other.Props {
			existing, ok := base.Props[key]
			if !ok {
				base.Props[key] = layout.CloneValue(value)
				continue
			}
			newStr, newIsStr := value.(string)
			oldStr, oldIsStr := existing.(string)
			if newIsStr && oldIsStr && !strings.Contains(oldStr, newStr) {
				base.Props[key] = oldStr + ", " + newStr
			}
		}
	}
	return base
}

// LimitRepeats keeps at most MaxRepeatsPerKey instances of each type per
// section, in original order.
func (b *Balancer) LimitRepeats(in layout.Layout) (layout.Layout, []string) {
	limit := b.cfg.MaxRepeatsPerKey
	out := in
	var warnings []string

	for _, section := range catalog.Sections {
		items := out.Sections.Get(section)
		if len(items) == 0 {
			continue
		}

		seen := make(map[catalog.ComponentType]int)
		kept := make([]layout.ComponentInstance, 0, len(items))
		for _, c := range items {
			if seen[c.Component] < limit {
				kept = append(kept, c)
				seen[c.Component]++
				continue
			}
			warnings = append(warnings, fmt.Sprintf("repeat_limit: %s exceeded %d in %s", c.Component, limit, section))
		}
		out.Sections = out.Sections.With(section, kept)
	}

	return out.Recount(), warnings
}

// EnsureMeaningfulMain inserts the fallback instance at the front of main
// when it holds fewer meaningful instances than required.
func (b *Balancer) EnsureMeaningfulMain(in layout.Layout) (layout.Layout, []string) {
	count := 0
	for _, c := range in.Sections.Main {
		if b.meaningful[c.Component] {
			count++
		}
	}
	if count >= b.cfg.MinMeaningfulMain {
		return in, nil
	}

	main := make([]layout.ComponentInstance, 0, len(in.Sections.Main)+1)
	main = append(main, b.fallback())
	main = append(main, in.Sections.Main...)

	out := in
	out.Sections = out.Sections.With(catalog.SectionMain, main)
	return out.Recount(), []string{
		fmt.Sprintf("meaningful_main: added fallback (had %d, need %d)", count, b.cfg.MinMeaningfulMain),
	}
}

func (b *Balancer) fallback() layout.ComponentInstance {
	fb := b.cfg.Fallback
	component := fb.Component
	if component == "" {
		component = catalog.Text
	}
	matchType := fb.MatchType
	if matchType == "" {
		matchType = layout.MatchFallback
	}
	props := layout.CloneProps(fb.Props)
	if props == nil {
		props = map[string]interface{}{}
	}
	return layout.ComponentInstance{
		Component:  component,
		Props:      props,
		Confidence: fb.Confidence,
		MatchType:  matchType,
		Term:       fb.Term,
	}
}

// WarningKind returns the pass name prefixing a warning, e.g. "dedup".
func WarningKind(warning string) string {
	if i := strings.Index(warning, ":"); i > 0 {
		return warning[:i]
	}
	return "other"
}
