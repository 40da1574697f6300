package balancer

import (
	"visual-mapper/internal/catalog"
	"visual-mapper/internal/mapping/layout"
)

// SectionStats summarizes one section.
type SectionStats struct {
	TotalComponents       int                           `json:"total_components"`
	UniqueComponents      int                           `json:"unique_components"`
	ComponentDistribution map[catalog.ComponentType]int `json:"component_distribution"`
	AvgConfidence         float64                       `json:"avg_confidence"`
}

// Stats reports per-section composition of a layout.
func Stats(l layout.Layout) map[catalog.Section]SectionStats {
	out := make(map[catalog.Section]SectionStats, len(catalog.Sections))
	for _, section := range catalog.Sections {
		items := l.Sections.Get(section)
		dist := make(map[catalog.ComponentType]int)
		sum := 0.0
		for _, c := range items {
			dist[c.Component]++
			sum += c.Confidence
		}
		avg := 0.0
		if len(items) > 0 {
			avg = sum / float64(len(items))
		}
		out[section] = SectionStats{
			TotalComponents:       len(items),
			UniqueComponents:      len(dist),
			ComponentDistribution: dist,
			AvgConfidence:         avg,
		}
	}
	return out
}
