package pipeline

import (
	"visual-mapper/internal/catalog"
	"visual-mapper/internal/mapping/balancer"
	"visual-mapper/internal/mapping/layout"
	"visual-mapper/internal/mapping/props"
)

// LayoutStats describes the composition of a mapped layout.
type LayoutStats struct {
	Sections map[catalog.Section]balancer.SectionStats `json:"sections"`
	Props    props.Stats                               `json:"props"`
}

// StatsFor reports per-section counts and props coverage of l.
func StatsFor(l layout.Layout) LayoutStats {
	return LayoutStats{
		Sections: balancer.Stats(l),
		Props:    props.CollectStats(l),
	}
}
