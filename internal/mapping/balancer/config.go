package balancer

import (
	"visual-mapper/internal/catalog"
	"visual-mapper/internal/mapping/layout"
)

// Fallback defines the placeholder inserted when main lacks content.
type Fallback struct {
	Component  catalog.ComponentType  `mapstructure:"component"`
	Confidence float64                `mapstructure:"confidence"`
	MatchType  layout.MatchType       `mapstructure:"match_type"`
	Term       string                 `mapstructure:"term"`
	Props      map[string]interface{} `mapstructure:"props"`
}

// Config holds the section limits.
type Config struct {
	MaxComponentsPerSection int                     `mapstructure:"max_components_per_section"`
	MaxRepeatsPerKey        int                     `mapstructure:"max_repeats_per_key"`
	MinMeaningfulMain       int                     `mapstructure:"min_meaningful_main"`
	MeaningfulKeys          []catalog.ComponentType `mapstructure:"meaningful_keys"`
	Fallback                Fallback                `mapstructure:"fallback"`
}

// DefaultConfig returns the built-in limits.
func DefaultConfig() Config {
	return Config{
		MaxComponentsPerSection: 12,
		MaxRepeatsPerKey:        2,
		MinMeaningfulMain:       2,
		MeaningfulKeys: []catalog.ComponentType{
			catalog.Form, catalog.Button, catalog.Cards, catalog.ProductGrid,
			catalog.Text, catalog.Heading, catalog.ProductCard, catalog.CTA,
		},
		Fallback: Fallback{
			Component:  catalog.Text,
			Confidence: 0.5,
			MatchType:  layout.MatchFallback,
			Term:       "fallback-text",
			Props:      map[string]interface{}{"text": "Описание раздела"},
		},
	}
}
