package layout

import (
	"encoding/json"
	"testing"

	"visual-mapper/internal/catalog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func instance(t catalog.ComponentType, conf float64) ComponentInstance {
	return ComponentInstance{
		Component:  t,
		Props:      map[string]interface{}{"text": "x", "items": []interface{}{map[string]interface{}{"a": 1}}},
		Confidence: conf,
		MatchType:  MatchHybridScoring,
		Term:       "x",
	}
}

func TestNew_ComputesCount(t *testing.T) {
	l := New("one-column", Sections{
		Hero: []ComponentInstance{instance(catalog.Hero, 0.51)},
		Main: []ComponentInstance{instance(catalog.Text, 0.51), instance(catalog.Button, 0.7)},
	})
	assert.Equal(t, 3, l.Count)

	l.Sections.Footer = append(l.Sections.Footer, instance(catalog.Footer, 0.51))
	assert.Equal(t, 4, l.Recount().Count)
}

func TestSections_GetWith(t *testing.T) {
	var s Sections
	s = s.With(catalog.SectionFooter, []ComponentInstance{instance(catalog.Footer, 0.5)})
	s = s.With(catalog.Section("sidebar"), []ComponentInstance{instance(catalog.Text, 0.5)})

	assert.Len(t, s.Get(catalog.SectionFooter), 1)
	assert.Len(t, s.Get(catalog.SectionMain), 1, "unknown sections resolve to main")
	assert.Empty(t, s.Get(catalog.SectionHero))
}

func TestLayout_CloneIsDeep(t *testing.T) {
	original := New("x", Sections{Main: []ComponentInstance{instance(catalog.Cards, 0.6)}})
	original.Warnings = []string{"w"}

	copied := original.Clone()
	copied.Sections.Main[0].Props["text"] = "changed"
	copied.Sections.Main[0].Props["items"].([]interface{})[0].(map[string]interface{})["a"] = 2
	copied.Warnings[0] = "changed"

	assert.Equal(t, "x", original.Sections.Main[0].Props["text"])
	assert.Equal(t, 1, original.Sections.Main[0].Props["items"].([]interface{})[0].(map[string]interface{})["a"])
	assert.Equal(t, "w", original.Warnings[0])
}

func TestLayout_JSONShape(t *testing.T) {
	l := New("hero-main-footer", Sections{Main: []ComponentInstance{instance(catalog.Text, 0.51)}})
	l.Warnings = []string{"internal"}

	raw, err := json.Marshal(l)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))

	assert.Equal(t, "hero-main-footer", decoded["template"])
	assert.Equal(t, float64(1), decoded["count"])
	assert.NotContains(t, decoded, "warnings")

	sections := decoded["sections"].(map[string]interface{})
	assert.Equal(t, []interface{}{}, sections["hero"])
	assert.Equal(t, []interface{}{}, sections["footer"])
	assert.Len(t, sections["main"], 1)
}

func TestLayout_Each(t *testing.T) {
	l := New("x", Sections{
		Hero:   []ComponentInstance{instance(catalog.Hero, 0.5)},
		Main:   []ComponentInstance{instance(catalog.Text, 0.5)},
		Footer: []ComponentInstance{instance(catalog.Footer, 0.5)},
	})

	var order []catalog.ComponentType
	l.Each(func(_ catalog.Section, _ int, c ComponentInstance) {
		order = append(order, c.Component)
	})
	assert.Equal(t, []catalog.ComponentType{catalog.Hero, catalog.Text, catalog.Footer}, order)
}
