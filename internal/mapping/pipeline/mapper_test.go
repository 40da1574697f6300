package pipeline

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"testing"

	"visual-mapper/internal/catalog"
	"visual-mapper/internal/common/logger"
	"visual-mapper/internal/common/validation"
	"visual-mapper/internal/mapping/balancer"
	"visual-mapper/internal/mapping/layout"
	"visual-mapper/internal/mapping/template"
	"visual-mapper/internal/vocabulary"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

// ===== Test Helper Functions =====

func createTestMapper(t *testing.T, mutate func(*Config)) *Mapper {
	t.Helper()
	cfg := DefaultConfig()
	if mutate != nil {
		mutate(&cfg)
	}
	schemas := validation.LoadSchemaStore(filepath.Join("..", "..", "..", "schemas"))
	m, err := New(cfg, vocabulary.Builtin(), schemas, logger.NewTestLogger(t))
	require.NoError(t, err)
	return m
}

func medicalRequest() Request {
	return Request{
		SessionID:  "sess-1",
		Entities:   []string{"врач", "запись"},
		Keyphrases: []string{"клиника"},
	}
}

func typesIn(items []layout.ComponentInstance) []catalog.ComponentType {
	out := make([]catalog.ComponentType, 0, len(items))
	for _, c := range items {
		out = append(out, c.Component)
	}
	return out
}

func find(items []layout.ComponentInstance, t catalog.ComponentType) (layout.ComponentInstance, bool) {
	for _, c := range items {
		if c.Component == t {
			return c, true
		}
	}
	return layout.ComponentInstance{}, false
}

// ===== Scenarios =====

func TestMapper_MedicalClinic(t *testing.T) {
	m := createTestMapper(t, nil)

	resp := m.Map(medicalRequest())

	assert.Equal(t, StatusOK, resp.Status)
	assert.Equal(t, "sess-1", resp.SessionID)
	assert.Equal(t, "medical-clinic", resp.Layout.Template)
	assert.Equal(t, resp.Layout.Sections.Total(), resp.Layout.Count)

	for _, typ := range []catalog.ComponentType{catalog.DoctorsList, catalog.AppointmentForm} {
		inst, ok := find(resp.Layout.Sections.Main, typ)
		require.True(t, ok, "%s missing from main", typ)
		assert.GreaterOrEqual(t, inst.Confidence, 0.6)
		assert.Equal(t, layout.MatchHybridScoring, inst.MatchType)
	}

	require.NotEmpty(t, resp.Matches)
	assert.Equal(t, catalog.DoctorsList, resp.Matches[0].Component)
	for _, c := range resp.Matches {
		assert.True(t, c.PassedThreshold)
		assert.Nil(t, c.Breakdown)
	}

	require.Len(t, resp.Explanations, len(resp.Matches)+1)
	assert.Equal(t, "template medical-clinic selected by triggers: клиника, врач, запись", resp.Explanations[0])
	assert.Equal(t, "врач → ui.doctorsList (hybrid_scoring, 0.95)", resp.Explanations[1])

	assert.Contains(t, resp.Warnings, "meaningful_main: added fallback (had 1, need 2)")
	assert.Equal(t, layout.MatchFallback, resp.Layout.Sections.Main[0].MatchType)

	form, ok := find(resp.Layout.Sections.Main, catalog.Form)
	require.True(t, ok)
	assert.Equal(t, "Запись на приём", form.Props["title"])
}

func TestMapper_EmptyInput(t *testing.T) {
	m := createTestMapper(t, nil)

	resp := m.Map(Request{SessionID: "empty"})

	assert.Equal(t, template.Default, resp.Layout.Template)
	assert.NotNil(t, resp.Matches)
	assert.Empty(t, resp.Matches)
	assert.Equal(t, []string{"default template hero-main-footer selected (no triggers found)"}, resp.Explanations)
	assert.Empty(t, resp.Warnings)

	expected := balancer.New(balancer.DefaultConfig()).Balance(template.NewSelector().Skeleton(template.Default))
	for _, section := range catalog.Sections {
		assert.Equal(t, typesIn(expected.Sections.Get(section)), typesIn(resp.Layout.Sections.Get(section)), section)
	}
	assert.Equal(t, expected.Count, resp.Layout.Count)

	body, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.Contains(t, string(body), `"matches":[]`)
	assert.NotContains(t, string(body), `"warnings"`)
}

func TestMapper_Deterministic(t *testing.T) {
	m := createTestMapper(t, nil)

	first := m.Map(medicalRequest())
	for i := 0; i < 5; i++ {
		if diff := cmp.Diff(first, m.Map(medicalRequest())); diff != "" {
			t.Fatalf("run %d differs (-first +again):\n%s", i, diff)
		}
	}
}

func TestMapper_TemplateOverride(t *testing.T) {
	m := createTestMapper(t, nil)

	req := medicalRequest()
	req.Template = "one-column"
	resp := m.Map(req)
	assert.Equal(t, "one-column", resp.Layout.Template)
	assert.Equal(t, "template one-column selected by explicit override", resp.Explanations[0])

	req.Template = "bogus"
	resp = m.Map(req)
	assert.Equal(t, "medical-clinic", resp.Layout.Template)
	assert.Contains(t, resp.Explanations[0], `unknown template override "bogus" ignored`)
}

func TestMapper_Invariants(t *testing.T) {
	m := createTestMapper(t, nil)
	cfg := m.Config().Balancing

	inputs := []Request{
		medicalRequest(),
		{Entities: []string{"интернет-магазин", "корзина", "товар", "кнопка купить"}},
		{Entities: []string{"курс", "урок"}, Keyphrases: []string{"форма записи внизу", "кнопка вверху"}},
		{Entities: []string{"сайт", "страница", "элемент"}},
		{Entities: []string{"  ", "\t"}},
	}

	for i, req := range inputs {
		t.Run(fmt.Sprintf("input %d", i), func(t *testing.T) {
			resp := m.Map(req)
			l := resp.Layout

			assert.Equal(t, l.Sections.Total(), l.Count)
			assert.LessOrEqual(t, len(l.Sections.Hero), cfg.MaxComponentsPerSection)
			assert.LessOrEqual(t, len(l.Sections.Footer), cfg.MaxComponentsPerSection)
			assert.LessOrEqual(t, len(resp.Matches), m.Config().Scoring.MaxMatches)

			for _, section := range catalog.Sections {
				seen := map[catalog.ComponentType]bool{}
				for _, c := range l.Sections.Get(section) {
					assert.False(t, seen[c.Component], "%s repeated in %s", c.Component, section)
					seen[c.Component] = true
					assert.GreaterOrEqual(t, c.Confidence, 0.0)
					assert.LessOrEqual(t, c.Confidence, 1.0)
					assert.NotNil(t, c.Props)
				}
			}
			for _, c := range resp.Matches {
				assert.GreaterOrEqual(t, c.Score, m.Config().Scoring.Threshold)
			}
		})
	}
}

func TestMapper_DebugBreakdown(t *testing.T) {
	m := createTestMapper(t, func(c *Config) { c.Scoring.Debug = true })

	resp := m.Map(medicalRequest())
	require.NotEmpty(t, resp.Matches)
	require.NotNil(t, resp.Matches[0].Breakdown)
	assert.NotEmpty(t, resp.Matches[0].Breakdown.Calculation)
}

func TestMapper_PropsDisabled(t *testing.T) {
	m := createTestMapper(t, func(c *Config) { c.Props.Enabled = false })

	resp := m.Map(medicalRequest())
	inst, ok := find(resp.Layout.Sections.Main, catalog.DoctorsList)
	require.True(t, ok)
	assert.Equal(t, map[string]interface{}{"text": "Врач"}, inst.Props)
}

// ===== Reload =====

func TestMapper_Reload(t *testing.T) {
	m := createTestMapper(t, nil)
	assert.Equal(t, vocabulary.BuiltinVersion, m.VocabularyVersion())

	next := vocabulary.Builtin()
	next.Version = "custom-2"
	for i, c := range next.Components {
		if c.Name == catalog.Calculator {
			next.Components[i].Terms = append(next.Components[i].Terms, "ипотечный планировщик")
		}
	}
	require.NoError(t, m.Reload(next))
	assert.Equal(t, "custom-2", m.VocabularyVersion())

	next.Version = "mutated-after-reload"
	assert.Equal(t, "custom-2", m.VocabularyVersion(), "reload keeps its own copy")

	resp := m.Map(Request{Entities: []string{"ипотечный планировщик"}})
	var got []catalog.ComponentType
	for _, c := range resp.Matches {
		got = append(got, c.Component)
	}
	assert.Contains(t, got, catalog.Calculator)
}

func TestMapper_ReloadRejectsInvalid(t *testing.T) {
	m := createTestMapper(t, nil)

	assert.Error(t, m.Reload(nil))
	assert.Error(t, m.Reload(&vocabulary.Snapshot{Version: "empty"}))
	assert.Equal(t, vocabulary.BuiltinVersion, m.VocabularyVersion())
}

func TestMapper_ConcurrentMapAndReload(t *testing.T) {
	m := createTestMapper(t, nil)
	expected := m.Map(medicalRequest())

	var g errgroup.Group
	for i := 0; i < 8; i++ {
		g.Go(func() error {
			for j := 0; j < 20; j++ {
				if diff := cmp.Diff(expected, m.Map(medicalRequest())); diff != "" {
					return fmt.Errorf("response changed:\n%s", diff)
				}
			}
			return nil
		})
	}
	g.Go(func() error {
		for j := 0; j < 20; j++ {
			if err := m.Reload(vocabulary.Builtin()); err != nil {
				return err
			}
		}
		return nil
	})
	require.NoError(t, g.Wait())
}

func TestPositionHints(t *testing.T) {
	keywords := []string{"вверху", "внизу"}
	assert.Equal(t,
		[]string{"Кнопка ВВЕРХУ", "форма внизу"},
		PositionHints([]string{"Кнопка ВВЕРХУ", "галерея", "форма внизу"}, keywords))
	assert.Nil(t, PositionHints([]string{"галерея"}, keywords))
}

func TestStatsFor(t *testing.T) {
	m := createTestMapper(t, nil)
	resp := m.Map(medicalRequest())

	stats := StatsFor(resp.Layout)

	require.Len(t, stats.Sections, len(catalog.Sections))
	total := 0
	for _, s := range stats.Sections {
		total += s.TotalComponents
	}
	assert.Equal(t, resp.Layout.Count, total)
	assert.Equal(t, resp.Layout.Count, stats.Props.TotalComponents)
	assert.Equal(t, stats.Props.TotalComponents, stats.Props.ComponentsWithProps+stats.Props.ComponentsWithoutProps)
	assert.Positive(t, stats.Sections[catalog.SectionMain].ComponentDistribution[catalog.DoctorsList])
	assert.Positive(t, stats.Props.ByType[catalog.AppointmentForm].WithProps)
}
