// Package scoring rates how well free-text terms match catalog component
// types by combining exact, fuzzy, context and position signals.
package scoring

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"visual-mapper/internal/catalog"
	"visual-mapper/internal/common/textnorm"
	"visual-mapper/internal/mapping/layout"
	"visual-mapper/internal/vocabulary"
)

const (
	contextStep  = 0.3
	positionStep = 0.4
)

// Weights scale the four signals. They need not sum to 1.
type Weights struct {
	Exact    float64 `mapstructure:"exact" json:"exact"`
	Fuzzy    float64 `mapstructure:"fuzzy" json:"fuzzy"`
	Context  float64 `mapstructure:"context" json:"context"`
	Position float64 `mapstructure:"position" json:"position"`
}

// Config controls scoring.
type Config struct {
	Weights        Weights  `mapstructure:"weights"`
	Threshold      float64  `mapstructure:"threshold"`
	MinConfidence  float64  `mapstructure:"min_confidence"`
	MaxConfidence  float64  `mapstructure:"max_confidence"`
	GenericPenalty float64  `mapstructure:"generic_penalty"`
	GenericTerms   []string `mapstructure:"generic_terms"`
	MaxMatches     int      `mapstructure:"max_matches"`
	Debug          bool     `mapstructure:"debug"`
}

// DefaultConfig returns the built-in scoring settings.
func DefaultConfig() Config {
	return Config{
		Weights:        Weights{Exact: 1.0, Fuzzy: 0.7, Context: 0.5, Position: 0.3},
		Threshold:      0.6,
		MinConfidence:  0.51,
		MaxConfidence:  0.95,
		GenericPenalty: 0.2,
		GenericTerms:   []string{"сайт", "страница", "элемент", "компонент", "часть"},
		MaxMatches:     6,
	}
}

// Breakdown is the per-signal detail attached in debug mode.
type Breakdown struct {
	Exact       float64 `json:"exact"`
	Fuzzy       float64 `json:"fuzzy"`
	Context     float64 `json:"context"`
	Position    float64 `json:"position"`
	Weights     Weights `json:"weights"`
	Calculation string  `json:"total_calculation"`
}

// Result is the score of one (term, component type) pair.
type Result struct {
	Score      float64
	Confidence float64
	Passed     bool
	Breakdown  *Breakdown
}

// Candidate is the best-scoring term for one component type.
type Candidate struct {
	Component       catalog.ComponentType  `json:"component"`
	Confidence      float64                `json:"confidence"`
	Score           float64                `json:"score"`
	Term            string                 `json:"term"`
	MatchType       layout.MatchType       `json:"match_type"`
	Props           map[string]interface{} `json:"props"`
	PassedThreshold bool                   `json:"passed_threshold"`
	Breakdown       *Breakdown             `json:"breakdown,omitempty"`
}

// Instance converts the candidate into a placeable component instance.
func (c Candidate) Instance() layout.ComponentInstance {
	return layout.ComponentInstance{
		Component:  c.Component,
		Props:      layout.CloneProps(c.Props),
		Confidence: c.Confidence,
		MatchType:  layout.MatchHybridScoring,
		Term:       c.Term,
	}
}

type exactRule struct {
	key       string
	component catalog.ComponentType
}

// Engine scores terms against one vocabulary snapshot. It is immutable after
// construction and safe for concurrent use.
type Engine struct {
	cfg              Config
	version          string
	types            []catalog.ComponentType
	terms            map[catalog.ComponentType][]string
	rules            []exactRule
	contextTriggers  map[catalog.ComponentType][]string
	positionTriggers map[catalog.Section][]string
	generic          []string
}

// NewEngine compiles a snapshot into lower-cased lookup tables. Generic
// penalty words are the union of the configured list and the snapshot's.
func NewEngine(cfg Config, snap *vocabulary.Snapshot) *Engine {
	e := &Engine{
		cfg:              cfg,
		version:          snap.Version,
		types:            snap.Types(),
		terms:            make(map[catalog.ComponentType][]string, len(snap.Components)),
		contextTriggers:  make(map[catalog.ComponentType][]string, len(snap.ContextTriggers)),
		positionTriggers: make(map[catalog.Section][]string, len(snap.PositionTriggers)),
	}
	for _, c := range snap.Components {
		e.terms[c.Name] = lowerAll(c.Terms)
	}
	for _, r := range snap.ExactRules {
		e.rules = append(e.rules, exactRule{key: textnorm.Lower(r.Key), component: r.Component})
	}
	for t, phrases := range snap.ContextTriggers {
		e.contextTriggers[t] = lowerAll(phrases)
	}
	for s, phrases := range snap.PositionTriggers {
		e.positionTriggers[s] = lowerAll(phrases)
	}

	seen := map[string]bool{}
	for _, g := range append(append([]string{}, cfg.GenericTerms...), snap.GenericTerms...) {
		g = textnorm.Lower(g)
		if g == "" || seen[g] {
			continue
		}
		seen[g] = true
		e.generic = append(e.generic, g)
	}
	return e
}

// Config returns the engine's settings.
func (e *Engine) Config() Config { return e.cfg }

// Version is the vocabulary version the engine was built from.
func (e *Engine) Version() string { return e.version }

// Types lists the scored component types in vocabulary order.
func (e *Engine) Types() []catalog.ComponentType {
	return append([]catalog.ComponentType(nil), e.types...)
}

// Score rates a single term against one component type.
func (e *Engine) Score(term string, t catalog.ComponentType, contextText, positionHint string) Result {
	exact := e.exactScore(term, t)
	fuzzy := e.fuzzyScore(term, t)
	ctx := e.contextScore(t, contextText)
	pos := e.positionScore(t, positionHint)

	w := e.cfg.Weights
	total := w.Exact*exact + w.Fuzzy*fuzzy + w.Context*ctx + w.Position*pos
	score := e.applyRules(total, term)

	res := Result{
		Score:      score,
		Confidence: clamp(score, 0, 1),
		Passed:     score >= e.cfg.Threshold,
	}
	if e.cfg.Debug {
		res.Breakdown = &Breakdown{
			Exact:    exact,
			Fuzzy:    fuzzy,
			Context:  ctx,
			Position: pos,
			Weights:  w,
			Calculation: fmt.Sprintf("%s×%.2f + %s×%.2f + %s×%.2f + %s×%.2f = %.2f",
				formatWeight(w.Exact), exact,
				formatWeight(w.Fuzzy), fuzzy,
				formatWeight(w.Context), ctx,
				formatWeight(w.Position), pos,
				score),
		}
	}
	return res
}

// ScoreComponents scores every vocabulary type against every term (entities
// first, then keyphrases). Each type keeps the first term reaching its
// highest score; types whose best score is zero are omitted. The result is
// sorted by descending confidence, ties kept in vocabulary order.
func (e *Engine) ScoreComponents(entities, keyphrases []string, contextText string, positionHints []string) []Candidate {
	terms := make([]string, 0, len(entities)+len(keyphrases))
	terms = append(terms, entities...)
	terms = append(terms, keyphrases...)
	position := strings.Join(positionHints, " ")

	var out []Candidate
	for _, t := range e.types {
		var best Result
		bestTerm := ""
		for _, term := range terms {
			res := e.Score(term, t, contextText, position)
			if res.Score > best.Score {
				best = res
				bestTerm = term
			}
		}
		if best.Score <= 0 {
			continue
		}
		out = append(out, Candidate{
			Component:       t,
			Confidence:      best.Confidence,
			Score:           best.Score,
			Term:            bestTerm,
			MatchType:       layout.MatchHybridScoring,
			Props:           map[string]interface{}{"text": textnorm.Title(bestTerm)},
			PassedThreshold: best.Passed,
			Breakdown:       best.Breakdown,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Confidence > out[j].Confidence
	})
	return out
}

// SelectMatches keeps passed candidates and truncates them to the configured
// maximum. The input must already be sorted.
func (e *Engine) SelectMatches(candidates []Candidate) []Candidate {
	out := make([]Candidate, 0, len(candidates))
	for _, c := range candidates {
		if c.PassedThreshold {
			out = append(out, c)
		}
	}
	if k := e.cfg.MaxMatches; k > 0 && len(out) > k {
		out = out[:k]
	}
	return out
}

func (e *Engine) exactScore(term string, t catalog.ComponentType) float64 {
	lower := textnorm.Lower(strings.TrimSpace(term))
	for _, r := range e.rules {
		if r.component == t && strings.Contains(lower, r.key) {
			return 1
		}
	}
	return 0
}

func (e *Engine) fuzzyScore(term string, t catalog.ComponentType) float64 {
	lower := textnorm.Lower(term)
	best := 0.0
	for _, candidate := range e.terms[t] {
		best = math.Max(best, TokenSetRatio(lower, candidate))
	}
	return best
}

func (e *Engine) contextScore(t catalog.ComponentType, contextText string) float64 {
	if contextText == "" {
		return 0
	}
	return stepScore(e.contextTriggers[t], textnorm.Lower(contextText), contextStep)
}

func (e *Engine) positionScore(t catalog.ComponentType, positionHint string) float64 {
	if positionHint == "" {
		return 0
	}
	return stepScore(e.positionTriggers[catalog.SectionFor(t)], textnorm.Lower(positionHint), positionStep)
}

// applyRules clamps into [min, max] first and only then subtracts the
// generic penalty, so a generic term can end below the floor.
func (e *Engine) applyRules(score float64, term string) float64 {
	score = clamp(score, e.cfg.MinConfidence, e.cfg.MaxConfidence)

	lower := textnorm.Lower(term)
	for _, g := range e.generic {
		if strings.Contains(lower, g) {
			score -= e.cfg.GenericPenalty
			break
		}
	}
	return math.Max(score, 0)
}

func stepScore(triggers []string, text string, step float64) float64 {
	if len(triggers) == 0 {
		return 0
	}
	matches := 0
	for _, trig := range triggers {
		if strings.Contains(text, trig) {
			matches++
		}
	}
	return math.Min(float64(matches)*step, 1)
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}

func lowerAll(items []string) []string {
	out := make([]string, 0, len(items))
	for _, s := range items {
		out = append(out, textnorm.Lower(s))
	}
	return out
}

// formatWeight prints whole weights with one decimal, e.g. "1.0".
func formatWeight(w float64) string {
	if w == math.Trunc(w) {
		return strconv.FormatFloat(w, 'f', 1, 64)
	}
	return strconv.FormatFloat(w, 'f', -1, 64)
}
