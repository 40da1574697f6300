// Package pipeline wires template selection, scoring, assembly, balancing and
// props synthesis into the single map operation.
package pipeline

import (
	"errors"
	"fmt"
	"strings"
	"sync/atomic"

	"visual-mapper/internal/common/logger"
	"visual-mapper/internal/common/textnorm"
	"visual-mapper/internal/mapping/assembler"
	"visual-mapper/internal/mapping/balancer"
	"visual-mapper/internal/mapping/layout"
	"visual-mapper/internal/mapping/props"
	"visual-mapper/internal/mapping/scoring"
	"visual-mapper/internal/mapping/template"
	"visual-mapper/internal/vocabulary"
)

const StatusOK = "ok"

// Request is the input of one mapping.
type Request struct {
	SessionID  string   `json:"session_id"`
	Entities   []string `json:"entities"`
	Keyphrases []string `json:"keyphrases"`
	Template   string   `json:"template,omitempty"`
}

// Response is the result of one mapping.
type Response struct {
	Status       string              `json:"status"`
	SessionID    string              `json:"session_id"`
	Layout       layout.Layout       `json:"layout"`
	Matches      []scoring.Candidate `json:"matches"`
	Explanations []string            `json:"explanations"`
	Warnings     []string            `json:"warnings,omitempty"`
}

// Config bundles the settings of every stage.
type Config struct {
	Scoring   scoring.Config  `mapstructure:"scoring"`
	Balancing balancer.Config `mapstructure:"section_balancing"`
	Props     props.Config    `mapstructure:"props_synthesis"`
}

// DefaultConfig returns the built-in settings of every stage.
func DefaultConfig() Config {
	return Config{
		Scoring:   scoring.DefaultConfig(),
		Balancing: balancer.DefaultConfig(),
		Props:     props.DefaultConfig(),
	}
}

// runtime is everything derived from one vocabulary snapshot. It is replaced
// as a whole on reload and never mutated.
type runtime struct {
	snapshot         *vocabulary.Snapshot
	engine           *scoring.Engine
	positionKeywords []string
}

// Mapper runs the mapping pipeline. It is safe for concurrent use; Reload
// swaps the vocabulary without blocking in-flight requests.
type Mapper struct {
	cfg         Config
	selector    *template.Selector
	balancer    *balancer.Balancer
	synthesizer *props.Synthesizer
	log         logger.Logger
	rt          atomic.Pointer[runtime]
}

// New builds a mapper over snap. schemas may be nil.
func New(cfg Config, snap *vocabulary.Snapshot, schemas props.SchemaValidator, log logger.Logger) (*Mapper, error) {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	m := &Mapper{
		cfg:         cfg,
		selector:    template.NewSelector(),
		balancer:    balancer.New(cfg.Balancing),
		synthesizer: props.New(cfg.Props, schemas),
		log:         log,
	}
	if unknown := m.synthesizer.UnknownGeneratorKeys(); len(unknown) > 0 {
		log.Warn("Ignoring props generators for unknown component types", map[string]interface{}{
			"keys": unknown,
		})
	}
	if err := m.Reload(snap); err != nil {
		return nil, err
	}
	return m, nil
}

// Reload compiles snap and makes it current. An invalid snapshot leaves the
// current one in place.
func (m *Mapper) Reload(snap *vocabulary.Snapshot) error {
	if snap == nil {
		return errors.New("vocabulary snapshot is nil")
	}
	if err := snap.Validate(); err != nil {
		return fmt.Errorf("invalid vocabulary: %w", err)
	}
	snap = snap.Clone()
	keywords := make([]string, 0, len(snap.PositionKeywords))
	for _, kw := range snap.PositionKeywords {
		if kw = textnorm.Lower(strings.TrimSpace(kw)); kw != "" {
			keywords = append(keywords, kw)
		}
	}
	m.rt.Store(&runtime{
		snapshot:         snap,
		engine:           scoring.NewEngine(m.cfg.Scoring, snap),
		positionKeywords: keywords,
	})
	m.log.Info("Vocabulary activated", map[string]interface{}{
		"version":    snap.Version,
		"components": len(snap.Components),
	})
	return nil
}

// Vocabulary returns a copy of the current snapshot.
func (m *Mapper) Vocabulary() *vocabulary.Snapshot {
	return m.rt.Load().snapshot.Clone()
}

// VocabularyVersion is the version of the current snapshot.
func (m *Mapper) VocabularyVersion() string {
	return m.rt.Load().snapshot.Version
}

// Config returns the mapper settings.
func (m *Mapper) Config() Config { return m.cfg }

// Templates lists the known template names.
func (m *Mapper) Templates() []string { return m.selector.Names() }

// Map turns entities and keyphrases into a populated layout. It never fails:
// every degraded path is reported through warnings.
func (m *Mapper) Map(req Request) Response {
	rt := m.rt.Load()

	entities := textnorm.NormalizeAll(req.Entities)
	keyphrases := textnorm.NormalizeAll(req.Keyphrases)
	all := make([]string, 0, len(entities)+len(keyphrases))
	all = append(all, entities...)
	all = append(all, keyphrases...)
	contextText := strings.Join(all, " ")

	selection := m.selector.Resolve(req.Template, entities, keyphrases)
	skeleton := m.selector.Skeleton(selection.Template)

	candidates := rt.engine.ScoreComponents(entities, keyphrases, contextText, PositionHints(all, rt.positionKeywords))
	matches := rt.engine.SelectMatches(candidates)

	instances := make([]layout.ComponentInstance, len(matches))
	for i, c := range matches {
		instances[i] = c.Instance()
	}
	assembled, _ := assembler.Assemble(skeleton, instances)
	balanced := m.balancer.Balance(assembled)
	final, _ := m.synthesizer.Synthesize(balanced, entities, keyphrases, contextText)

	explanations := make([]string, 0, len(matches)+1)
	explanations = append(explanations, selection.Explanation)
	for _, c := range matches {
		explanations = append(explanations, Explain(c))
	}

	resp := Response{
		Status:       StatusOK,
		SessionID:    req.SessionID,
		Layout:       final,
		Matches:      matches,
		Explanations: explanations,
	}
	if len(final.Warnings) > 0 {
		resp.Warnings = append([]string(nil), final.Warnings...)
	}
	return resp
}

// PositionHints returns the items that mention a position keyword, in input
// order.
func PositionHints(items, keywords []string) []string {
	var hints []string
	for _, item := range items {
		lower := textnorm.Lower(item)
		for _, kw := range keywords {
			if strings.Contains(lower, kw) {
				hints = append(hints, item)
				break
			}
		}
	}
	return hints
}

// Explain renders one match as "term → component (match_type, confidence)".
func Explain(c scoring.Candidate) string {
	return fmt.Sprintf("%s → %s (%s, %.2f)", c.Term, c.Component, c.MatchType, c.Confidence)
}
