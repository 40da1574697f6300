package vocabulary

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"strings"

	"visual-mapper/internal/catalog"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// Dialect selects the embedded migration script. Queries use $n placeholders,
// which both drivers accept.
type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite3"
)

const (
	triggerContext         = "context"
	triggerPosition        = "position"
	triggerPositionKeyword = "position_keyword"
	triggerGeneric         = "generic"

	metaVersion = "version"
)

const (
	queryVersion    = `SELECT meta_value FROM vocabulary_meta WHERE meta_key = $1`
	queryComponents = `SELECT name, category, description FROM components ORDER BY id`
	queryTerms      = `SELECT c.name, t.term, s.synonym
		FROM mappings m
		JOIN components c ON c.id = m.component_id
		JOIN terms t ON t.id = m.term_id
		LEFT JOIN synonyms s ON s.term_id = t.id
		ORDER BY m.id, s.id`
	queryRules    = `SELECT rule_key, component FROM exact_rules ORDER BY priority, id`
	queryTriggers = `SELECT kind, target, phrase FROM triggers ORDER BY id`
)

// Store reads and writes vocabulary snapshots in a SQL database.
type Store struct {
	db      *sql.DB
	dialect Dialect
}

// NewStore wraps an open database handle.
func NewStore(db *sql.DB, dialect Dialect) *Store {
	return &Store{db: db, dialect: dialect}
}

// Migrate creates the vocabulary tables if they do not exist.
func (s *Store) Migrate(ctx context.Context) error {
	name := "migrations/postgres.sql"
	if s.dialect == DialectSQLite {
		name = "migrations/sqlite.sql"
	}
	script, err := migrationFS.ReadFile(name)
	if err != nil {
		return fmt.Errorf("read migration: %w", err)
	}
	for _, stmt := range strings.Split(string(script), ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

// Load reads a complete snapshot. Synonyms stored against a term are folded
// into the owning component's terms.
func (s *Store) Load(ctx context.Context) (*Snapshot, error) {
	snap := &Snapshot{
		ContextTriggers:  map[catalog.ComponentType][]string{},
		PositionTriggers: map[catalog.Section][]string{},
	}

	if err := s.db.QueryRowContext(ctx, queryVersion, metaVersion).Scan(&snap.Version); err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("load version: %w", err)
		}
		snap.Version = "sql"
	}

	if err := s.loadComponents(ctx, snap); err != nil {
		return nil, err
	}
	if err := s.loadTerms(ctx, snap); err != nil {
		return nil, err
	}
	if err := s.loadRules(ctx, snap); err != nil {
		return nil, err
	}
	if err := s.loadTriggers(ctx, snap); err != nil {
		return nil, err
	}

	if err := snap.Validate(); err != nil {
		return nil, fmt.Errorf("invalid stored vocabulary: %w", err)
	}
	return snap, nil
}

func (s *Store) loadComponents(ctx context.Context, snap *Snapshot) error {
	rows, err := s.db.QueryContext(ctx, queryComponents)
	if err != nil {
		return fmt.Errorf("load components: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var c Component
		var name string
		if err := rows.Scan(&name, &c.Category, &c.Description); err != nil {
			return fmt.Errorf("scan component: %w", err)
		}
		c.Name = catalog.ComponentType(name)
		snap.Components = append(snap.Components, c)
	}
	return rows.Err()
}

func (s *Store) loadTerms(ctx context.Context, snap *Snapshot) error {
	rows, err := s.db.QueryContext(ctx, queryTerms)
	if err != nil {
		return fmt.Errorf("load terms: %w", err)
	}
	defer rows.Close()

	index := make(map[catalog.ComponentType]int, len(snap.Components))
	for i, c := range snap.Components {
		index[c.Name] = i
	}
	seen := make(map[catalog.ComponentType]map[string]bool)
	add := func(name catalog.ComponentType, term string) {
		i, ok := index[name]
		if !ok || term == "" {
			return
		}
		if seen[name] == nil {
			seen[name] = map[string]bool{}
		}
		if seen[name][term] {
			return
		}
		seen[name][term] = true
		snap.Components[i].Terms = append(snap.Components[i].Terms, term)
	}

	for rows.Next() {
		var name, term string
		var synonym sql.NullString
		if err := rows.Scan(&name, &term, &synonym); err != nil {
			return fmt.Errorf("scan term: %w", err)
		}
		add(catalog.ComponentType(name), term)
		if synonym.Valid {
			add(catalog.ComponentType(name), synonym.String)
		}
	}
	return rows.Err()
}

func (s *Store) loadRules(ctx context.Context, snap *Snapshot) error {
	rows, err := s.db.QueryContext(ctx, queryRules)
	if err != nil {
		return fmt.Errorf("load exact rules: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var key, component string
		if err := rows.Scan(&key, &component); err != nil {
			return fmt.Errorf("scan exact rule: %w", err)
		}
		snap.ExactRules = append(snap.ExactRules, ExactRule{Key: key, Component: catalog.ComponentType(component)})
	}
	return rows.Err()
}

func (s *Store) loadTriggers(ctx context.Context, snap *Snapshot) error {
	rows, err := s.db.QueryContext(ctx, queryTriggers)
	if err != nil {
		return fmt.Errorf("load triggers: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var kind, target, phrase string
		if err := rows.Scan(&kind, &target, &phrase); err != nil {
			return fmt.Errorf("scan trigger: %w", err)
		}
		switch kind {
		case triggerContext:
			t := catalog.ComponentType(target)
			snap.ContextTriggers[t] = append(snap.ContextTriggers[t], phrase)
		case triggerPosition:
			sec := catalog.Section(target)
			snap.PositionTriggers[sec] = append(snap.PositionTriggers[sec], phrase)
		case triggerPositionKeyword:
			snap.PositionKeywords = append(snap.PositionKeywords, phrase)
		case triggerGeneric:
			snap.GenericTerms = append(snap.GenericTerms, phrase)
		default:
			return fmt.Errorf("unknown trigger kind %q", kind)
		}
	}
	return rows.Err()
}

// Seed replaces the stored vocabulary with snap in a single transaction.
func (s *Store) Seed(ctx context.Context, snap *Snapshot) (err error) {
	if err := snap.Validate(); err != nil {
		return fmt.Errorf("refusing to seed invalid vocabulary: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, table := range []string{"mappings", "synonyms", "terms", "components", "exact_rules", "triggers", "vocabulary_meta"} {
		if _, err = tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	if _, err = tx.ExecContext(ctx,
		`INSERT INTO vocabulary_meta (meta_key, meta_value) VALUES ($1, $2)`,
		metaVersion, snap.Version); err != nil {
		return fmt.Errorf("insert version: %w", err)
	}

	for _, c := range snap.Components {
		var componentID int64
		if err = tx.QueryRowContext(ctx,
			`INSERT INTO components (name, category, description) VALUES ($1, $2, $3) RETURNING id`,
			string(c.Name), c.Category, c.Description).Scan(&componentID); err != nil {
			return fmt.Errorf("insert component %s: %w", c.Name, err)
		}
		for _, term := range c.Terms {
			var termID int64
			if err = tx.QueryRowContext(ctx,
				`INSERT INTO terms (term) VALUES ($1) RETURNING id`, term).Scan(&termID); err != nil {
				return fmt.Errorf("insert term %q: %w", term, err)
			}
			if _, err = tx.ExecContext(ctx,
				`INSERT INTO mappings (component_id, term_id) VALUES ($1, $2)`,
				componentID, termID); err != nil {
				return fmt.Errorf("insert mapping %s/%q: %w", c.Name, term, err)
			}
		}
	}

	for i, r := range snap.ExactRules {
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO exact_rules (rule_key, component, priority) VALUES ($1, $2, $3)`,
			r.Key, string(r.Component), i); err != nil {
			return fmt.Errorf("insert exact rule %q: %w", r.Key, err)
		}
	}

	for _, tr := range triggerRows(snap) {
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO triggers (kind, target, phrase) VALUES ($1, $2, $3)`,
			tr.kind, tr.target, tr.phrase); err != nil {
			return fmt.Errorf("insert trigger %q: %w", tr.phrase, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit seed: %w", err)
	}
	return nil
}

type triggerRow struct {
	kind, target, phrase string
}

// triggerRows flattens trigger maps in a stable order: context triggers by
// snapshot component order, then sections in render order.
func triggerRows(snap *Snapshot) []triggerRow {
	var out []triggerRow
	done := make(map[catalog.ComponentType]bool)
	emit := func(t catalog.ComponentType) {
		if done[t] {
			return
		}
		done[t] = true
		for _, p := range snap.ContextTriggers[t] {
			out = append(out, triggerRow{triggerContext, string(t), p})
		}
	}
	for _, c := range snap.Components {
		emit(c.Name)
	}
	for _, t := range catalog.All {
		emit(t)
	}
	for _, sec := range catalog.Sections {
		for _, p := range snap.PositionTriggers[sec] {
			out = append(out, triggerRow{triggerPosition, string(sec), p})
		}
	}
	for _, p := range snap.PositionKeywords {
		out = append(out, triggerRow{triggerPositionKeyword, "", p})
	}
	for _, p := range snap.GenericTerms {
		out = append(out, triggerRow{triggerGeneric, "", p})
	}
	return out
}
