package vocabulary

import (
	"context"
	"fmt"
	"strings"

	"visual-mapper/internal/common/database"
	"visual-mapper/internal/common/logger"
)

const (
	SourceBuiltin = "builtin"
	SourceFile    = "file"
	SourceSQL     = "sql"
)

// SourceConfig selects where the vocabulary comes from.
type SourceConfig struct {
	Source   string                  `mapstructure:"source"`
	Path     string                  `mapstructure:"path"`
	Driver   string                  `mapstructure:"driver"`
	Postgres database.PostgresConfig `mapstructure:"postgres"`
	SQLite   database.SQLiteConfig   `mapstructure:"sqlite"`
	// SeedIfEmpty writes the builtin vocabulary into an empty SQL store.
	SeedIfEmpty bool `mapstructure:"seed_if_empty"`
}

// DefaultSourceConfig uses the compiled-in vocabulary.
func DefaultSourceConfig() SourceConfig {
	return SourceConfig{
		Source: SourceBuiltin,
		Driver: string(DialectSQLite),
		SQLite: database.SQLiteConfig{Path: "data/vocabulary.db"},
	}
}

// Load resolves the configured source. Any failure falls back to the builtin
// vocabulary and is logged as a warning, so the mapper always starts.
func Load(ctx context.Context, cfg SourceConfig, log logger.Logger) *Snapshot {
	snap, err := LoadStrict(ctx, cfg)
	if err != nil {
		log.Warn("Vocabulary source unavailable, using builtin vocabulary", map[string]interface{}{
			"source": cfg.Source,
			"error":  err.Error(),
		})
		return Builtin()
	}
	log.Info("Vocabulary loaded", map[string]interface{}{
		"source":     cfg.Source,
		"version":    snap.Version,
		"components": len(snap.Components),
	})
	return snap
}

// LoadStrict resolves the configured source and reports failures.
func LoadStrict(ctx context.Context, cfg SourceConfig) (*Snapshot, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Source)) {
	case "", SourceBuiltin:
		return Builtin(), nil
	case SourceFile:
		if cfg.Path == "" {
			return nil, fmt.Errorf("vocabulary.path is required for the file source")
		}
		return LoadFile(cfg.Path)
	case SourceSQL:
		store, closeFn, err := OpenStore(cfg)
		if err != nil {
			return nil, err
		}
		defer closeFn()
		if err := store.Migrate(ctx); err != nil {
			return nil, err
		}
		snap, err := store.Load(ctx)
		if err != nil && cfg.SeedIfEmpty {
			if seedErr := store.Seed(ctx, Builtin()); seedErr != nil {
				return nil, fmt.Errorf("seed empty store: %w", seedErr)
			}
			return store.Load(ctx)
		}
		return snap, err
	default:
		return nil, fmt.Errorf("unknown vocabulary source %q", cfg.Source)
	}
}

// OpenStore opens the SQL store named by cfg.Driver. The returned func closes
// the underlying connection.
func OpenStore(cfg SourceConfig) (*Store, func() error, error) {
	switch Dialect(cfg.Driver) {
	case DialectPostgres:
		client, err := database.NewPostgres(cfg.Postgres)
		if err != nil {
			return nil, nil, err
		}
		return NewStore(client.DB, DialectPostgres), client.Close, nil
	case DialectSQLite, "sqlite", "":
		client, err := database.NewSQLite(cfg.SQLite)
		if err != nil {
			return nil, nil, err
		}
		return NewStore(client.DB, DialectSQLite), client.Close, nil
	default:
		return nil, nil, fmt.Errorf("unsupported vocabulary driver %q", cfg.Driver)
	}
}
