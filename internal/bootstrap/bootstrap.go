// Package bootstrap assembles the mapper and its collaborators from config.
// Every step degrades instead of failing: a missing vocabulary source falls
// back to the builtin one, an unreachable redis disables the cache.
package bootstrap

import (
	"context"
	"fmt"
	"sort"
	"time"

	"visual-mapper/internal/cache"
	"visual-mapper/internal/common/config"
	"visual-mapper/internal/common/database"
	"visual-mapper/internal/common/errors"
	"visual-mapper/internal/common/logger"
	"visual-mapper/internal/common/metrics"
	"visual-mapper/internal/common/validation"
	"visual-mapper/internal/mapping/pipeline"
	"visual-mapper/internal/mapping/props"
	"visual-mapper/internal/vocabulary"
)

// LoadSchemas loads the props schemas and logs every broken file.
func LoadSchemas(cfg *config.Config, log logger.Logger) *validation.SchemaStore {
	if !cfg.PropsSynthesis.Enabled || !cfg.PropsSynthesis.ValidationEnabled {
		return nil
	}
	store := validation.LoadSchemaStore(cfg.PropsSynthesis.SchemasPath)
	broken := store.Broken()
	names := make([]string, 0, len(broken))
	for name := range broken {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		stdErr := errors.NewSchemaLoadFailedError(name, broken[name])
		log.Warn("Props schema unusable, its components will get default props", map[string]interface{}{
			"schema":    name,
			"errorCode": string(stdErr.Code),
			"error":     stdErr.Details,
		})
	}
	log.Info("Props schemas loaded", map[string]interface{}{
		"path":    cfg.PropsSynthesis.SchemasPath,
		"schemas": len(store.Names()),
		"broken":  len(broken),
	})
	return store
}

// NewMapper loads the vocabulary and schemas and builds the pipeline.
func NewMapper(ctx context.Context, cfg *config.Config, log logger.Logger) (*pipeline.Mapper, error) {
	snap := vocabulary.Load(ctx, cfg.Vocabulary, log)
	schemas := LoadSchemas(cfg, log)

	var validator props.SchemaValidator
	if schemas != nil {
		validator = schemas
	}
	m, err := pipeline.New(cfg.Mapping(), snap, validator, log)
	if err != nil {
		return nil, errors.NewVocabularyLoadFailedError(cfg.Vocabulary.Source, err)
	}
	return m, nil
}

// ReloadVocabulary re-reads the configured vocabulary source and swaps it in.
// On failure the current vocabulary stays active.
func ReloadVocabulary(ctx context.Context, m *pipeline.Mapper, cfg *config.Config, log logger.Logger) error {
	snap, err := vocabulary.LoadStrict(ctx, cfg.Vocabulary)
	if err == nil {
		err = m.Reload(snap)
	}
	if err != nil {
		metrics.VocabularyReloads.WithLabelValues("failed").Inc()
		stdErr := errors.NewVocabularyLoadFailedError(cfg.Vocabulary.Source, err)
		log.Warn("Vocabulary reload failed, keeping current vocabulary", map[string]interface{}{
			"version": m.VocabularyVersion(),
			"error":   stdErr.Details,
		})
		return stdErr
	}
	metrics.VocabularyReloads.WithLabelValues("ok").Inc()
	return nil
}

// OpenCache connects the response cache. The returned close func is never
// nil. A disabled or unreachable cache yields a pass-through cache.
func OpenCache(ctx context.Context, cfg *config.Config, log logger.Logger) (*cache.Cache, func() error) {
	noop := func() error { return nil }
	if !cfg.Cache.Enabled {
		return cache.New(nil, cache.Options{}, log), noop
	}

	client, err := database.NewRedis(cfg.Cache.Redis)
	if err == nil {
		err = retryWithBackoff(ctx, func() error { return client.Ping(ctx) }, 3, 200*time.Millisecond, log, "Redis connection")
	}
	if err != nil {
		stdErr := errors.NewCacheUnavailableError(err)
		log.Warn("Response cache disabled", map[string]interface{}{
			"address":   cfg.Cache.Redis.Address,
			"errorCode": string(stdErr.Code),
			"error":     stdErr.Details,
		})
		if client != nil {
			_ = client.Close()
		}
		return cache.New(nil, cache.Options{}, log), noop
	}

	log.Info("Response cache connected", map[string]interface{}{
		"address": cfg.Cache.Redis.Address,
		"ttl":     cfg.Cache.TTL().String(),
	})
	return cache.New(client.Client, cache.Options{TTL: cfg.Cache.TTL(), KeyPrefix: cfg.Cache.KeyPrefix}, log), client.Close
}

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(ctx context.Context, operation func() error, maxRetries int, initialDelay time.Duration, log logger.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		if err = operation(); err == nil {
			return nil
		}
		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName), map[string]interface{}{
				"error":       err.Error(),
				"attempt":     i + 1,
				"maxRetries":  maxRetries,
				"nextRetryIn": delay.String(),
			})
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return ctx.Err()
			}
			delay *= 2
		}
	}
	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}
