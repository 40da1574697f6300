// Package cache memoizes mapping responses in redis. A cache that is
// disabled or unreachable never fails a request; the mapping is computed
// directly instead.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"time"

	"visual-mapper/internal/common/errors"
	"visual-mapper/internal/common/logger"
	"visual-mapper/internal/common/metrics"
	"visual-mapper/internal/mapping/pipeline"

	"github.com/redis/go-redis/v9"
)

// Mapper is the part of pipeline.Mapper the cache needs.
type Mapper interface {
	Map(req pipeline.Request) pipeline.Response
	VocabularyVersion() string
}

// Options configures a Cache.
type Options struct {
	TTL       time.Duration
	KeyPrefix string
	// Timeout bounds each redis round trip.
	Timeout time.Duration
}

// Cache stores serialized responses under a digest of the mapping inputs.
type Cache struct {
	client redis.Cmdable
	opts   Options
	logger logger.Logger
}

// New wraps client. A nil client yields a pass-through cache.
func New(client redis.Cmdable, opts Options, log logger.Logger) *Cache {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 200 * time.Millisecond
	}
	return &Cache{client: client, opts: opts, logger: log.WithFields(map[string]interface{}{"component": "cache"})}
}

// Enabled reports whether lookups reach redis.
func (c *Cache) Enabled() bool { return c != nil && c.client != nil }

type keyMaterial struct {
	Template   string   `json:"template"`
	Entities   []string `json:"entities"`
	Keyphrases []string `json:"keyphrases"`
	Vocabulary string   `json:"vocabulary"`
}

// Key derives the cache key. The session id is not part of it.
func Key(prefix, vocabularyVersion string, req pipeline.Request) string {
	material, _ := json.Marshal(keyMaterial{
		Template:   req.Template,
		Entities:   req.Entities,
		Keyphrases: req.Keyphrases,
		Vocabulary: vocabularyVersion,
	})
	sum := sha256.Sum256(material)
	return prefix + hex.EncodeToString(sum[:])
}

// Get returns the cached response for key. A miss is (nil, nil).
func (c *Cache) Get(ctx context.Context, key string) (*pipeline.Response, error) {
	ctx, cancel := context.WithTimeout(ctx, c.opts.Timeout)
	defer cancel()

	raw, err := c.client.Get(ctx, key).Bytes()
	if stderrors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.NewCacheUnavailableError(fmt.Errorf("get %s: %w", key, err))
	}
	var resp pipeline.Response
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, errors.NewCacheUnavailableError(fmt.Errorf("decode %s: %w", key, err))
	}
	return &resp, nil
}

// Set stores resp under key for the configured TTL.
func (c *Cache) Set(ctx context.Context, key string, resp pipeline.Response) error {
	raw, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("encode response: %w", err)
	}
	ctx, cancel := context.WithTimeout(ctx, c.opts.Timeout)
	defer cancel()

	if err := c.client.Set(ctx, key, raw, c.opts.TTL).Err(); err != nil {
		return errors.NewCacheUnavailableError(fmt.Errorf("set %s: %w", key, err))
	}
	return nil
}

// Map answers req from the cache when possible and fills it otherwise. The
// second result reports a hit. Cache failures are logged and counted, never
// returned.
func (c *Cache) Map(ctx context.Context, m Mapper, req pipeline.Request) (pipeline.Response, bool) {
	if !c.Enabled() {
		return m.Map(req), false
	}

	key := Key(c.opts.KeyPrefix, m.VocabularyVersion(), req)
	cached, err := c.Get(ctx, key)
	switch {
	case err != nil:
		metrics.CacheLookups.WithLabelValues(metrics.CacheError).Inc()
		c.logger.Warn("Cache lookup failed, computing directly", map[string]interface{}{"error": err.Error()})
		return m.Map(req), false
	case cached != nil:
		metrics.CacheLookups.WithLabelValues(metrics.CacheHit).Inc()
		cached.SessionID = req.SessionID
		return *cached, true
	}

	metrics.CacheLookups.WithLabelValues(metrics.CacheMiss).Inc()
	resp := m.Map(req)
	if err := c.Set(ctx, key, resp); err != nil {
		c.logger.Warn("Cache store failed", map[string]interface{}{"error": err.Error()})
	}
	return resp, false
}

// Ping checks redis reachability for readiness probes.
func (c *Cache) Ping(ctx context.Context) error {
	if !c.Enabled() {
		return nil
	}
	if err := c.client.Ping(ctx).Err(); err != nil {
		return errors.NewCacheUnavailableError(err)
	}
	return nil
}
