// Package cache stores search responses in Redis keyed by model, query
// options, result limit and the normalised query text. Concurrent misses
// for the same key are collapsed into one computation.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/Adithya-Monish-Kumar-K/retrieval-engine/internal/indexer/tokenizer"
	"github.com/Adithya-Monish-Kumar-K/retrieval-engine/internal/searcher/orchestrator"
	"github.com/Adithya-Monish-Kumar-K/retrieval-engine/pkg/metrics"
	pkgredis "github.com/Adithya-Monish-Kumar-K/retrieval-engine/pkg/redis"
)

const keyPrefix = "search:"

// Backend is the key-value store behind the cache; *pkgredis.Client
// implements it.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	FlushByPattern(ctx context.Context, pattern string) (int64, error)
}

// Key identifies one cached search.
type Key struct {
	Model   string
	Query   string
	Options tokenizer.Options
	Limit   int
}

// Entry is what gets cached for a Key.
type Entry struct {
	Model   string                `json:"model"`
	Results []orchestrator.Result `json:"results"`
}

type QueryCache struct {
	backend Backend
	ttl     time.Duration
	metrics *metrics.Metrics
	group   singleflight.Group
	logger  *slog.Logger
	hits    atomic.Int64
	misses  atomic.Int64
}

// New returns a cache over backend. m may be nil.
func New(backend Backend, ttl time.Duration, m *metrics.Metrics) *QueryCache {
	return &QueryCache{
		backend: backend,
		ttl:     ttl,
		metrics: m,
		logger:  slog.Default().With("component", "query-cache"),
	}
}

func (c *QueryCache) Get(ctx context.Context, key Key) (*Entry, bool) {
	k := buildKey(key)
	data, err := c.backend.Get(ctx, k)
	if err != nil {
		if !pkgredis.IsNilError(err) {
			c.logger.Error("cache get failed", "key", k, "error", err)
		}
		c.miss()
		return nil, false
	}
	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		c.logger.Error("cache unmarshal failed", "key", k, "error", err)
		c.miss()
		return nil, false
	}
	c.hits.Add(1)
	if c.metrics != nil {
		c.metrics.CacheHitsTotal.Inc()
	}
	c.logger.Debug("cache hit", "query", key.Query, "key", k)
	return &entry, true
}

func (c *QueryCache) Set(ctx context.Context, key Key, entry *Entry) {
	k := buildKey(key)
	data, err := json.Marshal(entry)
	if err != nil {
		c.logger.Error("cache marshal failed", "key", k, "error", err)
		return
	}
	if err := c.backend.Set(ctx, k, data, c.ttl); err != nil {
		c.logger.Error("cache set failed", "key", k, "error", err)
	}
}

// GetOrCompute returns the cached entry for key or computes, stores and
// returns it. The boolean reports a cache hit. A computed entry whose model
// differs from key.Model is returned but not stored.
func (c *QueryCache) GetOrCompute(ctx context.Context, key Key, compute func() (*Entry, error)) (*Entry, bool, error) {
	if entry, ok := c.Get(ctx, key); ok {
		return entry, true, nil
	}
	val, err, _ := c.group.Do(buildKey(key), func() (any, error) {
		entry, err := compute()
		if err != nil {
			return nil, err
		}
		if entry.Model != key.Model {
			c.logger.Debug("model changed during search, not caching",
				"query", key.Query, "key_model", key.Model, "entry_model", entry.Model)
			return entry, nil
		}
		c.Set(ctx, key, entry)
		return entry, nil
	})
	if err != nil {
		return nil, false, err
	}
	return val.(*Entry), false, nil
}

// Invalidate deletes every cached search.
func (c *QueryCache) Invalidate(ctx context.Context) (int64, error) {
	deleted, err := c.backend.FlushByPattern(ctx, keyPrefix+"*")
	if err != nil {
		return deleted, fmt.Errorf("invalidating cache: %w", err)
	}
	c.logger.Info("cache invalidated", "keys_deleted", deleted)
	return deleted, nil
}

func (c *QueryCache) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

func (c *QueryCache) miss() {
	c.misses.Add(1)
	if c.metrics != nil {
		c.metrics.CacheMissesTotal.Inc()
	}
}

// buildKey hashes the key fields. Query text is lower-cased with runs of
// whitespace collapsed; operator order is kept because boolean queries
// fold left to right.
func buildKey(key Key) string {
	raw := fmt.Sprintf("%s|stem=%t|stop=%t|k=%d|%s",
		key.Model, key.Options.Stemming, key.Options.StopwordFiltering, key.Limit, normalizeQuery(key.Query))
	hash := sha256.Sum256([]byte(raw))
	return fmt.Sprintf("%s%x", keyPrefix, hash[:16])
}

func normalizeQuery(query string) string {
	return strings.Join(strings.Fields(strings.ToLower(query)), " ")
}
