// Package cache holds the Redis-backed page cache. Scraped pages are reused
// across tasks that research the same URLs, keeping repeat fetches off the
// network.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/omnix-ai/orchestrator/internal/metrics"
	"github.com/omnix-ai/orchestrator/internal/models"
)

// DefaultTTL bounds staleness of cached page content.
const DefaultTTL = 1 * time.Hour

// PageCache stores fetched pages keyed by source URL. All operations are
// best effort: a Redis failure degrades to a miss, never to a pipeline
// error.
type PageCache struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewPageCache pings Redis once so a misconfigured address fails at startup
// rather than on the first task.
func NewPageCache(addr string, ttl time.Duration, logger *zap.Logger) (*PageCache, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return newPageCache(rdb, ttl, logger), nil
}

func newPageCache(rdb *redis.Client, ttl time.Duration, logger *zap.Logger) *PageCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &PageCache{rdb: rdb, ttl: ttl, logger: logger}
}

// Get returns the cached page for url, if present. Only successful fetches
// are ever stored, so a hit is always usable content.
func (c *PageCache) Get(ctx context.Context, url string) (models.FetchedPage, bool) {
	raw, err := c.rdb.Get(ctx, Key(url)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("Page cache read failed", zap.String("url", url), zap.Error(err))
		}
		metrics.PageCacheMisses.Inc()
		return models.FetchedPage{}, false
	}

	var page models.FetchedPage
	if err := json.Unmarshal(raw, &page); err != nil {
		c.logger.Warn("Page cache entry corrupt, dropping", zap.String("url", url), zap.Error(err))
		_ = c.rdb.Del(ctx, Key(url)).Err()
		metrics.PageCacheMisses.Inc()
		return models.FetchedPage{}, false
	}
	metrics.PageCacheHits.Inc()
	return page, true
}

// Put stores a successfully fetched page. Failed fetches are not cached so
// a transient scrape error does not poison later tasks.
func (c *PageCache) Put(ctx context.Context, page models.FetchedPage) {
	if !page.Succeeded || page.SourceURL == "" {
		return
	}
	raw, err := json.Marshal(page)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, Key(page.SourceURL), raw, c.ttl).Err(); err != nil {
		c.logger.Warn("Page cache write failed", zap.String("url", page.SourceURL), zap.Error(err))
	}
}

// Key hashes the URL so arbitrary characters never leak into the keyspace.
func Key(url string) string {
	h := sha256.Sum256([]byte(url))
	return "page:" + hex.EncodeToString(h[:16])
}
