package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/omnix-ai/orchestrator/internal/models"
)

func newTestCache(t *testing.T) (*PageCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return newPageCache(rdb, 30*time.Minute, zap.NewNop()), mr
}

func TestPageCacheRoundTrip(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	page := models.FetchedPage{
		SourceURL:   "https://example.com/article",
		Succeeded:   true,
		Content:     "Body text.",
		Author:      "J. Writer",
		PublishedAt: "2025-03-01",
	}
	c.Put(ctx, page)

	got, ok := c.Get(ctx, "https://example.com/article")
	require.True(t, ok)
	assert.Equal(t, page, got)
}

func TestPageCacheMiss(t *testing.T) {
	c, _ := newTestCache(t)

	_, ok := c.Get(context.Background(), "https://example.com/unknown")
	assert.False(t, ok)
}

func TestPageCacheSkipsFailedFetches(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	c.Put(ctx, models.FetchedPage{SourceURL: "https://example.com/broken", Error: "timeout"})

	_, ok := c.Get(ctx, "https://example.com/broken")
	assert.False(t, ok)
}

func TestPageCacheTTL(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	c.Put(ctx, models.FetchedPage{SourceURL: "https://example.com/a", Succeeded: true, Content: "x"})
	mr.FastForward(31 * time.Minute)

	_, ok := c.Get(ctx, "https://example.com/a")
	assert.False(t, ok)
}

func TestPageCacheDropsCorruptEntry(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, mr.Set(Key("https://example.com/bad"), "not-json"))

	_, ok := c.Get(ctx, "https://example.com/bad")
	assert.False(t, ok)
	// The corrupt entry is evicted on read.
	assert.False(t, mr.Exists(Key("https://example.com/bad")))
}
