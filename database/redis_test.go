package database

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/minjcho/findoc-be/types"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedisCache(t *testing.T) (*RedisDocumentCache, *miniredis.Miniredis) {
	t.Helper()
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	return NewRedisDocumentCacheWithClient(client, time.Minute), server
}

func TestRedisDocumentCache_SetAndGet(t *testing.T) {
	cache, _ := newTestRedisCache(t)
	ctx := context.Background()

	doc := &types.Document{
		ID:           "abc123",
		SecurityCode: "005930",
		Content:      "## Page 1\n\nrevenue up",
		Status:       types.DOCUMENT_STATUS_COMPLETED,
	}
	cache.Set(ctx, doc)

	got, ok := cache.Get(ctx, "005930")
	require.True(t, ok)
	assert.Equal(t, doc.ID, got.ID)
	assert.Equal(t, doc.Content, got.Content)
}

func TestRedisDocumentCache_MissingKey(t *testing.T) {
	cache, _ := newTestRedisCache(t)

	_, ok := cache.Get(context.Background(), "999999")
	assert.False(t, ok)
}

func TestRedisDocumentCache_Invalidate(t *testing.T) {
	cache, _ := newTestRedisCache(t)
	ctx := context.Background()

	cache.Set(ctx, &types.Document{SecurityCode: "005930", Content: "cached"})
	cache.Invalidate(ctx, "005930")

	_, ok := cache.Get(ctx, "005930")
	assert.False(t, ok)
}

func TestRedisDocumentCache_EntriesExpire(t *testing.T) {
	cache, server := newTestRedisCache(t)
	ctx := context.Background()

	cache.Set(ctx, &types.Document{SecurityCode: "005930", Content: "short lived"})
	server.FastForward(2 * time.Minute)

	_, ok := cache.Get(ctx, "005930")
	assert.False(t, ok)
}
