package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/minjcho/findoc-be/database"
	"github.com/minjcho/findoc-be/types"
	"github.com/minjcho/findoc-be/utils"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) database.DocumentCache {
	t.Helper()
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	return database.NewRedisDocumentCacheWithClient(client, 5*time.Minute)
}

func newTestDocumentService(repo *fakeDocumentRepo, cache database.DocumentCache, index *fakeChunkIndex) DocumentService {
	return NewDocumentService(repo, cache, index, nil, nil, nil, nil)
}

func TestGetBySecurityCode_CachesAfterFirstRead(t *testing.T) {
	repo := newFakeDocumentRepo()
	repo.docs["005930"] = storedDocument("005930", "cached content")
	cache := newTestCache(t)
	svc := newTestDocumentService(repo, cache, newFakeChunkIndex())

	ctx := context.Background()
	first, err := svc.GetBySecurityCode(ctx, "005930")
	require.NoError(t, err)

	// Remove from the repo; the cache must now serve the read.
	delete(repo.docs, "005930")
	second, err := svc.GetBySecurityCode(ctx, "005930")
	require.NoError(t, err)
	assert.Equal(t, first.Content, second.Content)
}

func TestGetBySecurityCode_NotFound(t *testing.T) {
	svc := newTestDocumentService(newFakeDocumentRepo(), newTestCache(t), newFakeChunkIndex())

	_, err := svc.GetBySecurityCode(context.Background(), "999999")
	require.ErrorIs(t, err, utils.ErrDocumentNotFound)
}

func TestUpdateStatus_InvalidatesCache(t *testing.T) {
	repo := newFakeDocumentRepo()
	repo.docs["005930"] = storedDocument("005930", "original")
	cache := newTestCache(t)
	svc := newTestDocumentService(repo, cache, newFakeChunkIndex())

	ctx := context.Background()
	_, err := svc.GetBySecurityCode(ctx, "005930")
	require.NoError(t, err)

	require.NoError(t, svc.UpdateStatus(ctx, "id-005930", types.DOCUMENT_STATUS_FAILED))

	doc, err := svc.GetBySecurityCode(ctx, "005930")
	require.NoError(t, err)
	assert.Equal(t, types.DOCUMENT_STATUS_FAILED, doc.Status)
}

func TestDeleteBySecurityCode_RemovesChunksAndCache(t *testing.T) {
	repo := newFakeDocumentRepo()
	repo.docs["005930"] = storedDocument("005930", "to delete")
	cache := newTestCache(t)
	index := newFakeChunkIndex()
	svc := newTestDocumentService(repo, cache, index)

	ctx := context.Background()
	_, err := svc.GetBySecurityCode(ctx, "005930")
	require.NoError(t, err)

	require.NoError(t, svc.DeleteBySecurityCode(ctx, "005930"))

	assert.Equal(t, int64(1), index.deleted["005930"])
	_, err = svc.GetBySecurityCode(ctx, "005930")
	assert.ErrorIs(t, err, utils.ErrDocumentNotFound)
}

func TestDeleteByID_RemovesChunksForCode(t *testing.T) {
	repo := newFakeDocumentRepo()
	repo.docs["000660"] = storedDocument("000660", "by id")
	index := newFakeChunkIndex()
	svc := newTestDocumentService(repo, newTestCache(t), index)

	require.NoError(t, svc.DeleteByID(context.Background(), "id-000660"))
	assert.Equal(t, int64(1), index.deleted["000660"])
}

func TestUpsert_PreservesCreatedAt(t *testing.T) {
	repo := newFakeDocumentRepo()
	ctx := context.Background()

	first, err := repo.Upsert(ctx, &types.Document{SecurityCode: "005930", Content: "v1", CreatedAt: 100, UpdatedAt: 100})
	require.NoError(t, err)

	second, err := repo.Upsert(ctx, &types.Document{SecurityCode: "005930", Content: "v2", CreatedAt: 200, UpdatedAt: 200})
	require.NoError(t, err)

	assert.Equal(t, first.CreatedAt, second.CreatedAt)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "v2", second.Content)
	assert.Equal(t, 2, repo.upserts)
}
