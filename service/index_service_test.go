package service

import (
	"context"
	"strings"
	"testing"

	"github.com/minjcho/findoc-be/config"
	"github.com/minjcho/findoc-be/types"
	"github.com/minjcho/findoc-be/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDocumentRepo struct {
	docs         map[string]*types.Document
	upserts      int
	lastUpserted *types.Document
}

func newFakeDocumentRepo() *fakeDocumentRepo {
	return &fakeDocumentRepo{docs: make(map[string]*types.Document)}
}

func (f *fakeDocumentRepo) Upsert(ctx context.Context, doc *types.Document) (*types.Document, error) {
	f.upserts++
	stored := *doc
	if existing, ok := f.docs[doc.SecurityCode]; ok {
		stored.ID = existing.ID
		stored.CreatedAt = existing.CreatedAt
	} else if stored.ID == "" {
		stored.ID = "id-" + doc.SecurityCode
	}
	f.docs[doc.SecurityCode] = &stored
	f.lastUpserted = &stored
	return &stored, nil
}

func (f *fakeDocumentRepo) GetBySecurityCode(ctx context.Context, securityCode string) (*types.Document, error) {
	doc, ok := f.docs[securityCode]
	if !ok {
		return nil, utils.ErrDocumentNotFound
	}
	return doc, nil
}

func (f *fakeDocumentRepo) GetByID(ctx context.Context, id string) (*types.Document, error) {
	for _, doc := range f.docs {
		if doc.ID == id {
			return doc, nil
		}
	}
	return nil, utils.ErrDocumentNotFound
}

func (f *fakeDocumentRepo) List(ctx context.Context, filter types.DocumentFilter, skip, limit int) ([]*types.Document, int64, error) {
	var docs []*types.Document
	for _, doc := range f.docs {
		docs = append(docs, doc)
	}
	return docs, int64(len(docs)), nil
}

func (f *fakeDocumentRepo) UpdateStatus(ctx context.Context, id, status string) error {
	for _, doc := range f.docs {
		if doc.ID == id {
			doc.Status = status
			return nil
		}
	}
	return utils.ErrDocumentNotFound
}

func (f *fakeDocumentRepo) DeleteByID(ctx context.Context, id string) error {
	for code, doc := range f.docs {
		if doc.ID == id {
			delete(f.docs, code)
			return nil
		}
	}
	return utils.ErrDocumentNotFound
}

func (f *fakeDocumentRepo) DeleteBySecurityCode(ctx context.Context, securityCode string) error {
	if _, ok := f.docs[securityCode]; !ok {
		return utils.ErrDocumentNotFound
	}
	delete(f.docs, securityCode)
	return nil
}

func (f *fakeDocumentRepo) CleanupDuplicates(ctx context.Context) (int64, error) {
	return 0, nil
}

func indexPipelineConfig() config.PipelineConfig {
	return config.PipelineConfig{
		ChunkSize:      100,
		ChunkOverlap:   20,
		EmbedBatchSize: 2,
	}
}

func storedDocument(code, content string) *types.Document {
	return &types.Document{
		ID:           "id-" + code,
		SecurityCode: code,
		Filename:     code + "_20250101_120000.pdf",
		Content:      content,
		Status:       types.DOCUMENT_STATUS_COMPLETED,
	}
}

func TestIndexDocument_ChunksAndReplaces(t *testing.T) {
	repo := newFakeDocumentRepo()
	content := strings.Repeat("The company reported record revenue this quarter. ", 20)
	repo.docs["005930"] = storedDocument("005930", content)
	index := newFakeChunkIndex()
	svc := NewIndexService(repo, index, newFakeEmbedder(), indexPipelineConfig())

	result, err := svc.IndexDocument(context.Background(), "005930")
	require.NoError(t, err)

	assert.Equal(t, "005930", result.SecurityCode)
	assert.Zero(t, result.FailedChunks)
	assert.Greater(t, result.ChunkCount, 1)

	chunks := index.replaced["005930"]
	require.Len(t, chunks, result.ChunkCount)
	for i, chunk := range chunks {
		assert.Equal(t, i, chunk.ChunkNumber)
		assert.Equal(t, "005930", chunk.SecurityCode)
		assert.Equal(t, "id-005930", chunk.DocumentID)
		assert.NotEmpty(t, chunk.Embedding)
	}
}

func TestIndexDocument_MissingDocument(t *testing.T) {
	svc := NewIndexService(newFakeDocumentRepo(), newFakeChunkIndex(), newFakeEmbedder(), indexPipelineConfig())

	_, err := svc.IndexDocument(context.Background(), "999999")
	require.ErrorIs(t, err, utils.ErrDocumentNotFound)
}

func TestIndexDocument_FailedBatchIsCountedAndExcluded(t *testing.T) {
	repo := newFakeDocumentRepo()
	content := strings.Repeat("Paragraph about earnings and guidance for the year. ", 20)
	repo.docs["000660"] = storedDocument("000660", content)
	index := newFakeChunkIndex()
	embedder := newFakeEmbedder()
	embedder.failBatch[1] = true
	svc := NewIndexService(repo, index, embedder, indexPipelineConfig())

	result, err := svc.IndexDocument(context.Background(), "000660")
	require.NoError(t, err)

	assert.Equal(t, 2, result.FailedChunks)
	chunks := index.replaced["000660"]
	assert.Len(t, chunks, result.ChunkCount)
	for _, chunk := range chunks {
		assert.NotEmpty(t, chunk.Embedding)
	}
}

func TestIndexDocument_Rerunnable(t *testing.T) {
	repo := newFakeDocumentRepo()
	content := strings.Repeat("Stable content that does not change between runs. ", 20)
	repo.docs["035420"] = storedDocument("035420", content)
	index := newFakeChunkIndex()
	svc := NewIndexService(repo, index, newFakeEmbedder(), indexPipelineConfig())

	first, err := svc.IndexDocument(context.Background(), "035420")
	require.NoError(t, err)
	second, err := svc.IndexDocument(context.Background(), "035420")
	require.NoError(t, err)

	assert.Equal(t, first.ChunkCount, second.ChunkCount)
	chunks := index.replaced["035420"]
	require.Len(t, chunks, second.ChunkCount)
	for i, chunk := range chunks {
		assert.Equal(t, i, chunk.ChunkNumber)
	}
}
