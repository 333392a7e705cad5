package service

import (
	"context"
	"log"

	"github.com/minjcho/findoc-be/config"
	"github.com/minjcho/findoc-be/database"
	"github.com/minjcho/findoc-be/repository"
	"github.com/minjcho/findoc-be/types"
	"github.com/minjcho/findoc-be/utils"
)

// IndexService chunks a stored document, embeds the chunks and replaces the
// vector index entries for its security code.
type IndexService interface {
	// IndexDocument re-indexes the document for securityCode. The previous
	// chunk set for the code is fully replaced, so re-running it for
	// unchanged content is a no-op in effect.
	IndexDocument(ctx context.Context, securityCode string) (*types.IndexResult, error)
	HasChunks(ctx context.Context, securityCode string) (bool, error)
	DeleteChunks(ctx context.Context, securityCode string) (int64, error)
}

type indexService struct {
	repo      repository.DocumentRepo
	index     database.ChunkIndex
	embedder  Embedder
	chunkSize int
	overlap   int
	batchSize int
}

func NewIndexService(repo repository.DocumentRepo, index database.ChunkIndex, embedder Embedder, cfg config.PipelineConfig) IndexService {
	return &indexService{
		repo:      repo,
		index:     index,
		embedder:  embedder,
		chunkSize: cfg.ChunkSize,
		overlap:   cfg.ChunkOverlap,
		batchSize: cfg.EmbedBatchSize,
	}
}

func (s *indexService) IndexDocument(ctx context.Context, securityCode string) (*types.IndexResult, error) {
	doc, err := s.repo.GetBySecurityCode(ctx, securityCode)
	if err != nil {
		return nil, err
	}

	pieces := SplitText(doc.Content, s.chunkSize, s.overlap)
	chunks := make([]types.Chunk, 0, len(pieces))
	for i, piece := range pieces {
		chunks = append(chunks, types.Chunk{
			SecurityCode: securityCode,
			ChunkNumber:  i,
			Text:         piece,
			DocumentID:   doc.ID,
			Filename:     doc.Filename,
		})
	}

	embedded, failed, err := s.embedChunks(ctx, chunks)
	if err != nil {
		return nil, err
	}

	if err := s.index.ReplaceChunks(ctx, securityCode, embedded); err != nil {
		return nil, err
	}
	if failed > 0 {
		log.Printf("indexed %s with %d of %d chunks, %d embedding failures", securityCode, len(embedded), len(chunks), failed)
	}

	return &types.IndexResult{
		SecurityCode: securityCode,
		ChunkCount:   len(embedded),
		FailedChunks: failed,
	}, nil
}

// embedChunks embeds chunks batch by batch. A failed batch drops its chunks
// and is counted; other batches still go through.
func (s *indexService) embedChunks(ctx context.Context, chunks []types.Chunk) ([]types.Chunk, int, error) {
	batchSize := s.batchSize
	if batchSize < 1 {
		batchSize = 1
	}

	embedded := make([]types.Chunk, 0, len(chunks))
	failed := 0
	for start := 0; start < len(chunks); start += batchSize {
		end := start + batchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		if ctx.Err() != nil {
			return nil, 0, ctx.Err()
		}

		texts := make([]string, 0, end-start)
		for _, chunk := range chunks[start:end] {
			texts = append(texts, chunk.Text)
		}
		vectors, err := s.embedder.EmbedTexts(ctx, texts)
		if err != nil {
			failed += end - start
			log.Printf("embedding batch failed: %v", &utils.EmbeddingError{BatchStart: start, BatchEnd: end, Err: err})
			continue
		}
		for i, vector := range vectors {
			chunk := chunks[start+i]
			chunk.Embedding = vector
			embedded = append(embedded, chunk)
		}
	}
	return embedded, failed, nil
}

func (s *indexService) HasChunks(ctx context.Context, securityCode string) (bool, error) {
	return s.index.HasChunks(ctx, securityCode)
}

func (s *indexService) DeleteChunks(ctx context.Context, securityCode string) (int64, error) {
	return s.index.DeleteBySecurityCode(ctx, securityCode)
}
