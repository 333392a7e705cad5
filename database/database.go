package database

import (
	"context"

	"github.com/minjcho/findoc-be/types"
)

// ChunkIndex is the vector index backend: upsert-by-key of chunk sets,
// nearest-neighbor and keyword queries, delete by security code.
type ChunkIndex interface {
	// ReplaceChunks atomically swaps the chunk set for the chunks' security
	// code: everything previously indexed under that code is removed first.
	ReplaceChunks(ctx context.Context, securityCode string, chunks []types.Chunk) error
	DeleteBySecurityCode(ctx context.Context, securityCode string) (int64, error)
	HasChunks(ctx context.Context, securityCode string) (bool, error)

	// VectorSearch returns hits scored by similarity in [0,1].
	VectorSearch(ctx context.Context, vector []float32, limit int) ([]types.ChunkHit, error)
	// KeywordSearch returns hits with raw BM25 scores (unbounded).
	KeywordSearch(ctx context.Context, query string, limit int) ([]types.ChunkHit, error)
}

// DocumentCache is a read-through cache in front of the document store.
type DocumentCache interface {
	Get(ctx context.Context, securityCode string) (*types.Document, bool)
	Set(ctx context.Context, doc *types.Document)
	Invalidate(ctx context.Context, securityCode string)
}
