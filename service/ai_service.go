package service

import (
	"context"
)

// Extractor turns one page of raw PDF text into cleaned Markdown via an
// external text-completion capability.
type Extractor interface {
	ExtractPage(ctx context.Context, pageNumber int, pageText, prompt string) (string, error)
}

// Embedder maps text to fixed-dimension vectors with a single configured
// model. Query and ingestion embeddings must use the same model.
type Embedder interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}
