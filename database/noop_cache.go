package database

import (
	"context"

	"github.com/minjcho/findoc-be/types"
)

// NoopDocumentCache is used when no Redis address is configured. Every
// lookup misses and writes are discarded.
type NoopDocumentCache struct{}

func NewNoopDocumentCache() *NoopDocumentCache {
	return &NoopDocumentCache{}
}

func (NoopDocumentCache) Get(ctx context.Context, securityCode string) (*types.Document, bool) {
	return nil, false
}

func (NoopDocumentCache) Set(ctx context.Context, doc *types.Document) {}

func (NoopDocumentCache) Invalidate(ctx context.Context, securityCode string) {}
