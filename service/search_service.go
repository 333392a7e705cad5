package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/minjcho/findoc-be/config"
	"github.com/minjcho/findoc-be/database"
	"github.com/minjcho/findoc-be/types"
	"github.com/minjcho/findoc-be/utils"
)

// SearchService answers hybrid queries over the chunk index: vector
// similarity and BM25 keyword scores fused by configurable weights.
type SearchService interface {
	Search(ctx context.Context, req types.SearchRequest) ([]types.SearchResult, error)
}

type searchService struct {
	index        database.ChunkIndex
	embedder     Embedder
	defaultLimit int
	defaultVecW  float64
	defaultKeyW  float64
}

func NewSearchService(index database.ChunkIndex, embedder Embedder, cfg config.SearchConfig) SearchService {
	return &searchService{
		index:        index,
		embedder:     embedder,
		defaultLimit: cfg.DefaultLimit,
		defaultVecW:  cfg.DefaultVectorWeight,
		defaultKeyW:  cfg.DefaultKeywordWeight,
	}
}

func (s *searchService) Search(ctx context.Context, req types.SearchRequest) ([]types.SearchResult, error) {
	query := strings.TrimSpace(req.Query)
	if query == "" {
		return nil, fmt.Errorf("%w: empty query", utils.ErrInvalidQuery)
	}
	if req.Limit < 0 {
		return nil, fmt.Errorf("%w: negative limit", utils.ErrInvalidQuery)
	}

	vecW := s.defaultVecW
	keyW := s.defaultKeyW
	if req.VectorWeight != nil {
		vecW = *req.VectorWeight
	}
	if req.KeywordWeight != nil {
		keyW = *req.KeywordWeight
	}
	if vecW < 0 || keyW < 0 {
		return nil, fmt.Errorf("%w: negative weight", utils.ErrInvalidQuery)
	}
	if vecW == 0 && keyW == 0 {
		return nil, fmt.Errorf("%w: both weights are zero", utils.ErrInvalidQuery)
	}

	limit := req.Limit
	if limit == 0 {
		limit = s.defaultLimit
	}

	merged := make(map[string]*types.SearchResult)
	key := func(code string, n int) string { return fmt.Sprintf("%s#%d", code, n) }

	if vecW > 0 {
		vector, err := s.embedder.EmbedQuery(ctx, query)
		if err != nil {
			return nil, fmt.Errorf("failed to embed query: %w", err)
		}
		hits, err := s.index.VectorSearch(ctx, vector, limit)
		if err != nil {
			return nil, err
		}
		for _, hit := range hits {
			merged[key(hit.SecurityCode, hit.ChunkNumber)] = &types.SearchResult{
				SecurityCode: hit.SecurityCode,
				ChunkNumber:  hit.ChunkNumber,
				Text:         hit.Text,
				VectorScore:  hit.Score,
			}
		}
	}

	if keyW > 0 {
		hits, err := s.index.KeywordSearch(ctx, query, limit)
		if err != nil {
			return nil, err
		}
		// BM25 scores are unbounded, so normalize by the batch maximum.
		maxScore := 0.0
		for _, hit := range hits {
			if hit.Score > maxScore {
				maxScore = hit.Score
			}
		}
		for _, hit := range hits {
			normalized := 0.0
			if maxScore > 0 {
				normalized = hit.Score / maxScore
			}
			if existing, ok := merged[key(hit.SecurityCode, hit.ChunkNumber)]; ok {
				existing.KeywordScore = normalized
				continue
			}
			merged[key(hit.SecurityCode, hit.ChunkNumber)] = &types.SearchResult{
				SecurityCode: hit.SecurityCode,
				ChunkNumber:  hit.ChunkNumber,
				Text:         hit.Text,
				KeywordScore: normalized,
			}
		}
	}

	results := make([]types.SearchResult, 0, len(merged))
	for _, hit := range merged {
		hit.FusedScore = vecW*hit.VectorScore + keyW*hit.KeywordScore
		results = append(results, *hit)
	}
	sort.Slice(results, func(i, j int) bool {
		if results[i].FusedScore != results[j].FusedScore {
			return results[i].FusedScore > results[j].FusedScore
		}
		if results[i].VectorScore != results[j].VectorScore {
			return results[i].VectorScore > results[j].VectorScore
		}
		return results[i].ChunkNumber < results[j].ChunkNumber
	})

	if len(results) > limit {
		results = results[:limit]
	}
	for i := range results {
		results[i].Rank = i + 1
	}

	return results, nil
}
