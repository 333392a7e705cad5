package database

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/go-openapi/strfmt"
	"github.com/google/uuid"
	"github.com/minjcho/findoc-be/config"
	"github.com/minjcho/findoc-be/types"
	"github.com/minjcho/findoc-be/utils"
	"github.com/weaviate/weaviate-go-client/v4/weaviate"
	"github.com/weaviate/weaviate-go-client/v4/weaviate/auth"
	"github.com/weaviate/weaviate-go-client/v4/weaviate/filters"
	"github.com/weaviate/weaviate-go-client/v4/weaviate/graphql"
	"github.com/weaviate/weaviate/entities/models"
)

const BATCH_SIZE = 200

// chunkIDNamespace makes weaviate object IDs a pure function of
// (securityCode, chunkNumber): writing the same key overwrites in place, so
// no two live objects can share a key.
var chunkIDNamespace = uuid.MustParse("8f1c6a52-09c4-4a52-9e3b-6b1f3f6f8d21")

var (
	REPORT_CHUNK_CLASS        = "ReportChunk"
	REPORT_CHUNK_CLASS_OBJECT = &models.Class{
		Class: REPORT_CHUNK_CLASS,
		Properties: []*models.Property{
			{Name: "securityCode", DataType: []string{"text"}},
			{Name: "chunkNumber", DataType: []string{"int"}},
			{Name: "content", DataType: []string{"text"}},
			{Name: "documentId", DataType: []string{"text"}},
			{Name: "filename", DataType: []string{"text"}},
		},
		// Vectors are computed by the embedding service, not by weaviate.
		Vectorizer:      "none",
		VectorIndexType: "hnsw",
	}
)

type WeaviateStore struct {
	client *weaviate.Client
}

func NewWeaviateStore(cfg config.WeaviateConfig) (*WeaviateStore, error) {
	var scheme string
	if strings.Contains(cfg.Host, "https") {
		scheme = "https"
	} else {
		scheme = "http"
	}
	host := strings.TrimPrefix(cfg.Host, scheme+"://")
	weaviateConfig := weaviate.Config{
		Host:   host,
		Scheme: scheme,
	}
	if cfg.APIKey != "" {
		weaviateConfig.AuthConfig = auth.ApiKey{
			Value: cfg.APIKey,
		}
	}
	client, err := weaviate.NewClient(weaviateConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create weaviate client: %v", err)
	}

	schema, err := client.Schema().Getter().Do(context.Background())
	if err != nil {
		return nil, fmt.Errorf("failed to get schema: %v", err)
	}

	hasChunkClass := false
	for _, class := range schema.Classes {
		if class.Class == REPORT_CHUNK_CLASS {
			hasChunkClass = true
			break
		}
	}
	if !hasChunkClass {
		err = client.Schema().ClassCreator().WithClass(REPORT_CHUNK_CLASS_OBJECT).Do(context.Background())
		if err != nil {
			return nil, fmt.Errorf("failed to create ReportChunk class: %v", err)
		}
	}
	return &WeaviateStore{
		client: client,
	}, nil
}

// ReInit drops and recreates the chunk class, discarding all indexed chunks.
func (s *WeaviateStore) ReInit() error {
	err := s.client.Schema().ClassDeleter().WithClassName(REPORT_CHUNK_CLASS).Do(context.Background())
	if err != nil {
		return fmt.Errorf("failed to delete ReportChunk class: %v", err)
	}

	err = s.client.Schema().ClassCreator().WithClass(REPORT_CHUNK_CLASS_OBJECT).Do(context.Background())
	if err != nil {
		return fmt.Errorf("failed to create ReportChunk class: %v", err)
	}
	return nil
}

// ChunkObjectID derives the deterministic weaviate object ID for one
// (securityCode, chunkNumber) pair.
func ChunkObjectID(securityCode string, chunkNumber int) string {
	return uuid.NewSHA1(chunkIDNamespace, []byte(fmt.Sprintf("%s#%d", securityCode, chunkNumber))).String()
}

func (s *WeaviateStore) ReplaceChunks(ctx context.Context, securityCode string, chunks []types.Chunk) error {
	if _, err := s.DeleteBySecurityCode(ctx, securityCode); err != nil {
		return err
	}

	total := len(chunks)
	for i := 0; i < total; i += BATCH_SIZE {
		end := i + BATCH_SIZE
		if end > total {
			end = total
		}

		batcher := s.client.Batch().ObjectsBatcher()
		for j := i; j < end; j++ {
			properties := map[string]interface{}{
				"securityCode": chunks[j].SecurityCode,
				"chunkNumber":  chunks[j].ChunkNumber,
				"content":      chunks[j].Text,
				"documentId":   chunks[j].DocumentID,
				"filename":     chunks[j].Filename,
			}
			batcher = batcher.WithObjects(&models.Object{
				ID:         strfmt.UUID(ChunkObjectID(chunks[j].SecurityCode, chunks[j].ChunkNumber)),
				Class:      REPORT_CHUNK_CLASS,
				Properties: properties,
				Vector:     models.C11yVector(chunks[j].Embedding),
			})
		}

		if _, err := batcher.Do(ctx); err != nil {
			return &utils.StorageError{Op: "chunk batch insert", Err: fmt.Errorf("batch %d-%d: %v", i, end, err)}
		}
		log.Printf("Indexed chunk batch %d-%d of %d for %s", i, end, total, securityCode)
	}

	return nil
}

func (s *WeaviateStore) DeleteBySecurityCode(ctx context.Context, securityCode string) (int64, error) {
	where := filters.Where().
		WithPath([]string{"securityCode"}).
		WithOperator(filters.Equal).
		WithValueString(securityCode)

	response, err := s.client.Batch().ObjectsBatchDeleter().
		WithClassName(REPORT_CHUNK_CLASS).
		WithWhere(where).
		WithOutput("minimal").
		Do(ctx)
	if err != nil {
		return 0, &utils.StorageError{Op: "chunk delete", Err: err}
	}
	if response.Results == nil {
		return 0, nil
	}
	return response.Results.Successful, nil
}

func (s *WeaviateStore) HasChunks(ctx context.Context, securityCode string) (bool, error) {
	where := filters.Where().
		WithPath([]string{"securityCode"}).
		WithOperator(filters.Equal).
		WithValueString(securityCode)

	result, err := s.client.GraphQL().Get().
		WithClassName(REPORT_CHUNK_CLASS).
		WithFields(graphql.Field{Name: "chunkNumber"}).
		WithWhere(where).
		WithLimit(1).
		Do(ctx)
	if err != nil {
		return false, &utils.StorageError{Op: "chunk lookup", Err: err}
	}
	if result.Errors != nil {
		return false, &utils.StorageError{Op: "chunk lookup", Err: fmt.Errorf("%v", result.Errors[0].Message)}
	}
	return len(parseChunkItems(result.Data)) > 0, nil
}

func (s *WeaviateStore) VectorSearch(ctx context.Context, vector []float32, limit int) ([]types.ChunkHit, error) {
	nearVector := (&graphql.NearVectorArgumentBuilder{}).WithVector(vector)

	result, err := s.client.GraphQL().Get().
		WithClassName(REPORT_CHUNK_CLASS).
		WithFields(chunkFields("certainty")...).
		WithNearVector(nearVector).
		WithLimit(limit).
		Do(ctx)
	if err != nil {
		return nil, &utils.StorageError{Op: "vector search", Err: err}
	}
	if result.Errors != nil {
		return nil, &utils.StorageError{Op: "vector search", Err: fmt.Errorf("%v", result.Errors[0].Message)}
	}

	var hits []types.ChunkHit
	for _, item := range parseChunkItems(result.Data) {
		hit := parseChunkHit(item)
		if additional, ok := item["_additional"].(map[string]interface{}); ok {
			hit.Score = parseScore(additional["certainty"])
		}
		hits = append(hits, hit)
	}
	return hits, nil
}

func (s *WeaviateStore) KeywordSearch(ctx context.Context, query string, limit int) ([]types.ChunkHit, error) {
	bm25 := (&graphql.BM25ArgumentBuilder{}).
		WithQuery(query).
		WithProperties("content")

	result, err := s.client.GraphQL().Get().
		WithClassName(REPORT_CHUNK_CLASS).
		WithFields(chunkFields("score")...).
		WithBM25(bm25).
		WithLimit(limit).
		Do(ctx)
	if err != nil {
		return nil, &utils.StorageError{Op: "keyword search", Err: err}
	}
	if result.Errors != nil {
		return nil, &utils.StorageError{Op: "keyword search", Err: fmt.Errorf("%v", result.Errors[0].Message)}
	}

	var hits []types.ChunkHit
	for _, item := range parseChunkItems(result.Data) {
		hit := parseChunkHit(item)
		if additional, ok := item["_additional"].(map[string]interface{}); ok {
			hit.Score = parseScore(additional["score"])
		}
		hits = append(hits, hit)
	}
	return hits, nil
}

func chunkFields(additional string) []graphql.Field {
	return []graphql.Field{
		{Name: "securityCode"},
		{Name: "chunkNumber"},
		{Name: "content"},
		{Name: "_additional", Fields: []graphql.Field{{Name: additional}}},
	}
}

// Helper functions

func parseChunkItems(data map[string]models.JSONObject) []map[string]interface{} {
	get, ok := data["Get"].(map[string]interface{})
	if !ok {
		return nil
	}
	raw, ok := get[REPORT_CHUNK_CLASS].([]interface{})
	if !ok {
		return nil
	}
	items := make([]map[string]interface{}, 0, len(raw))
	for _, entry := range raw {
		if item, ok := entry.(map[string]interface{}); ok {
			items = append(items, item)
		}
	}
	return items
}

func parseChunkHit(item map[string]interface{}) types.ChunkHit {
	hit := types.ChunkHit{}
	if code, ok := item["securityCode"].(string); ok {
		hit.SecurityCode = code
	}
	if num, ok := item["chunkNumber"].(float64); ok {
		hit.ChunkNumber = int(num)
	}
	if content, ok := item["content"].(string); ok {
		hit.Text = content
	}
	return hit
}

// parseScore handles weaviate returning scores as either numbers or strings
// depending on the field.
func parseScore(v interface{}) float64 {
	switch s := v.(type) {
	case float64:
		return s
	case string:
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}
