package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/minjcho/findoc-be/config"
	"github.com/sashabaranov/go-openai"
)

// OpenAIService backs both page extraction (chat completion) and embedding
// against an OpenAI-compatible endpoint.
type OpenAIService struct {
	client     *openai.Client
	model      string
	embedModel string
	dimension  int
	maxTokens  int
}

func NewOpenAIService(cfg config.OpenAIConfig) *OpenAIService {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	clientConfig.BaseURL = cfg.BaseURL
	client := openai.NewClientWithConfig(clientConfig)
	return &OpenAIService{
		client:     client,
		model:      cfg.Model,
		embedModel: cfg.EmbeddingModel,
		dimension:  cfg.EmbeddingDimension,
		maxTokens:  cfg.MaxTokens,
	}
}

func (s *OpenAIService) ExtractPage(ctx context.Context, pageNumber int, pageText, prompt string) (string, error) {
	resp, err := s.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: s.model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleSystem,
					Content: prompt,
				},
				{
					Role:    openai.ChatMessageRoleUser,
					Content: fmt.Sprintf("Page %d content:\n\n%s", pageNumber, pageText),
				},
			},
			MaxTokens: s.maxTokens,
		},
	)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no response generated")
	}
	return resp.Choices[0].Message.Content, nil
}

// EmbedTexts embeds a batch in one call. The response is re-ordered by the
// API's index field so output order always matches input order.
func (s *OpenAIService) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	resp, err := s.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input:      texts,
		Model:      openai.EmbeddingModel(s.embedModel),
		Dimensions: s.dimension,
	})
	if err != nil {
		return nil, err
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("embedding count mismatch: sent %d texts, got %d vectors", len(texts), len(resp.Data))
	}

	vectors := make([][]float32, len(texts))
	for _, item := range resp.Data {
		if item.Index < 0 || item.Index >= len(texts) {
			return nil, fmt.Errorf("embedding index %d out of range", item.Index)
		}
		if len(item.Embedding) != s.dimension {
			return nil, fmt.Errorf("embedding dimension mismatch: expected %d, got %d", s.dimension, len(item.Embedding))
		}
		vectors[item.Index] = item.Embedding
	}
	return vectors, nil
}

func (s *OpenAIService) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	vectors, err := s.EmbedTexts(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(vectors) != 1 {
		return nil, errors.New("no embedding returned for query")
	}
	return vectors[0], nil
}
