package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/generative-ai-go/genai"
	"github.com/minjcho/findoc-be/config"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// GeminiService is the alternate page extraction provider. It rotates
// through the configured API keys when a call is rejected.
type GeminiService struct {
	apiKeys    []string
	currentKey int
	modelName  string
	client     *genai.Client
	model      *genai.GenerativeModel
	mu         sync.Mutex
}

func NewGeminiService(cfg config.GeminiConfig) (*GeminiService, error) {
	if len(cfg.APIKeys) == 0 {
		return nil, errors.New("no API keys provided")
	}

	service := &GeminiService{
		apiKeys:    cfg.APIKeys,
		currentKey: 0,
		modelName:  cfg.Model,
	}
	if err := service.initClient(); err != nil {
		return nil, err
	}
	return service, nil
}

func (s *GeminiService) initClient() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	client, err := genai.NewClient(context.Background(), option.WithAPIKey(s.apiKeys[s.currentKey]))
	if err != nil {
		return err
	}
	s.client = client
	s.model = client.GenerativeModel(s.modelName)
	return nil
}

func (s *GeminiService) rotateAPIKey() error {
	s.mu.Lock()
	s.currentKey = (s.currentKey + 1) % len(s.apiKeys)
	if err := s.client.Close(); err != nil {
		s.mu.Unlock()
		return err
	}
	s.mu.Unlock()
	return s.initClient()
}

func (s *GeminiService) ExtractPage(ctx context.Context, pageNumber int, pageText, prompt string) (string, error) {
	text, err := s.generate(ctx, pageNumber, pageText, prompt)
	if err == nil {
		return text, nil
	}
	if ctx.Err() != nil {
		return "", err
	}
	// One rotation attempt covers quota exhaustion on the current key.
	if rotateErr := s.rotateAPIKey(); rotateErr != nil {
		return "", fmt.Errorf("extraction failed and key rotation failed: %v (original: %w)", rotateErr, err)
	}
	return s.generate(ctx, pageNumber, pageText, prompt)
}

func (s *GeminiService) generate(ctx context.Context, pageNumber int, pageText, prompt string) (string, error) {
	s.mu.Lock()
	model := s.model
	s.mu.Unlock()

	iter := model.GenerateContentStream(ctx,
		genai.Text(prompt),
		genai.Text(fmt.Sprintf("Page %d content:\n\n%s", pageNumber, pageText)),
	)

	var sb strings.Builder
	for {
		resp, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return "", err
		}
		for _, candidate := range resp.Candidates {
			if candidate.Content == nil {
				continue
			}
			for _, part := range candidate.Content.Parts {
				if text, ok := part.(genai.Text); ok {
					sb.WriteString(string(text))
				}
			}
		}
	}
	if sb.Len() == 0 {
		return "", errors.New("no response generated")
	}
	return sb.String(), nil
}

func (s *GeminiService) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.client.Close()
}
