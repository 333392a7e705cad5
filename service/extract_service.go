package service

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/minjcho/findoc-be/config"
	"github.com/minjcho/findoc-be/types"
	"github.com/minjcho/findoc-be/utils"
	"golang.org/x/time/rate"
)

// ProgressFunc is invoked after every page finishes, successful or not.
type ProgressFunc func(processed, total int)

// PageSource yields raw page text for extraction. *PDFDocument satisfies it.
type PageSource interface {
	PageCount() int
	PageText(index int) (string, error)
}

// ExtractService runs per-page LLM extraction with bounded concurrency.
// A page that fails after one retry does not stop the remaining pages.
type ExtractService struct {
	extractor   Extractor
	limiter     *rate.Limiter
	maxInFlight int
	pageTimeout time.Duration
}

func NewExtractService(extractor Extractor, cfg config.PipelineConfig) *ExtractService {
	maxInFlight := cfg.MaxConcurrentPages
	if maxInFlight < 1 {
		maxInFlight = 1
	}
	ratePerSec := cfg.LLMRatePerSec
	if ratePerSec <= 0 {
		ratePerSec = 1
	}
	return &ExtractService{
		extractor:   extractor,
		limiter:     rate.NewLimiter(rate.Limit(ratePerSec), maxInFlight),
		maxInFlight: maxInFlight,
		pageTimeout: time.Duration(cfg.PageTimeoutSec) * time.Second,
	}
}

// ExtractPages extracts every page of the document concurrently and returns
// one result per page, ordered by page index.
func (s *ExtractService) ExtractPages(ctx context.Context, doc PageSource, prompt string, progress ProgressFunc) []types.PageResult {
	total := doc.PageCount()
	results := make([]types.PageResult, total)

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		processed int
	)
	sem := make(chan struct{}, s.maxInFlight)

	for i := 0; i < total; i++ {
		wg.Add(1)
		sem <- struct{}{}
		go func(pageIndex int) {
			defer wg.Done()
			defer func() { <-sem }()

			results[pageIndex] = s.extractPage(ctx, doc, pageIndex, prompt)

			// The callback runs under the lock so consumers writing to a
			// single-writer sink (websocket, SSE stream) never see
			// concurrent invocations.
			mu.Lock()
			processed++
			if progress != nil {
				progress(processed, total)
			}
			mu.Unlock()
		}(i)
	}
	wg.Wait()

	return results
}

func (s *ExtractService) extractPage(ctx context.Context, doc PageSource, pageIndex int, prompt string) types.PageResult {
	result := types.PageResult{PageIndex: pageIndex}

	pageText, err := doc.PageText(pageIndex)
	if err != nil {
		result.Error = (&utils.ExtractionError{PageIndex: pageIndex, Err: err}).Error()
		return result
	}

	text, err := s.callExtractor(ctx, pageIndex, pageText, prompt)
	if err != nil && ctx.Err() == nil {
		log.Printf("page %d extraction failed, retrying: %v", pageIndex+1, err)
		text, err = s.callExtractor(ctx, pageIndex, pageText, prompt)
	}
	if err != nil {
		result.Error = (&utils.ExtractionError{PageIndex: pageIndex, Err: err}).Error()
		return result
	}

	result.Text = text
	result.Succeeded = true
	return result
}

func (s *ExtractService) callExtractor(ctx context.Context, pageIndex int, pageText, prompt string) (string, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return "", err
	}
	pageCtx, cancel := context.WithTimeout(ctx, s.pageTimeout)
	defer cancel()
	return s.extractor.ExtractPage(pageCtx, pageIndex+1, pageText, prompt)
}
