package service

import (
	"context"
	"fmt"
	"log"
	"os"
	"sync"

	"github.com/minjcho/findoc-be/database"
	"github.com/minjcho/findoc-be/repository"
	"github.com/minjcho/findoc-be/types"
)

// DocumentService drives the full pipeline for one security code: download
// the report, extract every page, aggregate and persist the document.
type DocumentService interface {
	// ProcessReport runs the pipeline for req.SecurityCode. Concurrent calls
	// for the same code are serialized; different codes run independently.
	ProcessReport(ctx context.Context, req types.ProcessRequest, progress func(types.ProcessingStatus)) (*types.Document, error)
	GetBySecurityCode(ctx context.Context, securityCode string) (*types.Document, error)
	GetByID(ctx context.Context, id string) (*types.Document, error)
	List(ctx context.Context, filter types.DocumentFilter, skip, limit int) ([]*types.Document, int64, error)
	UpdateStatus(ctx context.Context, id, status string) error
	DeleteByID(ctx context.Context, id string) error
	DeleteBySecurityCode(ctx context.Context, securityCode string) error
	CleanupDuplicates(ctx context.Context) (int64, error)
}

type documentService struct {
	repo       repository.DocumentRepo
	cache      database.DocumentCache
	index      database.ChunkIndex
	downloader *DownloadService
	pdf        *PDFService
	extract    *ExtractService
	prompts    *PromptService
	locks      sync.Map
}

func NewDocumentService(
	repo repository.DocumentRepo,
	cache database.DocumentCache,
	index database.ChunkIndex,
	downloader *DownloadService,
	pdf *PDFService,
	extract *ExtractService,
	prompts *PromptService,
) DocumentService {
	return &documentService{
		repo:       repo,
		cache:      cache,
		index:      index,
		downloader: downloader,
		pdf:        pdf,
		extract:    extract,
		prompts:    prompts,
	}
}

func (s *documentService) lockFor(securityCode string) *sync.Mutex {
	mu, _ := s.locks.LoadOrStore(securityCode, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

func (s *documentService) ProcessReport(ctx context.Context, req types.ProcessRequest, progress func(types.ProcessingStatus)) (*types.Document, error) {
	mu := s.lockFor(req.SecurityCode)
	mu.Lock()
	defer mu.Unlock()

	notify := func(status types.ProcessingStatus) {
		if progress != nil {
			status.SecurityCode = req.SecurityCode
			progress(status)
		}
	}

	notify(types.ProcessingStatus{
		Status:  types.DOCUMENT_STATUS_PENDING,
		Message: "downloading report",
	})
	report, err := s.downloader.DownloadReport(ctx, req.SecurityCode)
	if err != nil {
		return nil, err
	}
	defer s.downloader.Cleanup(report.Path)

	data, err := os.ReadFile(report.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read downloaded report: %w", err)
	}
	doc, err := s.pdf.Open(data)
	if err != nil {
		return nil, fmt.Errorf("failed to open report for %s: %w", req.SecurityCode, err)
	}

	totalPages := doc.PageCount()
	prompt := s.prompts.Get(req.PromptProfile, req.CustomPrompt)

	notify(types.ProcessingStatus{
		Status:     types.DOCUMENT_STATUS_PROCESSING,
		Message:    "extracting pages",
		TotalPages: totalPages,
	})
	results := s.extract.ExtractPages(ctx, doc, prompt, func(processed, total int) {
		notify(types.ProcessingStatus{
			Status:         types.DOCUMENT_STATUS_PROCESSING,
			Message:        fmt.Sprintf("extracted page %d of %d", processed, total),
			Progress:       float64(processed) / float64(total),
			TotalPages:     total,
			ProcessedPages: processed,
		})
	})
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	document, err := AggregateDocument(req.SecurityCode, req.PromptProfile, totalPages, results)
	if err != nil {
		return nil, err
	}
	document.SourceURL = report.URL
	document.Filename = report.Filename
	document.FileSize = report.Size

	saved, err := s.repo.Upsert(ctx, document)
	if err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx, req.SecurityCode)

	if len(saved.FailedPages) > 0 {
		log.Printf("document %s saved with %d failed pages: %v", req.SecurityCode, len(saved.FailedPages), saved.FailedPages)
	}
	notify(types.ProcessingStatus{
		Status:         saved.Status,
		Message:        "document saved",
		Progress:       1,
		TotalPages:     totalPages,
		ProcessedPages: totalPages,
	})
	return saved, nil
}

func (s *documentService) GetBySecurityCode(ctx context.Context, securityCode string) (*types.Document, error) {
	if doc, ok := s.cache.Get(ctx, securityCode); ok {
		return doc, nil
	}
	doc, err := s.repo.GetBySecurityCode(ctx, securityCode)
	if err != nil {
		return nil, err
	}
	s.cache.Set(ctx, doc)
	return doc, nil
}

func (s *documentService) GetByID(ctx context.Context, id string) (*types.Document, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *documentService) List(ctx context.Context, filter types.DocumentFilter, skip, limit int) ([]*types.Document, int64, error) {
	return s.repo.List(ctx, filter, skip, limit)
}

func (s *documentService) UpdateStatus(ctx context.Context, id, status string) error {
	doc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return err
	}
	s.cache.Invalidate(ctx, doc.SecurityCode)
	return nil
}

func (s *documentService) DeleteByID(ctx context.Context, id string) error {
	doc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteByID(ctx, id); err != nil {
		return err
	}
	s.cache.Invalidate(ctx, doc.SecurityCode)
	if _, err := s.index.DeleteBySecurityCode(ctx, doc.SecurityCode); err != nil {
		log.Printf("failed to remove chunks for %s: %v", doc.SecurityCode, err)
	}
	return nil
}

func (s *documentService) DeleteBySecurityCode(ctx context.Context, securityCode string) error {
	if err := s.repo.DeleteBySecurityCode(ctx, securityCode); err != nil {
		return err
	}
	s.cache.Invalidate(ctx, securityCode)
	if _, err := s.index.DeleteBySecurityCode(ctx, securityCode); err != nil {
		log.Printf("failed to remove chunks for %s: %v", securityCode, err)
	}
	return nil
}

func (s *documentService) CleanupDuplicates(ctx context.Context) (int64, error) {
	return s.repo.CleanupDuplicates(ctx)
}
