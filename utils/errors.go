package utils

import (
	"errors"
	"fmt"
)

// ErrDocumentNotFound is the normal empty-result outcome of a lookup. It is
// never wrapped inside a StorageError.
var ErrDocumentNotFound = errors.New("document not found")

// ErrInvalidQuery rejects malformed search or pagination parameters before
// any backend call is made.
var ErrInvalidQuery = errors.New("invalid query parameters")

// ExtractionError records a single failed page. It never aborts the
// document; the aggregator folds it into failed_pages.
type ExtractionError struct {
	PageIndex int
	Err       error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("failed to extract page %d: %v", e.PageIndex, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// AggregationError signals a mismatch between the declared page count and
// the observed page results. Fatal to the document run.
type AggregationError struct {
	SecurityCode string
	Expected     int
	Got          int
}

func (e *AggregationError) Error() string {
	return fmt.Sprintf("page count mismatch for %s: expected %d results, got %d", e.SecurityCode, e.Expected, e.Got)
}

// StorageError wraps connectivity or backend failures from the document
// store or the vector index. Distinct from ErrDocumentNotFound.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error during %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// EmbeddingError reports a failed embedding batch. Failed chunks are
// excluded from the index and surfaced, never silently dropped.
type EmbeddingError struct {
	BatchStart int
	BatchEnd   int
	Err        error
}

func (e *EmbeddingError) Error() string {
	return fmt.Sprintf("failed to embed chunks %d-%d: %v", e.BatchStart, e.BatchEnd, e.Err)
}

func (e *EmbeddingError) Unwrap() error { return e.Err }

// DownloadError reports a failed report download for a security code.
type DownloadError struct {
	URL string
	Err error
}

func (e *DownloadError) Error() string {
	return fmt.Sprintf("failed to download %s: %v", e.URL, e.Err)
}

func (e *DownloadError) Unwrap() error { return e.Err }
