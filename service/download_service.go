package service

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/minjcho/findoc-be/config"
	"github.com/minjcho/findoc-be/utils"
)

// DownloadedReport describes one fetched PDF on local disk. The file is
// temporary; the caller removes it after processing.
type DownloadedReport struct {
	Path     string
	Filename string
	URL      string
	Size     int64
}

// DownloadService fetches report PDFs for a security code from the
// configured report endpoint.
type DownloadService struct {
	baseURL     string
	downloadDir string
	maxSize     int64
	client      *http.Client
}

func NewDownloadService(cfg config.PipelineConfig, downloadDir string) (*DownloadService, error) {
	if err := utils.EnsureDir(downloadDir); err != nil {
		return nil, err
	}
	return &DownloadService{
		baseURL:     cfg.ReportBaseURL,
		downloadDir: downloadDir,
		maxSize:     int64(cfg.MaxPDFSizeMB) << 20,
		client: &http.Client{
			Timeout: time.Duration(cfg.DownloadTimeoutSec) * time.Second,
		},
	}, nil
}

// ReportURL builds the download URL for a security code.
func (s *DownloadService) ReportURL(securityCode string) string {
	return s.baseURL + securityCode
}

func (s *DownloadService) DownloadReport(ctx context.Context, securityCode string) (*DownloadedReport, error) {
	url := s.ReportURL(securityCode)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &utils.DownloadError{URL: url, Err: err}
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, &utils.DownloadError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &utils.DownloadError{URL: url, Err: fmt.Errorf("HTTP %d", resp.StatusCode)}
	}
	contentType := resp.Header.Get("Content-Type")
	if !strings.Contains(contentType, "application/pdf") {
		return nil, &utils.DownloadError{URL: url, Err: fmt.Errorf("unexpected content type %q", contentType)}
	}
	if resp.ContentLength > s.maxSize {
		return nil, &utils.DownloadError{URL: url, Err: fmt.Errorf("file size %d exceeds limit %d", resp.ContentLength, s.maxSize)}
	}

	filename := utils.ReportFilename(securityCode, time.Now())
	path := filepath.Join(s.downloadDir, filename)

	dst, err := os.Create(path)
	if err != nil {
		return nil, &utils.DownloadError{URL: url, Err: err}
	}
	defer dst.Close()

	// LimitReader one past the cap so an oversized stream is detectable.
	written, err := io.Copy(dst, io.LimitReader(resp.Body, s.maxSize+1))
	if err != nil {
		os.Remove(path)
		return nil, &utils.DownloadError{URL: url, Err: err}
	}
	if written > s.maxSize {
		os.Remove(path)
		return nil, &utils.DownloadError{URL: url, Err: fmt.Errorf("downloaded file exceeds limit %d", s.maxSize)}
	}

	log.Printf("Downloaded report %s (%d bytes)", filename, written)
	return &DownloadedReport{
		Path:     path,
		Filename: filename,
		URL:      url,
		Size:     written,
	}, nil
}

// Cleanup removes a downloaded temp file.
func (s *DownloadService) Cleanup(path string) {
	if err := os.Remove(path); err != nil {
		log.Printf("Warning: failed to remove %s: %v", path, err)
	}
}
