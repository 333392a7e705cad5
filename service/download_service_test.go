package service

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/minjcho/findoc-be/config"
	"github.com/minjcho/findoc-be/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDownloadTestService(t *testing.T, baseURL string, maxSizeMB int) *DownloadService {
	t.Helper()
	svc, err := NewDownloadService(config.PipelineConfig{
		ReportBaseURL:      baseURL,
		MaxPDFSizeMB:       maxSizeMB,
		DownloadTimeoutSec: 5,
	}, t.TempDir())
	require.NoError(t, err)
	return svc
}

func TestDownloadReport_Success(t *testing.T) {
	payload := []byte("%PDF-1.4 fake body")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "005930"))
		w.Header().Set("Content-Type", "application/pdf")
		w.Write(payload)
	}))
	defer server.Close()

	svc := newDownloadTestService(t, server.URL+"/", 1)
	report, err := svc.DownloadReport(context.Background(), "005930")
	require.NoError(t, err)
	defer svc.Cleanup(report.Path)

	assert.Equal(t, int64(len(payload)), report.Size)
	assert.True(t, strings.HasPrefix(report.Filename, "005930_"))
	assert.True(t, strings.HasSuffix(report.Filename, ".pdf"))

	data, err := os.ReadFile(report.Path)
	require.NoError(t, err)
	assert.Equal(t, payload, data)
}

func TestDownloadReport_RejectsNonPDF(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte("<html>not a report</html>"))
	}))
	defer server.Close()

	svc := newDownloadTestService(t, server.URL+"/", 1)
	_, err := svc.DownloadReport(context.Background(), "005930")
	require.Error(t, err)

	var dlErr *utils.DownloadError
	assert.True(t, errors.As(err, &dlErr))
}

func TestDownloadReport_RejectsServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	svc := newDownloadTestService(t, server.URL+"/", 1)
	_, err := svc.DownloadReport(context.Background(), "005930")
	require.Error(t, err)
}

func TestDownloadReport_RejectsOversizedBody(t *testing.T) {
	big := make([]byte, 2<<20)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		w.Write(big)
	}))
	defer server.Close()

	svc := newDownloadTestService(t, server.URL+"/", 1)
	_, err := svc.DownloadReport(context.Background(), "005930")
	require.Error(t, err)

	var dlErr *utils.DownloadError
	assert.True(t, errors.As(err, &dlErr))
}

func TestReportURL(t *testing.T) {
	svc := newDownloadTestService(t, "https://reports.example.com/pdf/", 1)
	assert.Equal(t, "https://reports.example.com/pdf/005930", svc.ReportURL("005930"))
}
