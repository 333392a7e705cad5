package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestReportFilename(t *testing.T) {
	now := time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
	assert.Equal(t, "005930_20250314_092653.pdf", ReportFilename("005930", now))
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "report_2025.pdf", SanitizeFilename("report/2025.pdf"))
	assert.Equal(t, "a_b_c", SanitizeFilename(`a\b:c`))
	assert.Equal(t, "plain.pdf", SanitizeFilename("plain.pdf"))
}

func TestGetFileNameWithoutExt(t *testing.T) {
	assert.Equal(t, "005930_20250314_092653", GetFileNameWithoutExt("005930_20250314_092653.pdf"))
	assert.Equal(t, "noext", GetFileNameWithoutExt("noext"))
}
