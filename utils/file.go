package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ReportFilename builds the stored filename for a downloaded report:
// {security_code}_{yyyymmdd_hhmmss}.pdf
func ReportFilename(securityCode string, now time.Time) string {
	return fmt.Sprintf("%s_%s.pdf", SanitizeFilename(securityCode), now.Format("20060102_150405"))
}

// SanitizeFilename replaces characters that are unsafe in file names.
func SanitizeFilename(name string) string {
	return strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' || r == '.' {
			return r
		}
		return '_'
	}, name)
}

// EnsureDir creates dir if it does not exist.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %v", dir, err)
	}
	return nil
}

// GetFileNameWithoutExt extracts the base filename without its extension.
func GetFileNameWithoutExt(path string) string {
	base := filepath.Base(path)
	if idx := strings.LastIndex(base, "."); idx != -1 {
		base = base[:idx]
	}
	return base
}
