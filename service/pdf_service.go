package service

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/dslipak/pdf"
)

// PDFService opens PDF byte streams and renders per-page text for the
// extraction pipeline.
type PDFService struct{}

func NewPDFService() *PDFService {
	return &PDFService{}
}

// PDFDocument is an opened PDF: a page count and 0-indexed page text access.
type PDFDocument struct {
	reader *pdf.Reader
}

func (s *PDFService) Open(data []byte) (*PDFDocument, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to open pdf: %w", err)
	}
	return &PDFDocument{reader: reader}, nil
}

func (d *PDFDocument) PageCount() int {
	return d.reader.NumPage()
}

// PageText renders the text of one 0-indexed page.
func (d *PDFDocument) PageText(index int) (text string, err error) {
	// The pdf library panics on some malformed pages; a failed page must
	// stay a per-page failure.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("page %d render panic: %v", index, r)
		}
	}()

	if index < 0 || index >= d.reader.NumPage() {
		return "", fmt.Errorf("page index %d out of range [0,%d)", index, d.reader.NumPage())
	}

	page := d.reader.Page(index + 1)
	if page.V.IsNull() {
		return "", fmt.Errorf("page %d has no content", index)
	}

	content, err := page.GetPlainText(nil)
	if err != nil {
		return "", fmt.Errorf("failed to render page %d: %w", index, err)
	}
	return cleanText(content), nil
}

// cleanText strips control characters that leak out of PDF text extraction.
// The rules interact (removals can create double spaces), so they apply in
// a fixed order.
var cleanTextRules = [][2]string{
	{"\x00", ""},   // Null character
	{"\uFFFD", ""}, // Unicode replacement character
	{"\x1b", ""},   // Escape character
	{"\r", ""},     // Carriage return
	{"\f", "\n"},   // Form feed to newline
	{"  ", " "},
}

func cleanText(text string) string {
	cleaned := text
	for _, rule := range cleanTextRules {
		cleaned = strings.ReplaceAll(cleaned, rule[0], rule[1])
	}
	return strings.TrimSpace(cleaned)
}
