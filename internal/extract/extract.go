package extract

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/deanlockgaard/ArchiveIQ/internal/domain"
)

// DocumentExtractor turns uploaded document bytes into plain text. PDF pages
// are concatenated in order; .txt and .md files pass through as-is.
type DocumentExtractor struct{}

// New creates a DocumentExtractor.
func New() *DocumentExtractor {
	return &DocumentExtractor{}
}

// Extract returns the plain text of the document. Filenames without a
// recognized extension fail with domain.ErrUnsupportedFormat.
func (e *DocumentExtractor) Extract(data []byte, filename string) (string, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return extractPDF(data)
	case ".txt", ".md":
		return string(data), nil
	default:
		return "", fmt.Errorf("%w: %s", domain.ErrUnsupportedFormat, filename)
	}
}

func extractPDF(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("opening pdf: %w", err)
	}
	plain, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("reading pdf text: %w", err)
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", fmt.Errorf("reading pdf text: %w", err)
	}
	return buf.String(), nil
}
