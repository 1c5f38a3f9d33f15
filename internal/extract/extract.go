// Package extract pulls plain text out of uploaded documents. Extraction is
// best effort: a page that cannot be decoded is skipped, and a document that
// cannot be read at all yields an error the caller degrades to empty text.
package extract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Extractor returns the plain text of the document at path.
type Extractor interface {
	Extract(path string) (string, error)
}

// FileExtractor dispatches on file extension: PDFs are parsed page by page,
// anything else is read verbatim as plain text.
type FileExtractor struct{}

func New() *FileExtractor { return &FileExtractor{} }

func (e *FileExtractor) Extract(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return extractPDF(path)
	default:
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("reading %s: %w", path, err)
		}
		return string(data), nil
	}
}

func extractPDF(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening pdf %s: %w", path, err)
	}
	defer f.Close()

	var sb strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			// Undecodable page, keep going with the rest.
			continue
		}
		sb.WriteString(text)
	}
	return sb.String(), nil
}
