// Package pdf probes PDF documents before they are handed to vision
// extraction: structural validation and page counting via pdfcpu.
package pdf

import (
	"bytes"
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	pdfcpu "github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Extractor inspects PDF documents.
type Extractor struct {
	conf *pdfcpu.Configuration
}

// NewExtractor creates a PDF extractor with relaxed validation, since
// scanned invoices frequently come from non-conforming producers.
func NewExtractor() *Extractor {
	conf := pdfcpu.NewDefaultConfiguration()
	conf.ValidationMode = pdfcpu.ValidationRelaxed
	return &Extractor{conf: conf}
}

// Validate checks the document structure.
func (e *Extractor) Validate(data []byte) error {
	if err := api.Validate(bytes.NewReader(data), e.conf); err != nil {
		return fmt.Errorf("invalid PDF: %w", err)
	}
	return nil
}

// PageCount returns the number of pages.
func (e *Extractor) PageCount(data []byte) (int, error) {
	count, err := api.PageCount(bytes.NewReader(data), e.conf)
	if err != nil {
		return 0, fmt.Errorf("page count: %w", err)
	}
	return count, nil
}

// IsPDF reports whether the data starts with a PDF header.
func IsPDF(data []byte) bool {
	return len(data) >= 4 && bytes.HasPrefix(data, []byte("%PDF"))
}
