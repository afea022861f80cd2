// Package processor chains format detection, payload extraction and invoice
// parsing into one pipeline.
package processor

import (
	"bytes"
	"context"
	"fmt"

	"github.com/rezonia/digital-invoice/internal/extraction"
	"github.com/rezonia/digital-invoice/internal/llm"
	"github.com/rezonia/digital-invoice/internal/model"
	"github.com/rezonia/digital-invoice/internal/parser/pdf"
)

// Format identifies the input data format.
type Format int

const (
	FormatUnknown Format = iota
	FormatPayload
	FormatPDF
	FormatImage
)

func (f Format) String() string {
	switch f {
	case FormatPayload:
		return "payload"
	case FormatPDF:
		return "pdf"
	case FormatImage:
		return "image"
	}
	return "unknown"
}

// Method records how the invoice was obtained.
type Method string

const (
	MethodPayload   Method = "payload"
	MethodLLMText   Method = "llm-text"
	MethodLLMVision Method = "llm-vision"
)

// Result is the outcome of processing one input.
type Result struct {
	Invoice    *model.Invoice      `json:"invoice,omitempty"`
	Payload    *extraction.Payload `json:"payload,omitempty"`
	Method     Method              `json:"method,omitempty"`
	Confidence float64             `json:"confidence"`
	Warnings   []string            `json:"warnings,omitempty"`
	Error      error               `json:"-"`
}

// Pipeline processes extraction payloads and raw documents into Invoices.
type Pipeline struct {
	parser       *extraction.Parser
	llmExtractor *llm.Extractor
	pdfExtractor *pdf.Extractor
}

// PipelineOption configures the pipeline.
type PipelineOption func(*Pipeline)

// WithLLMExtractor enables LLM-based document extraction. A nil extractor
// leaves documents unsupported; payload processing keeps working.
func WithLLMExtractor(e *llm.Extractor) PipelineOption {
	return func(p *Pipeline) {
		p.llmExtractor = e
	}
}

// WithParserOptions configures the extraction parser.
func WithParserOptions(opts ...extraction.Option) PipelineOption {
	return func(p *Pipeline) {
		p.parser = extraction.NewParser(opts...)
	}
}

// NewPipeline creates a pipeline.
func NewPipeline(opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		parser:       extraction.NewParser(),
		pdfExtractor: pdf.NewExtractor(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ProcessPayload parses a JSON extraction payload into an Invoice.
func (p *Pipeline) ProcessPayload(ctx context.Context, data []byte) *Result {
	payload, err := extraction.Decode(data)
	if err != nil {
		return &Result{Error: err}
	}

	invoice, err := p.parser.Parse(payload)
	if err != nil {
		return &Result{Payload: payload, Error: err}
	}

	return &Result{
		Invoice:    invoice,
		Payload:    payload,
		Method:     MethodPayload,
		Confidence: 1.0,
	}
}

// ProcessText extracts a payload from document text via the LLM, then
// parses it.
func (p *Pipeline) ProcessText(ctx context.Context, text string) *Result {
	if p.llmExtractor == nil {
		return &Result{Error: fmt.Errorf("text extraction requires an LLM extractor")}
	}

	payload, confidence, err := p.llmExtractor.ExtractFromText(ctx, text)
	if err != nil {
		return &Result{Error: err}
	}

	return p.parseExtracted(payload, MethodLLMText, confidence)
}

// ProcessDocument extracts a payload from a PDF or image via LLM vision,
// then parses it. PDFs are structurally validated first.
func (p *Pipeline) ProcessDocument(ctx context.Context, data []byte, mimeType string) *Result {
	if p.llmExtractor == nil {
		return &Result{Error: fmt.Errorf("document extraction requires an LLM extractor")}
	}

	var warnings []string
	if pdf.IsPDF(data) {
		if err := p.pdfExtractor.Validate(data); err != nil {
			return &Result{Error: err}
		}
		if pages, err := p.pdfExtractor.PageCount(data); err == nil && pages > 1 {
			warnings = append(warnings, fmt.Sprintf("document has %d pages, only the rendered view is extracted", pages))
		}
		mimeType = "application/pdf"
	}

	payload, confidence, err := p.llmExtractor.ExtractFromImage(ctx, data, mimeType)
	if err != nil {
		return &Result{Error: err, Warnings: warnings}
	}

	result := p.parseExtracted(payload, MethodLLMVision, confidence)
	result.Warnings = append(warnings, result.Warnings...)
	return result
}

// Process auto-detects the input format and dispatches.
func (p *Pipeline) Process(ctx context.Context, data []byte, contentType string) *Result {
	switch DetectFormat(data) {
	case FormatPayload:
		return p.ProcessPayload(ctx, data)
	case FormatPDF:
		return p.ProcessDocument(ctx, data, "application/pdf")
	case FormatImage:
		if contentType == "" || contentType == "application/octet-stream" {
			contentType = detectImageMime(data)
		}
		return p.ProcessDocument(ctx, data, contentType)
	}
	return &Result{Error: fmt.Errorf("unsupported input format")}
}

func (p *Pipeline) parseExtracted(payload *extraction.Payload, method Method, confidence float64) *Result {
	invoice, err := p.parser.Parse(payload)
	if err != nil {
		return &Result{Payload: payload, Method: method, Confidence: confidence, Error: err}
	}

	var warnings []string
	if invoice.HasInaccurateResults() {
		warnings = append(warnings, "extracted amounts are internally inconsistent")
	}

	return &Result{
		Invoice:    invoice,
		Payload:    payload,
		Method:     method,
		Confidence: confidence,
		Warnings:   warnings,
	}
}

// DetectFormat identifies the input format from leading bytes.
func DetectFormat(data []byte) Format {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) == 0 {
		return FormatUnknown
	}

	if trimmed[0] == '{' {
		return FormatPayload
	}
	if pdf.IsPDF(data) {
		return FormatPDF
	}
	if detectImageMime(data) != "" {
		return FormatImage
	}
	return FormatUnknown
}

func detectImageMime(data []byte) string {
	if len(data) < 4 {
		return ""
	}
	// PNG
	if data[0] == 0x89 && data[1] == 0x50 && data[2] == 0x4E && data[3] == 0x47 {
		return "image/png"
	}
	// JPEG
	if data[0] == 0xFF && data[1] == 0xD8 && data[2] == 0xFF {
		return "image/jpeg"
	}
	// TIFF
	if (data[0] == 0x49 && data[1] == 0x49) || (data[0] == 0x4D && data[1] == 0x4D) {
		return "image/tiff"
	}
	return ""
}
