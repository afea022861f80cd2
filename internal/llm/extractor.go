package llm

import (
	"context"
	"fmt"

	"github.com/rezonia/digital-invoice/internal/extraction"
	"github.com/rezonia/digital-invoice/internal/money"
)

// Extractor produces raw extraction payloads from document text or images.
type Extractor struct {
	client      *Client
	textModel   string
	visionModel string
}

// ExtractorOption configures the extractor
type ExtractorOption func(*Extractor)

// WithTextModel sets the model used for text extraction
func WithTextModel(model string) ExtractorOption {
	return func(e *Extractor) {
		e.textModel = model
	}
}

// WithVisionModel sets the model used for image extraction
func WithVisionModel(model string) ExtractorOption {
	return func(e *Extractor) {
		e.visionModel = model
	}
}

// NewExtractor creates an extractor on top of a chat client
func NewExtractor(client *Client, opts ...ExtractorOption) *Extractor {
	e := &Extractor{
		client:      client,
		textModel:   ModelClaude35Sonnet,
		visionModel: ModelClaude35Sonnet,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ExtractFromText extracts a payload from OCR or plain document text.
// The confidence score reflects how complete the extracted payload is.
func (e *Extractor) ExtractFromText(ctx context.Context, text string) (*extraction.Payload, float64, error) {
	prompt := fmt.Sprintf(UserPromptTextExtraction, text)

	response, err := e.client.ChatText(ctx, e.textModel, SystemPromptPayloadExtractor, prompt)
	if err != nil {
		return nil, 0, fmt.Errorf("text extraction failed: %w", err)
	}

	return decodeResponse(response)
}

// ExtractFromImage extracts a payload from a document image.
func (e *Extractor) ExtractFromImage(ctx context.Context, imageData []byte, mimeType string) (*extraction.Payload, float64, error) {
	response, err := e.client.ChatWithImage(ctx, e.visionModel, SystemPromptPayloadExtractor, UserPromptImageExtraction, imageData, mimeType)
	if err != nil {
		return nil, 0, fmt.Errorf("image extraction failed: %w", err)
	}

	return decodeResponse(response)
}

func decodeResponse(response string) (*extraction.Payload, float64, error) {
	payload, err := extraction.Decode([]byte(ExtractJSON(response)))
	if err != nil {
		return nil, 0, err
	}
	return payload, Confidence(payload), nil
}

// Confidence scores payload completeness between 0 and 1: the share of
// line-item groups carrying a well-formed name, quantity and price, scaled
// down when the amount to pay is missing or malformed.
func Confidence(p *extraction.Payload) float64 {
	if len(p.LineItems) == 0 {
		return 0
	}

	complete := 0
	for _, group := range p.LineItems {
		if group[extraction.ItemFieldName] == "" {
			continue
		}
		if group[extraction.ItemFieldQuantity] == "" {
			continue
		}
		if _, err := money.Parse(group[extraction.ItemFieldPrice]); err != nil {
			continue
		}
		complete++
	}

	score := float64(complete) / float64(len(p.LineItems))

	if _, err := money.Parse(p.Fields[extraction.FieldAmountToPay]); err != nil {
		score *= 0.8
	}

	return score
}
