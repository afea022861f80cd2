package processor_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/digital-invoice/internal/extraction"
	"github.com/rezonia/digital-invoice/internal/model"
	"github.com/rezonia/digital-invoice/internal/processor"
)

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want processor.Format
	}{
		{"payload", []byte(`{"fields": {}}`), processor.FormatPayload},
		{"payload with leading whitespace", []byte("  \n\t{\"fields\": {}}"), processor.FormatPayload},
		{"pdf", []byte("%PDF-1.7\n..."), processor.FormatPDF},
		{"png", []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}, processor.FormatImage},
		{"jpeg", []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10}, processor.FormatImage},
		{"tiff", []byte{0x49, 0x49, 0x2A, 0x00}, processor.FormatImage},
		{"plain text", []byte("hello"), processor.FormatUnknown},
		{"empty", nil, processor.FormatUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, processor.DetectFormat(tt.data))
		})
	}
}

func TestFormat_String(t *testing.T) {
	assert.Equal(t, "payload", processor.FormatPayload.String())
	assert.Equal(t, "pdf", processor.FormatPDF.String())
	assert.Equal(t, "image", processor.FormatImage.String())
	assert.Equal(t, "unknown", processor.FormatUnknown.String())
}

func TestProcessPayload(t *testing.T) {
	pipeline := processor.NewPipeline()

	data := []byte(`{
		"fields": {"amountToPay": "100.00EUR"},
		"lineItems": [{"name": "Book", "quantity": "1", "price": "100.00EUR"}]
	}`)

	result := pipeline.ProcessPayload(context.Background(), data)
	require.NoError(t, result.Error)
	require.NotNil(t, result.Invoice)
	assert.Equal(t, processor.MethodPayload, result.Method)
	assert.Equal(t, 1.0, result.Confidence)

	total, ok := result.Invoice.Total()
	require.True(t, ok)
	assert.Equal(t, "100.00EUR", total.Format())
}

func TestProcessPayload_ParseFailure(t *testing.T) {
	pipeline := processor.NewPipeline()

	result := pipeline.ProcessPayload(context.Background(), []byte(`{"fields": {}}`))
	require.Error(t, result.Error)
	assert.ErrorIs(t, result.Error, model.ErrLineItemsMissing)
	assert.Nil(t, result.Invoice)
	// The decoded payload is still returned for diagnostics.
	assert.NotNil(t, result.Payload)
}

func TestProcessPayload_InvalidJSON(t *testing.T) {
	pipeline := processor.NewPipeline()

	result := pipeline.ProcessPayload(context.Background(), []byte("not json"))
	require.Error(t, result.Error)
}

func TestProcessText_RequiresExtractor(t *testing.T) {
	pipeline := processor.NewPipeline()

	result := pipeline.ProcessText(context.Background(), "Invoice #42 ...")
	require.Error(t, result.Error)
	assert.Contains(t, result.Error.Error(), "LLM extractor")
}

func TestProcessDocument_RequiresExtractor(t *testing.T) {
	pipeline := processor.NewPipeline()

	result := pipeline.ProcessDocument(context.Background(), []byte{0xFF, 0xD8, 0xFF, 0xE0}, "image/jpeg")
	require.Error(t, result.Error)
	assert.Contains(t, result.Error.Error(), "LLM extractor")
}

func TestProcess_Dispatch(t *testing.T) {
	pipeline := processor.NewPipeline()

	payload := []byte(`{
		"fields": {},
		"lineItems": [{"name": "Book", "quantity": "1", "price": "10.00EUR"}]
	}`)
	result := pipeline.Process(context.Background(), payload, "application/json")
	require.NoError(t, result.Error)
	assert.Equal(t, processor.MethodPayload, result.Method)

	result = pipeline.Process(context.Background(), []byte("garbage"), "")
	require.Error(t, result.Error)
	assert.Contains(t, result.Error.Error(), "unsupported input format")
}

func TestNewPipeline_ParserOptions(t *testing.T) {
	pipeline := processor.NewPipeline(
		processor.WithParserOptions(extraction.WithRequiredArticleNumber()),
	)

	data := []byte(`{
		"fields": {},
		"lineItems": [{"name": "Book", "quantity": "1", "price": "10.00EUR"}]
	}`)

	result := pipeline.ProcessPayload(context.Background(), data)
	require.Error(t, result.Error)
	assert.ErrorIs(t, result.Error, model.ErrArticleNumberMissing)
}
