package pdf_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/digital-invoice/internal/parser/pdf"
)

func TestNewExtractor(t *testing.T) {
	require.NotNil(t, pdf.NewExtractor())
}

func TestIsPDF(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want bool
	}{
		{"pdf header", []byte("%PDF-1.7\n"), true},
		{"json", []byte(`{"fields": {}}`), false},
		{"too short", []byte("%PD"), false},
		{"empty", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, pdf.IsPDF(tt.data))
		})
	}
}

func TestValidate_Garbage(t *testing.T) {
	err := pdf.NewExtractor().Validate([]byte("%PDF-1.7 but not really"))
	assert.Error(t, err)
}
