// Package extraction implements the backend's extraction payload contract:
// decoding it, parsing it into an Invoice, and serializing the edited
// invoice back into the same shape for feedback submission.
package extraction

import (
	"encoding/json"
	"fmt"
)

// Scalar field names of the extraction payload.
const (
	FieldAmountToPay          = "amountToPay"
	FieldAmountsAreConsistent = "amountsAreConsistent"
)

// Field names inside one line-item group.
const (
	ItemFieldName          = "name"
	ItemFieldQuantity      = "quantity"
	ItemFieldPrice         = "price"
	ItemFieldDescription   = "description"
	ItemFieldArticleNumber = "articleNumber"
)

// FieldGroup is one line-item group: a set of named scalar fields.
type FieldGroup map[string]string

// ReasonRecord is one backend return-reason entry.
type ReasonRecord struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// Payload is the raw extraction result produced by the document
// understanding backend: flat scalar fields plus line-item groups and an
// optional return-reason list.
type Payload struct {
	Fields        map[string]string `json:"fields"`
	LineItems     []FieldGroup      `json:"lineItems,omitempty"`
	ReturnReasons []ReasonRecord    `json:"returnReasons,omitempty"`
}

// Decode unmarshals a JSON extraction payload.
func Decode(data []byte) (*Payload, error) {
	var p Payload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decode extraction payload: %w", err)
	}
	if p.Fields == nil {
		p.Fields = map[string]string{}
	}
	return &p, nil
}

// Encode marshals the payload as JSON. Map keys serialize in sorted order,
// so encoding the same payload twice yields identical bytes.
func (p *Payload) Encode() ([]byte, error) {
	return json.MarshalIndent(p, "", "  ")
}
