// Package digitalinvoice provides the public API for the digital invoice
// reconciliation engine.
//
// It parses extraction payloads produced by a document-understanding
// backend into an editable invoice model, keeps the amount to pay
// reconciled as line items are selected, deselected and edited, and
// serializes the edited state back into the extraction format.
//
// Example usage:
//
//	parser := digitalinvoice.NewParser()
//	invoice, err := parser.ParseBytes(payload)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	invoice.LineItems()[0].Deselect(nil)
//	if total, ok := invoice.Total(); ok {
//	    fmt.Println(total.Format())
//	}
//	feedback := digitalinvoice.ToPayload(invoice)
package digitalinvoice

import (
	"github.com/rezonia/digital-invoice/internal/extraction"
	"github.com/rezonia/digital-invoice/internal/model"
	"github.com/rezonia/digital-invoice/internal/money"
)

// Re-export core types for public API
type (
	Invoice       = model.Invoice
	InvoiceParams = model.InvoiceParams
	LineItem      = model.LineItem
	Addon         = model.Addon
	AddonKind     = model.AddonKind
	ReturnReason  = model.ReturnReason
	Edit          = model.Edit
	EditOp        = model.EditOp
	Price         = money.Price

	Parser       = extraction.Parser
	ParserOption = extraction.Option
	Payload      = extraction.Payload
	FieldGroup   = extraction.FieldGroup
	ReasonRecord = extraction.ReasonRecord
)

// Re-export addon kinds
const (
	AddonDiscount       = model.AddonDiscount
	AddonGiftCard       = model.AddonGiftCard
	AddonOtherDiscounts = model.AddonOtherDiscounts
	AddonOtherCharges   = model.AddonOtherCharges
	AddonShipment       = model.AddonShipment
)

// Re-export edit operations
const (
	EditSelect      = model.EditSelect
	EditDeselect    = model.EditDeselect
	EditSetQuantity = model.EditSetQuantity
	EditSetPrice    = model.EditSetPrice
	EditAddItem     = model.EditAddItem
	EditRemoveItem  = model.EditRemoveItem
)

// Re-export line item bounds
const (
	MinQuantity         = model.MinQuantity
	MaxQuantity         = model.MaxQuantity
	UntitledArticleName = model.UntitledArticleName
)

// Re-export error types
type (
	FieldError            = model.FieldError
	PriceParseError       = money.ParseError
	CurrencyMismatchError = money.CurrencyMismatchError
)

// Re-export structural parse errors
var (
	ErrLineItemsMissing     = model.ErrLineItemsMissing
	ErrNameMissing          = model.ErrNameMissing
	ErrQuantityMissing      = model.ErrQuantityMissing
	ErrPriceMissing         = model.ErrPriceMissing
	ErrArticleNumberMissing = model.ErrArticleNumberMissing
	ErrMixedCurrencies      = model.ErrMixedCurrencies
	ErrCannotParseQuantity  = model.ErrCannotParseQuantity
	ErrCannotParsePrice     = money.ErrCannotParsePrice
)

// NewParser creates an extraction payload parser.
func NewParser(opts ...ParserOption) *Parser {
	return extraction.NewParser(opts...)
}

// WithRequiredArticleNumber makes a missing article number a parse error.
func WithRequiredArticleNumber() ParserOption {
	return extraction.WithRequiredArticleNumber()
}

// DecodePayload unmarshals a JSON extraction payload.
func DecodePayload(data []byte) (*Payload, error) {
	return extraction.Decode(data)
}

// ToPayload serializes the invoice back into the extraction format.
func ToPayload(inv *Invoice) *Payload {
	return extraction.ToPayload(inv)
}

// ApplyEdit replays one user edit on the invoice.
func ApplyEdit(inv *Invoice, edit Edit) error {
	return model.ApplyEdit(inv, edit)
}

// ParsePrice parses the backend price format, e.g. "100.00EUR".
func ParsePrice(s string) (Price, error) {
	return money.Parse(s)
}

// NewUserLineItem creates a line item added manually by the user.
func NewUserLineItem(name string, quantity int, unitPrice Price) *LineItem {
	return model.NewUserLineItem(name, quantity, unitPrice)
}
