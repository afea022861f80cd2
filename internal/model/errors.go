package model

import (
	"errors"
	"fmt"
)

// Structural parse failures. A payload that trips any of these cannot be
// turned into an Invoice; callers fall back to a no-results flow.
var (
	ErrLineItemsMissing     = errors.New("no line items in extraction payload")
	ErrNameMissing          = errors.New("line item name missing")
	ErrQuantityMissing      = errors.New("line item quantity missing")
	ErrPriceMissing         = errors.New("line item price missing")
	ErrArticleNumberMissing = errors.New("line item article number missing")
	ErrMixedCurrencies      = errors.New("mixed currencies in one invoice")
	ErrCannotParseQuantity  = errors.New("cannot parse line item quantity")
)

// FieldError is a structural parse error carrying the offending field and,
// for line-item groups, the index of the group in the payload.
type FieldError struct {
	Field string
	Item  int // line item index, -1 for payload-level fields
	Cause error
}

func (e *FieldError) Error() string {
	if e.Item >= 0 {
		return fmt.Sprintf("line item %d, field %q: %v", e.Item, e.Field, e.Cause)
	}
	return fmt.Sprintf("field %q: %v", e.Field, e.Cause)
}

func (e *FieldError) Unwrap() error {
	return e.Cause
}

// NewFieldError creates a payload-level field error.
func NewFieldError(field string, cause error) *FieldError {
	return &FieldError{Field: field, Item: -1, Cause: cause}
}

// NewItemFieldError creates a field error scoped to one line-item group.
func NewItemFieldError(field string, item int, cause error) *FieldError {
	return &FieldError{Field: field, Item: item, Cause: cause}
}
