// Package money implements the exact-decimal price type used across the
// digital invoice engine.
//
// A Price is an amount plus an ISO 4217 currency code. Amounts are
// shopspring decimals, never binary floats, so repeated additions cannot
// drift. Arithmetic across currencies is a hard failure, not a coercion.
package money

import (
	"strings"

	"github.com/biter777/countries"
	"github.com/shopspring/decimal"
)

// ErrCannotParsePrice reports a malformed price string.
var ErrCannotParsePrice = &ParseError{}

// ParseError reports a price string the backend format does not admit.
type ParseError struct {
	Input string
}

func (e *ParseError) Error() string {
	return "cannot parse price: " + e.Input
}

// Is lets errors.Is match any ParseError against ErrCannotParsePrice.
func (e *ParseError) Is(target error) bool {
	_, ok := target.(*ParseError)
	return ok
}

// CurrencyMismatchError reports arithmetic across two different currencies.
type CurrencyMismatchError struct {
	Left  string
	Right string
}

func (e *CurrencyMismatchError) Error() string {
	return "currency mismatch: " + e.Left + " vs " + e.Right
}

// Price is an exact decimal amount in a single currency.
// The zero value is not a valid Price; use New, Zero or Parse.
type Price struct {
	Amount   decimal.Decimal
	Currency string
}

// New creates a Price from an amount and a 3-letter currency code.
func New(amount decimal.Decimal, currency string) Price {
	return Price{Amount: amount, Currency: currency}
}

// Zero returns the zero amount in the given currency.
func Zero(currency string) Price {
	return Price{Amount: decimal.Zero, Currency: currency}
}

// Parse parses the backend price format: numeric text with a decimal point
// and the ISO 4217 code appended directly, e.g. "100.00EUR".
// Format round-trips losslessly for amounts with at most two fraction digits.
func Parse(s string) (Price, error) {
	s = strings.TrimSpace(s)
	if len(s) < 4 {
		return Price{}, &ParseError{Input: s}
	}

	numeric, code := s[:len(s)-3], s[len(s)-3:]
	if !isCurrencyCode(code) {
		return Price{}, &ParseError{Input: s}
	}

	amount, err := decimal.NewFromString(numeric)
	if err != nil {
		return Price{}, &ParseError{Input: s}
	}

	return Price{Amount: amount, Currency: code}, nil
}

func isCurrencyCode(code string) bool {
	if len(code) != 3 || code != strings.ToUpper(code) {
		return false
	}
	return countries.CurrencyCodeByName(code).IsValid()
}

// Format returns the canonical two-fraction-digit representation with the
// currency code appended, the exact inverse of Parse.
func (p Price) Format() string {
	return p.Amount.StringFixed(2) + p.Currency
}

// String implements fmt.Stringer.
func (p Price) String() string {
	return p.Format()
}

// Add returns p + other, failing if the currencies differ.
func (p Price) Add(other Price) (Price, error) {
	if p.Currency != other.Currency {
		return Price{}, &CurrencyMismatchError{Left: p.Currency, Right: other.Currency}
	}
	return Price{Amount: p.Amount.Add(other.Amount), Currency: p.Currency}, nil
}

// Sub returns p - other, failing if the currencies differ.
func (p Price) Sub(other Price) (Price, error) {
	if p.Currency != other.Currency {
		return Price{}, &CurrencyMismatchError{Left: p.Currency, Right: other.Currency}
	}
	return Price{Amount: p.Amount.Sub(other.Amount), Currency: p.Currency}, nil
}

// MulInt returns p scaled by an integer quantity.
func (p Price) MulInt(n int) Price {
	return Price{Amount: p.Amount.Mul(decimal.NewFromInt(int64(n))), Currency: p.Currency}
}

// Max returns the price with the larger amount. Both arguments must carry
// the same currency; the result keeps a's currency.
func Max(a, b Price) Price {
	if b.Amount.GreaterThan(a.Amount) {
		return b
	}
	return a
}

// Equal reports whether amount and currency both match.
func (p Price) Equal(other Price) bool {
	return p.Currency == other.Currency && p.Amount.Equal(other.Amount)
}

// IsZero reports whether the amount is zero.
func (p Price) IsZero() bool {
	return p.Amount.IsZero()
}

// IsNegative reports whether the amount is below zero.
func (p Price) IsNegative() bool {
	return p.Amount.IsNegative()
}
