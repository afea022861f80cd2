package model

import (
	"github.com/rezonia/digital-invoice/internal/money"
)

// Invoice aggregates line items, addons and the backend's original total.
//
// The reconciled total is derived on every read, never stored, so the UI
// cannot observe a stale value after a mutation. The invoice and all of its
// line items share a single currency, enforced at construction.
type Invoice struct {
	lineItems     []*LineItem
	addons        []Addon
	amountToPay   money.Price
	returnReasons []ReturnReason
	inaccurate    bool
	currency      string
	sourceFields  map[string]string
}

// InvoiceParams carries the pieces assembled by the extraction parser.
type InvoiceParams struct {
	LineItems         []*LineItem
	Addons            []Addon
	AmountToPay       money.Price
	ReturnReasons     []ReturnReason
	InaccurateResults bool

	// SourceFields are the payload's scalar fields, kept verbatim so the
	// invoice can serialize back into the extraction format.
	SourceFields map[string]string
}

// NewInvoice builds an Invoice, enforcing the single-currency invariant
// across all line items. The parser additionally guarantees the amount to
// pay matches the line item currency; an invoice constructed directly with
// a diverging amount falls back to it unchanged on every Total read.
// An invoice without line items is permitted for defensive construction;
// its total is undefined.
func NewInvoice(p InvoiceParams) (*Invoice, error) {
	currency := p.AmountToPay.Currency
	if len(p.LineItems) > 0 {
		currency = p.LineItems[0].Currency()
	}

	for _, li := range p.LineItems {
		if li.Currency() != currency {
			return nil, NewFieldError("price", ErrMixedCurrencies)
		}
	}

	fields := make(map[string]string, len(p.SourceFields))
	for k, v := range p.SourceFields {
		fields[k] = v
	}

	amount := p.AmountToPay
	if amount.Currency == "" {
		amount = money.Zero(currency)
	}

	return &Invoice{
		lineItems:     append([]*LineItem(nil), p.LineItems...),
		addons:        append([]Addon(nil), p.Addons...),
		amountToPay:   amount,
		returnReasons: append([]ReturnReason(nil), p.ReturnReasons...),
		inaccurate:    p.InaccurateResults,
		currency:      currency,
		sourceFields:  fields,
	}, nil
}

// LineItems returns the line items in extraction order, user-added last.
func (inv *Invoice) LineItems() []*LineItem {
	return append([]*LineItem(nil), inv.lineItems...)
}

// Item returns the line item at index i.
func (inv *Invoice) Item(i int) (*LineItem, bool) {
	if i < 0 || i >= len(inv.lineItems) {
		return nil, false
	}
	return inv.lineItems[i], true
}

// Addons returns the parsed addons.
func (inv *Invoice) Addons() []Addon {
	return append([]Addon(nil), inv.addons...)
}

// AmountToPay returns the backend's original total, the reconciliation
// baseline.
func (inv *Invoice) AmountToPay() money.Price { return inv.amountToPay }

// Currency returns the invoice currency code.
func (inv *Invoice) Currency() string { return inv.currency }

// ReturnReasons returns the backend-supplied deselection reasons.
func (inv *Invoice) ReturnReasons() []ReturnReason {
	return append([]ReturnReason(nil), inv.returnReasons...)
}

// ReasonByID looks up a return reason by its backend id.
func (inv *Invoice) ReasonByID(id string) (*ReturnReason, bool) {
	for i := range inv.returnReasons {
		if inv.returnReasons[i].ID == id {
			r := inv.returnReasons[i]
			return &r, true
		}
	}
	return nil, false
}

// HasInaccurateResults reports whether the backend flagged its own extracted
// amounts as internally inconsistent.
func (inv *Invoice) HasInaccurateResults() bool { return inv.inaccurate }

// SourceFields returns a copy of the payload's scalar fields.
func (inv *Invoice) SourceFields() map[string]string {
	fields := make(map[string]string, len(inv.sourceFields))
	for k, v := range inv.sourceFields {
		fields[k] = v
	}
	return fields
}

// AddLineItem appends a user-added line item. The unit price must carry the
// invoice currency.
func (inv *Invoice) AddLineItem(name string, quantity int, unitPrice money.Price) (*LineItem, error) {
	if unitPrice.Currency != inv.currency {
		return nil, &money.CurrencyMismatchError{Left: inv.currency, Right: unitPrice.Currency}
	}
	li := NewUserLineItem(name, quantity, unitPrice)
	inv.lineItems = append(inv.lineItems, li)
	return li, nil
}

// RemoveLineItem deletes a user-added line item from the list. Extracted
// items cannot be removed, only deselected; for those it returns false.
func (inv *Invoice) RemoveLineItem(item *LineItem) bool {
	if item == nil || !item.IsUserAdded() {
		return false
	}
	for i, li := range inv.lineItems {
		if li == item {
			inv.lineItems = append(inv.lineItems[:i], inv.lineItems[i+1:]...)
			return true
		}
	}
	return false
}

// Total reconciles the backend's amount to pay against the user's edits:
//
//	total = max(amountToPay - deselectedTotal + editedDelta + addedTotal, 0)
//
// computed entirely in the invoice currency. The second return value is
// false when the invoice has no line items, in which case no total exists;
// zero is a valid payable amount and must not stand in for "not computable".
//
// A currency mismatch inside the summation cannot occur for a parsed
// invoice. If it does, the backend's amount to pay is returned unchanged as
// a conservative fallback.
func (inv *Invoice) Total() (money.Price, bool) {
	if len(inv.lineItems) == 0 {
		return money.Price{}, false
	}

	total, err := inv.reconcile()
	if err != nil {
		return inv.amountToPay, true
	}
	return total, true
}

func (inv *Invoice) reconcile() (money.Price, error) {
	zero := money.Zero(inv.currency)

	deselected := zero
	edited := zero
	added := zero

	// The three sums are independent: a deselected item that was also
	// edited contributes to both, which cancels out to removing exactly
	// its original extracted total from the baseline.
	for _, li := range inv.lineItems {
		var err error
		if li.IsUserAdded() {
			added, err = added.Add(li.TotalPrice())
			if err != nil {
				return money.Price{}, err
			}
			continue
		}
		if !li.IsSelected() {
			deselected, err = deselected.Add(li.TotalPrice())
			if err != nil {
				return money.Price{}, err
			}
		}
		if li.Edited() {
			delta, err := li.EditedDelta()
			if err != nil {
				return money.Price{}, err
			}
			edited, err = edited.Add(delta)
			if err != nil {
				return money.Price{}, err
			}
		}
	}

	total, err := inv.amountToPay.Sub(deselected)
	if err != nil {
		return money.Price{}, err
	}
	total, err = total.Add(edited)
	if err != nil {
		return money.Price{}, err
	}
	total, err = total.Add(added)
	if err != nil {
		return money.Price{}, err
	}

	return money.Max(total, zero), nil
}

// NumSelected sums quantities over selected items. User-added items always
// count as selected.
func (inv *Invoice) NumSelected() int {
	n := 0
	for _, li := range inv.lineItems {
		if li.IsSelected() {
			n += li.Quantity()
		}
	}
	return n
}

// NumTotal sums quantities over all items.
func (inv *Invoice) NumTotal() int {
	n := 0
	for _, li := range inv.lineItems {
		n += li.Quantity()
	}
	return n
}
