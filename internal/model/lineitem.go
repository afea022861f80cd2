package model

import (
	"strings"

	"github.com/rezonia/digital-invoice/internal/money"
)

// Quantity bounds for a line item. Edits outside the range are clamped,
// never rejected, since they originate from live text-field input.
const (
	MinQuantity = 1
	MaxQuantity = 99999
)

// UntitledArticleName replaces an empty line item name.
const UntitledArticleName = "Untitled article"

// LineItem is one purchasable entry on a digital invoice.
//
// Extracted items come out of the extraction parser and remember their
// original quantity and unit price so the reconciliation algorithm can
// compute the user's net edit delta. User-added items contribute their full
// total and are never prompted for a return reason.
type LineItem struct {
	name          string
	articleNumber string
	description   string
	quantity      int
	unitPrice     money.Price

	origQuantity  int
	origUnitPrice money.Price

	userAdded  bool
	deselected bool
	reason     *ReturnReason
}

// NewExtractedLineItem creates a line item from one parsed extraction group.
func NewExtractedLineItem(name, articleNumber, description string, quantity int, unitPrice money.Price) *LineItem {
	li := &LineItem{
		articleNumber: articleNumber,
		description:   description,
		unitPrice:     unitPrice,
	}
	li.SetName(name)
	li.SetQuantity(quantity)
	li.origQuantity = li.quantity
	li.origUnitPrice = unitPrice
	return li
}

// NewUserLineItem creates a line item added manually by the user.
func NewUserLineItem(name string, quantity int, unitPrice money.Price) *LineItem {
	li := &LineItem{
		unitPrice: unitPrice,
		userAdded: true,
	}
	li.SetName(name)
	li.SetQuantity(quantity)
	li.origQuantity = li.quantity
	li.origUnitPrice = unitPrice
	return li
}

// Name returns the article name.
func (li *LineItem) Name() string { return li.name }

// ArticleNumber returns the backend article number, if extracted.
func (li *LineItem) ArticleNumber() string { return li.articleNumber }

// Description returns the backend description, if extracted.
func (li *LineItem) Description() string { return li.description }

// Quantity returns the current quantity.
func (li *LineItem) Quantity() int { return li.quantity }

// UnitPrice returns the current unit price.
func (li *LineItem) UnitPrice() money.Price { return li.unitPrice }

// Currency returns the item's currency code.
func (li *LineItem) Currency() string { return li.unitPrice.Currency }

// IsUserAdded reports whether the user created this item manually.
func (li *LineItem) IsUserAdded() bool { return li.userAdded }

// IsSelected reports whether the item counts toward the payable set.
func (li *LineItem) IsSelected() bool { return !li.deselected }

// DeselectionReason returns the attached return reason, or nil. It is only
// ever non-nil while the item is deselected.
func (li *LineItem) DeselectionReason() *ReturnReason {
	if li.deselected {
		return li.reason
	}
	return nil
}

// TotalPrice returns unit price times quantity.
func (li *LineItem) TotalPrice() money.Price {
	return li.unitPrice.MulInt(li.quantity)
}

// OriginalTotalPrice returns the total as extracted, before any user edit.
func (li *LineItem) OriginalTotalPrice() money.Price {
	return li.origUnitPrice.MulInt(li.origQuantity)
}

// Edited reports whether quantity or unit price changed since extraction.
func (li *LineItem) Edited() bool {
	return li.quantity != li.origQuantity || !li.unitPrice.Equal(li.origUnitPrice)
}

// EditedDelta returns current total minus original total. Zero for
// user-added items, whose full total is accounted separately.
func (li *LineItem) EditedDelta() (money.Price, error) {
	if li.userAdded {
		return money.Zero(li.Currency()), nil
	}
	return li.TotalPrice().Sub(li.OriginalTotalPrice())
}

// SetName sets the article name, substituting a placeholder when blank.
func (li *LineItem) SetName(name string) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = UntitledArticleName
	}
	li.name = name
}

// SetQuantity sets the quantity, clamped to [MinQuantity, MaxQuantity].
func (li *LineItem) SetQuantity(q int) {
	if q < MinQuantity {
		q = MinQuantity
	}
	if q > MaxQuantity {
		q = MaxQuantity
	}
	li.quantity = q
}

// SetUnitPrice sets the unit price amount. The item's currency is fixed at
// construction; a negative amount is clamped to zero.
func (li *LineItem) SetUnitPrice(p money.Price) {
	if p.IsNegative() {
		p = money.Zero(li.Currency())
	}
	li.unitPrice = money.New(p.Amount, li.Currency())
}

// Select moves the item back into the payable set. No reason is retained.
func (li *LineItem) Select() {
	li.deselected = false
	li.reason = nil
}

// Deselect removes the item from the payable set, optionally attaching the
// return reason the user picked. User-added items never reach this state;
// removing them from the invoice is the corresponding operation.
func (li *LineItem) Deselect(reason *ReturnReason) {
	if li.userAdded {
		return
	}
	li.deselected = true
	li.reason = reason
}
