package model

import "github.com/rezonia/digital-invoice/internal/money"

// AddonKind enumerates the backend's addon field vocabulary.
type AddonKind string

const (
	AddonDiscount       AddonKind = "discount-addon"
	AddonGiftCard       AddonKind = "giftcard-addon"
	AddonOtherDiscounts AddonKind = "other-discounts-addon"
	AddonOtherCharges   AddonKind = "other-charges-addon"
	AddonShipment       AddonKind = "shipment-addon"
)

// AddonKindFromField maps an extraction field name to an AddonKind.
// Returns false for field names outside the addon vocabulary.
func AddonKindFromField(name string) (AddonKind, bool) {
	switch AddonKind(name) {
	case AddonDiscount, AddonGiftCard, AddonOtherDiscounts, AddonOtherCharges, AddonShipment:
		return AddonKind(name), true
	}
	return "", false
}

// Addon is a backend-classified price adjustment. Addons are informational
// contributors to the total and are never edited by the user.
type Addon struct {
	Kind  AddonKind
	Price money.Price
}

// DisplayName returns the human-readable name derived from the kind.
func (a Addon) DisplayName() string {
	switch a.Kind {
	case AddonDiscount:
		return "Discount"
	case AddonGiftCard:
		return "Gift card"
	case AddonOtherDiscounts:
		return "Other discounts"
	case AddonOtherCharges:
		return "Other charges"
	case AddonShipment:
		return "Shipment"
	}
	return string(a.Kind)
}
