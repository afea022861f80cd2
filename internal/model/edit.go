package model

import (
	"fmt"

	"github.com/rezonia/digital-invoice/internal/money"
)

// EditOp enumerates the user edit operations an invoice supports.
type EditOp string

const (
	EditSelect      EditOp = "select"
	EditDeselect    EditOp = "deselect"
	EditSetQuantity EditOp = "set_quantity"
	EditSetPrice    EditOp = "set_price"
	EditAddItem     EditOp = "add_item"
	EditRemoveItem  EditOp = "remove_item"
)

// Edit is one recorded user edit, addressing a line item by its current
// index. Prices travel in the backend string format.
type Edit struct {
	Op       EditOp `json:"op"`
	Index    int    `json:"index"`
	Quantity int    `json:"quantity,omitempty"`
	Price    string `json:"price,omitempty"`
	Name     string `json:"name,omitempty"`
	ReasonID string `json:"reason_id,omitempty"`
}

// ApplyEdit replays one edit on the invoice. Structural problems (bad
// index, unknown op, unknown reason, malformed price) are errors; value
// problems (quantity out of range, negative price) are clamped by the
// line item mutators.
func ApplyEdit(inv *Invoice, edit Edit) error {
	var item *LineItem
	if edit.Op != EditAddItem {
		var ok bool
		item, ok = inv.Item(edit.Index)
		if !ok {
			return fmt.Errorf("no line item at index %d", edit.Index)
		}
	}

	switch edit.Op {
	case EditSelect:
		item.Select()

	case EditDeselect:
		if item.IsUserAdded() {
			return fmt.Errorf("user-added items are removed, not deselected")
		}
		var reason *ReturnReason
		if edit.ReasonID != "" {
			r, ok := inv.ReasonByID(edit.ReasonID)
			if !ok {
				return fmt.Errorf("unknown return reason %q", edit.ReasonID)
			}
			reason = r
		}
		item.Deselect(reason)

	case EditSetQuantity:
		item.SetQuantity(edit.Quantity)

	case EditSetPrice:
		price, err := money.Parse(edit.Price)
		if err != nil {
			return err
		}
		item.SetUnitPrice(price)

	case EditAddItem:
		price, err := money.Parse(edit.Price)
		if err != nil {
			return err
		}
		quantity := edit.Quantity
		if quantity == 0 {
			quantity = 1
		}
		if _, err := inv.AddLineItem(edit.Name, quantity, price); err != nil {
			return err
		}

	case EditRemoveItem:
		if !inv.RemoveLineItem(item) {
			return fmt.Errorf("line item at index %d is not removable", edit.Index)
		}

	default:
		return fmt.Errorf("unknown edit op %q", edit.Op)
	}

	return nil
}
