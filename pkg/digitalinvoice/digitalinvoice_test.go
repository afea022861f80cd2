package digitalinvoice_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/digital-invoice/pkg/digitalinvoice"
)

const samplePayload = `{
	"fields": {"amountToPay": "100.00EUR"},
	"lineItems": [
		{"name": "Shirt", "quantity": "1", "price": "50.00EUR"},
		{"name": "Shoes", "quantity": "1", "price": "50.00EUR"}
	],
	"returnReasons": [{"id": "r1", "label": "Damaged"}]
}`

func TestParseAndReconcile(t *testing.T) {
	invoice, err := digitalinvoice.NewParser().ParseBytes([]byte(samplePayload))
	require.NoError(t, err)

	total, ok := invoice.Total()
	require.True(t, ok)
	assert.Equal(t, "100.00EUR", total.Format())

	err = digitalinvoice.ApplyEdit(invoice, digitalinvoice.Edit{
		Op:       digitalinvoice.EditDeselect,
		Index:    0,
		ReasonID: "r1",
	})
	require.NoError(t, err)

	total, ok = invoice.Total()
	require.True(t, ok)
	assert.Equal(t, "50.00EUR", total.Format())

	feedback := digitalinvoice.ToPayload(invoice)
	assert.Equal(t, "50.00EUR", feedback.Fields["amountToPay"])
}

func TestDecodePayload(t *testing.T) {
	payload, err := digitalinvoice.DecodePayload([]byte(samplePayload))
	require.NoError(t, err)
	assert.Len(t, payload.LineItems, 2)

	_, err = digitalinvoice.DecodePayload([]byte("not json"))
	require.Error(t, err)
}

func TestParsePrice(t *testing.T) {
	p, err := digitalinvoice.ParsePrice("19.99EUR")
	require.NoError(t, err)
	assert.Equal(t, "19.99EUR", p.Format())

	_, err = digitalinvoice.ParsePrice("broken")
	require.Error(t, err)
	assert.True(t, errors.Is(err, digitalinvoice.ErrCannotParsePrice))
}

func TestWithRequiredArticleNumber(t *testing.T) {
	parser := digitalinvoice.NewParser(digitalinvoice.WithRequiredArticleNumber())

	_, err := parser.ParseBytes([]byte(samplePayload))
	require.Error(t, err)
	assert.True(t, errors.Is(err, digitalinvoice.ErrArticleNumberMissing))
}

// Test re-exported constants
func TestReExportedConstants(t *testing.T) {
	assert.Equal(t, digitalinvoice.AddonKind("shipment-addon"), digitalinvoice.AddonShipment)
	assert.Equal(t, digitalinvoice.AddonKind("discount-addon"), digitalinvoice.AddonDiscount)
	assert.Equal(t, digitalinvoice.AddonKind("giftcard-addon"), digitalinvoice.AddonGiftCard)

	assert.Equal(t, digitalinvoice.EditOp("select"), digitalinvoice.EditSelect)
	assert.Equal(t, digitalinvoice.EditOp("set_quantity"), digitalinvoice.EditSetQuantity)

	assert.Equal(t, 1, digitalinvoice.MinQuantity)
	assert.Equal(t, 99999, digitalinvoice.MaxQuantity)
	assert.Equal(t, "Untitled article", digitalinvoice.UntitledArticleName)
}

func TestNewUserLineItem(t *testing.T) {
	price, err := digitalinvoice.ParsePrice("5.00EUR")
	require.NoError(t, err)

	item := digitalinvoice.NewUserLineItem("Extra", 2, price)
	assert.True(t, item.IsUserAdded())
	assert.Equal(t, "10.00EUR", item.TotalPrice().Format())
}
