package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/digital-invoice/internal/model"
	"github.com/rezonia/digital-invoice/internal/money"
)

func mustPrice(t *testing.T, s string) money.Price {
	t.Helper()
	p, err := money.Parse(s)
	require.NoError(t, err)
	return p
}

func TestNewExtractedLineItem(t *testing.T) {
	li := model.NewExtractedLineItem("Book", "A-1", "Hardcover", 2, mustPrice(t, "25.00EUR"))

	assert.Equal(t, "Book", li.Name())
	assert.Equal(t, "A-1", li.ArticleNumber())
	assert.Equal(t, "Hardcover", li.Description())
	assert.Equal(t, 2, li.Quantity())
	assert.Equal(t, "50.00EUR", li.TotalPrice().Format())
	assert.True(t, li.IsSelected())
	assert.False(t, li.IsUserAdded())
	assert.False(t, li.Edited())
}

func TestNewUserLineItem(t *testing.T) {
	li := model.NewUserLineItem("Extra", 1, mustPrice(t, "20.00EUR"))

	assert.True(t, li.IsUserAdded())
	assert.True(t, li.IsSelected())
	assert.Equal(t, "20.00EUR", li.TotalPrice().Format())
}

func TestLineItem_EmptyNamePlaceholder(t *testing.T) {
	li := model.NewExtractedLineItem("   ", "", "", 1, mustPrice(t, "1.00EUR"))
	assert.Equal(t, model.UntitledArticleName, li.Name())

	li.SetName("")
	assert.Equal(t, model.UntitledArticleName, li.Name())

	li.SetName("Pen")
	assert.Equal(t, "Pen", li.Name())
}

func TestLineItem_QuantityClamping(t *testing.T) {
	tests := []struct {
		name     string
		quantity int
		want     int
	}{
		{"below minimum", 0, model.MinQuantity},
		{"negative", -5, model.MinQuantity},
		{"in range", 42, 42},
		{"at maximum", 99999, model.MaxQuantity},
		{"above maximum", 100000, model.MaxQuantity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			li := model.NewExtractedLineItem("Book", "", "", 1, mustPrice(t, "1.00EUR"))
			li.SetQuantity(tt.quantity)
			assert.Equal(t, tt.want, li.Quantity())
		})
	}
}

func TestLineItem_SetUnitPrice(t *testing.T) {
	li := model.NewExtractedLineItem("Book", "", "", 1, mustPrice(t, "10.00EUR"))

	li.SetUnitPrice(mustPrice(t, "12.50EUR"))
	assert.Equal(t, "12.50EUR", li.UnitPrice().Format())
	assert.True(t, li.Edited())

	// Negative prices are clamped to zero, not rejected.
	li.SetUnitPrice(mustPrice(t, "-3.00EUR"))
	assert.True(t, li.UnitPrice().IsZero())
	assert.Equal(t, "EUR", li.Currency())
}

func TestLineItem_SelectionTransitions(t *testing.T) {
	li := model.NewExtractedLineItem("Book", "", "", 1, mustPrice(t, "10.00EUR"))
	reason := &model.ReturnReason{ID: "r1", Label: "Damaged"}

	li.Deselect(reason)
	assert.False(t, li.IsSelected())
	require.NotNil(t, li.DeselectionReason())
	assert.Equal(t, "r1", li.DeselectionReason().ID)

	// Reselecting drops the reason.
	li.Select()
	assert.True(t, li.IsSelected())
	assert.Nil(t, li.DeselectionReason())

	// Deselecting without a reason is allowed.
	li.Deselect(nil)
	assert.False(t, li.IsSelected())
	assert.Nil(t, li.DeselectionReason())
}

func TestLineItem_UserAddedCannotDeselect(t *testing.T) {
	li := model.NewUserLineItem("Extra", 1, mustPrice(t, "5.00EUR"))

	li.Deselect(&model.ReturnReason{ID: "r1", Label: "Damaged"})
	assert.True(t, li.IsSelected())
	assert.Nil(t, li.DeselectionReason())
}

func TestLineItem_EditedDelta(t *testing.T) {
	li := model.NewExtractedLineItem("Book", "", "", 2, mustPrice(t, "50.00EUR"))

	delta, err := li.EditedDelta()
	require.NoError(t, err)
	assert.True(t, delta.IsZero())

	li.SetUnitPrice(mustPrice(t, "40.00EUR"))
	delta, err = li.EditedDelta()
	require.NoError(t, err)
	assert.Equal(t, "-20.00EUR", delta.Format())

	li.SetQuantity(3)
	delta, err = li.EditedDelta()
	require.NoError(t, err)
	assert.Equal(t, "20.00EUR", delta.Format())
}

func TestLineItem_EditedDeltaUserAdded(t *testing.T) {
	// User-added totals are accounted in full elsewhere; their delta is zero.
	li := model.NewUserLineItem("Extra", 3, mustPrice(t, "5.00EUR"))
	li.SetQuantity(5)

	delta, err := li.EditedDelta()
	require.NoError(t, err)
	assert.True(t, delta.IsZero())
}
