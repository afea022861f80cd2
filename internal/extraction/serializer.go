package extraction

import (
	"strconv"

	"github.com/rezonia/digital-invoice/internal/model"
)

// ToPayload serializes the invoice's current state back into the extraction
// format. Scalar fields are re-emitted verbatim, except amountToPay, which
// is overwritten with the reconciled total. When the total is undefined the
// original amountToPay field is left untouched.
//
// Parsing the emitted payload and serializing it again without further
// edits yields byte-identical scalar fields.
func ToPayload(inv *model.Invoice) *Payload {
	fields := inv.SourceFields()
	if total, ok := inv.Total(); ok {
		fields[FieldAmountToPay] = total.Format()
	}

	items := inv.LineItems()
	groups := make([]FieldGroup, 0, len(items))
	for _, li := range items {
		group := FieldGroup{
			ItemFieldName:     li.Name(),
			ItemFieldQuantity: strconv.Itoa(li.Quantity()),
			ItemFieldPrice:    li.UnitPrice().Format(),
		}
		if li.ArticleNumber() != "" {
			group[ItemFieldArticleNumber] = li.ArticleNumber()
		}
		if li.Description() != "" {
			group[ItemFieldDescription] = li.Description()
		}
		groups = append(groups, group)
	}

	reasons := inv.ReturnReasons()
	records := make([]ReasonRecord, 0, len(reasons))
	for _, r := range reasons {
		records = append(records, ReasonRecord{ID: r.ID, Label: r.Label})
	}

	return &Payload{
		Fields:        fields,
		LineItems:     groups,
		ReturnReasons: records,
	}
}
