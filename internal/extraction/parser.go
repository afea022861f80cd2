package extraction

import (
	"sort"
	"strconv"

	"github.com/rezonia/digital-invoice/internal/model"
	"github.com/rezonia/digital-invoice/internal/money"
)

// Parser builds Invoices from raw extraction payloads.
//
// Construction is all-or-nothing: the first structural error in any
// line-item group aborts the whole parse, so every computation downstream
// can rely on a fully consistent invoice.
type Parser struct {
	requireArticleNumber bool
}

// Option configures the parser.
type Option func(*Parser)

// WithRequiredArticleNumber makes a line-item group without an article
// number a structural error instead of an optional field.
func WithRequiredArticleNumber() Option {
	return func(p *Parser) {
		p.requireArticleNumber = true
	}
}

// NewParser creates a parser.
func NewParser(opts ...Option) *Parser {
	p := &Parser{}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ParseBytes decodes a JSON payload and parses it into an Invoice.
func (p *Parser) ParseBytes(data []byte) (*model.Invoice, error) {
	payload, err := Decode(data)
	if err != nil {
		return nil, err
	}
	return p.Parse(payload)
}

// Parse turns a payload into an Invoice, enforcing the required-field and
// single-currency invariants.
func (p *Parser) Parse(payload *Payload) (*model.Invoice, error) {
	if len(payload.LineItems) == 0 {
		return nil, model.NewFieldError("lineItems", model.ErrLineItemsMissing)
	}

	items := make([]*model.LineItem, 0, len(payload.LineItems))
	for i, group := range payload.LineItems {
		item, err := p.parseLineItem(group, i)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	currency := items[0].Currency()
	for i, item := range items {
		if item.Currency() != currency {
			return nil, model.NewItemFieldError(ItemFieldPrice, i, model.ErrMixedCurrencies)
		}
	}

	inaccurate := false
	if raw, ok := payload.Fields[FieldAmountsAreConsistent]; ok {
		// An unreadable flag falls back to "consistent", same as absence.
		if consistent, err := strconv.ParseBool(raw); err == nil {
			inaccurate = !consistent
		}
	}

	// A missing or unparsable amount to pay degrades to zero rather than
	// failing: the total stays recomputable from the line items.
	amountToPay := money.Zero(currency)
	if raw, ok := payload.Fields[FieldAmountToPay]; ok {
		if parsed, err := money.Parse(raw); err == nil {
			if parsed.Currency != currency {
				return nil, model.NewFieldError(FieldAmountToPay, model.ErrMixedCurrencies)
			}
			amountToPay = parsed
		}
	}

	addons := parseAddons(payload.Fields)

	reasons := make([]model.ReturnReason, 0, len(payload.ReturnReasons))
	for _, r := range payload.ReturnReasons {
		reasons = append(reasons, model.ReturnReason{ID: r.ID, Label: r.Label})
	}

	return model.NewInvoice(model.InvoiceParams{
		LineItems:         items,
		Addons:            addons,
		AmountToPay:       amountToPay,
		ReturnReasons:     reasons,
		InaccurateResults: inaccurate,
		SourceFields:      payload.Fields,
	})
}

func (p *Parser) parseLineItem(group FieldGroup, index int) (*model.LineItem, error) {
	name, ok := group[ItemFieldName]
	if !ok {
		return nil, model.NewItemFieldError(ItemFieldName, index, model.ErrNameMissing)
	}

	rawQuantity, ok := group[ItemFieldQuantity]
	if !ok {
		return nil, model.NewItemFieldError(ItemFieldQuantity, index, model.ErrQuantityMissing)
	}
	quantity, err := strconv.Atoi(rawQuantity)
	if err != nil {
		return nil, model.NewItemFieldError(ItemFieldQuantity, index, model.ErrCannotParseQuantity)
	}

	rawPrice, ok := group[ItemFieldPrice]
	if !ok {
		return nil, model.NewItemFieldError(ItemFieldPrice, index, model.ErrPriceMissing)
	}
	price, err := money.Parse(rawPrice)
	if err != nil {
		return nil, model.NewItemFieldError(ItemFieldPrice, index, err)
	}

	articleNumber := group[ItemFieldArticleNumber]
	if p.requireArticleNumber && articleNumber == "" {
		return nil, model.NewItemFieldError(ItemFieldArticleNumber, index, model.ErrArticleNumberMissing)
	}

	return model.NewExtractedLineItem(name, articleNumber, group[ItemFieldDescription], quantity, price), nil
}

// parseAddons scans scalar fields for addon-shaped names. Fields that carry
// the addon vocabulary but do not parse as a price are skipped, not failed.
func parseAddons(fields map[string]string) []model.Addon {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	var addons []model.Addon
	for _, name := range names {
		kind, ok := model.AddonKindFromField(name)
		if !ok {
			continue
		}
		price, err := money.Parse(fields[name])
		if err != nil {
			continue
		}
		addons = append(addons, model.Addon{Kind: kind, Price: price})
	}
	return addons
}
