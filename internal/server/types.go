package server

import (
	"github.com/rezonia/digital-invoice/internal/extraction"
	"github.com/rezonia/digital-invoice/internal/model"
)

// LineItemView is the JSON shape of one line item.
type LineItemView struct {
	Name          string              `json:"name"`
	ArticleNumber string              `json:"article_number,omitempty"`
	Description   string              `json:"description,omitempty"`
	Quantity      int                 `json:"quantity"`
	UnitPrice     string              `json:"unit_price"`
	TotalPrice    string              `json:"total_price"`
	Selected      bool                `json:"selected"`
	Reason        *model.ReturnReason `json:"reason,omitempty"`
	UserAdded     bool                `json:"user_added"`
}

// AddonView is the JSON shape of one addon.
type AddonView struct {
	Kind        string `json:"kind"`
	DisplayName string `json:"display_name"`
	Price       string `json:"price"`
}

// InvoiceView is the JSON shape of a parsed invoice.
type InvoiceView struct {
	LineItems         []LineItemView       `json:"line_items"`
	Addons            []AddonView          `json:"addons,omitempty"`
	AmountToPay       string               `json:"amount_to_pay"`
	Total             *string              `json:"total"`
	Currency          string               `json:"currency"`
	NumSelected       int                  `json:"num_selected"`
	NumTotal          int                  `json:"num_total"`
	InaccurateResults bool                 `json:"inaccurate_results"`
	ReturnReasons     []model.ReturnReason `json:"return_reasons,omitempty"`
}

// ParseResponse is the response for the parse and document endpoints.
type ParseResponse struct {
	Invoice    InvoiceView `json:"invoice"`
	Method     string      `json:"method"`
	Confidence float64     `json:"confidence"`
	Warnings   []string    `json:"warnings,omitempty"`
}

// Edit is one user edit applied during reconciliation. Op takes the
// model.EditOp vocabulary: select, deselect, set_quantity, set_price,
// add_item, remove_item.
type Edit struct {
	Op       string `json:"op" binding:"required"`
	Index    int    `json:"index"`
	Quantity int    `json:"quantity,omitempty"`
	Price    string `json:"price,omitempty"`
	Name     string `json:"name,omitempty"`
	ReasonID string `json:"reason_id,omitempty"`
}

// ReconcileRequest carries a payload plus the edits to replay on it.
type ReconcileRequest struct {
	Payload *extraction.Payload `json:"payload" binding:"required"`
	Edits   []Edit              `json:"edits"`
}

// ReconcileResponse returns the reconciled invoice and the feedback payload
// ready for submission.
type ReconcileResponse struct {
	Invoice  InvoiceView         `json:"invoice"`
	Feedback *extraction.Payload `json:"feedback"`
}

// InfoResponse is the response for the info endpoint.
type InfoResponse struct {
	Format string `json:"format"`
	Size   int    `json:"size"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error    string   `json:"error"`
	Warnings []string `json:"warnings,omitempty"`
}
