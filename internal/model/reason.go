package model

// ReturnReason is a backend-supplied justification the user may attach when
// deselecting a line item. Label is already localized by the backend.
type ReturnReason struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}
