package dto

// CreateFundingRequest is the client-facing funding request body.
type CreateFundingRequest struct {
	UserID    string `json:"userId" validate:"required"`
	Amount    string `json:"amount" validate:"required"`
	OrderID   string `json:"orderId" validate:"required"`
	UserEmail string `json:"userEmail" validate:"omitempty,email"`
}

// CreateFundingResponse is returned once the remote invoice exists and the
// pending Payment has been persisted.
type CreateFundingResponse struct {
	Success     bool   `json:"success"`
	InvoiceID   string `json:"invoice_id"`
	StatusURL   string `json:"status_url"`
	CheckoutURL string `json:"checkout_url"`
}
