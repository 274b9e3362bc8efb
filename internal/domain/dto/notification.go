package dto

// WebhookNotification is the processor's invoice state-change delivery.
// Deliveries are at-least-once and may arrive out of order; the shape is
// validated before any state is touched.
type WebhookNotification struct {
	Invoice *WebhookInvoice `json:"invoice" validate:"required"`
}

// WebhookInvoice carries the invoice identity, its remote state and the
// custom data attached at creation time.
type WebhookInvoice struct {
	ID         string             `json:"id" validate:"required"`
	State      string             `json:"state"`
	CustomData *InvoiceCustomData `json:"customData" validate:"required"`
}

// InvoiceCustomData is the opaque association data this service attached to
// the invoice, echoed back by the processor.
type InvoiceCustomData struct {
	OrderID string `json:"orderId" validate:"required"`
	UserID  string `json:"userId" validate:"required"`
}

// WebhookResponse acknowledges a reconciled notification.
type WebhookResponse struct {
	Success bool   `json:"success"`
	Status  string `json:"status"`
}
