package provider

import (
	"context"

	"github.com/shopspring/decimal"
)

// InvoiceProvider defines the interface to the remote payment processor.
type InvoiceProvider interface {
	// CreateInvoice creates a remote invoice for a funding attempt. The
	// call is not idempotent on the remote side; callers must not retry
	// automatically.
	CreateInvoice(ctx context.Context, req *CreateInvoiceRequest) (*CreateInvoiceResponse, error)
}

// CreateInvoiceRequest is the provider-agnostic invoice creation request.
type CreateInvoiceRequest struct {
	Amount         decimal.Decimal
	Currency       string
	CryptoCurrency string
	ItemName       string
	RefundEmail    string
	OrderID        string
	UserID         string
}

// CreateInvoiceResponse carries the processor-assigned identity and the
// navigation links for the created invoice.
type CreateInvoiceResponse struct {
	InvoiceID   string
	Link        string
	CheckoutURL string
}
