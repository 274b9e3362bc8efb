package repository

import (
	"context"

	"funding-server/internal/domain/model"
)

// PaymentRepository defines the store operations for Payment records.
type PaymentRepository interface {
	// Create persists a new Payment. ExternalTxnID must be unique.
	Create(ctx context.Context, payment *model.Payment) error

	// GetByExternalTxnID retrieves a Payment by the processor-assigned
	// invoice id. Returns (nil, nil) when no such Payment exists.
	GetByExternalTxnID(ctx context.Context, externalTxnID string) (*model.Payment, error)

	// GetByUserID retrieves a user's payments, newest first.
	GetByUserID(ctx context.Context, userID string, limit, offset int) ([]*model.Payment, error)

	// TransitionStatus atomically advances the Payment's status from
	// `from` to `to`, refreshing updated_at. Returns true only when the
	// conditional update matched a row; concurrent or duplicate callers
	// for the same invoice see at most one true result.
	TransitionStatus(ctx context.Context, externalTxnID string, from, to model.PaymentStatus) (bool, error)
}
