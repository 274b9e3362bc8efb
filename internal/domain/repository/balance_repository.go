package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"funding-server/internal/domain/model"
)

// BalanceRepository defines the store operations for user balances.
type BalanceRepository interface {
	// GetBalance retrieves the current balance for a user. A user with no
	// balance row yet reads as zero.
	GetBalance(ctx context.Context, userID string) (*model.Balance, error)

	// Credit adds amount to the user's balance atomically, creating the
	// balance row if absent, and records a journal entry. referenceID
	// deduplicates: crediting the same reference twice leaves the balance
	// unchanged and returns the existing journal entry.
	Credit(ctx context.Context, userID string, amount decimal.Decimal, description string, referenceID string) (*model.Balance, *model.BalanceTransaction, error)
}
