package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Balance represents a user's spendable balance. Created lazily on the
// first credit. Amount only increases, via a completed Payment's credit.
type Balance struct {
	UserID    string          `gorm:"primaryKey;size:64" json:"user_id"`
	Amount    decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"amount"`
	UpdatedAt time.Time       `gorm:"default:now()" json:"updated_at"`
}

// TableName specifies the table name for GORM
func (Balance) TableName() string {
	return "balances"
}

// BalanceTransaction is the append-only credit journal. The unique
// ReferenceID (the processor invoice id) guarantees each completed Payment
// credits its owner's Balance at most once.
type BalanceTransaction struct {
	ID           int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID       string          `gorm:"size:64;not null;index" json:"user_id"`
	Amount       decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount"`
	BalanceAfter decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"balance_after"`
	Description  string          `gorm:"not null" json:"description"`
	ReferenceID  *string         `gorm:"size:100;unique" json:"reference_id,omitempty"`
	CreatedAt    time.Time       `gorm:"default:now()" json:"created_at"`
}

// TableName specifies the table name for GORM
func (BalanceTransaction) TableName() string {
	return "balance_transactions"
}
