package model

import (
	"database/sql/driver"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// ErrDuplicateTxnID is returned when a Payment with the same external
// transaction id already exists.
var ErrDuplicateTxnID = errors.New("payment with this external transaction id already exists")

// PaymentStatus represents the lifecycle state of a funding attempt
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
)

// Scan implements sql.Scanner interface
func (s *PaymentStatus) Scan(src interface{}) error {
	switch v := src.(type) {
	case string:
		*s = PaymentStatus(v)
	case []byte:
		*s = PaymentStatus(v)
	default:
		*s = PaymentStatusPending
	}
	return nil
}

// Value implements driver.Valuer interface
func (s PaymentStatus) Value() (driver.Value, error) {
	return string(s), nil
}

// Terminal reports whether no further transition may leave this status.
func (s PaymentStatus) Terminal() bool {
	return s == PaymentStatusCompleted || s == PaymentStatusFailed
}

// Payment represents one funding attempt. A Payment is created once at
// invoice-creation time, keyed uniquely by the processor-assigned invoice id,
// and is only ever mutated to advance Status.
type Payment struct {
	ID             int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID         string          `gorm:"size:64;not null;index" json:"user_id"`
	OrderID        string          `gorm:"size:64;not null" json:"order_id"`
	ExternalTxnID  string          `gorm:"column:external_txn_id;unique;not null;size:100" json:"external_txn_id"`
	Amount         decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount"`
	Currency       string          `gorm:"size:3;default:'USD'" json:"currency"`
	CryptoCurrency string          `gorm:"size:16" json:"crypto_currency"`
	Status         PaymentStatus   `gorm:"size:50;not null;default:'pending'" json:"status"`
	CreatedAt      time.Time       `gorm:"default:now()" json:"created_at"`
	UpdatedAt      time.Time       `gorm:"default:now()" json:"updated_at"`
}

// TableName specifies the table name for GORM
func (Payment) TableName() string {
	return "payments"
}
