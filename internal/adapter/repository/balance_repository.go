package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"funding-server/internal/domain/model"
	domainRepo "funding-server/internal/domain/repository"
)

// balanceRepository implements the BalanceRepository interface
type balanceRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewBalanceRepository creates a new balance repository instance
func NewBalanceRepository(db *gorm.DB, logger *zap.Logger) domainRepo.BalanceRepository {
	return &balanceRepository{
		db:     db,
		logger: logger,
	}
}

// GetBalance retrieves the current balance for a user
func (r *balanceRepository) GetBalance(ctx context.Context, userID string) (*model.Balance, error) {
	var balance model.Balance

	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&balance).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Absent balance reads as zero
			return &model.Balance{
				UserID: userID,
				Amount: decimal.Zero,
			}, nil
		}
		r.logger.Error("Failed to get balance",
			zap.String("user_id", userID),
			zap.Error(err))
		return nil, fmt.Errorf("failed to get balance: %w", err)
	}

	return &balance, nil
}

// Credit adds amount to the user's balance atomically. The whole
// read-modify-write runs in one transaction with the balance row locked, and
// the journal's unique reference id rejects a second credit for the same
// invoice.
func (r *balanceRepository) Credit(ctx context.Context, userID string, amount decimal.Decimal, description string, referenceID string) (*model.Balance, *model.BalanceTransaction, error) {
	var balance *model.Balance
	var transaction *model.BalanceTransaction

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Check for an existing journal entry with the same reference id
		// (idempotency)
		if referenceID != "" {
			var existingTx model.BalanceTransaction
			err := tx.Where("reference_id = ?", referenceID).First(&existingTx).Error
			if err == nil {
				transaction = &existingTx

				var currentBalance model.Balance
				if err := tx.Where("user_id = ?", userID).First(&currentBalance).Error; err == nil {
					balance = &currentBalance
				} else {
					balance = &model.Balance{UserID: userID, Amount: existingTx.BalanceAfter}
				}

				r.logger.Info("Credit already applied (idempotency)",
					zap.String("reference_id", referenceID),
					zap.String("user_id", userID))
				return nil
			}
		}

		// Lock the user's balance row for update, creating it on first
		// credit
		var currentBalance model.Balance
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ?", userID).
			FirstOrCreate(&currentBalance, model.Balance{
				UserID: userID,
				Amount: decimal.Zero,
			}).Error

		if err != nil {
			return fmt.Errorf("failed to lock balance: %w", err)
		}

		newBalance := currentBalance.Amount.Add(amount)

		transaction = &model.BalanceTransaction{
			UserID:       userID,
			Amount:       amount,
			BalanceAfter: newBalance,
			Description:  description,
		}
		if referenceID != "" {
			transaction.ReferenceID = &referenceID
		}

		if err := tx.Create(transaction).Error; err != nil {
			return fmt.Errorf("failed to create balance transaction: %w", err)
		}

		currentBalance.Amount = newBalance
		currentBalance.UpdatedAt = time.Now()

		if err := tx.Save(&currentBalance).Error; err != nil {
			return fmt.Errorf("failed to update balance: %w", err)
		}

		balance = &currentBalance
		return nil
	})

	if err != nil {
		r.logger.Error("Failed to credit balance",
			zap.String("user_id", userID),
			zap.String("amount", amount.String()),
			zap.String("reference_id", referenceID),
			zap.Error(err))
		return nil, nil, fmt.Errorf("failed to credit balance: %w", err)
	}

	r.logger.Info("Balance credited",
		zap.String("user_id", userID),
		zap.String("amount", amount.String()),
		zap.String("new_balance", balance.Amount.String()),
		zap.String("reference_id", referenceID))

	return balance, transaction, nil
}
