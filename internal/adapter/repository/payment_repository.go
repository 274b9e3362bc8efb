package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"funding-server/internal/domain/model"
	domainRepo "funding-server/internal/domain/repository"
)

// paymentRepository implements the PaymentRepository interface
type paymentRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewPaymentRepository creates a new payment repository instance
func NewPaymentRepository(db *gorm.DB, logger *zap.Logger) domainRepo.PaymentRepository {
	return &paymentRepository{
		db:     db,
		logger: logger,
	}
}

func (r *paymentRepository) Create(ctx context.Context, payment *model.Payment) error {
	if err := r.db.WithContext(ctx).Create(payment).Error; err != nil {
		r.logger.Error("Failed to create payment",
			zap.String("external_txn_id", payment.ExternalTxnID),
			zap.String("user_id", payment.UserID),
			zap.Error(err))
		return fmt.Errorf("failed to create payment: %w", err)
	}
	return nil
}

func (r *paymentRepository) GetByExternalTxnID(ctx context.Context, externalTxnID string) (*model.Payment, error) {
	var payment model.Payment

	err := r.db.WithContext(ctx).
		Where("external_txn_id = ?", externalTxnID).
		First(&payment).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Error("Failed to get payment",
			zap.String("external_txn_id", externalTxnID),
			zap.Error(err))
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}

	return &payment, nil
}

func (r *paymentRepository) GetByUserID(ctx context.Context, userID string, limit, offset int) ([]*model.Payment, error) {
	var payments []*model.Payment

	query := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC")

	if limit > 0 {
		query = query.Limit(limit)
	}

	if offset > 0 {
		query = query.Offset(offset)
	}

	if err := query.Find(&payments).Error; err != nil {
		r.logger.Error("Failed to list payments",
			zap.String("user_id", userID),
			zap.Error(err))
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}

	return payments, nil
}

// TransitionStatus runs a single conditional UPDATE so that concurrent or
// duplicate deliveries for the same invoice serialize at the database row:
// exactly one caller observes true for a given from→to edge.
func (r *paymentRepository) TransitionStatus(ctx context.Context, externalTxnID string, from, to model.PaymentStatus) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&model.Payment{}).
		Where("external_txn_id = ? AND status = ?", externalTxnID, from).
		Updates(map[string]interface{}{
			"status":     to,
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		r.logger.Error("Failed to transition payment status",
			zap.String("external_txn_id", externalTxnID),
			zap.String("from", string(from)),
			zap.String("to", string(to)),
			zap.Error(result.Error))
		return false, fmt.Errorf("failed to transition payment status: %w", result.Error)
	}

	applied := result.RowsAffected > 0
	if applied {
		r.logger.Info("Payment status transitioned",
			zap.String("external_txn_id", externalTxnID),
			zap.String("from", string(from)),
			zap.String("to", string(to)))
	}

	return applied, nil
}
