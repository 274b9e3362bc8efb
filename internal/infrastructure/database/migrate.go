package database

import (
	"go.uber.org/zap"
	"gorm.io/gorm"

	"funding-server/internal/domain/model"
)

// Migrate runs database migrations
func Migrate(db *gorm.DB, logger *zap.Logger) error {
	logger.Info("Running database migrations...")

	err := db.AutoMigrate(
		&model.Payment{},
		&model.Balance{},
		&model.BalanceTransaction{},
	)
	if err != nil {
		logger.Error("Failed to run migrations", zap.Error(err))
		return err
	}

	// Custom indexes GORM doesn't handle automatically
	if err := createCustomIndexes(db); err != nil {
		logger.Error("Failed to create custom indexes", zap.Error(err))
		return err
	}

	logger.Info("Database migrations completed successfully")
	return nil
}

func createCustomIndexes(db *gorm.DB) error {
	// Pending payments are the reconciliation working set
	if err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_payments_pending ON payments (created_at) WHERE status = 'pending'`).Error; err != nil {
		return err
	}

	return nil
}
