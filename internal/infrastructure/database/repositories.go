package database

import (
	"go.uber.org/zap"
	"gorm.io/gorm"

	"funding-server/internal/adapter/repository"
	domainRepo "funding-server/internal/domain/repository"
)

// Repositories holds all repository instances
type Repositories struct {
	Payment domainRepo.PaymentRepository
	Balance domainRepo.BalanceRepository
}

// NewRepositories creates new repository instances with database connection
func NewRepositories(db *gorm.DB, logger *zap.Logger) *Repositories {
	return &Repositories{
		Payment: repository.NewPaymentRepository(db, logger),
		Balance: repository.NewBalanceRepository(db, logger),
	}
}
