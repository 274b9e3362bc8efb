package usecase

import (
	"context"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"funding-server/internal/config"
	"funding-server/internal/domain/dto"
	apperrors "funding-server/internal/domain/errors"
	"funding-server/internal/domain/model"
	"funding-server/internal/domain/provider"
	domainRepo "funding-server/internal/domain/repository"
)

// Funding amounts are bounded in the settlement currency's decimal unit.
var (
	minFundingAmount = decimal.NewFromInt(10)
	maxFundingAmount = decimal.NewFromInt(10000)
)

// InvoiceService creates remote invoices and persists the pending Payment.
type InvoiceService struct {
	paymentRepo domainRepo.PaymentRepository
	provider    provider.InvoiceProvider
	funding     config.FundingConfig
	logger      *zap.Logger
}

// NewInvoiceService creates a new invoice service instance
func NewInvoiceService(
	paymentRepo domainRepo.PaymentRepository,
	invoiceProvider provider.InvoiceProvider,
	funding config.FundingConfig,
	logger *zap.Logger,
) *InvoiceService {
	return &InvoiceService{
		paymentRepo: paymentRepo,
		provider:    invoiceProvider,
		funding:     funding,
		logger:      logger,
	}
}

// CreateInvoice validates the funding request, creates the remote invoice
// and persists a pending Payment keyed by the processor-assigned invoice id.
// The remote call is never retried: without an idempotency key a retry could
// create a duplicate invoice. A persistence failure after a successful
// remote call is surfaced as-is; the stray remote invoice is an operator
// concern, not a reason to create another one.
func (s *InvoiceService) CreateInvoice(ctx context.Context, req *dto.CreateFundingRequest) (*dto.CreateFundingResponse, error) {
	if req.UserID == "" {
		return nil, apperrors.NewValidationError("userId is required")
	}
	if req.OrderID == "" {
		return nil, apperrors.NewValidationError("orderId is required")
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return nil, apperrors.NewValidationError("amount must be a number")
	}
	if amount.LessThan(minFundingAmount) || amount.GreaterThan(maxFundingAmount) {
		return nil, apperrors.NewValidationError("amount must be between 10 and 10000")
	}

	invoice, err := s.provider.CreateInvoice(ctx, &provider.CreateInvoiceRequest{
		Amount:         amount,
		Currency:       s.funding.Currency,
		CryptoCurrency: s.funding.CryptoCurrency,
		ItemName:       s.funding.ItemName,
		RefundEmail:    req.UserEmail,
		OrderID:        req.OrderID,
		UserID:         req.UserID,
	})
	if err != nil {
		return nil, err
	}

	payment := &model.Payment{
		UserID:         req.UserID,
		OrderID:        req.OrderID,
		ExternalTxnID:  invoice.InvoiceID,
		Amount:         amount,
		Currency:       s.funding.Currency,
		CryptoCurrency: s.funding.CryptoCurrency,
		Status:         model.PaymentStatusPending,
	}

	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		s.logger.Error("Failed to persist pending payment; invoice exists remotely",
			zap.String("invoice_id", invoice.InvoiceID),
			zap.String("order_id", req.OrderID),
			zap.String("user_id", req.UserID),
			zap.Error(err))
		return nil, apperrors.NewPersistenceError("failed to persist pending payment", err)
	}

	s.logger.Info("Pending payment recorded",
		zap.String("invoice_id", invoice.InvoiceID),
		zap.String("order_id", req.OrderID),
		zap.String("user_id", req.UserID),
		zap.String("amount", amount.StringFixed(2)))

	return &dto.CreateFundingResponse{
		Success:     true,
		InvoiceID:   invoice.InvoiceID,
		StatusURL:   invoice.Link,
		CheckoutURL: invoice.CheckoutURL,
	}, nil
}
