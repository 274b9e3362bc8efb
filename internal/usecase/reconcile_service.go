package usecase

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"funding-server/internal/domain/dto"
	apperrors "funding-server/internal/domain/errors"
	"funding-server/internal/domain/model"
	domainRepo "funding-server/internal/domain/repository"
)

// StatusFromRemoteState maps the processor's invoice state to the internal
// payment status. Unknown states map to pending: no credit, no failure.
func StatusFromRemoteState(state string) model.PaymentStatus {
	switch state {
	case "Paid", "Completed":
		return model.PaymentStatusCompleted
	case "Cancelled", "Expired":
		return model.PaymentStatusFailed
	case "Pending":
		return model.PaymentStatusPending
	default:
		return model.PaymentStatusPending
	}
}

// ReconcileService applies inbound invoice notifications to payment state.
// Deliveries are at-least-once and possibly out of order; the pending→completed
// transition fires at most once per invoice, and only that transition credits
// the owner's balance.
type ReconcileService struct {
	paymentRepo domainRepo.PaymentRepository
	balanceRepo domainRepo.BalanceRepository
	validate    *validator.Validate
	logger      *zap.Logger
}

// NewReconcileService creates a new reconciliation service instance
func NewReconcileService(
	paymentRepo domainRepo.PaymentRepository,
	balanceRepo domainRepo.BalanceRepository,
	logger *zap.Logger,
) *ReconcileService {
	return &ReconcileService{
		paymentRepo: paymentRepo,
		balanceRepo: balanceRepo,
		validate:    validator.New(),
		logger:      logger,
	}
}

// Reconcile validates the notification, looks up the matching Payment, maps
// the remote state and applies the transition. Validation and not-found
// failures change no state; persistence failures surface so the caller fails
// the delivery and the notifier redelivers.
func (s *ReconcileService) Reconcile(ctx context.Context, notification *dto.WebhookNotification) (model.PaymentStatus, error) {
	if err := s.validate.Struct(notification); err != nil {
		return "", apperrors.NewValidationError(fmt.Sprintf("malformed notification: %v", err))
	}

	invoice := notification.Invoice

	payment, err := s.paymentRepo.GetByExternalTxnID(ctx, invoice.ID)
	if err != nil {
		return "", apperrors.NewPersistenceError("failed to look up payment", err)
	}
	if payment == nil {
		return "", apperrors.NewNotFoundError("payment", invoice.ID)
	}

	target := StatusFromRemoteState(invoice.State)

	s.logger.Info("Reconciling notification",
		zap.String("invoice_id", invoice.ID),
		zap.String("remote_state", invoice.State),
		zap.String("current_status", string(payment.Status)),
		zap.String("target_status", string(target)))

	// A pending target never advances anything; terminal statuses are
	// final either way.
	if target == model.PaymentStatusPending {
		return payment.Status, nil
	}

	applied, err := s.paymentRepo.TransitionStatus(ctx, invoice.ID, model.PaymentStatusPending, target)
	if err != nil {
		return "", apperrors.NewPersistenceError("failed to apply status transition", err)
	}

	if !applied {
		// Lost the race or a redelivery: the payment already left
		// pending. Report its settled status without touching the
		// balance.
		current, err := s.paymentRepo.GetByExternalTxnID(ctx, invoice.ID)
		if err != nil || current == nil {
			return "", apperrors.NewPersistenceError("failed to re-read payment after no-op transition", err)
		}

		// A redelivered "Paid" still runs the reference-deduplicated
		// credit: it is a no-op when the credit already committed, and
		// it repairs the case where a crash separated the transition
		// from its credit.
		if target == model.PaymentStatusCompleted && current.Status == model.PaymentStatusCompleted {
			description := fmt.Sprintf("Funding credit for order %s", payment.OrderID)
			if _, _, err := s.balanceRepo.Credit(ctx, payment.UserID, payment.Amount, description, payment.ExternalTxnID); err != nil {
				return "", apperrors.NewPersistenceError("failed to credit balance", err)
			}
		}

		s.logger.Info("Notification was a no-op",
			zap.String("invoice_id", invoice.ID),
			zap.String("status", string(current.Status)))
		return current.Status, nil
	}

	if target == model.PaymentStatusCompleted {
		description := fmt.Sprintf("Funding credit for order %s", payment.OrderID)
		balance, _, err := s.balanceRepo.Credit(ctx, payment.UserID, payment.Amount, description, payment.ExternalTxnID)
		if err != nil {
			// The payment is completed but the credit did not
			// commit. The delivery must fail so the notifier
			// retries; the journal's reference id keeps the retry
			// from double-crediting.
			return "", apperrors.NewPersistenceError("failed to credit balance", err)
		}

		s.logger.Info("Payment completed and balance credited",
			zap.String("invoice_id", invoice.ID),
			zap.String("user_id", payment.UserID),
			zap.String("amount", payment.Amount.StringFixed(2)),
			zap.String("new_balance", balance.Amount.String()))
	}

	return target, nil
}
