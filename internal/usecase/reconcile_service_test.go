package usecase

import (
	"context"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"funding-server/internal/adapter/repository/memory"
	"funding-server/internal/domain/dto"
	apperrors "funding-server/internal/domain/errors"
	"funding-server/internal/domain/model"
)

func TestStatusFromRemoteState(t *testing.T) {
	tests := []struct {
		state    string
		expected model.PaymentStatus
	}{
		{"Paid", model.PaymentStatusCompleted},
		{"Completed", model.PaymentStatusCompleted},
		{"Cancelled", model.PaymentStatusFailed},
		{"Expired", model.PaymentStatusFailed},
		{"Pending", model.PaymentStatusPending},
		{"SomethingNew", model.PaymentStatusPending},
		{"", model.PaymentStatusPending},
	}

	for _, tt := range tests {
		t.Run(tt.state, func(t *testing.T) {
			assert.Equal(t, tt.expected, StatusFromRemoteState(tt.state))
		})
	}
}

func seedPayment(t *testing.T, store *memory.Store, invoiceID, userID, orderID, amount string) {
	t.Helper()
	err := store.Payments().Create(context.Background(), &model.Payment{
		UserID:        userID,
		OrderID:       orderID,
		ExternalTxnID: invoiceID,
		Amount:        decimal.RequireFromString(amount),
		Currency:      "USD",
		Status:        model.PaymentStatusPending,
	})
	require.NoError(t, err)
}

func notification(invoiceID, state, orderID, userID string) *dto.WebhookNotification {
	return &dto.WebhookNotification{
		Invoice: &dto.WebhookInvoice{
			ID:    invoiceID,
			State: state,
			CustomData: &dto.InvoiceCustomData{
				OrderID: orderID,
				UserID:  userID,
			},
		},
	}
}

func TestReconcileService_Reconcile(t *testing.T) {
	logger := zap.NewNop()
	ctx := context.Background()

	t.Run("paid notification completes the payment and credits once", func(t *testing.T) {
		store := memory.NewStore()
		seedPayment(t, store, "INV1", "U1", "O1", "25.00")
		service := NewReconcileService(store.Payments(), store.Balances(), logger)

		status, err := service.Reconcile(ctx, notification("INV1", "Paid", "O1", "U1"))
		require.NoError(t, err)
		assert.Equal(t, model.PaymentStatusCompleted, status)

		balance, err := store.Balances().GetBalance(ctx, "U1")
		require.NoError(t, err)
		assert.True(t, balance.Amount.Equal(decimal.RequireFromString("25.00")),
			"expected balance 25.00, got %s", balance.Amount)

		// Redelivery reports completed without crediting again
		status, err = service.Reconcile(ctx, notification("INV1", "Paid", "O1", "U1"))
		require.NoError(t, err)
		assert.Equal(t, model.PaymentStatusCompleted, status)

		balance, err = store.Balances().GetBalance(ctx, "U1")
		require.NoError(t, err)
		assert.True(t, balance.Amount.Equal(decimal.RequireFromString("25.00")),
			"redelivery must not double-credit, got %s", balance.Amount)
	})

	t.Run("expired after paid is a no-op", func(t *testing.T) {
		store := memory.NewStore()
		seedPayment(t, store, "INV1", "U1", "O1", "25.00")
		service := NewReconcileService(store.Payments(), store.Balances(), logger)

		_, err := service.Reconcile(ctx, notification("INV1", "Paid", "O1", "U1"))
		require.NoError(t, err)

		status, err := service.Reconcile(ctx, notification("INV1", "Expired", "O1", "U1"))
		require.NoError(t, err)
		assert.Equal(t, model.PaymentStatusCompleted, status)

		payment, err := store.Payments().GetByExternalTxnID(ctx, "INV1")
		require.NoError(t, err)
		assert.Equal(t, model.PaymentStatusCompleted, payment.Status)

		balance, err := store.Balances().GetBalance(ctx, "U1")
		require.NoError(t, err)
		assert.True(t, balance.Amount.Equal(decimal.RequireFromString("25.00")))
	})

	t.Run("cancelled fails the payment without crediting", func(t *testing.T) {
		store := memory.NewStore()
		seedPayment(t, store, "INV1", "U1", "O1", "25.00")
		service := NewReconcileService(store.Payments(), store.Balances(), logger)

		status, err := service.Reconcile(ctx, notification("INV1", "Cancelled", "O1", "U1"))
		require.NoError(t, err)
		assert.Equal(t, model.PaymentStatusFailed, status)

		balance, err := store.Balances().GetBalance(ctx, "U1")
		require.NoError(t, err)
		assert.True(t, balance.Amount.IsZero())
	})

	t.Run("unknown invoice id is not found", func(t *testing.T) {
		store := memory.NewStore()
		service := NewReconcileService(store.Payments(), store.Balances(), logger)

		_, err := service.Reconcile(ctx, notification("INV404", "Paid", "O1", "U1"))
		require.Error(t, err)
		assert.Equal(t, apperrors.CodeNotFound, apperrors.CodeOf(err))

		balance, err := store.Balances().GetBalance(ctx, "U1")
		require.NoError(t, err)
		assert.True(t, balance.Amount.IsZero())
	})

	t.Run("unknown remote state leaves the payment pending", func(t *testing.T) {
		store := memory.NewStore()
		seedPayment(t, store, "INV1", "U1", "O1", "25.00")
		service := NewReconcileService(store.Payments(), store.Balances(), logger)

		status, err := service.Reconcile(ctx, notification("INV1", "Scheduled", "O1", "U1"))
		require.NoError(t, err)
		assert.Equal(t, model.PaymentStatusPending, status)

		payment, err := store.Payments().GetByExternalTxnID(ctx, "INV1")
		require.NoError(t, err)
		assert.Equal(t, model.PaymentStatusPending, payment.Status)
	})

	t.Run("malformed notification is rejected", func(t *testing.T) {
		store := memory.NewStore()
		service := NewReconcileService(store.Payments(), store.Balances(), logger)

		tests := []struct {
			name         string
			notification *dto.WebhookNotification
		}{
			{"missing invoice", &dto.WebhookNotification{}},
			{"missing invoice id", &dto.WebhookNotification{
				Invoice: &dto.WebhookInvoice{
					State:      "Paid",
					CustomData: &dto.InvoiceCustomData{OrderID: "O1", UserID: "U1"},
				},
			}},
			{"missing custom data", &dto.WebhookNotification{
				Invoice: &dto.WebhookInvoice{ID: "INV1", State: "Paid"},
			}},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := service.Reconcile(ctx, tt.notification)
				require.Error(t, err)
				assert.Equal(t, apperrors.CodeValidation, apperrors.CodeOf(err))
			})
		}
	})

	t.Run("paid redelivery repairs a missing credit", func(t *testing.T) {
		store := memory.NewStore()
		seedPayment(t, store, "INV1", "U1", "O1", "25.00")
		service := NewReconcileService(store.Payments(), store.Balances(), logger)

		// Payment already completed but the credit never committed, as after
		// a crash between the transition and the journal write.
		applied, err := store.Payments().TransitionStatus(ctx, "INV1", model.PaymentStatusPending, model.PaymentStatusCompleted)
		require.NoError(t, err)
		require.True(t, applied)

		status, err := service.Reconcile(ctx, notification("INV1", "Paid", "O1", "U1"))
		require.NoError(t, err)
		assert.Equal(t, model.PaymentStatusCompleted, status)

		balance, err := store.Balances().GetBalance(ctx, "U1")
		require.NoError(t, err)
		assert.True(t, balance.Amount.Equal(decimal.RequireFromString("25.00")))
	})

	t.Run("concurrent duplicate deliveries credit exactly once", func(t *testing.T) {
		store := memory.NewStore()
		seedPayment(t, store, "INV1", "U1", "O1", "25.00")
		service := NewReconcileService(store.Payments(), store.Balances(), logger)

		const deliveries = 16

		var wg sync.WaitGroup
		wg.Add(deliveries)
		for i := 0; i < deliveries; i++ {
			go func() {
				defer wg.Done()
				status, err := service.Reconcile(ctx, notification("INV1", "Paid", "O1", "U1"))
				assert.NoError(t, err)
				assert.Equal(t, model.PaymentStatusCompleted, status)
			}()
		}
		wg.Wait()

		balance, err := store.Balances().GetBalance(ctx, "U1")
		require.NoError(t, err)
		assert.True(t, balance.Amount.Equal(decimal.RequireFromString("25.00")),
			"expected one credit of 25.00, got %s", balance.Amount)
	})
}
