package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"funding-server/internal/domain/model"
)

func newPayment(invoiceID, userID string, createdAt time.Time) *model.Payment {
	return &model.Payment{
		UserID:        userID,
		OrderID:       "order-" + invoiceID,
		ExternalTxnID: invoiceID,
		Amount:        decimal.RequireFromString("25.00"),
		Status:        model.PaymentStatusPending,
		CreatedAt:     createdAt,
	}
}

func TestPaymentStore(t *testing.T) {
	ctx := context.Background()

	t.Run("create rejects duplicate external txn ids", func(t *testing.T) {
		store := NewStore()
		require.NoError(t, store.Payments().Create(ctx, newPayment("INV1", "U1", time.Time{})))

		err := store.Payments().Create(ctx, newPayment("INV1", "U2", time.Time{}))
		assert.ErrorIs(t, err, model.ErrDuplicateTxnID)
	})

	t.Run("lookup of a missing payment is nil without error", func(t *testing.T) {
		store := NewStore()
		payment, err := store.Payments().GetByExternalTxnID(ctx, "INV404")
		require.NoError(t, err)
		assert.Nil(t, payment)
	})

	t.Run("transition applies only from the expected status", func(t *testing.T) {
		store := NewStore()
		require.NoError(t, store.Payments().Create(ctx, newPayment("INV1", "U1", time.Time{})))

		applied, err := store.Payments().TransitionStatus(ctx, "INV1", model.PaymentStatusPending, model.PaymentStatusCompleted)
		require.NoError(t, err)
		assert.True(t, applied)

		// Already completed: both a repeat and a conflicting transition no-op
		applied, err = store.Payments().TransitionStatus(ctx, "INV1", model.PaymentStatusPending, model.PaymentStatusCompleted)
		require.NoError(t, err)
		assert.False(t, applied)

		applied, err = store.Payments().TransitionStatus(ctx, "INV1", model.PaymentStatusPending, model.PaymentStatusFailed)
		require.NoError(t, err)
		assert.False(t, applied)

		payment, err := store.Payments().GetByExternalTxnID(ctx, "INV1")
		require.NoError(t, err)
		assert.Equal(t, model.PaymentStatusCompleted, payment.Status)
	})

	t.Run("transition on an unknown payment is a no-op", func(t *testing.T) {
		store := NewStore()
		applied, err := store.Payments().TransitionStatus(ctx, "INV404", model.PaymentStatusPending, model.PaymentStatusCompleted)
		require.NoError(t, err)
		assert.False(t, applied)
	})

	t.Run("listing is newest first with limit and offset", func(t *testing.T) {
		store := NewStore()
		base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
		require.NoError(t, store.Payments().Create(ctx, newPayment("INV1", "U1", base)))
		require.NoError(t, store.Payments().Create(ctx, newPayment("INV2", "U1", base.Add(time.Minute))))
		require.NoError(t, store.Payments().Create(ctx, newPayment("INV3", "U1", base.Add(2*time.Minute))))
		require.NoError(t, store.Payments().Create(ctx, newPayment("INV4", "U2", base.Add(3*time.Minute))))

		payments, err := store.Payments().GetByUserID(ctx, "U1", 2, 0)
		require.NoError(t, err)
		require.Len(t, payments, 2)
		assert.Equal(t, "INV3", payments[0].ExternalTxnID)
		assert.Equal(t, "INV2", payments[1].ExternalTxnID)

		payments, err = store.Payments().GetByUserID(ctx, "U1", 2, 2)
		require.NoError(t, err)
		require.Len(t, payments, 1)
		assert.Equal(t, "INV1", payments[0].ExternalTxnID)

		payments, err = store.Payments().GetByUserID(ctx, "U1", 10, 10)
		require.NoError(t, err)
		assert.Empty(t, payments)
	})
}

func TestBalanceStore(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown user reads zero", func(t *testing.T) {
		store := NewStore()
		balance, err := store.Balances().GetBalance(ctx, "U1")
		require.NoError(t, err)
		assert.True(t, balance.Amount.IsZero())
	})

	t.Run("credits accumulate and journal the running balance", func(t *testing.T) {
		store := NewStore()

		balance, tx, err := store.Balances().Credit(ctx, "U1", decimal.RequireFromString("25.00"), "first", "INV1")
		require.NoError(t, err)
		assert.True(t, balance.Amount.Equal(decimal.RequireFromString("25.00")))
		assert.True(t, tx.BalanceAfter.Equal(decimal.RequireFromString("25.00")))

		balance, tx, err = store.Balances().Credit(ctx, "U1", decimal.RequireFromString("10.00"), "second", "INV2")
		require.NoError(t, err)
		assert.True(t, balance.Amount.Equal(decimal.RequireFromString("35.00")))
		assert.True(t, tx.BalanceAfter.Equal(decimal.RequireFromString("35.00")))
	})

	t.Run("a repeated reference id credits once", func(t *testing.T) {
		store := NewStore()

		_, first, err := store.Balances().Credit(ctx, "U1", decimal.RequireFromString("25.00"), "credit", "INV1")
		require.NoError(t, err)

		balance, second, err := store.Balances().Credit(ctx, "U1", decimal.RequireFromString("25.00"), "credit", "INV1")
		require.NoError(t, err)
		assert.Equal(t, first.ID, second.ID)
		assert.True(t, balance.Amount.Equal(decimal.RequireFromString("25.00")))
	})

	t.Run("concurrent credits with one reference apply once", func(t *testing.T) {
		store := NewStore()

		var wg sync.WaitGroup
		for i := 0; i < 16; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, _, err := store.Balances().Credit(ctx, "U1", decimal.RequireFromString("25.00"), "credit", "INV1")
				assert.NoError(t, err)
			}()
		}
		wg.Wait()

		balance, err := store.Balances().GetBalance(ctx, "U1")
		require.NoError(t, err)
		assert.True(t, balance.Amount.Equal(decimal.RequireFromString("25.00")))
	})
}
