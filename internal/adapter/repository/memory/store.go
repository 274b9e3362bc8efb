// Package memory provides in-memory implementations of the store adapter
// interfaces. They hold the same serialization guarantees as the database
// implementations (conditional status transition, reference-deduplicated
// credit) behind one mutex, and back tests and local runs.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"funding-server/internal/domain/model"
	domainRepo "funding-server/internal/domain/repository"
)

// Store keeps payments, balances and the credit journal in process memory.
type Store struct {
	mu           sync.Mutex
	payments     map[string]*model.Payment // keyed by ExternalTxnID
	balances     map[string]*model.Balance
	transactions map[string]*model.BalanceTransaction // keyed by ReferenceID
	nextTxID     int64
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		payments:     make(map[string]*model.Payment),
		balances:     make(map[string]*model.Balance),
		transactions: make(map[string]*model.BalanceTransaction),
	}
}

// Payments returns the store's PaymentRepository view.
func (s *Store) Payments() domainRepo.PaymentRepository { return &paymentStore{s} }

// Balances returns the store's BalanceRepository view.
func (s *Store) Balances() domainRepo.BalanceRepository { return &balanceStore{s} }

type paymentStore struct{ s *Store }

func (p *paymentStore) Create(_ context.Context, payment *model.Payment) error {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()

	if _, exists := p.s.payments[payment.ExternalTxnID]; exists {
		return model.ErrDuplicateTxnID
	}

	now := time.Now()
	if payment.CreatedAt.IsZero() {
		payment.CreatedAt = now
	}
	if payment.UpdatedAt.IsZero() {
		payment.UpdatedAt = now
	}

	stored := *payment
	p.s.payments[payment.ExternalTxnID] = &stored
	return nil
}

func (p *paymentStore) GetByExternalTxnID(_ context.Context, externalTxnID string) (*model.Payment, error) {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()

	stored, ok := p.s.payments[externalTxnID]
	if !ok {
		return nil, nil
	}

	payment := *stored
	return &payment, nil
}

func (p *paymentStore) GetByUserID(_ context.Context, userID string, limit, offset int) ([]*model.Payment, error) {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()

	var payments []*model.Payment
	for _, stored := range p.s.payments {
		if stored.UserID != userID {
			continue
		}
		payment := *stored
		payments = append(payments, &payment)
	}

	// Newest first
	for i := 0; i < len(payments); i++ {
		for j := i + 1; j < len(payments); j++ {
			if payments[j].CreatedAt.After(payments[i].CreatedAt) {
				payments[i], payments[j] = payments[j], payments[i]
			}
		}
	}

	if offset > 0 {
		if offset >= len(payments) {
			return nil, nil
		}
		payments = payments[offset:]
	}
	if limit > 0 && limit < len(payments) {
		payments = payments[:limit]
	}

	return payments, nil
}

func (p *paymentStore) TransitionStatus(_ context.Context, externalTxnID string, from, to model.PaymentStatus) (bool, error) {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()

	stored, ok := p.s.payments[externalTxnID]
	if !ok || stored.Status != from {
		return false, nil
	}

	stored.Status = to
	stored.UpdatedAt = time.Now()
	return true, nil
}

type balanceStore struct{ s *Store }

func (b *balanceStore) GetBalance(_ context.Context, userID string) (*model.Balance, error) {
	b.s.mu.Lock()
	defer b.s.mu.Unlock()

	stored, ok := b.s.balances[userID]
	if !ok {
		return &model.Balance{UserID: userID, Amount: decimal.Zero}, nil
	}

	balance := *stored
	return &balance, nil
}

func (b *balanceStore) Credit(_ context.Context, userID string, amount decimal.Decimal, description string, referenceID string) (*model.Balance, *model.BalanceTransaction, error) {
	b.s.mu.Lock()
	defer b.s.mu.Unlock()

	if referenceID != "" {
		if existing, ok := b.s.transactions[referenceID]; ok {
			transaction := *existing
			balance := model.Balance{UserID: userID, Amount: existing.BalanceAfter}
			if stored, ok := b.s.balances[userID]; ok {
				balance = *stored
			}
			return &balance, &transaction, nil
		}
	}

	stored, ok := b.s.balances[userID]
	if !ok {
		stored = &model.Balance{UserID: userID, Amount: decimal.Zero}
		b.s.balances[userID] = stored
	}

	stored.Amount = stored.Amount.Add(amount)
	stored.UpdatedAt = time.Now()

	b.s.nextTxID++
	transaction := &model.BalanceTransaction{
		ID:           b.s.nextTxID,
		UserID:       userID,
		Amount:       amount,
		BalanceAfter: stored.Amount,
		Description:  description,
		CreatedAt:    time.Now(),
	}
	if referenceID != "" {
		ref := referenceID
		transaction.ReferenceID = &ref
		b.s.transactions[referenceID] = transaction
	}

	balance := *stored
	result := *transaction
	return &balance, &result, nil
}
