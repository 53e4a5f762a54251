package services

import (
	"context"
	"fmt"
	"time"

	"fintrack/internal/amqp"
	"fintrack/internal/core"
	"fintrack/internal/log"
	"fintrack/internal/store"
)

// TransactionService validates transaction mutations, stores them and
// notifies observers once the store has accepted the change.
type TransactionService struct {
	store     store.TransactionStore
	observers []ChangeObserver
	logger    *log.StructuredLogger
}

func NewTransactionService(s store.TransactionStore, logger *log.Logger, observers ...ChangeObserver) *TransactionService {
	return &TransactionService{
		store:     s,
		observers: observers,
		logger:    log.NewStructuredLogger(logger),
	}
}

// Observe registers another observer. It is not safe to call concurrently with mutations.
func (s *TransactionService) Observe(o ChangeObserver) {
	s.observers = append(s.observers, o)
}

// Snapshot returns every transaction the user owns, in insertion order.
func (s *TransactionService) Snapshot(ctx context.Context, userID string) ([]core.Transaction, error) {
	txs, err := s.store.ListTransactions(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return txs, nil
}

// List returns the user's transactions narrowed and ordered by filter.
func (s *TransactionService) List(ctx context.Context, userID string, filter core.TransactionFilter, asOf time.Time) ([]core.Transaction, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	txs, err := s.Snapshot(ctx, userID)
	if err != nil {
		return nil, err
	}
	return filter.Apply(txs, asOf), nil
}

func (s *TransactionService) Create(ctx context.Context, userID string, f core.TransactionFields) (core.Transaction, error) {
	if err := f.Validate(); err != nil {
		return core.Transaction{}, err
	}
	t := core.Transaction{UserID: userID}.Apply(f)
	created, err := s.store.CreateTransaction(ctx, t)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("create transaction: %w", err)
	}
	s.notify(ctx, created, amqp.OpCreate)
	return created, nil
}

// Update replaces the mutable fields of an existing transaction.
func (s *TransactionService) Update(ctx context.Context, userID, id string, f core.TransactionFields) (core.Transaction, error) {
	if err := f.Validate(); err != nil {
		return core.Transaction{}, err
	}
	updated, err := s.store.UpdateTransaction(ctx, userID, id, f)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("update transaction: %w", err)
	}
	s.notify(ctx, updated, amqp.OpUpdate)
	return updated, nil
}

func (s *TransactionService) Delete(ctx context.Context, userID, id string) error {
	if err := s.store.DeleteTransaction(ctx, userID, id); err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	s.notify(ctx, core.Transaction{ID: id, UserID: userID}, amqp.OpDelete)
	return nil
}

func (s *TransactionService) notify(ctx context.Context, t core.Transaction, op amqp.Op) {
	s.logger.LogTransactionChanged(ctx, string(op), t.UserID, t.ID, t.Amount.Cents, string(t.Kind), t.Category)
	for _, o := range s.observers {
		o.TransactionChanged(ctx, t.UserID, t.ID, op)
	}
}
