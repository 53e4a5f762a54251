package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"fintrack/internal/core"
	"fintrack/internal/store"
)

var ErrBudgetExists = errors.New("budget already exists for this category")

type BudgetService struct {
	store store.BudgetStore
}

func NewBudgetService(s store.BudgetStore) *BudgetService {
	return &BudgetService{store: s}
}

func (s *BudgetService) List(ctx context.Context, userID string) ([]core.Budget, error) {
	budgets, err := s.store.ListBudgets(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	return budgets, nil
}

func (s *BudgetService) Create(ctx context.Context, userID, category string, amount core.Money) (core.Budget, error) {
	b := core.Budget{UserID: userID, Category: strings.TrimSpace(category), Amount: amount}
	if err := b.Validate(); err != nil {
		return core.Budget{}, err
	}
	created, err := s.store.CreateBudget(ctx, b)
	if errors.Is(err, store.ErrDuplicate) {
		return core.Budget{}, ErrBudgetExists
	}
	if err != nil {
		return core.Budget{}, fmt.Errorf("create budget: %w", err)
	}
	return created, nil
}

// Update changes the category and monthly limit of a budget.
func (s *BudgetService) Update(ctx context.Context, userID, id, category string, amount core.Money) (core.Budget, error) {
	b := core.Budget{UserID: userID, Category: strings.TrimSpace(category), Amount: amount}
	if err := b.Validate(); err != nil {
		return core.Budget{}, err
	}
	updated, err := s.store.UpdateBudget(ctx, userID, id, b.Category, amount)
	if errors.Is(err, store.ErrDuplicate) {
		return core.Budget{}, ErrBudgetExists
	}
	if err != nil {
		return core.Budget{}, fmt.Errorf("update budget: %w", err)
	}
	return updated, nil
}

func (s *BudgetService) Delete(ctx context.Context, userID, id string) error {
	if err := s.store.DeleteBudget(ctx, userID, id); err != nil {
		return fmt.Errorf("delete budget: %w", err)
	}
	return nil
}
