package store

import (
	"context"
	"errors"
	"fmt"

	"fintrack/internal/core"
)

// DemoEmail and DemoPassword identify the seeded demo account.
const (
	DemoEmail    = "demo@example.com"
	DemoPassword = "password123"
)

// SeedDemo creates the demo user with a small history and the default
// category list. It is a no-op returning the existing user when the demo email
// is already registered.
func SeedDemo(ctx context.Context, s Store, passwordHash string) (core.User, error) {
	u, err := s.CreateUser(ctx, core.User{Name: "Demo User", Email: DemoEmail, PasswordHash: passwordHash})
	if errors.Is(err, ErrDuplicate) {
		return s.GetUserByEmail(ctx, DemoEmail)
	}
	if err != nil {
		return core.User{}, fmt.Errorf("seed user: %w", err)
	}

	txs := []struct {
		desc, category, notes string
		cents                 int64
		kind                  core.Kind
		date                  core.Date
	}{
		{"Salary", "Salary", "Monthly salary", 500000, core.Income, core.NewDate(2023, 11, 1)},
		{"Rent", "Housing", "Monthly rent", 120000, core.Expense, core.NewDate(2023, 11, 2)},
		{"Groceries", "Food", "Weekly groceries", 15000, core.Expense, core.NewDate(2023, 11, 5)},
		{"Freelance Work", "Freelance", "Website project", 100000, core.Income, core.NewDate(2023, 11, 10)},
		{"Dinner with friends", "Entertainment", "Italian restaurant", 8500, core.Expense, core.NewDate(2023, 11, 12)},
	}
	for _, t := range txs {
		_, err := s.CreateTransaction(ctx, core.Transaction{
			UserID:      u.ID,
			Description: t.desc,
			Amount:      core.Money{Cents: t.cents},
			Kind:        t.kind,
			Category:    t.category,
			Date:        t.date,
			Notes:       t.notes,
		})
		if err != nil {
			return core.User{}, fmt.Errorf("seed transaction %q: %w", t.desc, err)
		}
	}

	for _, c := range DefaultCategories() {
		c.UserID = u.ID
		if _, err := s.CreateCategory(ctx, c); err != nil && !errors.Is(err, ErrDuplicate) {
			return core.User{}, fmt.Errorf("seed category %q: %w", c.Name, err)
		}
	}
	return u, nil
}

// DefaultCategories returns the starter category list without owners.
func DefaultCategories() []core.Category {
	return []core.Category{
		{Name: "Housing", Kind: core.Expense},
		{Name: "Food", Kind: core.Expense},
		{Name: "Transportation", Kind: core.Expense},
		{Name: "Entertainment", Kind: core.Expense},
		{Name: "Healthcare", Kind: core.Expense},
		{Name: "Salary", Kind: core.Income},
		{Name: "Freelance", Kind: core.Income},
		{Name: "Investment", Kind: core.Income},
	}
}
