// Package store declares the persistence ports the services depend on.
package store

import (
	"context"
	"errors"

	"fintrack/internal/core"
)

var (
	// ErrNotFound is returned when a record does not exist or belongs to another user.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned when a uniqueness constraint would be violated.
	ErrDuplicate = errors.New("already exists")
)

// Ports for storage adapters. Every read is scoped to one user; records owned
// by somebody else are reported as ErrNotFound.
type (
	TransactionStore interface {
		// ListTransactions returns the user's full snapshot in creation order.
		ListTransactions(ctx context.Context, userID string) ([]core.Transaction, error)
		GetTransaction(ctx context.Context, userID, id string) (core.Transaction, error)
		// CreateTransaction assigns ID and CreatedAt and returns the stored record.
		CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error)
		// UpdateTransaction replaces every mutable field of the record.
		UpdateTransaction(ctx context.Context, userID, id string, f core.TransactionFields) (core.Transaction, error)
		DeleteTransaction(ctx context.Context, userID, id string) error
	}

	CategoryStore interface {
		ListCategories(ctx context.Context, userID string) ([]core.Category, error)
		// CreateCategory fails with ErrDuplicate when (user, name, kind) exists.
		CreateCategory(ctx context.Context, c core.Category) (core.Category, error)
	}

	UserStore interface {
		// CreateUser fails with ErrDuplicate when the email is taken.
		CreateUser(ctx context.Context, u core.User) (core.User, error)
		GetUser(ctx context.Context, id string) (core.User, error)
		GetUserByEmail(ctx context.Context, email string) (core.User, error)
		// UpdateUser overwrites name, email and password hash.
		UpdateUser(ctx context.Context, u core.User) (core.User, error)
	}

	BudgetStore interface {
		ListBudgets(ctx context.Context, userID string) ([]core.Budget, error)
		// CreateBudget fails with ErrDuplicate when the category already has a budget.
		CreateBudget(ctx context.Context, b core.Budget) (core.Budget, error)
		UpdateBudget(ctx context.Context, userID, id string, category string, amount core.Money) (core.Budget, error)
		DeleteBudget(ctx context.Context, userID, id string) error
	}

	// Store bundles every port; both adapters implement it.
	Store interface {
		TransactionStore
		CategoryStore
		UserStore
		BudgetStore
		Ping(ctx context.Context) error
	}
)
