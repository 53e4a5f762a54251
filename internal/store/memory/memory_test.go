package memory

import (
	"context"
	"errors"
	"sync"
	"testing"

	"fintrack/internal/core"
	"fintrack/internal/store"
)

func sampleTx(userID string) core.Transaction {
	return core.Transaction{
		UserID:      userID,
		Description: "Groceries",
		Amount:      core.Money{Cents: 1500},
		Kind:        core.Expense,
		Category:    "Food",
		Date:        core.NewDate(2023, 11, 5),
	}
}

func TestTransactionLifecycle(t *testing.T) {
	ctx := context.Background()
	s := New()

	created, err := s.CreateTransaction(ctx, sampleTx("u1"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == "" || created.CreatedAt.IsZero() {
		t.Fatalf("expected id and created_at, got %+v", created)
	}

	f := created.Fields()
	f.Amount = core.Money{Cents: 2000}
	f.Kind = core.Income
	updated, err := s.UpdateTransaction(ctx, "u1", created.ID, f)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.ID != created.ID || updated.CreatedAt != created.CreatedAt || updated.Amount.Cents != 2000 || updated.Kind != core.Income {
		t.Fatalf("unexpected update result: %+v", updated)
	}

	list, _ := s.ListTransactions(ctx, "u1")
	if len(list) != 1 || list[0].Amount.Cents != 2000 {
		t.Fatalf("unexpected list: %+v", list)
	}

	if err := s.DeleteTransaction(ctx, "u1", created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := s.DeleteTransaction(ctx, "u1", created.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("second delete: expected ErrNotFound, got %v", err)
	}
	list, _ = s.ListTransactions(ctx, "u1")
	if len(list) != 0 {
		t.Fatalf("expected empty snapshot, got %d", len(list))
	}
}

func TestTransactionsAreScopedToOwner(t *testing.T) {
	ctx := context.Background()
	s := New()
	created, _ := s.CreateTransaction(ctx, sampleTx("u1"))

	if _, err := s.GetTransaction(ctx, "u2", created.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("get as other user: %v", err)
	}
	if _, err := s.UpdateTransaction(ctx, "u2", created.ID, created.Fields()); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("update as other user: %v", err)
	}
	if err := s.DeleteTransaction(ctx, "u2", created.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("delete as other user: %v", err)
	}
	if list, _ := s.ListTransactions(ctx, "u2"); len(list) != 0 {
		t.Fatalf("other user sees %d records", len(list))
	}
}

func TestCreateTransactionRejectsInvalid(t *testing.T) {
	tx := sampleTx("u1")
	tx.Amount = core.Money{}
	if _, err := New().CreateTransaction(context.Background(), tx); !errors.Is(err, core.ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
}

func TestCategoryDuplicate(t *testing.T) {
	ctx := context.Background()
	s := New()
	c := core.Category{UserID: "u1", Name: "Food", Kind: core.Expense}
	if _, err := s.CreateCategory(ctx, c); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := s.CreateCategory(ctx, c); !errors.Is(err, store.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
	// Same name with the other kind is a distinct category.
	c.Kind = core.Income
	if _, err := s.CreateCategory(ctx, c); err != nil {
		t.Fatalf("create income variant: %v", err)
	}
	cats, _ := s.ListCategories(ctx, "u1")
	if len(cats) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(cats))
	}
}

func TestUsers(t *testing.T) {
	ctx := context.Background()
	s := New()
	u, err := s.CreateUser(ctx, core.User{Name: "A", Email: " A@Example.com ", PasswordHash: "h"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if u.Email != "a@example.com" {
		t.Fatalf("email not normalized: %q", u.Email)
	}
	if _, err := s.CreateUser(ctx, core.User{Name: "B", Email: "a@example.com"}); !errors.Is(err, store.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
	got, err := s.GetUserByEmail(ctx, "A@EXAMPLE.COM")
	if err != nil || got.ID != u.ID {
		t.Fatalf("lookup by email: %+v %v", got, err)
	}

	other, _ := s.CreateUser(ctx, core.User{Name: "B", Email: "b@example.com"})
	other.Email = "a@example.com"
	if _, err := s.UpdateUser(ctx, other); !errors.Is(err, store.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate on email clash, got %v", err)
	}

	u.Name = "Renamed"
	if updated, err := s.UpdateUser(ctx, u); err != nil || updated.Name != "Renamed" {
		t.Fatalf("update: %+v %v", updated, err)
	}
	if _, err := s.GetUser(ctx, "missing"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestBudgets(t *testing.T) {
	ctx := context.Background()
	s := New()
	food, err := s.CreateBudget(ctx, core.Budget{UserID: "u1", Category: "Food", Amount: core.Money{Cents: 50000}})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := s.CreateBudget(ctx, core.Budget{UserID: "u1", Category: "Food", Amount: core.Money{Cents: 1}}); !errors.Is(err, store.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
	rent, _ := s.CreateBudget(ctx, core.Budget{UserID: "u1", Category: "Housing", Amount: core.Money{Cents: 120000}})

	if _, err := s.UpdateBudget(ctx, "u1", rent.ID, "Food", rent.Amount); !errors.Is(err, store.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate on rename clash, got %v", err)
	}
	updated, err := s.UpdateBudget(ctx, "u1", food.ID, "Food", core.Money{Cents: 60000})
	if err != nil || updated.Amount.Cents != 60000 {
		t.Fatalf("update: %+v %v", updated, err)
	}
	if _, err := s.UpdateBudget(ctx, "u1", food.ID, "Food", core.Money{}); !errors.Is(err, core.ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
	if err := s.DeleteBudget(ctx, "u2", food.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for other owner, got %v", err)
	}
	if err := s.DeleteBudget(ctx, "u1", food.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	list, _ := s.ListBudgets(ctx, "u1")
	if len(list) != 1 || list[0].Category != "Housing" {
		t.Fatalf("unexpected budgets: %+v", list)
	}
}

func TestSeedDemo(t *testing.T) {
	ctx := context.Background()
	s := New()
	u, err := store.SeedDemo(ctx, s, "hash")
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	txs, _ := s.ListTransactions(ctx, u.ID)
	cats, _ := s.ListCategories(ctx, u.ID)
	if len(txs) != 5 || len(cats) != 8 {
		t.Fatalf("seeded %d transactions and %d categories", len(txs), len(cats))
	}

	again, err := store.SeedDemo(ctx, s, "hash")
	if err != nil || again.ID != u.ID {
		t.Fatalf("reseed: %+v %v", again, err)
	}
	if txs, _ := s.ListTransactions(ctx, u.ID); len(txs) != 5 {
		t.Fatalf("reseed duplicated history: %d", len(txs))
	}
}

func TestConcurrentCreates(t *testing.T) {
	ctx := context.Background()
	s := New()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.CreateTransaction(ctx, sampleTx("u1")); err != nil {
				t.Errorf("create: %v", err)
			}
		}()
	}
	wg.Wait()
	if list, _ := s.ListTransactions(ctx, "u1"); len(list) != 50 {
		t.Fatalf("expected 50 records, got %d", len(list))
	}
}
