package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"fintrack/internal/core"
	"fintrack/internal/store"
)

// Store keeps every record in process memory. It is safe for concurrent use.
type Store struct {
	mu           sync.Mutex
	users        []core.User
	transactions []core.Transaction
	categories   []core.Category
	budgets      []core.Budget
	now          func() time.Time
}

var _ store.Store = (*Store)(nil)

func New() *Store {
	return &Store{now: time.Now}
}

func (s *Store) Ping(context.Context) error { return nil }

func (s *Store) ListTransactions(_ context.Context, userID string) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Transaction, 0)
	for _, t := range s.transactions {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *Store) GetTransaction(_ context.Context, userID, id string) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.transactionIndex(userID, id)
	if i < 0 {
		return core.Transaction{}, store.ErrNotFound
	}
	return s.transactions[i], nil
}

func (s *Store) CreateTransaction(_ context.Context, t core.Transaction) (core.Transaction, error) {
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	t.ID = uuid.NewString()
	t.CreatedAt = s.now().UTC()
	s.transactions = append(s.transactions, t)
	return t, nil
}

func (s *Store) UpdateTransaction(_ context.Context, userID, id string, f core.TransactionFields) (core.Transaction, error) {
	if err := f.Validate(); err != nil {
		return core.Transaction{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.transactionIndex(userID, id)
	if i < 0 {
		return core.Transaction{}, store.ErrNotFound
	}
	s.transactions[i] = s.transactions[i].Apply(f)
	return s.transactions[i], nil
}

func (s *Store) DeleteTransaction(_ context.Context, userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.transactionIndex(userID, id)
	if i < 0 {
		return store.ErrNotFound
	}
	s.transactions = append(s.transactions[:i], s.transactions[i+1:]...)
	return nil
}

func (s *Store) transactionIndex(userID, id string) int {
	for i, t := range s.transactions {
		if t.ID == id && t.UserID == userID {
			return i
		}
	}
	return -1
}

func (s *Store) ListCategories(_ context.Context, userID string) ([]core.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Category, 0)
	for _, c := range s.categories {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *Store) CreateCategory(_ context.Context, c core.Category) (core.Category, error) {
	if err := c.Validate(); err != nil {
		return core.Category{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.categories {
		if existing.UserID == c.UserID && existing.Name == c.Name && existing.Kind == c.Kind {
			return core.Category{}, store.ErrDuplicate
		}
	}
	c.ID = uuid.NewString()
	s.categories = append(s.categories, c)
	return c, nil
}

func (s *Store) CreateUser(_ context.Context, u core.User) (core.User, error) {
	u.Email = core.NormalizeEmail(u.Email)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.userIndexByEmail(u.Email) >= 0 {
		return core.User{}, store.ErrDuplicate
	}
	u.ID = uuid.NewString()
	u.CreatedAt = s.now().UTC()
	s.users = append(s.users, u)
	return u, nil
}

func (s *Store) GetUser(_ context.Context, id string) (core.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.ID == id {
			return u, nil
		}
	}
	return core.User{}, store.ErrNotFound
}

func (s *Store) GetUserByEmail(_ context.Context, email string) (core.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.userIndexByEmail(core.NormalizeEmail(email))
	if i < 0 {
		return core.User{}, store.ErrNotFound
	}
	return s.users[i], nil
}

func (s *Store) UpdateUser(_ context.Context, u core.User) (core.User, error) {
	u.Email = core.NormalizeEmail(u.Email)
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.userIndexByEmail(u.Email); i >= 0 && s.users[i].ID != u.ID {
		return core.User{}, store.ErrDuplicate
	}
	for i := range s.users {
		if s.users[i].ID == u.ID {
			s.users[i].Name = u.Name
			s.users[i].Email = u.Email
			s.users[i].PasswordHash = u.PasswordHash
			return s.users[i], nil
		}
	}
	return core.User{}, store.ErrNotFound
}

func (s *Store) userIndexByEmail(email string) int {
	for i, u := range s.users {
		if u.Email == email {
			return i
		}
	}
	return -1
}

func (s *Store) ListBudgets(_ context.Context, userID string) ([]core.Budget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Budget, 0)
	for _, b := range s.budgets {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (s *Store) CreateBudget(_ context.Context, b core.Budget) (core.Budget, error) {
	if err := b.Validate(); err != nil {
		return core.Budget{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.budgetIndexByCategory(b.UserID, b.Category) >= 0 {
		return core.Budget{}, store.ErrDuplicate
	}
	b.ID = uuid.NewString()
	b.CreatedAt = s.now().UTC()
	s.budgets = append(s.budgets, b)
	return b, nil
}

func (s *Store) UpdateBudget(_ context.Context, userID, id string, category string, amount core.Money) (core.Budget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.budgetIndex(userID, id)
	if i < 0 {
		return core.Budget{}, store.ErrNotFound
	}
	updated := s.budgets[i]
	updated.Category = category
	updated.Amount = amount
	if err := updated.Validate(); err != nil {
		return core.Budget{}, err
	}
	if j := s.budgetIndexByCategory(userID, category); j >= 0 && j != i {
		return core.Budget{}, store.ErrDuplicate
	}
	s.budgets[i] = updated
	return updated, nil
}

func (s *Store) DeleteBudget(_ context.Context, userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.budgetIndex(userID, id)
	if i < 0 {
		return store.ErrNotFound
	}
	s.budgets = append(s.budgets[:i], s.budgets[i+1:]...)
	return nil
}

func (s *Store) budgetIndex(userID, id string) int {
	for i, b := range s.budgets {
		if b.ID == id && b.UserID == userID {
			return i
		}
	}
	return -1
}

func (s *Store) budgetIndexByCategory(userID, category string) int {
	for i, b := range s.budgets {
		if b.UserID == userID && b.Category == category {
			return i
		}
	}
	return -1
}
