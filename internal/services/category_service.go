package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"fintrack/internal/core"
	"fintrack/internal/store"
)

var ErrCategoryExists = errors.New("category already exists")

type CategoryService struct {
	store store.CategoryStore
}

func NewCategoryService(s store.CategoryStore) *CategoryService {
	return &CategoryService{store: s}
}

func (s *CategoryService) List(ctx context.Context, userID string) ([]core.Category, error) {
	cats, err := s.store.ListCategories(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return cats, nil
}

// Create adds a category. The same name may exist once per kind.
func (s *CategoryService) Create(ctx context.Context, userID, name string, kind core.Kind) (core.Category, error) {
	c := core.Category{UserID: userID, Name: strings.TrimSpace(name), Kind: kind}
	if err := c.Validate(); err != nil {
		return core.Category{}, err
	}
	created, err := s.store.CreateCategory(ctx, c)
	if errors.Is(err, store.ErrDuplicate) {
		return core.Category{}, ErrCategoryExists
	}
	if err != nil {
		return core.Category{}, fmt.Errorf("create category: %w", err)
	}
	return created, nil
}
