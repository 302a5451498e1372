package repository

import (
	"context"

	"github.com/medetbek/finance-tracker/internal/domain"
)

type CategoryRepository interface {
	// Create inserts a category; a duplicate name for the same user
	// surfaces as domain.ErrCategoryExists.
	Create(ctx context.Context, category *domain.Category) (*domain.Category, error)
	ListByUser(ctx context.Context, userID int64) ([]*domain.Category, error)
	FindByID(ctx context.Context, id, userID int64) (*domain.Category, error)
	Update(ctx context.Context, category *domain.Category) (*domain.Category, error)
	Delete(ctx context.Context, id, userID int64) error
}
