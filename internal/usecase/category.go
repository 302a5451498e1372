package usecase

import (
	"context"
	"fmt"

	"github.com/medetbek/finance-tracker/internal/domain"
	"github.com/medetbek/finance-tracker/internal/repository"
)

type CategoryUsecase struct {
	categories repository.CategoryRepository
}

func NewCategoryUsecase(categories repository.CategoryRepository) *CategoryUsecase {
	return &CategoryUsecase{categories: categories}
}

func (u *CategoryUsecase) Create(ctx context.Context, userID int64, name string, ctype domain.CategoryType) (*domain.Category, error) {
	created, err := u.categories.Create(ctx, &domain.Category{
		Name:   name,
		Type:   ctype,
		UserID: userID,
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (u *CategoryUsecase) List(ctx context.Context, userID int64) ([]*domain.Category, error) {
	categories, err := u.categories.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

func (u *CategoryUsecase) Update(ctx context.Context, id, userID int64, name string) (*domain.Category, error) {
	updated, err := u.categories.Update(ctx, &domain.Category{
		ID:     id,
		UserID: userID,
		Name:   name,
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (u *CategoryUsecase) Delete(ctx context.Context, id, userID int64) error {
	return u.categories.Delete(ctx, id, userID)
}
