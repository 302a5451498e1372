package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/medetbek/finance-tracker/internal/domain"
	"github.com/medetbek/finance-tracker/internal/repository"
)

type BudgetUsecase struct {
	budgets    repository.BudgetRepository
	categories repository.CategoryRepository
}

func NewBudgetUsecase(budgets repository.BudgetRepository, categories repository.CategoryRepository) *BudgetUsecase {
	return &BudgetUsecase{budgets: budgets, categories: categories}
}

type BudgetInput struct {
	CategoryID int64
	Amount     float64
	Month      time.Time
}

func (u *BudgetUsecase) Create(ctx context.Context, userID int64, input BudgetInput) (*domain.Budget, error) {
	if _, err := u.categories.FindByID(ctx, input.CategoryID, userID); err != nil {
		return nil, err
	}

	return u.budgets.Create(ctx, &domain.Budget{
		UserID:     userID,
		CategoryID: input.CategoryID,
		Amount:     input.Amount,
		Month:      input.Month,
	})
}

func (u *BudgetUsecase) List(ctx context.Context, userID int64) ([]*domain.Budget, error) {
	budgets, err := u.budgets.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	return budgets, nil
}

func (u *BudgetUsecase) Update(ctx context.Context, id, userID int64, input BudgetInput) (*domain.Budget, error) {
	if _, err := u.categories.FindByID(ctx, input.CategoryID, userID); err != nil {
		return nil, err
	}

	return u.budgets.Update(ctx, &domain.Budget{
		ID:         id,
		UserID:     userID,
		CategoryID: input.CategoryID,
		Amount:     input.Amount,
		Month:      input.Month,
	})
}

func (u *BudgetUsecase) Delete(ctx context.Context, id, userID int64) error {
	return u.budgets.Delete(ctx, id, userID)
}

func (u *BudgetUsecase) Summary(ctx context.Context, userID int64, month time.Time) ([]domain.BudgetSummaryRow, error) {
	rows, err := u.budgets.Summary(ctx, userID, month)
	if err != nil {
		return nil, fmt.Errorf("budget summary: %w", err)
	}
	return rows, nil
}
