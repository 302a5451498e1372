package repository

import (
	"context"
	"time"

	"github.com/medetbek/finance-tracker/internal/domain"
)

type BudgetRepository interface {
	Create(ctx context.Context, budget *domain.Budget) (*domain.Budget, error)
	ListByUser(ctx context.Context, userID int64) ([]*domain.Budget, error)
	FindByID(ctx context.Context, id, userID int64) (*domain.Budget, error)
	FindByCategory(ctx context.Context, userID, categoryID int64) (*domain.Budget, error)
	Update(ctx context.Context, budget *domain.Budget) (*domain.Budget, error)
	Delete(ctx context.Context, id, userID int64) error

	// Summary joins budgets against expense transactions for the month.
	Summary(ctx context.Context, userID int64, month time.Time) ([]domain.BudgetSummaryRow, error)
}
