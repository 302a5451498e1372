package repository

import (
	"context"
	"time"

	"github.com/medetbek/finance-tracker/internal/domain"
)

type TransactionRepository interface {
	Create(ctx context.Context, tx *domain.Transaction) (*domain.Transaction, error)
	List(ctx context.Context, ownerID int64, filter domain.TransactionFilter) ([]*domain.Transaction, error)
	FindByID(ctx context.Context, id, ownerID int64) (*domain.Transaction, error)
	Update(ctx context.Context, tx *domain.Transaction) (*domain.Transaction, error)
	Delete(ctx context.Context, id, ownerID int64) error

	// SumByCategory totals all of a user's transactions in one
	// category, used for overspending alerts.
	SumByCategory(ctx context.Context, ownerID, categoryID int64) (float64, error)

	// Summary aggregates income and expense totals over an optional
	// date range.
	Summary(ctx context.Context, ownerID int64, from, to *time.Time) (domain.Summary, error)

	// Monthly breaks income and expenses down per calendar month.
	Monthly(ctx context.Context, ownerID int64, from, to *time.Time) ([]domain.MonthlyRow, error)

	// ByCategory totals transactions per category name, largest total
	// first, optionally filtered by type and start date. A limit <= 0
	// returns all categories.
	ByCategory(ctx context.Context, ownerID int64, txType *domain.TransactionType, from *time.Time, limit int) ([]domain.CategoryTotal, error)
}
