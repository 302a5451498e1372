package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/medetbek/finance-tracker/internal/domain"
	"github.com/medetbek/finance-tracker/internal/repository"
)

type ReportUsecase struct {
	transactions repository.TransactionRepository
}

func NewReportUsecase(transactions repository.TransactionRepository) *ReportUsecase {
	return &ReportUsecase{transactions: transactions}
}

// Summary totals income and expenses over an optional date range.
func (u *ReportUsecase) Summary(ctx context.Context, ownerID int64, from, to *time.Time) (domain.Summary, error) {
	summary, err := u.transactions.Summary(ctx, ownerID, from, to)
	if err != nil {
		return domain.Summary{}, fmt.Errorf("report summary: %w", err)
	}
	return summary, nil
}

// Monthly breaks income and expenses down per calendar month.
func (u *ReportUsecase) Monthly(ctx context.Context, ownerID int64, from, to *time.Time) ([]domain.MonthlyRow, error) {
	rows, err := u.transactions.Monthly(ctx, ownerID, from, to)
	if err != nil {
		return nil, fmt.Errorf("report monthly: %w", err)
	}
	return rows, nil
}

// ByCategory totals transactions per category, largest first. The
// breakdown duplicates the items into parallel labels/totals columns
// for chart consumers; all three slices are non-nil even when empty.
func (u *ReportUsecase) ByCategory(ctx context.Context, ownerID int64, txType *domain.TransactionType, from *time.Time, limit int) (domain.CategoryBreakdown, error) {
	rows, err := u.transactions.ByCategory(ctx, ownerID, txType, from, limit)
	if err != nil {
		return domain.CategoryBreakdown{}, fmt.Errorf("category breakdown: %w", err)
	}

	breakdown := domain.CategoryBreakdown{
		Labels: make([]string, 0, len(rows)),
		Totals: make([]float64, 0, len(rows)),
		Items:  make([]domain.CategoryTotal, 0, len(rows)),
	}
	for _, row := range rows {
		breakdown.Labels = append(breakdown.Labels, row.Category)
		breakdown.Totals = append(breakdown.Totals, row.Total)
		breakdown.Items = append(breakdown.Items, row)
	}
	return breakdown, nil
}
