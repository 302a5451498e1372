package postgres

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/medetbek/finance-tracker/internal/domain"
)

type BudgetRepository struct {
	pool *pgxpool.Pool
}

func NewBudgetRepository(pool *pgxpool.Pool) *BudgetRepository {
	return &BudgetRepository{pool: pool}
}

func (r *BudgetRepository) Create(ctx context.Context, budget *domain.Budget) (*domain.Budget, error) {
	query := `
		INSERT INTO budgets (user_id, category_id, amount, month)
		VALUES ($1, $2, $3, $4)
		RETURNING id, user_id, category_id, amount, month`

	row := r.pool.QueryRow(ctx, query,
		budget.UserID, budget.CategoryID, budget.Amount, budget.Month)
	created, err := scanBudget(row)
	if err != nil {
		return nil, mapBudgetUniqueViolation(err)
	}
	return created, nil
}

// mapBudgetUniqueViolation translates a 23505 on (user_id, category_id,
// month) into the sentinel.
func mapBudgetUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return domain.ErrBudgetExists
	}
	return err
}

func (r *BudgetRepository) ListByUser(ctx context.Context, userID int64) ([]*domain.Budget, error) {
	query := `SELECT id, user_id, category_id, amount, month FROM budgets WHERE user_id = $1 ORDER BY month DESC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	defer rows.Close()

	var budgets []*domain.Budget
	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return nil, err
		}
		budgets = append(budgets, b)
	}
	return budgets, rows.Err()
}

func (r *BudgetRepository) FindByID(ctx context.Context, id, userID int64) (*domain.Budget, error) {
	query := `SELECT id, user_id, category_id, amount, month FROM budgets WHERE id = $1 AND user_id = $2`

	return scanBudget(r.pool.QueryRow(ctx, query, id, userID))
}

func (r *BudgetRepository) FindByCategory(ctx context.Context, userID, categoryID int64) (*domain.Budget, error) {
	query := `
		SELECT id, user_id, category_id, amount, month
		FROM budgets
		WHERE user_id = $1 AND category_id = $2
		ORDER BY month DESC
		LIMIT 1`

	return scanBudget(r.pool.QueryRow(ctx, query, userID, categoryID))
}

func (r *BudgetRepository) Update(ctx context.Context, budget *domain.Budget) (*domain.Budget, error) {
	query := `
		UPDATE budgets
		SET    category_id = $3, amount = $4, month = $5
		WHERE  id = $1 AND user_id = $2
		RETURNING id, user_id, category_id, amount, month`

	row := r.pool.QueryRow(ctx, query,
		budget.ID, budget.UserID, budget.CategoryID, budget.Amount, budget.Month)
	updated, err := scanBudget(row)
	if err != nil {
		return nil, mapBudgetUniqueViolation(err)
	}
	return updated, nil
}

func (r *BudgetRepository) Delete(ctx context.Context, id, userID int64) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM budgets WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete budget: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrBudgetNotFound
	}
	return nil
}

func (r *BudgetRepository) Summary(ctx context.Context, userID int64, month time.Time) ([]domain.BudgetSummaryRow, error) {
	query := `
		SELECT b.category_id, c.name, b.amount,
		       COALESCE(SUM(t.amount), 0) AS spent
		FROM budgets b
		JOIN categories c ON c.id = b.category_id
		LEFT JOIN transactions t
		  ON  t.category_id = b.category_id
		  AND t.owner_id = b.user_id
		  AND t.type = 'expense'
		  AND date_trunc('month', t.date) = date_trunc('month', $2::timestamptz)
		WHERE b.user_id = $1
		  AND date_trunc('month', b.month::timestamptz) = date_trunc('month', $2::timestamptz)
		GROUP BY b.category_id, c.name, b.amount
		ORDER BY c.name`

	rows, err := r.pool.Query(ctx, query, userID, month)
	if err != nil {
		return nil, fmt.Errorf("budget summary: %w", err)
	}
	defer rows.Close()

	var result []domain.BudgetSummaryRow
	for rows.Next() {
		var row domain.BudgetSummaryRow
		if err := rows.Scan(&row.CategoryID, &row.CategoryName, &row.BudgetAmount, &row.Spent); err != nil {
			return nil, fmt.Errorf("scan budget summary: %w", err)
		}
		row.Remaining = row.BudgetAmount - row.Spent
		if row.BudgetAmount > 0 {
			row.PercentageUsed = math.Round(row.Spent/row.BudgetAmount*10000) / 100
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

func scanBudget(row pgx.Row) (*domain.Budget, error) {
	var b domain.Budget
	err := row.Scan(&b.ID, &b.UserID, &b.CategoryID, &b.Amount, &b.Month)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBudgetNotFound
		}
		return nil, fmt.Errorf("scan budget: %w", err)
	}
	return &b, nil
}
