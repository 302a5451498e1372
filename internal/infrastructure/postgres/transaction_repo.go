package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/medetbek/finance-tracker/internal/domain"
)

type TransactionRepository struct {
	pool *pgxpool.Pool
}

func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

func (r *TransactionRepository) Create(ctx context.Context, tx *domain.Transaction) (*domain.Transaction, error) {
	query := `
		INSERT INTO transactions (amount, description, date, type, owner_id, category_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, amount, description, date, type, owner_id, category_id`

	row := r.pool.QueryRow(ctx, query,
		tx.Amount, tx.Description, tx.Date, tx.Type, tx.OwnerID, tx.CategoryID)
	return scanTransaction(row)
}

func (r *TransactionRepository) List(ctx context.Context, ownerID int64, filter domain.TransactionFilter) ([]*domain.Transaction, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT id, amount, description, date, type, owner_id, category_id
		FROM transactions WHERE owner_id = $1`)
	args := []any{ownerID}

	if filter.CategoryID != nil {
		args = append(args, *filter.CategoryID)
		fmt.Fprintf(&sb, " AND category_id = $%d", len(args))
	}
	if filter.DateFrom != nil {
		args = append(args, *filter.DateFrom)
		fmt.Fprintf(&sb, " AND date >= $%d", len(args))
	}
	if filter.DateTo != nil {
		args = append(args, *filter.DateTo)
		fmt.Fprintf(&sb, " AND date <= $%d", len(args))
	}
	if filter.Type != nil {
		args = append(args, *filter.Type)
		fmt.Fprintf(&sb, " AND type = $%d", len(args))
	}

	args = append(args, filter.Limit)
	fmt.Fprintf(&sb, " ORDER BY date DESC LIMIT $%d", len(args))
	args = append(args, filter.Offset)
	fmt.Fprintf(&sb, " OFFSET $%d", len(args))

	rows, err := r.pool.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var transactions []*domain.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, t)
	}
	return transactions, rows.Err()
}

func (r *TransactionRepository) FindByID(ctx context.Context, id, ownerID int64) (*domain.Transaction, error) {
	query := `
		SELECT id, amount, description, date, type, owner_id, category_id
		FROM transactions
		WHERE id = $1 AND owner_id = $2`

	return scanTransaction(r.pool.QueryRow(ctx, query, id, ownerID))
}

func (r *TransactionRepository) Update(ctx context.Context, tx *domain.Transaction) (*domain.Transaction, error) {
	query := `
		UPDATE transactions
		SET    amount = $3, description = $4, date = $5, type = $6, category_id = $7
		WHERE  id = $1 AND owner_id = $2
		RETURNING id, amount, description, date, type, owner_id, category_id`

	row := r.pool.QueryRow(ctx, query,
		tx.ID, tx.OwnerID, tx.Amount, tx.Description, tx.Date, tx.Type, tx.CategoryID)
	return scanTransaction(row)
}

func (r *TransactionRepository) Delete(ctx context.Context, id, ownerID int64) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM transactions WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTransactionNotFound
	}
	return nil
}

func (r *TransactionRepository) SumByCategory(ctx context.Context, ownerID, categoryID int64) (float64, error) {
	var total float64
	err := r.pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM transactions WHERE owner_id = $1 AND category_id = $2`,
		ownerID, categoryID).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("sum transactions by category: %w", err)
	}
	return total, nil
}

func (r *TransactionRepository) Summary(ctx context.Context, ownerID int64, from, to *time.Time) (domain.Summary, error) {
	query := `
		SELECT
			COALESCE(SUM(amount) FILTER (WHERE type = 'income'),  0),
			COALESCE(SUM(amount) FILTER (WHERE type = 'expense'), 0)
		FROM transactions
		WHERE owner_id = $1
		  AND ($2::timestamptz IS NULL OR date >= $2)
		  AND ($3::timestamptz IS NULL OR date <= $3)`

	var s domain.Summary
	err := r.pool.QueryRow(ctx, query, ownerID, from, to).Scan(&s.Income, &s.Expense)
	if err != nil {
		return domain.Summary{}, fmt.Errorf("transaction summary: %w", err)
	}
	s.Net = s.Income - s.Expense
	return s, nil
}

func (r *TransactionRepository) Monthly(ctx context.Context, ownerID int64, from, to *time.Time) ([]domain.MonthlyRow, error) {
	query := `
		SELECT
			to_char(date, 'YYYY-MM') AS month,
			COALESCE(SUM(amount) FILTER (WHERE type = 'income'),  0),
			COALESCE(SUM(amount) FILTER (WHERE type = 'expense'), 0)
		FROM transactions
		WHERE owner_id = $1
		  AND ($2::timestamptz IS NULL OR date >= $2)
		  AND ($3::timestamptz IS NULL OR date <= $3)
		GROUP BY 1
		ORDER BY 1`

	rows, err := r.pool.Query(ctx, query, ownerID, from, to)
	if err != nil {
		return nil, fmt.Errorf("monthly summary: %w", err)
	}
	defer rows.Close()

	var result []domain.MonthlyRow
	for rows.Next() {
		var m domain.MonthlyRow
		if err := rows.Scan(&m.Month, &m.Income, &m.Expense); err != nil {
			return nil, fmt.Errorf("scan monthly row: %w", err)
		}
		result = append(result, m)
	}
	return result, rows.Err()
}

func (r *TransactionRepository) ByCategory(ctx context.Context, ownerID int64, txType *domain.TransactionType, from *time.Time, limit int) ([]domain.CategoryTotal, error) {
	// LIMIT NULL means no limit, so a zero limit is mapped to NULL.
	query := `
		SELECT c.name, SUM(t.amount) AS total
		FROM transactions t
		JOIN categories c ON c.id = t.category_id
		WHERE t.owner_id = $1
		  AND ($2::text IS NULL OR t.type = $2)
		  AND ($3::timestamptz IS NULL OR t.date >= $3)
		GROUP BY c.name
		ORDER BY total DESC
		LIMIT NULLIF($4, 0)`

	rows, err := r.pool.Query(ctx, query, ownerID, txType, from, max(limit, 0))
	if err != nil {
		return nil, fmt.Errorf("category breakdown: %w", err)
	}
	defer rows.Close()

	var result []domain.CategoryTotal
	for rows.Next() {
		var row domain.CategoryTotal
		if err := rows.Scan(&row.Category, &row.Total); err != nil {
			return nil, fmt.Errorf("scan category total: %w", err)
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var t domain.Transaction
	err := row.Scan(&t.ID, &t.Amount, &t.Description, &t.Date, &t.Type, &t.OwnerID, &t.CategoryID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, fmt.Errorf("scan transaction: %w", err)
	}
	return &t, nil
}
