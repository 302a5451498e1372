package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/medetbek/finance-tracker/internal/domain"
)

type CategoryRepository struct {
	pool *pgxpool.Pool
}

func NewCategoryRepository(pool *pgxpool.Pool) *CategoryRepository {
	return &CategoryRepository{pool: pool}
}

func (r *CategoryRepository) Create(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	query := `
		INSERT INTO categories (name, type, user_id)
		VALUES ($1, $2, $3)
		RETURNING id, name, type, user_id`

	row := r.pool.QueryRow(ctx, query, category.Name, category.Type, category.UserID)

	created, err := scanCategory(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domain.ErrCategoryExists
		}
		return nil, err
	}
	return created, nil
}

func (r *CategoryRepository) ListByUser(ctx context.Context, userID int64) ([]*domain.Category, error) {
	query := `SELECT id, name, type, user_id FROM categories WHERE user_id = $1 ORDER BY name`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var categories []*domain.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (r *CategoryRepository) FindByID(ctx context.Context, id, userID int64) (*domain.Category, error) {
	query := `SELECT id, name, type, user_id FROM categories WHERE id = $1 AND user_id = $2`

	return scanCategory(r.pool.QueryRow(ctx, query, id, userID))
}

func (r *CategoryRepository) Update(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	query := `
		UPDATE categories
		SET    name = $3
		WHERE  id = $1 AND user_id = $2
		RETURNING id, name, type, user_id`

	updated, err := scanCategory(r.pool.QueryRow(ctx, query, category.ID, category.UserID, category.Name))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domain.ErrCategoryExists
		}
		return nil, err
	}
	return updated, nil
}

func (r *CategoryRepository) Delete(ctx context.Context, id, userID int64) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM categories WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCategoryNotFound
	}
	return nil
}

func scanCategory(row pgx.Row) (*domain.Category, error) {
	var c domain.Category
	err := row.Scan(&c.ID, &c.Name, &c.Type, &c.UserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCategoryNotFound
		}
		return nil, fmt.Errorf("scan category: %w", err)
	}
	return &c, nil
}
