package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/medetbek/finance-tracker/internal/domain"
)

type RefreshTokenRepository struct {
	pool *pgxpool.Pool
}

func NewRefreshTokenRepository(pool *pgxpool.Pool) *RefreshTokenRepository {
	return &RefreshTokenRepository{pool: pool}
}

func (r *RefreshTokenRepository) Insert(ctx context.Context, token string, userID int64, expiresAt time.Time) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO refresh_tokens (token, user_id, expires_at) VALUES ($1, $2, $3)`,
		token, userID, expiresAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domain.ErrDuplicateToken
		}
		return fmt.Errorf("insert refresh token: %w", err)
	}
	return nil
}

// Claim deletes the row and uses the affected-row count as the
// existence check. Two concurrent claims of the same token cannot both
// observe a deletion, which is what makes rotation one-shot.
func (r *RefreshTokenRepository) Claim(ctx context.Context, token string, userID int64) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM refresh_tokens WHERE token = $1 AND user_id = $2`,
		token, userID)
	if err != nil {
		return false, fmt.Errorf("claim refresh token: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *RefreshTokenRepository) Exists(ctx context.Context, token string, userID int64) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM refresh_tokens WHERE token = $1 AND user_id = $2)`,
		token, userID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check refresh token: %w", err)
	}
	return exists, nil
}

func (r *RefreshTokenRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM refresh_tokens WHERE expires_at <= $1`, now)
	if err != nil {
		return 0, fmt.Errorf("delete expired refresh tokens: %w", err)
	}
	return tag.RowsAffected(), nil
}
