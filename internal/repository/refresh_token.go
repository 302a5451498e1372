package repository

import (
	"context"
	"time"
)

type RefreshTokenRepository interface {
	// Insert records a freshly issued refresh token for the user.
	// A colliding token string surfaces as domain.ErrDuplicateToken.
	Insert(ctx context.Context, token string, userID int64, expiresAt time.Time) error

	// Claim atomically removes the row for (token, user) and reports
	// whether it existed. Under concurrent rotation of the same token
	// exactly one caller sees true; everyone else sees false.
	Claim(ctx context.Context, token string, userID int64) (bool, error)

	// Exists reports membership without consuming the row.
	Exists(ctx context.Context, token string, userID int64) (bool, error)

	// DeleteExpired removes rows whose expiry has passed and returns
	// how many were swept.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
