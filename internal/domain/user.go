package domain

import (
	"errors"
	"time"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrTokenInvalid       = errors.New("token is invalid or expired")
	ErrDuplicateToken     = errors.New("refresh token already exists")
)

type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// RefreshToken is the persisted half of an issued refresh token. The
// signed token string itself is the key; a token that is
// cryptographically valid but has no row here has been rotated away
// and must not be accepted.
type RefreshToken struct {
	ID        int64
	Token     string
	UserID    int64
	CreatedAt time.Time
	ExpiresAt time.Time
}

// TokenPair is what login and refresh hand back to the client.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	TokenType    string
}
