package repository

import (
	"context"

	"github.com/medetbek/finance-tracker/internal/domain"
)

type UserRepository interface {
	// Create inserts the user and returns the stored record. The unique
	// constraints on email and username are the authoritative guard;
	// violations surface as domain.ErrEmailTaken.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	UpdateProfile(ctx context.Context, id int64, email, username *string) (*domain.User, error)
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
}
