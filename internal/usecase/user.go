package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/medetbek/finance-tracker/internal/domain"
	"github.com/medetbek/finance-tracker/internal/repository"
)

type UserUsecase struct {
	users repository.UserRepository
}

func NewUserUsecase(users repository.UserRepository) *UserUsecase {
	return &UserUsecase{users: users}
}

type UpdateProfileInput struct {
	Email    *string
	Username *string
}

// UpdateProfile changes email and/or username. A nil field is left
// untouched. Taking an email already owned by another user fails with
// ErrEmailTaken.
func (u *UserUsecase) UpdateProfile(ctx context.Context, userID int64, input UpdateProfileInput) (*domain.User, error) {
	updated, err := u.users.UpdateProfile(ctx, userID, input.Email, input.Username)
	if err != nil {
		if errors.Is(err, domain.ErrEmailTaken) || errors.Is(err, domain.ErrUsernameTaken) || errors.Is(err, domain.ErrUserNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return updated, nil
}
