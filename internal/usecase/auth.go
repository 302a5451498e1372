package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/medetbek/finance-tracker/internal/auth"
	"github.com/medetbek/finance-tracker/internal/domain"
	"github.com/medetbek/finance-tracker/internal/email"
	"github.com/medetbek/finance-tracker/internal/metrics"
	"github.com/medetbek/finance-tracker/internal/repository"
)

const emailSendTimeout = 10 * time.Second

// AuthUsecase implements the five auth flows: register, login,
// identify, refresh-rotation, and password reset.
type AuthUsecase struct {
	users         repository.UserRepository
	tokens        repository.RefreshTokenRepository
	hasher        *auth.PasswordHasher
	codec         *auth.TokenCodec
	email         email.Sender
	logger        *slog.Logger
	resetLinkBase string
}

func NewAuthUsecase(
	users repository.UserRepository,
	tokens repository.RefreshTokenRepository,
	hasher *auth.PasswordHasher,
	codec *auth.TokenCodec,
	emailSender email.Sender,
	resetLinkBase string,
	logger *slog.Logger,
) *AuthUsecase {
	return &AuthUsecase{
		users:         users,
		tokens:        tokens,
		hasher:        hasher,
		codec:         codec,
		email:         emailSender,
		logger:        logger.With("component", "auth_usecase"),
		resetLinkBase: resetLinkBase,
	}
}

// Register hashes the password and inserts the user. The unique
// constraint on email/username is the authoritative duplicate guard,
// so concurrent registrations of the same email cannot both succeed.
func (u *AuthUsecase) Register(ctx context.Context, emailAddr, username, password string) (*domain.User, error) {
	hash, err := u.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	created, err := u.users.Create(ctx, &domain.User{
		Username:     username,
		Email:        emailAddr,
		PasswordHash: hash,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrEmailTaken):
			metrics.RegistrationsTotal.WithLabelValues("email_taken").Inc()
			return nil, domain.ErrEmailTaken
		case errors.Is(err, domain.ErrUsernameTaken):
			metrics.RegistrationsTotal.WithLabelValues("username_taken").Inc()
			return nil, domain.ErrUsernameTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	metrics.RegistrationsTotal.WithLabelValues("success").Inc()
	return created, nil
}

// Login verifies credentials and mints an access/refresh token pair,
// persisting the refresh token. A missing user and a wrong password
// both come back as ErrInvalidCredentials so callers cannot probe for
// registered emails.
func (u *AuthUsecase) Login(ctx context.Context, emailAddr, password string) (*domain.TokenPair, error) {
	user, err := u.users.FindByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if !u.hasher.Verify(password, user.PasswordHash) {
		metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
		return nil, domain.ErrInvalidCredentials
	}

	pair, err := u.issuePair(ctx, user)
	if err != nil {
		return nil, err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return pair, nil
}

// CurrentUser resolves a bearer access token to its user.
func (u *AuthUsecase) CurrentUser(ctx context.Context, accessToken string) (*domain.User, error) {
	sub, err := u.codec.ParseAccess(accessToken)
	if err != nil {
		return nil, domain.ErrUnauthorized
	}

	user, err := u.users.FindByEmail(ctx, sub)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

// Refresh rotates a refresh token: verify signature, resolve the
// subject, atomically claim (delete) the stored row, then mint and
// persist a fresh pair. Claiming first makes rotation one-shot: under
// N concurrent calls with the same token exactly one claim succeeds
// and the rest fail ErrUnauthorized.
func (u *AuthUsecase) Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	sub, err := u.codec.ParseRefresh(refreshToken)
	if err != nil {
		metrics.TokenRotationsTotal.WithLabelValues("invalid_token").Inc()
		return nil, domain.ErrUnauthorized
	}

	user, err := u.users.FindByEmail(ctx, sub)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			metrics.TokenRotationsTotal.WithLabelValues("unknown_subject").Inc()
			return nil, domain.ErrUnauthorized
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	claimed, err := u.tokens.Claim(ctx, refreshToken, user.ID)
	if err != nil {
		return nil, fmt.Errorf("claim refresh token: %w", err)
	}
	if !claimed {
		metrics.TokenRotationsTotal.WithLabelValues("revoked").Inc()
		return nil, domain.ErrUnauthorized
	}

	pair, err := u.issuePair(ctx, user)
	if err != nil {
		return nil, err
	}

	metrics.TokenRotationsTotal.WithLabelValues("success").Inc()
	return pair, nil
}

// RequestPasswordReset issues a purpose-scoped reset token and emails
// the reset link. For unknown emails it returns empty without error;
// the handler responds identically either way so the endpoint never
// reveals whether an email is registered. The email itself is
// fire-and-forget: a transport outage must not fail the request.
func (u *AuthUsecase) RequestPasswordReset(ctx context.Context, emailAddr string) (string, error) {
	user, err := u.users.FindByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("find user: %w", err)
	}

	token, err := u.codec.IssueReset(user.Email)
	if err != nil {
		return "", fmt.Errorf("issue reset token: %w", err)
	}

	subject, body := email.PasswordReset(u.resetLinkBase, token)
	u.sendAsync(user.Email, subject, body)

	return token, nil
}

// ConfirmPasswordReset validates a reset token and overwrites the
// password hash. Outstanding access and refresh tokens stay valid
// until their natural expiry.
func (u *AuthUsecase) ConfirmPasswordReset(ctx context.Context, token, newPassword string) error {
	sub, err := u.codec.ParseReset(token)
	if err != nil {
		metrics.PasswordResetsTotal.WithLabelValues("invalid_token").Inc()
		return domain.ErrTokenInvalid
	}

	user, err := u.users.FindByEmail(ctx, sub)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			metrics.PasswordResetsTotal.WithLabelValues("unknown_subject").Inc()
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("find user: %w", err)
	}

	hash, err := u.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if err := u.users.UpdatePassword(ctx, user.ID, hash); err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	metrics.PasswordResetsTotal.WithLabelValues("success").Inc()
	return nil
}

func (u *AuthUsecase) issuePair(ctx context.Context, user *domain.User) (*domain.TokenPair, error) {
	access, err := u.codec.IssueAccess(user.Email)
	if err != nil {
		return nil, fmt.Errorf("issue access token: %w", err)
	}

	refresh, expiresAt, err := u.codec.IssueRefresh(user.Email)
	if err != nil {
		return nil, fmt.Errorf("issue refresh token: %w", err)
	}

	if err := u.tokens.Insert(ctx, refresh, user.ID, expiresAt); err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}

	return &domain.TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "bearer",
	}, nil
}

func (u *AuthUsecase) sendAsync(to, subject, body string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), emailSendTimeout)
		defer cancel()
		if err := u.email.Send(ctx, to, subject, body); err != nil {
			u.logger.Error("send email", "to", to, "error", err)
		}
	}()
}
