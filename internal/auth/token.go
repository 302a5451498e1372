package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/medetbek/finance-tracker/internal/domain"
)

// resetPurpose scopes password-reset tokens so they can never be
// presented as access or refresh tokens (and vice versa).
const resetPurpose = "password_reset"

// TokenCodec signs and verifies the three token kinds the service
// issues: access (sub+exp), refresh (sub+exp+jti), and password-reset
// (sub+exp+purpose). Secret and algorithm are fixed at construction.
type TokenCodec struct {
	secret     []byte
	method     *jwt.SigningMethodHMAC
	accessTTL  time.Duration
	refreshTTL time.Duration
	resetTTL   time.Duration
}

func NewTokenCodec(secret []byte, algorithm string, accessTTL, refreshTTL, resetTTL time.Duration) (*TokenCodec, error) {
	var method *jwt.SigningMethodHMAC
	switch algorithm {
	case "HS256":
		method = jwt.SigningMethodHS256
	case "HS384":
		method = jwt.SigningMethodHS384
	case "HS512":
		method = jwt.SigningMethodHS512
	default:
		return nil, fmt.Errorf("unsupported algorithm %q", algorithm)
	}

	return &TokenCodec{
		secret:     secret,
		method:     method,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		resetTTL:   resetTTL,
	}, nil
}

func (c *TokenCodec) AccessTTL() time.Duration  { return c.accessTTL }
func (c *TokenCodec) RefreshTTL() time.Duration { return c.refreshTTL }

func (c *TokenCodec) IssueAccess(email string) (string, error) {
	now := time.Now()
	return c.sign(jwt.MapClaims{
		"sub": email,
		"iat": now.Unix(),
		"exp": now.Add(c.accessTTL).Unix(),
	})
}

// IssueRefresh returns the signed token and its absolute expiry, which
// the caller persists alongside the store row. The jti claim guarantees
// two refresh tokens minted in the same second still differ.
func (c *TokenCodec) IssueRefresh(email string) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(c.refreshTTL)
	signed, err := c.sign(jwt.MapClaims{
		"sub": email,
		"iat": now.Unix(),
		"exp": expiresAt.Unix(),
		"jti": uuid.NewString(),
	})
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

func (c *TokenCodec) IssueReset(email string) (string, error) {
	now := time.Now()
	return c.sign(jwt.MapClaims{
		"sub":     email,
		"iat":     now.Unix(),
		"exp":     now.Add(c.resetTTL).Unix(),
		"purpose": resetPurpose,
	})
}

// ParseAccess verifies an access token and returns its subject.
// Purpose-scoped tokens (password reset) are rejected here.
func (c *TokenCodec) ParseAccess(raw string) (string, error) {
	claims, err := c.parse(raw)
	if err != nil {
		return "", err
	}
	if _, scoped := claims["purpose"]; scoped {
		return "", domain.ErrTokenInvalid
	}
	return subject(claims)
}

// ParseRefresh verifies a refresh token and returns its subject. The
// jti claim must be present; plain access tokens fail here.
func (c *TokenCodec) ParseRefresh(raw string) (string, error) {
	claims, err := c.parse(raw)
	if err != nil {
		return "", err
	}
	if jti, ok := claims["jti"].(string); !ok || jti == "" {
		return "", domain.ErrTokenInvalid
	}
	if _, scoped := claims["purpose"]; scoped {
		return "", domain.ErrTokenInvalid
	}
	return subject(claims)
}

// ParseReset verifies a password-reset token and returns its subject.
func (c *TokenCodec) ParseReset(raw string) (string, error) {
	claims, err := c.parse(raw)
	if err != nil {
		return "", err
	}
	if purpose, ok := claims["purpose"].(string); !ok || purpose != resetPurpose {
		return "", domain.ErrTokenInvalid
	}
	return subject(claims)
}

func (c *TokenCodec) sign(claims jwt.MapClaims) (string, error) {
	signed, err := jwt.NewWithClaims(c.method, claims).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// parse rejects any token not signed with the configured HMAC method,
// which shuts out alg-confusion tokens ("none", RSA) by construction.
// Expiry and signature failures collapse into ErrTokenInvalid; callers
// do not distinguish them.
func (c *TokenCodec) parse(raw string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != c.method.Alg() {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return c.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, domain.ErrTokenInvalid
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, domain.ErrTokenInvalid
	}
	if _, hasExp := claims["exp"]; !hasExp {
		return nil, domain.ErrTokenInvalid
	}
	return claims, nil
}

func subject(claims jwt.MapClaims) (string, error) {
	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", domain.ErrTokenInvalid
	}
	return sub, nil
}
