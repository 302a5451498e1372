package auth_test

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/medetbek/finance-tracker/internal/auth"
	"github.com/medetbek/finance-tracker/internal/domain"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func newTestCodec(t *testing.T) *auth.TokenCodec {
	t.Helper()
	c, err := auth.NewTokenCodec(testSecret, "HS256", 30*time.Minute, 7*24*time.Hour, 30*time.Minute)
	if err != nil {
		t.Fatalf("new codec: %v", err)
	}
	return c
}

func TestNewTokenCodec_UnsupportedAlgorithm(t *testing.T) {
	if _, err := auth.NewTokenCodec(testSecret, "RS256", time.Minute, time.Minute, time.Minute); err == nil {
		t.Fatal("RS256 accepted, want error")
	}
	if _, err := auth.NewTokenCodec(testSecret, "none", time.Minute, time.Minute, time.Minute); err == nil {
		t.Fatal(`"none" accepted, want error`)
	}
}

func TestIssueAccess_Roundtrip(t *testing.T) {
	c := newTestCodec(t)

	token, err := c.IssueAccess("user@example.com")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	sub, err := c.ParseAccess(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if sub != "user@example.com" {
		t.Errorf("sub = %q, want user@example.com", sub)
	}
}

func TestIssueRefresh_Roundtrip(t *testing.T) {
	c := newTestCodec(t)

	token, expiresAt, err := c.IssueRefresh("user@example.com")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if remaining := time.Until(expiresAt); remaining < 6*24*time.Hour {
		t.Errorf("expiry %v from now, want about 7 days", remaining)
	}

	sub, err := c.ParseRefresh(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if sub != "user@example.com" {
		t.Errorf("sub = %q, want user@example.com", sub)
	}
}

func TestIssueRefresh_TokensAreUnique(t *testing.T) {
	c := newTestCodec(t)

	// Same subject, same second: the jti claim must still make the
	// signed strings differ.
	first, _, err := c.IssueRefresh("user@example.com")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	second, _, err := c.IssueRefresh("user@example.com")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if first == second {
		t.Error("two refresh tokens are identical")
	}
}

func TestIssueReset_Roundtrip(t *testing.T) {
	c := newTestCodec(t)

	token, err := c.IssueReset("user@example.com")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	sub, err := c.ParseReset(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if sub != "user@example.com" {
		t.Errorf("sub = %q, want user@example.com", sub)
	}
}

func TestParse_KindsDoNotCross(t *testing.T) {
	c := newTestCodec(t)

	access, err := c.IssueAccess("user@example.com")
	if err != nil {
		t.Fatalf("issue access: %v", err)
	}
	refresh, _, err := c.IssueRefresh("user@example.com")
	if err != nil {
		t.Fatalf("issue refresh: %v", err)
	}
	reset, err := c.IssueReset("user@example.com")
	if err != nil {
		t.Fatalf("issue reset: %v", err)
	}

	cases := []struct {
		name  string
		parse func(string) (string, error)
		raw   string
	}{
		{"access token as refresh", func(s string) (string, error) { return c.ParseRefresh(s) }, access},
		{"reset token as refresh", func(s string) (string, error) { return c.ParseRefresh(s) }, reset},
		{"reset token as access", func(s string) (string, error) { return c.ParseAccess(s) }, reset},
		{"access token as reset", func(s string) (string, error) { return c.ParseReset(s) }, access},
		{"refresh token as reset", func(s string) (string, error) { return c.ParseReset(s) }, refresh},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := tc.parse(tc.raw); !errors.Is(err, domain.ErrTokenInvalid) {
				t.Errorf("err = %v, want ErrTokenInvalid", err)
			}
		})
	}
}

func TestParse_ExpiredToken(t *testing.T) {
	c, err := auth.NewTokenCodec(testSecret, "HS256", -time.Minute, -time.Minute, -time.Minute)
	if err != nil {
		t.Fatalf("new codec: %v", err)
	}

	token, err := c.IssueAccess("user@example.com")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := c.ParseAccess(token); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Errorf("err = %v, want ErrTokenInvalid", err)
	}
}

func TestParse_WrongSecret(t *testing.T) {
	c := newTestCodec(t)
	other, err := auth.NewTokenCodec([]byte("fedcba9876543210fedcba9876543210"), "HS256",
		30*time.Minute, 7*24*time.Hour, 30*time.Minute)
	if err != nil {
		t.Fatalf("new codec: %v", err)
	}

	token, err := other.IssueAccess("user@example.com")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := c.ParseAccess(token); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Errorf("err = %v, want ErrTokenInvalid", err)
	}
}

func TestParse_TamperedToken(t *testing.T) {
	c := newTestCodec(t)

	token, err := c.IssueAccess("user@example.com")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	tampered := token[:len(token)-2] + "xx"
	if _, err := c.ParseAccess(tampered); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Errorf("err = %v, want ErrTokenInvalid", err)
	}
	if _, err := c.ParseAccess("not.a.jwt"); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Errorf("err = %v, want ErrTokenInvalid", err)
	}
}

func TestParse_RejectsUnsignedAlgNone(t *testing.T) {
	c := newTestCodec(t)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"sub": "user@example.com",
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := c.ParseAccess(unsigned); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Errorf("err = %v, want ErrTokenInvalid", err)
	}
}

func TestParse_RejectsDifferentHMACAlg(t *testing.T) {
	c := newTestCodec(t) // HS256

	// Valid signature, same secret, but HS512: the codec pins the
	// configured algorithm and must refuse it.
	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.MapClaims{
		"sub": "user@example.com",
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString(testSecret)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := c.ParseAccess(hs512); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Errorf("err = %v, want ErrTokenInvalid", err)
	}
}

func TestParse_RequiresExpClaim(t *testing.T) {
	c := newTestCodec(t)

	eternal, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "user@example.com",
	}).SignedString(testSecret)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := c.ParseAccess(eternal); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Errorf("err = %v, want ErrTokenInvalid", err)
	}
}

func TestParse_RequiresSubject(t *testing.T) {
	c := newTestCodec(t)

	noSub, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString(testSecret)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := c.ParseAccess(noSub); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Errorf("err = %v, want ErrTokenInvalid", err)
	}
}
