package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/medetbek/finance-tracker/internal/auth"
	"github.com/medetbek/finance-tracker/internal/domain"
	"github.com/medetbek/finance-tracker/internal/transport/http/handler"
	"github.com/medetbek/finance-tracker/internal/transport/http/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// fakeAuthUsecase implements the unexported authUsecaser interface via method matching.
type fakeAuthUsecase struct {
	register             func(ctx context.Context, email, username, password string) (*domain.User, error)
	login                func(ctx context.Context, email, password string) (*domain.TokenPair, error)
	refresh              func(ctx context.Context, refreshToken string) (*domain.TokenPair, error)
	requestPasswordReset func(ctx context.Context, email string) (string, error)
	confirmPasswordReset func(ctx context.Context, token, newPassword string) error
}

func (f *fakeAuthUsecase) Register(ctx context.Context, email, username, password string) (*domain.User, error) {
	return f.register(ctx, email, username, password)
}

func (f *fakeAuthUsecase) Login(ctx context.Context, email, password string) (*domain.TokenPair, error) {
	return f.login(ctx, email, password)
}

func (f *fakeAuthUsecase) Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	return f.refresh(ctx, refreshToken)
}

func (f *fakeAuthUsecase) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	return f.requestPasswordReset(ctx, email)
}

func (f *fakeAuthUsecase) ConfirmPasswordReset(ctx context.Context, token, newPassword string) error {
	return f.confirmPasswordReset(ctx, token, newPassword)
}

// fakeResolver backs the Auth middleware on the /auth/me route.
type fakeResolver struct {
	currentUser func(ctx context.Context, accessToken string) (*domain.User, error)
}

func (f *fakeResolver) CurrentUser(ctx context.Context, accessToken string) (*domain.User, error) {
	return f.currentUser(ctx, accessToken)
}

func newTestEngine(uc *fakeAuthUsecase, resolver *fakeResolver) *gin.Engine {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := handler.NewAuthHandler(uc, logger)

	r := gin.New()
	r.POST("/auth/register", h.Register)
	r.POST("/auth/login", h.Login)
	if resolver != nil {
		r.GET("/auth/me", middleware.Auth(resolver), h.Me)
	}
	r.POST("/auth/refresh", h.Refresh)
	r.POST("/auth/password-reset/request", h.ResetRequest)
	r.POST("/auth/password-reset/confirm", h.ResetConfirm)
	return r
}

func postJSON(engine *gin.Engine, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(w, req)
	return w
}

// ---- Register ----

func TestRegister_InvalidJSON_Returns400(t *testing.T) {
	w := postJSON(newTestEngine(&fakeAuthUsecase{}, nil), "/auth/register", `{bad json}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestRegister_ValidationFailures_Return400(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"bad email", `{"email":"nope","username":"tester","password":"secret-pass"}`},
		{"short username", `{"email":"a@b.com","username":"ab","password":"secret-pass"}`},
		{"short password", `{"email":"a@b.com","username":"tester","password":"short"}`},
		{"long password", `{"email":"a@b.com","username":"tester","password":"` + strings.Repeat("a", 73) + `"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := postJSON(newTestEngine(&fakeAuthUsecase{}, nil), "/auth/register", tc.body)
			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", w.Code)
			}
		})
	}
}

func TestRegister_EmailTaken_Returns400(t *testing.T) {
	uc := &fakeAuthUsecase{
		register: func(_ context.Context, _, _, _ string) (*domain.User, error) {
			return nil, domain.ErrEmailTaken
		},
	}
	w := postJSON(newTestEngine(uc, nil), "/auth/register",
		`{"email":"a@b.com","username":"tester","password":"secret-pass"}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Email already registered") {
		t.Errorf("body = %q, missing duplicate-email message", w.Body.String())
	}
}

func TestRegister_Success_Returns200WithUser(t *testing.T) {
	uc := &fakeAuthUsecase{
		register: func(_ context.Context, email, username, _ string) (*domain.User, error) {
			return &domain.User{ID: 7, Email: email, Username: username, PasswordHash: "$2a$10$x"}, nil
		},
	}
	w := postJSON(newTestEngine(uc, nil), "/auth/register",
		`{"email":"a@b.com","username":"tester","password":"secret-pass"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp["id"] != float64(7) || resp["email"] != "a@b.com" {
		t.Errorf("resp = %v", resp)
	}
	if _, leaked := resp["password_hash"]; leaked {
		t.Error("response leaks password hash")
	}
}

func TestRegister_UsernameTaken_Returns400(t *testing.T) {
	uc := &fakeAuthUsecase{
		register: func(_ context.Context, _, _, _ string) (*domain.User, error) {
			return nil, domain.ErrUsernameTaken
		},
	}
	w := postJSON(newTestEngine(uc, nil), "/auth/register",
		`{"email":"a@b.com","username":"tester","password":"secret-pass"}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Username already taken") {
		t.Errorf("body = %q, missing duplicate-username message", w.Body.String())
	}
}

func TestRegister_MultibytePasswordOver72Bytes_Returns400(t *testing.T) {
	// 72 runes slips past the max=72 binding but is 144 bytes, which
	// the hasher rejects; that must surface as a validation failure,
	// not a 500.
	uc := &fakeAuthUsecase{
		register: func(_ context.Context, _, _, password string) (*domain.User, error) {
			if _, err := auth.NewPasswordHasher().Hash(password); err != nil {
				return nil, fmt.Errorf("hash password: %w", err)
			}
			t.Fatal("hasher accepted a 144-byte password")
			return nil, nil
		},
	}
	w := postJSON(newTestEngine(uc, nil), "/auth/register",
		`{"email":"a@b.com","username":"tester","password":"`+strings.Repeat("ñ", 72)+`"}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
	if !strings.Contains(w.Body.String(), "72 bytes") {
		t.Errorf("body = %q, missing password-length message", w.Body.String())
	}
}

// ---- Login ----

func TestLogin_InvalidCredentials_Returns401(t *testing.T) {
	uc := &fakeAuthUsecase{
		login: func(_ context.Context, _, _ string) (*domain.TokenPair, error) {
			return nil, domain.ErrInvalidCredentials
		},
	}
	w := postJSON(newTestEngine(uc, nil), "/auth/login",
		`{"email":"a@b.com","password":"wrong"}`)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestLogin_InternalError_Returns500(t *testing.T) {
	uc := &fakeAuthUsecase{
		login: func(_ context.Context, _, _ string) (*domain.TokenPair, error) {
			return nil, errors.New("db down")
		},
	}
	w := postJSON(newTestEngine(uc, nil), "/auth/login",
		`{"email":"a@b.com","password":"whatever"}`)
	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", w.Code)
	}
}

func TestLogin_Success_ReturnsTokenPair(t *testing.T) {
	uc := &fakeAuthUsecase{
		login: func(_ context.Context, _, _ string) (*domain.TokenPair, error) {
			return &domain.TokenPair{AccessToken: "acc", RefreshToken: "ref", TokenType: "bearer"}, nil
		},
	}
	w := postJSON(newTestEngine(uc, nil), "/auth/login",
		`{"email":"a@b.com","password":"secret-pass"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp["access_token"] != "acc" || resp["refresh_token"] != "ref" || resp["token_type"] != "bearer" {
		t.Errorf("resp = %v", resp)
	}
}

// ---- Me ----

func TestMe_NoBearerToken_Returns401(t *testing.T) {
	resolver := &fakeResolver{}
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	newTestEngine(&fakeAuthUsecase{}, resolver).ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestMe_InvalidToken_Returns401(t *testing.T) {
	resolver := &fakeResolver{
		currentUser: func(_ context.Context, _ string) (*domain.User, error) {
			return nil, domain.ErrUnauthorized
		},
	}
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer bad-token")
	newTestEngine(&fakeAuthUsecase{}, resolver).ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestMe_ValidToken_ReturnsUser(t *testing.T) {
	resolver := &fakeResolver{
		currentUser: func(_ context.Context, token string) (*domain.User, error) {
			if token != "good-token" {
				return nil, domain.ErrUnauthorized
			}
			return &domain.User{ID: 3, Email: "a@b.com", Username: "tester"}, nil
		},
	}
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	newTestEngine(&fakeAuthUsecase{}, resolver).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"email":"a@b.com"`) {
		t.Errorf("body = %q", w.Body.String())
	}
}

// ---- Refresh ----

func TestRefresh_MissingToken_Returns401(t *testing.T) {
	w := postJSON(newTestEngine(&fakeAuthUsecase{}, nil), "/auth/refresh", `{}`)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestRefresh_RevokedToken_Returns401(t *testing.T) {
	uc := &fakeAuthUsecase{
		refresh: func(_ context.Context, _ string) (*domain.TokenPair, error) {
			return nil, domain.ErrUnauthorized
		},
	}
	w := postJSON(newTestEngine(uc, nil), "/auth/refresh", `{"refresh_token":"used-up"}`)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestRefresh_Success_ReturnsNewPair(t *testing.T) {
	uc := &fakeAuthUsecase{
		refresh: func(_ context.Context, token string) (*domain.TokenPair, error) {
			if token != "valid-refresh" {
				return nil, domain.ErrUnauthorized
			}
			return &domain.TokenPair{AccessToken: "acc2", RefreshToken: "ref2", TokenType: "bearer"}, nil
		},
	}
	w := postJSON(newTestEngine(uc, nil), "/auth/refresh", `{"refresh_token":"valid-refresh"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), "ref2") {
		t.Errorf("body = %q", w.Body.String())
	}
}

// ---- Password reset ----

func TestResetRequest_UnknownAndKnownEmailSameStatus(t *testing.T) {
	known := &fakeAuthUsecase{
		requestPasswordReset: func(_ context.Context, _ string) (string, error) { return "reset-token", nil },
	}
	unknown := &fakeAuthUsecase{
		requestPasswordReset: func(_ context.Context, _ string) (string, error) { return "", nil },
	}

	wKnown := postJSON(newTestEngine(known, nil), "/auth/password-reset/request", `{"email":"a@b.com"}`)
	wUnknown := postJSON(newTestEngine(unknown, nil), "/auth/password-reset/request", `{"email":"x@y.com"}`)

	if wKnown.Code != http.StatusOK || wUnknown.Code != http.StatusOK {
		t.Errorf("statuses = %d / %d, want 200 / 200", wKnown.Code, wUnknown.Code)
	}

	var resp map[string]string
	if err := json.Unmarshal(wUnknown.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp["msg"] == "" {
		t.Error("missing msg in response")
	}
	if _, leaked := resp["reset_token"]; leaked {
		t.Error("unknown email response carries a reset token")
	}
}

func TestResetRequest_UsecaseError_StillReturns200(t *testing.T) {
	uc := &fakeAuthUsecase{
		requestPasswordReset: func(_ context.Context, _ string) (string, error) {
			return "", errors.New("db down")
		},
	}
	w := postJSON(newTestEngine(uc, nil), "/auth/password-reset/request", `{"email":"a@b.com"}`)
	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200 (must not reveal errors)", w.Code)
	}
}

func TestResetConfirm_InvalidToken_Returns400(t *testing.T) {
	uc := &fakeAuthUsecase{
		confirmPasswordReset: func(_ context.Context, _, _ string) error {
			return domain.ErrTokenInvalid
		},
	}
	w := postJSON(newTestEngine(uc, nil), "/auth/password-reset/confirm",
		`{"token":"bad","new_password":"new-password-1"}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestResetConfirm_UnknownUser_Returns404(t *testing.T) {
	uc := &fakeAuthUsecase{
		confirmPasswordReset: func(_ context.Context, _, _ string) error {
			return domain.ErrUserNotFound
		},
	}
	w := postJSON(newTestEngine(uc, nil), "/auth/password-reset/confirm",
		`{"token":"orphan","new_password":"new-password-1"}`)
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestResetConfirm_ShortNewPassword_Returns400(t *testing.T) {
	w := postJSON(newTestEngine(&fakeAuthUsecase{}, nil), "/auth/password-reset/confirm",
		`{"token":"ok","new_password":"short"}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestResetConfirm_MultibytePasswordOver72Bytes_Returns400(t *testing.T) {
	uc := &fakeAuthUsecase{
		confirmPasswordReset: func(_ context.Context, _, newPassword string) error {
			if _, err := auth.NewPasswordHasher().Hash(newPassword); err != nil {
				return fmt.Errorf("hash password: %w", err)
			}
			t.Fatal("hasher accepted a 144-byte password")
			return nil
		},
	}
	w := postJSON(newTestEngine(uc, nil), "/auth/password-reset/confirm",
		`{"token":"ok","new_password":"`+strings.Repeat("ñ", 72)+`"}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestResetConfirm_Success_Returns200(t *testing.T) {
	uc := &fakeAuthUsecase{
		confirmPasswordReset: func(_ context.Context, _, _ string) error { return nil },
	}
	w := postJSON(newTestEngine(uc, nil), "/auth/password-reset/confirm",
		`{"token":"ok","new_password":"new-password-1"}`)
	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
}
