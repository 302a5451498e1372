package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/medetbek/finance-tracker/internal/domain"
	"github.com/medetbek/finance-tracker/internal/transport/http/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubResolver struct {
	user *domain.User
	err  error
	seen string
}

func (s *stubResolver) CurrentUser(_ context.Context, accessToken string) (*domain.User, error) {
	s.seen = accessToken
	return s.user, s.err
}

func newProtectedEngine(resolver *stubResolver) *gin.Engine {
	r := gin.New()
	r.GET("/protected", middleware.Auth(resolver), func(c *gin.Context) {
		user := middleware.UserFromContext(c)
		if user == nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "no user in context"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"email": user.Email})
	})
	return r
}

func get(engine *gin.Engine, authorization string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	engine.ServeHTTP(w, req)
	return w
}

func TestAuth_MissingHeader_Returns401(t *testing.T) {
	w := get(newProtectedEngine(&stubResolver{}), "")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestAuth_NotBearerScheme_Returns401(t *testing.T) {
	w := get(newProtectedEngine(&stubResolver{}), "Basic dXNlcjpwYXNz")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestAuth_ResolverRejects_Returns401(t *testing.T) {
	resolver := &stubResolver{err: domain.ErrUnauthorized}
	w := get(newProtectedEngine(resolver), "Bearer expired-token")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
	if resolver.seen != "expired-token" {
		t.Errorf("resolver saw token %q, want expired-token", resolver.seen)
	}
}

func TestAuth_ValidToken_StoresUserInContext(t *testing.T) {
	resolver := &stubResolver{user: &domain.User{ID: 1, Email: "a@b.com"}}
	w := get(newProtectedEngine(resolver), "Bearer good-token")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}
	if resolver.seen != "good-token" {
		t.Errorf("resolver saw token %q, want good-token", resolver.seen)
	}
}

func TestUserFromContext_WithoutMiddleware_ReturnsNil(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	if user := middleware.UserFromContext(c); user != nil {
		t.Errorf("user = %v, want nil", user)
	}
}
