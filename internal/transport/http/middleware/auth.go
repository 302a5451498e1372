package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/medetbek/finance-tracker/internal/domain"
	ctxlog "github.com/medetbek/finance-tracker/internal/log"
)

const (
	errUnauthorized = "Unauthorized"
	userContextKey  = "currentUser"
)

// identityResolver is the subset of AuthUsecase the middleware needs.
// Defined here (point of use) so tests can inject a fake.
type identityResolver interface {
	CurrentUser(ctx context.Context, accessToken string) (*domain.User, error)
}

// Auth validates a Bearer access token, resolves it to a user, and
// stores the user in the gin context for handlers downstream.
func Auth(resolver identityResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errUnauthorized})
			return
		}

		rawToken := strings.TrimPrefix(header, "Bearer ")

		user, err := resolver.CurrentUser(c.Request.Context(), rawToken)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errUnauthorized})
			return
		}

		c.Set(userContextKey, user)
		c.Request = c.Request.WithContext(ctxlog.WithUserID(c.Request.Context(), user.ID))
		c.Next()
	}
}

// UserFromContext returns the user resolved by Auth, or nil if the
// middleware did not run.
func UserFromContext(c *gin.Context) *domain.User {
	user, _ := c.Get(userContextKey)
	u, _ := user.(*domain.User)
	return u
}
