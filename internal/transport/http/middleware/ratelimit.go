package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/medetbek/finance-tracker/internal/ratelimit"
)

const errTooManyRequests = "Too many requests"

// RateLimit throttles requests per client IP. The limiter strategy is
// fixed at startup; local runs and tests wire ratelimit.Noop.
func RateLimit(limiter ratelimit.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.Allow(c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": errTooManyRequests})
			return
		}
		c.Next()
	}
}
