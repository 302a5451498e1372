// Package ratelimit provides the per-client request limiter. The
// implementation is selected once at startup; tests and local runs get
// the no-op, production gets the token bucket.
package ratelimit

import (
	"sync"

	"golang.org/x/time/rate"
)

// Limiter decides whether a request identified by key (client IP) may
// proceed.
type Limiter interface {
	Allow(key string) bool
}

// Noop allows everything.
type Noop struct{}

func (Noop) Allow(string) bool { return true }

// PerKey keeps one token bucket per key.
type PerKey struct {
	mu      sync.Mutex
	buckets map[string]*rate.Limiter
	limit   rate.Limit
	burst   int
}

// NewPerKey builds a limiter allowing perMinute requests per key with
// the given burst.
func NewPerKey(perMinute, burst int) *PerKey {
	return &PerKey{
		buckets: make(map[string]*rate.Limiter),
		limit:   rate.Limit(float64(perMinute) / 60.0),
		burst:   burst,
	}
}

func (l *PerKey) Allow(key string) bool {
	l.mu.Lock()
	b, ok := l.buckets[key]
	if !ok {
		b = rate.NewLimiter(l.limit, l.burst)
		l.buckets[key] = b
	}
	l.mu.Unlock()
	return b.Allow()
}
