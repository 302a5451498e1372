package metrics

import (
	"encoding/json"
	"net/http"

	"github.com/medetbek/finance-tracker/internal/health"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Auth metrics

	LoginsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fintrack",
		Name:      "logins_total",
		Help:      "Total login attempts, by outcome.",
	}, []string{"outcome"})

	RegistrationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fintrack",
		Name:      "registrations_total",
		Help:      "Total registration attempts, by outcome.",
	}, []string{"outcome"})

	TokenRotationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fintrack",
		Name:      "token_rotations_total",
		Help:      "Total refresh-token rotations, by outcome.",
	}, []string{"outcome"})

	PasswordResetsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fintrack",
		Name:      "password_resets_total",
		Help:      "Total password-reset confirmations, by outcome.",
	}, []string{"outcome"})

	// Maintenance metrics

	ExpiredTokensSweptTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "fintrack",
		Name:      "expired_tokens_swept_total",
		Help:      "Expired refresh-token rows removed by the sweeper.",
	})

	// HTTP metrics

	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "fintrack",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fintrack",
		Name:      "http_requests_total",
		Help:      "Total HTTP requests.",
	}, []string{"method", "path", "status"})
)

func Register() {
	prometheus.MustRegister(
		LoginsTotal,
		RegistrationsTotal,
		TokenRotationsTotal,
		PasswordResetsTotal,
		ExpiredTokensSweptTotal,
		HTTPRequestDuration,
		HTTPRequestsTotal,
	)
}

// NewServer exposes /metrics plus the liveness and readiness probes on
// the internal port.
func NewServer(addr string, checker *health.Checker) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeHealth(w, checker.Liveness(r.Context()), http.StatusOK)
	})
	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		result := checker.Readiness(r.Context())
		status := http.StatusOK
		if result.Status != "up" {
			status = http.StatusServiceUnavailable
		}
		writeHealth(w, result, status)
	})
	return &http.Server{Addr: addr, Handler: mux}
}

func writeHealth(w http.ResponseWriter, result health.HealthResult, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(result)
}
