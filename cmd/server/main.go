package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lmittmann/tint"
	"github.com/medetbek/finance-tracker/config"
	"github.com/medetbek/finance-tracker/internal/auth"
	"github.com/medetbek/finance-tracker/internal/email"
	"github.com/medetbek/finance-tracker/internal/health"
	"github.com/medetbek/finance-tracker/internal/infrastructure/postgres"
	ctxlog "github.com/medetbek/finance-tracker/internal/log"
	"github.com/medetbek/finance-tracker/internal/maintenance"
	"github.com/medetbek/finance-tracker/internal/metrics"
	"github.com/medetbek/finance-tracker/internal/ratelimit"
	httptransport "github.com/medetbek/finance-tracker/internal/transport/http"
	"github.com/medetbek/finance-tracker/internal/transport/http/handler"
	"github.com/medetbek/finance-tracker/internal/usecase"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger := newLogger(cfg.Env, cfg.SlogLevel())

	if cfg.Env != "local" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	if err := postgres.Migrate(ctx, cfg.DatabaseURL); err != nil {
		stop()
		log.Fatalf("migrate: %v", err)
	}

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		stop()
		log.Fatalf("db: %v", err)
	}
	defer pool.Close()

	// Repositories
	userRepo := postgres.NewUserRepository(pool)
	tokenRepo := postgres.NewRefreshTokenRepository(pool)
	categoryRepo := postgres.NewCategoryRepository(pool)
	transactionRepo := postgres.NewTransactionRepository(pool)
	budgetRepo := postgres.NewBudgetRepository(pool)

	// Auth primitives
	hasher := auth.NewPasswordHasher()
	codec, err := auth.NewTokenCodec(
		[]byte(cfg.SecretKey),
		cfg.Algorithm,
		time.Duration(cfg.AccessTokenExpireMinutes)*time.Minute,
		time.Duration(cfg.RefreshTokenExpireDays)*24*time.Hour,
		time.Duration(cfg.ResetTokenExpireMinutes)*time.Minute,
	)
	if err != nil {
		stop()
		log.Fatalf("token codec: %v", err)
	}

	emailSender := email.NewSender(cfg.Env, cfg.ResendAPIKey, cfg.ResendFrom, logger)

	// Usecases
	authUsecase := usecase.NewAuthUsecase(userRepo, tokenRepo, hasher, codec, emailSender, cfg.ResetLinkBase, logger)
	userUsecase := usecase.NewUserUsecase(userRepo)
	categoryUsecase := usecase.NewCategoryUsecase(categoryRepo)
	transactionUsecase := usecase.NewTransactionUsecase(transactionRepo, categoryRepo, budgetRepo, emailSender, logger)
	budgetUsecase := usecase.NewBudgetUsecase(budgetRepo, categoryRepo)
	reportUsecase := usecase.NewReportUsecase(transactionRepo)

	// Handlers
	authHandler := handler.NewAuthHandler(authUsecase, logger)
	userHandler := handler.NewUserHandler(userUsecase, logger)
	categoryHandler := handler.NewCategoryHandler(categoryUsecase, logger)
	transactionHandler := handler.NewTransactionHandler(transactionUsecase, logger)
	budgetHandler := handler.NewBudgetHandler(budgetUsecase, logger)
	reportHandler := handler.NewReportHandler(reportUsecase, logger)

	metrics.Register()
	checker := health.NewChecker(pool, logger, prometheus.DefaultRegisterer)

	var limiter ratelimit.Limiter = ratelimit.Noop{}
	if cfg.Env != "local" {
		limiter = ratelimit.NewPerKey(cfg.RateLimitPerMinute, cfg.RateLimitBurst)
	}

	sweeper := maintenance.NewSweeper(tokenRepo, cfg.TokenSweepSchedule, logger)
	if err := sweeper.Start(); err != nil {
		stop()
		log.Fatalf("sweeper: %v", err)
	}

	srv := http.Server{
		Addr: ":" + cfg.Port,
		Handler: httptransport.NewRouter(
			logger, limiter, authUsecase,
			authHandler, userHandler, categoryHandler,
			transactionHandler, budgetHandler, reportHandler,
		),
	}

	metricsSrv := metrics.NewServer(":"+cfg.MetricsPort, checker)

	go func() {
		logger.Info("server started", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	go func() {
		logger.Info("metrics server started", "port", cfg.MetricsPort)
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server", "error", err)
		}
	}()

	<-ctx.Done()
	stop()
	logger.Info("shutting down...")

	sweeper.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", "error", err)
	}
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("metrics server shutdown", "error", err)
	}
}

func newLogger(env string, level slog.Level) *slog.Logger {
	var inner slog.Handler
	if env == "local" {
		inner = tint.NewHandler(os.Stdout, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		})
	} else {
		inner = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: level,
		})
	}
	return slog.New(ctxlog.NewContextHandler(inner))
}
