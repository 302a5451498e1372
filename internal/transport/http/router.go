package httptransport

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/medetbek/finance-tracker/internal/ratelimit"
	"github.com/medetbek/finance-tracker/internal/transport/http/handler"
	"github.com/medetbek/finance-tracker/internal/transport/http/middleware"
	"github.com/medetbek/finance-tracker/internal/usecase"

	sloggin "github.com/samber/slog-gin"
)

func NewRouter(
	logger *slog.Logger,
	limiter ratelimit.Limiter,
	authUsecase *usecase.AuthUsecase,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	categoryHandler *handler.CategoryHandler,
	transactionHandler *handler.TransactionHandler,
	budgetHandler *handler.BudgetHandler,
	reportHandler *handler.ReportHandler,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Security())
	r.Use(sloggin.New(logger))
	r.Use(middleware.Metrics())
	r.Use(middleware.RateLimit(limiter))

	authMW := middleware.Auth(authUsecase)

	// Public auth routes
	auth := r.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.GET("/me", authMW, authHandler.Me)
	auth.POST("/refresh", authHandler.Refresh)
	auth.POST("/password-reset/request", authHandler.ResetRequest)
	auth.POST("/password-reset/confirm", authHandler.ResetConfirm)

	// Protected user routes
	users := r.Group("/users", authMW)
	users.PUT("/me", userHandler.UpdateProfile)

	// Protected category routes
	categories := r.Group("/categories", authMW)
	categories.POST("", categoryHandler.Create)
	categories.GET("", categoryHandler.List)
	categories.PUT("/:id", categoryHandler.Update)
	categories.DELETE("/:id", categoryHandler.Delete)

	// Protected transaction routes, reports nested under them
	transactions := r.Group("/transactions", authMW)
	transactions.POST("", transactionHandler.Create)
	transactions.GET("", transactionHandler.List)
	transactions.GET("/reports/summary", reportHandler.Summary)
	transactions.GET("/reports/monthly", reportHandler.Monthly)
	transactions.GET("/reports/by-category", reportHandler.ByCategory)
	transactions.GET("/:id", transactionHandler.GetByID)
	transactions.PUT("/:id", transactionHandler.Update)
	transactions.DELETE("/:id", transactionHandler.Delete)

	// Protected budget routes
	budgets := r.Group("/budgets", authMW)
	budgets.POST("", budgetHandler.Create)
	budgets.GET("", budgetHandler.List)
	budgets.GET("/summary", budgetHandler.Summary)
	budgets.PUT("/:id", budgetHandler.Update)
	budgets.DELETE("/:id", budgetHandler.Delete)

	return r
}
