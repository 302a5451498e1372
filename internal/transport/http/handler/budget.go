package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/medetbek/finance-tracker/internal/domain"
	"github.com/medetbek/finance-tracker/internal/transport/http/middleware"
	"github.com/medetbek/finance-tracker/internal/usecase"
)

type budgetUsecaser interface {
	Create(ctx context.Context, userID int64, input usecase.BudgetInput) (*domain.Budget, error)
	List(ctx context.Context, userID int64) ([]*domain.Budget, error)
	Update(ctx context.Context, id, userID int64, input usecase.BudgetInput) (*domain.Budget, error)
	Delete(ctx context.Context, id, userID int64) error
	Summary(ctx context.Context, userID int64, month time.Time) ([]domain.BudgetSummaryRow, error)
}

type BudgetHandler struct {
	budgetUsecase budgetUsecaser
	logger        *slog.Logger
}

func NewBudgetHandler(budgetUsecase budgetUsecaser, logger *slog.Logger) *BudgetHandler {
	return &BudgetHandler{
		budgetUsecase: budgetUsecase,
		logger:        logger.With("component", "budget_handler"),
	}
}

type budgetView struct {
	ID         int64     `json:"id"`
	CategoryID int64     `json:"category_id"`
	Amount     float64   `json:"amount"`
	Month      time.Time `json:"month"`
}

func toBudgetView(b *domain.Budget) budgetView {
	return budgetView{ID: b.ID, CategoryID: b.CategoryID, Amount: b.Amount, Month: b.Month}
}

type budgetRequest struct {
	CategoryID int64     `json:"category_id" binding:"required"`
	Amount     float64   `json:"amount"      binding:"required,gt=0"`
	Month      time.Time `json:"month"       binding:"required"`
}

// POST /budgets
func (h *BudgetHandler) Create(c *gin.Context) {
	user := middleware.UserFromContext(c)

	var req budgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	budget, err := h.budgetUsecase.Create(c.Request.Context(), user.ID, usecase.BudgetInput{
		CategoryID: req.CategoryID,
		Amount:     req.Amount,
		Month:      req.Month,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrCategoryNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": errCategoryNotFound})
		case errors.Is(err, domain.ErrBudgetExists):
			c.JSON(http.StatusBadRequest, gin.H{"error": errBudgetExists})
		default:
			h.logger.ErrorContext(c.Request.Context(), "create budget", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		}
		return
	}

	c.JSON(http.StatusCreated, toBudgetView(budget))
}

// GET /budgets
func (h *BudgetHandler) List(c *gin.Context) {
	user := middleware.UserFromContext(c)

	budgets, err := h.budgetUsecase.List(c.Request.Context(), user.ID)
	if err != nil {
		h.logger.ErrorContext(c.Request.Context(), "list budgets", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	views := make([]budgetView, 0, len(budgets))
	for _, b := range budgets {
		views = append(views, toBudgetView(b))
	}
	c.JSON(http.StatusOK, views)
}

// PUT /budgets/:id
func (h *BudgetHandler) Update(c *gin.Context) {
	user := middleware.UserFromContext(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": errBudgetNotFound})
		return
	}

	var req budgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	budget, err := h.budgetUsecase.Update(c.Request.Context(), id, user.ID, usecase.BudgetInput{
		CategoryID: req.CategoryID,
		Amount:     req.Amount,
		Month:      req.Month,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrBudgetNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": errBudgetNotFound})
		case errors.Is(err, domain.ErrCategoryNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": errCategoryNotFound})
		case errors.Is(err, domain.ErrBudgetExists):
			c.JSON(http.StatusBadRequest, gin.H{"error": errBudgetExists})
		default:
			h.logger.ErrorContext(c.Request.Context(), "update budget", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		}
		return
	}

	c.JSON(http.StatusOK, toBudgetView(budget))
}

// DELETE /budgets/:id
func (h *BudgetHandler) Delete(c *gin.Context) {
	user := middleware.UserFromContext(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": errBudgetNotFound})
		return
	}

	if err := h.budgetUsecase.Delete(c.Request.Context(), id, user.ID); err != nil {
		if errors.Is(err, domain.ErrBudgetNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": errBudgetNotFound})
			return
		}
		h.logger.ErrorContext(c.Request.Context(), "delete budget", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Budget deleted"})
}

// GET /budgets/summary?month=2025-07
func (h *BudgetHandler) Summary(c *gin.Context) {
	user := middleware.UserFromContext(c)

	month, err := time.Parse("2006-01", c.Query("month"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "month must be formatted as YYYY-MM"})
		return
	}

	rows, err := h.budgetUsecase.Summary(c.Request.Context(), user.ID, month)
	if err != nil {
		h.logger.ErrorContext(c.Request.Context(), "budget summary", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	if rows == nil {
		rows = []domain.BudgetSummaryRow{}
	}
	c.JSON(http.StatusOK, rows)
}
