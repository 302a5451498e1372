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

type transactionUsecaser interface {
	Create(ctx context.Context, user *domain.User, input usecase.CreateTransactionInput) (*domain.Transaction, error)
	List(ctx context.Context, ownerID int64, filter domain.TransactionFilter) ([]*domain.Transaction, error)
	Get(ctx context.Context, id, ownerID int64) (*domain.Transaction, error)
	Update(ctx context.Context, id, ownerID int64, input usecase.UpdateTransactionInput) (*domain.Transaction, error)
	Delete(ctx context.Context, id, ownerID int64) error
}

type TransactionHandler struct {
	txUsecase transactionUsecaser
	logger    *slog.Logger
}

func NewTransactionHandler(txUsecase transactionUsecaser, logger *slog.Logger) *TransactionHandler {
	return &TransactionHandler{
		txUsecase: txUsecase,
		logger:    logger.With("component", "transaction_handler"),
	}
}

type transactionView struct {
	ID          int64                  `json:"id"`
	Amount      float64                `json:"amount"`
	Description *string                `json:"description,omitempty"`
	Date        time.Time              `json:"date"`
	Type        domain.TransactionType `json:"type"`
	CategoryID  int64                  `json:"category_id"`
}

func toTransactionView(t *domain.Transaction) transactionView {
	return transactionView{
		ID:          t.ID,
		Amount:      t.Amount,
		Description: t.Description,
		Date:        t.Date,
		Type:        t.Type,
		CategoryID:  t.CategoryID,
	}
}

type transactionRequest struct {
	Amount      float64    `json:"amount"      binding:"required,gt=0"`
	Description *string    `json:"description"`
	Date        *time.Time `json:"date"`
	Type        string     `json:"type"        binding:"required,oneof=income expense"`
	CategoryID  int64      `json:"category_id" binding:"required"`
}

// POST /transactions
func (h *TransactionHandler) Create(c *gin.Context) {
	user := middleware.UserFromContext(c)

	var req transactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tx, err := h.txUsecase.Create(c.Request.Context(), user, usecase.CreateTransactionInput{
		Amount:      req.Amount,
		Description: req.Description,
		Date:        req.Date,
		Type:        domain.TransactionType(req.Type),
		CategoryID:  req.CategoryID,
	})
	if err != nil {
		if errors.Is(err, domain.ErrCategoryNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": errCategoryNotFound})
			return
		}
		h.logger.ErrorContext(c.Request.Context(), "create transaction", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	c.JSON(http.StatusCreated, toTransactionView(tx))
}

// GET /transactions
func (h *TransactionHandler) List(c *gin.Context) {
	user := middleware.UserFromContext(c)

	filter, err := parseTransactionFilter(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	transactions, err := h.txUsecase.List(c.Request.Context(), user.ID, filter)
	if err != nil {
		h.logger.ErrorContext(c.Request.Context(), "list transactions", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	views := make([]transactionView, 0, len(transactions))
	for _, t := range transactions {
		views = append(views, toTransactionView(t))
	}
	c.JSON(http.StatusOK, views)
}

// GET /transactions/:id
func (h *TransactionHandler) GetByID(c *gin.Context) {
	user := middleware.UserFromContext(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": errTransactionNotFound})
		return
	}

	tx, err := h.txUsecase.Get(c.Request.Context(), id, user.ID)
	if err != nil {
		if errors.Is(err, domain.ErrTransactionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": errTransactionNotFound})
			return
		}
		h.logger.ErrorContext(c.Request.Context(), "get transaction", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	c.JSON(http.StatusOK, toTransactionView(tx))
}

// PUT /transactions/:id
func (h *TransactionHandler) Update(c *gin.Context) {
	user := middleware.UserFromContext(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": errTransactionNotFound})
		return
	}

	var req transactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tx, err := h.txUsecase.Update(c.Request.Context(), id, user.ID, usecase.UpdateTransactionInput{
		Amount:      req.Amount,
		Description: req.Description,
		Date:        req.Date,
		Type:        domain.TransactionType(req.Type),
		CategoryID:  req.CategoryID,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrTransactionNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": errTransactionNotFound})
		case errors.Is(err, domain.ErrCategoryNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": errCategoryNotFound})
		default:
			h.logger.ErrorContext(c.Request.Context(), "update transaction", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		}
		return
	}

	c.JSON(http.StatusOK, toTransactionView(tx))
}

// DELETE /transactions/:id
func (h *TransactionHandler) Delete(c *gin.Context) {
	user := middleware.UserFromContext(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": errTransactionNotFound})
		return
	}

	if err := h.txUsecase.Delete(c.Request.Context(), id, user.ID); err != nil {
		if errors.Is(err, domain.ErrTransactionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": errTransactionNotFound})
			return
		}
		h.logger.ErrorContext(c.Request.Context(), "delete transaction", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	c.Status(http.StatusNoContent)
}

func parseTransactionFilter(c *gin.Context) (domain.TransactionFilter, error) {
	filter := domain.TransactionFilter{Limit: 10}

	if v := c.Query("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 1 || limit > 100 {
			return filter, errors.New("limit must be between 1 and 100")
		}
		filter.Limit = limit
	}
	if v := c.Query("offset"); v != "" {
		offset, err := strconv.Atoi(v)
		if err != nil || offset < 0 {
			return filter, errors.New("offset must be non-negative")
		}
		filter.Offset = offset
	}
	if v := c.Query("category_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return filter, errors.New("category_id must be an integer")
		}
		filter.CategoryID = &id
	}
	if v := c.Query("date_from"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return filter, errors.New("date_from must be RFC 3339")
		}
		filter.DateFrom = &t
	}
	if v := c.Query("date_to"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return filter, errors.New("date_to must be RFC 3339")
		}
		filter.DateTo = &t
	}
	if v := c.Query("type"); v != "" {
		if v != "income" && v != "expense" {
			return filter, errors.New("type must be income or expense")
		}
		t := domain.TransactionType(v)
		filter.Type = &t
	}

	return filter, nil
}
