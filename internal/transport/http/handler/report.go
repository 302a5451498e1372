package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/medetbek/finance-tracker/internal/domain"
	"github.com/medetbek/finance-tracker/internal/transport/http/middleware"
)

type reportUsecaser interface {
	Summary(ctx context.Context, ownerID int64, from, to *time.Time) (domain.Summary, error)
	Monthly(ctx context.Context, ownerID int64, from, to *time.Time) ([]domain.MonthlyRow, error)
	ByCategory(ctx context.Context, ownerID int64, txType *domain.TransactionType, from *time.Time, limit int) (domain.CategoryBreakdown, error)
}

type ReportHandler struct {
	reportUsecase reportUsecaser
	logger        *slog.Logger
}

func NewReportHandler(reportUsecase reportUsecaser, logger *slog.Logger) *ReportHandler {
	return &ReportHandler{
		reportUsecase: reportUsecase,
		logger:        logger.With("component", "report_handler"),
	}
}

// GET /transactions/reports/summary?start_date=&end_date=
func (h *ReportHandler) Summary(c *gin.Context) {
	user := middleware.UserFromContext(c)

	from, to, err := parseDateRange(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	summary, err := h.reportUsecase.Summary(c.Request.Context(), user.ID, from, to)
	if err != nil {
		h.logger.ErrorContext(c.Request.Context(), "report summary", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	c.JSON(http.StatusOK, summary)
}

// GET /transactions/reports/monthly?start_date=&end_date=
func (h *ReportHandler) Monthly(c *gin.Context) {
	user := middleware.UserFromContext(c)

	from, to, err := parseDateRange(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rows, err := h.reportUsecase.Monthly(c.Request.Context(), user.ID, from, to)
	if err != nil {
		h.logger.ErrorContext(c.Request.Context(), "report monthly", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	if rows == nil {
		rows = []domain.MonthlyRow{}
	}
	c.JSON(http.StatusOK, rows)
}

// GET /transactions/reports/by-category?type=&limit=&start_date=
func (h *ReportHandler) ByCategory(c *gin.Context) {
	user := middleware.UserFromContext(c)

	var txType *domain.TransactionType
	if v := c.Query("type"); v != "" {
		if v != string(domain.TransactionIncome) && v != string(domain.TransactionExpense) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "type must be income or expense"})
			return
		}
		t := domain.TransactionType(v)
		txType = &t
	}

	limit := 0
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = n
	}

	var from *time.Time
	if v := c.Query("start_date"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		from = &t
	}

	breakdown, err := h.reportUsecase.ByCategory(c.Request.Context(), user.ID, txType, from, limit)
	if err != nil {
		h.logger.ErrorContext(c.Request.Context(), "category breakdown", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	c.JSON(http.StatusOK, breakdown)
}

func parseDateRange(c *gin.Context) (from, to *time.Time, err error) {
	if v := c.Query("start_date"); v != "" {
		t, parseErr := time.Parse("2006-01-02", v)
		if parseErr != nil {
			return nil, nil, parseErr
		}
		from = &t
	}
	if v := c.Query("end_date"); v != "" {
		t, parseErr := time.Parse("2006-01-02", v)
		if parseErr != nil {
			return nil, nil, parseErr
		}
		to = &t
	}
	return from, to, nil
}
