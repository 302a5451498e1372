package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/medetbek/finance-tracker/internal/domain"
	"github.com/medetbek/finance-tracker/internal/transport/http/middleware"
)

type categoryUsecaser interface {
	Create(ctx context.Context, userID int64, name string, ctype domain.CategoryType) (*domain.Category, error)
	List(ctx context.Context, userID int64) ([]*domain.Category, error)
	Update(ctx context.Context, id, userID int64, name string) (*domain.Category, error)
	Delete(ctx context.Context, id, userID int64) error
}

type CategoryHandler struct {
	categoryUsecase categoryUsecaser
	logger          *slog.Logger
}

func NewCategoryHandler(categoryUsecase categoryUsecaser, logger *slog.Logger) *CategoryHandler {
	return &CategoryHandler{
		categoryUsecase: categoryUsecase,
		logger:          logger.With("component", "category_handler"),
	}
}

type categoryView struct {
	ID   int64               `json:"id"`
	Name string              `json:"name"`
	Type domain.CategoryType `json:"type"`
}

type createCategoryRequest struct {
	Name string `json:"name" binding:"required,min=1,max=100"`
	Type string `json:"type" binding:"required,oneof=income expense"`
}

// POST /categories
func (h *CategoryHandler) Create(c *gin.Context) {
	user := middleware.UserFromContext(c)

	var req createCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	category, err := h.categoryUsecase.Create(c.Request.Context(), user.ID, req.Name, domain.CategoryType(req.Type))
	if err != nil {
		if errors.Is(err, domain.ErrCategoryExists) {
			c.JSON(http.StatusBadRequest, gin.H{"error": errCategoryExists})
			return
		}
		h.logger.ErrorContext(c.Request.Context(), "create category", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	c.JSON(http.StatusCreated, categoryView{ID: category.ID, Name: category.Name, Type: category.Type})
}

// GET /categories
func (h *CategoryHandler) List(c *gin.Context) {
	user := middleware.UserFromContext(c)

	categories, err := h.categoryUsecase.List(c.Request.Context(), user.ID)
	if err != nil {
		h.logger.ErrorContext(c.Request.Context(), "list categories", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	views := make([]categoryView, 0, len(categories))
	for _, cat := range categories {
		views = append(views, categoryView{ID: cat.ID, Name: cat.Name, Type: cat.Type})
	}
	c.JSON(http.StatusOK, views)
}

type updateCategoryRequest struct {
	Name string `json:"name" binding:"required,min=1,max=100"`
}

// PUT /categories/:id
func (h *CategoryHandler) Update(c *gin.Context) {
	user := middleware.UserFromContext(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": errCategoryNotFound})
		return
	}

	var req updateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	category, err := h.categoryUsecase.Update(c.Request.Context(), id, user.ID, req.Name)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrCategoryNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": errCategoryNotFound})
		case errors.Is(err, domain.ErrCategoryExists):
			c.JSON(http.StatusBadRequest, gin.H{"error": errCategoryExists})
		default:
			h.logger.ErrorContext(c.Request.Context(), "update category", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		}
		return
	}

	c.JSON(http.StatusOK, categoryView{ID: category.ID, Name: category.Name, Type: category.Type})
}

// DELETE /categories/:id
func (h *CategoryHandler) Delete(c *gin.Context) {
	user := middleware.UserFromContext(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": errCategoryNotFound})
		return
	}

	if err := h.categoryUsecase.Delete(c.Request.Context(), id, user.ID); err != nil {
		if errors.Is(err, domain.ErrCategoryNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": errCategoryNotFound})
			return
		}
		h.logger.ErrorContext(c.Request.Context(), "delete category", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	c.Status(http.StatusNoContent)
}
