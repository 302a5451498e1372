package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/medetbek/finance-tracker/internal/domain"
	"github.com/medetbek/finance-tracker/internal/transport/http/middleware"
	"github.com/medetbek/finance-tracker/internal/usecase"
)

type userUsecaser interface {
	UpdateProfile(ctx context.Context, userID int64, input usecase.UpdateProfileInput) (*domain.User, error)
}

type UserHandler struct {
	userUsecase userUsecaser
	logger      *slog.Logger
}

func NewUserHandler(userUsecase userUsecaser, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		userUsecase: userUsecase,
		logger:      logger.With("component", "user_handler"),
	}
}

type updateProfileRequest struct {
	Email    *string `json:"email"    binding:"omitempty,email"`
	Username *string `json:"username" binding:"omitempty,min=3,max=50"`
}

// PUT /users/me
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	user := middleware.UserFromContext(c)

	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := h.userUsecase.UpdateProfile(c.Request.Context(), user.ID, usecase.UpdateProfileInput{
		Email:    req.Email,
		Username: req.Username,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrEmailTaken):
			c.JSON(http.StatusBadRequest, gin.H{"error": errEmailInUse})
		case errors.Is(err, domain.ErrUsernameTaken):
			c.JSON(http.StatusBadRequest, gin.H{"error": errUsernameTaken})
		default:
			h.logger.ErrorContext(c.Request.Context(), "update profile", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		}
		return
	}

	c.JSON(http.StatusOK, userView{ID: updated.ID, Email: updated.Email, Username: updated.Username})
}
