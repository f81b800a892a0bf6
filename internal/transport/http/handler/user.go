package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kuu-app/kuu-backend/internal/domain"
	"github.com/kuu-app/kuu-backend/internal/usecase"
)

type accountUsecaser interface {
	Me(ctx context.Context, userID string) (*usecase.Profile, error)
	DeleteAccount(ctx context.Context, userID string) error
}

type UserHandler struct {
	account accountUsecaser
	logger  *slog.Logger
}

func NewUserHandler(account accountUsecaser, logger *slog.Logger) *UserHandler {
	return &UserHandler{account: account, logger: logger.With("component", "user_handler")}
}

type meResponse struct {
	UserID     string    `json:"user_id"`
	TrustScore int       `json:"trust_score"`
	IsVerified bool      `json:"is_verified"`
	VouchCount int       `json:"vouch_count"`
	CreatedAt  time.Time `json:"created_at"`
}

// GET /users/me
func (h *UserHandler) Me(c *gin.Context) {
	profile, err := h.account.Me(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": errUserNotFound})
			return
		}
		h.logger.ErrorContext(c.Request.Context(), "get current user", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	c.JSON(http.StatusOK, meResponse{
		UserID:     profile.User.ID,
		TrustScore: profile.User.TrustScore,
		IsVerified: profile.User.IsVerified,
		VouchCount: profile.VouchCount,
		CreatedAt:  profile.User.CreatedAt,
	})
}

// DELETE /users/me
func (h *UserHandler) Delete(c *gin.Context) {
	if err := h.account.DeleteAccount(c.Request.Context(), c.GetString("userID")); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": errUserNotFound})
			return
		}
		h.logger.ErrorContext(c.Request.Context(), "delete account", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	c.Status(http.StatusNoContent)
}
