package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kuu-app/kuu-backend/internal/domain"
	"github.com/kuu-app/kuu-backend/internal/metrics"
	"github.com/kuu-app/kuu-backend/internal/usecase"
)

type vouchUsecaser interface {
	Vouch(ctx context.Context, voucherID, voucheeID string) error
	List(ctx context.Context, userID string) (*usecase.VouchList, error)
}

type VouchHandler struct {
	vouches vouchUsecaser
	logger  *slog.Logger
}

func NewVouchHandler(vouches vouchUsecaser, logger *slog.Logger) *VouchHandler {
	return &VouchHandler{vouches: vouches, logger: logger.With("component", "vouch_handler")}
}

type vouchRequest struct {
	UserID string `json:"user_id" binding:"required,uuid"`
}

// POST /vouches
// A duplicate vouch is a no-op and still reports success.
func (h *VouchHandler) Create(c *gin.Context) {
	var req vouchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.vouches.Vouch(c.Request.Context(), c.GetString("userID"), req.UserID)
	if err != nil {
		var trustErr *domain.TrustError
		switch {
		case errors.Is(err, domain.ErrSelfVouch):
			c.JSON(http.StatusBadRequest, gin.H{"error": errSelfVouch})
		case errors.As(err, &trustErr):
			c.JSON(http.StatusForbidden, gin.H{
				"error":    errInsufficientTrust,
				"required": trustErr.Required,
				"current":  trustErr.Current,
			})
		case errors.Is(err, domain.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": errUserNotFound})
		default:
			h.logger.ErrorContext(c.Request.Context(), "create vouch", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		}
		return
	}

	metrics.VouchesTotal.Inc()
	c.Status(http.StatusNoContent)
}

type vouchItem struct {
	VoucherID string    `json:"voucher_id"`
	VoucheeID string    `json:"vouchee_id"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"created_at"`
}

type listVouchesResponse struct {
	Received []vouchItem `json:"received"`
	Given    []vouchItem `json:"given"`
}

// GET /vouches
func (h *VouchHandler) List(c *gin.Context) {
	list, err := h.vouches.List(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		h.logger.ErrorContext(c.Request.Context(), "list vouches", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	c.JSON(http.StatusOK, listVouchesResponse{
		Received: toVouchItems(list.Received),
		Given:    toVouchItems(list.Given),
	})
}

func toVouchItems(vouches []*domain.Vouch) []vouchItem {
	items := make([]vouchItem, len(vouches))
	for i, v := range vouches {
		items[i] = vouchItem{
			VoucherID: v.VoucherID,
			VoucheeID: v.VoucheeID,
			Type:      string(v.Type),
			CreatedAt: v.CreatedAt,
		}
	}
	return items
}
