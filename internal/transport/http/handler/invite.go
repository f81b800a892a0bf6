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

type inviteUsecaser interface {
	Generate(ctx context.Context, inviterID string) (*domain.InviteCode, error)
	List(ctx context.Context, inviterID string) (*usecase.InviteList, error)
	Revoke(ctx context.Context, inviterID, code string) error
	Validate(ctx context.Context, code string) (*domain.InviteCode, error)
}

type InviteHandler struct {
	invites inviteUsecaser
	logger  *slog.Logger
}

func NewInviteHandler(invites inviteUsecaser, logger *slog.Logger) *InviteHandler {
	return &InviteHandler{invites: invites, logger: logger.With("component", "invite_handler")}
}

type inviteResponse struct {
	Code      string    `json:"code"`
	ExpiresAt time.Time `json:"expires_at"`
}

// POST /invites
func (h *InviteHandler) Generate(c *gin.Context) {
	inv, err := h.invites.Generate(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		var (
			trustErr     *domain.TrustError
			allowanceErr *domain.AllowanceError
		)
		switch {
		case errors.As(err, &trustErr):
			c.JSON(http.StatusForbidden, gin.H{
				"error":    errInsufficientTrust,
				"required": trustErr.Required,
				"current":  trustErr.Current,
			})
		case errors.As(err, &allowanceErr):
			c.JSON(http.StatusForbidden, gin.H{
				"error":     errAllowanceExhausted,
				"allowance": allowanceErr.Allowance,
				"issued":    allowanceErr.Issued,
			})
		default:
			h.logger.ErrorContext(c.Request.Context(), "generate invite", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		}
		return
	}

	metrics.InvitesGeneratedTotal.Inc()
	c.JSON(http.StatusCreated, inviteResponse{Code: inv.Code, ExpiresAt: inv.ExpiresAt})
}

type inviteItem struct {
	Code      string     `json:"code"`
	Status    string     `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
	ExpiresAt time.Time  `json:"expires_at"`
	UsedAt    *time.Time `json:"used_at,omitempty"`
	InviteeID *string    `json:"invitee_id,omitempty"`
}

type listInvitesResponse struct {
	Invites   []inviteItem `json:"invites"`
	Allowance int          `json:"allowance"`
	Used      int          `json:"used"`
	Active    int          `json:"active"`
}

// GET /invites
func (h *InviteHandler) List(c *gin.Context) {
	list, err := h.invites.List(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		h.logger.ErrorContext(c.Request.Context(), "list invites", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	now := time.Now()
	items := make([]inviteItem, len(list.Invites))
	for i, inv := range list.Invites {
		items[i] = inviteItem{
			Code:      inv.Code,
			Status:    string(inv.Status(now)),
			CreatedAt: inv.CreatedAt,
			ExpiresAt: inv.ExpiresAt,
			UsedAt:    inv.UsedAt,
			InviteeID: inv.InviteeID,
		}
	}
	c.JSON(http.StatusOK, listInvitesResponse{
		Invites:   items,
		Allowance: list.Allowance,
		Used:      list.Used,
		Active:    list.Active,
	})
}

// DELETE /invites/:code
func (h *InviteHandler) Revoke(c *gin.Context) {
	err := h.invites.Revoke(c.Request.Context(), c.GetString("userID"), c.Param("code"))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInviteNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": errInviteNotFound})
		case errors.Is(err, domain.ErrInviteUsed):
			c.JSON(http.StatusConflict, gin.H{"error": errInviteUsed})
		case errors.Is(err, domain.ErrInviteExpired):
			c.JSON(http.StatusGone, gin.H{"error": errInviteExpired})
		default:
			h.logger.ErrorContext(c.Request.Context(), "revoke invite", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		}
		return
	}

	metrics.InvitesRevokedTotal.Inc()
	c.Status(http.StatusNoContent)
}

type validateInviteResponse struct {
	Valid     bool       `json:"valid"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// GET /invites/:code/validate (public)
// Lets the client check a code before the user generates a keypair.
func (h *InviteHandler) Validate(c *gin.Context) {
	inv, err := h.invites.Validate(c.Request.Context(), c.Param("code"))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInviteNotFound):
			c.JSON(http.StatusNotFound, gin.H{"valid": false, "error": errInviteNotFound})
		case errors.Is(err, domain.ErrInviteUsed):
			c.JSON(http.StatusConflict, gin.H{"valid": false, "error": errInviteUsed})
		case errors.Is(err, domain.ErrInviteExpired):
			c.JSON(http.StatusGone, gin.H{"valid": false, "error": errInviteExpired})
		default:
			h.logger.ErrorContext(c.Request.Context(), "validate invite", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		}
		return
	}

	c.JSON(http.StatusOK, validateInviteResponse{Valid: true, ExpiresAt: &inv.ExpiresAt})
}
