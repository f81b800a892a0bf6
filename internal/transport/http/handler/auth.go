package handler

import (
	"context"
	"crypto/ed25519"
	"encoding/base64"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kuu-app/kuu-backend/internal/domain"
	"github.com/kuu-app/kuu-backend/internal/metrics"
	"github.com/kuu-app/kuu-backend/internal/usecase"
)

// identityUsecaser is the subset of IdentityUsecase the handler needs.
// Defined here (point of use) so tests can inject a fake.
type identityUsecaser interface {
	Register(ctx context.Context, in usecase.RegisterInput) (*usecase.RegisterResult, error)
	Challenge(ctx context.Context, publicKey ed25519.PublicKey) (*domain.User, *domain.Challenge, error)
	Verify(ctx context.Context, userID, challenge string, signature []byte) (string, time.Time, error)
}

type AuthHandler struct {
	identity identityUsecaser
	logger   *slog.Logger
}

func NewAuthHandler(identity identityUsecaser, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		identity: identity,
		logger:   logger.With("component", "auth_handler"),
	}
}

type registerRequest struct {
	PublicKey  string `json:"public_key"  binding:"required"`
	InviteCode string `json:"invite_code"`
}

type registerResponse struct {
	UserID     string    `json:"user_id"`
	Challenge  string    `json:"challenge"`
	ExpiresAt  time.Time `json:"expires_at"`
	TrustScore int       `json:"trust_score"`
	NewUser    bool      `json:"new_user"`
}

// POST /auth/register
// One entry point for first contact and returning keys. A known key logs in
// and any supplied invite code is ignored; a new key must redeem one.
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	key, err := domain.ParsePublicKey(req.PublicKey)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidPublicKey})
		return
	}

	result, err := h.identity.Register(c.Request.Context(), usecase.RegisterInput{
		PublicKey:  key,
		InviteCode: req.InviteCode,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInviteRequired):
			c.JSON(http.StatusBadRequest, gin.H{"error": errInviteRequired})
		case errors.Is(err, domain.ErrInviteNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": errInviteNotFound})
		case errors.Is(err, domain.ErrInviteUsed):
			c.JSON(http.StatusConflict, gin.H{"error": errInviteUsed})
		case errors.Is(err, domain.ErrInviteExpired):
			c.JSON(http.StatusGone, gin.H{"error": errInviteExpired})
		default:
			h.logger.ErrorContext(c.Request.Context(), "register", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		}
		return
	}

	status := http.StatusOK
	if result.NewUser {
		status = http.StatusCreated
		metrics.RegistrationsTotal.Inc()
	}
	metrics.ChallengesIssuedTotal.Inc()
	c.JSON(status, registerResponse{
		UserID:     result.User.ID,
		Challenge:  result.Challenge.Challenge,
		ExpiresAt:  result.Challenge.ExpiresAt,
		TrustScore: result.User.TrustScore,
		NewUser:    result.NewUser,
	})
}

type challengeRequest struct {
	PublicKey string `json:"public_key" binding:"required"`
}

type challengeResponse struct {
	UserID    string    `json:"user_id"`
	Challenge string    `json:"challenge"`
	ExpiresAt time.Time `json:"expires_at"`
}

// POST /auth/challenge
func (h *AuthHandler) Challenge(c *gin.Context) {
	var req challengeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	key, err := domain.ParsePublicKey(req.PublicKey)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidPublicKey})
		return
	}

	user, ch, err := h.identity.Challenge(c.Request.Context(), key)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": errUserNotFound})
			return
		}
		h.logger.ErrorContext(c.Request.Context(), "issue challenge", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	metrics.ChallengesIssuedTotal.Inc()
	c.JSON(http.StatusOK, challengeResponse{
		UserID:    user.ID,
		Challenge: ch.Challenge,
		ExpiresAt: ch.ExpiresAt,
	})
}

type verifyRequest struct {
	UserID    string `json:"user_id"   binding:"required,uuid"`
	Challenge string `json:"challenge" binding:"required"`
	Signature string `json:"signature" binding:"required"`
}

type verifyResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// POST /auth/verify
// Signature failures are reported as exactly "invalid signature" regardless
// of which part mismatched, to avoid oracle behavior.
func (h *AuthHandler) Verify(c *gin.Context) {
	var req verifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	signature, err := base64.StdEncoding.DecodeString(req.Signature)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": errSignatureInvalid})
		return
	}

	bearer, expiresAt, err := h.identity.Verify(c.Request.Context(), req.UserID, req.Challenge, signature)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrChallengeInvalid):
			metrics.VerificationsTotal.WithLabelValues("invalid_challenge").Inc()
			c.JSON(http.StatusUnauthorized, gin.H{"error": errChallengeInvalid})
		case errors.Is(err, domain.ErrSignatureInvalid):
			metrics.VerificationsTotal.WithLabelValues("invalid_signature").Inc()
			c.JSON(http.StatusUnauthorized, gin.H{"error": errSignatureInvalid})
		case errors.Is(err, domain.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": errUserNotFound})
		default:
			h.logger.ErrorContext(c.Request.Context(), "verify challenge", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		}
		return
	}

	metrics.VerificationsTotal.WithLabelValues("ok").Inc()
	c.JSON(http.StatusOK, verifyResponse{Token: bearer, ExpiresAt: expiresAt})
}
