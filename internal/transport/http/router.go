package httptransport

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/kuu-app/kuu-backend/internal/domain"
	"github.com/kuu-app/kuu-backend/internal/ratelimit"
	"github.com/kuu-app/kuu-backend/internal/token"
	"github.com/kuu-app/kuu-backend/internal/transport/http/handler"
	"github.com/kuu-app/kuu-backend/internal/transport/http/middleware"

	sloggin "github.com/samber/slog-gin"
)

type Handlers struct {
	Auth    *handler.AuthHandler
	Users   *handler.UserHandler
	Vouches *handler.VouchHandler
	Invites *handler.InviteHandler
}

func NewRouter(logger *slog.Logger, h Handlers, sessions *token.Issuer, limiter *ratelimit.Limiter) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Security())
	r.Use(sloggin.New(logger))
	r.Use(middleware.Metrics())

	authMW := middleware.Auth(sessions)
	vouchTrust := middleware.RequireTrust(domain.MinTrustToVouch)
	rateLimited := middleware.RateLimit(limiter)

	// Public, rate limited: everything reachable without a session token.
	auth := r.Group("/auth", rateLimited)
	auth.POST("/register", h.Auth.Register)
	auth.POST("/challenge", h.Auth.Challenge)
	auth.POST("/verify", h.Auth.Verify)

	r.GET("/invites/:code/validate", rateLimited, h.Invites.Validate)

	// Session required
	users := r.Group("/users", authMW)
	users.GET("/me", h.Users.Me)
	users.DELETE("/me", h.Users.Delete)

	vouches := r.Group("/vouches", authMW)
	vouches.GET("", h.Vouches.List)
	vouches.POST("", vouchTrust, h.Vouches.Create)

	invites := r.Group("/invites", authMW)
	invites.GET("", h.Invites.List)
	invites.POST("", vouchTrust, h.Invites.Generate)
	invites.DELETE("/:code", h.Invites.Revoke)

	return r
}
