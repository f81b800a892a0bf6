package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kuu-app/kuu-backend/config"
	"github.com/kuu-app/kuu-backend/internal/health"
	"github.com/kuu-app/kuu-backend/internal/infrastructure/postgres"
	"github.com/kuu-app/kuu-backend/internal/janitor"
	ctxlog "github.com/kuu-app/kuu-backend/internal/log"
	"github.com/kuu-app/kuu-backend/internal/metrics"
	"github.com/kuu-app/kuu-backend/internal/ratelimit"
	"github.com/kuu-app/kuu-backend/internal/token"
	httptransport "github.com/kuu-app/kuu-backend/internal/transport/http"
	"github.com/kuu-app/kuu-backend/internal/transport/http/handler"
	"github.com/kuu-app/kuu-backend/internal/usecase"
	"github.com/lmittmann/tint"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger := newLogger(cfg.Env, cfg.SlogLevel())

	if cfg.Env != "local" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		stop()
		log.Fatalf("db: %v", err)
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, cfg.DatabaseURL); err != nil {
		stop()
		log.Fatalf("migrate: %v", err)
	}

	// Redis is optional; without it the rate limiter uses its local fallback.
	var rdb *redis.Client
	var redisPing health.Pinger
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			stop()
			log.Fatalf("redis: %v", err)
		}
		rdb = redis.NewClient(opts)
		defer rdb.Close()
		redisPing = health.PingFunc(func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		})
	}

	store := postgres.NewStore(pool)
	repos := store.Repos()

	sessions := token.NewIssuer([]byte(cfg.JWTSecret), cfg.SessionTTL)

	identityUsecase := usecase.NewIdentityUsecase(store, repos, sessions, cfg.ChallengeTTL)
	vouchUsecase := usecase.NewVouchUsecase(store, repos)
	inviteUsecase := usecase.NewInviteUsecase(repos, cfg.InviteTTL)

	handlers := httptransport.Handlers{
		Auth:    handler.NewAuthHandler(identityUsecase, logger),
		Users:   handler.NewUserHandler(identityUsecase, logger),
		Vouches: handler.NewVouchHandler(vouchUsecase, logger),
		Invites: handler.NewInviteHandler(inviteUsecase, logger),
	}

	limiter := ratelimit.New(rdb, cfg.RateLimit, cfg.RateLimitWindow, logger)

	metrics.Register()
	checker := health.NewChecker(pool, redisPing, logger, prometheus.DefaultRegisterer)

	jan := janitor.New(repos.Challenges, repos.Invites, cfg.ChallengeRetention, logger)
	if err := jan.Start(); err != nil {
		stop()
		log.Fatalf("janitor: %v", err)
	}

	srv := http.Server{
		Addr:    ":" + cfg.Port,
		Handler: httptransport.NewRouter(logger, handlers, sessions, limiter),
	}

	metricsSrv := metrics.NewServer(":"+cfg.MetricsPort, checker)

	go func() {
		logger.Info("server started", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	go func() {
		logger.Info("metrics server started", "port", cfg.MetricsPort)
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server", "error", err)
		}
	}()

	<-ctx.Done()
	stop()
	logger.Info("shutting down...")

	jan.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", "error", err)
	}
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("metrics server shutdown", "error", err)
	}
}

func newLogger(env string, level slog.Level) *slog.Logger {
	var inner slog.Handler
	if env == "local" {
		inner = tint.NewHandler(os.Stdout, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		})
	} else {
		inner = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: level,
		})
	}
	return slog.New(ctxlog.NewContextHandler(inner))
}
