// Package janitor prunes rows the service no longer needs: unused challenges
// whose expiry has passed the retention window, and invite codes that
// expired without ever being redeemed. Used challenges and redeemed codes
// are kept for audit.
package janitor

import (
	"context"
	"log/slog"
	"time"

	"github.com/kuu-app/kuu-backend/internal/metrics"
	"github.com/kuu-app/kuu-backend/internal/repository"
	"github.com/robfig/cron/v3"
)

type Janitor struct {
	challenges repository.ChallengeRepository
	invites    repository.InviteRepository
	retention  time.Duration
	logger     *slog.Logger
	cron       *cron.Cron
}

func New(challenges repository.ChallengeRepository, invites repository.InviteRepository, retention time.Duration, logger *slog.Logger) *Janitor {
	return &Janitor{
		challenges: challenges,
		invites:    invites,
		retention:  retention,
		logger:     logger.With("component", "janitor"),
		cron:       cron.New(),
	}
}

// Start schedules the hourly prune. It returns immediately.
func (j *Janitor) Start() error {
	if _, err := j.cron.AddFunc("@hourly", j.run); err != nil {
		return err
	}
	j.cron.Start()
	return nil
}

// Stop halts the schedule and waits for an in-flight run to finish.
func (j *Janitor) Stop() {
	<-j.cron.Stop().Done()
}

func (j *Janitor) run() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	cutoff := time.Now().Add(-j.retention)

	pruned, err := j.challenges.DeleteExpiredBefore(ctx, cutoff)
	if err != nil {
		j.logger.Error("prune challenges", "error", err)
	} else if pruned > 0 {
		metrics.JanitorPrunedTotal.WithLabelValues("challenges").Add(float64(pruned))
		j.logger.Info("pruned expired challenges", "count", pruned)
	}

	pruned, err = j.invites.DeleteExpiredUnredeemed(ctx, cutoff)
	if err != nil {
		j.logger.Error("prune invites", "error", err)
	} else if pruned > 0 {
		metrics.JanitorPrunedTotal.WithLabelValues("invites").Add(float64(pruned))
		j.logger.Info("pruned expired invites", "count", pruned)
	}
}
