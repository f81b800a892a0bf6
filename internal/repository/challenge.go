package repository

import (
	"context"
	"time"

	"github.com/kuu-app/kuu-backend/internal/domain"
)

type ChallengeRepository interface {
	Create(ctx context.Context, ch *domain.Challenge) (*domain.Challenge, error)

	// FindUsable returns the challenge matching (userID, challenge) that is
	// unused and unexpired, or domain.ErrChallengeInvalid.
	FindUsable(ctx context.Context, userID, challenge string) (*domain.Challenge, error)

	// MarkUsed sets used_at on the challenge only if it is still unused.
	// Returns domain.ErrChallengeInvalid if another request claimed it first.
	MarkUsed(ctx context.Context, id string) error

	// DeleteExpiredBefore prunes unused challenges whose expiry predates the
	// cutoff. Used rows are retained for audit.
	DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
