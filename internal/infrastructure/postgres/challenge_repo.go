package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/kuu-app/kuu-backend/internal/domain"
)

type ChallengeRepository struct {
	db querier
}

func (r *ChallengeRepository) Create(ctx context.Context, ch *domain.Challenge) (*domain.Challenge, error) {
	query := `
		INSERT INTO challenges (user_id, challenge, expires_at)
		VALUES ($1, $2, $3)
		RETURNING id, user_id, challenge, expires_at, used_at, created_at`

	row := r.db.QueryRow(ctx, query, ch.UserID, ch.Challenge, ch.ExpiresAt)
	return scanChallenge(row)
}

func (r *ChallengeRepository) FindUsable(ctx context.Context, userID, challenge string) (*domain.Challenge, error) {
	query := `
		SELECT id, user_id, challenge, expires_at, used_at, created_at
		FROM challenges
		WHERE user_id = $1 AND challenge = $2 AND used_at IS NULL AND expires_at > NOW()`

	ch, err := scanChallenge(r.db.QueryRow(ctx, query, userID, challenge))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrChallengeInvalid
		}
		return nil, err
	}
	return ch, nil
}

func (r *ChallengeRepository) MarkUsed(ctx context.Context, id string) error {
	// Conditioned on used_at still being NULL so two concurrent verification
	// attempts cannot both claim the same challenge.
	tag, err := r.db.Exec(ctx,
		`UPDATE challenges SET used_at = NOW() WHERE id = $1 AND used_at IS NULL`, id)
	if err != nil {
		return fmt.Errorf("mark challenge used: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrChallengeInvalid
	}
	return nil
}

func (r *ChallengeRepository) DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM challenges WHERE used_at IS NULL AND expires_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete expired challenges: %w", err)
	}
	return tag.RowsAffected(), nil
}

func scanChallenge(row pgx.Row) (*domain.Challenge, error) {
	var ch domain.Challenge
	err := row.Scan(&ch.ID, &ch.UserID, &ch.Challenge, &ch.ExpiresAt, &ch.UsedAt, &ch.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan challenge: %w", err)
	}
	return &ch, nil
}
