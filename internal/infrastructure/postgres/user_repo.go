package postgres

import (
	"context"
	"crypto/ed25519"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/kuu-app/kuu-backend/internal/domain"
)

type UserRepository struct {
	db querier
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	query := `
		INSERT INTO users (public_key, trust_score, invited_by, invite_code_used)
		VALUES ($1, $2, $3, $4)
		RETURNING id, public_key, trust_score, is_verified, invited_by, invite_code_used, created_at`

	row := r.db.QueryRow(ctx, query,
		[]byte(user.PublicKey),
		user.TrustScore,
		user.InvitedBy,
		user.InviteCodeUsed,
	)
	return scanUser(row)
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	query := `
		SELECT id, public_key, trust_score, is_verified, invited_by, invite_code_used, created_at
		FROM users WHERE id = $1`

	return scanUser(r.db.QueryRow(ctx, query, id))
}

func (r *UserRepository) FindByPublicKey(ctx context.Context, key ed25519.PublicKey) (*domain.User, error) {
	query := `
		SELECT id, public_key, trust_score, is_verified, invited_by, invite_code_used, created_at
		FROM users WHERE public_key = $1`

	return scanUser(r.db.QueryRow(ctx, query, []byte(key)))
}

func (r *UserRepository) SetTrustScore(ctx context.Context, id string, score int) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE users SET trust_score = $2 WHERE id = $1`, id, score)
	if err != nil {
		return fmt.Errorf("set trust score: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	// Challenges, vouch edges and issued invite codes cascade via FKs.
	tag, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var (
		u   domain.User
		key []byte
	)
	err := row.Scan(&u.ID, &key, &u.TrustScore, &u.IsVerified, &u.InvitedBy, &u.InviteCodeUsed, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	u.PublicKey = ed25519.PublicKey(key)
	return &u, nil
}
