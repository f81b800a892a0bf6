package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/kuu-app/kuu-backend/internal/domain"
)

type InviteRepository struct {
	db querier
}

func (r *InviteRepository) Create(ctx context.Context, code *domain.InviteCode) (*domain.InviteCode, error) {
	query := `
		INSERT INTO invite_codes (code, inviter_id, expires_at)
		VALUES ($1, $2, $3)
		RETURNING id, code, inviter_id, invitee_id, created_at, expires_at, used_at`

	row := r.db.QueryRow(ctx, query, code.Code, code.InviterID, code.ExpiresAt)
	created, err := scanInvite(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domain.ErrDuplicateInviteCode
		}
		return nil, err
	}
	return created, nil
}

func (r *InviteRepository) FindByCode(ctx context.Context, code string) (*domain.InviteCode, error) {
	query := `
		SELECT id, code, inviter_id, invitee_id, created_at, expires_at, used_at
		FROM invite_codes WHERE code = $1`

	inv, err := scanInvite(r.db.QueryRow(ctx, query, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrInviteNotFound
		}
		return nil, err
	}
	return inv, nil
}

func (r *InviteRepository) ListByInviter(ctx context.Context, inviterID string) ([]*domain.InviteCode, error) {
	query := `
		SELECT id, code, inviter_id, invitee_id, created_at, expires_at, used_at
		FROM invite_codes WHERE inviter_id = $1
		ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, inviterID)
	if err != nil {
		return nil, fmt.Errorf("list invites: %w", err)
	}
	defer rows.Close()

	var invites []*domain.InviteCode
	for rows.Next() {
		inv, err := scanInvite(rows)
		if err != nil {
			return nil, err
		}
		invites = append(invites, inv)
	}
	return invites, rows.Err()
}

func (r *InviteRepository) CountIssued(ctx context.Context, inviterID string) (int, error) {
	var n int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM invite_codes WHERE inviter_id = $1`, inviterID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count invites: %w", err)
	}
	return n, nil
}

func (r *InviteRepository) MarkUsed(ctx context.Context, code, inviteeID string) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE invite_codes
		SET    used_at = NOW(), invitee_id = $2
		WHERE  code = $1 AND used_at IS NULL AND expires_at > NOW()`,
		code, inviteeID)
	if err != nil {
		return fmt.Errorf("mark invite used: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrInviteUsed
	}
	return nil
}

func (r *InviteRepository) DeleteUnused(ctx context.Context, code, inviterID string) error {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM invite_codes WHERE code = $1 AND inviter_id = $2 AND used_at IS NULL`,
		code, inviterID)
	if err != nil {
		return fmt.Errorf("delete invite: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrInviteNotFound
	}
	return nil
}

func (r *InviteRepository) DeleteExpiredUnredeemed(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM invite_codes WHERE used_at IS NULL AND expires_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete expired invites: %w", err)
	}
	return tag.RowsAffected(), nil
}

func scanInvite(row pgx.Row) (*domain.InviteCode, error) {
	var inv domain.InviteCode
	err := row.Scan(&inv.ID, &inv.Code, &inv.InviterID, &inv.InviteeID, &inv.CreatedAt, &inv.ExpiresAt, &inv.UsedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan invite: %w", err)
	}
	return &inv, nil
}
