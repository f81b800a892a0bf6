package repository

import (
	"context"
	"time"

	"github.com/kuu-app/kuu-backend/internal/domain"
)

type InviteRepository interface {
	Create(ctx context.Context, code *domain.InviteCode) (*domain.InviteCode, error)
	FindByCode(ctx context.Context, code string) (*domain.InviteCode, error)
	ListByInviter(ctx context.Context, inviterID string) ([]*domain.InviteCode, error)

	// CountIssued is the lifetime number of codes the inviter holds, active
	// and used alike. Revoked codes are deleted and free their slot.
	CountIssued(ctx context.Context, inviterID string) (int, error)

	// MarkUsed claims the code for the invitee only if it is still unused and
	// unexpired; returns domain.ErrInviteUsed when a concurrent redemption
	// won.
	MarkUsed(ctx context.Context, code, inviteeID string) error

	// DeleteUnused revokes the inviter's own unused code. Returns
	// domain.ErrInviteNotFound when no such row matches.
	DeleteUnused(ctx context.Context, code, inviterID string) error

	// DeleteExpiredUnredeemed prunes codes that expired before the cutoff and
	// were never redeemed.
	DeleteExpiredUnredeemed(ctx context.Context, cutoff time.Time) (int64, error)
}
