package repository

import (
	"context"

	"github.com/kuu-app/kuu-backend/internal/domain"
)

type VouchRepository interface {
	// Create inserts a vouch edge. A duplicate (voucher, vouchee) pair is not
	// an error; the store's uniqueness constraint collapses it and Create
	// reports inserted=false.
	Create(ctx context.Context, v *domain.Vouch) (inserted bool, err error)

	CountForVouchee(ctx context.Context, voucheeID string) (int, error)
	ListReceived(ctx context.Context, userID string) ([]*domain.Vouch, error)
	ListGiven(ctx context.Context, userID string) ([]*domain.Vouch, error)
}
