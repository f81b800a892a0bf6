package usecase

import (
	"context"
	"fmt"

	"github.com/kuu-app/kuu-backend/internal/domain"
	"github.com/kuu-app/kuu-backend/internal/repository"
)

// VouchUsecase handles explicit vouching and the trust recomputation that
// follows it.
type VouchUsecase struct {
	store repository.Atomic
	repos repository.Repos
}

func NewVouchUsecase(store repository.Atomic, repos repository.Repos) *VouchUsecase {
	return &VouchUsecase{store: store, repos: repos}
}

// Vouch records a manual vouch from voucher to vouchee. The voucher's trust
// is re-read live rather than trusted from the session snapshot, so a stale
// token can never authorize a vouch the ledger no longer supports. A
// duplicate vouch is a no-op.
func (u *VouchUsecase) Vouch(ctx context.Context, voucherID, voucheeID string) error {
	if voucherID == voucheeID {
		return domain.ErrSelfVouch
	}

	voucher, err := u.repos.Users.FindByID(ctx, voucherID)
	if err != nil {
		return fmt.Errorf("find voucher: %w", err)
	}
	if voucher.TrustScore < domain.MinTrustToVouch {
		return &domain.TrustError{Required: domain.MinTrustToVouch, Current: voucher.TrustScore}
	}

	if _, err := u.repos.Users.FindByID(ctx, voucheeID); err != nil {
		return err
	}

	return u.store.Transact(ctx, func(r repository.Repos) error {
		inserted, err := r.Vouches.Create(ctx, &domain.Vouch{
			VoucherID: voucherID,
			VoucheeID: voucheeID,
			Type:      domain.VouchTypeManual,
		})
		if err != nil {
			return err
		}
		if !inserted {
			return nil
		}

		// Recompute from the full ledger, not from a delta, so concurrent
		// vouches for the same vouchee converge on the same score.
		count, err := r.Vouches.CountForVouchee(ctx, voucheeID)
		if err != nil {
			return err
		}
		return r.Users.SetTrustScore(ctx, voucheeID, domain.TrustScore(count))
	})
}

type VouchList struct {
	Received []*domain.Vouch
	Given    []*domain.Vouch
}

func (u *VouchUsecase) List(ctx context.Context, userID string) (*VouchList, error) {
	received, err := u.repos.Vouches.ListReceived(ctx, userID)
	if err != nil {
		return nil, err
	}
	given, err := u.repos.Vouches.ListGiven(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &VouchList{Received: received, Given: given}, nil
}
