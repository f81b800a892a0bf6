package usecase_test

import (
	"context"
	"crypto/ed25519"
	"time"

	"github.com/kuu-app/kuu-backend/internal/domain"
	"github.com/kuu-app/kuu-backend/internal/repository"
)

// ---- fakes ----

type fakeUserRepo struct {
	create          func(ctx context.Context, user *domain.User) (*domain.User, error)
	findByID        func(ctx context.Context, id string) (*domain.User, error)
	findByPublicKey func(ctx context.Context, key ed25519.PublicKey) (*domain.User, error)
	setTrustScore   func(ctx context.Context, id string, score int) error
	remove          func(ctx context.Context, id string) error
}

func (r *fakeUserRepo) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	return r.create(ctx, user)
}

func (r *fakeUserRepo) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return r.findByID(ctx, id)
}

func (r *fakeUserRepo) FindByPublicKey(ctx context.Context, key ed25519.PublicKey) (*domain.User, error) {
	return r.findByPublicKey(ctx, key)
}

func (r *fakeUserRepo) SetTrustScore(ctx context.Context, id string, score int) error {
	return r.setTrustScore(ctx, id, score)
}

func (r *fakeUserRepo) Delete(ctx context.Context, id string) error {
	return r.remove(ctx, id)
}

type fakeChallengeRepo struct {
	create              func(ctx context.Context, ch *domain.Challenge) (*domain.Challenge, error)
	findUsable          func(ctx context.Context, userID, challenge string) (*domain.Challenge, error)
	markUsed            func(ctx context.Context, id string) error
	deleteExpiredBefore func(ctx context.Context, cutoff time.Time) (int64, error)
}

func (r *fakeChallengeRepo) Create(ctx context.Context, ch *domain.Challenge) (*domain.Challenge, error) {
	return r.create(ctx, ch)
}

func (r *fakeChallengeRepo) FindUsable(ctx context.Context, userID, challenge string) (*domain.Challenge, error) {
	return r.findUsable(ctx, userID, challenge)
}

func (r *fakeChallengeRepo) MarkUsed(ctx context.Context, id string) error {
	return r.markUsed(ctx, id)
}

func (r *fakeChallengeRepo) DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	return r.deleteExpiredBefore(ctx, cutoff)
}

type fakeVouchRepo struct {
	create          func(ctx context.Context, v *domain.Vouch) (bool, error)
	countForVouchee func(ctx context.Context, voucheeID string) (int, error)
	listReceived    func(ctx context.Context, userID string) ([]*domain.Vouch, error)
	listGiven       func(ctx context.Context, userID string) ([]*domain.Vouch, error)
}

func (r *fakeVouchRepo) Create(ctx context.Context, v *domain.Vouch) (bool, error) {
	return r.create(ctx, v)
}

func (r *fakeVouchRepo) CountForVouchee(ctx context.Context, voucheeID string) (int, error) {
	return r.countForVouchee(ctx, voucheeID)
}

func (r *fakeVouchRepo) ListReceived(ctx context.Context, userID string) ([]*domain.Vouch, error) {
	return r.listReceived(ctx, userID)
}

func (r *fakeVouchRepo) ListGiven(ctx context.Context, userID string) ([]*domain.Vouch, error) {
	return r.listGiven(ctx, userID)
}

type fakeInviteRepo struct {
	create                  func(ctx context.Context, code *domain.InviteCode) (*domain.InviteCode, error)
	findByCode              func(ctx context.Context, code string) (*domain.InviteCode, error)
	listByInviter           func(ctx context.Context, inviterID string) ([]*domain.InviteCode, error)
	countIssued             func(ctx context.Context, inviterID string) (int, error)
	markUsed                func(ctx context.Context, code, inviteeID string) error
	deleteUnused            func(ctx context.Context, code, inviterID string) error
	deleteExpiredUnredeemed func(ctx context.Context, cutoff time.Time) (int64, error)
}

func (r *fakeInviteRepo) Create(ctx context.Context, code *domain.InviteCode) (*domain.InviteCode, error) {
	return r.create(ctx, code)
}

func (r *fakeInviteRepo) FindByCode(ctx context.Context, code string) (*domain.InviteCode, error) {
	return r.findByCode(ctx, code)
}

func (r *fakeInviteRepo) ListByInviter(ctx context.Context, inviterID string) ([]*domain.InviteCode, error) {
	return r.listByInviter(ctx, inviterID)
}

func (r *fakeInviteRepo) CountIssued(ctx context.Context, inviterID string) (int, error) {
	return r.countIssued(ctx, inviterID)
}

func (r *fakeInviteRepo) MarkUsed(ctx context.Context, code, inviteeID string) error {
	return r.markUsed(ctx, code, inviteeID)
}

func (r *fakeInviteRepo) DeleteUnused(ctx context.Context, code, inviterID string) error {
	return r.deleteUnused(ctx, code, inviterID)
}

func (r *fakeInviteRepo) DeleteExpiredUnredeemed(ctx context.Context, cutoff time.Time) (int64, error) {
	return r.deleteExpiredUnredeemed(ctx, cutoff)
}

// fakeStore runs the transactional closure against the same repos the
// usecase already holds, so tests observe writes made "inside" the
// transaction directly.
type fakeStore struct {
	repos repository.Repos
}

func (s *fakeStore) Transact(_ context.Context, fn func(r repository.Repos) error) error {
	return fn(s.repos)
}

func newRepos(users *fakeUserRepo, challenges *fakeChallengeRepo, vouches *fakeVouchRepo, invites *fakeInviteRepo) repository.Repos {
	if users == nil {
		users = &fakeUserRepo{}
	}
	if challenges == nil {
		challenges = &fakeChallengeRepo{}
	}
	if vouches == nil {
		vouches = &fakeVouchRepo{}
	}
	if invites == nil {
		invites = &fakeInviteRepo{}
	}
	return repository.Repos{
		Users:      users,
		Challenges: challenges,
		Vouches:    vouches,
		Invites:    invites,
	}
}
