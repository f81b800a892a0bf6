package usecase

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/kuu-app/kuu-backend/internal/domain"
	"github.com/kuu-app/kuu-backend/internal/repository"
	"github.com/kuu-app/kuu-backend/internal/token"
)

const (
	defaultChallengeTTL = 5 * time.Minute
	challengeBytes      = 32
)

// IdentityUsecase covers registration, login challenges, signature
// verification and account deletion.
type IdentityUsecase struct {
	store        repository.Atomic
	repos        repository.Repos
	sessions     *token.Issuer
	challengeTTL time.Duration
}

func NewIdentityUsecase(store repository.Atomic, repos repository.Repos, sessions *token.Issuer, challengeTTL time.Duration) *IdentityUsecase {
	if challengeTTL <= 0 {
		challengeTTL = defaultChallengeTTL
	}
	return &IdentityUsecase{
		store:        store,
		repos:        repos,
		sessions:     sessions,
		challengeTTL: challengeTTL,
	}
}

type RegisterInput struct {
	PublicKey  ed25519.PublicKey
	InviteCode string
}

type RegisterResult struct {
	User      *domain.User
	Challenge *domain.Challenge
	NewUser   bool
}

// Register is the single entry point for both first contact and returning
// users. A known public key is a login: the invite code is ignored entirely,
// neither validated nor consumed. A new key must present a redeemable invite
// code; redemption then creates the user, consumes the code, and mints the
// automatic invite vouch as one atomic unit.
func (u *IdentityUsecase) Register(ctx context.Context, in RegisterInput) (*RegisterResult, error) {
	existing, err := u.repos.Users.FindByPublicKey(ctx, in.PublicKey)
	if err == nil {
		ch, err := u.mintChallenge(ctx, u.repos.Challenges, existing.ID)
		if err != nil {
			return nil, err
		}
		return &RegisterResult{User: existing, Challenge: ch, NewUser: false}, nil
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("find user by public key: %w", err)
	}

	code := NormalizeCode(in.InviteCode)
	if code == "" {
		return nil, domain.ErrInviteRequired
	}

	inv, err := u.repos.Invites.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	switch inv.Status(time.Now()) {
	case domain.InviteUsed:
		return nil, domain.ErrInviteUsed
	case domain.InviteExpired:
		return nil, domain.ErrInviteExpired
	}

	var created *domain.User
	err = u.store.Transact(ctx, func(r repository.Repos) error {
		var txErr error
		created, txErr = r.Users.Create(ctx, &domain.User{
			PublicKey:      in.PublicKey,
			TrustScore:     domain.SeedTrust,
			InvitedBy:      &inv.InviterID,
			InviteCodeUsed: &inv.Code,
		})
		if txErr != nil {
			return fmt.Errorf("create user: %w", txErr)
		}

		// Conditional on the code still being unused, so a concurrent
		// redemption of the same code rolls this branch back.
		if txErr = r.Invites.MarkUsed(ctx, inv.Code, created.ID); txErr != nil {
			return txErr
		}

		_, txErr = r.Vouches.Create(ctx, &domain.Vouch{
			VoucherID: inv.InviterID,
			VoucheeID: created.ID,
			Type:      domain.VouchTypeInvite,
		})
		if txErr != nil {
			return fmt.Errorf("create invite vouch: %w", txErr)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	ch, err := u.mintChallenge(ctx, u.repos.Challenges, created.ID)
	if err != nil {
		return nil, err
	}
	return &RegisterResult{User: created, Challenge: ch, NewUser: true}, nil
}

// Challenge mints a fresh login challenge for an already-registered key.
func (u *IdentityUsecase) Challenge(ctx context.Context, publicKey ed25519.PublicKey) (*domain.User, *domain.Challenge, error) {
	user, err := u.repos.Users.FindByPublicKey(ctx, publicKey)
	if err != nil {
		return nil, nil, err
	}
	ch, err := u.mintChallenge(ctx, u.repos.Challenges, user.ID)
	if err != nil {
		return nil, nil, err
	}
	return user, ch, nil
}

// Verify checks the signature over a previously issued challenge and, on
// success, burns the challenge and issues a session token carrying the
// user's current trust score.
func (u *IdentityUsecase) Verify(ctx context.Context, userID, challenge string, signature []byte) (string, time.Time, error) {
	ch, err := u.repos.Challenges.FindUsable(ctx, userID, challenge)
	if err != nil {
		return "", time.Time{}, err
	}

	user, err := u.repos.Users.FindByID(ctx, userID)
	if err != nil {
		return "", time.Time{}, err
	}

	if !ed25519.Verify(user.PublicKey, []byte(ch.Challenge), signature) {
		return "", time.Time{}, domain.ErrSignatureInvalid
	}

	// MarkUsed is conditioned on the row still being unused; a concurrent
	// verification of the same challenge loses here.
	if err := u.repos.Challenges.MarkUsed(ctx, ch.ID); err != nil {
		return "", time.Time{}, err
	}

	signed, expiresAt, err := u.sessions.Issue(user.ID, user.TrustScore, time.Now())
	if err != nil {
		return "", time.Time{}, fmt.Errorf("issue session: %w", err)
	}
	return signed, expiresAt, nil
}

type Profile struct {
	User       *domain.User
	VouchCount int
}

func (u *IdentityUsecase) Me(ctx context.Context, userID string) (*Profile, error) {
	user, err := u.repos.Users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	count, err := u.repos.Vouches.CountForVouchee(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &Profile{User: user, VouchCount: count}, nil
}

// DeleteAccount removes the user and everything they own. Outgoing vouch
// edges disappear with the user, so every vouchee's score is recomputed from
// the remaining ledger inside the same transaction.
func (u *IdentityUsecase) DeleteAccount(ctx context.Context, userID string) error {
	return u.store.Transact(ctx, func(r repository.Repos) error {
		given, err := r.Vouches.ListGiven(ctx, userID)
		if err != nil {
			return err
		}

		if err := r.Users.Delete(ctx, userID); err != nil {
			return err
		}

		for _, v := range given {
			count, err := r.Vouches.CountForVouchee(ctx, v.VoucheeID)
			if err != nil {
				return err
			}
			if err := r.Users.SetTrustScore(ctx, v.VoucheeID, domain.TrustScore(count)); err != nil {
				return err
			}
		}
		return nil
	})
}

func (u *IdentityUsecase) mintChallenge(ctx context.Context, challenges repository.ChallengeRepository, userID string) (*domain.Challenge, error) {
	raw := make([]byte, challengeBytes)
	if _, err := io.ReadFull(rand.Reader, raw); err != nil {
		return nil, fmt.Errorf("generate challenge: %w", err)
	}

	ch, err := challenges.Create(ctx, &domain.Challenge{
		UserID:    userID,
		Challenge: hex.EncodeToString(raw),
		ExpiresAt: time.Now().Add(u.challengeTTL),
	})
	if err != nil {
		return nil, fmt.Errorf("store challenge: %w", err)
	}
	return ch, nil
}
