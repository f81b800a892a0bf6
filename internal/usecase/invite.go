package usecase

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/kuu-app/kuu-backend/internal/domain"
	"github.com/kuu-app/kuu-backend/internal/repository"
)

const (
	defaultInviteTTL = 7 * 24 * time.Hour

	// Collisions on a 32^6 space are rare; a handful of retries is plenty.
	codeAttempts = 5
)

// InviteUsecase handles the invite-code economy: generation under the trust
// allowance, listing, revocation, and public validation.
type InviteUsecase struct {
	repos     repository.Repos
	inviteTTL time.Duration
}

func NewInviteUsecase(repos repository.Repos, inviteTTL time.Duration) *InviteUsecase {
	if inviteTTL <= 0 {
		inviteTTL = defaultInviteTTL
	}
	return &InviteUsecase{repos: repos, inviteTTL: inviteTTL}
}

// Generate mints a new code for the inviter if their lifetime issued count is
// below the allowance their live trust score grants.
func (u *InviteUsecase) Generate(ctx context.Context, inviterID string) (*domain.InviteCode, error) {
	inviter, err := u.repos.Users.FindByID(ctx, inviterID)
	if err != nil {
		return nil, err
	}

	allowance := domain.InviteAllowance(inviter.TrustScore)
	if allowance == 0 {
		return nil, &domain.TrustError{Required: domain.MinTrustToVouch, Current: inviter.TrustScore}
	}

	issued, err := u.repos.Invites.CountIssued(ctx, inviterID)
	if err != nil {
		return nil, err
	}
	if issued >= allowance {
		return nil, &domain.AllowanceError{Allowance: allowance, Issued: issued}
	}

	for attempt := 0; attempt < codeAttempts; attempt++ {
		code, err := generateCode()
		if err != nil {
			return nil, err
		}

		created, err := u.repos.Invites.Create(ctx, &domain.InviteCode{
			Code:      code,
			InviterID: inviterID,
			ExpiresAt: time.Now().Add(u.inviteTTL),
		})
		if errors.Is(err, domain.ErrDuplicateInviteCode) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return created, nil
	}
	return nil, fmt.Errorf("generate invite: %w", domain.ErrDuplicateInviteCode)
}

type InviteList struct {
	Invites   []*domain.InviteCode
	Allowance int
	Used      int
	Active    int
}

func (u *InviteUsecase) List(ctx context.Context, inviterID string) (*InviteList, error) {
	inviter, err := u.repos.Users.FindByID(ctx, inviterID)
	if err != nil {
		return nil, err
	}
	invites, err := u.repos.Invites.ListByInviter(ctx, inviterID)
	if err != nil {
		return nil, err
	}

	list := &InviteList{
		Invites:   invites,
		Allowance: domain.InviteAllowance(inviter.TrustScore),
	}
	now := time.Now()
	for _, inv := range invites {
		switch inv.Status(now) {
		case domain.InviteUsed:
			list.Used++
		case domain.InviteActive:
			list.Active++
		}
	}
	return list, nil
}

// Revoke deletes the caller's own code while it is still active, freeing one
// allowance slot. Codes owned by others are reported as not found rather
// than forbidden.
func (u *InviteUsecase) Revoke(ctx context.Context, inviterID, code string) error {
	code = NormalizeCode(code)

	inv, err := u.repos.Invites.FindByCode(ctx, code)
	if err != nil {
		return err
	}
	if inv.InviterID != inviterID {
		return domain.ErrInviteNotFound
	}
	switch inv.Status(time.Now()) {
	case domain.InviteUsed:
		return domain.ErrInviteUsed
	case domain.InviteExpired:
		return domain.ErrInviteExpired
	}

	return u.repos.Invites.DeleteUnused(ctx, code, inviterID)
}

// Validate is the public pre-signup check. It returns the code when it is
// redeemable, or the same classified errors redemption would produce.
func (u *InviteUsecase) Validate(ctx context.Context, code string) (*domain.InviteCode, error) {
	inv, err := u.repos.Invites.FindByCode(ctx, NormalizeCode(code))
	if err != nil {
		return nil, err
	}
	switch inv.Status(time.Now()) {
	case domain.InviteUsed:
		return nil, domain.ErrInviteUsed
	case domain.InviteExpired:
		return nil, domain.ErrInviteExpired
	}
	return inv, nil
}

// NormalizeCode uppercases and trims a user-supplied invite code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func generateCode() (string, error) {
	raw := make([]byte, domain.InviteCodeSuffix)
	if _, err := io.ReadFull(rand.Reader, raw); err != nil {
		return "", fmt.Errorf("generate invite code: %w", err)
	}

	// The alphabet has exactly 32 characters, so the modulo is unbiased.
	suffix := make([]byte, domain.InviteCodeSuffix)
	for i, b := range raw {
		suffix[i] = domain.InviteCodeAlphabet[int(b)%len(domain.InviteCodeAlphabet)]
	}
	return domain.InviteCodePrefix + string(suffix), nil
}
