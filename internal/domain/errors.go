package domain

import (
	"errors"
	"fmt"
)

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrInvalidPublicKey = errors.New("public key must be a 32-byte ed25519 key")

	ErrInviteRequired      = errors.New("invite code required")
	ErrInviteNotFound      = errors.New("invalid invite code")
	ErrInviteUsed          = errors.New("invite code already used")
	ErrInviteExpired       = errors.New("invite code expired")
	ErrDuplicateInviteCode = errors.New("invite code already exists")

	ErrChallengeInvalid = errors.New("invalid or expired challenge")
	ErrSignatureInvalid = errors.New("invalid signature")

	ErrSelfVouch = errors.New("cannot vouch for yourself")

	ErrTokenInvalid = errors.New("token is invalid or expired")
)

// TrustError is returned when a caller's trust score is below the minimum a
// gated action requires. Required and Current are surfaced so clients can
// render an accurate message.
type TrustError struct {
	Required int
	Current  int
}

func (e *TrustError) Error() string {
	return fmt.Sprintf("insufficient trust: required %d, current %d", e.Required, e.Current)
}

// AllowanceError is returned when a user has already issued as many invite
// codes as their trust score allows.
type AllowanceError struct {
	Allowance int
	Issued    int
}

func (e *AllowanceError) Error() string {
	return fmt.Sprintf("invite allowance exhausted: %d of %d codes issued", e.Issued, e.Allowance)
}
