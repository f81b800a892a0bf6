package domain

import "time"

// Invite code format: KUU- followed by six characters from an alphabet that
// excludes visually ambiguous characters (0/O, 1/I).
const (
	InviteCodePrefix   = "KUU-"
	InviteCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	InviteCodeSuffix   = 6
)

// InviteStatus is derived, never stored: used wins over expired, expired over
// active.
type InviteStatus string

const (
	InviteActive  InviteStatus = "active"
	InviteUsed    InviteStatus = "used"
	InviteExpired InviteStatus = "expired"
)

// InviteCode is a human-shareable signup token. InviteeID and UsedAt are set
// exactly once, on redemption. Revocation deletes the row and is only
// possible while the code is still active.
type InviteCode struct {
	ID        string
	Code      string
	InviterID string
	InviteeID *string
	CreatedAt time.Time
	ExpiresAt time.Time
	UsedAt    *time.Time
}

// Status derives the code's state at the given instant.
func (c *InviteCode) Status(now time.Time) InviteStatus {
	if c.UsedAt != nil {
		return InviteUsed
	}
	if now.After(c.ExpiresAt) {
		return InviteExpired
	}
	return InviteActive
}
