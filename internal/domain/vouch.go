package domain

import "time"

// VouchType distinguishes the automatic vouch minted at invite redemption
// from an explicit vouch action.
type VouchType string

const (
	VouchTypeInvite VouchType = "invite"
	VouchTypeManual VouchType = "manual"
)

func (t VouchType) Valid() bool {
	switch t {
	case VouchTypeInvite, VouchTypeManual:
		return true
	}
	return false
}

// Vouch is a one-way assertion of trust from voucher to vouchee. The
// (voucher, vouchee) pair is unique regardless of type; the rows are
// append-only.
type Vouch struct {
	ID        string
	VoucherID string
	VoucheeID string
	Type      VouchType
	CreatedAt time.Time
}
