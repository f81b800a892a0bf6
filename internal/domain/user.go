package domain

import (
	"crypto/ed25519"
	"encoding/base64"
	"time"
)

// User is an anonymous member keyed by their ed25519 public key. There are no
// passwords or emails anywhere in the system; possession of the matching
// private key is the only proof of identity.
type User struct {
	ID             string
	PublicKey      ed25519.PublicKey
	TrustScore     int
	IsVerified     bool
	InvitedBy      *string
	InviteCodeUsed *string
	CreatedAt      time.Time
}

// ParsePublicKey decodes a base64 public key and checks its length. All
// transport layers accept keys in this encoding.
func ParsePublicKey(encoded string) (ed25519.PublicKey, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, ErrInvalidPublicKey
	}
	if len(raw) != ed25519.PublicKeySize {
		return nil, ErrInvalidPublicKey
	}
	return ed25519.PublicKey(raw), nil
}

// EncodePublicKey is the inverse of ParsePublicKey.
func EncodePublicKey(key ed25519.PublicKey) string {
	return base64.StdEncoding.EncodeToString(key)
}
