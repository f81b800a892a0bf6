package domain

import "time"

// Challenge is a single-use random token a client must sign to prove
// possession of their private key. A user may hold several outstanding
// challenges at once; each is independently single-use.
type Challenge struct {
	ID        string
	UserID    string
	Challenge string
	ExpiresAt time.Time
	UsedAt    *time.Time
	CreatedAt time.Time
}
