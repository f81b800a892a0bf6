package repository

import "context"

// Repos bundles every repository bound to the same database handle. Inside
// Atomic.Transact they all share one transaction.
type Repos struct {
	Users      UserRepository
	Challenges ChallengeRepository
	Vouches    VouchRepository
	Invites    InviteRepository
}

// Atomic runs fn as a single atomic unit: every write made through the Repos
// it receives commits together or not at all. Invite redemption (user
// creation + code consumption + automatic vouch) depends on this.
type Atomic interface {
	Transact(ctx context.Context, fn func(r Repos) error) error
}
