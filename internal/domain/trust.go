package domain

// Trust scoring rules. The score is a pure function of the vouch ledger:
// VouchWeight points per incoming vouch, recomputed from the full ledger on
// every change so concurrent vouches converge. New users start at SeedTrust,
// which covers the browsing-only tier; the first ledger recomputation
// replaces it.
const (
	SeedTrust       = 15
	VouchWeight     = 10
	MinTrustToVouch = 30
)

// TrustScore derives a score from the number of incoming vouches. There is
// deliberately no decay, no weighting by voucher trust, and no cap; those are
// extension points, not omissions.
func TrustScore(incomingVouches int) int {
	return VouchWeight * incomingVouches
}

// InviteAllowance is the maximum lifetime number of invite codes a user may
// create: none below the vouching threshold, then three plus one for every 20
// trust above it.
func InviteAllowance(trust int) int {
	if trust < MinTrustToVouch {
		return 0
	}
	return 3 + (trust-MinTrustToVouch)/20
}
