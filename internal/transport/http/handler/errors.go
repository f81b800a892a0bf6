package handler

const (
	errInternalServer     = "Internal server error"
	errUserNotFound       = "User not found"
	errInvalidPublicKey   = "Invalid public key"
	errInviteRequired     = "Invite code required"
	errInviteNotFound     = "Invalid invite code"
	errInviteUsed         = "Invite code already used"
	errInviteExpired      = "Invite code expired"
	errChallengeInvalid   = "Invalid or expired challenge"
	errSignatureInvalid   = "Invalid signature"
	errSelfVouch          = "Cannot vouch for yourself"
	errInsufficientTrust  = "Insufficient trust score"
	errAllowanceExhausted = "Invite allowance exhausted"
)
