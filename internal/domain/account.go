package domain

// Role is the application role carried by the backend profile record.
// It never comes from token claims; only /api/users/me is authoritative.
type Role string

const (
	RoleUnset  Role = ""
	RoleBuyer  Role = "buyer"
	RoleArtist Role = "artist"
	RoleAdmin  Role = "admin"
)

// VerificationStatus tracks how far an account has moved through onboarding.
type VerificationStatus string

const (
	StatusNone                 VerificationStatus = "none"
	StatusPendingRoleSelection VerificationStatus = "pending_role_selection"
	StatusPendingVerification  VerificationStatus = "pending_verification"
	StatusVerified             VerificationStatus = "verified"
	StatusRejected             VerificationStatus = "rejected"
)

// Account is the backend's authoritative profile record for one user.
// Subject is the identity provider's opaque stable id; everything else is
// owned by the backend and can change out-of-band (admin decisions included).
type Account struct {
	Subject       string
	Email         string
	Name          string
	AvatarURL     string
	Role          Role
	EmailVerified bool
	Status        VerificationStatus
	// RejectionReason is set only while Status is StatusRejected.
	RejectionReason string
}

// NormalizeStatus maps wire status values onto the enumeration, deriving a
// value for older backend records that carry only the is_verified flag.
func NormalizeStatus(raw string, emailVerified bool) VerificationStatus {
	switch VerificationStatus(raw) {
	case StatusPendingRoleSelection, StatusPendingVerification, StatusVerified, StatusRejected:
		return VerificationStatus(raw)
	case StatusNone:
		return StatusNone
	}
	// Legacy records report "pending_email_verification" or nothing at all.
	if emailVerified {
		return StatusVerified
	}
	return StatusNone
}
