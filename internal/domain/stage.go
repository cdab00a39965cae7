package domain

// Stage is the derived lifecycle stage consumed by routing and forms.
// It is always recomputed from token presence plus the latest profile
// record, never patched incrementally, so client beliefs cannot drift
// from backend truth after out-of-band changes.
type Stage string

const (
	StageAnonymous            Stage = "anonymous"
	StageAwaitingVerification Stage = "awaiting_verification"
	StageAwaitingRole         Stage = "awaiting_role"
	StageAwaitingArtistReview Stage = "awaiting_artist_review"
	StageActiveBuyer          Stage = "active_buyer"
	StageActiveArtist         Stage = "active_artist"
	StageActiveAdmin          Stage = "active_admin"
	StageRejected             Stage = "rejected"
)

// Onboarded reports whether the stage has completed the onboarding funnel.
// Rejected accounts count: they may still browse read-only areas.
func (s Stage) Onboarded() bool {
	switch s {
	case StageActiveBuyer, StageActiveArtist, StageActiveAdmin, StageRejected:
		return true
	}
	return false
}

// DeriveStage computes the lifecycle stage from the two signals the client
// holds: whether a token is present and the last fetched profile record.
func DeriveStage(hasToken bool, account *Account) Stage {
	if !hasToken || account == nil {
		return StageAnonymous
	}
	if !account.EmailVerified {
		return StageAwaitingVerification
	}
	switch account.Role {
	case RoleAdmin:
		return StageActiveAdmin
	case RoleBuyer:
		return StageActiveBuyer
	case RoleArtist:
		switch account.Status {
		case StatusVerified:
			return StageActiveArtist
		case StatusRejected:
			return StageRejected
		default:
			return StageAwaitingArtistReview
		}
	default:
		return StageAwaitingRole
	}
}
