package domain

import "testing"

func TestDeriveStage(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		hasToken bool
		account  *Account
		want     Stage
	}{
		{"no token", false, nil, StageAnonymous},
		{"token without profile", true, nil, StageAnonymous},
		{"unverified email", true, &Account{EmailVerified: false}, StageAwaitingVerification},
		{"verified without role", true, &Account{EmailVerified: true}, StageAwaitingRole},
		{"buyer", true, &Account{EmailVerified: true, Role: RoleBuyer, Status: StatusVerified}, StageActiveBuyer},
		{"admin", true, &Account{EmailVerified: true, Role: RoleAdmin, Status: StatusVerified}, StageActiveAdmin},
		{"artist pre-review", true, &Account{EmailVerified: true, Role: RoleArtist, Status: StatusPendingVerification}, StageAwaitingArtistReview},
		{"artist approved", true, &Account{EmailVerified: true, Role: RoleArtist, Status: StatusVerified}, StageActiveArtist},
		{"artist rejected", true, &Account{EmailVerified: true, Role: RoleArtist, Status: StatusRejected}, StageRejected},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := DeriveStage(tc.hasToken, tc.account); got != tc.want {
				t.Fatalf("DeriveStage(%v, %+v) = %s, want %s", tc.hasToken, tc.account, got, tc.want)
			}
		})
	}
}

func TestDeriveStageNeverAuthenticatesUnverifiedEmail(t *testing.T) {
	t.Parallel()

	// A token for an unverified account must map to the verification step
	// regardless of what the rest of the profile says.
	account := &Account{EmailVerified: false, Role: RoleArtist, Status: StatusVerified}
	if got := DeriveStage(true, account); got != StageAwaitingVerification {
		t.Fatalf("expected awaiting_verification for unverified email, got %s", got)
	}
}

func TestNormalizeStatusLegacyRecords(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name          string
		raw           string
		emailVerified bool
		want          VerificationStatus
	}{
		{"explicit status wins", "pending_verification", true, StatusPendingVerification},
		{"legacy verified", "", true, StatusVerified},
		{"legacy unverified", "", false, StatusNone},
		{"unknown status passes through", "rejected", true, StatusRejected},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := NormalizeStatus(tc.raw, tc.emailVerified); got != tc.want {
				t.Fatalf("NormalizeStatus(%q, %v) = %s, want %s", tc.raw, tc.emailVerified, got, tc.want)
			}
		})
	}
}

func TestStageOnboarded(t *testing.T) {
	t.Parallel()

	onboarded := []Stage{StageActiveBuyer, StageActiveArtist, StageActiveAdmin, StageRejected}
	for _, stage := range onboarded {
		if !stage.Onboarded() {
			t.Fatalf("stage %s should count as onboarded", stage)
		}
	}
	blocked := []Stage{StageAnonymous, StageAwaitingVerification, StageAwaitingRole, StageAwaitingArtistReview}
	for _, stage := range blocked {
		if stage.Onboarded() {
			t.Fatalf("stage %s should not count as onboarded", stage)
		}
	}
}
