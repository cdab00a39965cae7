package guard

import (
	"testing"

	"github.com/artmarket/marketplace-client/internal/domain"
	"github.com/artmarket/marketplace-client/internal/session"
)

func snapshotFor(stage domain.Stage) session.Snapshot {
	authenticated := stage != domain.StageAnonymous && stage != domain.StageAwaitingVerification
	return session.Snapshot{Stage: stage, Authenticated: authenticated, Resolved: true}
}

func TestEvaluateOnboardedRoutes(t *testing.T) {
	t.Parallel()

	g := New()

	cases := []struct {
		name        string
		stage       domain.Stage
		destination string
		want        Decision
	}{
		{"anonymous to dashboard", domain.StageAnonymous, "/dashboard", Decision{Action: ActionRedirect, Target: "/login-register"}},
		{"unverified to dashboard", domain.StageAwaitingVerification, "/dashboard", Decision{Action: ActionRedirect, Target: "/verify-email"}},
		{"role pending to dashboard", domain.StageAwaitingRole, "/dashboard", Decision{Action: ActionRedirect, Target: "/role-selection"}},
		{"review pending to dashboard", domain.StageAwaitingArtistReview, "/dashboard", Decision{Action: ActionRedirect, Target: "/artist-review"}},
		{"buyer to dashboard", domain.StageActiveBuyer, "/dashboard", Decision{Action: ActionAllow}},
		{"artist to sales", domain.StageActiveArtist, "/sales", Decision{Action: ActionAllow}},
		{"rejected to dashboard", domain.StageRejected, "/dashboard", Decision{Action: ActionAllow}},
		{"buyer to parameterized artwork", domain.StageActiveBuyer, "/artwork/42", Decision{Action: ActionAllow}},
		{"role pending to parameterized edit", domain.StageAwaitingRole, "/edit-artwork/42", Decision{Action: ActionRedirect, Target: "/role-selection"}},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := g.Evaluate(tc.destination, snapshotFor(tc.stage))
			if got != tc.want {
				t.Fatalf("Evaluate(%s, %s) = %+v, want %+v", tc.destination, tc.stage, got, tc.want)
			}
		})
	}
}

func TestEvaluateAdminRoute(t *testing.T) {
	t.Parallel()

	g := New()

	// Admin-only wins over onboarding-complete: a fully onboarded buyer is
	// still turned away.
	got := g.Evaluate("/admin", snapshotFor(domain.StageActiveBuyer))
	if got.Action != ActionRedirect || got.Target != "/dashboard" {
		t.Fatalf("buyer on /admin should redirect to /dashboard, got %+v", got)
	}

	got = g.Evaluate("/admin", snapshotFor(domain.StageActiveAdmin))
	if got.Action != ActionAllow {
		t.Fatalf("admin on /admin should be allowed, got %+v", got)
	}

	got = g.Evaluate("/admin", snapshotFor(domain.StageAnonymous))
	if got.Action != ActionRedirect || got.Target != "/login-register" {
		t.Fatalf("anonymous on /admin should redirect to login, got %+v", got)
	}
}

func TestEvaluateUnresolvedSessionHoldsNavigation(t *testing.T) {
	t.Parallel()

	g := New()
	unresolved := session.Snapshot{Stage: domain.StageAnonymous, Resolved: false}

	if got := g.Evaluate("/dashboard", unresolved); got.Action != ActionPending {
		t.Fatalf("protected route with unresolved session should be pending, got %+v", got)
	}
	if got := g.Evaluate("/admin", unresolved); got.Action != ActionPending {
		t.Fatalf("admin route with unresolved session should be pending, got %+v", got)
	}
	// Public routes never wait.
	if got := g.Evaluate("/login-register", unresolved); got.Action != ActionAllow {
		t.Fatalf("public route should allow during reconciliation, got %+v", got)
	}
}

func TestEvaluateUnknownRoute(t *testing.T) {
	t.Parallel()

	g := New()
	got := g.Evaluate("/no-such-page", snapshotFor(domain.StageActiveBuyer))
	if got.Action != ActionRedirect || got.Target != "/" {
		t.Fatalf("unknown route should redirect home, got %+v", got)
	}
}

func TestEvaluatePublicRoutesAlwaysAllow(t *testing.T) {
	t.Parallel()

	g := New()
	for _, stage := range []domain.Stage{domain.StageAnonymous, domain.StageAwaitingRole, domain.StageActiveAdmin} {
		if got := g.Evaluate("/", snapshotFor(stage)); got.Action != ActionAllow {
			t.Fatalf("home must be public for %s, got %+v", stage, got)
		}
	}
}
