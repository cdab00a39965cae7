package guard

import (
	"strings"

	"github.com/artmarket/marketplace-client/internal/domain"
	"github.com/artmarket/marketplace-client/internal/session"
)

// Action is the routing verdict for a requested destination.
type Action string

const (
	ActionAllow    Action = "allow"
	ActionRedirect Action = "redirect"
	// ActionPending means the session is still reconciling; hold navigation
	// instead of flashing a login redirect at a user with valid tokens.
	ActionPending Action = "pending"
)

type Decision struct {
	Action Action
	Target string
}

func allow() Decision                 { return Decision{Action: ActionAllow} }
func redirect(target string) Decision { return Decision{Action: ActionRedirect, Target: target} }
func pending() Decision               { return Decision{Action: ActionPending} }

// Class partitions destinations by the access they require.
type Class string

const (
	ClassPublic    Class = "public"
	ClassOnboarded Class = "onboarded"
	ClassAdmin     Class = "admin"
)

// Guard maps destinations to access classes and evaluates navigation
// against the current session snapshot. Evaluation runs on every navigation
// and whenever the session changes; decisions are never cached because the
// lifecycle stage can change asynchronously (admin decisions, token expiry).
type Guard struct {
	routes map[string]Class
}

// New returns a guard preloaded with the application route table.
func New() *Guard {
	return &Guard{routes: map[string]Class{
		"/":                   ClassPublic,
		"/login-register":     ClassPublic,
		"/verify-email":       ClassPublic,
		"/role-selection":     ClassPublic,
		"/upload-artist-docs": ClassPublic,
		"/artist-review":      ClassPublic,

		"/dashboard":         ClassOnboarded,
		"/profile":           ClassOnboarded,
		"/artworks":          ClassOnboarded,
		"/artwork/{id}":      ClassOnboarded,
		"/add-artwork":       ClassOnboarded,
		"/edit-artwork/{id}": ClassOnboarded,
		"/orders":            ClassOnboarded,
		"/sales":             ClassOnboarded,
		"/messages":          ClassOnboarded,

		"/admin": ClassAdmin,
	}}
}

// Evaluate applies the rules in priority order: admin-only first, then
// onboarding-complete, then public.
func (g *Guard) Evaluate(destination string, snap session.Snapshot) Decision {
	class, known := g.classify(destination)
	if !known {
		return redirect("/")
	}

	switch class {
	case ClassAdmin:
		if !snap.Resolved {
			return pending()
		}
		if snap.Stage == domain.StageActiveAdmin {
			return allow()
		}
		if snap.Authenticated {
			return redirect("/dashboard")
		}
		return redirect("/login-register")

	case ClassOnboarded:
		if !snap.Resolved {
			return pending()
		}
		if snap.Stage.Onboarded() {
			return allow()
		}
		return redirect(stageScreen(snap.Stage))

	default:
		return allow()
	}
}

// stageScreen is the destination matching an incomplete lifecycle stage.
func stageScreen(stage domain.Stage) string {
	switch stage {
	case domain.StageAwaitingVerification:
		return "/verify-email"
	case domain.StageAwaitingRole:
		return "/role-selection"
	case domain.StageAwaitingArtistReview:
		return "/artist-review"
	default:
		return "/login-register"
	}
}

func (g *Guard) classify(destination string) (Class, bool) {
	if class, ok := g.routes[destination]; ok {
		return class, true
	}
	// Parameterized routes: match segment-wise against {param} patterns.
	destParts := strings.Split(strings.Trim(destination, "/"), "/")
	for pattern, class := range g.routes {
		patternParts := strings.Split(strings.Trim(pattern, "/"), "/")
		if len(patternParts) != len(destParts) {
			continue
		}
		matched := true
		for i, part := range patternParts {
			if strings.HasPrefix(part, "{") && strings.HasSuffix(part, "}") {
				continue
			}
			if part != destParts[i] {
				matched = false
				break
			}
		}
		if matched {
			return class, true
		}
	}
	return ClassPublic, false
}
