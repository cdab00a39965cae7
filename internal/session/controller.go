package session

import (
	"log/slog"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/artmarket/marketplace-client/internal/domain"
	"github.com/artmarket/marketplace-client/internal/ports"
)

// Controller owns the in-memory session and is the single source of truth
// consumed by routing. It derives the lifecycle stage from the latest
// profile fetch plus token presence and never performs navigation itself,
// which keeps it testable and UI-agnostic.
type Controller struct {
	mu sync.Mutex

	tokens   ports.TokenStore
	provider ports.IdentityProvider
	backend  ports.BackendGateway
	precheck DocPrecheck
	validate *validator.Validate
	nowFn    func() time.Time

	access   string
	refresh  string
	account  *domain.Account
	resolved bool
}

// DocPrecheck is an optional client-side check run before artist documents
// are uploaded (a biometric face-match in one onboarding variant). It is a
// convenience pre-check, never a trust boundary: the backend and the
// administrator decision remain authoritative.
type DocPrecheck interface {
	Check(docs ports.ArtistDocs) error
}

type Dependencies struct {
	Tokens   ports.TokenStore
	Provider ports.IdentityProvider
	Backend  ports.BackendGateway
	Precheck DocPrecheck
}

func NewController(deps Dependencies) *Controller {
	return &Controller{
		tokens:   deps.Tokens,
		provider: deps.Provider,
		backend:  deps.Backend,
		precheck: deps.Precheck,
		validate: validator.New(),
		nowFn:    time.Now().UTC,
	}
}

// Snapshot is an immutable view of the session handed to consumers.
// Authenticated is derived, never stored: a token alone never implies it.
type Snapshot struct {
	Stage         domain.Stage
	Account       *domain.Account
	Authenticated bool
	// Resolved is false until the profile has been reconciled at least once
	// for the current tokens; guards treat protected routes as pending then.
	Resolved bool
}

// Snapshot returns the current session view. Cheap enough to call on every
// navigation; guard evaluation must not cache it.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Stage returns the current derived lifecycle stage.
func (c *Controller) Stage() domain.Stage {
	return c.Snapshot().Stage
}

// AccessToken exposes the current bearer token for collaborators that issue
// their own authenticated requests (the admin review console).
func (c *Controller) AccessToken() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.access
}

func (c *Controller) snapshotLocked() Snapshot {
	var account *domain.Account
	if c.account != nil {
		copied := *c.account
		account = &copied
	}
	return Snapshot{
		Stage:         domain.DeriveStage(c.access != "", c.account),
		Account:       account,
		Authenticated: c.access != "" && c.account != nil && c.account.EmailVerified,
		Resolved:      c.resolved,
	}
}

// purgeLocked clears both the durable store and the in-memory session.
// Every failure path that invalidates one side must invalidate the other.
func (c *Controller) purgeLocked() {
	if err := c.tokens.Clear(); err != nil {
		logger().Warn("token store clear failed", "operation", "purge", "error", err.Error())
	}
	c.access = ""
	c.refresh = ""
	c.account = nil
	c.resolved = true
}

func logger() *slog.Logger {
	return slog.Default().With("component", "session")
}
