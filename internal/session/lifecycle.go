package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/artmarket/marketplace-client/internal/domain"
)

// Init hydrates the session from the token store and reconciles it against
// the backend. With no stored tokens it resolves to anonymous immediately.
// A stored token is trusted optimistically until FetchMe answers: a 401
// purges everything, while an unreachable backend keeps the optimistic
// session (Resolved stays false) and surfaces domain.ErrUnreachable so the
// caller can retry without forcing a logout.
func (c *Controller) Init(ctx context.Context) (Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	access, refreshTok, ok, err := c.tokens.Load()
	if err != nil {
		logger().Warn("token store load failed", "operation", "init", "error", err.Error())
	}
	if !ok {
		c.access, c.refresh, c.account = "", "", nil
		c.resolved = true
		return c.snapshotLocked(), nil
	}

	c.access = access
	c.refresh = refreshTok
	c.account = nil
	c.resolved = false

	return c.reconcileLocked(ctx)
}

// Login runs the causally ordered chain: provider exchange, token persist,
// profile fetch, stage recompute. It returns the resolved snapshot so the
// caller can navigate deterministically.
func (c *Controller) Login(ctx context.Context, email, password string) (Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	pair, err := c.provider.PasswordLogin(ctx, email, password)
	if err != nil {
		return c.snapshotLocked(), err
	}

	// Clearing first is mandatory: tokens from a previous account must never
	// coexist with the new pair in the durable store.
	if err := c.tokens.Clear(); err != nil {
		return c.snapshotLocked(), fmt.Errorf("clear token store: %w", err)
	}
	if err := c.tokens.Save(pair.AccessToken, pair.RefreshToken); err != nil {
		c.purgeLocked()
		return c.snapshotLocked(), fmt.Errorf("persist tokens: %w", err)
	}
	c.access = pair.AccessToken
	c.refresh = pair.RefreshToken
	c.account = nil
	c.resolved = false

	snap, err := c.reconcileLocked(ctx)
	if err != nil && errors.Is(err, domain.ErrUnreachable) {
		// Token obtained but profile fetch failed. Deliberately distinct from
		// bad credentials: tokens stay persisted so Refresh can recover.
		return snap, fmt.Errorf("%w: %v", domain.ErrProfileUnavailable, err)
	}
	return snap, err
}

// Refresh re-runs the profile fetch with the stored token. This is the
// reconciliation path after out-of-band events such as an admin decision:
// there is no push channel, the client polls or navigates.
func (c *Controller) Refresh(ctx context.Context) (Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.access == "" {
		return c.snapshotLocked(), nil
	}
	return c.reconcileLocked(ctx)
}

// Logout clears the token store and the in-memory account unconditionally.
// It always succeeds and calling it twice in a row is safe.
func (c *Controller) Logout(ctx context.Context) Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.purgeLocked()
	return c.snapshotLocked()
}

// reconcileLocked recomputes the session from a fresh profile fetch.
// The state is always recomputed, never incrementally patched.
func (c *Controller) reconcileLocked(ctx context.Context) (Snapshot, error) {
	account, err := c.backend.FetchMe(ctx, c.access)
	switch {
	case err == nil:
		c.account = &account
		c.resolved = true
		return c.snapshotLocked(), nil
	case errors.Is(err, domain.ErrUnauthorized):
		// Terminal: token invalid or expired. No silent refresh-token
		// exchange; expiry forces anonymous.
		c.purgeLocked()
		return c.snapshotLocked(), domain.ErrUnauthorized
	default:
		// Transient. Keep tokens and any prior account so a retry can
		// recover; the snapshot stays unresolved.
		c.resolved = false
		if !errors.Is(err, domain.ErrUnreachable) {
			err = fmt.Errorf("%w: %v", domain.ErrUnreachable, err)
		}
		return c.snapshotLocked(), err
	}
}
