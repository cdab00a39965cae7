package domain

import "errors"

var (
	// ErrInvalidCredentials hides whether email or password failed, so
	// account existence cannot be probed through the login form.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrProviderUnavailable signals a transient identity-provider failure.
	// Callers may retry; no session state is invalidated by it.
	ErrProviderUnavailable = errors.New("identity provider unavailable")
	// ErrUnreachable signals a transient backend failure.
	// The current session is preserved so a later refresh can reconcile.
	ErrUnreachable = errors.New("backend unreachable")
	// ErrUnauthorized is terminal for the session: the bearer token was rejected.
	// The session controller handles it centrally by purging tokens and account.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrProfileUnavailable means a token was obtained but the profile fetch failed.
	// Tokens stay persisted so Refresh can recover without re-entering a password.
	ErrProfileUnavailable = errors.New("profile unavailable")
	// ErrInvalidState marks an operation invoked from the wrong lifecycle stage.
	// The route guard should make this unreachable; seeing it is a defect.
	ErrInvalidState = errors.New("invalid lifecycle state")
	// ErrAlreadyReviewed is the admin-side conflict on a second review decision.
	ErrAlreadyReviewed = errors.New("artist request already reviewed")
	ErrInvalidInput    = errors.New("invalid input")
	ErrNotFound        = errors.New("resource not found")
)
