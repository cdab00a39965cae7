package ports

import (
	"context"
	"time"
)

// IdentityProvider wraps the external OAuth2 password-grant token endpoint.
// It issues tokens only; application role and verification live in the
// backend profile record and must never be inferred from token claims.
type IdentityProvider interface {
	// PasswordLogin exchanges credentials for tokens. It fails with
	// domain.ErrInvalidCredentials on provider rejection and
	// domain.ErrProviderUnavailable on network errors or 5xx. The caller
	// persists the returned tokens; this call has no side effects.
	PasswordLogin(ctx context.Context, email, password string) (TokenPair, error)

	// DecodeExpiry reads the expiry claim from an access token without
	// verifying the signature. Introspection only; never an authorization
	// input.
	DecodeExpiry(accessToken string) (time.Time, error)
}
