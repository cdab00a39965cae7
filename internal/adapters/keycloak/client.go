// Package keycloak wraps the identity provider's OAuth2 password-grant
// token endpoint. It issues tokens and decodes claims for introspection;
// application role and verification never come from here.
package keycloak

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"

	"github.com/artmarket/marketplace-client/internal/domain"
	"github.com/artmarket/marketplace-client/internal/ports"
)

type Config struct {
	BaseURL      string
	Realm        string
	ClientID     string
	ClientSecret string
	Timeout      time.Duration
}

type Client struct {
	oauth      *oauth2.Config
	httpClient *http.Client
}

func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	tokenURL := fmt.Sprintf("%s/realms/%s/protocol/openid-connect/token",
		strings.TrimRight(cfg.BaseURL, "/"), cfg.Realm)

	return &Client{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Endpoint: oauth2.Endpoint{
				TokenURL: tokenURL,
				// Keycloak accepts credentials in the form body, matching
				// the wire contract the backend realm is configured for.
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		httpClient: &http.Client{Timeout: timeout},
	}
}

// PasswordLogin performs the password-grant exchange. Provider rejections
// (bad credentials, unknown user, unverified realm account) map onto
// domain.ErrInvalidCredentials; network errors and 5xx onto
// domain.ErrProviderUnavailable.
func (c *Client) PasswordLogin(ctx context.Context, email, password string) (ports.TokenPair, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)

	token, err := c.oauth.PasswordCredentialsToken(ctx, email, password)
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) && retrieveErr.Response != nil {
			if retrieveErr.Response.StatusCode < 500 {
				return ports.TokenPair{}, fmt.Errorf("%w: provider rejected grant", domain.ErrInvalidCredentials)
			}
			return ports.TokenPair{}, fmt.Errorf("%w: provider returned %d", domain.ErrProviderUnavailable, retrieveErr.Response.StatusCode)
		}
		return ports.TokenPair{}, fmt.Errorf("%w: %v", domain.ErrProviderUnavailable, err)
	}

	pair := ports.TokenPair{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
	}
	if !token.Expiry.IsZero() {
		pair.ExpiresIn = int64(time.Until(token.Expiry).Seconds())
	}
	return pair, nil
}

// DecodeExpiry reads the exp claim without signature verification. The
// token is opaque to this client for authorization purposes; this exists
// only so callers can report when a stored token will lapse.
func (c *Client) DecodeExpiry(accessToken string) (time.Time, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(accessToken, claims); err != nil {
		return time.Time{}, fmt.Errorf("%w: malformed access token", domain.ErrInvalidInput)
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, fmt.Errorf("%w: access token has no expiry claim", domain.ErrInvalidInput)
	}
	return exp.Time, nil
}
