package keycloak

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/artmarket/marketplace-client/internal/domain"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(Config{
		BaseURL:  server.URL,
		Realm:    "art-marketplace-realm",
		ClientID: "digital-marketplace-frontend",
		Timeout:  2 * time.Second,
	})
}

func TestPasswordLoginSuccess(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		if got := r.PostForm.Get("grant_type"); got != "password" {
			t.Errorf("expected password grant, got %q", got)
		}
		if got := r.PostForm.Get("client_id"); got != "digital-marketplace-frontend" {
			t.Errorf("client_id must travel in the form body, got %q", got)
		}
		if got := r.PostForm.Get("username"); got != "ana@example.com" {
			t.Errorf("unexpected username %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token":  "access-1",
			"refresh_token": "refresh-1",
			"token_type":    "Bearer",
			"expires_in":    3600,
		})
	})

	pair, err := client.PasswordLogin(context.Background(), "ana@example.com", "Pw1!")
	if err != nil {
		t.Fatalf("password login failed: %v", err)
	}
	if pair.AccessToken != "access-1" || pair.RefreshToken != "refresh-1" {
		t.Fatalf("unexpected pair %+v", pair)
	}
	if pair.ExpiresIn <= 0 {
		t.Fatalf("expected positive expiry, got %d", pair.ExpiresIn)
	}
}

func TestPasswordLoginRejectedGrant(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "invalid_grant"})
	})

	_, err := client.PasswordLogin(context.Background(), "ana@example.com", "wrong")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestPasswordLoginProviderDown(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := client.PasswordLogin(context.Background(), "ana@example.com", "Pw1!")
	if !errors.Is(err, domain.ErrProviderUnavailable) {
		t.Fatalf("expected ErrProviderUnavailable, got %v", err)
	}
}

func TestPasswordLoginUnreachableProvider(t *testing.T) {
	t.Parallel()

	client := NewClient(Config{
		BaseURL:  "http://127.0.0.1:1",
		Realm:    "art-marketplace-realm",
		ClientID: "digital-marketplace-frontend",
		Timeout:  500 * time.Millisecond,
	})

	_, err := client.PasswordLogin(context.Background(), "ana@example.com", "Pw1!")
	if !errors.Is(err, domain.ErrProviderUnavailable) {
		t.Fatalf("expected ErrProviderUnavailable, got %v", err)
	}
}

func TestDecodeExpiry(t *testing.T) {
	t.Parallel()

	expiry := time.Now().Add(time.Hour).Truncate(time.Second)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "sub-1",
		ExpiresAt: jwt.NewNumericDate(expiry),
	})
	signed, err := token.SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign fixture token: %v", err)
	}

	client := NewClient(Config{BaseURL: "http://localhost", Realm: "r", ClientID: "c"})
	got, err := client.DecodeExpiry(signed)
	if err != nil {
		t.Fatalf("decode expiry failed: %v", err)
	}
	if !got.Equal(expiry) {
		t.Fatalf("expected %v, got %v", expiry, got)
	}
}

func TestDecodeExpiryMalformedToken(t *testing.T) {
	t.Parallel()

	client := NewClient(Config{BaseURL: "http://localhost", Realm: "r", ClientID: "c"})
	if _, err := client.DecodeExpiry("not-a-jwt"); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
