// Package rest is the HTTP client of the marketplace backend API.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/artmarket/marketplace-client/internal/domain"
	"github.com/artmarket/marketplace-client/internal/ports"
)

type Gateway struct {
	baseURL    string
	httpClient *http.Client
}

func NewGateway(baseURL string, timeout time.Duration) *Gateway {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Gateway{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// meResponse mirrors the /api/users/me wire schema, including the legacy
// records that carry is_verified but no explicit status.
type meResponse struct {
	Subject         string `json:"sub"`
	Email           string `json:"email"`
	Name            string `json:"name"`
	AvatarURL       string `json:"avatar_url"`
	Role            string `json:"role"`
	IsVerified      bool   `json:"is_verified"`
	Status          string `json:"status"`
	RejectionReason string `json:"rejection_reason"`
}

func (g *Gateway) FetchMe(ctx context.Context, accessToken string) (domain.Account, error) {
	var res meResponse
	if err := g.doJSON(ctx, http.MethodGet, "/api/users/me", accessToken, nil, &res); err != nil {
		return domain.Account{}, err
	}
	return domain.Account{
		Subject:         res.Subject,
		Email:           res.Email,
		Name:            res.Name,
		AvatarURL:       res.AvatarURL,
		Role:            domain.Role(res.Role),
		EmailVerified:   res.IsVerified,
		Status:          domain.NormalizeStatus(res.Status, res.IsVerified),
		RejectionReason: res.RejectionReason,
	}, nil
}

func (g *Gateway) PreRegister(ctx context.Context, reg ports.PreRegistration) (string, error) {
	var res struct {
		Message string `json:"message"`
	}
	if err := g.doJSON(ctx, http.MethodPost, "/api/pre-register", "", reg, &res); err != nil {
		return "", err
	}
	return res.Message, nil
}

func (g *Gateway) VerifyEmailCode(ctx context.Context, email, code string) error {
	body := map[string]string{"email": email, "code": code}
	return g.doJSON(ctx, http.MethodPost, "/api/verify-email-code", "", body, nil)
}

func (g *Gateway) SelectRole(ctx context.Context, accessToken string, role domain.Role) error {
	body := map[string]string{"role": string(role)}
	return g.doJSON(ctx, http.MethodPost, "/api/select-role", accessToken, body, nil)
}

// doJSON issues one JSON request and maps the response onto the domain
// error taxonomy. A nil out discards the response body.
func (g *Gateway) doJSON(ctx context.Context, method, path, accessToken string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrUnreachable, err)
	}
	defer resp.Body.Close()

	if err := mapStatus(resp); err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// mapStatus translates HTTP status codes into domain sentinels. 401 is
// session-terminal; 5xx is transient and preserves the session.
func mapStatus(resp *http.Response) error {
	switch {
	case resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusUnauthorized:
		return domain.ErrUnauthorized
	case resp.StatusCode == http.StatusConflict:
		return fmt.Errorf("%w: %s", domain.ErrAlreadyReviewed, serverError(resp))
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s", domain.ErrNotFound, serverError(resp))
	case resp.StatusCode >= 500:
		return fmt.Errorf("%w: backend returned %d", domain.ErrUnreachable, resp.StatusCode)
	default:
		return fmt.Errorf("%w: %s", domain.ErrInvalidInput, serverError(resp))
	}
}

// serverError extracts the backend's {"error": "..."} message when present.
func serverError(resp *http.Response) string {
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil || len(raw) == 0 {
		return resp.Status
	}
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(raw, &payload); err == nil && payload.Error != "" {
		return payload.Error
	}
	return resp.Status
}
