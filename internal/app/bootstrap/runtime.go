package bootstrap

import (
	"context"
	"log/slog"
	"os"

	"github.com/artmarket/marketplace-client/internal/adapters/keycloak"
	"github.com/artmarket/marketplace-client/internal/adapters/rest"
	"github.com/artmarket/marketplace-client/internal/adapters/tokenfile"
	"github.com/artmarket/marketplace-client/internal/guard"
	"github.com/artmarket/marketplace-client/internal/review"
	"github.com/artmarket/marketplace-client/internal/session"
)

// Runtime wires the adapters into the session controller and exposes the
// surfaces a frontend consumes: the controller, the route guard and the
// administrator review console.
type Runtime struct {
	Config     Config
	Controller *session.Controller
	Guard      *guard.Guard
	Console    *review.Console
}

// NewRuntime builds the runtime and performs the startup session restore.
// Restoring never fails hard: an unreachable backend leaves the session
// unresolved and protected routes pending until Refresh succeeds.
func NewRuntime(ctx context.Context, configPath string) (*Runtime, error) {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return nil, err
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	provider := keycloak.NewClient(keycloak.Config{
		BaseURL:      cfg.KeycloakBaseURL,
		Realm:        cfg.KeycloakRealm,
		ClientID:     cfg.KeycloakClientID,
		ClientSecret: cfg.KeycloakClientSecret,
		Timeout:      cfg.HTTPTimeout,
	})
	gateway := rest.NewGateway(cfg.BackendURL, cfg.HTTPTimeout)
	tokens := tokenfile.New(cfg.TokenPath)

	ctrl := session.NewController(session.Dependencies{
		Tokens:   tokens,
		Provider: provider,
		Backend:  gateway,
	})
	if _, err := ctrl.Init(ctx); err != nil {
		logger.Warn("session restore incomplete", "operation", "bootstrap", "error", err.Error())
	}

	return &Runtime{
		Config:     cfg,
		Controller: ctrl,
		Guard:      guard.New(),
		Console:    review.NewConsole(ctrl, gateway),
	}, nil
}
