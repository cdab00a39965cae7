package bootstrap

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config fixture: %v", err)
	}
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("load config failed: %v", err)
	}
	if cfg.KeycloakRealm != "art-marketplace-realm" {
		t.Fatalf("unexpected default realm %q", cfg.KeycloakRealm)
	}
	if cfg.KeycloakClientID != "digital-marketplace-frontend" {
		t.Fatalf("unexpected default client id %q", cfg.KeycloakClientID)
	}
	if cfg.TokenPath == "" {
		t.Fatalf("token path must always resolve")
	}
	if cfg.HTTPTimeout != 10*time.Second {
		t.Fatalf("unexpected default timeout %v", cfg.HTTPTimeout)
	}
}

func TestLoadConfigFileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
backend:
  url: "https://api.example.com"
keycloak:
  base_url: "https://id.example.com"
  realm: "staging-realm"
session:
  token_path: "/tmp/tokens.json"
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load config failed: %v", err)
	}
	if cfg.BackendURL != "https://api.example.com" {
		t.Fatalf("file backend url ignored, got %q", cfg.BackendURL)
	}
	if cfg.KeycloakRealm != "staging-realm" {
		t.Fatalf("file realm ignored, got %q", cfg.KeycloakRealm)
	}
	// Fields absent from the file keep their defaults.
	if cfg.KeycloakClientID != "digital-marketplace-frontend" {
		t.Fatalf("missing file field should keep default, got %q", cfg.KeycloakClientID)
	}
	if cfg.TokenPath != "/tmp/tokens.json" {
		t.Fatalf("file token path ignored, got %q", cfg.TokenPath)
	}
}

func TestLoadConfigEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `
backend:
  url: "https://api.example.com"
`)
	t.Setenv("MARKET_BACKEND_URL", "https://api.override.example.com")
	t.Setenv("MARKET_HTTP_TIMEOUT_SECONDS", "3")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load config failed: %v", err)
	}
	if cfg.BackendURL != "https://api.override.example.com" {
		t.Fatalf("env override ignored, got %q", cfg.BackendURL)
	}
	if cfg.HTTPTimeout != 3*time.Second {
		t.Fatalf("env timeout ignored, got %v", cfg.HTTPTimeout)
	}
}

func TestLoadConfigRejectsMalformedFile(t *testing.T) {
	path := writeConfig(t, "backend: [not: valid")
	if _, err := LoadConfig(path); err == nil {
		t.Fatalf("expected parse error for malformed yaml")
	}
}
