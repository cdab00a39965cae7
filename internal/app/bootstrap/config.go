package bootstrap

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the resolved runtime configuration for the marketplace client.
// It merges file defaults and environment overrides to support both local and deployed runs.
type Config struct {
	BackendURL string

	KeycloakBaseURL      string
	KeycloakRealm        string
	KeycloakClientID     string
	KeycloakClientSecret string

	TokenPath   string
	HTTPTimeout time.Duration
}

// configFile mirrors the YAML schema used by configs/default.yaml.
// It is intentionally separate from Config so runtime-only fields stay internal.
type configFile struct {
	Backend struct {
		URL string `yaml:"url"`
	} `yaml:"backend"`
	Keycloak struct {
		BaseURL      string `yaml:"base_url"`
		Realm        string `yaml:"realm"`
		ClientID     string `yaml:"client_id"`
		ClientSecret string `yaml:"client_secret"`
	} `yaml:"keycloak"`
	Session struct {
		TokenPath string `yaml:"token_path"`
	} `yaml:"session"`
}

// LoadConfig resolves configuration in priority order: defaults -> file -> env.
// This order keeps local bootstrap simple while allowing environment-specific overrides.
func LoadConfig(path string) (Config, error) {
	cfg := Config{
		BackendURL:       "http://localhost:8080",
		KeycloakBaseURL:  "http://localhost:8080",
		KeycloakRealm:    "art-marketplace-realm",
		KeycloakClientID: "digital-marketplace-frontend",
		TokenPath:        defaultTokenPath(),
		HTTPTimeout:      10 * time.Second,
	}

	raw, err := os.ReadFile(path)
	if err == nil {
		var f configFile
		if unmarshalErr := yaml.Unmarshal(raw, &f); unmarshalErr != nil {
			return Config{}, fmt.Errorf("parse config file: %w", unmarshalErr)
		}
		if f.Backend.URL != "" {
			cfg.BackendURL = f.Backend.URL
		}
		if f.Keycloak.BaseURL != "" {
			cfg.KeycloakBaseURL = f.Keycloak.BaseURL
		}
		if f.Keycloak.Realm != "" {
			cfg.KeycloakRealm = f.Keycloak.Realm
		}
		if f.Keycloak.ClientID != "" {
			cfg.KeycloakClientID = f.Keycloak.ClientID
		}
		if f.Keycloak.ClientSecret != "" {
			cfg.KeycloakClientSecret = f.Keycloak.ClientSecret
		}
		if f.Session.TokenPath != "" {
			cfg.TokenPath = f.Session.TokenPath
		}
	}

	cfg.BackendURL = envOrDefault("MARKET_BACKEND_URL", cfg.BackendURL)
	cfg.KeycloakBaseURL = envOrDefault("MARKET_KEYCLOAK_URL", cfg.KeycloakBaseURL)
	cfg.KeycloakRealm = envOrDefault("MARKET_KEYCLOAK_REALM", cfg.KeycloakRealm)
	cfg.KeycloakClientID = envOrDefault("MARKET_KEYCLOAK_CLIENT_ID", cfg.KeycloakClientID)
	cfg.KeycloakClientSecret = envOrDefault("MARKET_KEYCLOAK_CLIENT_SECRET", cfg.KeycloakClientSecret)
	cfg.TokenPath = envOrDefault("MARKET_TOKEN_PATH", cfg.TokenPath)
	cfg.HTTPTimeout = time.Duration(envInt("MARKET_HTTP_TIMEOUT_SECONDS", int(cfg.HTTPTimeout.Seconds()))) * time.Second

	if cfg.BackendURL == "" {
		return Config{}, fmt.Errorf("missing MARKET_BACKEND_URL")
	}
	if cfg.KeycloakBaseURL == "" || cfg.KeycloakRealm == "" || cfg.KeycloakClientID == "" {
		return Config{}, fmt.Errorf("missing keycloak endpoint configuration")
	}
	if cfg.TokenPath == "" {
		return Config{}, fmt.Errorf("missing MARKET_TOKEN_PATH")
	}

	return cfg, nil
}

// defaultTokenPath places the token file under the user config directory,
// falling back to the working directory when none is resolvable.
func defaultTokenPath() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return ".marketctl/tokens.json"
	}
	return filepath.Join(base, "marketctl", "tokens.json")
}

// envOrDefault returns an env var when present, otherwise the provided fallback.
func envOrDefault(name, fallback string) string {
	if value := os.Getenv(name); value != "" {
		return value
	}
	return fallback
}

// envInt parses integer env vars with safe fallback on empty/invalid values.
func envInt(name string, fallback int) int {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}
