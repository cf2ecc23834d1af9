// Package config loads application settings from the environment.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every runtime setting.
type Config struct {
	Addr        string
	DatabaseURL string
	WebDir      string
	SessionTTL  time.Duration

	// UseMemory switches persistence to the in-memory adapter. Intended for
	// local development without a database; nothing survives a restart.
	UseMemory bool

	// ForwardAuth trusts the Remote-User header from a reverse proxy.
	ForwardAuth bool

	// OIDC settings; SSO is enabled only when all of issuer, client id and
	// redirect URL are set.
	OIDCIssuer       string
	OIDCClientID     string
	OIDCClientSecret string
	OIDCRedirectURL  string
}

// Load reads settings from the environment, after loading a .env file if one
// exists in the working directory.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Addr:        getEnv("ADDR", ":8080"),
		DatabaseURL: getEnv("DATABASE_URL", ""),
		WebDir:      getEnv("WEB_DIR", "web"),
		SessionTTL:  time.Duration(getEnvAsInt("SESSION_TTL_HOURS", 24)) * time.Hour,

		UseMemory:   getEnvAsBool("MEMORY", false),
		ForwardAuth: getEnvAsBool("FORWARD_AUTH", false),

		OIDCIssuer:       getEnv("OIDC_ISSUER", ""),
		OIDCClientID:     getEnv("OIDC_CLIENT_ID", ""),
		OIDCClientSecret: getEnv("OIDC_CLIENT_SECRET", ""),
		OIDCRedirectURL:  getEnv("OIDC_REDIRECT_URL", ""),
	}
}

// OIDCEnabled reports whether enough OIDC settings are present for SSO.
func (c *Config) OIDCEnabled() bool {
	return c.OIDCIssuer != "" && c.OIDCClientID != "" && c.OIDCRedirectURL != ""
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
