package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "web", cfg.WebDir)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.False(t, cfg.UseMemory)
	assert.False(t, cfg.ForwardAuth)
	assert.False(t, cfg.OIDCEnabled())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("ADDR", ":9999")
	t.Setenv("SESSION_TTL_HOURS", "2")
	t.Setenv("MEMORY", "1")
	t.Setenv("OIDC_ISSUER", "https://idp.example.com")
	t.Setenv("OIDC_CLIENT_ID", "phishguard")
	t.Setenv("OIDC_REDIRECT_URL", "https://app.example.com/auth/sso/callback")

	cfg := Load()

	assert.Equal(t, ":9999", cfg.Addr)
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL)
	assert.True(t, cfg.UseMemory)
	assert.True(t, cfg.OIDCEnabled())
}

func TestInvalidEnvValuesFallBack(t *testing.T) {
	t.Setenv("SESSION_TTL_HOURS", "soon")
	t.Setenv("MEMORY", "maybe")

	cfg := Load()

	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.False(t, cfg.UseMemory)
}
