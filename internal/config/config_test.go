package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-interview-client/internal/credentials"
)

func TestLoadClient_Defaults(t *testing.T) {
	t.Setenv("API_URL", "")
	t.Setenv("CREDENTIAL_MODE", "")
	t.Setenv("CREDENTIALS_FILE", "/tmp/creds.json")
	t.Setenv("HTTP_TIMEOUT", "")
	t.Setenv("DEFAULT_TIMER_MINUTES", "")

	cfg, err := LoadClient()

	require.NoError(t, err)
	assert.Equal(t, "http://127.0.0.1:8000", cfg.APIURL)
	assert.Equal(t, credentials.ModeToken, cfg.CredentialMode)
	assert.Equal(t, 30*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, 10, cfg.DefaultTimerMinutes)
}

func TestLoadClient_CookieModeAndOverrides(t *testing.T) {
	t.Setenv("API_URL", "https://api.example.com/")
	t.Setenv("CREDENTIAL_MODE", "Cookie")
	t.Setenv("HTTP_TIMEOUT", "5s")
	t.Setenv("DEFAULT_TIMER_MINUTES", "25")

	cfg, err := LoadClient()

	require.NoError(t, err)
	assert.Equal(t, "https://api.example.com", cfg.APIURL)
	assert.Equal(t, credentials.ModeCookie, cfg.CredentialMode)
	assert.Equal(t, 5*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, 25, cfg.DefaultTimerMinutes)
}

func TestLoadClient_RejectsUnknownMode(t *testing.T) {
	t.Setenv("CREDENTIAL_MODE", "both")

	_, err := LoadClient()

	assert.Error(t, err)
}

func TestLoadClient_RejectsRelativeURL(t *testing.T) {
	t.Setenv("CREDENTIAL_MODE", "")
	t.Setenv("API_URL", "localhost:8000")

	_, err := LoadClient()

	assert.Error(t, err)
}

func TestLoadServer_RequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := LoadServer()

	assert.ErrorContains(t, err, "JWT_SECRET")
}

func TestLoadServer_Values(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("CORS_ORIGINS", "http://a.test, ,http://b.test")
	t.Setenv("JWT_ACCESS_TTL", "1m")
	t.Setenv("RATE_LIMIT_RPM", "not-a-number")

	cfg, err := LoadServer()

	require.NoError(t, err)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
	assert.Equal(t, time.Minute, cfg.JWTAccessTTL)
	assert.Equal(t, 300, cfg.RateLimitRPM)
}
