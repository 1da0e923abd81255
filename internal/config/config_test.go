package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configEnv = []string{
	"LISTEN_ADDR", "API_BASE_URL", "FALLBACK_ADMIN_EMAIL", "DIRECTORY_TIMEOUT",
	"DIRECTORY_RETRIES", "ALLOWLIST_CACHE_TTL", "DATABASE_URL", "REDIS_ADDRESS",
	"COOKIE_SECURE", "CORS_ORIGINS", "AUDIT_RETENTION", "AUDIT_PURGE_SCHEDULE",
	"LOG_LEVEL", "LOG_FORMAT",
}

// clearEnv blanks every variable Load reads so host settings don't leak in
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range configEnv {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":3000", cfg.ListenAddr)
	assert.Equal(t, "http://localhost:5000/api", cfg.API.BaseURL)
	assert.Empty(t, cfg.Gate.FallbackEmail)
	assert.Equal(t, 5*time.Second, cfg.Gate.DirectoryTimeout)
	assert.Equal(t, 1, cfg.Gate.DirectoryRetries)
	assert.Zero(t, cfg.Gate.AllowListCacheTTL)
	assert.Equal(t, "manas-admin.sqlite", cfg.Database.URL)
	assert.Empty(t, cfg.Redis.Address)
	assert.False(t, cfg.HTTP.CookieSecure)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.HTTP.CORSOrigins)
	assert.Equal(t, 720*time.Hour, cfg.Audit.Retention)
	assert.Equal(t, "@hourly", cfg.Audit.PurgeSchedule)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("API_BASE_URL", "https://api.manas.org/api/")
	t.Setenv("FALLBACK_ADMIN_EMAIL", " root@x.org ")
	t.Setenv("DIRECTORY_TIMEOUT", "2s")
	t.Setenv("DIRECTORY_RETRIES", "0")
	t.Setenv("ALLOWLIST_CACHE_TTL", "30s")
	t.Setenv("COOKIE_SECURE", "true")
	t.Setenv("CORS_ORIGINS", "https://a.org, https://b.org,")
	t.Setenv("LOG_FORMAT", "Console")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://api.manas.org/api", cfg.API.BaseURL)
	assert.Equal(t, "root@x.org", cfg.Gate.FallbackEmail)
	assert.Equal(t, 2*time.Second, cfg.Gate.DirectoryTimeout)
	assert.Equal(t, 0, cfg.Gate.DirectoryRetries)
	assert.Equal(t, 30*time.Second, cfg.Gate.AllowListCacheTTL)
	assert.True(t, cfg.HTTP.CookieSecure)
	assert.Equal(t, []string{"https://a.org", "https://b.org"}, cfg.HTTP.CORSOrigins)
	assert.Equal(t, "console", cfg.Logging.Format)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "bad fallback email", key: "FALLBACK_ADMIN_EMAIL", value: "not-an-email"},
		{name: "bad api url", key: "API_BASE_URL", value: "::nope"},
		{name: "unparseable timeout", key: "DIRECTORY_TIMEOUT", value: "soon"},
		{name: "zero timeout", key: "DIRECTORY_TIMEOUT", value: "0s"},
		{name: "too many retries", key: "DIRECTORY_RETRIES", value: "10"},
		{name: "retries not a number", key: "DIRECTORY_RETRIES", value: "one"},
		{name: "negative cache ttl", key: "ALLOWLIST_CACHE_TTL", value: "-1s"},
		{name: "bad cookie flag", key: "COOKIE_SECURE", value: "maybe"},
		{name: "bad log format", key: "LOG_FORMAT", value: "xml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			assert.Error(t, err)
		})
	}
}
