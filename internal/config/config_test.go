package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "DATABASE_TYPE", "ADMIN_PASSWORD", "ADMIN_TOKEN_TTL", "RATE_LIMIT_PER_MINUTE", "TZ_NAME"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, "5000", cfg.ServerPort)
	assert.Equal(t, "sqlite", cfg.DatabaseType)
	assert.Equal(t, "supersecret", cfg.AdminPassword)
	assert.Equal(t, 12*time.Hour, cfg.AdminTokenTTL)
	assert.Equal(t, 120, cfg.RateLimitPerMinute)
	assert.Equal(t, "Local", cfg.Timezone)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DATABASE_TYPE", "postgres")
	t.Setenv("DATABASE_URL", "postgres://localhost/chores")
	t.Setenv("ADMIN_TOKEN_TTL", "30m")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "10")
	t.Setenv("TZ_NAME", "Europe/London")

	cfg := Load()

	assert.Equal(t, "9090", cfg.ServerPort)
	assert.Equal(t, "postgres", cfg.DatabaseType)
	assert.Equal(t, "postgres://localhost/chores", cfg.DatabaseURL)
	assert.Equal(t, 30*time.Minute, cfg.AdminTokenTTL)
	assert.Equal(t, 10, cfg.RateLimitPerMinute)

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "Europe/London", loc.String())
}

func TestLoadIgnoresMalformedNumbers(t *testing.T) {
	t.Setenv("RATE_LIMIT_PER_MINUTE", "lots")
	t.Setenv("ADMIN_TOKEN_TTL", "forever")

	cfg := Load()

	assert.Equal(t, 120, cfg.RateLimitPerMinute)
	assert.Equal(t, 12*time.Hour, cfg.AdminTokenTTL)
}
