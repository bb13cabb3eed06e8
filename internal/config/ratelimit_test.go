package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadRateLimitConfigDefaults(t *testing.T) {
	for _, k := range []string{
		"RATE_LIMIT_ENABLED", "RATE_LIMIT_CAPACITY", "RATE_LIMIT_REFILL_TOKENS",
		"RATE_LIMIT_REFILL_INTERVAL", "RATE_LIMIT_TTL", "RATE_LIMIT_KEY_STRATEGY",
		"RATE_LIMIT_PREFIX", "RATE_LIMIT_SKIP_PATHS", "RATE_LIMIT_DEBUG",
	} {
		t.Setenv(k, "")
	}

	cfg := LoadRateLimitConfig()
	assert.True(t, cfg.Enabled)
	assert.Equal(t, 60, cfg.Capacity)
	assert.Equal(t, time.Second, cfg.RefillInterval)
	assert.True(t, cfg.SkipPaths["/healthz"])
	assert.True(t, cfg.SkipPaths["/metrics"])
	assert.False(t, cfg.SkipPaths["/v1/bookings"])
}

func TestParsePaths(t *testing.T) {
	m := parsePaths(" /healthz , /metrics ,,/internal/debug ")
	assert.Equal(t, map[string]bool{
		"/healthz":        true,
		"/metrics":        true,
		"/internal/debug": true,
	}, m)
}
