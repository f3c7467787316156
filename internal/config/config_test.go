package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("BOOKING_API_URL", "http://canchas.local")

	cfg, err := Load()
	require.NoError(t, err)

	assert.False(t, cfg.IsProduction)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "http://canchas.local", cfg.BookingAPIURL)
	assert.Equal(t, 5*time.Second, cfg.AvailabilityTimeout)
	assert.Equal(t, 10.0, cfg.AvailabilityRPS)
	assert.Equal(t, 14, cfg.OpenHour)
	assert.Equal(t, 23, cfg.CloseHour)
	assert.Equal(t, "America/Argentina/Buenos_Aires", cfg.Location.String())
	assert.Empty(t, cfg.RedisAddr)
	assert.Equal(t, 30*time.Second, cfg.CacheTTL)
	assert.Equal(t, 30*time.Minute, cfg.SessionIdleTTL)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("BOOKING_API_URL", "http://canchas.local")
	t.Setenv("APP_ENV", "prod")
	t.Setenv("OPEN_HOUR", "9")
	t.Setenv("CLOSE_HOUR", "24")
	t.Setenv("TIMEZONE", "UTC")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("AVAILABILITY_CACHE_TTL", "1m")
	t.Setenv("SESSION_IDLE_TTL", "0")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction)
	assert.Equal(t, 9, cfg.OpenHour)
	assert.Equal(t, 24, cfg.CloseHour)
	assert.Equal(t, time.UTC, cfg.Location)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, time.Minute, cfg.CacheTTL)
	assert.Zero(t, cfg.SessionIdleTTL)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "missing booking url", env: map[string]string{"BOOKING_API_URL": ""}},
		{name: "bad timeout", env: map[string]string{"AVAILABILITY_TIMEOUT": "soon"}},
		{name: "bad rps", env: map[string]string{"AVAILABILITY_RPS": "fast"}},
		{name: "bad open hour", env: map[string]string{"OPEN_HOUR": "two"}},
		{name: "inverted hours", env: map[string]string{"OPEN_HOUR": "20", "CLOSE_HOUR": "10"}},
		{name: "bad session ttl", env: map[string]string{"SESSION_IDLE_TTL": "forever"}},
		{name: "negative session ttl", env: map[string]string{"SESSION_IDLE_TTL": "-1m"}},
		{name: "bad timezone", env: map[string]string{"TIMEZONE": "Mars/Olympus"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("BOOKING_API_URL", "http://canchas.local")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load()
			assert.Error(t, err)
		})
	}
}
