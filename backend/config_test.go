package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConfig(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		cfg, err := parseConfig()
		require.NoError(t, err)
		assert.Equal(t, ":8080", cfg.Addr)
		assert.Equal(t, 30*time.Minute, cfg.FormTokenTTL)
		assert.Equal(t, 1500*time.Millisecond, cfg.SubmitDelay)
		assert.Empty(t, cfg.DatabaseURL)
		assert.True(t, cfg.Development())
		assert.Contains(t, cfg.CORSOrigins, "http://localhost:5173")
	})

	t.Run("From environment", func(t *testing.T) {
		t.Setenv("SITE_ADDR", ":9090")
		t.Setenv("GO_ENV", "production")
		t.Setenv("SUBMIT_DELAY", "0s")
		t.Setenv("CORS_ORIGINS", "https://a.example,https://b.example")

		cfg, err := parseConfig()
		require.NoError(t, err)
		assert.Equal(t, ":9090", cfg.Addr)
		assert.False(t, cfg.Development())
		assert.Zero(t, cfg.SubmitDelay)
		assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	})

	t.Run("Rejects bad durations", func(t *testing.T) {
		t.Setenv("FORM_TOKEN_TTL", "0s")
		_, err := parseConfig()
		assert.Error(t, err)
	})

	t.Run("Rejects negative delay", func(t *testing.T) {
		t.Setenv("SUBMIT_DELAY", "-1s")
		_, err := parseConfig()
		assert.Error(t, err)
	})

	t.Run("Unparseable value", func(t *testing.T) {
		t.Setenv("FORM_TOKEN_TTL", "soon")
		_, err := parseConfig()
		assert.Error(t, err)
	})
}
