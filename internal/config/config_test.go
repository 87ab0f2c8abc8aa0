package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hikinghacker/resume-improvement-api/internal/gateway"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "test-key")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ProviderAnthropic, cfg.Provider)
	assert.Equal(t, "test-key", cfg.APIKey)
	assert.Equal(t, 4096, cfg.MaxTokens)
	assert.Equal(t, 3, cfg.MaxRetries)
	assert.Equal(t, 10, cfg.RateLimit)
	assert.Equal(t, time.Minute, cfg.RateWindow)
	assert.Equal(t, 8080, cfg.Port)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "test-key")
	t.Setenv("MODEL", "claude-3-opus-20240229")
	t.Setenv("MAX_TOKENS", "1024")
	t.Setenv("TEMPERATURE", "0.2")
	t.Setenv("RETRY_BASE_DELAY", "250ms")
	t.Setenv("REQUEST_TIMEOUT", "90s")
	t.Setenv("RATE_LIMIT", "5")
	t.Setenv("VERBOSE", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "claude-3-opus-20240229", cfg.Model)
	assert.Equal(t, 1024, cfg.MaxTokens)
	assert.Equal(t, 0.2, cfg.Temperature)
	assert.Equal(t, 250*time.Millisecond, cfg.BaseDelay)
	assert.Equal(t, 90*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 5, cfg.RateLimit)
	assert.True(t, cfg.Verbose)
}

func TestLoadMissingAPIKey(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "")

	_, err := Load()
	require.Error(t, err)

	var confErr *gateway.ConfigurationError
	require.ErrorAs(t, err, &confErr)
	assert.Equal(t, "ANTHROPIC_API_KEY", confErr.Missing)
}

func TestLoadGeminiProvider(t *testing.T) {
	t.Setenv("PROVIDER", "gemini")
	t.Setenv("GEMINI_API_KEY", "gem-key")
	t.Setenv("ANTHROPIC_API_KEY", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ProviderGemini, cfg.Provider)
	assert.Equal(t, "gem-key", cfg.APIKey)
	assert.Equal(t, "gemini-2.0-flash", cfg.Model)
}

func TestLoadRejectsBadValues(t *testing.T) {
	cases := []struct {
		name  string
		key   string
		value string
	}{
		{"non-numeric max tokens", "MAX_TOKENS", "lots"},
		{"non-numeric temperature", "TEMPERATURE", "warm"},
		{"bad duration", "REQUEST_TIMEOUT", "sixty seconds"},
		{"unknown provider", "PROVIDER", "openai"},
		{"negative retries", "MAX_RETRIES", "-1"},
		{"temperature above one", "TEMPERATURE", "1.5"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("ANTHROPIC_API_KEY", "test-key")
			t.Setenv(tc.key, tc.value)

			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestGatewayOptions(t *testing.T) {
	cfg := Defaults()
	cfg.MaxRetries = 2
	cfg.RateLimit = 7

	opts := cfg.GatewayOptions()
	assert.Equal(t, 2, opts.MaxRetries)
	assert.Equal(t, 7, opts.RateLimit)
	assert.Equal(t, cfg.BaseDelay, opts.BaseDelay)
	assert.Equal(t, cfg.RequestTimeout, opts.RequestTimeout)
}
