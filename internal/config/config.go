// Package config loads the service configuration from the environment and
// validates it before anything talks to a completion provider.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/hikinghacker/resume-improvement-api/internal/gateway"
)

// Provider names accepted by the PROVIDER variable.
const (
	ProviderAnthropic = "anthropic"
	ProviderGemini    = "gemini"
)

// Config holds every runtime knob. Values come from the environment; a
// .env file is loaded by the CLI entry point before Load runs.
type Config struct {
	Provider string `validate:"oneof=anthropic gemini"`
	APIKey   string `validate:"required"`
	Model    string `validate:"required"`

	MaxTokens   int     `validate:"gt=0"`
	Temperature float64 `validate:"gte=0,lte=1"`

	MaxRetries     int           `validate:"gte=0"`
	BaseDelay      time.Duration `validate:"gt=0"`
	MaxDelay       time.Duration `validate:"gt=0"`
	RequestTimeout time.Duration `validate:"gt=0"`

	// RateLimit of 0 disables rate limiting.
	RateLimit  int           `validate:"gte=0"`
	RateWindow time.Duration `validate:"gt=0"`

	Port    int `validate:"gt=0,lte=65535"`
	Verbose bool
}

// Defaults returns the configuration used when no environment overrides
// are present. The API key has no default.
func Defaults() Config {
	return Config{
		Provider:       ProviderAnthropic,
		Model:          "claude-3-5-sonnet-20241022",
		MaxTokens:      4096,
		Temperature:    0.7,
		MaxRetries:     3,
		BaseDelay:      500 * time.Millisecond,
		MaxDelay:       10 * time.Second,
		RequestTimeout: 60 * time.Second,
		RateLimit:      10,
		RateWindow:     time.Minute,
		Port:           8080,
	}
}

// Load assembles a Config from the environment on top of Defaults. A
// missing API key is reported as a gateway.ConfigurationError so callers
// can distinguish it from transport failures.
func Load() (*Config, error) {
	cfg := Defaults()

	cfg.Provider = envString("PROVIDER", cfg.Provider)
	cfg.Model = envString("MODEL", modelDefault(cfg.Provider))
	cfg.APIKey = envString(apiKeyVar(cfg.Provider), "")

	var err error
	if cfg.MaxTokens, err = envInt("MAX_TOKENS", cfg.MaxTokens); err != nil {
		return nil, err
	}
	if cfg.Temperature, err = envFloat("TEMPERATURE", cfg.Temperature); err != nil {
		return nil, err
	}
	if cfg.MaxRetries, err = envInt("MAX_RETRIES", cfg.MaxRetries); err != nil {
		return nil, err
	}
	if cfg.BaseDelay, err = envDuration("RETRY_BASE_DELAY", cfg.BaseDelay); err != nil {
		return nil, err
	}
	if cfg.MaxDelay, err = envDuration("RETRY_MAX_DELAY", cfg.MaxDelay); err != nil {
		return nil, err
	}
	if cfg.RequestTimeout, err = envDuration("REQUEST_TIMEOUT", cfg.RequestTimeout); err != nil {
		return nil, err
	}
	if cfg.RateLimit, err = envInt("RATE_LIMIT", cfg.RateLimit); err != nil {
		return nil, err
	}
	if cfg.RateWindow, err = envDuration("RATE_WINDOW", cfg.RateWindow); err != nil {
		return nil, err
	}
	if cfg.Port, err = envInt("PORT", cfg.Port); err != nil {
		return nil, err
	}
	cfg.Verbose = envString("VERBOSE", "") == "true"

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the assembled configuration.
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return &gateway.ConfigurationError{Missing: apiKeyVar(c.Provider)}
	}
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// GatewayOptions maps the config onto the gateway's knobs.
func (c *Config) GatewayOptions() gateway.Options {
	return gateway.Options{
		MaxRetries:     c.MaxRetries,
		BaseDelay:      c.BaseDelay,
		MaxDelay:       c.MaxDelay,
		RequestTimeout: c.RequestTimeout,
		RateLimit:      c.RateLimit,
		RateWindow:     c.RateWindow,
	}
}

func apiKeyVar(provider string) string {
	if provider == ProviderGemini {
		return "GEMINI_API_KEY"
	}
	return "ANTHROPIC_API_KEY"
}

func modelDefault(provider string) string {
	if provider == ProviderGemini {
		return "gemini-2.0-flash"
	}
	return Defaults().Model
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return parsed, nil
}

func envFloat(key string, fallback float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	parsed, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return parsed, nil
}

func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	parsed, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return parsed, nil
}
