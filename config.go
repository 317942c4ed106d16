package authgate

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultClockSkew   = 30 * time.Second
	defaultHTTPTimeout = 5 * time.Second
	defaultCacheTTL    = 30 * time.Second
)

// Config describes everything the gate needs at startup. The signing secret
// is injected here once; nothing in the gate reads the environment after
// construction.
type Config struct {
	// Secret is the shared HMAC-SHA256 signing secret. An empty secret is
	// tolerated at construction so the gate can report the fault per request
	// as a server-side error instead of crashing mid-deploy, but no token
	// ever verifies against it.
	Secret string

	// Issuer and Audience, when set, are matched against the token claims.
	Issuer   string
	Audience string

	ClockSkew time.Duration

	// RequireBearerPrefix rejects Authorization values without the
	// "Bearer " prefix. The default (false) keeps the legacy behavior of
	// treating a prefixless header value as the raw token.
	RequireBearerPrefix bool

	// DevMode includes underlying failure detail in rejection bodies.
	DevMode bool

	// DevBypass, when set together with DevMode, issues a synthetic identity
	// for requests that carry no credentials.
	DevBypass *DevBypassIdentity

	// Upstream, when set, makes the gate confirm each verified token against
	// the managed auth provider.
	Upstream *UpstreamConfig
}

// UpstreamConfig describes the managed auth provider used for user lookups.
type UpstreamConfig struct {
	BaseURL     string
	ServiceKey  string
	HTTPTimeout time.Duration

	// RedisAddr enables a short-lived lookup cache when non-empty.
	RedisAddr string
	CacheTTL  time.Duration
}

// normalize sets default values for optional fields.
func (c *Config) normalize() {
	if c.ClockSkew <= 0 {
		c.ClockSkew = defaultClockSkew
	}
	if c.Upstream != nil {
		if c.Upstream.HTTPTimeout <= 0 {
			c.Upstream.HTTPTimeout = defaultHTTPTimeout
		}
		if c.Upstream.CacheTTL <= 0 {
			c.Upstream.CacheTTL = defaultCacheTTL
		}
	}
}

// validate ensures the configuration is usable.
func (c Config) validate() error {
	if c.DevBypass != nil && !c.DevMode {
		return errors.New("dev bypass requires dev mode")
	}
	if c.Upstream != nil && c.Upstream.BaseURL == "" {
		return errors.New("upstream base URL is required")
	}
	return nil
}

// FromEnv loads configuration from the process environment, reading an
// optional .env file first. The signing secret is required: a missing
// AUTHGATE_SECRET is a fatal configuration error to surface before serving.
func FromEnv() (Config, error) {
	_ = godotenv.Load()

	secret := os.Getenv("AUTHGATE_SECRET")
	if secret == "" {
		return Config{}, errors.New("AUTHGATE_SECRET is required")
	}

	cfg := Config{
		Secret:   secret,
		Issuer:   os.Getenv("AUTHGATE_ISSUER"),
		Audience: os.Getenv("AUTHGATE_AUDIENCE"),
	}

	if raw := os.Getenv("AUTHGATE_CLOCK_SKEW"); raw != "" {
		skew, err := time.ParseDuration(raw)
		if err != nil {
			return Config{}, fmt.Errorf("parse AUTHGATE_CLOCK_SKEW: %w", err)
		}
		cfg.ClockSkew = skew
	}
	if raw := os.Getenv("AUTHGATE_REQUIRE_BEARER_PREFIX"); raw != "" {
		strict, err := strconv.ParseBool(raw)
		if err != nil {
			return Config{}, fmt.Errorf("parse AUTHGATE_REQUIRE_BEARER_PREFIX: %w", err)
		}
		cfg.RequireBearerPrefix = strict
	}
	if raw := os.Getenv("AUTHGATE_DEV_MODE"); raw != "" {
		dev, err := strconv.ParseBool(raw)
		if err != nil {
			return Config{}, fmt.Errorf("parse AUTHGATE_DEV_MODE: %w", err)
		}
		cfg.DevMode = dev
	}

	if baseURL := os.Getenv("AUTHGATE_UPSTREAM_URL"); baseURL != "" {
		cfg.Upstream = &UpstreamConfig{
			BaseURL:    baseURL,
			ServiceKey: os.Getenv("AUTHGATE_SERVICE_KEY"),
			RedisAddr:  os.Getenv("AUTHGATE_REDIS_ADDR"),
		}
	}

	return cfg, nil
}
