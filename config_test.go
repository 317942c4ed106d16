package authgate

import (
	"testing"
	"time"
)

func TestFromEnv_RequiresSecret(t *testing.T) {
	t.Setenv("AUTHGATE_SECRET", "")

	if _, err := FromEnv(); err == nil {
		t.Fatal("expected error for missing secret")
	}
}

func TestFromEnv_FullConfig(t *testing.T) {
	t.Setenv("AUTHGATE_SECRET", "env-secret")
	t.Setenv("AUTHGATE_ISSUER", "https://auth.nimbusnote.app")
	t.Setenv("AUTHGATE_AUDIENCE", "authenticated")
	t.Setenv("AUTHGATE_CLOCK_SKEW", "1m")
	t.Setenv("AUTHGATE_REQUIRE_BEARER_PREFIX", "true")
	t.Setenv("AUTHGATE_DEV_MODE", "true")
	t.Setenv("AUTHGATE_UPSTREAM_URL", "https://project.example.co")
	t.Setenv("AUTHGATE_SERVICE_KEY", "service-key")
	t.Setenv("AUTHGATE_REDIS_ADDR", "localhost:6379")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}

	if cfg.Secret != "env-secret" {
		t.Fatalf("unexpected secret: %s", cfg.Secret)
	}
	if cfg.Issuer != "https://auth.nimbusnote.app" || cfg.Audience != "authenticated" {
		t.Fatalf("unexpected issuer/audience: %s / %s", cfg.Issuer, cfg.Audience)
	}
	if cfg.ClockSkew != time.Minute {
		t.Fatalf("unexpected clock skew: %s", cfg.ClockSkew)
	}
	if !cfg.RequireBearerPrefix || !cfg.DevMode {
		t.Fatalf("boolean flags not parsed: %+v", cfg)
	}
	if cfg.Upstream == nil || cfg.Upstream.BaseURL != "https://project.example.co" {
		t.Fatalf("upstream not configured: %+v", cfg.Upstream)
	}
	if cfg.Upstream.ServiceKey != "service-key" || cfg.Upstream.RedisAddr != "localhost:6379" {
		t.Fatalf("upstream fields not loaded: %+v", cfg.Upstream)
	}
}

func TestFromEnv_InvalidDuration(t *testing.T) {
	t.Setenv("AUTHGATE_SECRET", "env-secret")
	t.Setenv("AUTHGATE_CLOCK_SKEW", "soon")

	if _, err := FromEnv(); err == nil {
		t.Fatal("expected error for unparseable clock skew")
	}
}

func TestConfig_NormalizeDefaults(t *testing.T) {
	cfg := Config{Upstream: &UpstreamConfig{BaseURL: "https://project.example.co"}}
	cfg.normalize()

	if cfg.ClockSkew != defaultClockSkew {
		t.Fatalf("unexpected clock skew default: %s", cfg.ClockSkew)
	}
	if cfg.Upstream.HTTPTimeout != defaultHTTPTimeout {
		t.Fatalf("unexpected upstream timeout default: %s", cfg.Upstream.HTTPTimeout)
	}
	if cfg.Upstream.CacheTTL != defaultCacheTTL {
		t.Fatalf("unexpected cache TTL default: %s", cfg.Upstream.CacheTTL)
	}
}

func TestConfig_Validate(t *testing.T) {
	bypass := DefaultDevBypass()

	if err := (Config{Secret: "s", DevBypass: &bypass}).validate(); err == nil {
		t.Fatal("expected error for dev bypass without dev mode")
	}
	if err := (Config{Secret: "s", Upstream: &UpstreamConfig{}}).validate(); err == nil {
		t.Fatal("expected error for upstream without base URL")
	}
	if err := (Config{Secret: "s"}).validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
