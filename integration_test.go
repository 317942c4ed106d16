package authgate

import (
	"context"
	"net/http"
	"os"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
)

// TestProviderIntegration exercises the gate against a real managed auth
// deployment. It needs a live project and a token minted for it, so it only
// runs when explicitly requested.
func TestProviderIntegration(t *testing.T) {
	if os.Getenv("RUN_INTEGRATION_TESTS") != "true" {
		t.Skip("RUN_INTEGRATION_TESTS not set to true")
	}

	secret := strings.TrimSpace(os.Getenv("AUTHGATE_SECRET"))
	if secret == "" {
		t.Fatal("AUTHGATE_SECRET environment variable required")
	}
	token := strings.TrimSpace(os.Getenv("AUTHGATE_TEST_TOKEN"))
	if token == "" {
		t.Fatal("AUTHGATE_TEST_TOKEN environment variable required")
	}

	cfg := Config{
		Secret:    secret,
		Issuer:    os.Getenv("AUTHGATE_ISSUER"),
		Audience:  os.Getenv("AUTHGATE_AUDIENCE"),
		ClockSkew: time.Minute,
	}
	if baseURL := os.Getenv("AUTHGATE_UPSTREAM_URL"); baseURL != "" {
		cfg.Upstream = &UpstreamConfig{
			BaseURL:    baseURL,
			ServiceKey: os.Getenv("AUTHGATE_SERVICE_KEY"),
		}
	}

	gate, err := New(cfg, zap.NewNop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer gate.Close()

	h := http.Header{}
	h.Set("Authorization", "Bearer "+token)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	identity, err := gate.Authenticate(ctx, h)
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if identity.Subject == "" {
		t.Fatal("identity.Subject empty")
	}
}
