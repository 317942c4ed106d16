package authgate

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Gate composes token extraction, verification, and identity attachment into
// a single pipeline step. It holds no mutable state: the decision for a
// request is a pure function of its headers and the configuration loaded at
// startup, so re-running the gate on the same request yields the same result.
type Gate struct {
	verifier      *Verifier
	users         *UserService
	logger        *zap.Logger
	devMode       bool
	devBypass     *DevBypassIdentity
	requirePrefix bool
}

// New builds a gate from the given configuration. An empty signing secret is
// not rejected here; the gate serves and reports it as a server fault on
// every request, which keeps a half-configured deploy observable instead of
// crash-looping.
func New(cfg Config, logger *zap.Logger) (*Gate, error) {
	cfg.normalize()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	g := &Gate{
		verifier:      NewVerifier(cfg),
		logger:        logger,
		devMode:       cfg.DevMode,
		devBypass:     cfg.DevBypass,
		requirePrefix: cfg.RequireBearerPrefix,
	}
	if cfg.Secret == "" {
		logger.Warn("signing secret is not configured, all requests will be rejected")
	}
	if cfg.Upstream != nil {
		users, err := NewUserService(*cfg.Upstream)
		if err != nil {
			return nil, err
		}
		g.users = users
	}
	return g, nil
}

// Authenticate runs the full extraction and verification pipeline against the
// request headers and returns the identity to attach. It performs no side
// effects, so a cancelled request discards the partial work with nothing to
// undo.
func (g *Gate) Authenticate(ctx context.Context, h http.Header) (Identity, error) {
	// A missing secret outranks everything else: no request can be judged
	// without it, so even credential-less requests report the server fault.
	if !g.verifier.configured() {
		return Identity{}, newError(ErrCodeMisconfigured, errors.New("signing secret is not configured"))
	}

	token, ok := ExtractBearer(h, g.requirePrefix)
	if !ok {
		if g.devMode && g.devBypass != nil {
			return g.devBypass.Identity(), nil
		}
		return Identity{}, newError(ErrCodeMissingCredentials, nil)
	}

	claims, err := g.verifier.Verify(ctx, token)
	if err != nil {
		return Identity{}, err
	}

	if g.users != nil {
		if err := g.users.Check(ctx, token, claims.Subject); err != nil {
			return Identity{}, err
		}
	}

	return IdentityFromClaims(claims), nil
}

// Middleware wraps a handler with the gate. On rejection the next handler is
// never invoked and exactly one JSON error response is written; on success
// the identity is bound to the request context and next runs exactly once.
func (g *Gate) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := r.Header.Get("X-Request-ID")
			if requestID == "" {
				requestID = uuid.NewString()
			}

			identity, err := g.Authenticate(r.Context(), r.Header)
			if err != nil {
				code := CodeOf(err)
				// Log the failure reason only; the token never reaches the logs.
				g.logger.Warn("request rejected",
					zap.String("request_id", requestID),
					zap.String("reason", string(code)))
				writeRejection(w, err, g.devMode)
				return
			}

			g.logger.Debug("request authenticated",
				zap.String("request_id", requestID),
				zap.String("sub", identity.Subject),
				zap.String("email", identity.Email))

			next.ServeHTTP(w, r.WithContext(BindIdentity(r.Context(), identity)))
		})
	}
}

// Close releases resources held by the gate's collaborators.
func (g *Gate) Close() error {
	if g.users == nil {
		return nil
	}
	return g.users.Close()
}
