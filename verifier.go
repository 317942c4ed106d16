package authgate

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

// Verifier checks tokens against the shared HMAC-SHA256 secret and decodes
// their claims. Verification is a single synchronous attempt per call; a
// failed check is final for that token.
type Verifier struct {
	secret    []byte
	issuer    string
	audience  string
	clockSkew time.Duration
}

// NewVerifier builds a verifier from the given configuration.
func NewVerifier(cfg Config) *Verifier {
	cfg.normalize()
	v := &Verifier{
		issuer:    cfg.Issuer,
		audience:  cfg.Audience,
		clockSkew: cfg.ClockSkew,
	}
	if cfg.Secret != "" {
		v.secret = []byte(cfg.Secret)
	}
	return v
}

// configured reports whether a signing secret is present.
func (v *Verifier) configured() bool {
	return len(v.secret) > 0
}

// Verify validates the token signature and registered claims and returns the
// normalized claims. An unconfigured secret is reported as a configuration
// fault, never as an invalid token.
func (v *Verifier) Verify(ctx context.Context, token string) (*Claims, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(v.secret) == 0 {
		return nil, newError(ErrCodeMisconfigured, errors.New("signing secret is not configured"))
	}
	if token == "" {
		return nil, newError(ErrCodeInvalidToken, errors.New("token is empty"))
	}

	parsed, err := jwt.Parse(
		[]byte(token),
		jwt.WithKey(jwa.HS256, v.secret),
		jwt.WithValidate(false),
	)
	if err != nil {
		return nil, classifyParseError(err)
	}

	validateOpts := []jwt.ValidateOption{
		jwt.WithAcceptableSkew(v.clockSkew),
	}
	if v.issuer != "" {
		validateOpts = append(validateOpts, jwt.WithIssuer(v.issuer))
	}
	if v.audience != "" {
		validateOpts = append(validateOpts, jwt.WithAudience(v.audience))
	}
	if err := jwt.Validate(parsed, validateOpts...); err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired()):
			return nil, newError(ErrCodeExpired, err)
		case errors.Is(err, jwt.ErrTokenNotYetValid()):
			return nil, newError(ErrCodeNotYetValid, err)
		case errors.Is(err, jwt.ErrInvalidIssuer()):
			return nil, newError(ErrCodeInvalidIssuer, err)
		case errors.Is(err, jwt.ErrInvalidAudience()):
			return nil, newError(ErrCodeInvalidAudience, err)
		default:
			return nil, newError(ErrCodeInvalidToken, err)
		}
	}

	claims := extractClaims(parsed)
	if claims.Subject == "" {
		return nil, newError(ErrCodeMalformedClaims, errors.New("subject claim is missing"))
	}
	return claims, nil
}

// classifyParseError distinguishes structural failures from signature
// mismatches. jwx reports both through parse, so the mapping keys off the
// error text the way the upstream JWKS path used to.
func classifyParseError(err error) error {
	lower := strings.ToLower(err.Error())
	switch {
	case strings.Contains(lower, "failed to split compact"),
		strings.Contains(lower, "invalid number of segments"),
		strings.Contains(lower, "failed to parse jws"),
		strings.Contains(lower, "failed to decode"),
		strings.Contains(lower, "failed to unmarshal"):
		return newError(ErrCodeMalformedClaims, err)
	}
	return newError(ErrCodeInvalidToken, err)
}

func extractClaims(token jwt.Token) *Claims {
	private := token.PrivateClaims()
	var audience []string
	if audList := token.Audience(); len(audList) > 0 {
		audience = append([]string(nil), audList...)
	}
	claims := &Claims{
		Subject:   token.Subject(),
		Issuer:    token.Issuer(),
		Audience:  audience,
		ExpiresAt: token.Expiration(),
		NotBefore: token.NotBefore(),
		IssuedAt:  token.IssuedAt(),
	}

	if v, ok := token.Get("email"); ok {
		if s, ok := v.(string); ok {
			claims.Email = strings.ToLower(s)
		}
	}
	if len(private) > 0 {
		claims.CustomClaims = make(map[string]any, len(private))
		for k, v := range private {
			claims.CustomClaims[k] = v
		}
	}
	if appMeta, ok := private["app_metadata"]; ok {
		claims.AppMetadata = toMap(appMeta)
	}
	if userMeta, ok := private["user_metadata"]; ok {
		claims.UserMetadata = toMap(userMeta)
	}
	claims.Role = resolveRole(claims.AppMetadata, private)
	return claims
}

// resolveRole prefers the role nested in app_metadata over the top-level
// claim; a token with neither simply has no role.
func resolveRole(appMetadata map[string]any, private map[string]any) string {
	if appMetadata != nil {
		if role, ok := appMetadata["role"].(string); ok && role != "" {
			return role
		}
	}
	if role, ok := private["role"].(string); ok {
		return role
	}
	return ""
}

func toMap(value any) map[string]any {
	switch m := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(m))
		for k, v := range m {
			out[k] = v
		}
		return out
	default:
		return nil
	}
}
