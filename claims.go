package authgate

import "time"

// Claims represents normalized claims decoded from a verified token.
type Claims struct {
	Subject   string
	Issuer    string
	Audience  []string
	ExpiresAt time.Time
	NotBefore time.Time
	IssuedAt  time.Time

	Email        string
	Role         string
	CustomClaims map[string]any

	AppMetadata  map[string]any
	UserMetadata map[string]any
}

// Identity is the request-scoped subset of claims exposed to downstream
// handlers. It is created once per request and never mutated afterwards.
type Identity struct {
	Subject string
	Email   string
	Role    string
}

// IdentityFromClaims derives the downstream identity from verified claims.
func IdentityFromClaims(claims *Claims) Identity {
	if claims == nil {
		return Identity{}
	}
	return Identity{
		Subject: claims.Subject,
		Email:   claims.Email,
		Role:    claims.Role,
	}
}
