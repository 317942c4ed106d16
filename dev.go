package authgate

// DevBypassIdentity holds attributes used when issuing a synthetic identity
// in dev mode. It is only consulted for requests carrying no credentials and
// never outside dev mode.
type DevBypassIdentity struct {
	Subject string
	Email   string
	Role    string
}

// Identity converts the dev bypass configuration into a request identity.
func (d DevBypassIdentity) Identity() Identity {
	return Identity{
		Subject: d.Subject,
		Email:   d.Email,
		Role:    d.Role,
	}
}

// DefaultDevBypass returns a baseline identity suitable for local development.
func DefaultDevBypass() DevBypassIdentity {
	return DevBypassIdentity{
		Subject: "dev-bypass",
		Role:    "authenticated",
	}
}
