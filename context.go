package authgate

import "context"

type identityContextKey struct{}

// BindIdentity stores the identity inside the context for downstream
// consumers. The binding is write-once: if the context already carries an
// identity, the original binding wins and ctx is returned unchanged.
func BindIdentity(ctx context.Context, identity Identity) context.Context {
	if _, bound := IdentityFromContext(ctx); bound {
		return ctx
	}
	return context.WithValue(ctx, identityContextKey{}, identity)
}

// IdentityFromContext retrieves the identity previously bound to the context.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	if ctx == nil {
		return Identity{}, false
	}
	value := ctx.Value(identityContextKey{})
	if value == nil {
		return Identity{}, false
	}
	identity, ok := value.(Identity)
	return identity, ok
}
