package auth

import "context"

// Identity is the authenticated caller attached to a request context.
type Identity struct {
	UserID int64
	Email  string
	Admin  bool
}

type contextKey struct{}

// ContextWithIdentity attaches an identity to the context.
func ContextWithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

// IdentityFromContext returns the caller identity, if any.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(contextKey{}).(Identity)
	return id, ok
}
