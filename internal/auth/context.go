package auth

import (
	"context"

	"github.com/timster/go-api/internal/user"
)

// ContextKey is a type for context keys to avoid collisions
type ContextKey string

const identityContextKey ContextKey = "identity"

// WithIdentity binds the authenticated identity into the request context.
// The binding is request-scoped; nothing outlives the request.
func WithIdentity(ctx context.Context, u *user.User) context.Context {
	return context.WithValue(ctx, identityContextKey, u)
}

// IdentityFromContext extracts the authenticated identity, if one was bound.
func IdentityFromContext(ctx context.Context) (*user.User, bool) {
	u, ok := ctx.Value(identityContextKey).(*user.User)
	return u, ok && u != nil
}
