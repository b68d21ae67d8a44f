package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/timster/go-api/internal/resource"
	"github.com/timster/go-api/internal/user"
)

// UserFinder looks up identities by username.
type UserFinder interface {
	FindByUsername(ctx context.Context, username string) (*user.User, error)
}

// Verifier checks presented credentials against stored identities.
type Verifier struct {
	users UserFinder
}

func NewVerifier(users UserFinder) *Verifier {
	return &Verifier{users: users}
}

// Verify resolves the identity for a presented (username, secret) pair.
// The secret may be either the identity's API key (exact match) or its
// password (one-way compare); an empty secret never matches. A missing user
// and a wrong secret produce the same nil result, so callers cannot be used
// for user enumeration. A non-nil error means storage failed, not that the
// credentials were rejected.
func (v *Verifier) Verify(ctx context.Context, username, secret string) (*user.User, error) {
	u, err := v.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, resource.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to look up identity: %w", err)
	}

	if u.CheckAPIKey(secret) || u.CheckPassword(secret) {
		return u, nil
	}

	return nil, nil
}
