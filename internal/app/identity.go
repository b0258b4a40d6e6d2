package app

import (
	"context"

	"quiz-session-service/internal/domain"
)

type userContextKey struct{}

// WithUser attaches a signed-in user to the context for ContextIdentity.
func WithUser(ctx context.Context, user domain.User) context.Context {
	return context.WithValue(ctx, userContextKey{}, user)
}

// ContextIdentity resolves the current user from the request context. The
// transport layer authenticates the connection and attaches the identity via
// WithUser; anything without one is unauthenticated.
type ContextIdentity struct{}

func (ContextIdentity) CurrentUser(ctx context.Context) (domain.User, error) {
	user, ok := ctx.Value(userContextKey{}).(domain.User)
	if !ok || user.ID == "" {
		return domain.User{}, domain.ErrUnauthenticated
	}
	return user, nil
}
