package authctx

import (
	"context"

	"cosmeticpos-backend/internal/domain"
)

type contextKey string

const userContextKey contextKey = "currentUser"

// WithCurrentUser stores the freshly loaded acting user.
func WithCurrentUser(ctx context.Context, user *domain.User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

func FromContext(ctx context.Context) *domain.User {
	val, ok := ctx.Value(userContextKey).(*domain.User)
	if !ok {
		return nil
	}
	return val
}
