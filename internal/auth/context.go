package auth

import (
	"context"
	"errors"
)

// Principal is the authenticated identity consumed by the profile API.
type Principal struct {
	UserID       string
	Name         string
	Organization string
}

type ctxKey struct{}

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, ctxKey{}, p)
}

func PrincipalFrom(ctx context.Context) (Principal, error) {
	if p, ok := ctx.Value(ctxKey{}).(Principal); ok && p.UserID != "" {
		return p, nil
	}
	return Principal{}, errors.New("principal not in context")
}
