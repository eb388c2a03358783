package auth

import (
	"context"

	"github.com/golang-jwt/jwt/v5"
)

// Identity is the verified session attached to a request.
type Identity struct {
	Email  string
	Claims jwt.MapClaims
}

func NewIdentity(c jwt.MapClaims) Identity {
	email, _ := c["email"].(string)
	return Identity{Email: email, Claims: c}
}

type ctxKey struct{}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

func IdentityFrom(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(ctxKey{}).(Identity)
	return id, ok
}
