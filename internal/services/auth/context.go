package auth

import "context"

type principalContextKey string

const principalKey principalContextKey = "auth_principal"

// Principal is the authenticated identity attached to a request after
// access token verification. Only the user id is carried.
type Principal struct {
	UserID int64
}

func WithPrincipal(ctx context.Context, principal Principal) context.Context {
	return context.WithValue(ctx, principalKey, principal)
}

func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	principal, ok := ctx.Value(principalKey).(Principal)
	return principal, ok
}
