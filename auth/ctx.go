package auth

import "context"

var claimsCtxKey = &contextKey{"claims"}

type contextKey struct {
	name string
}

// WithClaimsContext sets the verified claims in the given context. The
// resulting security context lives and dies with the request that owns it.
func WithClaimsContext(ctx context.Context, claims *JWTClaims) context.Context {
	return context.WithValue(ctx, claimsCtxKey, claims)
}

// ClaimsFromContext extracts the verified claims from the context
func ClaimsFromContext(ctx context.Context) (*JWTClaims, bool) {
	raw, ok := ctx.Value(claimsCtxKey).(*JWTClaims)
	return raw, ok
}

// RoleFromContext resolves the request's role, false when anonymous or the
// role is outside the closed set.
func RoleFromContext(ctx context.Context) (Role, bool) {
	claims, ok := ClaimsFromContext(ctx)
	if !ok {
		return "", false
	}
	return claims.Role()
}
