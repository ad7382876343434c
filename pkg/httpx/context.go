package httpx

import (
	"context"

	"github.com/eventmarket/auth/pkg/jwtx"
)

type ctxKey string

const (
	CtxKeyPrincipal ctxKey = "principal"
	CtxKeyClaims    ctxKey = "claims"
)

// PrincipalFromContext returns the authenticated subject set by
// AuthnMiddleware.
func PrincipalFromContext(ctx context.Context) (string, bool) {
	sub, ok := ctx.Value(CtxKeyPrincipal).(string)
	return sub, ok && sub != ""
}

// ClaimsFromContext returns the decoded session claims set by
// AuthnMiddleware.
func ClaimsFromContext(ctx context.Context) (jwtx.Claims, bool) {
	c, ok := ctx.Value(CtxKeyClaims).(jwtx.Claims)
	return c, ok
}

// WithClaims stores the principal and its claims on ctx.
func WithClaims(ctx context.Context, c jwtx.Claims) context.Context {
	ctx = context.WithValue(ctx, CtxKeyPrincipal, c.Subject)
	return context.WithValue(ctx, CtxKeyClaims, c)
}
