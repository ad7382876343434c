package httpx

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/eventmarket/auth/pkg/cryptox"
	"github.com/eventmarket/auth/pkg/jwtx"
	"github.com/eventmarket/auth/pkg/slogx"
)

// AuthnMiddleware authenticates the request from a bearer token or, when no
// Authorization header is present, from the named cookie. On success the
// principal and claims are stored in the request context. Refresh tokens
// are not accepted here.
func AuthnMiddleware(v jwtx.Verifier, cookieName string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			raw, ok := tokenFromRequest(r, cookieName)
			if !ok {
				writeBearerError(w, "missing token")
				return
			}

			claims, err := v.Decode(raw)
			if err == nil && claims.IsRefresh() {
				err = fmt.Errorf("%w: refresh token used for access", jwtx.ErrInvalidClaim)
			}
			if err != nil {
				// Kind is for the log only; the caller just has to sign in again.
				log.Info("session token rejected",
					"kind", jwtx.Kind(err),
					"token_fp", cryptox.FingerprintToken(raw),
				)
				writeBearerError(w, "token is invalid or expired")
				return
			}

			ctx = slogx.WithPrincipal(WithClaims(ctx, claims), claims.Subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// BearerToken returns the token of an "Authorization: Bearer" header.
func BearerToken(r *http.Request) (string, bool) {
	authz := r.Header.Get("Authorization")
	scheme, tok, found := strings.Cut(authz, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	tok = strings.TrimSpace(tok)
	return tok, tok != ""
}

func tokenFromRequest(r *http.Request, cookieName string) (string, bool) {
	if r.Header.Get("Authorization") != "" {
		return BearerToken(r)
	}
	if cookieName == "" {
		return "", false
	}
	c, err := r.Cookie(cookieName)
	if err != nil || c.Value == "" {
		return "", false
	}
	return c.Value, true
}

// RFC 6750-compliant error response for bearer auth.
func writeBearerError(w http.ResponseWriter, desc string) {
	w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token", error_description="`+desc+`"`)
	WriteError(w, http.StatusUnauthorized, "invalid_token", desc)
}
