package httpx_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/eventmarket/auth/pkg/httpx"
	"github.com/eventmarket/auth/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func newTestCodec(t *testing.T) *jwtx.HMACCodec {
	t.Helper()
	c, err := jwtx.NewHMACCodec([]byte("0123456789abcdef0123456789abcdef"), "HS256")
	require.NoError(t, err)
	return c
}

func TestAuthnMiddleware(t *testing.T) {
	codec := newTestCodec(t)
	tok, err := codec.Encode(jwtx.NewClaims("user-1", "tid-1", time.Now(), time.Hour, nil))
	require.NoError(t, err)

	var seen string
	h := httpx.AuthnMiddleware(codec, "access")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = httpx.PrincipalFromContext(r.Context())
		claims, ok := httpx.ClaimsFromContext(r.Context())
		require.True(t, ok)
		require.Equal(t, "tid-1", claims.ID)
		w.WriteHeader(http.StatusNoContent)
	}))

	t.Run("bearer header", func(t *testing.T) {
		seen = ""
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+tok)
		rec := serve(h, req)
		require.Equal(t, http.StatusNoContent, rec.Code)
		require.Equal(t, "user-1", seen)
	})

	t.Run("cookie", func(t *testing.T) {
		seen = ""
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: "access", Value: tok})
		require.Equal(t, http.StatusNoContent, serve(h, req).Code)
		require.Equal(t, "user-1", seen)
	})

	t.Run("missing token", func(t *testing.T) {
		rec := serve(h, httptest.NewRequest(http.MethodGet, "/", nil))
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Contains(t, rec.Header().Get("WWW-Authenticate"), "invalid_token")
	})

	t.Run("non bearer scheme ignores cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Basic Zm9vOmJhcg==")
		req.AddCookie(&http.Cookie{Name: "access", Value: tok})
		require.Equal(t, http.StatusUnauthorized, serve(h, req).Code)
	})

	t.Run("expired token", func(t *testing.T) {
		old, err := codec.Encode(jwtx.NewClaims("user-1", "tid-1", time.Now().Add(-2*time.Hour), time.Hour, nil))
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+old)
		rec := serve(h, req)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Contains(t, rec.Body.String(), "invalid_token")
	})

	t.Run("refresh token", func(t *testing.T) {
		refresh, err := codec.Encode(jwtx.NewClaims("user-1", "tid-1", time.Now(), time.Hour, nil).WithUse(jwtx.UseRefresh))
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+refresh)
		require.Equal(t, http.StatusUnauthorized, serve(h, req).Code)
	})
}

func TestChainOrder(t *testing.T) {
	var order []string
	mw := func(name string) httpx.Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := httpx.Chain(okHandler, mw("outer"), mw("inner"))
	serve(h, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, []string{"outer", "inner"}, order)
}
