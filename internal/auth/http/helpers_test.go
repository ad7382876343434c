package http

import (
	"context"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/eventmarket/auth/internal/auth/domain"
	"github.com/eventmarket/auth/internal/auth/google"
	"github.com/eventmarket/auth/internal/auth/service"
	"github.com/eventmarket/auth/internal/auth/store/drivers/sqlite"
	"github.com/eventmarket/auth/pkg/authsdk"
	"github.com/eventmarket/auth/pkg/cryptox"
	"github.com/eventmarket/auth/pkg/httpx"
	"github.com/eventmarket/auth/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("http-test-secret-http-test-secret")

// fakeGoogle maps access tokens to profiles.
type fakeGoogle map[string]domain.ProviderProfile

func (f fakeGoogle) Fetch(_ context.Context, accessToken string) (domain.ProviderProfile, error) {
	switch accessToken {
	case "down":
		return domain.ProviderProfile{}, google.ErrUpstream
	}
	p, ok := f[accessToken]
	if !ok {
		return domain.ProviderProfile{}, google.ErrTokenRejected
	}
	return p, nil
}

type testEnv struct {
	server  *httptest.Server
	router  *Router
	codec   *jwtx.HMACCodec
	metrics *Metrics
}

func unlimited() httpx.RateLimitConfig {
	return httpx.RateLimitConfig{RequestsPerWindow: 10000, Window: time.Second, Burst: 10000}
}

func newTestEnv(t *testing.T, g fakeGoogle, autoRegister bool) *testEnv {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	require.NoError(t, st.ApplyMigrations())
	t.Cleanup(func() { _ = st.Close() })

	codec, err := jwtx.NewHMACCodec(testSecret, "HS256")
	require.NoError(t, err)

	users := &service.UserService{Store: st, Hasher: cryptox.NewPasswordHasher("http-test-pepper")}
	require.NoError(t, users.PrepareTimingGuard())

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	r := NewRouter(codec, "test", st, logger)
	r.TokenService = &service.TokenService{Codec: codec, AccessTTL: time.Hour, RefreshTTL: 48 * time.Hour}
	r.UserService = users
	r.FederationService = &service.FederationService{Store: st}
	r.Google = g
	r.AutoRegister = autoRegister
	r.Limits = RateLimits{Credential: unlimited(), Session: unlimited(), Read: unlimited()}
	r.Metrics = NewMetrics(nil)
	r.ApplyRoutes()

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	return &testEnv{server: srv, router: r, codec: codec, metrics: r.Metrics}
}

func (e *testEnv) client() *authsdk.SDKClient {
	return authsdk.NewSDKClient(e.server.URL)
}

func googleProfile(sub, email string) domain.ProviderProfile {
	return domain.ProviderProfile{
		Provider:      domain.ProviderGoogle,
		Subject:       sub,
		Email:         email,
		EmailVerified: true,
		GivenName:     "Gina",
		FamilyName:    "Google",
		Picture:       "https://example.com/" + sub + ".png",
	}
}
