package service

import (
	"testing"
	"time"

	"github.com/eventmarket/auth/internal/auth/store/drivers/sqlite"
	"github.com/eventmarket/auth/pkg/cryptox"
	"github.com/eventmarket/auth/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret-test-secret-test-secret!")

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()
	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	require.NoError(t, st.ApplyMigrations())
	t.Cleanup(func() { _ = st.Close() })
	return st
}

// clock is a settable time source shared by the codec and the issuer.
type clock struct{ t time.Time }

func (c *clock) Now() time.Time          { return c.t }
func (c *clock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTokenService(t *testing.T, c *clock) *TokenService {
	t.Helper()
	codec, err := jwtx.NewHMACCodec(testSecret, "HS256")
	require.NoError(t, err)
	return &TokenService{
		Codec:      codec.WithClock(c.Now),
		AccessTTL:  time.Hour,
		RefreshTTL: 14 * 24 * time.Hour,
		Now:        c.Now,
	}
}

func newUserService(t *testing.T, st *sqlite.Store) *UserService {
	t.Helper()
	svc := &UserService{Store: st, Hasher: cryptox.NewPasswordHasher("test-pepper")}
	require.NoError(t, svc.PrepareTimingGuard())
	return svc
}
