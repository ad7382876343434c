package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/eventmarket/auth/internal/auth/domain"
	"github.com/eventmarket/auth/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func TestIssuePair(t *testing.T) {
	ctx := context.Background()
	c := &clock{t: time.Date(2026, 5, 1, 9, 30, 0, 0, time.UTC)}
	svc := newTokenService(t, c)

	pair, err := svc.IssuePair(ctx, domain.Principal{ID: "user-1"}, jwtx.AMRPassword)
	require.NoError(t, err)

	access, err := svc.Codec.Decode(pair.Access.Token)
	require.NoError(t, err)
	refresh, err := svc.Codec.Decode(pair.Refresh.Token)
	require.NoError(t, err)

	require.Equal(t, "user-1", access.Subject)
	require.Equal(t, access.Subject, refresh.Subject)
	require.Equal(t, access.ID, refresh.ID)
	require.NotEmpty(t, access.ID)
	require.True(t, access.IssuedAt.Equal(refresh.IssuedAt.Time))

	require.True(t, access.Expiry().Before(refresh.Expiry()))
	require.True(t, pair.Access.ExpiresAt.Equal(c.t.Add(time.Hour)))
	require.True(t, pair.Refresh.ExpiresAt.Equal(c.t.Add(14*24*time.Hour)))
	require.True(t, pair.Access.ExpiresAt.Equal(access.Expiry()))
	require.Equal(t, []string{"pwd"}, access.AMR)
	require.Equal(t, jwtx.UseAccess, access.Use)
	require.Equal(t, jwtx.UseRefresh, refresh.Use)
}

func TestIssuePairFreshTokenIDPerEvent(t *testing.T) {
	ctx := context.Background()
	svc := newTokenService(t, &clock{t: time.Now()})

	a, err := svc.IssuePair(ctx, domain.Principal{ID: "user-1"})
	require.NoError(t, err)
	b, err := svc.IssuePair(ctx, domain.Principal{ID: "user-1"})
	require.NoError(t, err)

	ca, err := svc.Codec.Decode(a.Access.Token)
	require.NoError(t, err)
	cb, err := svc.Codec.Decode(b.Access.Token)
	require.NoError(t, err)
	require.NotEqual(t, ca.ID, cb.ID)
}

func TestIssuePairRequiresPrincipal(t *testing.T) {
	svc := newTokenService(t, &clock{t: time.Now()})

	_, err := svc.IssuePair(context.Background(), domain.Principal{})
	require.ErrorIs(t, err, ErrInvalidRequest)
}

func TestIssueSingleKeepsIdentity(t *testing.T) {
	ctx := context.Background()
	c := &clock{t: time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)}
	svc := newTokenService(t, c)

	tmpl := jwtx.NewClaims("user-1", "tid-1", c.t, time.Minute, nil).WithExt("provider", "google")
	c.Advance(30 * time.Second)

	tok, err := svc.IssueSingle(ctx, tmpl, time.Hour)
	require.NoError(t, err)
	require.True(t, tok.ExpiresAt.Equal(c.t.Add(time.Hour)))

	got, err := svc.Codec.Decode(tok.Token)
	require.NoError(t, err)
	require.Equal(t, "user-1", got.Subject)
	require.Equal(t, "tid-1", got.ID)
	require.True(t, got.IssuedAt.Equal(tmpl.IssuedAt.Time))
	require.Equal(t, "google", got.Ext["provider"])
	require.Contains(t, got.AMR, jwtx.AMRRefresh)

	_, err = svc.IssueSingle(ctx, jwtx.Claims{}, time.Hour)
	require.ErrorIs(t, err, jwtx.ErrInvalidClaim)
}

func TestRefresh(t *testing.T) {
	ctx := context.Background()
	c := &clock{t: time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)}
	svc := newTokenService(t, c)

	pair, err := svc.IssuePair(ctx, domain.Principal{ID: "user-1"}, jwtx.AMRPassword)
	require.NoError(t, err)
	orig, err := svc.Codec.Decode(pair.Access.Token)
	require.NoError(t, err)

	c.Advance(10 * time.Minute)

	renewed, err := svc.Refresh(ctx, pair.Refresh.Token)
	require.NoError(t, err)
	require.True(t, renewed.ExpiresAt.After(pair.Access.ExpiresAt))

	got, err := svc.Codec.Decode(renewed.Token)
	require.NoError(t, err)
	require.Equal(t, orig.Subject, got.Subject)
	require.Equal(t, orig.ID, got.ID)
	require.Equal(t, []string{"pwd", "refresh"}, got.AMR)
}

func TestRefreshWithinIssuingSecond(t *testing.T) {
	ctx := context.Background()
	c := &clock{t: time.Date(2026, 5, 1, 9, 0, 0, 100_000_000, time.UTC)}
	svc := newTokenService(t, c)

	pair, err := svc.IssuePair(ctx, domain.Principal{ID: "user-1"}, jwtx.AMRPassword)
	require.NoError(t, err)

	c.Advance(500 * time.Millisecond)

	renewed, err := svc.Refresh(ctx, pair.Refresh.Token)
	require.NoError(t, err)
	require.True(t, renewed.ExpiresAt.After(pair.Access.ExpiresAt),
		"renewed %s, original %s", renewed.ExpiresAt, pair.Access.ExpiresAt)

	got, err := svc.Codec.Decode(renewed.Token)
	require.NoError(t, err)
	require.True(t, got.Expiry().Equal(renewed.ExpiresAt))
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	ctx := context.Background()
	c := &clock{t: time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)}
	svc := newTokenService(t, c)

	pair, err := svc.IssuePair(ctx, domain.Principal{ID: "user-1"})
	require.NoError(t, err)

	_, err = svc.Refresh(ctx, pair.Access.Token)
	require.ErrorIs(t, err, ErrTokenInvalid)
	require.Equal(t, "claims", jwtx.Kind(err))

	// A renewed access token cannot be chained into another renewal.
	renewed, err := svc.Refresh(ctx, pair.Refresh.Token)
	require.NoError(t, err)
	_, err = svc.Refresh(ctx, renewed.Token)
	require.ErrorIs(t, err, jwtx.ErrInvalidClaim)
}

func TestRefreshRejects(t *testing.T) {
	ctx := context.Background()
	c := &clock{t: time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)}
	svc := newTokenService(t, c)

	pair, err := svc.IssuePair(ctx, domain.Principal{ID: "user-1"})
	require.NoError(t, err)

	t.Run("empty", func(t *testing.T) {
		_, err := svc.Refresh(ctx, "")
		require.ErrorIs(t, err, ErrTokenInvalid)
	})

	t.Run("tampered", func(t *testing.T) {
		parts := strings.Split(pair.Refresh.Token, ".")
		payload := []byte(parts[1])
		mid := len(payload) / 2
		if payload[mid] == 'x' {
			payload[mid] = 'y'
		} else {
			payload[mid] = 'x'
		}
		_, err := svc.Refresh(ctx, parts[0]+"."+string(payload)+"."+parts[2])
		require.ErrorIs(t, err, ErrTokenInvalid)
	})

	t.Run("expired", func(t *testing.T) {
		late := &clock{t: c.t.Add(15 * 24 * time.Hour)}
		_, err := newTokenService(t, late).Refresh(ctx, pair.Refresh.Token)
		require.ErrorIs(t, err, ErrTokenInvalid)
		require.ErrorIs(t, err, jwtx.ErrExpired)
	})

	t.Run("other secret", func(t *testing.T) {
		other, err := jwtx.NewHMACCodec([]byte(strings.Repeat("z", 32)), "HS256")
		require.NoError(t, err)
		svc2 := &TokenService{Codec: other, Now: c.Now}
		_, err = svc2.Refresh(ctx, pair.Refresh.Token)
		require.ErrorIs(t, err, ErrTokenInvalid)
	})
}
