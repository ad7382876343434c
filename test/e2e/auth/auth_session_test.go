//go:build e2e

package auth_test

import (
	"testing"

	"github.com/eventmarket/auth/pkg/authsdk"
	"github.com/stretchr/testify/require"
)

// TestRegisterAndLogin covers local registration and password sign in.
func TestRegisterAndLogin(t *testing.T) {
	baseURL, cleanup := setupAuthContainer(t)
	defer cleanup()
	ctx := t.Context()

	_, reg := registerUser(t, baseURL, "a@x.com")

	login, err := authsdk.NewSDKClient(baseURL).Login(ctx, authsdk.LoginRequest{
		Email:    "a@x.com",
		Password: testPassword,
	})
	require.NoError(t, err)
	require.Equal(t, reg.User.ID, login.User.ID)

	_, err = authsdk.NewSDKClient(baseURL).Login(ctx, authsdk.LoginRequest{
		Email:    "a@x.com",
		Password: "wrongpass",
	})
	require.ErrorIs(t, err, authsdk.ErrInvalidCredentials)

	_, err = authsdk.NewSDKClient(baseURL).Register(ctx, authsdk.RegisterRequest{
		Email:           "A@X.COM",
		Password:        testPassword,
		ConfirmPassword: testPassword,
	})
	require.ErrorIs(t, err, authsdk.ErrAlreadyRegistered)
}

// TestCookieSession checks that the cookies set at registration carry the
// session through /v1/user, refresh and logout.
func TestCookieSession(t *testing.T) {
	baseURL, cleanup := setupAuthContainer(t)
	defer cleanup()
	ctx := t.Context()

	client, reg := registerUser(t, baseURL, "cookie@x.com")

	me, err := client.Me(ctx, "")
	require.NoError(t, err)
	require.Equal(t, reg.User.ID, me.ID)
	require.True(t, me.HasPassword)

	renewed, err := client.Refresh(ctx, "")
	require.NoError(t, err)
	require.NotEmpty(t, renewed.AccessToken)

	require.NoError(t, client.Logout(ctx))

	_, err = client.Me(ctx, "")
	require.ErrorIs(t, err, authsdk.ErrInvalidToken)
}

// TestBearerSession uses the form token endpoint and explicit tokens.
func TestBearerSession(t *testing.T) {
	baseURL, cleanup := setupAuthContainer(t)
	defer cleanup()
	ctx := t.Context()

	registerUser(t, baseURL, "bearer@x.com")

	client := authsdk.NewSDKClient(baseURL)
	tok, err := client.PasswordToken(ctx, "bearer@x.com", testPassword)
	require.NoError(t, err)
	assertTokenResponse(t, tok)

	// A fresh client without cookies.
	other := authsdk.NewSDKClient(baseURL)
	me, err := other.Me(ctx, tok.AccessToken)
	require.NoError(t, err)
	require.Equal(t, "bearer@x.com", me.Email)

	renewed, err := other.Refresh(ctx, tok.RefreshToken)
	require.NoError(t, err)

	me, err = authsdk.NewSDKClient(baseURL).Me(ctx, renewed.AccessToken)
	require.NoError(t, err)
	require.Equal(t, "bearer@x.com", me.Email)

	_, err = other.Refresh(ctx, tok.RefreshToken+"x")
	require.ErrorIs(t, err, authsdk.ErrInvalidToken)
}

// TestGoogleLoginUpstreamDown reports an unreachable provider as 502.
func TestGoogleLoginUpstreamDown(t *testing.T) {
	baseURL, cleanup := startContainer(t, func() map[string]string {
		env := baseEnv()
		env["AUTH_GOOGLE_USERINFO_URL"] = "http://127.0.0.1:1/userinfo"
		return env
	}())
	defer cleanup()

	_, err := authsdk.NewSDKClient(baseURL).Login(t.Context(), authsdk.LoginRequest{GoogleToken: "whatever"})
	require.ErrorIs(t, err, authsdk.ErrUpstream)
}
