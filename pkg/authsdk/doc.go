/*
Package authsdk provides a client SDK for the marketplace authentication
service, together with the request, response and error types the service
itself writes.

# Overview

An SDKClient holds an HTTP client with a cookie jar. The service delivers
session tokens as HttpOnly cookies, so after Register or Login the same
client is signed in and later calls such as Me or Refresh need no token
arguments:

	client := authsdk.NewSDKClient("https://auth.example.com")

	resp, err := client.Register(ctx, authsdk.RegisterRequest{
		Email:           "ann@example.com",
		Password:        "s3cret!",
		ConfirmPassword: "s3cret!",
	})

	me, err := client.Me(ctx, "")

Clients that cannot keep cookies use PasswordToken, which also returns the
tokens in the body, and pass them explicitly:

	tok, err := client.PasswordToken(ctx, "ann@example.com", "s3cret!")
	me, err := client.Me(ctx, tok.AccessToken)
	renewed, err := client.Refresh(ctx, tok.RefreshToken)

# Google sign in

LoginWithGoogle style flows go through Login with LoginRequest.GoogleToken
set. A Google identity that is not linked to any account answers with
HasAccount false unless the server auto-registers; RegisterWithGoogle then
creates the account. If the Google email already belongs to a password
account the service refuses to merge and returns ErrAccountConflict.

# Errors

Every failure is an *APIError. Match it against the predefined values:

	if errors.Is(err, authsdk.ErrInvalidToken) {
		// sign in again
	}
*/
package authsdk
