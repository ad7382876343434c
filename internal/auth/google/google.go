// Package google turns a Google OAuth2 access token into a verified
// provider profile by calling the OpenID userinfo endpoint.
package google

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/eventmarket/auth/internal/auth/domain"
	"golang.org/x/oauth2"
)

// DefaultUserInfoURL is Google's OpenID Connect userinfo endpoint.
const DefaultUserInfoURL = "https://openidconnect.googleapis.com/v1/userinfo"

// ErrTokenRejected means Google did not accept the access token, or the
// profile it returned is unusable.
var ErrTokenRejected = errors.New("google: token rejected")

// ErrUpstream means Google could not be reached or answered with an
// unexpected status. The token itself may be fine.
var ErrUpstream = errors.New("google: upstream unavailable")

// ProfileFetcher resolves access tokens into profiles. The zero value talks
// to Google with http.DefaultClient.
type ProfileFetcher struct {
	UserInfoURL string
	// HTTPClient is the base transport; the bearer token is layered on top.
	HTTPClient *http.Client
	Timeout    time.Duration
}

type userInfo struct {
	Sub           string   `json:"sub"`
	Email         string   `json:"email"`
	EmailVerified flexBool `json:"email_verified"`
	GivenName     string   `json:"given_name"`
	FamilyName    string   `json:"family_name"`
	Picture       string   `json:"picture"`
}

// flexBool accepts both true and "true"; Google endpoints disagree.
type flexBool bool

func (b *flexBool) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*b = false
		return nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return fmt.Errorf("email_verified: %w", err)
	}
	*b = flexBool(v)
	return nil
}

// Fetch calls the userinfo endpoint with accessToken as bearer credential.
func (f *ProfileFetcher) Fetch(ctx context.Context, accessToken string) (domain.ProviderProfile, error) {
	accessToken = strings.TrimSpace(accessToken)
	if accessToken == "" {
		return domain.ProviderProfile{}, fmt.Errorf("%w: empty token", ErrTokenRejected)
	}

	timeout := f.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if f.HTTPClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, f.HTTPClient)
	}
	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: accessToken,
		TokenType:   "Bearer",
	}))

	url := f.UserInfoURL
	if url == "" {
		url = DefaultUserInfoURL
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return domain.ProviderProfile{}, fmt.Errorf("google: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return domain.ProviderProfile{}, fmt.Errorf("%w: fetch userinfo: %w", ErrUpstream, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden,
		resp.StatusCode == http.StatusBadRequest:
		return domain.ProviderProfile{}, fmt.Errorf("%w: status %d", ErrTokenRejected, resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return domain.ProviderProfile{}, fmt.Errorf("%w: userinfo status %d: %s", ErrUpstream, resp.StatusCode, body)
	}

	var info userInfo
	if err := json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&info); err != nil {
		return domain.ProviderProfile{}, fmt.Errorf("%w: decode userinfo: %w", ErrTokenRejected, err)
	}
	if info.Sub == "" || info.Email == "" {
		return domain.ProviderProfile{}, fmt.Errorf("%w: userinfo lacks sub or email", ErrTokenRejected)
	}

	return domain.ProviderProfile{
		Provider:      domain.ProviderGoogle,
		Subject:       info.Sub,
		Email:         info.Email,
		EmailVerified: bool(info.EmailVerified),
		GivenName:     info.GivenName,
		FamilyName:    info.FamilyName,
		Picture:       info.Picture,
	}, nil
}
