package http

import (
	"context"
	"net/http"
	"time"

	"github.com/eventmarket/auth/internal/auth/domain"
	"github.com/eventmarket/auth/internal/auth/service"
	"github.com/eventmarket/auth/pkg/authsdk"
	"github.com/eventmarket/auth/pkg/httpx"
)

// ProfileFetcher verifies an identity provider token and returns the
// profile it vouches for.
type ProfileFetcher interface {
	Fetch(ctx context.Context, accessToken string) (domain.ProviderProfile, error)
}

// AuthHandler serves the /v1/auth endpoints.
type AuthHandler struct {
	Users      *service.UserService
	Tokens     *service.TokenService
	Federation *service.FederationService
	Google     ProfileFetcher
	Cookies    CookieConfig
	Metrics    *Metrics

	// AutoRegister makes a Google login with an unknown identity create the
	// account instead of answering has_account=false.
	AutoRegister bool
}

// startSession issues a token pair for u, sets the session cookies and
// writes the login response.
func (h *AuthHandler) startSession(
	w http.ResponseWriter,
	r *http.Request,
	u domain.User,
	avatar string,
	status int,
	method string,
) {
	ctx := r.Context()

	pair, err := h.Tokens.IssuePair(ctx, u.Principal(), method)
	if err != nil {
		writeServiceError(w, r, "issue session", err)
		return
	}
	h.Metrics.issued(method)

	user, err := h.userResponse(ctx, u)
	if err != nil {
		writeServiceError(w, r, "load identities", err)
		return
	}

	h.Cookies.SetPair(w, pair)
	httpx.WriteJSON(w, status, authsdk.LoginResponse{
		HasAccount:       true,
		User:             user,
		Avatar:           avatar,
		AccessExpiresAt:  &pair.Access.ExpiresAt,
		RefreshExpiresAt: &pair.Refresh.ExpiresAt,
	})
}

func (h *AuthHandler) userResponse(ctx context.Context, u domain.User) (*authsdk.UserResponse, error) {
	return buildUserResponse(ctx, h.Users, u)
}

func buildUserResponse(ctx context.Context, users *service.UserService, u domain.User) (*authsdk.UserResponse, error) {
	links, err := users.Identities(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	providers := make([]string, 0, len(links))
	for _, l := range links {
		providers = append(providers, l.Provider)
	}
	return &authsdk.UserResponse{
		ID:          u.ID,
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		HasPassword: u.HasPassword(),
		Providers:   providers,
		CreatedAt:   u.CreatedAt,
	}, nil
}

func expiresIn(t time.Time) int {
	s := int(time.Until(t).Seconds())
	if s < 0 {
		return 0
	}
	return s
}
