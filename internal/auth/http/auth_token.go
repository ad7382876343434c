package http

import (
	"net/http"
	"strings"

	"github.com/eventmarket/auth/internal/auth/service"
	"github.com/eventmarket/auth/pkg/authsdk"
	"github.com/eventmarket/auth/pkg/httpx"
	"github.com/eventmarket/auth/pkg/jwtx"
)

// HandleToken godoc
//
//	@Summary		Password token endpoint
//	@Description	OAuth2 password style sign in for clients that cannot keep cookies. The tokens are returned in the body and also set as cookies.
//	@Tags			Auth
//	@Accept			application/x-www-form-urlencoded
//	@Produce		json
//	@Param			username	formData	string					true	"Email address"
//	@Param			password	formData	string					true	"Password"
//	@Success		200			{object}	authsdk.TokenResponse	"access_token, refresh_token, token_type, expires_in"
//	@Failure		400			{object}	authsdk.ErrorResponse	"invalid_request"
//	@Failure		401			{object}	authsdk.ErrorResponse	"invalid_credentials"
//	@Failure		429			{object}	authsdk.ErrorResponse	"rate_limit_exceeded"
//	@Header			200			{string}	Cache-Control			"no-store"
//	@Header			200			{string}	Pragma					"no-cache"
//	@Router			/v1/auth/token [post].
func (h *AuthHandler) HandleToken(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if !httpx.IsForm(r) {
		h.Metrics.attempt("token", service.ErrInvalidRequest)
		authsdk.ErrInvalidRequest.WithDescription("content type must be application/x-www-form-urlencoded").WriteError(w)
		return
	}
	form, err := httpx.DecodeForm(w, r)
	if err != nil {
		h.Metrics.attempt("token", service.ErrInvalidRequest)
		authsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	username := strings.TrimSpace(form.Get("username"))
	password := form.Get("password")
	if username == "" || password == "" {
		h.Metrics.attempt("token", service.ErrInvalidRequest)
		authsdk.ErrInvalidRequest.WithDescription("username and password required").WriteError(w)
		return
	}

	u, err := h.Users.Login(ctx, username, password)
	h.Metrics.attempt("token", err)
	if err != nil {
		writeServiceError(w, r, "password token", err)
		return
	}

	pair, err := h.Tokens.IssuePair(ctx, u.Principal(), jwtx.AMRPassword)
	if err != nil {
		writeServiceError(w, r, "issue session", err)
		return
	}
	h.Metrics.issued(jwtx.AMRPassword)

	h.Cookies.SetPair(w, pair)
	httpx.WriteJSON(w, http.StatusOK, authsdk.TokenResponse{
		AccessToken:  pair.Access.Token,
		RefreshToken: pair.Refresh.Token,
		TokenType:    "Bearer",
		ExpiresIn:    expiresIn(pair.Access.ExpiresAt),
	})
}
