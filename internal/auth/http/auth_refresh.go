package http

import (
	"net/http"
	"strings"

	"github.com/eventmarket/auth/internal/auth/service"
	"github.com/eventmarket/auth/pkg/authsdk"
	"github.com/eventmarket/auth/pkg/httpx"
	"github.com/eventmarket/auth/pkg/jwtx"
)

// HandleRefresh godoc
//
//	@Summary		Refresh the access token
//	@Description	Exchanges a refresh token for a new access token with the same session id.
//	@Description	The refresh token is read from the body (JSON or form field refresh_token) or from the refresh cookie.
//	@Description	A rejected refresh token is terminal: both cookies are cleared and the user must sign in again.
//	@Tags			Auth
//	@Accept			json
//	@Accept			application/x-www-form-urlencoded
//	@Produce		json
//	@Param			request	body		authsdk.RefreshRequest	false	"refresh_token, when not sent as cookie"
//	@Success		200		{object}	authsdk.RefreshResponse	"access_token, token_type, expires_in, expires_at"
//	@Failure		400		{object}	authsdk.ErrorResponse	"invalid_request"
//	@Failure		401		{object}	authsdk.ErrorResponse	"invalid_token"
//	@Router			/v1/auth/refresh [post].
func (h *AuthHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	token, ok := h.refreshToken(w, r)
	if !ok {
		h.Metrics.attempt("refresh", service.ErrInvalidRequest)
		authsdk.ErrInvalidRequest.WithDescription("refresh token required").WriteError(w)
		return
	}

	tok, err := h.Tokens.Refresh(r.Context(), token)
	h.Metrics.attempt("refresh", err)
	if err != nil {
		h.Metrics.rejected(jwtx.Kind(err))
		h.Cookies.Clear(w)
		writeServiceError(w, r, "refresh", err)
		return
	}

	h.Cookies.SetAccess(w, tok)
	httpx.WriteJSON(w, http.StatusOK, authsdk.RefreshResponse{
		AccessToken: tok.Token,
		TokenType:   "Bearer",
		ExpiresIn:   expiresIn(tok.ExpiresAt),
		ExpiresAt:   tok.ExpiresAt,
	})
}

// refreshToken prefers a token in the body over the cookie.
func (h *AuthHandler) refreshToken(w http.ResponseWriter, r *http.Request) (string, bool) {
	if r.ContentLength != 0 {
		if httpx.IsForm(r) {
			form, err := httpx.DecodeForm(w, r)
			if err != nil {
				return "", false
			}
			if t := strings.TrimSpace(form.Get("refresh_token")); t != "" {
				return t, true
			}
		} else {
			var req authsdk.RefreshRequest
			if err := httpx.DecodeJSON(r, &req); err != nil {
				return "", false
			}
			if t := strings.TrimSpace(req.RefreshToken); t != "" {
				return t, true
			}
		}
	}

	if c, err := r.Cookie(RefreshCookieName); err == nil && c.Value != "" {
		return c.Value, true
	}
	return "", false
}
