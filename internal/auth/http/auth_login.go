package http

import (
	"errors"
	"net/http"

	"github.com/eventmarket/auth/internal/auth/domain"
	"github.com/eventmarket/auth/internal/auth/service"
	"github.com/eventmarket/auth/internal/auth/store"
	"github.com/eventmarket/auth/pkg/authsdk"
	"github.com/eventmarket/auth/pkg/httpx"
	"github.com/eventmarket/auth/pkg/jwtx"
)

// HandleLogin godoc
//
//	@Summary		Sign in
//	@Description	Signs in with either email and password or a Google access token and sets the session cookies.
//	@Description	Wrong email and wrong password are indistinguishable.
//	@Description	A Google identity that is not linked to any account answers has_account=false unless auto registration is enabled.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.LoginRequest	true	"email and password, or google_token"
//	@Success		200		{object}	authsdk.LoginResponse	"user_detail and token expiry, or has_account=false"
//	@Failure		400		{object}	authsdk.ErrorResponse	"invalid_request or invalid_external_credential"
//	@Failure		401		{object}	authsdk.ErrorResponse	"invalid_credentials"
//	@Failure		409		{object}	authsdk.ErrorResponse	"account_conflict"
//	@Failure		429		{object}	authsdk.ErrorResponse	"rate_limit_exceeded"
//	@Failure		502		{object}	authsdk.ErrorResponse	"upstream_error"
//	@Router			/v1/auth/login [post].
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req authsdk.LoginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		h.Metrics.attempt("login", service.ErrInvalidRequest)
		authsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	switch {
	case req.GoogleToken != "":
		h.loginGoogle(w, r, req.GoogleToken)
	case req.Email != "":
		h.loginPassword(w, r, req.Email, req.Password)
	default:
		h.Metrics.attempt("login", service.ErrInvalidRequest)
		authsdk.ErrInvalidRequest.WithDescription("email and password or google_token required").WriteError(w)
	}
}

func (h *AuthHandler) loginPassword(w http.ResponseWriter, r *http.Request, email, password string) {
	u, err := h.Users.Login(r.Context(), email, password)
	h.Metrics.attempt("login_password", err)
	if err != nil {
		writeServiceError(w, r, "login", err)
		return
	}

	h.startSession(w, r, u, "", http.StatusOK, jwtx.AMRPassword)
}

func (h *AuthHandler) loginGoogle(w http.ResponseWriter, r *http.Request, googleToken string) {
	ctx := r.Context()

	profile, err := h.Google.Fetch(ctx, googleToken)
	if err != nil {
		h.Metrics.attempt("login_google", err)
		writeServiceError(w, r, "fetch google profile", err)
		return
	}

	var p domain.Principal
	if h.AutoRegister {
		p, err = h.Federation.ResolveOrRegister(ctx, profile)
	} else {
		p, err = h.Federation.Lookup(ctx, profile)
	}
	if errors.Is(err, store.ErrNotFound) {
		h.Metrics.attempt("login_google", nil)
		httpx.WriteJSON(w, http.StatusOK, authsdk.LoginResponse{HasAccount: false, Avatar: profile.Picture})
		return
	}
	h.Metrics.attempt("login_google", err)
	if err != nil {
		writeServiceError(w, r, "login google", err)
		return
	}

	u, err := h.Users.GetUserByID(ctx, p.ID)
	if err != nil {
		writeServiceError(w, r, "load user", err)
		return
	}

	h.startSession(w, r, u, profile.Picture, http.StatusOK, jwtx.AMRFederated)
}
