package http

import (
	"net/http"

	"github.com/eventmarket/auth/internal/auth/service"
	"github.com/eventmarket/auth/pkg/authsdk"
	"github.com/eventmarket/auth/pkg/httpx"
	"github.com/eventmarket/auth/pkg/jwtx"
)

// HandleRegister godoc
//
//	@Summary		Register with email and password
//	@Description	Creates a local account and starts a session. The access and refresh tokens are set as HttpOnly cookies.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.RegisterRequest	true	"email, password, confirm_password, first_name, last_name"
//	@Success		201		{object}	authsdk.LoginResponse	"user_detail and token expiry"
//	@Failure		400		{object}	authsdk.ErrorResponse	"invalid_request"
//	@Failure		409		{object}	authsdk.ErrorResponse	"already_registered"
//	@Failure		429		{object}	authsdk.ErrorResponse	"rate_limit_exceeded"
//	@Router			/v1/auth/register [post].
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req authsdk.RegisterRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		h.Metrics.attempt("register", service.ErrInvalidRequest)
		authsdk.ErrInvalidRequest.WriteError(w)
		return
	}
	if req.Password != req.ConfirmPassword {
		h.Metrics.attempt("register", service.ErrInvalidRequest)
		authsdk.ErrInvalidRequest.WithDescription("passwords do not match").WriteError(w)
		return
	}

	u, err := h.Users.Register(r.Context(), service.RegisterInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	h.Metrics.attempt("register", err)
	if err != nil {
		writeServiceError(w, r, "register", err)
		return
	}

	h.startSession(w, r, u, "", http.StatusCreated, jwtx.AMRPassword)
}

// HandleRegisterGoogle godoc
//
//	@Summary		Register with a Google account
//	@Description	Verifies the Google access token and creates the account linked to the Google subject.
//	@Description	An email that already belongs to another account is refused with account_conflict; accounts are never merged.
//	@Description	If the Google identity is already linked the existing account is signed in.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.GoogleRegisterRequest	true	"google_token, optional name overrides"
//	@Success		201		{object}	authsdk.LoginResponse			"user_detail, avatar and token expiry"
//	@Failure		400		{object}	authsdk.ErrorResponse			"invalid_request or invalid_external_credential"
//	@Failure		409		{object}	authsdk.ErrorResponse			"account_conflict"
//	@Failure		502		{object}	authsdk.ErrorResponse			"upstream_error"
//	@Router			/v1/auth/register/google [post].
func (h *AuthHandler) HandleRegisterGoogle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req authsdk.GoogleRegisterRequest
	if err := httpx.DecodeJSON(r, &req); err != nil || req.GoogleToken == "" {
		h.Metrics.attempt("register_google", service.ErrInvalidRequest)
		authsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	profile, err := h.Google.Fetch(ctx, req.GoogleToken)
	if err != nil {
		h.Metrics.attempt("register_google", err)
		writeServiceError(w, r, "fetch google profile", err)
		return
	}
	if req.FirstName != "" {
		profile.GivenName = req.FirstName
	}
	if req.LastName != "" {
		profile.FamilyName = req.LastName
	}

	p, err := h.Federation.ResolveOrRegister(ctx, profile)
	h.Metrics.attempt("register_google", err)
	if err != nil {
		writeServiceError(w, r, "register google", err)
		return
	}

	u, err := h.Users.GetUserByID(ctx, p.ID)
	if err != nil {
		writeServiceError(w, r, "load user", err)
		return
	}

	h.startSession(w, r, u, profile.Picture, http.StatusCreated, jwtx.AMRFederated)
}
