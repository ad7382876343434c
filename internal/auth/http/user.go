package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/eventmarket/auth/internal/auth/service"
	"github.com/eventmarket/auth/internal/auth/store"
	"github.com/eventmarket/auth/pkg/authsdk"
	"github.com/eventmarket/auth/pkg/httpx"
	"github.com/eventmarket/auth/pkg/slogx"
)

type UserHandler struct {
	UserService *service.UserService
}

// ServeHTTP returns the signed-in user.
//
//	@Summary		Get the current user
//	@Description	Returns the account the access token (bearer header or access cookie) belongs to.
//	@Tags			User
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	authsdk.UserResponse	"id, email, names, has_password, providers"
//	@Failure		401	{object}	authsdk.ErrorResponse	"Invalid or missing access token"
//	@Failure		500	{object}	authsdk.ErrorResponse	"Internal server error"
//	@Router			/v1/user [get].
func (h *UserHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	userID, ok := httpx.PrincipalFromContext(ctx)
	if !ok {
		authsdk.ErrInvalidToken.WriteError(w)
		return
	}

	user, err := h.UserService.GetUserByID(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		// A valid token whose user is gone no longer authenticates anybody.
		log.Warn("token subject not found", slog.String("user_id", userID))
		authsdk.ErrInvalidToken.WriteError(w)
		return
	}
	if err != nil {
		log.Error("failed to load user", slog.String("user_id", userID), slogx.Err(err))
		authsdk.ErrServerError.WriteError(w)
		return
	}

	resp, err := buildUserResponse(ctx, h.UserService, user)
	if err != nil {
		log.Error("failed to load identities", slog.String("user_id", userID), slogx.Err(err))
		authsdk.ErrServerError.WriteError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, resp)
}
