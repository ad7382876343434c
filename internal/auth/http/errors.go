package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/eventmarket/auth/internal/auth/google"
	"github.com/eventmarket/auth/internal/auth/service"
	"github.com/eventmarket/auth/pkg/authsdk"
	"github.com/eventmarket/auth/pkg/jwtx"
	"github.com/eventmarket/auth/pkg/slogx"
)

// writeServiceError maps service and provider errors to API errors.
// Unexpected errors are logged and hidden behind server_error.
func writeServiceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidRequest):
		authsdk.ErrInvalidRequest.WithDescription(requestErrorDescription(err)).WriteError(w)
	case errors.Is(err, service.ErrInvalidCredentials):
		authsdk.ErrInvalidCredentials.WriteError(w)
	case errors.Is(err, service.ErrTokenInvalid):
		authsdk.ErrInvalidToken.WriteError(w)
	case errors.Is(err, google.ErrTokenRejected),
		errors.Is(err, service.ErrExternalCredentialInvalid):
		authsdk.ErrInvalidExternalCredential.WriteError(w)
	case errors.Is(err, service.ErrAccountConflict):
		authsdk.ErrAccountConflict.WriteError(w)
	case errors.Is(err, service.ErrAlreadyRegistered):
		authsdk.ErrAlreadyRegistered.WriteError(w)
	case errors.Is(err, google.ErrUpstream):
		slogx.FromContext(r.Context()).Warn(op+" failed", slogx.Err(err))
		authsdk.ErrUpstream.WriteError(w)
	default:
		slogx.FromContext(r.Context()).Error(op+" failed", slogx.Err(err))
		authsdk.ErrServerError.WriteError(w)
	}
}

// requestErrorDescription strips the sentinel prefix from validation errors
// so the client sees only the reason.
func requestErrorDescription(err error) string {
	prefix := service.ErrInvalidRequest.Error() + ": "
	if _, after, ok := strings.Cut(err.Error(), prefix); ok {
		return after
	}
	return authsdk.ErrInvalidRequest.Description
}

// outcome names an error for the auth metrics.
func outcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, service.ErrInvalidRequest):
		return "invalid_request"
	case errors.Is(err, service.ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(err, jwtx.ErrTokenInvalid):
		return "invalid_token"
	case errors.Is(err, google.ErrTokenRejected),
		errors.Is(err, service.ErrExternalCredentialInvalid):
		return "invalid_external_credential"
	case errors.Is(err, service.ErrAccountConflict):
		return "account_conflict"
	case errors.Is(err, service.ErrAlreadyRegistered):
		return "already_registered"
	case errors.Is(err, google.ErrUpstream):
		return "upstream_error"
	default:
		return "error"
	}
}
