package authsdk

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/eventmarket/auth/pkg/httpx"
)

// Error codes returned in the "error" field of every failure body.
const (
	ErrorCodeInvalidRequest            = "invalid_request"
	ErrorCodeInvalidCredentials        = "invalid_credentials"
	ErrorCodeInvalidToken              = "invalid_token"
	ErrorCodeInvalidExternalCredential = "invalid_external_credential"
	ErrorCodeAccountConflict           = "account_conflict"
	ErrorCodeAlreadyRegistered         = "already_registered"
	ErrorCodeNotFound                  = "not_found"
	ErrorCodeServerError               = "server_error"
	ErrorCodeUpstreamError             = "upstream_error"
)

// APIError is a failure response. The server writes it and the client
// returns it, so callers can match with errors.Is against the values below.
type APIError struct {
	StatusCode  int    `json:"-"`
	Code        string `json:"error"`
	Description string `json:"error_description"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Description)
}

// Is matches on the error code only, so a response parsed by the client
// compares equal to the predefined value.
func (e *APIError) Is(target error) bool {
	var t *APIError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// WriteError writes e as JSON with its status code.
func (e *APIError) WriteError(w http.ResponseWriter) {
	if e.StatusCode == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", `Bearer error="`+e.Code+`"`)
	}
	httpx.WriteJSON(w, e.StatusCode, e)
}

// WithDescription returns a copy of e carrying a more specific message.
func (e *APIError) WithDescription(desc string) *APIError {
	cp := *e
	cp.Description = desc
	return &cp
}

var (
	ErrInvalidRequest = &APIError{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeInvalidRequest,
		Description: "the request is malformed or missing required parameters",
	}

	// ErrInvalidCredentials never says whether the email or the password
	// was wrong.
	ErrInvalidCredentials = &APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeInvalidCredentials,
		Description: "incorrect email or password",
	}

	ErrInvalidToken = &APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeInvalidToken,
		Description: "the token is missing, invalid or expired; sign in again",
	}

	ErrInvalidExternalCredential = &APIError{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeInvalidExternalCredential,
		Description: "the identity provider token could not be verified",
	}

	ErrAccountConflict = &APIError{
		StatusCode:  http.StatusConflict,
		Code:        ErrorCodeAccountConflict,
		Description: "an account with this email already exists; sign in with your password",
	}

	ErrAlreadyRegistered = &APIError{
		StatusCode:  http.StatusConflict,
		Code:        ErrorCodeAlreadyRegistered,
		Description: "email has already been registered",
	}

	ErrNotFound = &APIError{
		StatusCode:  http.StatusNotFound,
		Code:        ErrorCodeNotFound,
		Description: "not found",
	}

	ErrServerError = &APIError{
		StatusCode:  http.StatusInternalServerError,
		Code:        ErrorCodeServerError,
		Description: "internal server error",
	}

	ErrUpstream = &APIError{
		StatusCode:  http.StatusBadGateway,
		Code:        ErrorCodeUpstreamError,
		Description: "identity provider unavailable",
	}
)

// parseErrorResponse turns a non-2xx response into an *APIError.
func parseErrorResponse(resp *http.Response, body []byte) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	var e APIError
	if err := json.Unmarshal(body, &e); err == nil && e.Code != "" {
		e.StatusCode = resp.StatusCode
		return &e
	}

	return &APIError{
		StatusCode:  resp.StatusCode,
		Code:        ErrorCodeServerError,
		Description: fmt.Sprintf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode)),
	}
}
