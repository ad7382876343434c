package authsdk

import "time"

// RegisterRequest is the body of POST /v1/auth/register.
type RegisterRequest struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
	FirstName       string `json:"first_name,omitempty"`
	LastName        string `json:"last_name,omitempty"`
}

// GoogleRegisterRequest is the body of POST /v1/auth/register/google.
// The names override the ones Google reports.
type GoogleRegisterRequest struct {
	GoogleToken string `json:"google_token"`
	FirstName   string `json:"first_name,omitempty"`
	LastName    string `json:"last_name,omitempty"`
}

// LoginRequest is the body of POST /v1/auth/login. Either Email and
// Password or GoogleToken must be set.
type LoginRequest struct {
	Email       string `json:"email,omitempty"`
	Password    string `json:"password,omitempty"`
	GoogleToken string `json:"google_token,omitempty"`
}

// LoginResponse is returned by login and registration. The session tokens
// travel in cookies; the body repeats their expiry.
type LoginResponse struct {
	HasAccount       bool          `json:"has_account"`
	User             *UserResponse `json:"user_detail,omitempty"`
	Avatar           string        `json:"avatar,omitempty"`
	AccessExpiresAt  *time.Time    `json:"access_expires_at,omitempty"`
	RefreshExpiresAt *time.Time    `json:"refresh_expires_at,omitempty"`
}

// TokenResponse is the OAuth2 style body of POST /v1/auth/token.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	TokenType    string `json:"token_type"`
	// ExpiresIn is the access token lifetime in seconds.
	ExpiresIn int `json:"expires_in"`
}

// RefreshRequest is the optional body of POST /v1/auth/refresh when the
// refresh cookie is not sent.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// RefreshResponse carries the renewed access token.
type RefreshResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresIn   int       `json:"expires_in"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// UserResponse is the public view of an account.
type UserResponse struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	HasPassword bool      `json:"has_password"`
	Providers   []string  `json:"providers,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// ErrorResponse documents the failure body for the API docs.
type ErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// HealthResponse is returned by /livez and /readyz.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks reports per dependency readiness.
type HealthChecks struct {
	Database string `json:"database"`
	Codec    string `json:"codec"`
}
