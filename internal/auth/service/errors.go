package service

import (
	"errors"

	"github.com/eventmarket/auth/pkg/jwtx"
)

var (
	// ErrInvalidCredentials covers unknown email, wrong password and
	// accounts without a local password alike.
	ErrInvalidCredentials = errors.New("invalid_credentials")

	// ErrTokenInvalid is returned for any rejected session token. The
	// failure kind stays in the error chain for logging only.
	ErrTokenInvalid = jwtx.ErrTokenInvalid

	ErrExternalCredentialInvalid = errors.New("invalid_external_credential")

	// ErrAccountConflict means a federated sign-in maps to an email that
	// already owns an account under another sign-in method.
	ErrAccountConflict = errors.New("account_conflict")

	// ErrAlreadyRegistered is the user-facing form of a uniqueness
	// violation at write time.
	ErrAlreadyRegistered = errors.New("already_registered")

	// ErrIdentityLinkBroken is an invariant violation: an identity link
	// points at a user that does not exist.
	ErrIdentityLinkBroken = errors.New("identity link points at missing user")

	ErrInvalidRequest = errors.New("invalid_request")
)
