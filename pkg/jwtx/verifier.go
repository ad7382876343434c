package jwtx

import (
	"errors"
	"fmt"
)

// Verifier validates a token and gives back its claims if it is legit.
type Verifier interface {
	Decode(token string) (Claims, error)
}

// ErrTokenInvalid is the class of every decode failure. Callers that only
// need "authenticate again" check errors.Is(err, ErrTokenInvalid); the kind
// below is diagnostic detail for logs.
var ErrTokenInvalid = errors.New("jwtx: token invalid")

var (
	ErrMalformed    = fmt.Errorf("%w: malformed", ErrTokenInvalid)
	ErrInvalidSig   = fmt.Errorf("%w: signature", ErrTokenInvalid)
	ErrInvalidClaim = fmt.Errorf("%w: claims", ErrTokenInvalid)
	ErrExpired      = fmt.Errorf("%w: expired", ErrTokenInvalid)
)

// Kind names the failure kind of a decode error for logging. It returns
// an empty string for nil or foreign errors.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrExpired):
		return "expired"
	case errors.Is(err, ErrInvalidSig):
		return "signature"
	case errors.Is(err, ErrInvalidClaim):
		return "claims"
	case errors.Is(err, ErrMalformed):
		return "malformed"
	default:
		return ""
	}
}
