package domain

import "time"

// SignedToken is an encoded session token together with the expiry
// instant written into its claims, so cookie lifetimes can match it.
type SignedToken struct {
	Token     string
	ExpiresAt time.Time
}

// TokenPair is the access and refresh token minted by one issuance event.
// Both share subject, token id and issued-at; only the expiry differs.
type TokenPair struct {
	Access  SignedToken
	Refresh SignedToken
}
