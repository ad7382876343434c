package jwtx

import (
	"maps"
	"slices"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Default session lifetimes. Access tokens ride on every request, refresh
// tokens are only presented to mint a new access token.
const (
	DefaultAccessTokenTTL  = 24 * time.Hour
	DefaultRefreshTokenTTL = 15 * 24 * time.Hour
)

// Authentication Methods Reference values carried in the "amr" claim.
const (
	AMRPassword  = "pwd"     // local email + password
	AMRFederated = "fed"     // external identity provider
	AMRRefresh   = "refresh" // access token renewed from a refresh token
)

// Token roles carried in the "use" claim.
const (
	UseAccess  = "access"
	UseRefresh = "refresh"
)

// Claims is the payload of every session token. The registered claims carry
// the session identity:
//
//	sub  principal id
//	jti  token id, fresh per issuance event
//	iat  issuance instant, shared by both tokens of a pair
//	exp  expiry, independent per role
//	use  token role, access or refresh
//
// AMR and Ext are the typed extension point. Ext is for caller-supplied
// extra fields such as the identity provider name and is never interpreted
// by this package.
type Claims struct {
	jwt.RegisteredClaims

	Use string            `json:"use,omitempty"`
	AMR []string          `json:"amr,omitempty"`
	Ext map[string]string `json:"ext,omitempty"`
}

// NewClaims builds claims for one issuance event. Times are truncated to
// whole seconds because that is the precision the token carries, so the
// expiry a caller reads back from Claims matches what Decode will see.
func NewClaims(subject, tokenID string, issuedAt time.Time, ttl time.Duration, amr []string) Claims {
	issuedAt = issuedAt.UTC().Truncate(time.Second)

	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ID:        tokenID,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(ttl)),
		},
		AMR: slices.Clone(amr),
	}
}

// Renew returns an access token copy of c that keeps subject, token id and
// issued-at but expires ttl after now. now is rounded up to the next whole
// second so a renewal inside the issuing second still moves exp forward.
// The refresh method is recorded once in AMR.
func (c Claims) Renew(now time.Time, ttl time.Duration) Claims {
	now = now.UTC()
	if t := now.Truncate(time.Second); t.Before(now) {
		now = t.Add(time.Second)
	}

	out := c
	out.Use = UseAccess
	out.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	out.AMR = slices.Clone(c.AMR)
	if !slices.Contains(out.AMR, AMRRefresh) {
		out.AMR = append(out.AMR, AMRRefresh)
	}
	out.Ext = maps.Clone(c.Ext)
	return out
}

// WithUse returns a copy of c marked with the given token role.
func (c Claims) WithUse(use string) Claims {
	out := c
	out.Use = use
	return out
}

// IsRefresh reports whether c is a refresh token.
func (c Claims) IsRefresh() bool { return c.Use == UseRefresh }

// WithExt returns a copy of c with key set in Ext.
func (c Claims) WithExt(key, value string) Claims {
	out := c
	out.Ext = maps.Clone(c.Ext)
	if out.Ext == nil {
		out.Ext = make(map[string]string, 1)
	}
	out.Ext[key] = value
	return out
}

// Expiry returns the exp claim or the zero time.
func (c *Claims) Expiry() time.Time {
	if c.ExpiresAt == nil {
		return time.Time{}
	}
	return c.ExpiresAt.Time
}

// ValidateRequired checks that sub, jti, iat and exp are all present.
func (c *Claims) ValidateRequired() error {
	if c.Subject == "" || c.ID == "" || c.IssuedAt == nil || c.ExpiresAt == nil {
		return ErrInvalidClaim
	}
	if c.ExpiresAt.Before(c.IssuedAt.Time) {
		return ErrInvalidClaim
	}
	return nil
}

// ValidateExpiryAt rejects the claims unless now is strictly before exp.
func (c *Claims) ValidateExpiryAt(now time.Time) error {
	if c.ExpiresAt == nil {
		return ErrInvalidClaim
	}
	if !now.Before(c.ExpiresAt.Time) {
		return ErrExpired
	}
	return nil
}
