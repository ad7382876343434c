package jwtx

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// MinSecretLength is the shortest accepted HMAC secret in bytes.
const MinSecretLength = 32

// HMACCodec encodes and decodes session tokens with a single shared secret
// and one fixed HMAC algorithm. It holds no mutable state after
// construction and is safe for concurrent use.
type HMACCodec struct {
	method *jwt.SigningMethodHMAC
	secret []byte
	parser *jwt.Parser
	now    func() time.Time
}

// NewHMACCodec returns a codec for alg (HS256, HS384 or HS512).
func NewHMACCodec(secret []byte, alg string) (*HMACCodec, error) {
	var method *jwt.SigningMethodHMAC
	switch strings.ToUpper(alg) {
	case "", "HS256":
		method = jwt.SigningMethodHS256
	case "HS384":
		method = jwt.SigningMethodHS384
	case "HS512":
		method = jwt.SigningMethodHS512
	default:
		return nil, fmt.Errorf("jwtx: unsupported algorithm %q", alg)
	}

	if len(secret) < MinSecretLength {
		return nil, fmt.Errorf("jwtx: secret too short (%d bytes, need %d)", len(secret), MinSecretLength)
	}

	return &HMACCodec{
		method: method,
		secret: append([]byte(nil), secret...),
		// Time based claims are checked by Decode against c.now so the
		// failure kind stays ours and tests can pin the clock.
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{method.Alg()}),
			jwt.WithoutClaimsValidation(),
		),
		now: time.Now,
	}, nil
}

// WithClock returns a copy of the codec that reads the current time from now.
func (c *HMACCodec) WithClock(now func() time.Time) *HMACCodec {
	cp := *c
	cp.now = now
	return &cp
}

func (c *HMACCodec) Alg() string { return c.method.Alg() }

// Encode signs claims. Claims missing sub, jti, iat or exp are refused.
func (c *HMACCodec) Encode(claims Claims) (string, error) {
	if err := claims.ValidateRequired(); err != nil {
		return "", err
	}

	t := jwt.NewWithClaims(c.method, claims)
	s, err := t.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("jwtx: sign: %w", err)
	}
	return s, nil
}

// Decode verifies the token and returns its claims. Expiry is checked here:
// a token is accepted only if its signature verifies and now < exp. Every
// failure wraps ErrTokenInvalid together with its kind.
func (c *HMACCodec) Decode(token string) (Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Claims{}, ErrMalformed
	}

	var claims Claims
	_, err := c.parser.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return c.secret, nil
	})
	if err != nil {
		return Claims{}, classify(err)
	}

	if err := claims.ValidateRequired(); err != nil {
		return Claims{}, err
	}
	if err := claims.ValidateExpiryAt(c.now()); err != nil {
		return Claims{}, err
	}

	return claims, nil
}

func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenSignatureInvalid),
		errors.Is(err, jwt.ErrTokenUnverifiable):
		return fmt.Errorf("%w: %w", ErrInvalidSig, err)
	default:
		return fmt.Errorf("%w: %w", ErrMalformed, err)
	}
}
