package http

import (
	"net/http"
	"time"

	"github.com/eventmarket/auth/internal/auth/domain"
)

const (
	AccessCookieName  = "access"
	RefreshCookieName = "refresh"
)

// CookieConfig controls the attributes of the session cookies.
type CookieConfig struct {
	Secure bool
	Domain string
}

func (c CookieConfig) cookie(name, value string, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Domain:   c.Domain,
		Expires:  expires,
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// SetAccess attaches the access token cookie. It expires with the token.
func (c CookieConfig) SetAccess(w http.ResponseWriter, tok domain.SignedToken) {
	http.SetCookie(w, c.cookie(AccessCookieName, tok.Token, tok.ExpiresAt))
}

// SetPair attaches both session cookies.
func (c CookieConfig) SetPair(w http.ResponseWriter, pair domain.TokenPair) {
	c.SetAccess(w, pair.Access)
	http.SetCookie(w, c.cookie(RefreshCookieName, pair.Refresh.Token, pair.Refresh.ExpiresAt))
}

// Clear expires both session cookies in the browser.
func (c CookieConfig) Clear(w http.ResponseWriter) {
	for _, name := range []string{AccessCookieName, RefreshCookieName} {
		ck := c.cookie(name, "", time.Unix(0, 0))
		ck.MaxAge = -1
		http.SetCookie(w, ck)
	}
}
