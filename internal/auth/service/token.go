package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/eventmarket/auth/internal/auth/domain"
	"github.com/eventmarket/auth/pkg/cryptox"
	"github.com/eventmarket/auth/pkg/jwtx"
	"github.com/eventmarket/auth/pkg/slogx"
)

// TokenService issues and renews stateless session tokens. Its fields are
// set once at startup and never mutated.
type TokenService struct {
	Codec      jwtx.Codec
	AccessTTL  time.Duration
	RefreshTTL time.Duration

	// Now defaults to time.Now.
	Now func() time.Time
}

func (s *TokenService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *TokenService) accessTTL() time.Duration {
	if s.AccessTTL > 0 {
		return s.AccessTTL
	}
	return jwtx.DefaultAccessTokenTTL
}

func (s *TokenService) refreshTTL() time.Duration {
	if s.RefreshTTL > 0 {
		return s.RefreshTTL
	}
	return jwtx.DefaultRefreshTokenTTL
}

// IssuePair mints the access and refresh token of one issuance event. Both
// carry the same subject, token id and issued-at; only exp differs.
func (s *TokenService) IssuePair(
	ctx context.Context,
	p domain.Principal,
	amr ...string,
) (domain.TokenPair, error) {
	if p.ID == "" {
		return domain.TokenPair{}, fmt.Errorf("issue pair: %w", ErrInvalidRequest)
	}

	tokenID, err := cryptox.GenerateToken(cryptox.TokenSize128)
	if err != nil {
		return domain.TokenPair{}, fmt.Errorf("generate token id: %w", err)
	}

	now := s.now()
	access := jwtx.NewClaims(p.ID, tokenID, now, s.accessTTL(), amr).WithUse(jwtx.UseAccess)
	refresh := jwtx.NewClaims(p.ID, tokenID, now, s.refreshTTL(), amr).WithUse(jwtx.UseRefresh)

	accessTok, err := s.sign(access)
	if err != nil {
		return domain.TokenPair{}, err
	}
	refreshTok, err := s.sign(refresh)
	if err != nil {
		return domain.TokenPair{}, err
	}

	slogx.FromContext(ctx).Info("session issued",
		slog.String("user_id", p.ID),
		slog.String("jti", tokenID),
		slog.Any("amr", amr),
	)

	return domain.TokenPair{Access: accessTok, Refresh: refreshTok}, nil
}

// IssueSingle renews template into an access token: subject, token id and
// issued-at are kept, the expiry becomes now+ttl rounded up to the second. A renewal is not a new session so no new
// token id is minted.
func (s *TokenService) IssueSingle(
	ctx context.Context,
	template jwtx.Claims,
	ttl time.Duration,
) (domain.SignedToken, error) {
	if err := template.ValidateRequired(); err != nil {
		return domain.SignedToken{}, err
	}
	if ttl <= 0 {
		ttl = s.accessTTL()
	}
	return s.sign(template.Renew(s.now(), ttl))
}

// Refresh validates a refresh token and returns a renewed access token.
// Any decode failure, expiry included, is terminal: the caller must sign
// in again. Access tokens are refused so a renewal cannot outlive the
// refresh token it came from.
func (s *TokenService) Refresh(ctx context.Context, refreshToken string) (domain.SignedToken, error) {
	l := slogx.FromContext(ctx)

	claims, err := s.Codec.Decode(refreshToken)
	if err == nil && !claims.IsRefresh() {
		err = fmt.Errorf("%w: not a refresh token", jwtx.ErrInvalidClaim)
	}
	if err != nil {
		attrs := []any{slog.String("kind", jwtx.Kind(err))}
		if refreshToken != "" {
			attrs = append(attrs, slog.String("token_fp", cryptox.FingerprintToken(refreshToken)))
		}
		l.Info("refresh rejected", attrs...)
		return domain.SignedToken{}, fmt.Errorf("refresh: %w", err)
	}

	tok, err := s.IssueSingle(ctx, claims, s.accessTTL())
	if err != nil {
		return domain.SignedToken{}, err
	}

	l.Info("session refreshed",
		slog.String("user_id", claims.Subject),
		slog.String("jti", claims.ID),
		slog.Time("expires_at", tok.ExpiresAt),
	)
	return tok, nil
}

func (s *TokenService) sign(c jwtx.Claims) (domain.SignedToken, error) {
	tok, err := s.Codec.Encode(c)
	if err != nil {
		return domain.SignedToken{}, fmt.Errorf("sign %s token: %w", s.Codec.Alg(), err)
	}
	return domain.SignedToken{Token: tok, ExpiresAt: c.Expiry()}, nil
}
