package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/eventmarket/auth/internal/auth/domain"
	"github.com/eventmarket/auth/internal/auth/store"
	"github.com/eventmarket/auth/pkg/idx"
	"github.com/eventmarket/auth/pkg/slogx"
)

// FederationService reconciles identities vouched for by an external
// provider with local accounts. It never talks to the provider itself.
type FederationService struct {
	Store store.Store
}

// Lookup returns the principal linked to the profile's provider subject,
// or store.ErrNotFound when there is none yet.
func (s *FederationService) Lookup(ctx context.Context, profile domain.ProviderProfile) (domain.Principal, error) {
	profile, err := validateProfile(profile)
	if err != nil {
		return domain.Principal{}, err
	}
	return s.lookupLink(ctx, profile)
}

// ResolveOrRegister returns the principal for profile, creating the user
// and its identity link on first sign-in.
//
// An email that already belongs to an account which is not linked to this
// provider subject is reported as ErrAccountConflict; accounts are never
// merged implicitly.
func (s *FederationService) ResolveOrRegister(
	ctx context.Context,
	profile domain.ProviderProfile,
) (domain.Principal, error) {
	l := slogx.FromContext(ctx)

	// 1. Reject malformed profiles before touching the store.
	profile, err := validateProfile(profile)
	if err != nil {
		return domain.Principal{}, err
	}
	l = l.With(slog.String("provider", profile.Provider))

	// 2. Existing link.
	p, err := s.lookupLink(ctx, profile)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return domain.Principal{}, err
	}

	// 3. Same email under another sign-in method.
	existing, err := s.Store.Users().GetUserByEmail(ctx, profile.Email)
	switch {
	case err == nil:
		// The account may have been created by a concurrent first sign-in
		// of this very subject since step 2.
		if p, lerr := s.lookupLink(ctx, profile); lerr == nil && p.ID == existing.ID {
			return p, nil
		}
		l.Info("federated sign-in conflicts with existing account", slog.String("user_id", existing.ID))
		return domain.Principal{}, ErrAccountConflict
	case !errors.Is(err, store.ErrNotFound):
		return domain.Principal{}, err
	}

	// 4. New user and link, atomically.
	now := time.Now().UTC()
	u := domain.User{
		ID:        idx.New().String(),
		Email:     profile.Email,
		FirstName: profile.GivenName,
		LastName:  profile.FamilyName,
		CreatedAt: now,
		UpdatedAt: now,
	}
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Users().CreateUser(ctx, u); err != nil {
			return err
		}
		return tx.ExternalIdentities().CreateExternalIdentity(ctx, domain.ExternalIdentity{
			Provider:        profile.Provider,
			ProviderSubject: profile.Subject,
			UserID:          u.ID,
			CreatedAt:       now,
		})
	})
	if err == nil {
		l.Info("federated user registered", slog.String("user_id", u.ID))
		return u.Principal(), nil
	}
	if !errors.Is(err, store.ErrAlreadyExists) {
		return domain.Principal{}, fmt.Errorf("register federated user: %w", err)
	}

	// Lost a race. A concurrent first sign-in of the same subject wins and
	// we hand out its principal; anything else took the email.
	p, lerr := s.lookupLink(ctx, profile)
	if lerr == nil {
		return p, nil
	}
	if !errors.Is(lerr, store.ErrNotFound) {
		return domain.Principal{}, lerr
	}
	return domain.Principal{}, ErrAlreadyRegistered
}

func (s *FederationService) lookupLink(ctx context.Context, profile domain.ProviderProfile) (domain.Principal, error) {
	link, err := s.Store.ExternalIdentities().GetExternalIdentity(ctx, profile.Provider, profile.Subject)
	if err != nil {
		return domain.Principal{}, err
	}

	u, err := s.Store.Users().GetUserByID(ctx, link.UserID)
	if errors.Is(err, store.ErrNotFound) {
		slogx.FromContext(ctx).Error("identity link without user",
			slog.String("provider", link.Provider),
			slog.String("user_id", link.UserID),
		)
		return domain.Principal{}, fmt.Errorf("%w: %s", ErrIdentityLinkBroken, link.UserID)
	}
	if err != nil {
		return domain.Principal{}, err
	}
	return u.Principal(), nil
}

func validateProfile(p domain.ProviderProfile) (domain.ProviderProfile, error) {
	p.Provider = strings.ToLower(strings.TrimSpace(p.Provider))
	p.Subject = strings.TrimSpace(p.Subject)
	p.GivenName = strings.TrimSpace(p.GivenName)
	p.FamilyName = strings.TrimSpace(p.FamilyName)

	if p.Provider == "" || p.Subject == "" {
		return p, fmt.Errorf("%w: missing provider or subject", ErrExternalCredentialInvalid)
	}
	// An unverified address proves nothing about who owns it.
	if !p.EmailVerified {
		return p, fmt.Errorf("%w: email not verified by provider", ErrExternalCredentialInvalid)
	}
	email, err := NormalizeEmail(p.Email)
	if err != nil {
		return p, fmt.Errorf("%w: %w", ErrExternalCredentialInvalid, err)
	}
	p.Email = email
	return p, nil
}
