package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/eventmarket/auth/internal/auth/domain"
	"github.com/eventmarket/auth/internal/auth/store"
	"github.com/eventmarket/auth/pkg/cryptox"
	"github.com/eventmarket/auth/pkg/idx"
	"github.com/eventmarket/auth/pkg/slogx"
)

const (
	MinPasswordLength = 6
	MaxPasswordLength = 128
)

type UserService struct {
	Store  store.Store
	Hasher *cryptox.PasswordHasher

	// dummyHash is verified against when the email is unknown so both
	// failure paths spend the same hashing time.
	dummyHash string
}

// RegisterInput is a local email + password sign-up.
type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// Register creates a local account. A taken email, including one lost to a
// concurrent sign-up, yields ErrAlreadyRegistered.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (domain.User, error) {
	l := slogx.FromContext(ctx)

	email, err := NormalizeEmail(in.Email)
	if err != nil {
		return domain.User{}, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	if n := len(in.Password); n < MinPasswordLength || n > MaxPasswordLength {
		return domain.User{}, fmt.Errorf("%w: password must be %d to %d characters",
			ErrInvalidRequest, MinPasswordLength, MaxPasswordLength)
	}

	hash, err := s.Hasher.Hash(in.Password)
	if err != nil {
		return domain.User{}, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	u := domain.User{
		ID:           idx.New().String(),
		Email:        email,
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		PasswordHash: &hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	// The unique index on email is authoritative; no pre-check.
	if err := s.Store.Users().CreateUser(ctx, u); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			l.Info("registration for taken email")
			return domain.User{}, ErrAlreadyRegistered
		}
		return domain.User{}, err
	}

	l.Info("user registered", slog.String("user_id", u.ID))
	return u, nil
}

// Login checks a local email + password. The error never tells which of
// the two was wrong.
func (s *UserService) Login(ctx context.Context, email, password string) (domain.User, error) {
	l := slogx.FromContext(ctx)

	u, err := s.Store.Users().GetUserByEmail(ctx, email)
	switch {
	case errors.Is(err, store.ErrNotFound):
		s.burnVerify(password)
		l.Info("login failed", slog.String("reason", "unknown_email"))
		return domain.User{}, ErrInvalidCredentials
	case err != nil:
		return domain.User{}, err
	}

	// Federated-only accounts have nothing to verify against.
	if !u.HasPassword() {
		s.burnVerify(password)
		l.Info("login failed", slog.String("reason", "no_local_password"), slog.String("user_id", u.ID))
		return domain.User{}, ErrInvalidCredentials
	}

	if !s.Hasher.Verify(password, *u.PasswordHash) {
		l.Info("login failed", slog.String("reason", "bad_password"), slog.String("user_id", u.ID))
		return domain.User{}, ErrInvalidCredentials
	}

	return u, nil
}

func (s *UserService) burnVerify(password string) {
	if s.dummyHash == "" {
		return
	}
	_ = s.Hasher.Verify(password, s.dummyHash)
}

// PrepareTimingGuard computes the hash used to even out login timing for
// unknown emails. Call once at startup.
func (s *UserService) PrepareTimingGuard() error {
	h, err := s.Hasher.Hash(idx.New().String())
	if err != nil {
		return err
	}
	s.dummyHash = h
	return nil
}

// GetUserByID fetches a user by id.
func (s *UserService) GetUserByID(ctx context.Context, userID string) (domain.User, error) {
	return s.Store.Users().GetUserByID(ctx, userID)
}

// Identities lists the external identities linked to a user.
func (s *UserService) Identities(ctx context.Context, userID string) ([]domain.ExternalIdentity, error) {
	return s.Store.ExternalIdentities().ListExternalIdentitiesByUser(ctx, userID)
}

// NormalizeEmail trims and lower-cases a bare email address and rejects
// anything net/mail cannot parse or that carries a display name.
func NormalizeEmail(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", errors.New("email is required")
	}
	addr, err := mail.ParseAddress(raw)
	if err != nil {
		return "", fmt.Errorf("invalid email: %w", err)
	}
	if addr.Address != raw || addr.Name != "" {
		return "", errors.New("invalid email: expected a bare address")
	}
	return strings.ToLower(addr.Address), nil
}
