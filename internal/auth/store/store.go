package store

import (
	"context"
	"errors"

	"github.com/eventmarket/auth/internal/auth/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers implement it and
// expose sub-repositories so that a transaction-scoped Store offers exactly
// the same surface as the root one.
type Store interface {
	Users() Users
	ExternalIdentities() ExternalIdentities

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx runs fn in a transaction, committing when fn returns nil and
	// rolling back otherwise. Prefer it over Tx.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail matches case-insensitively.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// CreateUser inserts a new user (id is provided by the app via ULID).
	// A taken email yields ErrAlreadyExists.
	CreateUser(ctx context.Context, u domain.User) error
}

type ExternalIdentities interface {
	// GetExternalIdentity looks a link up by provider and provider subject.
	GetExternalIdentity(ctx context.Context, provider, subject string) (domain.ExternalIdentity, error)

	// CreateExternalIdentity inserts a link. A link for the same provider
	// subject yields ErrAlreadyExists.
	CreateExternalIdentity(ctx context.Context, ei domain.ExternalIdentity) error

	// ListExternalIdentitiesByUser returns the links of one user, oldest first.
	ListExternalIdentitiesByUser(ctx context.Context, userID string) ([]domain.ExternalIdentity, error)
}
