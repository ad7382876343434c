package sqlite_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/eventmarket/auth/internal/auth/domain"
	"github.com/eventmarket/auth/internal/auth/store"
	"github.com/eventmarket/auth/internal/auth/store/drivers/sqlite"
	"github.com/eventmarket/auth/pkg/idx"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()
	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	require.NoError(t, st.ApplyMigrations())
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func ptr(s string) *string { return &s }

func TestUsers(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	u := domain.User{
		ID:           idx.New().String(),
		Email:        "Alice@Example.com",
		FirstName:    "Alice",
		LastName:     "Liddell",
		PasswordHash: ptr("$argon2id$stub"),
	}
	require.NoError(t, st.Users().CreateUser(ctx, u))

	got, err := st.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, "alice@example.com", got.Email)
	require.Equal(t, "Alice", got.FirstName)
	require.True(t, got.HasPassword())
	require.False(t, got.CreatedAt.IsZero())

	byEmail, err := st.Users().GetUserByEmail(ctx, "ALICE@example.COM")
	require.NoError(t, err)
	require.Equal(t, u.ID, byEmail.ID)

	_, err = st.Users().GetUserByID(ctx, "missing")
	require.ErrorIs(t, err, store.ErrNotFound)

	// Email is unique regardless of case.
	dup := domain.User{ID: idx.New().String(), Email: "alice@EXAMPLE.com"}
	require.ErrorIs(t, st.Users().CreateUser(ctx, dup), store.ErrAlreadyExists)

	// Federated only account has no hash.
	fed := domain.User{ID: idx.New().String(), Email: "bob@example.com"}
	require.NoError(t, st.Users().CreateUser(ctx, fed))
	got, err = st.Users().GetUserByID(ctx, fed.ID)
	require.NoError(t, err)
	require.Nil(t, got.PasswordHash)
	require.False(t, got.HasPassword())
}

func TestExternalIdentities(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	u := domain.User{ID: idx.New().String(), Email: "carol@example.com"}
	require.NoError(t, st.Users().CreateUser(ctx, u))

	link := domain.ExternalIdentity{Provider: domain.ProviderGoogle, ProviderSubject: "sub-1", UserID: u.ID}
	require.NoError(t, st.ExternalIdentities().CreateExternalIdentity(ctx, link))

	got, err := st.ExternalIdentities().GetExternalIdentity(ctx, domain.ProviderGoogle, "sub-1")
	require.NoError(t, err)
	require.Equal(t, u.ID, got.UserID)

	// At most one link per provider subject.
	other := link
	other.UserID = u.ID
	require.ErrorIs(t, st.ExternalIdentities().CreateExternalIdentity(ctx, other), store.ErrAlreadyExists)

	// The same subject at another provider is a different identity.
	require.NoError(t, st.ExternalIdentities().CreateExternalIdentity(ctx,
		domain.ExternalIdentity{Provider: "github", ProviderSubject: "sub-1", UserID: u.ID}))

	list, err := st.ExternalIdentities().ListExternalIdentitiesByUser(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)

	_, err = st.ExternalIdentities().GetExternalIdentity(ctx, domain.ProviderGoogle, "nope")
	require.ErrorIs(t, err, store.ErrNotFound)

	// Links must point at an existing user.
	orphan := domain.ExternalIdentity{Provider: domain.ProviderGoogle, ProviderSubject: "sub-2", UserID: "ghost"}
	require.Error(t, st.ExternalIdentities().CreateExternalIdentity(ctx, orphan))
}

func TestWithTxRollsBack(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	u := domain.User{ID: idx.New().String(), Email: "dave@example.com"}
	boom := errors.New("boom")

	err := st.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Users().CreateUser(ctx, u); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	_, err = st.Users().GetUserByID(ctx, u.ID)
	require.ErrorIs(t, err, store.ErrNotFound)

	err = st.WithTx(ctx, func(tx store.Tx) error {
		require.ErrorIs(t, tx.WithTx(ctx, func(store.Tx) error { return nil }), sql.ErrTxDone)
		return tx.Users().CreateUser(ctx, u)
	})
	require.NoError(t, err)

	_, err = st.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
}

func TestApplyMigrationsIdempotent(t *testing.T) {
	st := newTestStore(t)
	require.NoError(t, st.ApplyMigrations())
	require.NoError(t, st.Ping(context.Background()))
}

func TestDriverErrorMapping(t *testing.T) {
	ctx := context.Background()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	st := sqlite.NewStoreFromDB(db)

	mock.ExpectExec("INSERT INTO users").
		WillReturnError(errors.New("constraint failed: UNIQUE constraint failed: users.email (2067)"))
	err = st.Users().CreateUser(ctx, domain.User{ID: "u1", Email: "x@example.com"})
	require.ErrorIs(t, err, store.ErrAlreadyExists)

	mock.ExpectExec("INSERT INTO external_identities").
		WillReturnError(errors.New("disk I/O error"))
	err = st.ExternalIdentities().CreateExternalIdentity(ctx, domain.ExternalIdentity{
		Provider: "google", ProviderSubject: "s", UserID: "u1", CreatedAt: time.Now(),
	})
	require.Error(t, err)
	require.NotErrorIs(t, err, store.ErrAlreadyExists)

	mock.ExpectQuery("SELECT .* FROM users WHERE email").
		WithArgs("x@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	_, err = st.Users().GetUserByEmail(ctx, " X@example.com ")
	require.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, mock.ExpectationsWereMet())
}
