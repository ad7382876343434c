package sqlite

import (
	"context"
	"database/sql"
	"time"
)

// dbtx is satisfied by both *sql.DB and *sql.Tx so the same queries run
// inside and outside a transaction.
type dbtx interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
	QueryContext(context.Context, string, ...any) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...any) *sql.Row
}

type queries struct {
	db dbtx
}

func newQueries(db dbtx) *queries { return &queries{db: db} }

type userRow struct {
	ID           string
	Email        string
	FirstName    string
	LastName     string
	PasswordHash sql.NullString
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

const userColumns = `id, email, first_name, last_name, password_hash, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (userRow, error) {
	var u userRow
	err := row.Scan(&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

const getUserByID = `SELECT ` + userColumns + ` FROM users WHERE id = ?`

func (q *queries) GetUserByID(ctx context.Context, id string) (userRow, error) {
	return scanUser(q.db.QueryRowContext(ctx, getUserByID, id))
}

const getUserByEmail = `SELECT ` + userColumns + ` FROM users WHERE email = ? COLLATE NOCASE`

func (q *queries) GetUserByEmail(ctx context.Context, email string) (userRow, error) {
	return scanUser(q.db.QueryRowContext(ctx, getUserByEmail, email))
}

const createUser = `INSERT INTO users (` + userColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?)`

func (q *queries) CreateUser(ctx context.Context, u userRow) error {
	_, err := q.db.ExecContext(ctx, createUser,
		u.ID, u.Email, u.FirstName, u.LastName, u.PasswordHash, u.CreatedAt, u.UpdatedAt)
	return err
}

type externalIdentityRow struct {
	Provider        string
	ProviderSubject string
	UserID          string
	CreatedAt       time.Time
}

const getExternalIdentity = `SELECT provider, provider_subject, user_id, created_at
FROM external_identities WHERE provider = ? AND provider_subject = ?`

func (q *queries) GetExternalIdentity(ctx context.Context, provider, subject string) (externalIdentityRow, error) {
	var r externalIdentityRow
	err := q.db.QueryRowContext(ctx, getExternalIdentity, provider, subject).
		Scan(&r.Provider, &r.ProviderSubject, &r.UserID, &r.CreatedAt)
	return r, err
}

const createExternalIdentity = `INSERT INTO external_identities
(provider, provider_subject, user_id, created_at) VALUES (?, ?, ?, ?)`

func (q *queries) CreateExternalIdentity(ctx context.Context, r externalIdentityRow) error {
	_, err := q.db.ExecContext(ctx, createExternalIdentity, r.Provider, r.ProviderSubject, r.UserID, r.CreatedAt)
	return err
}

const listExternalIdentitiesByUser = `SELECT provider, provider_subject, user_id, created_at
FROM external_identities WHERE user_id = ? ORDER BY created_at, provider`

func (q *queries) ListExternalIdentitiesByUser(ctx context.Context, userID string) ([]externalIdentityRow, error) {
	rows, err := q.db.QueryContext(ctx, listExternalIdentitiesByUser, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []externalIdentityRow
	for rows.Next() {
		var r externalIdentityRow
		if err := rows.Scan(&r.Provider, &r.ProviderSubject, &r.UserID, &r.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
