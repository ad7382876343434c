package domain

import "time"

type User struct {
	ID        string
	Email     string // stored lower-cased, unique
	FirstName string
	LastName  string
	// PasswordHash is the argon2id PHC string, nil for accounts created
	// through an external identity provider only.
	PasswordHash *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HasPassword reports whether the user can sign in with a local password.
func (u User) HasPassword() bool {
	return u.PasswordHash != nil && *u.PasswordHash != ""
}

// Principal is the authenticated identity a session token resolves to.
// Tokens only ever carry its ID.
type Principal struct {
	ID string
}

func (u User) Principal() Principal { return Principal{ID: u.ID} }
