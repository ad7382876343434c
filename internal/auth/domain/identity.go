package domain

import "time"

const ProviderGoogle = "google"

// ExternalIdentity links a provider-scoped subject to a local user. It is
// created on first federated sign-in and never updated.
type ExternalIdentity struct {
	Provider        string
	ProviderSubject string
	UserID          string
	CreatedAt       time.Time
}

// ProviderProfile is what an identity provider vouched for after its
// credential was verified.
type ProviderProfile struct {
	Provider      string
	Subject       string
	Email         string
	EmailVerified bool
	GivenName     string
	FamilyName    string
	Picture       string
}
