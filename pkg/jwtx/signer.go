package jwtx

// Signer turns claims into a compact signed token string.
type Signer interface {
	Alg() string
	Encode(Claims) (string, error)
}

// Codec signs and verifies with the same shared secret.
type Codec interface {
	Signer
	Verifier
}
