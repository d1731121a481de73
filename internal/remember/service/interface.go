// Package service provides the credential material used by persistent login:
// random token/secret generation and their one-way digests.
package service

// GeneratedPair holds freshly generated plaintext values and their digests.
type GeneratedPair struct {
	Token      string
	Secret     string
	TokenHash  string
	SecretHash string
}

// CredentialService generates and digests remember-me token/secret pairs.
// Implementations must draw from a cryptographically secure random source.
type CredentialService interface {
	// GeneratePair creates a new token and secret with independent entropy.
	GeneratePair() (*GeneratedPair, error)

	// HashToken returns the lookup digest for a plaintext token.
	HashToken(plainToken string) string

	// CompareSecret reports whether plainSecret matches secretHash in constant time.
	CompareSecret(plainSecret string, secretHash string) bool
}
