package service

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"

	apperrors "github.com/allisson/rememberme/internal/errors"
)

// randomBytes is the entropy drawn for each token and each secret (256 bits).
const randomBytes = 32

// credentialService implements CredentialService using crypto/rand and SHA-256.
type credentialService struct{}

// GeneratePair creates a token and a secret from two independent 32-byte reads.
func (s *credentialService) GeneratePair() (*GeneratedPair, error) {
	token, err := randomString()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to generate token")
	}

	secret, err := randomString()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to generate secret")
	}

	return &GeneratedPair{
		Token:      token,
		Secret:     secret,
		TokenHash:  digest(token),
		SecretHash: digest(secret),
	}, nil
}

// HashToken hashes a plain text token using SHA-256.
func (s *credentialService) HashToken(plainToken string) string {
	return digest(plainToken)
}

// CompareSecret digests the presented secret and compares it with the stored digest.
func (s *credentialService) CompareSecret(plainSecret string, secretHash string) bool {
	presented := digest(plainSecret)
	return subtle.ConstantTimeCompare([]byte(presented), []byte(secretHash)) == 1
}

func randomString() (string, error) {
	b := make([]byte, randomBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func digest(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])
}

// NewCredentialService creates a new CredentialService.
func NewCredentialService() CredentialService {
	return &credentialService{}
}
