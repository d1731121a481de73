// Package service provides Argon2id password hashing for user accounts.
package service

import (
	"github.com/allisson/go-pwdhash"

	apperrors "github.com/allisson/rememberme/internal/errors"
)

// PasswordService hashes and verifies account passwords.
type PasswordService interface {
	// Hash returns an encoded Argon2id hash of plainPassword.
	Hash(plainPassword string) (string, error)

	// Compare reports whether plainPassword matches passwordHash. Malformed hashes never match.
	Compare(plainPassword string, passwordHash string) bool
}

type passwordService struct {
	hasher *pwdhash.PasswordHasher
}

// Hash hashes a plain text password using Argon2id.
func (p *passwordService) Hash(plainPassword string) (string, error) {
	hash, err := p.hasher.Hash([]byte(plainPassword))
	if err != nil {
		return "", apperrors.Wrap(err, "failed to hash password")
	}
	return hash, nil
}

// Compare verifies a plain password against its hash.
func (p *passwordService) Compare(plainPassword string, passwordHash string) bool {
	ok, err := p.hasher.Verify([]byte(plainPassword), passwordHash)
	if err != nil {
		return false
	}
	return ok
}

// NewPasswordService creates a PasswordService using the interactive Argon2id policy.
func NewPasswordService() (PasswordService, error) {
	hasher, err := pwdhash.New(pwdhash.WithPolicy(pwdhash.PolicyInteractive))
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to create password hasher")
	}
	return &passwordService{hasher: hasher}, nil
}
