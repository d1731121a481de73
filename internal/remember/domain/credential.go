// Package domain defines the persistent-login credential model and the outcomes of
// presenting a credential pair.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Credential is a stored remember-me pair. Only digests of the token and secret are
// persisted; the plaintext values live exclusively in the browser cookies.
type Credential struct {
	ID         uuid.UUID
	TokenHash  string
	SecretHash string
	UserID     uuid.UUID
	IssuedAt   time.Time
	ExpiresAt  time.Time
}

// IsExpired reports whether the credential lifetime has elapsed at now.
func (c *Credential) IsExpired(now time.Time) bool {
	return !now.Before(c.ExpiresAt)
}

// TTL returns the remaining lifetime at now, never negative.
func (c *Credential) TTL(now time.Time) time.Duration {
	ttl := c.ExpiresAt.Sub(now)
	if ttl < 0 {
		return 0
	}
	return ttl
}

// Pair is the plaintext token/secret handed to the browser.
type Pair struct {
	Token     string
	Secret    string
	ExpiresAt time.Time
}
