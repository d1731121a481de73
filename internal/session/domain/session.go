// Package domain defines the short-lived server session bound to a user.
package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/allisson/rememberme/internal/errors"
)

// Session maps an opaque identifier, carried in the session cookie, to a user.
type Session struct {
	ID        string
	UserID    uuid.UUID
	CreatedAt time.Time
	ExpiresAt time.Time
}

// IsExpired reports whether the session lifetime has elapsed at now.
func (s *Session) IsExpired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// Session store errors.
var (
	// ErrSessionNotFound indicates the session does not exist or has expired.
	ErrSessionNotFound = errors.Wrap(errors.ErrNotFound, "session not found")

	// ErrSessionStoreUnavailable indicates the session store could not be reached.
	ErrSessionStoreUnavailable = errors.Wrap(errors.ErrUnavailable, "session store unavailable")
)
