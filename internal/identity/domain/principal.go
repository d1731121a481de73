// Package domain defines the resolved identity of a request.
package domain

import (
	"github.com/google/uuid"

	userDomain "github.com/allisson/rememberme/internal/user/domain"
)

// Source records how a principal was established.
type Source string

const (
	// SourceSession means an active server session carried the identity.
	SourceSession Source = "session"
	// SourceRemembered means a remember-me pair was rotated into a new session.
	SourceRemembered Source = "remembered"
	// SourceLogin means the identity was established by a password login.
	SourceLogin Source = "login"
)

// Principal is the authenticated identity attached to a request.
type Principal struct {
	UserID    uuid.UUID
	Email     string
	Name      string
	Role      userDomain.Role
	SessionID string
	Source    Source
}

// IsAdmin reports whether the principal holds the admin role.
func (p *Principal) IsAdmin() bool {
	return p != nil && p.Role == userDomain.RoleAdmin
}

// NewPrincipal builds a principal from a user record and the session that carries it.
func NewPrincipal(user *userDomain.User, sessionID string, source Source) *Principal {
	return &Principal{
		UserID:    user.ID,
		Email:     user.Email,
		Name:      user.Name,
		Role:      user.Role,
		SessionID: sessionID,
		Source:    source,
	}
}
