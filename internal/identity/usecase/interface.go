// Package usecase resolves request identities from sessions and remember-me credentials
// and drives the login and logout flows that create and destroy them.
package usecase

import (
	"context"

	"github.com/google/uuid"

	"github.com/allisson/rememberme/internal/identity/domain"
	rememberDomain "github.com/allisson/rememberme/internal/remember/domain"
	sessionDomain "github.com/allisson/rememberme/internal/session/domain"
	userDomain "github.com/allisson/rememberme/internal/user/domain"
)

// CookieTransport reads and writes the three auth cookies of the current request.
// Token and secret always share one lifetime and are written or cleared together.
type CookieTransport interface {
	SessionID() string
	SetSession(session *sessionDomain.Session)
	ClearSession()
	RememberedPair() (token, secret string)
	SetRememberedPair(pair *rememberDomain.Pair)
	ClearRememberedPair()
}

// SessionStore persists short-lived server sessions.
type SessionStore interface {
	Create(ctx context.Context, userID uuid.UUID) (*sessionDomain.Session, error)
	Get(ctx context.Context, sessionID string) (*sessionDomain.Session, error)
	Destroy(ctx context.Context, sessionID string) error
	DestroyAllForUser(ctx context.Context, userID uuid.UUID) (int64, error)
}

// UserStore looks up and authenticates accounts.
type UserStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*userDomain.User, error)
	Authenticate(ctx context.Context, email, password string) (*userDomain.User, error)
}

// LoginInput carries the login form.
type LoginInput struct {
	Email    string
	Password string
	Remember bool
}

// RevokeResult counts what an operator revocation removed.
type RevokeResult struct {
	Credentials int64
	Sessions    int64
}

// IdentityUseCase resolves and manages request identities.
type IdentityUseCase interface {
	// Resolve establishes the principal of a request. An active session wins; otherwise a
	// presented remember-me pair is rotated into a new session. Store failures return an
	// anonymous resolution together with the error, never a principal.
	Resolve(ctx context.Context, transport CookieTransport) (*domain.Resolution, error)

	// Login verifies a password, replaces any existing session and issues a remember-me
	// pair when requested.
	Login(ctx context.Context, transport CookieTransport, input LoginInput) (*domain.Principal, error)

	// Logout destroys the current session, revokes every credential of the principal and
	// clears all auth cookies. A nil principal only drops what the request carries.
	Logout(ctx context.Context, transport CookieTransport, principal *domain.Principal) error

	// LogoutEverywhere also destroys every other session of the principal.
	LogoutEverywhere(ctx context.Context, transport CookieTransport, principal *domain.Principal) error

	// RevokeUser removes all credentials and sessions of a user outside any request.
	RevokeUser(ctx context.Context, userID uuid.UUID) (*RevokeResult, error)
}
