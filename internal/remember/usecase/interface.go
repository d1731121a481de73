// Package usecase implements the remember-me token rotation engine.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	rememberDomain "github.com/allisson/rememberme/internal/remember/domain"
)

// CredentialRepository is durable keyed storage for remember-me credentials. All
// token arguments are digests produced by the credential service.
//
// Every method is independently atomic. AtomicReplace must be linearizable with
// respect to concurrent AtomicReplace and DeleteByToken calls on the same token:
// exactly one caller observes true.
type CredentialRepository interface {
	// Put stores a new credential. Returns ErrDuplicateToken if the token already exists.
	Put(ctx context.Context, credential *rememberDomain.Credential) error

	// FindByToken returns the credential for a token digest. Returns ErrCredentialNotFound
	// when absent.
	FindByToken(ctx context.Context, tokenHash string) (*rememberDomain.Credential, error)

	// DeleteByToken removes a credential. Deleting an absent token is not an error.
	DeleteByToken(ctx context.Context, tokenHash string) error

	// DeleteAllForUser revokes every credential owned by userID and returns how many
	// were removed.
	DeleteAllForUser(ctx context.Context, userID uuid.UUID) (int64, error)

	// AtomicReplace deletes oldTokenHash and inserts credential as one indivisible step.
	// Returns false, with no side effect, when oldTokenHash no longer exists.
	AtomicReplace(
		ctx context.Context,
		oldTokenHash string,
		credential *rememberDomain.Credential,
	) (bool, error)

	// DeleteExpired removes credentials whose lifetime ended before now.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)

	// CountExpired counts credentials whose lifetime ended before now.
	CountExpired(ctx context.Context, now time.Time) (int64, error)
}

// RotationEngine issues, rotates and revokes remember-me credentials.
type RotationEngine interface {
	// Issue creates a fresh credential for userID and returns its plaintext pair.
	// Token collisions are retried with fresh entropy.
	Issue(ctx context.Context, userID uuid.UUID) (*rememberDomain.Pair, error)

	// Rotate validates a presented pair and, when it matches a live credential,
	// atomically replaces it with a successor. Absent, expired and raced-away tokens
	// yield Unresolved; a live token with a wrong secret yields SuspectedTheft.
	// A non-nil error means the store failed and nothing was authenticated.
	Rotate(ctx context.Context, token, secret string) (rememberDomain.RotationResult, error)

	// Revoke deletes the credential behind a plaintext token, if any.
	Revoke(ctx context.Context, token string) error

	// RevokeAllForUser deletes every credential owned by userID.
	RevokeAllForUser(ctx context.Context, userID uuid.UUID) (int64, error)

	// PurgeExpired deletes (or, in dry-run mode, counts) expired credentials.
	PurgeExpired(ctx context.Context, dryRun bool) (int64, error)
}
