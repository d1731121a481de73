package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	rememberDomain "github.com/allisson/rememberme/internal/remember/domain"
	rememberService "github.com/allisson/rememberme/internal/remember/service"
)

// maxIssueAttempts bounds regeneration after ErrDuplicateToken.
const maxIssueAttempts = 3

// rotationEngine implements RotationEngine on top of a CredentialRepository.
// It holds no mutable state; correctness under concurrency rests on
// CredentialRepository.AtomicReplace.
type rotationEngine struct {
	credentialRepo    CredentialRepository
	credentialService rememberService.CredentialService
	lifetime          time.Duration
	now               func() time.Time
}

// NewRotationEngine creates a RotationEngine issuing credentials valid for lifetime.
func NewRotationEngine(
	credentialRepo CredentialRepository,
	credentialService rememberService.CredentialService,
	lifetime time.Duration,
) RotationEngine {
	return &rotationEngine{
		credentialRepo:    credentialRepo,
		credentialService: credentialService,
		lifetime:          lifetime,
		now:               time.Now,
	}
}

// newCredential generates a fresh pair for userID issued at now.
func (r *rotationEngine) newCredential(
	userID uuid.UUID,
	now time.Time,
) (*rememberDomain.Credential, *rememberDomain.Pair, error) {
	generated, err := r.credentialService.GeneratePair()
	if err != nil {
		return nil, nil, err
	}

	credential := &rememberDomain.Credential{
		ID:         uuid.Must(uuid.NewV7()),
		TokenHash:  generated.TokenHash,
		SecretHash: generated.SecretHash,
		UserID:     userID,
		IssuedAt:   now,
		ExpiresAt:  now.Add(r.lifetime),
	}
	pair := &rememberDomain.Pair{
		Token:     generated.Token,
		Secret:    generated.Secret,
		ExpiresAt: credential.ExpiresAt,
	}
	return credential, pair, nil
}

// Issue creates and stores a new credential for userID.
func (r *rotationEngine) Issue(ctx context.Context, userID uuid.UUID) (*rememberDomain.Pair, error) {
	now := r.now().UTC()

	for range maxIssueAttempts {
		credential, pair, err := r.newCredential(userID, now)
		if err != nil {
			return nil, err
		}

		err = r.credentialRepo.Put(ctx, credential)
		if errors.Is(err, rememberDomain.ErrDuplicateToken) {
			continue
		}
		if err != nil {
			return nil, err
		}

		return pair, nil
	}

	return nil, rememberDomain.ErrDuplicateToken
}

// Rotate validates the presented pair and swaps it for a successor.
//
// Outcomes:
//   - Unresolved: empty input, unknown token, expired credential, or a concurrent
//     request consumed the token first
//   - SuspectedTheft: live token with a non-matching secret; nothing is rotated
//   - Resolved: the old token is gone and the successor pair is returned
func (r *rotationEngine) Rotate(
	ctx context.Context,
	token, secret string,
) (rememberDomain.RotationResult, error) {
	if token == "" || secret == "" {
		return rememberDomain.Unresolved(), nil
	}

	tokenHash := r.credentialService.HashToken(token)

	credential, err := r.credentialRepo.FindByToken(ctx, tokenHash)
	if err != nil {
		if errors.Is(err, rememberDomain.ErrCredentialNotFound) {
			return rememberDomain.Unresolved(), nil
		}
		return rememberDomain.RotationResult{}, err
	}

	now := r.now().UTC()

	if credential.IsExpired(now) {
		// Best effort; the purge command removes leftovers.
		_ = r.credentialRepo.DeleteByToken(ctx, tokenHash)
		return rememberDomain.Unresolved(), nil
	}

	if !r.credentialService.CompareSecret(secret, credential.SecretHash) {
		return rememberDomain.SuspectedTheft(credential.UserID), nil
	}

	for range maxIssueAttempts {
		successor, pair, err := r.newCredential(credential.UserID, now)
		if err != nil {
			return rememberDomain.RotationResult{}, err
		}

		replaced, err := r.credentialRepo.AtomicReplace(ctx, tokenHash, successor)
		if errors.Is(err, rememberDomain.ErrDuplicateToken) {
			continue
		}
		if err != nil {
			return rememberDomain.RotationResult{}, err
		}
		if !replaced {
			return rememberDomain.Unresolved(), nil
		}

		return rememberDomain.Resolved(credential.UserID, pair), nil
	}

	return rememberDomain.RotationResult{}, rememberDomain.ErrDuplicateToken
}

// Revoke deletes the credential behind token. Unknown tokens are ignored.
func (r *rotationEngine) Revoke(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return r.credentialRepo.DeleteByToken(ctx, r.credentialService.HashToken(token))
}

// RevokeAllForUser deletes every credential owned by userID.
func (r *rotationEngine) RevokeAllForUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	return r.credentialRepo.DeleteAllForUser(ctx, userID)
}

// PurgeExpired removes expired credentials, or only counts them when dryRun is set.
func (r *rotationEngine) PurgeExpired(ctx context.Context, dryRun bool) (int64, error) {
	now := r.now().UTC()
	if dryRun {
		return r.credentialRepo.CountExpired(ctx, now)
	}
	return r.credentialRepo.DeleteExpired(ctx, now)
}
