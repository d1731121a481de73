package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	rememberDomain "github.com/allisson/rememberme/internal/remember/domain"
	rememberService "github.com/allisson/rememberme/internal/remember/service"
	"github.com/allisson/rememberme/internal/remember/usecase/mocks"
)

// memoryCredentialRepository is a mutex-guarded CredentialRepository used to exercise
// the engine against real atomic-replace semantics.
type memoryCredentialRepository struct {
	mu          sync.Mutex
	credentials map[string]*rememberDomain.Credential
}

func newMemoryCredentialRepository() *memoryCredentialRepository {
	return &memoryCredentialRepository{credentials: make(map[string]*rememberDomain.Credential)}
}

func (m *memoryCredentialRepository) Put(_ context.Context, credential *rememberDomain.Credential) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.credentials[credential.TokenHash]; ok {
		return rememberDomain.ErrDuplicateToken
	}
	stored := *credential
	m.credentials[credential.TokenHash] = &stored
	return nil
}

func (m *memoryCredentialRepository) FindByToken(
	_ context.Context,
	tokenHash string,
) (*rememberDomain.Credential, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	credential, ok := m.credentials[tokenHash]
	if !ok {
		return nil, rememberDomain.ErrCredentialNotFound
	}
	found := *credential
	return &found, nil
}

func (m *memoryCredentialRepository) DeleteByToken(_ context.Context, tokenHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.credentials, tokenHash)
	return nil
}

func (m *memoryCredentialRepository) DeleteAllForUser(_ context.Context, userID uuid.UUID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var removed int64
	for tokenHash, credential := range m.credentials {
		if credential.UserID == userID {
			delete(m.credentials, tokenHash)
			removed++
		}
	}
	return removed, nil
}

func (m *memoryCredentialRepository) AtomicReplace(
	_ context.Context,
	oldTokenHash string,
	credential *rememberDomain.Credential,
) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.credentials[oldTokenHash]; !ok {
		return false, nil
	}
	if _, ok := m.credentials[credential.TokenHash]; ok {
		return false, rememberDomain.ErrDuplicateToken
	}
	delete(m.credentials, oldTokenHash)
	stored := *credential
	m.credentials[credential.TokenHash] = &stored
	return true, nil
}

func (m *memoryCredentialRepository) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var removed int64
	for tokenHash, credential := range m.credentials {
		if credential.IsExpired(now) {
			delete(m.credentials, tokenHash)
			removed++
		}
	}
	return removed, nil
}

func (m *memoryCredentialRepository) CountExpired(_ context.Context, now time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var count int64
	for _, credential := range m.credentials {
		if credential.IsExpired(now) {
			count++
		}
	}
	return count, nil
}

func (m *memoryCredentialRepository) countForUser(userID uuid.UUID) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, credential := range m.credentials {
		if credential.UserID == userID {
			count++
		}
	}
	return count
}

// stubCredentialService returns scripted pairs so collisions can be forced.
type stubCredentialService struct {
	rememberService.CredentialService
	pairs []*rememberService.GeneratedPair
	calls int
}

func (s *stubCredentialService) GeneratePair() (*rememberService.GeneratedPair, error) {
	pair := s.pairs[s.calls]
	s.calls++
	return pair, nil
}

type fixedClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

const testLifetime = 7 * 24 * time.Hour

func newTestEngine(repo CredentialRepository) (*rotationEngine, *fixedClock) {
	clock := &fixedClock{now: time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)}
	engine := NewRotationEngine(repo, rememberService.NewCredentialService(), testLifetime).(*rotationEngine)
	engine.now = clock.Now
	return engine, clock
}

func TestRotationEngine_Issue(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_StoresOnlyDigests", func(t *testing.T) {
		repo := newMemoryCredentialRepository()
		engine, clock := newTestEngine(repo)
		userID := uuid.Must(uuid.NewV7())

		pair, err := engine.Issue(ctx, userID)
		require.NoError(t, err)
		assert.NotEmpty(t, pair.Token)
		assert.NotEmpty(t, pair.Secret)
		assert.Equal(t, clock.Now().Add(testLifetime), pair.ExpiresAt)

		credential, err := repo.FindByToken(ctx, engine.credentialService.HashToken(pair.Token))
		require.NoError(t, err)
		assert.Equal(t, userID, credential.UserID)
		assert.NotEqual(t, pair.Secret, credential.SecretHash)
		assert.True(t, engine.credentialService.CompareSecret(pair.Secret, credential.SecretHash))
	})

	t.Run("Success_RetriesOnDuplicateToken", func(t *testing.T) {
		repo := &mocks.MockCredentialRepository{}
		engine, _ := newTestEngine(repo)
		engine.credentialService = &stubCredentialService{pairs: []*rememberService.GeneratedPair{
			{Token: "t1", Secret: "s1", TokenHash: "h1", SecretHash: "sh1"},
			{Token: "t2", Secret: "s2", TokenHash: "h2", SecretHash: "sh2"},
		}}
		userID := uuid.Must(uuid.NewV7())

		repo.On("Put", ctx, mock.MatchedBy(func(c *rememberDomain.Credential) bool { return c.TokenHash == "h1" })).
			Return(rememberDomain.ErrDuplicateToken).
			Once()
		repo.On("Put", ctx, mock.MatchedBy(func(c *rememberDomain.Credential) bool { return c.TokenHash == "h2" })).
			Return(nil).
			Once()

		pair, err := engine.Issue(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, "t2", pair.Token)
		repo.AssertExpectations(t)
	})

	t.Run("Error_GivesUpAfterRepeatedCollisions", func(t *testing.T) {
		repo := &mocks.MockCredentialRepository{}
		engine, _ := newTestEngine(repo)

		repo.On("Put", ctx, mock.Anything).Return(rememberDomain.ErrDuplicateToken).Times(maxIssueAttempts)

		pair, err := engine.Issue(ctx, uuid.Must(uuid.NewV7()))
		assert.Nil(t, pair)
		assert.ErrorIs(t, err, rememberDomain.ErrDuplicateToken)
		repo.AssertExpectations(t)
	})

	t.Run("Error_StoreFailure", func(t *testing.T) {
		repo := &mocks.MockCredentialRepository{}
		engine, _ := newTestEngine(repo)

		repo.On("Put", ctx, mock.Anything).Return(rememberDomain.ErrStoreUnavailable).Once()

		_, err := engine.Issue(ctx, uuid.Must(uuid.NewV7()))
		assert.ErrorIs(t, err, rememberDomain.ErrStoreUnavailable)
	})
}

func TestRotationEngine_Rotate(t *testing.T) {
	ctx := context.Background()

	t.Run("Unresolved_EmptyInputSkipsStore", func(t *testing.T) {
		repo := &mocks.MockCredentialRepository{}
		engine, _ := newTestEngine(repo)

		result, err := engine.Rotate(ctx, "", "secret")
		require.NoError(t, err)
		assert.Equal(t, rememberDomain.OutcomeUnresolved, result.Outcome)

		result, err = engine.Rotate(ctx, "token", "")
		require.NoError(t, err)
		assert.Equal(t, rememberDomain.OutcomeUnresolved, result.Outcome)

		repo.AssertNotCalled(t, "FindByToken", mock.Anything, mock.Anything)
	})

	t.Run("Unresolved_UnknownToken", func(t *testing.T) {
		engine, _ := newTestEngine(newMemoryCredentialRepository())

		result, err := engine.Rotate(ctx, "unknown", "secret")
		require.NoError(t, err)
		assert.Equal(t, rememberDomain.OutcomeUnresolved, result.Outcome)
		assert.Nil(t, result.Pair)
	})

	t.Run("Resolved_RotatesAndConsumesOldToken", func(t *testing.T) {
		repo := newMemoryCredentialRepository()
		engine, _ := newTestEngine(repo)
		userID := uuid.Must(uuid.NewV7())

		first, err := engine.Issue(ctx, userID)
		require.NoError(t, err)

		result, err := engine.Rotate(ctx, first.Token, first.Secret)
		require.NoError(t, err)
		assert.Equal(t, rememberDomain.OutcomeResolved, result.Outcome)
		assert.Equal(t, userID, result.UserID)
		require.NotNil(t, result.Pair)
		assert.NotEqual(t, first.Token, result.Pair.Token)
		assert.NotEqual(t, first.Secret, result.Pair.Secret)

		_, err = repo.FindByToken(ctx, engine.credentialService.HashToken(first.Token))
		assert.ErrorIs(t, err, rememberDomain.ErrCredentialNotFound)

		replay, err := engine.Rotate(ctx, first.Token, first.Secret)
		require.NoError(t, err)
		assert.Equal(t, rememberDomain.OutcomeUnresolved, replay.Outcome)

		next, err := engine.Rotate(ctx, result.Pair.Token, result.Pair.Secret)
		require.NoError(t, err)
		assert.Equal(t, rememberDomain.OutcomeResolved, next.Outcome)
		assert.Equal(t, 1, repo.countForUser(userID))
	})

	t.Run("Resolved_SuccessorGetsFullLifetime", func(t *testing.T) {
		repo := newMemoryCredentialRepository()
		engine, clock := newTestEngine(repo)

		first, err := engine.Issue(ctx, uuid.Must(uuid.NewV7()))
		require.NoError(t, err)

		clock.Advance(6 * 24 * time.Hour)

		result, err := engine.Rotate(ctx, first.Token, first.Secret)
		require.NoError(t, err)
		require.Equal(t, rememberDomain.OutcomeResolved, result.Outcome)
		assert.Equal(t, clock.Now().Add(testLifetime), result.Pair.ExpiresAt)
	})

	t.Run("SuspectedTheft_WrongSecretDoesNotRotate", func(t *testing.T) {
		repo := newMemoryCredentialRepository()
		engine, _ := newTestEngine(repo)
		userID := uuid.Must(uuid.NewV7())

		pair, err := engine.Issue(ctx, userID)
		require.NoError(t, err)

		result, err := engine.Rotate(ctx, pair.Token, "stolen-guess")
		require.NoError(t, err)
		assert.Equal(t, rememberDomain.OutcomeSuspectedTheft, result.Outcome)
		assert.Equal(t, userID, result.UserID)
		assert.Nil(t, result.Pair)

		_, err = repo.FindByToken(ctx, engine.credentialService.HashToken(pair.Token))
		assert.NoError(t, err)
	})

	t.Run("Unresolved_ExpiredCredentialIsDeleted", func(t *testing.T) {
		repo := newMemoryCredentialRepository()
		engine, clock := newTestEngine(repo)
		userID := uuid.Must(uuid.NewV7())

		pair, err := engine.Issue(ctx, userID)
		require.NoError(t, err)

		clock.Advance(testLifetime)

		result, err := engine.Rotate(ctx, pair.Token, pair.Secret)
		require.NoError(t, err)
		assert.Equal(t, rememberDomain.OutcomeUnresolved, result.Outcome)
		assert.Zero(t, repo.countForUser(userID))
	})

	t.Run("Unresolved_ExpiredWithWrongSecret", func(t *testing.T) {
		repo := newMemoryCredentialRepository()
		engine, clock := newTestEngine(repo)

		pair, err := engine.Issue(ctx, uuid.Must(uuid.NewV7()))
		require.NoError(t, err)

		clock.Advance(testLifetime + time.Minute)

		result, err := engine.Rotate(ctx, pair.Token, "wrong")
		require.NoError(t, err)
		assert.Equal(t, rememberDomain.OutcomeUnresolved, result.Outcome)
	})

	t.Run("Unresolved_LostReplaceRace", func(t *testing.T) {
		repo := &mocks.MockCredentialRepository{}
		engine, clock := newTestEngine(repo)
		svc := rememberService.NewCredentialService()
		generated, err := svc.GeneratePair()
		require.NoError(t, err)

		stored := &rememberDomain.Credential{
			ID:         uuid.Must(uuid.NewV7()),
			TokenHash:  generated.TokenHash,
			SecretHash: generated.SecretHash,
			UserID:     uuid.Must(uuid.NewV7()),
			IssuedAt:   clock.Now(),
			ExpiresAt:  clock.Now().Add(time.Hour),
		}

		repo.On("FindByToken", ctx, generated.TokenHash).Return(stored, nil).Once()
		repo.On("AtomicReplace", ctx, generated.TokenHash, mock.Anything).Return(false, nil).Once()

		result, err := engine.Rotate(ctx, generated.Token, generated.Secret)
		require.NoError(t, err)
		assert.Equal(t, rememberDomain.OutcomeUnresolved, result.Outcome)
		repo.AssertExpectations(t)
	})

	t.Run("Error_StoreUnavailable", func(t *testing.T) {
		repo := &mocks.MockCredentialRepository{}
		engine, _ := newTestEngine(repo)

		repo.On("FindByToken", ctx, mock.Anything).Return(nil, rememberDomain.ErrStoreUnavailable).Once()

		result, err := engine.Rotate(ctx, "token", "secret")
		assert.ErrorIs(t, err, rememberDomain.ErrStoreUnavailable)
		assert.NotEqual(t, rememberDomain.OutcomeResolved, result.Outcome)
	})

	t.Run("Error_ReplaceFailure", func(t *testing.T) {
		repo := &mocks.MockCredentialRepository{}
		engine, clock := newTestEngine(repo)
		svc := rememberService.NewCredentialService()
		generated, err := svc.GeneratePair()
		require.NoError(t, err)

		stored := &rememberDomain.Credential{
			TokenHash:  generated.TokenHash,
			SecretHash: generated.SecretHash,
			UserID:     uuid.Must(uuid.NewV7()),
			ExpiresAt:  clock.Now().Add(time.Hour),
		}
		replaceErr := errors.New("connection reset")

		repo.On("FindByToken", ctx, generated.TokenHash).Return(stored, nil).Once()
		repo.On("AtomicReplace", ctx, generated.TokenHash, mock.Anything).Return(false, replaceErr).Once()

		result, err := engine.Rotate(ctx, generated.Token, generated.Secret)
		assert.ErrorIs(t, err, replaceErr)
		assert.Nil(t, result.Pair)
	})
}

func TestRotationEngine_ConcurrentRotation(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryCredentialRepository()
	engine, _ := newTestEngine(repo)
	userID := uuid.Must(uuid.NewV7())

	pair, err := engine.Issue(ctx, userID)
	require.NoError(t, err)

	const workers = 32
	results := make([]rememberDomain.RotationResult, workers)

	var g errgroup.Group
	for i := range workers {
		g.Go(func() error {
			result, err := engine.Rotate(ctx, pair.Token, pair.Secret)
			results[i] = result
			return err
		})
	}
	require.NoError(t, g.Wait())

	resolved := 0
	for _, result := range results {
		switch result.Outcome {
		case rememberDomain.OutcomeResolved:
			resolved++
		case rememberDomain.OutcomeUnresolved:
		default:
			t.Fatalf("unexpected outcome %s", result.Outcome)
		}
	}

	assert.Equal(t, 1, resolved)
	assert.Equal(t, 1, repo.countForUser(userID))
}

func TestRotationEngine_Revoke(t *testing.T) {
	ctx := context.Background()

	t.Run("Revoke_RemovesSingleCredential", func(t *testing.T) {
		repo := newMemoryCredentialRepository()
		engine, _ := newTestEngine(repo)
		userID := uuid.Must(uuid.NewV7())

		first, err := engine.Issue(ctx, userID)
		require.NoError(t, err)
		_, err = engine.Issue(ctx, userID)
		require.NoError(t, err)

		require.NoError(t, engine.Revoke(ctx, first.Token))
		require.NoError(t, engine.Revoke(ctx, first.Token))
		require.NoError(t, engine.Revoke(ctx, ""))
		assert.Equal(t, 1, repo.countForUser(userID))
	})

	t.Run("RevokeAllForUser_LeavesOtherUsers", func(t *testing.T) {
		repo := newMemoryCredentialRepository()
		engine, _ := newTestEngine(repo)
		userID := uuid.Must(uuid.NewV7())
		otherID := uuid.Must(uuid.NewV7())

		for range 3 {
			_, err := engine.Issue(ctx, userID)
			require.NoError(t, err)
		}
		other, err := engine.Issue(ctx, otherID)
		require.NoError(t, err)

		removed, err := engine.RevokeAllForUser(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, int64(3), removed)
		assert.Zero(t, repo.countForUser(userID))

		result, err := engine.Rotate(ctx, other.Token, other.Secret)
		require.NoError(t, err)
		assert.Equal(t, rememberDomain.OutcomeResolved, result.Outcome)
	})
}

func TestRotationEngine_PurgeExpired(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryCredentialRepository()
	engine, clock := newTestEngine(repo)

	_, err := engine.Issue(ctx, uuid.Must(uuid.NewV7()))
	require.NoError(t, err)
	clock.Advance(24 * time.Hour)
	_, err = engine.Issue(ctx, uuid.Must(uuid.NewV7()))
	require.NoError(t, err)
	clock.Advance(testLifetime - time.Hour)

	counted, err := engine.PurgeExpired(ctx, true)
	require.NoError(t, err)
	assert.Equal(t, int64(1), counted)

	removed, err := engine.PurgeExpired(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	counted, err = engine.PurgeExpired(ctx, true)
	require.NoError(t, err)
	assert.Zero(t, counted)
}
