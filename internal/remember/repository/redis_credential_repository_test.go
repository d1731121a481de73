package repository

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	rememberDomain "github.com/allisson/rememberme/internal/remember/domain"
)

func newRedisRepository(t *testing.T) (*RedisCredentialRepository, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewRedisCredentialRepository(client, ""), mr
}

func credentialFor(userID uuid.UUID, tokenHash string) *rememberDomain.Credential {
	now := time.Now().UTC()
	return &rememberDomain.Credential{
		ID:         uuid.Must(uuid.NewV7()),
		TokenHash:  tokenHash,
		SecretHash: "secret-of-" + tokenHash,
		UserID:     userID,
		IssuedAt:   now,
		ExpiresAt:  now.Add(time.Hour),
	}
}

func TestRedisCredentialRepository_PutAndFind(t *testing.T) {
	repo, mr := newRedisRepository(t)
	ctx := context.Background()
	credential := credentialFor(uuid.Must(uuid.NewV7()), "t1")

	require.NoError(t, repo.Put(ctx, credential))

	found, err := repo.FindByToken(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, credential.ID, found.ID)
	assert.Equal(t, credential.UserID, found.UserID)
	assert.Equal(t, credential.SecretHash, found.SecretHash)
	assert.True(t, credential.ExpiresAt.Equal(found.ExpiresAt))

	assert.Equal(t, time.Hour, mr.TTL("rm:cred:t1"))
	assert.True(t, mr.Exists("rm:user:"+credential.UserID.String()))
}

func TestRedisCredentialRepository_PutDuplicate(t *testing.T) {
	repo, _ := newRedisRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.Put(ctx, credentialFor(uuid.Must(uuid.NewV7()), "t1")))

	err := repo.Put(ctx, credentialFor(uuid.Must(uuid.NewV7()), "t1"))
	assert.ErrorIs(t, err, rememberDomain.ErrDuplicateToken)
}

func TestRedisCredentialRepository_FindExpiredKey(t *testing.T) {
	repo, mr := newRedisRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.Put(ctx, credentialFor(uuid.Must(uuid.NewV7()), "t1")))
	mr.FastForward(2 * time.Hour)

	_, err := repo.FindByToken(ctx, "t1")
	assert.ErrorIs(t, err, rememberDomain.ErrCredentialNotFound)
}

func TestRedisCredentialRepository_DeleteByToken(t *testing.T) {
	repo, _ := newRedisRepository(t)
	ctx := context.Background()
	userID := uuid.Must(uuid.NewV7())

	require.NoError(t, repo.Put(ctx, credentialFor(userID, "t1")))
	require.NoError(t, repo.DeleteByToken(ctx, "t1"))
	require.NoError(t, repo.DeleteByToken(ctx, "t1"))

	_, err := repo.FindByToken(ctx, "t1")
	assert.ErrorIs(t, err, rememberDomain.ErrCredentialNotFound)

	removed, err := repo.DeleteAllForUser(ctx, userID)
	require.NoError(t, err)
	assert.Zero(t, removed)
}

func TestRedisCredentialRepository_DeleteAllForUser(t *testing.T) {
	repo, _ := newRedisRepository(t)
	ctx := context.Background()
	userID := uuid.Must(uuid.NewV7())
	otherID := uuid.Must(uuid.NewV7())

	require.NoError(t, repo.Put(ctx, credentialFor(userID, "a")))
	require.NoError(t, repo.Put(ctx, credentialFor(userID, "b")))
	require.NoError(t, repo.Put(ctx, credentialFor(otherID, "c")))

	removed, err := repo.DeleteAllForUser(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)

	_, err = repo.FindByToken(ctx, "a")
	assert.ErrorIs(t, err, rememberDomain.ErrCredentialNotFound)
	_, err = repo.FindByToken(ctx, "c")
	assert.NoError(t, err)
}

func TestRedisCredentialRepository_AtomicReplace(t *testing.T) {
	t.Run("Success_Replaced", func(t *testing.T) {
		repo, _ := newRedisRepository(t)
		ctx := context.Background()
		userID := uuid.Must(uuid.NewV7())

		require.NoError(t, repo.Put(ctx, credentialFor(userID, "old")))

		replaced, err := repo.AtomicReplace(ctx, "old", credentialFor(userID, "new"))
		require.NoError(t, err)
		assert.True(t, replaced)

		_, err = repo.FindByToken(ctx, "old")
		assert.ErrorIs(t, err, rememberDomain.ErrCredentialNotFound)
		_, err = repo.FindByToken(ctx, "new")
		assert.NoError(t, err)

		removed, err := repo.DeleteAllForUser(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), removed)
	})

	t.Run("Success_MissingOldToken", func(t *testing.T) {
		repo, _ := newRedisRepository(t)
		ctx := context.Background()

		replaced, err := repo.AtomicReplace(ctx, "old", credentialFor(uuid.Must(uuid.NewV7()), "new"))
		require.NoError(t, err)
		assert.False(t, replaced)

		_, err = repo.FindByToken(ctx, "new")
		assert.ErrorIs(t, err, rememberDomain.ErrCredentialNotFound)
	})

	t.Run("Error_DuplicateSuccessorLeavesOldInPlace", func(t *testing.T) {
		repo, _ := newRedisRepository(t)
		ctx := context.Background()
		userID := uuid.Must(uuid.NewV7())

		require.NoError(t, repo.Put(ctx, credentialFor(userID, "old")))
		require.NoError(t, repo.Put(ctx, credentialFor(userID, "taken")))

		replaced, err := repo.AtomicReplace(ctx, "old", credentialFor(userID, "taken"))
		assert.False(t, replaced)
		assert.ErrorIs(t, err, rememberDomain.ErrDuplicateToken)

		_, err = repo.FindByToken(ctx, "old")
		assert.NoError(t, err)
	})

	t.Run("Concurrent_ExactlyOneWinner", func(t *testing.T) {
		repo, _ := newRedisRepository(t)
		ctx := context.Background()
		userID := uuid.Must(uuid.NewV7())

		require.NoError(t, repo.Put(ctx, credentialFor(userID, "old")))

		var wins atomic.Int32
		var wg sync.WaitGroup
		for range 16 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				successor := credentialFor(userID, "new-"+uuid.NewString())
				replaced, err := repo.AtomicReplace(ctx, "old", successor)
				assert.NoError(t, err)
				if replaced {
					wins.Add(1)
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, int32(1), wins.Load())
	})
}

func TestRedisCredentialRepository_ExpiryHandledByRedis(t *testing.T) {
	repo, _ := newRedisRepository(t)

	deleted, err := repo.DeleteExpired(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Zero(t, deleted)

	counted, err := repo.CountExpired(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Zero(t, counted)
}

func TestRedisCredentialRepository_Unavailable(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	defer func() { _ = client.Close() }()
	repo := NewRedisCredentialRepository(client, "rm")
	mr.Close()

	_, err = repo.FindByToken(context.Background(), "t1")
	assert.ErrorIs(t, err, rememberDomain.ErrStoreUnavailable)

	err = repo.Put(context.Background(), credentialFor(uuid.Must(uuid.NewV7()), "t1"))
	assert.ErrorIs(t, err, rememberDomain.ErrStoreUnavailable)
}
