// Package repository implements the Redis-backed session store.
package repository

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	sessionDomain "github.com/allisson/rememberme/internal/session/domain"
)

const (
	defaultSessionPrefix = "rm"
	sessionIDBytes       = 32
)

// KEYS[1] session key. ARGV: owner index prefix, session digest.
const destroySessionScript = `
local owner = redis.call("HGET", KEYS[1], "user_id")
if not owner then
  return 0
end
redis.call("DEL", KEYS[1])
redis.call("SREM", ARGV[1] .. owner, ARGV[2])
return 1
`

// KEYS[1] owner index key. ARGV: session key prefix.
const destroyUserSessionsScript = `
local digests = redis.call("SMEMBERS", KEYS[1])
local removed = 0
for _, digest in ipairs(digests) do
  removed = removed + redis.call("DEL", ARGV[1] .. digest)
end
redis.call("DEL", KEYS[1])
return removed
`

var (
	destroySessionLua      = redis.NewScript(destroySessionScript)
	destroyUserSessionsLua = redis.NewScript(destroyUserSessionsScript)
)

// RedisSessionRepository stores sessions as Redis hashes with a TTL equal to the
// session lifetime. Keys are derived from a SHA-256 digest of the session id so
// the raw cookie value never appears in Redis.
type RedisSessionRepository struct {
	client   redis.UniversalClient
	prefix   string
	lifetime time.Duration
	now      func() time.Time
}

// NewRedisSessionRepository creates a session repository. An empty prefix falls back to "rm".
func NewRedisSessionRepository(
	client redis.UniversalClient,
	prefix string,
	lifetime time.Duration,
) *RedisSessionRepository {
	if prefix == "" {
		prefix = defaultSessionPrefix
	}
	return &RedisSessionRepository{
		client:   client,
		prefix:   prefix,
		lifetime: lifetime,
		now:      time.Now,
	}
}

func digest(sessionID string) string {
	sum := sha256.Sum256([]byte(sessionID))
	return hex.EncodeToString(sum[:])
}

func (r *RedisSessionRepository) sessionPrefix() string {
	return r.prefix + ":sess:"
}

func (r *RedisSessionRepository) userPrefix() string {
	return r.prefix + ":usess:"
}

func (r *RedisSessionRepository) sessionKey(sessionID string) string {
	return r.sessionPrefix() + digest(sessionID)
}

func (r *RedisSessionRepository) userKey(userID uuid.UUID) string {
	return r.userPrefix() + userID.String()
}

func unavailable(err error) error {
	return fmt.Errorf("%w: %v", sessionDomain.ErrSessionStoreUnavailable, err)
}

func newSessionID() (string, error) {
	b := make([]byte, sessionIDBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// Create starts a new session for userID.
func (r *RedisSessionRepository) Create(ctx context.Context, userID uuid.UUID) (*sessionDomain.Session, error) {
	id, err := newSessionID()
	if err != nil {
		return nil, fmt.Errorf("generate session id: %w", err)
	}

	now := r.now().UTC()
	session := &sessionDomain.Session{
		ID:        id,
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(r.lifetime),
	}

	sessionKey := r.sessionKey(id)
	userKey := r.userKey(userID)

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, sessionKey,
			"user_id", userID.String(),
			"created_at", strconv.FormatInt(session.CreatedAt.UnixNano(), 10),
			"expires_at", strconv.FormatInt(session.ExpiresAt.UnixNano(), 10),
		)
		pipe.PExpire(ctx, sessionKey, r.lifetime)
		pipe.SAdd(ctx, userKey, digest(id))
		pipe.PExpire(ctx, userKey, r.lifetime)
		return nil
	})
	if err != nil {
		return nil, unavailable(err)
	}

	return session, nil
}

// Get returns the live session for sessionID.
func (r *RedisSessionRepository) Get(ctx context.Context, sessionID string) (*sessionDomain.Session, error) {
	if sessionID == "" {
		return nil, sessionDomain.ErrSessionNotFound
	}

	fields, err := r.client.HGetAll(ctx, r.sessionKey(sessionID)).Result()
	if err != nil {
		return nil, unavailable(err)
	}
	if len(fields) == 0 {
		return nil, sessionDomain.ErrSessionNotFound
	}

	session, err := decodeSession(sessionID, fields)
	if err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}

	if session.IsExpired(r.now()) {
		return nil, sessionDomain.ErrSessionNotFound
	}

	return session, nil
}

func decodeSession(sessionID string, fields map[string]string) (*sessionDomain.Session, error) {
	userID, err := uuid.Parse(fields["user_id"])
	if err != nil {
		return nil, err
	}
	createdAt, err := strconv.ParseInt(fields["created_at"], 10, 64)
	if err != nil {
		return nil, err
	}
	expiresAt, err := strconv.ParseInt(fields["expires_at"], 10, 64)
	if err != nil {
		return nil, err
	}

	return &sessionDomain.Session{
		ID:        sessionID,
		UserID:    userID,
		CreatedAt: time.Unix(0, createdAt).UTC(),
		ExpiresAt: time.Unix(0, expiresAt).UTC(),
	}, nil
}

// Destroy removes a session. Destroying an unknown session is not an error.
func (r *RedisSessionRepository) Destroy(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}

	err := destroySessionLua.Run(
		ctx,
		r.client,
		[]string{r.sessionKey(sessionID)},
		r.userPrefix(),
		digest(sessionID),
	).Err()
	if err != nil && !errors.Is(err, redis.Nil) {
		return unavailable(err)
	}
	return nil
}

// DestroyAllForUser removes every session of userID and returns how many existed.
func (r *RedisSessionRepository) DestroyAllForUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	removed, err := destroyUserSessionsLua.Run(
		ctx,
		r.client,
		[]string{r.userKey(userID)},
		r.sessionPrefix(),
	).Int64()
	if err != nil {
		return 0, unavailable(err)
	}
	return removed, nil
}
