package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	rememberDomain "github.com/allisson/rememberme/internal/remember/domain"
)

const (
	defaultRedisCredentialPrefix = "rm"

	replaceStatusMissing   int64 = 0
	replaceStatusReplaced  int64 = 1
	replaceStatusDuplicate int64 = 2
)

// KEYS[1] credential key, KEYS[2] owner index key.
// ARGV: token hash, id, secret hash, user id, issued at, expires at, ttl ms.
const putCredentialScript = `
if redis.call("EXISTS", KEYS[1]) == 1 then
  return 2
end
redis.call("HSET", KEYS[1], "id", ARGV[2], "secret_hash", ARGV[3], "user_id", ARGV[4], "issued_at", ARGV[5], "expires_at", ARGV[6])
redis.call("PEXPIRE", KEYS[1], ARGV[7])
redis.call("SADD", KEYS[2], ARGV[1])
if redis.call("PTTL", KEYS[2]) < tonumber(ARGV[7]) then
  redis.call("PEXPIRE", KEYS[2], ARGV[7])
end
return 1
`

// KEYS[1] old credential key, KEYS[2] new credential key.
// ARGV: index prefix, old token hash, new token hash, id, secret hash, user id,
// issued at, expires at, ttl ms.
const replaceCredentialScript = `
local owner = redis.call("HGET", KEYS[1], "user_id")
if not owner then
  return 0
end
if redis.call("EXISTS", KEYS[2]) == 1 then
  return 2
end
local old_index = ARGV[1] .. owner
local new_index = ARGV[1] .. ARGV[6]
redis.call("DEL", KEYS[1])
redis.call("SREM", old_index, ARGV[2])
redis.call("HSET", KEYS[2], "id", ARGV[4], "secret_hash", ARGV[5], "user_id", ARGV[6], "issued_at", ARGV[7], "expires_at", ARGV[8])
redis.call("PEXPIRE", KEYS[2], ARGV[9])
redis.call("SADD", new_index, ARGV[3])
if redis.call("PTTL", new_index) < tonumber(ARGV[9]) then
  redis.call("PEXPIRE", new_index, ARGV[9])
end
return 1
`

// KEYS[1] credential key. ARGV: index prefix, token hash.
const deleteCredentialScript = `
local owner = redis.call("HGET", KEYS[1], "user_id")
if not owner then
  return 0
end
redis.call("DEL", KEYS[1])
redis.call("SREM", ARGV[1] .. owner, ARGV[2])
return 1
`

// KEYS[1] owner index key. ARGV: credential key prefix.
const deleteUserCredentialsScript = `
local tokens = redis.call("SMEMBERS", KEYS[1])
local removed = 0
for _, token in ipairs(tokens) do
  removed = removed + redis.call("DEL", ARGV[1] .. token)
end
redis.call("DEL", KEYS[1])
return removed
`

var (
	putCredentialLua         = redis.NewScript(putCredentialScript)
	replaceCredentialLua     = redis.NewScript(replaceCredentialScript)
	deleteCredentialLua      = redis.NewScript(deleteCredentialScript)
	deleteUserCredentialsLua = redis.NewScript(deleteUserCredentialsScript)
)

// RedisCredentialRepository stores credentials as Redis hashes keyed by token digest,
// with a per-user set indexing the digests each user owns. Every mutation runs as a
// Lua script so it is atomic on a single Redis node. Key expiry replaces the
// periodic purge the SQL stores need.
type RedisCredentialRepository struct {
	client redis.UniversalClient
	prefix string
}

func (r *RedisCredentialRepository) credentialPrefix() string {
	return r.prefix + ":cred:"
}

func (r *RedisCredentialRepository) userPrefix() string {
	return r.prefix + ":user:"
}

func (r *RedisCredentialRepository) credentialKey(tokenHash string) string {
	return r.credentialPrefix() + tokenHash
}

func (r *RedisCredentialRepository) userKey(userID uuid.UUID) string {
	return r.userPrefix() + userID.String()
}

func unavailable(err error) error {
	return fmt.Errorf("%w: %v", rememberDomain.ErrStoreUnavailable, err)
}

// ttlMillis never returns less than one millisecond; PEXPIRE with zero deletes the key.
func ttlMillis(credential *rememberDomain.Credential) int64 {
	ms := credential.TTL(credential.IssuedAt).Milliseconds()
	if ms < 1 {
		return 1
	}
	return ms
}

// Put stores a new credential. Returns ErrDuplicateToken if the digest is taken.
func (r *RedisCredentialRepository) Put(ctx context.Context, credential *rememberDomain.Credential) error {
	status, err := putCredentialLua.Run(
		ctx,
		r.client,
		[]string{r.credentialKey(credential.TokenHash), r.userKey(credential.UserID)},
		credential.TokenHash,
		credential.ID.String(),
		credential.SecretHash,
		credential.UserID.String(),
		credential.IssuedAt.UnixNano(),
		credential.ExpiresAt.UnixNano(),
		ttlMillis(credential),
	).Int64()
	if err != nil {
		return unavailable(err)
	}
	if status == replaceStatusDuplicate {
		return rememberDomain.ErrDuplicateToken
	}
	return nil
}

// FindByToken retrieves a credential by token digest.
func (r *RedisCredentialRepository) FindByToken(
	ctx context.Context,
	tokenHash string,
) (*rememberDomain.Credential, error) {
	fields, err := r.client.HGetAll(ctx, r.credentialKey(tokenHash)).Result()
	if err != nil {
		return nil, unavailable(err)
	}
	if len(fields) == 0 {
		return nil, rememberDomain.ErrCredentialNotFound
	}

	credential, err := decodeCredential(tokenHash, fields)
	if err != nil {
		return nil, fmt.Errorf("decode remember credential: %w", err)
	}
	return credential, nil
}

func decodeCredential(tokenHash string, fields map[string]string) (*rememberDomain.Credential, error) {
	id, err := uuid.Parse(fields["id"])
	if err != nil {
		return nil, err
	}
	userID, err := uuid.Parse(fields["user_id"])
	if err != nil {
		return nil, err
	}
	issuedAt, err := strconv.ParseInt(fields["issued_at"], 10, 64)
	if err != nil {
		return nil, err
	}
	expiresAt, err := strconv.ParseInt(fields["expires_at"], 10, 64)
	if err != nil {
		return nil, err
	}
	secretHash, ok := fields["secret_hash"]
	if !ok {
		return nil, errors.New("missing secret_hash")
	}

	return &rememberDomain.Credential{
		ID:         id,
		TokenHash:  tokenHash,
		SecretHash: secretHash,
		UserID:     userID,
		IssuedAt:   time.Unix(0, issuedAt).UTC(),
		ExpiresAt:  time.Unix(0, expiresAt).UTC(),
	}, nil
}

// DeleteByToken removes a credential and its index entry. Missing keys are ignored.
func (r *RedisCredentialRepository) DeleteByToken(ctx context.Context, tokenHash string) error {
	err := deleteCredentialLua.Run(
		ctx,
		r.client,
		[]string{r.credentialKey(tokenHash)},
		r.userPrefix(),
		tokenHash,
	).Err()
	if err != nil && !errors.Is(err, redis.Nil) {
		return unavailable(err)
	}
	return nil
}

// DeleteAllForUser removes every credential indexed under userID.
func (r *RedisCredentialRepository) DeleteAllForUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	removed, err := deleteUserCredentialsLua.Run(
		ctx,
		r.client,
		[]string{r.userKey(userID)},
		r.credentialPrefix(),
	).Int64()
	if err != nil {
		return 0, unavailable(err)
	}
	return removed, nil
}

// AtomicReplace swaps the old credential for its successor inside one script.
func (r *RedisCredentialRepository) AtomicReplace(
	ctx context.Context,
	oldTokenHash string,
	credential *rememberDomain.Credential,
) (bool, error) {
	status, err := replaceCredentialLua.Run(
		ctx,
		r.client,
		[]string{r.credentialKey(oldTokenHash), r.credentialKey(credential.TokenHash)},
		r.userPrefix(),
		oldTokenHash,
		credential.TokenHash,
		credential.ID.String(),
		credential.SecretHash,
		credential.UserID.String(),
		credential.IssuedAt.UnixNano(),
		credential.ExpiresAt.UnixNano(),
		ttlMillis(credential),
	).Int64()
	if err != nil {
		return false, unavailable(err)
	}

	switch status {
	case replaceStatusReplaced:
		return true, nil
	case replaceStatusDuplicate:
		return false, rememberDomain.ErrDuplicateToken
	default:
		return false, nil
	}
}

// DeleteExpired is a no-op: Redis expires credential keys on its own.
func (r *RedisCredentialRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	return 0, nil
}

// CountExpired always reports zero for the same reason.
func (r *RedisCredentialRepository) CountExpired(ctx context.Context, now time.Time) (int64, error) {
	return 0, nil
}

// NewRedisCredentialRepository creates a Redis credential repository. An empty prefix
// falls back to "rm".
func NewRedisCredentialRepository(client redis.UniversalClient, prefix string) *RedisCredentialRepository {
	if prefix == "" {
		prefix = defaultRedisCredentialPrefix
	}
	return &RedisCredentialRepository{client: client, prefix: prefix}
}
