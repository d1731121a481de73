package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/rememberme/internal/database"
	apperrors "github.com/allisson/rememberme/internal/errors"
	rememberDomain "github.com/allisson/rememberme/internal/remember/domain"
)

// MySQLCredentialRepository implements credential persistence for MySQL.
// Uses BINARY(16) for UUIDs with transaction support via database.GetTx().
type MySQLCredentialRepository struct {
	db        *sql.DB
	txManager database.TxManager
}

// Put inserts a new credential. A duplicate key on token_hash maps to ErrDuplicateToken.
func (m *MySQLCredentialRepository) Put(ctx context.Context, credential *rememberDomain.Credential) error {
	querier := database.GetTx(ctx, m.db)
	return m.insert(ctx, querier, credential)
}

func (m *MySQLCredentialRepository) insert(
	ctx context.Context,
	querier database.Querier,
	credential *rememberDomain.Credential,
) error {
	query := `INSERT INTO remember_credentials (id, token_hash, secret_hash, user_id, issued_at, expires_at)
			  VALUES (?, ?, ?, ?, ?, ?)`

	id, err := credential.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal credential id")
	}

	userID, err := credential.UserID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal user id")
	}

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
		credential.TokenHash,
		credential.SecretHash,
		userID,
		credential.IssuedAt,
		credential.ExpiresAt,
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return rememberDomain.ErrDuplicateToken
		}
		return apperrors.Wrap(err, "failed to create remember credential")
	}
	return nil
}

// FindByToken retrieves a credential by token digest.
func (m *MySQLCredentialRepository) FindByToken(
	ctx context.Context,
	tokenHash string,
) (*rememberDomain.Credential, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, token_hash, secret_hash, user_id, issued_at, expires_at
			  FROM remember_credentials WHERE token_hash = ?`

	var credential rememberDomain.Credential
	var idBytes []byte
	var userIDBytes []byte

	err := querier.QueryRowContext(ctx, query, tokenHash).Scan(
		&idBytes,
		&credential.TokenHash,
		&credential.SecretHash,
		&userIDBytes,
		&credential.IssuedAt,
		&credential.ExpiresAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, rememberDomain.ErrCredentialNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get remember credential")
	}

	if err := credential.ID.UnmarshalBinary(idBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal credential id")
	}

	if err := credential.UserID.UnmarshalBinary(userIDBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal user id")
	}

	return &credential, nil
}

// DeleteByToken removes a credential by token digest. Missing rows are ignored.
func (m *MySQLCredentialRepository) DeleteByToken(ctx context.Context, tokenHash string) error {
	querier := database.GetTx(ctx, m.db)

	if _, err := querier.ExecContext(
		ctx,
		`DELETE FROM remember_credentials WHERE token_hash = ?`,
		tokenHash,
	); err != nil {
		return apperrors.Wrap(err, "failed to delete remember credential")
	}
	return nil
}

// DeleteAllForUser removes every credential owned by userID.
func (m *MySQLCredentialRepository) DeleteAllForUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	querier := database.GetTx(ctx, m.db)

	id, err := userID.MarshalBinary()
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to marshal user id")
	}

	result, err := querier.ExecContext(ctx, `DELETE FROM remember_credentials WHERE user_id = ?`, id)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to delete remember credentials for user")
	}

	count, err := result.RowsAffected()
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to get affected rows")
	}
	return count, nil
}

// AtomicReplace deletes the old credential and inserts its successor in one transaction.
// InnoDB row locking makes a concurrent DELETE on the same token wait and then match nothing.
func (m *MySQLCredentialRepository) AtomicReplace(
	ctx context.Context,
	oldTokenHash string,
	credential *rememberDomain.Credential,
) (bool, error) {
	replaced := false

	err := m.txManager.WithTx(ctx, func(ctx context.Context) error {
		querier := database.GetTx(ctx, m.db)

		result, err := querier.ExecContext(
			ctx,
			`DELETE FROM remember_credentials WHERE token_hash = ?`,
			oldTokenHash,
		)
		if err != nil {
			return apperrors.Wrap(err, "failed to delete rotated remember credential")
		}

		count, err := result.RowsAffected()
		if err != nil {
			return apperrors.Wrap(err, "failed to get affected rows")
		}
		if count == 0 {
			return nil
		}

		if err := m.insert(ctx, querier, credential); err != nil {
			return err
		}

		replaced = true
		return nil
	})
	if err != nil {
		return false, err
	}

	return replaced, nil
}

// DeleteExpired removes credentials that expired at or before now.
func (m *MySQLCredentialRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	querier := database.GetTx(ctx, m.db)

	result, err := querier.ExecContext(ctx, `DELETE FROM remember_credentials WHERE expires_at <= ?`, now)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to delete expired remember credentials")
	}

	count, err := result.RowsAffected()
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to get affected rows")
	}
	return count, nil
}

// CountExpired counts credentials that expired at or before now.
func (m *MySQLCredentialRepository) CountExpired(ctx context.Context, now time.Time) (int64, error) {
	querier := database.GetTx(ctx, m.db)

	var count int64
	err := querier.QueryRowContext(
		ctx,
		`SELECT COUNT(*) FROM remember_credentials WHERE expires_at <= ?`,
		now,
	).Scan(&count)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to count expired remember credentials")
	}
	return count, nil
}

// NewMySQLCredentialRepository creates a new MySQL credential repository.
func NewMySQLCredentialRepository(db *sql.DB, txManager database.TxManager) *MySQLCredentialRepository {
	return &MySQLCredentialRepository{db: db, txManager: txManager}
}
