// Package repository implements remember-me credential persistence for PostgreSQL,
// MySQL and Redis.
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

// PostgreSQLCredentialRepository implements credential persistence for PostgreSQL.
// Only token and secret digests are stored.
type PostgreSQLCredentialRepository struct {
	db        *sql.DB
	txManager database.TxManager
}

// Put inserts a new credential. A unique violation on token_hash maps to ErrDuplicateToken.
func (p *PostgreSQLCredentialRepository) Put(
	ctx context.Context,
	credential *rememberDomain.Credential,
) error {
	querier := database.GetTx(ctx, p.db)
	return p.insert(ctx, querier, credential)
}

func (p *PostgreSQLCredentialRepository) insert(
	ctx context.Context,
	querier database.Querier,
	credential *rememberDomain.Credential,
) error {
	query := `INSERT INTO remember_credentials (id, token_hash, secret_hash, user_id, issued_at, expires_at)
			  VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := querier.ExecContext(
		ctx,
		query,
		credential.ID,
		credential.TokenHash,
		credential.SecretHash,
		credential.UserID,
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
func (p *PostgreSQLCredentialRepository) FindByToken(
	ctx context.Context,
	tokenHash string,
) (*rememberDomain.Credential, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, token_hash, secret_hash, user_id, issued_at, expires_at
			  FROM remember_credentials WHERE token_hash = $1`

	var credential rememberDomain.Credential
	err := querier.QueryRowContext(ctx, query, tokenHash).Scan(
		&credential.ID,
		&credential.TokenHash,
		&credential.SecretHash,
		&credential.UserID,
		&credential.IssuedAt,
		&credential.ExpiresAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, rememberDomain.ErrCredentialNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get remember credential")
	}

	return &credential, nil
}

// DeleteByToken removes a credential by token digest. Missing rows are ignored.
func (p *PostgreSQLCredentialRepository) DeleteByToken(ctx context.Context, tokenHash string) error {
	querier := database.GetTx(ctx, p.db)

	query := `DELETE FROM remember_credentials WHERE token_hash = $1`

	if _, err := querier.ExecContext(ctx, query, tokenHash); err != nil {
		return apperrors.Wrap(err, "failed to delete remember credential")
	}
	return nil
}

// DeleteAllForUser removes every credential owned by userID.
func (p *PostgreSQLCredentialRepository) DeleteAllForUser(
	ctx context.Context,
	userID uuid.UUID,
) (int64, error) {
	querier := database.GetTx(ctx, p.db)

	query := `DELETE FROM remember_credentials WHERE user_id = $1`

	result, err := querier.ExecContext(ctx, query, userID)
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
// The row lock taken by DELETE serializes concurrent callers: the loser sees zero
// affected rows once the winner commits.
func (p *PostgreSQLCredentialRepository) AtomicReplace(
	ctx context.Context,
	oldTokenHash string,
	credential *rememberDomain.Credential,
) (bool, error) {
	replaced := false

	err := p.txManager.WithTx(ctx, func(ctx context.Context) error {
		querier := database.GetTx(ctx, p.db)

		result, err := querier.ExecContext(
			ctx,
			`DELETE FROM remember_credentials WHERE token_hash = $1`,
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

		if err := p.insert(ctx, querier, credential); err != nil {
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
func (p *PostgreSQLCredentialRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	querier := database.GetTx(ctx, p.db)

	query := `DELETE FROM remember_credentials WHERE expires_at <= $1`

	result, err := querier.ExecContext(ctx, query, now)
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
func (p *PostgreSQLCredentialRepository) CountExpired(ctx context.Context, now time.Time) (int64, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT COUNT(*) FROM remember_credentials WHERE expires_at <= $1`

	var count int64
	if err := querier.QueryRowContext(ctx, query, now).Scan(&count); err != nil {
		return 0, apperrors.Wrap(err, "failed to count expired remember credentials")
	}
	return count, nil
}

// NewPostgreSQLCredentialRepository creates a new PostgreSQL credential repository.
func NewPostgreSQLCredentialRepository(
	db *sql.DB,
	txManager database.TxManager,
) *PostgreSQLCredentialRepository {
	return &PostgreSQLCredentialRepository{db: db, txManager: txManager}
}
