package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	rememberDomain "github.com/allisson/rememberme/internal/remember/domain"
)

// MockCredentialRepository is a mock implementation of CredentialRepository.
type MockCredentialRepository struct {
	mock.Mock
}

// Put mocks the Put method of CredentialRepository.
func (m *MockCredentialRepository) Put(ctx context.Context, credential *rememberDomain.Credential) error {
	args := m.Called(ctx, credential)
	return args.Error(0)
}

// FindByToken mocks the FindByToken method of CredentialRepository.
func (m *MockCredentialRepository) FindByToken(
	ctx context.Context,
	tokenHash string,
) (*rememberDomain.Credential, error) {
	args := m.Called(ctx, tokenHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*rememberDomain.Credential), args.Error(1)
}

// DeleteByToken mocks the DeleteByToken method of CredentialRepository.
func (m *MockCredentialRepository) DeleteByToken(ctx context.Context, tokenHash string) error {
	args := m.Called(ctx, tokenHash)
	return args.Error(0)
}

// DeleteAllForUser mocks the DeleteAllForUser method of CredentialRepository.
func (m *MockCredentialRepository) DeleteAllForUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

// AtomicReplace mocks the AtomicReplace method of CredentialRepository.
func (m *MockCredentialRepository) AtomicReplace(
	ctx context.Context,
	oldTokenHash string,
	credential *rememberDomain.Credential,
) (bool, error) {
	args := m.Called(ctx, oldTokenHash, credential)
	return args.Bool(0), args.Error(1)
}

// DeleteExpired mocks the DeleteExpired method of CredentialRepository.
func (m *MockCredentialRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

// CountExpired mocks the CountExpired method of CredentialRepository.
func (m *MockCredentialRepository) CountExpired(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}
