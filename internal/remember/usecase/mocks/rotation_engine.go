// Package mocks provides mock implementations of the remember-me use case
// interfaces for testing.
package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	rememberDomain "github.com/allisson/rememberme/internal/remember/domain"
)

// MockRotationEngine is a mock implementation of RotationEngine.
type MockRotationEngine struct {
	mock.Mock
}

// Issue mocks the Issue method of RotationEngine.
func (m *MockRotationEngine) Issue(ctx context.Context, userID uuid.UUID) (*rememberDomain.Pair, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*rememberDomain.Pair), args.Error(1)
}

// Rotate mocks the Rotate method of RotationEngine.
func (m *MockRotationEngine) Rotate(
	ctx context.Context,
	token, secret string,
) (rememberDomain.RotationResult, error) {
	args := m.Called(ctx, token, secret)
	return args.Get(0).(rememberDomain.RotationResult), args.Error(1)
}

// Revoke mocks the Revoke method of RotationEngine.
func (m *MockRotationEngine) Revoke(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

// RevokeAllForUser mocks the RevokeAllForUser method of RotationEngine.
func (m *MockRotationEngine) RevokeAllForUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

// PurgeExpired mocks the PurgeExpired method of RotationEngine.
func (m *MockRotationEngine) PurgeExpired(ctx context.Context, dryRun bool) (int64, error) {
	args := m.Called(ctx, dryRun)
	return args.Get(0).(int64), args.Error(1)
}
