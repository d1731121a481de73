package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	sessionDomain "github.com/allisson/rememberme/internal/session/domain"
	userDomain "github.com/allisson/rememberme/internal/user/domain"
)

// MockSessionStore is a mock implementation of usecase.SessionStore.
type MockSessionStore struct {
	mock.Mock
}

// Create mocks the Create method.
func (m *MockSessionStore) Create(ctx context.Context, userID uuid.UUID) (*sessionDomain.Session, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sessionDomain.Session), args.Error(1)
}

// Get mocks the Get method.
func (m *MockSessionStore) Get(ctx context.Context, sessionID string) (*sessionDomain.Session, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sessionDomain.Session), args.Error(1)
}

// Destroy mocks the Destroy method.
func (m *MockSessionStore) Destroy(ctx context.Context, sessionID string) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}

// DestroyAllForUser mocks the DestroyAllForUser method.
func (m *MockSessionStore) DestroyAllForUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

// MockUserStore is a mock implementation of usecase.UserStore.
type MockUserStore struct {
	mock.Mock
}

// GetByID mocks the GetByID method.
func (m *MockUserStore) GetByID(ctx context.Context, id uuid.UUID) (*userDomain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*userDomain.User), args.Error(1)
}

// Authenticate mocks the Authenticate method.
func (m *MockUserStore) Authenticate(ctx context.Context, email, password string) (*userDomain.User, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*userDomain.User), args.Error(1)
}
