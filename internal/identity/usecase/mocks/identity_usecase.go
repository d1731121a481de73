// Package mocks provides mock implementations of the identity use case interfaces for testing.
package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/allisson/rememberme/internal/identity/domain"
	"github.com/allisson/rememberme/internal/identity/usecase"
)

// MockIdentityUseCase is a mock implementation of usecase.IdentityUseCase.
type MockIdentityUseCase struct {
	mock.Mock
}

// Resolve mocks the Resolve method.
func (m *MockIdentityUseCase) Resolve(
	ctx context.Context,
	transport usecase.CookieTransport,
) (*domain.Resolution, error) {
	args := m.Called(ctx, transport)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Resolution), args.Error(1)
}

// Login mocks the Login method.
func (m *MockIdentityUseCase) Login(
	ctx context.Context,
	transport usecase.CookieTransport,
	input usecase.LoginInput,
) (*domain.Principal, error) {
	args := m.Called(ctx, transport, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Principal), args.Error(1)
}

// Logout mocks the Logout method.
func (m *MockIdentityUseCase) Logout(
	ctx context.Context,
	transport usecase.CookieTransport,
	principal *domain.Principal,
) error {
	args := m.Called(ctx, transport, principal)
	return args.Error(0)
}

// LogoutEverywhere mocks the LogoutEverywhere method.
func (m *MockIdentityUseCase) LogoutEverywhere(
	ctx context.Context,
	transport usecase.CookieTransport,
	principal *domain.Principal,
) error {
	args := m.Called(ctx, transport, principal)
	return args.Error(0)
}

// RevokeUser mocks the RevokeUser method.
func (m *MockIdentityUseCase) RevokeUser(ctx context.Context, userID uuid.UUID) (*usecase.RevokeResult, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.RevokeResult), args.Error(1)
}
