package commands

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	identityUseCase "github.com/allisson/rememberme/internal/identity/usecase"
	identityMocks "github.com/allisson/rememberme/internal/identity/usecase/mocks"
)

func TestRunRevokeCredentials(t *testing.T) {
	ctx := context.Background()
	logger := slog.Default()
	userID := uuid.Must(uuid.NewV7())

	t.Run("text-output", func(t *testing.T) {
		mockUseCase := &identityMocks.MockIdentityUseCase{}
		mockUseCase.On("RevokeUser", ctx, userID).
			Return(&identityUseCase.RevokeResult{Credentials: 2, Sessions: 3}, nil)

		var out bytes.Buffer
		err := RunRevokeCredentials(ctx, mockUseCase, logger, &out, userID.String(), "text")

		require.NoError(t, err)
		require.Contains(t, out.String(), "Revoked 2 credential(s) and 3 session(s)")
		require.Contains(t, out.String(), userID.String())
		mockUseCase.AssertExpectations(t)
	})

	t.Run("json-output", func(t *testing.T) {
		mockUseCase := &identityMocks.MockIdentityUseCase{}
		mockUseCase.On("RevokeUser", ctx, userID).
			Return(&identityUseCase.RevokeResult{Credentials: 1}, nil)

		var out bytes.Buffer
		err := RunRevokeCredentials(ctx, mockUseCase, logger, &out, userID.String(), "json")

		require.NoError(t, err)
		require.Contains(t, out.String(), `"credentials": 1`)
		require.Contains(t, out.String(), `"sessions": 0`)
		mockUseCase.AssertExpectations(t)
	})

	t.Run("invalid-user-id", func(t *testing.T) {
		mockUseCase := &identityMocks.MockIdentityUseCase{}

		err := RunRevokeCredentials(ctx, mockUseCase, logger, &bytes.Buffer{}, "not-a-uuid", "text")

		require.Error(t, err)
		require.Contains(t, err.Error(), "invalid user id format")
		mockUseCase.AssertNotCalled(t, "RevokeUser")
	})

	t.Run("use-case-error", func(t *testing.T) {
		mockUseCase := &identityMocks.MockIdentityUseCase{}
		mockUseCase.On("RevokeUser", ctx, userID).Return(nil, errors.New("redis down"))

		err := RunRevokeCredentials(ctx, mockUseCase, logger, &bytes.Buffer{}, userID.String(), "text")

		require.Error(t, err)
		require.Contains(t, err.Error(), "failed to revoke credentials")
	})
}
