package commands

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	userDomain "github.com/allisson/rememberme/internal/user/domain"
	userUseCase "github.com/allisson/rememberme/internal/user/usecase"
	userMocks "github.com/allisson/rememberme/internal/user/usecase/mocks"
)

func TestRunCreateUser(t *testing.T) {
	ctx := context.Background()
	logger := slog.Default()
	userID := uuid.Must(uuid.NewV7())
	created := &userDomain.User{ID: userID, Email: "admin@example.com", Role: userDomain.RoleAdmin}

	t.Run("password-flag-text", func(t *testing.T) {
		mockUseCase := &userMocks.MockUserUseCase{}
		mockUseCase.On("Register", ctx, userUseCase.RegisterUserInput{
			Name:           "Ada",
			Surname:        "Lovelace",
			Email:          "admin@example.com",
			Password:       "S3cure!pass",
			PasswordRetype: "S3cure!pass",
			Role:           userDomain.RoleAdmin,
		}).Return(created, nil)

		var out bytes.Buffer
		err := RunCreateUser(ctx, mockUseCase, logger, CreateUserOptions{
			Email:    "admin@example.com",
			Name:     "Ada",
			Surname:  "Lovelace",
			Role:     "admin",
			Password: "S3cure!pass",
			Format:   "text",
		}, IOTuple{Writer: &out})

		require.NoError(t, err)
		require.Contains(t, out.String(), userID.String())
		require.Contains(t, out.String(), "Role: admin")
		mockUseCase.AssertExpectations(t)
	})

	t.Run("prompted-password-json", func(t *testing.T) {
		mockUseCase := &userMocks.MockUserUseCase{}
		mockUseCase.On("Register", ctx, userUseCase.RegisterUserInput{
			Name:           "Ada",
			Surname:        "Lovelace",
			Email:          "admin@example.com",
			Password:       "S3cure!pass",
			PasswordRetype: "S3cure!pasz",
			Role:           userDomain.RoleAdmin,
		}).Return(created, nil)

		var out bytes.Buffer
		err := RunCreateUser(ctx, mockUseCase, logger, CreateUserOptions{
			Email:   "admin@example.com",
			Name:    "Ada",
			Surname: "Lovelace",
			Role:    "admin",
			Format:  "json",
		}, IOTuple{Reader: strings.NewReader("S3cure!pass\nS3cure!pasz\n"), Writer: &out})

		require.NoError(t, err)
		require.Contains(t, out.String(), `"id": "`+userID.String()+`"`)
		require.Contains(t, out.String(), `"role": "admin"`)
		mockUseCase.AssertExpectations(t)
	})

	t.Run("invalid-role", func(t *testing.T) {
		mockUseCase := &userMocks.MockUserUseCase{}

		err := RunCreateUser(ctx, mockUseCase, logger, CreateUserOptions{
			Email: "admin@example.com",
			Role:  "root",
		}, IOTuple{Writer: &bytes.Buffer{}})

		require.Error(t, err)
		require.Contains(t, err.Error(), "invalid role")
		mockUseCase.AssertNotCalled(t, "Register")
	})

	t.Run("prompt-eof", func(t *testing.T) {
		mockUseCase := &userMocks.MockUserUseCase{}

		err := RunCreateUser(ctx, mockUseCase, logger, CreateUserOptions{
			Email: "admin@example.com",
			Role:  "user",
		}, IOTuple{Reader: strings.NewReader(""), Writer: &bytes.Buffer{}})

		require.Error(t, err)
		require.Contains(t, err.Error(), "failed to read password")
	})

	t.Run("register-error", func(t *testing.T) {
		mockUseCase := &userMocks.MockUserUseCase{}
		mockUseCase.On("Register", ctx, userUseCase.RegisterUserInput{
			Email:          "admin@example.com",
			Password:       "S3cure!pass",
			PasswordRetype: "S3cure!pass",
			Role:           userDomain.RoleUser,
		}).Return(nil, userDomain.ErrUserAlreadyExists)

		err := RunCreateUser(ctx, mockUseCase, logger, CreateUserOptions{
			Email:    "admin@example.com",
			Role:     "user",
			Password: "S3cure!pass",
		}, IOTuple{Writer: &bytes.Buffer{}})

		require.Error(t, err)
		require.ErrorIs(t, err, userDomain.ErrUserAlreadyExists)
	})
}
