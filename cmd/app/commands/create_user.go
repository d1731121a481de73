package commands

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	userDomain "github.com/allisson/rememberme/internal/user/domain"
	userUseCase "github.com/allisson/rememberme/internal/user/usecase"
)

// CreateUserOptions carries the create-user flags.
type CreateUserOptions struct {
	Email    string
	Name     string
	Surname  string
	Role     string
	Password string
	Format   string
}

// RunCreateUser registers a user account from the command line. When no password is
// given it is read twice from io.Reader, the second time as confirmation.
//
// Requirements: Database must be migrated and accessible.
func RunCreateUser(
	ctx context.Context,
	useCase userUseCase.UseCase,
	logger *slog.Logger,
	opts CreateUserOptions,
	io IOTuple,
) error {
	role := userDomain.Role(opts.Role)
	if !role.IsValid() {
		return fmt.Errorf("invalid role: %s (valid options: admin, user)", opts.Role)
	}

	logger.Info("creating user", slog.String("email", opts.Email), slog.String("role", opts.Role))

	password, passwordRetype := opts.Password, opts.Password
	if password == "" {
		var err error
		password, passwordRetype, err = promptForPassword(io)
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
	}

	user, err := useCase.Register(ctx, userUseCase.RegisterUserInput{
		Name:           opts.Name,
		Surname:        opts.Surname,
		Email:          opts.Email,
		Password:       password,
		PasswordRetype: passwordRetype,
		Role:           role,
	})
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	if opts.Format == "json" {
		writeJSON(io.Writer, map[string]string{
			"id":    user.ID.String(),
			"email": user.Email,
			"role":  string(user.Role),
		})
	} else {
		outputCreateUserText(user, io.Writer)
	}

	logger.Info("user created successfully",
		slog.String("user_id", user.ID.String()),
		slog.String("role", string(user.Role)),
	)

	return nil
}

func promptForPassword(io IOTuple) (string, string, error) {
	reader := bufio.NewReader(io.Reader)

	_, _ = fmt.Fprint(io.Writer, "Password: ")
	password, err := reader.ReadString('\n')
	if err != nil {
		return "", "", err
	}

	_, _ = fmt.Fprint(io.Writer, "Confirm password: ")
	retype, err := reader.ReadString('\n')
	if err != nil {
		return "", "", err
	}

	return strings.TrimRight(password, "\r\n"), strings.TrimRight(retype, "\r\n"), nil
}

func outputCreateUserText(user *userDomain.User, writer io.Writer) {
	_, _ = fmt.Fprintln(writer, "\nUser created successfully!")
	_, _ = fmt.Fprintf(writer, "User ID: %s\n", user.ID.String())
	_, _ = fmt.Fprintf(writer, "Email: %s\n", user.Email)
	_, _ = fmt.Fprintf(writer, "Role: %s\n", user.Role)
}
