package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	identityUseCase "github.com/allisson/rememberme/internal/identity/usecase"
)

// RunRevokeCredentials logs a user out on every device: all remember-me credentials
// and all sessions of the user are deleted.
func RunRevokeCredentials(
	ctx context.Context,
	useCase identityUseCase.IdentityUseCase,
	logger *slog.Logger,
	writer io.Writer,
	userIDStr string,
	format string,
) error {
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return fmt.Errorf("invalid user id format: %w", err)
	}

	logger.Info("revoking user credentials", slog.String("user_id", userID.String()))

	result, err := useCase.RevokeUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to revoke credentials: %w", err)
	}

	if format == "json" {
		writeJSON(writer, map[string]any{
			"user_id":     userID.String(),
			"credentials": result.Credentials,
			"sessions":    result.Sessions,
		})
	} else {
		_, _ = fmt.Fprintf(writer, "Revoked %d credential(s) and %d session(s) for user %s\n",
			result.Credentials, result.Sessions, userID)
	}

	logger.Info("user credentials revoked",
		slog.String("user_id", userID.String()),
		slog.Int64("credentials", result.Credentials),
		slog.Int64("sessions", result.Sessions),
	)

	return nil
}
