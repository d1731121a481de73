package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	rememberUseCase "github.com/allisson/rememberme/internal/remember/usecase"
)

// RunCleanExpiredCredentials deletes remember-me credentials whose expiry has passed.
// Dry-run reports how many would go. The Redis store expires keys on its own and
// always reports zero.
func RunCleanExpiredCredentials(
	ctx context.Context,
	engine rememberUseCase.RotationEngine,
	logger *slog.Logger,
	writer io.Writer,
	dryRun bool,
	format string,
) error {
	logger.Info("cleaning expired credentials", slog.Bool("dry_run", dryRun))

	count, err := engine.PurgeExpired(ctx, dryRun)
	if err != nil {
		return fmt.Errorf("failed to purge expired credentials: %w", err)
	}

	if format == "json" {
		writeJSON(writer, map[string]any{
			"count":   count,
			"dry_run": dryRun,
		})
	} else if dryRun {
		_, _ = fmt.Fprintf(writer, "Dry-run mode: Would delete %d expired credential(s)\n", count)
	} else {
		_, _ = fmt.Fprintf(writer, "Successfully deleted %d expired credential(s)\n", count)
	}

	logger.Info("cleanup completed",
		slog.Int64("count", count),
		slog.Bool("dry_run", dryRun),
	)

	return nil
}
