package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/rememberme/internal/metrics"
	"github.com/allisson/rememberme/internal/user/domain"
)

// userUseCaseWithMetrics decorates UseCase with metrics instrumentation.
type userUseCaseWithMetrics struct {
	next    UseCase
	metrics metrics.BusinessMetrics
}

// NewUserUseCaseWithMetrics wraps a UseCase with metrics recording.
func NewUserUseCaseWithMetrics(useCase UseCase, m metrics.BusinessMetrics) UseCase {
	return &userUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (u *userUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	u.metrics.RecordOperation(ctx, "user", operation, status)
	u.metrics.RecordDuration(ctx, "user", operation, time.Since(start), status)
}

// Register records metrics for user registration.
func (u *userUseCaseWithMetrics) Register(ctx context.Context, input RegisterUserInput) (*domain.User, error) {
	start := time.Now()
	user, err := u.next.Register(ctx, input)
	u.record(ctx, "register", start, err)
	return user, err
}

// Authenticate records metrics for password verification.
func (u *userUseCaseWithMetrics) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	start := time.Now()
	user, err := u.next.Authenticate(ctx, email, password)
	u.record(ctx, "authenticate", start, err)
	return user, err
}

// GetByID records metrics for user lookups.
func (u *userUseCaseWithMetrics) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	start := time.Now()
	user, err := u.next.GetByID(ctx, id)
	u.record(ctx, "get", start, err)
	return user, err
}

// List records metrics for user listing.
func (u *userUseCaseWithMetrics) List(ctx context.Context, offset, limit int) ([]*domain.User, error) {
	start := time.Now()
	users, err := u.next.List(ctx, offset, limit)
	u.record(ctx, "list", start, err)
	return users, err
}

// UpdateProfile records metrics for profile edits.
func (u *userUseCaseWithMetrics) UpdateProfile(
	ctx context.Context,
	id uuid.UUID,
	input UpdateProfileInput,
) (*domain.User, error) {
	start := time.Now()
	user, err := u.next.UpdateProfile(ctx, id, input)
	u.record(ctx, "update_profile", start, err)
	return user, err
}
