package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/rememberme/internal/identity/domain"
	"github.com/allisson/rememberme/internal/metrics"
)

const metricsDomain = "identity"

// identityUseCaseWithMetrics decorates IdentityUseCase with metrics instrumentation.
type identityUseCaseWithMetrics struct {
	next    IdentityUseCase
	metrics metrics.BusinessMetrics
}

// NewIdentityUseCaseWithMetrics wraps an IdentityUseCase with metrics recording.
func NewIdentityUseCaseWithMetrics(useCase IdentityUseCase, m metrics.BusinessMetrics) IdentityUseCase {
	return &identityUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (i *identityUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, status string) {
	i.metrics.RecordOperation(ctx, metricsDomain, operation, status)
	i.metrics.RecordDuration(ctx, metricsDomain, operation, time.Since(start), status)
}

func errorStatus(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

// Resolve records metrics labelled with the resolution outcome.
func (i *identityUseCaseWithMetrics) Resolve(
	ctx context.Context,
	transport CookieTransport,
) (*domain.Resolution, error) {
	start := time.Now()
	resolution, err := i.next.Resolve(ctx, transport)

	status := "error"
	if err == nil && resolution != nil {
		status = string(resolution.Outcome)
	}
	i.record(ctx, "resolve", start, status)

	return resolution, err
}

func (i *identityUseCaseWithMetrics) Login(
	ctx context.Context,
	transport CookieTransport,
	input LoginInput,
) (*domain.Principal, error) {
	start := time.Now()
	principal, err := i.next.Login(ctx, transport, input)
	i.record(ctx, "login", start, errorStatus(err))
	return principal, err
}

func (i *identityUseCaseWithMetrics) Logout(
	ctx context.Context,
	transport CookieTransport,
	principal *domain.Principal,
) error {
	start := time.Now()
	err := i.next.Logout(ctx, transport, principal)
	i.record(ctx, "logout", start, errorStatus(err))
	return err
}

func (i *identityUseCaseWithMetrics) LogoutEverywhere(
	ctx context.Context,
	transport CookieTransport,
	principal *domain.Principal,
) error {
	start := time.Now()
	err := i.next.LogoutEverywhere(ctx, transport, principal)
	i.record(ctx, "logout_everywhere", start, errorStatus(err))
	return err
}

func (i *identityUseCaseWithMetrics) RevokeUser(ctx context.Context, userID uuid.UUID) (*RevokeResult, error) {
	start := time.Now()
	result, err := i.next.RevokeUser(ctx, userID)
	i.record(ctx, "revoke_user", start, errorStatus(err))
	return result, err
}
