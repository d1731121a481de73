package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/rememberme/internal/metrics"
	rememberDomain "github.com/allisson/rememberme/internal/remember/domain"
)

const metricsDomain = "remember"

// rotationEngineWithMetrics decorates RotationEngine with metrics instrumentation.
type rotationEngineWithMetrics struct {
	next    RotationEngine
	metrics metrics.BusinessMetrics
}

// NewRotationEngineWithMetrics wraps a RotationEngine with metrics recording.
func NewRotationEngineWithMetrics(engine RotationEngine, m metrics.BusinessMetrics) RotationEngine {
	return &rotationEngineWithMetrics{
		next:    engine,
		metrics: m,
	}
}

func (r *rotationEngineWithMetrics) record(
	ctx context.Context,
	operation string,
	start time.Time,
	status string,
) {
	r.metrics.RecordOperation(ctx, metricsDomain, operation, status)
	r.metrics.RecordDuration(ctx, metricsDomain, operation, time.Since(start), status)
}

func errorStatus(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

// Issue records metrics for credential issuance.
func (r *rotationEngineWithMetrics) Issue(ctx context.Context, userID uuid.UUID) (*rememberDomain.Pair, error) {
	start := time.Now()
	pair, err := r.next.Issue(ctx, userID)
	r.record(ctx, "issue", start, errorStatus(err))
	return pair, err
}

// Rotate records metrics labelled with the rotation outcome.
func (r *rotationEngineWithMetrics) Rotate(
	ctx context.Context,
	token, secret string,
) (rememberDomain.RotationResult, error) {
	start := time.Now()
	result, err := r.next.Rotate(ctx, token, secret)

	status := result.Outcome.String()
	if err != nil {
		status = "error"
	}
	r.record(ctx, "rotate", start, status)

	return result, err
}

// Revoke records metrics for single credential revocation.
func (r *rotationEngineWithMetrics) Revoke(ctx context.Context, token string) error {
	start := time.Now()
	err := r.next.Revoke(ctx, token)
	r.record(ctx, "revoke", start, errorStatus(err))
	return err
}

// RevokeAllForUser records metrics for revoking a user's credential family.
func (r *rotationEngineWithMetrics) RevokeAllForUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	start := time.Now()
	removed, err := r.next.RevokeAllForUser(ctx, userID)
	r.record(ctx, "revoke_all", start, errorStatus(err))
	return removed, err
}

// PurgeExpired records metrics for expired credential cleanup.
func (r *rotationEngineWithMetrics) PurgeExpired(ctx context.Context, dryRun bool) (int64, error) {
	start := time.Now()
	count, err := r.next.PurgeExpired(ctx, dryRun)
	r.record(ctx, "purge_expired", start, errorStatus(err))
	return count, err
}
