package usecase

import (
	"context"
	"time"

	"github.com/keepitcut/linked-profiles/internal/metrics"
)

// lookupUseCaseWithMetrics decorates LookupUseCase with metrics instrumentation.
type lookupUseCaseWithMetrics struct {
	next     LookupUseCase
	metrics  metrics.BusinessMetrics
	strategy string
}

// NewLookupUseCaseWithMetrics wraps a LookupUseCase with metrics recording. The
// strategy label mirrors the configured discovery strategy.
func NewLookupUseCaseWithMetrics(useCase LookupUseCase, m metrics.BusinessMetrics, strategy string) LookupUseCase {
	return &lookupUseCaseWithMetrics{
		next:     useCase,
		metrics:  m,
		strategy: strategy,
	}
}

// Lookup records metrics for lookup operations.
func (l *lookupUseCaseWithMetrics) Lookup(ctx context.Context, input LookupInput) (*LookupResult, error) {
	start := time.Now()
	result, err := l.next.Lookup(ctx, input)

	status := "success"
	if err != nil {
		status = "error"
	}

	l.metrics.RecordOperation(ctx, "lookup", status)
	l.metrics.RecordDuration(ctx, "lookup", time.Since(start), status)

	if result != nil && result.Found {
		l.metrics.RecordDiscovery(ctx, l.strategy, len(result.Profiles), result.Skipped)
	}

	return result, err
}
