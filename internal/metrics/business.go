package metrics

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// BusinessMetrics defines the interface for recording lookup operation metrics.
type BusinessMetrics interface {
	// RecordOperation records a business operation with its status.
	// Operation examples: "lookup", "resolve_phone", "discover"
	// Status examples: "success", "error", "not_found"
	RecordOperation(ctx context.Context, operation, status string)

	// RecordDuration records the duration of a business operation with its status.
	// Duration is recorded in seconds as a histogram for percentile calculations.
	RecordDuration(ctx context.Context, operation string, duration time.Duration, status string)

	// RecordDiscovery records the outcome of one linked-profile discovery pass:
	// how many profiles were confirmed and how many candidates were skipped
	// because of failed upstream fetches.
	RecordDiscovery(ctx context.Context, strategy string, found, skipped int)
}

// businessMetrics implements BusinessMetrics using OpenTelemetry metrics.
type businessMetrics struct {
	operationCounter metric.Int64Counter
	durationHisto    metric.Float64Histogram
	profilesFound    metric.Int64Counter
	skippedCounter   metric.Int64Counter
}

// NewBusinessMetrics creates a BusinessMetrics implementation using the provided
// meter provider. The namespace parameter prefixes all metric names.
func NewBusinessMetrics(meterProvider metric.MeterProvider, namespace string) (BusinessMetrics, error) {
	meter := meterProvider.Meter(namespace)

	operationCounter, err := meter.Int64Counter(
		fmt.Sprintf("%s_operations_total", namespace),
		metric.WithDescription("Total number of lookup operations"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create operation counter: %w", err)
	}

	durationHisto, err := meter.Float64Histogram(
		fmt.Sprintf("%s_operation_duration_seconds", namespace),
		metric.WithDescription("Duration of lookup operations in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create duration histogram: %w", err)
	}

	profilesFound, err := meter.Int64Counter(
		fmt.Sprintf("%s_linked_profiles_found_total", namespace),
		metric.WithDescription("Total number of linked profiles confirmed by discovery"),
		metric.WithUnit("{profile}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create profiles found counter: %w", err)
	}

	skippedCounter, err := meter.Int64Counter(
		fmt.Sprintf("%s_discovery_skipped_candidates_total", namespace),
		metric.WithDescription("Candidates excluded from discovery because an upstream fetch failed"),
		metric.WithUnit("{candidate}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create skipped candidates counter: %w", err)
	}

	return &businessMetrics{
		operationCounter: operationCounter,
		durationHisto:    durationHisto,
		profilesFound:    profilesFound,
		skippedCounter:   skippedCounter,
	}, nil
}

// RecordOperation increments the operation counter with operation and status labels.
func (b *businessMetrics) RecordOperation(ctx context.Context, operation, status string) {
	b.operationCounter.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("operation", operation),
			attribute.String("status", status),
		),
	)
}

// RecordDuration records the operation duration in seconds with operation and status labels.
func (b *businessMetrics) RecordDuration(
	ctx context.Context,
	operation string,
	duration time.Duration,
	status string,
) {
	b.durationHisto.Record(ctx, duration.Seconds(),
		metric.WithAttributes(
			attribute.String("operation", operation),
			attribute.String("status", status),
		),
	)
}

// RecordDiscovery records confirmed and skipped counts for one discovery pass.
func (b *businessMetrics) RecordDiscovery(ctx context.Context, strategy string, found, skipped int) {
	attrs := metric.WithAttributes(attribute.String("strategy", strategy))
	b.profilesFound.Add(ctx, int64(found), attrs)
	if skipped > 0 {
		b.skippedCounter.Add(ctx, int64(skipped), attrs)
	}
}

// NoOpBusinessMetrics is a no-op implementation of BusinessMetrics for when metrics are disabled.
type NoOpBusinessMetrics struct{}

// NewNoOpBusinessMetrics creates a no-op BusinessMetrics implementation.
func NewNoOpBusinessMetrics() BusinessMetrics {
	return &NoOpBusinessMetrics{}
}

// RecordOperation does nothing when metrics are disabled.
func (n *NoOpBusinessMetrics) RecordOperation(ctx context.Context, operation, status string) {
	// No-op
}

// RecordDuration does nothing when metrics are disabled.
func (n *NoOpBusinessMetrics) RecordDuration(
	ctx context.Context,
	operation string,
	duration time.Duration,
	status string,
) {
	// No-op
}

// RecordDiscovery does nothing when metrics are disabled.
func (n *NoOpBusinessMetrics) RecordDiscovery(ctx context.Context, strategy string, found, skipped int) {
	// No-op
}
