package metrics

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// UpstreamMetrics defines the interface for recording Meevo API call metrics.
// Endpoint examples: "token", "list_clients", "client_detail", "list_changes".
type UpstreamMetrics interface {
	// RecordCall records one upstream API call with its status
	// ("success", "error" or "open" when the circuit breaker rejected it).
	RecordCall(ctx context.Context, endpoint, status string, duration time.Duration)
}

// upstreamMetrics implements UpstreamMetrics using OpenTelemetry metrics.
type upstreamMetrics struct {
	callCounter   metric.Int64Counter
	durationHisto metric.Float64Histogram
}

// NewUpstreamMetrics creates an UpstreamMetrics implementation using the
// provided meter provider.
func NewUpstreamMetrics(meterProvider metric.MeterProvider, namespace string) (UpstreamMetrics, error) {
	meter := meterProvider.Meter(namespace)

	callCounter, err := meter.Int64Counter(
		fmt.Sprintf("%s_upstream_calls_total", namespace),
		metric.WithDescription("Total number of upstream Meevo API calls"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create upstream call counter: %w", err)
	}

	durationHisto, err := meter.Float64Histogram(
		fmt.Sprintf("%s_upstream_call_duration_seconds", namespace),
		metric.WithDescription("Upstream Meevo API call duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create upstream duration histogram: %w", err)
	}

	return &upstreamMetrics{
		callCounter:   callCounter,
		durationHisto: durationHisto,
	}, nil
}

// RecordCall increments the call counter and records the call duration.
func (u *upstreamMetrics) RecordCall(ctx context.Context, endpoint, status string, duration time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("endpoint", endpoint),
		attribute.String("status", status),
	)

	u.callCounter.Add(ctx, 1, attrs)
	u.durationHisto.Record(ctx, duration.Seconds(), attrs)
}

// NoOpUpstreamMetrics is a no-op implementation of UpstreamMetrics for when metrics are disabled.
type NoOpUpstreamMetrics struct{}

// NewNoOpUpstreamMetrics creates a no-op UpstreamMetrics implementation.
func NewNoOpUpstreamMetrics() UpstreamMetrics {
	return &NoOpUpstreamMetrics{}
}

// RecordCall does nothing when metrics are disabled.
func (n *NoOpUpstreamMetrics) RecordCall(ctx context.Context, endpoint, status string, duration time.Duration) {
	// No-op
}
