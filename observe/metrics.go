package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics records execution metrics for status checks.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Context: must honor cancellation/deadlines and return quickly.
// - Errors: implementations must not panic.
type Metrics interface {
	// RecordCheck records one check run with its duration and outcome.
	RecordCheck(ctx context.Context, meta CheckMeta, duration time.Duration, failed bool)

	// RecordRetry records one retry attempt for a check.
	RecordRetry(ctx context.Context, meta CheckMeta)
}

// metricsImpl is the concrete implementation of Metrics.
type metricsImpl struct {
	meter        metric.Meter
	totalCount   metric.Int64Counter
	failedCount  metric.Int64Counter
	retryCount   metric.Int64Counter
	durationHist metric.Float64Histogram
}

// NewMetrics creates a Metrics instance with the given meter.
func NewMetrics(meter metric.Meter) (Metrics, error) {
	totalCount, err := meter.Int64Counter(
		"idctl.checks.total",
		metric.WithDescription("Total number of status check runs"),
		metric.WithUnit("{check}"),
	)
	if err != nil {
		return nil, err
	}

	failedCount, err := meter.Int64Counter(
		"idctl.checks.failed",
		metric.WithDescription("Status check runs that ended degraded"),
		metric.WithUnit("{check}"),
	)
	if err != nil {
		return nil, err
	}

	retryCount, err := meter.Int64Counter(
		"idctl.check.retries",
		metric.WithDescription("Retry attempts across all checks"),
		metric.WithUnit("{retry}"),
	)
	if err != nil {
		return nil, err
	}

	durationHist, err := meter.Float64Histogram(
		"idctl.check.duration_ms",
		metric.WithDescription("Status check duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	return &metricsImpl{
		meter:        meter,
		totalCount:   totalCount,
		failedCount:  failedCount,
		retryCount:   retryCount,
		durationHist: durationHist,
	}, nil
}

// RecordCheck records metrics for one check run.
func (m *metricsImpl) RecordCheck(ctx context.Context, meta CheckMeta, duration time.Duration, failed bool) {
	opt := metric.WithAttributes(checkAttrs(meta)...)

	m.totalCount.Add(ctx, 1, opt)
	if failed {
		m.failedCount.Add(ctx, 1, opt)
	}
	m.durationHist.Record(ctx, float64(duration.Microseconds())/1000.0, opt)
}

// RecordRetry records one retry attempt.
func (m *metricsImpl) RecordRetry(ctx context.Context, meta CheckMeta) {
	m.retryCount.Add(ctx, 1, metric.WithAttributes(checkAttrs(meta)...))
}

func checkAttrs(meta CheckMeta) []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		attribute.String("check.name", meta.Name),
	}
	if meta.Profile != "" {
		attrs = append(attrs, attribute.String("check.profile", meta.Profile))
	}
	return attrs
}

// nopMetrics drops every measurement.
type nopMetrics struct{}

// NewNopMetrics creates a no-op metrics recorder.
func NewNopMetrics() Metrics {
	return nopMetrics{}
}

func (nopMetrics) RecordCheck(context.Context, CheckMeta, time.Duration, bool) {}
func (nopMetrics) RecordRetry(context.Context, CheckMeta)                      {}
