package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter { return otel.Meter(name) }

// Outcome labels recorded for option operations. Reads report hit or miss,
// writes ok.
const (
	OutcomeOK    = "ok"
	OutcomeHit   = "hit"
	OutcomeMiss  = "miss"
	OutcomeError = "error"
)

// Metrics holds the instruments option stores record into. A nil *Metrics
// records nothing.
type Metrics struct {
	operations metric.Int64Counter
	latency    metric.Float64Histogram
	failures   metric.Int64Counter
}

// NewMetrics creates the instruments on meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	var (
		m   Metrics
		err error
	)
	if m.operations, err = meter.Int64Counter("options.operation.total",
		metric.WithDescription("Option store operations by store, operation and outcome"),
	); err != nil {
		return nil, fmt.Errorf("options.operation.total: %w", err)
	}
	if m.latency, err = meter.Float64Histogram("options.operation.duration",
		metric.WithDescription("Duration of option store operations"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, fmt.Errorf("options.operation.duration: %w", err)
	}
	if m.failures, err = meter.Int64Counter("options.error.total",
		metric.WithDescription("Option store errors by code"),
	); err != nil {
		return nil, fmt.Errorf("options.error.total: %w", err)
	}
	return &m, nil
}

// RecordOperation counts one completed operation and its latency.
func (m *Metrics) RecordOperation(ctx context.Context, store, operation, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	base := attribute.NewSet(
		attribute.String(AttrStore, store),
		attribute.String("operation", operation),
	)
	m.operations.Add(ctx, 1,
		metric.WithAttributeSet(base),
		metric.WithAttributes(attribute.String(AttrOutcome, outcome)),
	)
	m.latency.Record(ctx, d.Seconds(), metric.WithAttributeSet(base))
}

// RecordError counts a failed operation by error code.
func (m *Metrics) RecordError(ctx context.Context, store, code string) {
	if m == nil {
		return
	}
	m.failures.Add(ctx, 1, metric.WithAttributes(
		attribute.String(AttrStore, store),
		attribute.String("code", code),
	))
}
