package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/modeloptions/errors"
)

// Operation tracks one option store call: a span plus, when Metrics is set,
// an operation count and latency sample.
type Operation struct {
	Store     string
	Name      string
	OwnerType string
	Key       string
	StartTime time.Time
	Metrics   *Metrics

	span    trace.Span
	outcome string
}

// StartOperation opens a span named name and returns the derived context.
// A nil metrics skips metric recording.
func StartOperation(ctx context.Context, metrics *Metrics, store, name, ownerType, key string) (context.Context, *Operation) {
	attrs := []attribute.KeyValue{
		attribute.String(AttrStore, store),
		attribute.String(AttrOwnerType, ownerType),
	}
	if key != "" {
		attrs = append(attrs, attribute.String(AttrOptionKey, key))
	}
	ctx, span := StartSpan(ctx, name, trace.WithAttributes(attrs...))
	return ctx, &Operation{
		Store:     store,
		Name:      name,
		OwnerType: ownerType,
		Key:       key,
		StartTime: time.Now(),
		Metrics:   metrics,
		span:      span,
	}
}

// SetOutcome overrides the outcome recorded for a successful operation,
// e.g. OutcomeHit or OutcomeMiss for reads.
func (op *Operation) SetOutcome(outcome string) {
	op.outcome = outcome
}

// End closes the span and records metrics. err may be nil.
func (op *Operation) End(ctx context.Context, err error) {
	outcome := op.outcome
	if outcome == "" {
		outcome = OutcomeOK
	}
	if err != nil {
		outcome = OutcomeError
	}
	op.span.SetAttributes(attribute.String(AttrOutcome, outcome))
	EndSpan(op.span, err)

	if op.Metrics == nil {
		return
	}
	op.Metrics.RecordOperation(ctx, op.Store, op.Name, outcome, op.Duration())
	if err != nil {
		op.Metrics.RecordError(ctx, op.Store, string(errors.Wrap(err).Code))
	}
}

// Duration returns the elapsed time since the operation started.
func (op *Operation) Duration() time.Duration {
	return time.Since(op.StartTime)
}
