package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const defaultTracerName = "github.com/kbukum/modeloptions"

// Span names, one per store operation.
const (
	SpanSetOption    = "options.set"
	SpanGetOption    = "options.get"
	SpanHasOption    = "options.has"
	SpanDeleteOption = "options.delete"
	SpanListOptions  = "options.list"
	SpanPurgeOptions = "options.purge"
	SpanSearch       = "options.search"
)

// Attribute keys.
const (
	AttrServiceName    = "service.name"
	AttrServiceVersion = "service.version"
	AttrEnvironment    = "deployment.environment"
	AttrOwnerType      = "option.owner_type"
	AttrOptionKey      = "option.key"
	AttrStore          = "option.store"
	AttrOutcome        = "option.outcome"
)

func Tracer(name string) trace.Tracer { return otel.Tracer(name) }

// StartSpan starts a span on the module's tracer.
func StartSpan(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	return Tracer(defaultTracerName).Start(ctx, name, opts...)
}

// EndSpan marks span failed when err is non-nil, then ends it.
func EndSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
