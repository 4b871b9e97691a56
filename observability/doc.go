// Package observability wires OpenTelemetry tracing and metrics into the
// option stores.
//
// Exporters:
//
//	cfg := observability.Config{Tracing: true, Metrics: true}
//	cfg.ApplyDefaults()
//	shutdown, err := observability.Setup(ctx, cfg, observability.Resource{ServiceName: "options"})
//	defer shutdown(ctx)
//
// Store instrumentation:
//
//	metrics, err := observability.NewMetrics(observability.Meter("options"))
//	ctx, op := observability.StartOperation(ctx, metrics, "persisted", observability.SpanGetOption, "widget", "color")
//	defer op.End(ctx, err)
//
// Without an installed provider the global no-op tracer and meter are used.
package observability
