// Package observability wires OpenTelemetry tracing and metrics into the
// locator registry.
//
// Tracing:
//
//	tp, err := observability.InitTracer(ctx, observability.DefaultTracerConfig("dojo"))
//	defer tp.Shutdown(ctx)
//
//	ctx, span := observability.StartSpan(ctx, observability.SpanValidate)
//	defer span.End()
//
// Metrics:
//
//	mp, err := observability.InitMeter(ctx, observability.DefaultMeterConfig("dojo"))
//	defer mp.Shutdown(ctx)
//
//	metrics, err := observability.NewRegistryMetrics(observability.Meter(observability.InstrumentationName))
//	metrics.RecordResolve(ctx, "main.Samurai", false, "singleton", observability.StatusOK, elapsed)
//
// Health:
//
//	health := observability.NewServiceHealth("dojo", "1.0.0")
//	health.AddComponent(observability.Health{Name: "container", Status: observability.HealthStatusUp})
package observability
