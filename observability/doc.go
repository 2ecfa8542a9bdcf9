// Package observability wires OpenTelemetry tracing and metrics into
// pipeline runs.
//
// Exporters are injected, so the CLI can log spans and metric totals while
// tests collect them in memory.
//
// Tracing:
//
//	tp, err := observability.InitTracer(observability.DefaultTracerConfig("rowpipe"), exporter)
//	defer tp.Shutdown(ctx)
//
//	rc := observability.NewRunContext("rowpipe", runID, names, metrics)
//	ctx, span := rc.StartRun(ctx)
//	defer rc.EndRun(ctx, span, "ok", n, nil)
//
// Metrics:
//
//	reader := sdkmetric.NewManualReader()
//	mp, err := observability.InitMeter(observability.DefaultMeterConfig("rowpipe"), reader)
//	metrics, err := observability.NewPipelineMetrics(observability.Meter("rowpipe"))
//	metrics.RecordOut(ctx, "into bool")
package observability
