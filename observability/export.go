package observability

import (
	"context"
	"sort"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/kbukum/rowpipe/errors"
	"github.com/kbukum/rowpipe/logger"
)

// LogSpanExporter writes finished spans to a logger at debug level.
type LogSpanExporter struct {
	log *logger.Logger
}

// NewLogSpanExporter returns an exporter writing to log.
func NewLogSpanExporter(log *logger.Logger) *LogSpanExporter {
	return &LogSpanExporter{log: log}
}

// ExportSpans implements sdktrace.SpanExporter.
func (e *LogSpanExporter) ExportSpans(ctx context.Context, spans []sdktrace.ReadOnlySpan) error {
	for _, s := range spans {
		fields := logger.Fields(
			"span", s.Name(),
			logger.FieldTraceID, s.SpanContext().TraceID().String(),
			logger.FieldSpanID, s.SpanContext().SpanID().String(),
			logger.FieldDuration, s.EndTime().Sub(s.StartTime()).Milliseconds(),
		)
		for _, kv := range s.Attributes() {
			fields[string(kv.Key)] = kv.Value.Emit()
		}
		e.log.Debug("span finished", fields)
	}
	return ctx.Err()
}

// Shutdown implements sdktrace.SpanExporter.
func (e *LogSpanExporter) Shutdown(context.Context) error { return nil }

// Total is the summed value of one counter for one attribute set.
type Total struct {
	Name       string
	Attributes map[string]string
	Value      int64
}

// CollectTotals reads every int64 counter from reader and returns its data
// points sorted by name.
func CollectTotals(ctx context.Context, reader sdkmetric.Reader) ([]Total, error) {
	var rm metricdata.ResourceMetrics
	if err := reader.Collect(ctx, &rm); err != nil {
		return nil, errors.Internal(err).WithDetail("stage", "collect")
	}

	var out []Total
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				continue
			}
			for _, dp := range sum.DataPoints {
				attrs := make(map[string]string, dp.Attributes.Len())
				for _, kv := range dp.Attributes.ToSlice() {
					attrs[string(kv.Key)] = kv.Value.Emit()
				}
				out = append(out, Total{Name: m.Name, Attributes: attrs, Value: dp.Value})
			}
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// LogTotals collects reader and logs one debug line per total.
func LogTotals(ctx context.Context, log *logger.Logger, reader sdkmetric.Reader) error {
	totals, err := CollectTotals(ctx, reader)
	if err != nil {
		return err
	}
	for _, t := range totals {
		fields := logger.Fields("metric", t.Name, "value", t.Value)
		for k, v := range t.Attributes {
			fields[k] = v
		}
		log.Debug("metric total", fields)
	}
	return nil
}
