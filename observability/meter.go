package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/kbukum/rowpipe/errors"
	"github.com/kbukum/rowpipe/logger"
)

// MeterConfig configures the OpenTelemetry meter provider.
type MeterConfig struct {
	// ServiceName is the name of the service.
	ServiceName string
	// ServiceVersion is the version of the service.
	ServiceVersion string
	// Environment is the deployment environment.
	Environment string
}

// DefaultMeterConfig returns the default meter configuration.
func DefaultMeterConfig(serviceName string) MeterConfig {
	return MeterConfig{
		ServiceName:    serviceName,
		ServiceVersion: "dev",
		Environment:    "production",
	}
}

// InitMeter installs a meter provider collected through reader. The CLI
// uses a manual reader and collects once when the run ends.
func InitMeter(config MeterConfig, reader sdkmetric.Reader) (*sdkmetric.MeterProvider, error) {
	if reader == nil {
		return nil, errors.MissingArgument("metric reader")
	}

	res, err := newResource(config.ServiceName, config.ServiceVersion, config.Environment)
	if err != nil {
		return nil, errors.Internal(err).WithDetail("stage", "resource")
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(reader),
		sdkmetric.WithResource(res),
	)

	otel.SetMeterProvider(mp)

	logger.Debug("meter initialized", logger.Fields("service", config.ServiceName))

	return mp, nil
}

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// Metric names.
const (
	MetricElementsIn      = "rowpipe.elements.in"
	MetricElementsOut     = "rowpipe.elements.out"
	MetricElementsError   = "rowpipe.elements.error"
	MetricElementsDropped = "rowpipe.elements.dropped"
	MetricRunTotal        = "rowpipe.run.total"
	MetricRunDuration     = "rowpipe.run.duration"
)

// PipelineMetrics holds the instruments a run records into.
type PipelineMetrics struct {
	elementsIn      metric.Int64Counter
	elementsOut     metric.Int64Counter
	elementsError   metric.Int64Counter
	elementsDropped metric.Int64Counter
	runTotal        metric.Int64Counter
	runDuration     metric.Float64Histogram
}

// NewPipelineMetrics creates metric instruments on the given meter.
func NewPipelineMetrics(meter metric.Meter) (*PipelineMetrics, error) {
	var (
		m   PipelineMetrics
		err error
	)
	counters := []struct {
		dst  *metric.Int64Counter
		name string
		desc string
	}{
		{&m.elementsIn, MetricElementsIn, "Elements entering a command"},
		{&m.elementsOut, MetricElementsOut, "Elements leaving a command"},
		{&m.elementsError, MetricElementsError, "Error elements leaving a command, by code"},
		{&m.elementsDropped, MetricElementsDropped, "Elements removed by drop commands"},
		{&m.runTotal, MetricRunTotal, "Pipeline runs by status"},
	}
	for _, c := range counters {
		if *c.dst, err = meter.Int64Counter(c.name, metric.WithDescription(c.desc)); err != nil {
			return nil, errors.Internal(err).WithDetail("instrument", c.name)
		}
	}

	m.runDuration, err = meter.Float64Histogram(MetricRunDuration,
		metric.WithDescription("Duration of pipeline runs in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, errors.Internal(err).WithDetail("instrument", MetricRunDuration)
	}
	return &m, nil
}

func commandAttr(command string) metric.MeasurementOption {
	return metric.WithAttributes(attribute.String("command", command))
}

// RecordIn counts one element entering command.
func (m *PipelineMetrics) RecordIn(ctx context.Context, command string) {
	m.elementsIn.Add(ctx, 1, commandAttr(command))
}

// RecordOut counts one element leaving command.
func (m *PipelineMetrics) RecordOut(ctx context.Context, command string) {
	m.elementsOut.Add(ctx, 1, commandAttr(command))
}

// RecordError counts an Error element leaving command.
func (m *PipelineMetrics) RecordError(ctx context.Context, command string, code errors.ErrorCode) {
	m.elementsError.Add(ctx, 1, metric.WithAttributes(
		attribute.String("command", command),
		attribute.String("code", string(code)),
	))
}

// RecordDropped counts n elements removed by command.
func (m *PipelineMetrics) RecordDropped(ctx context.Context, command string, n int64) {
	if n <= 0 {
		return
	}
	m.elementsDropped.Add(ctx, n, commandAttr(command))
}

// RecordRun records a finished run.
func (m *PipelineMetrics) RecordRun(ctx context.Context, status string, duration time.Duration) {
	m.runTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("status", status)))
	m.runDuration.Record(ctx, duration.Seconds())
}
