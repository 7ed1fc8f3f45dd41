package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
)

const instrumentationName = "smartmatch-workers"

// Instruments are bound to the global meter provider, which delegates to the
// provider installed by NewMeterProvider.
var (
	meter          = otel.Meter(instrumentationName)
	jobCounter, _  = meter.Int64Counter("jobs.processed", otelmetric.WithDescription("Number of jobs processed"))
	jobDuration, _ = meter.Float64Histogram(
		"jobs.duration",
		otelmetric.WithDescription("Job processing duration"),
		otelmetric.WithUnit("ms"),
	)
)

// NewMeterProvider installs an OpenTelemetry meter provider exporting to the
// default Prometheus registry, so otel instruments appear on /metrics.
func NewMeterProvider() (*metric.MeterProvider, error) {
	exporter, err := prometheus.New()
	if err != nil {
		return nil, fmt.Errorf("failed to create Prometheus exporter: %w", err)
	}

	provider := metric.NewMeterProvider(metric.WithReader(exporter))
	otel.SetMeterProvider(provider)
	return provider, nil
}

// RecordJob records one processed job by task type and status.
func RecordJob(ctx context.Context, taskType, status string, duration time.Duration) {
	attrs := otelmetric.WithAttributes(
		attribute.String("task_type", taskType),
		attribute.String("status", status),
	)
	jobCounter.Add(ctx, 1, attrs)
	jobDuration.Record(ctx, float64(duration.Milliseconds()), attrs)
}
