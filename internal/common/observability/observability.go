package observability

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/sdk/metric"
	tracesdk "go.opentelemetry.io/otel/sdk/trace"
)

// Observability owns the meter and tracer providers for the process.
type Observability struct {
	meterProvider  *metric.MeterProvider
	tracerProvider *tracesdk.TracerProvider
}

func New(tracing TracingOptions) (*Observability, error) {
	mp, err := NewMeterProvider()
	if err != nil {
		return nil, err
	}

	tp, err := InitTracing(tracing)
	if err != nil {
		_ = mp.Shutdown(context.Background())
		return nil, err
	}

	return &Observability{meterProvider: mp, tracerProvider: tp}, nil
}

// Shutdown flushes pending spans and metrics.
func (o *Observability) Shutdown(ctx context.Context) error {
	var errs []error
	if o.tracerProvider != nil {
		errs = append(errs, o.tracerProvider.Shutdown(ctx))
	}
	if o.meterProvider != nil {
		errs = append(errs, o.meterProvider.Shutdown(ctx))
	}
	return errors.Join(errs...)
}
