// Package observability installs the global otel meter provider read by
// the instruments of tree.WithRBTreeStats. Call one of the exporters before
// creating the trees, then the shutdown to flush.
package observability

// https://opentelemetry.io/docs/languages/go/exporters/

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/sdk/metric"
)

// ShutdownFunc flushes the pending metrics and releases the meter provider.
type ShutdownFunc func(ctx context.Context) error

// NewConsoleMetricsExporter installs a global meter provider that pushes
// the collected metrics every interval. Serves for test/dev environment.
func NewConsoleMetricsExporter(interval, timeout time.Duration, opts ...stdoutmetric.Option) (ShutdownFunc, error) {
	exporter, err := stdoutmetric.New(opts...)
	if err != nil {
		return nil, err
	}
	mp := metric.NewMeterProvider(metric.WithReader(metric.NewPeriodicReader(
		exporter,
		metric.WithInterval(interval),
		metric.WithTimeout(timeout),
	)))
	otel.SetMeterProvider(mp)
	return mp.Shutdown, nil
}

// NewPrometheusMetricsExporter installs a global meter provider read by the
// prometheus default registerer. Serves for the product environment and
// fetch stats metrics by HTTP.
func NewPrometheusMetricsExporter(opts ...prometheus.Option) (ShutdownFunc, error) {
	exporter, err := prometheus.New(opts...)
	if err != nil {
		return nil, err
	}
	mp := metric.NewMeterProvider(metric.WithReader(exporter))
	otel.SetMeterProvider(mp)
	return mp.Shutdown, nil
}

// ShutdownOnDone runs the shutdown in background once ctx is done.
// The returned channel is closed after the shutdown returns.
func ShutdownOnDone(ctx context.Context, shutdown ShutdownFunc) <-chan error {
	done := make(chan error, 1)
	if shutdown == nil {
		close(done)
		return done
	}
	go func() {
		defer close(done)
		<-ctx.Done()
		if err := shutdown(context.Background()); err != nil {
			done <- err
		}
	}()
	return done
}
