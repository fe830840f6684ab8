// Package telemetry wires OpenTelemetry tracing and metrics for the server.
// Spans and metrics are exported to rotated files under the configured
// directory so an OTEL collector (or a developer with tail) can pick them up
// without any network dependency.
package telemetry

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.opentelemetry.io/otel/trace"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"
)

const instrumentationName = "github.com/nkarpova/tutor-ai"

// Metrics holds the counters the message pipeline reports.
type Metrics struct {
	ChatMessages      metric.Int64Counter
	ClassifyFallbacks metric.Int64Counter
	GenerateFallbacks metric.Int64Counter
}

// NewMetrics builds the pipeline counters from a meter. With no SDK
// installed the global meter is a noop, so this is safe in tests.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	chat, err := meter.Int64Counter("tutor.chat.messages",
		metric.WithDescription("Inbound chat messages processed"))
	if err != nil {
		return nil, fmt.Errorf("create chat counter: %w", err)
	}
	classify, err := meter.Int64Counter("tutor.classify.fallbacks",
		metric.WithDescription("Classifications resolved by the local fallback policy"))
	if err != nil {
		return nil, fmt.Errorf("create classify counter: %w", err)
	}
	generate, err := meter.Int64Counter("tutor.generate.fallbacks",
		metric.WithDescription("Responses produced by the local fallback policy"))
	if err != nil {
		return nil, fmt.Errorf("create generate counter: %w", err)
	}
	return &Metrics{
		ChatMessages:      chat,
		ClassifyFallbacks: classify,
		GenerateFallbacks: generate,
	}, nil
}

// Init installs global tracer and meter providers exporting to rotated files
// in dir. The returned shutdown func flushes both providers.
func Init(ctx context.Context, dir string) (trace.Tracer, *Metrics, func(), error) {
	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName("tutor-ai"),
			semconv.ServiceVersion("1.0.0"),
		),
	)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("create resource: %w", err)
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, nil, nil, fmt.Errorf("create telemetry directory: %w", err)
	}

	traceFile := &lumberjack.Logger{
		Filename:   filepath.Join(dir, "tutor_traces.log"),
		MaxSize:    10, // MB
		MaxBackups: 3,
		MaxAge:     28,
		Compress:   true,
	}
	traceExporter, err := stdouttrace.New(
		stdouttrace.WithWriter(traceFile),
		stdouttrace.WithPrettyPrint(),
	)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("create trace exporter: %w", err)
	}
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(traceExporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)

	metricsFile := &lumberjack.Logger{
		Filename:   filepath.Join(dir, "tutor_metrics.log"),
		MaxSize:    10, // MB
		MaxBackups: 3,
		MaxAge:     28,
		Compress:   true,
	}
	metricExporter, err := stdoutmetric.New(
		stdoutmetric.WithWriter(metricsFile),
		stdoutmetric.WithPrettyPrint(),
	)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("create metric exporter: %w", err)
	}
	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(metricExporter,
			sdkmetric.WithInterval(10*time.Second))),
	)
	otel.SetMeterProvider(mp)

	metrics, err := NewMetrics(mp.Meter(instrumentationName))
	if err != nil {
		return nil, nil, nil, err
	}

	shutdown := func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(shutdownCtx); err != nil {
			slog.Warn("failed to shut down tracer provider", "error", err)
		}
		if err := mp.Shutdown(shutdownCtx); err != nil {
			slog.Warn("failed to shut down meter provider", "error", err)
		}
	}

	return tp.Tracer(instrumentationName), metrics, shutdown, nil
}

// NoopTracer returns the global (noop unless Init ran) tracer. Used where a
// component was constructed without explicit telemetry.
func NoopTracer() trace.Tracer {
	return otel.Tracer(instrumentationName)
}

// NoopMetrics returns counters bound to the global meter, which record
// nothing unless Init ran.
func NoopMetrics() *Metrics {
	m, err := NewMetrics(otel.Meter(instrumentationName))
	if err != nil {
		// The noop meter never fails to create instruments.
		panic(err)
	}
	return m
}
