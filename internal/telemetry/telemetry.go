// Package telemetry sets up OpenTelemetry tracing and metrics export.
package telemetry

import (
	"context"
	"errors"
	"fmt"

	"github.com/hyperjump/kondate/internal/config"
	"github.com/joeshaw/envdecode"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

// InstrumentationName names the tracer and meter used by the planner.
const InstrumentationName = "github.com/hyperjump/kondate/internal/planner"

// envConfig holds the OTEL_* settings not covered by the exporters themselves.
type envConfig struct {
	ServiceVersion string `env:"OTEL_SERVICE_VERSION,default=0.1.0"`
	DeployEnv      string `env:"OTEL_DEPLOY_ENV,default=development"`
}

// Shutdown flushes and stops the providers.
type Shutdown func(ctx context.Context) error

// Providers are the tracer and meter handed to instrumented components.
type Providers struct {
	Tracer trace.Tracer
	Meter  metric.Meter
}

// Init configures OTLP gRPC exporters for traces and metrics and registers
// them globally. Endpoint and headers come from the standard
// OTEL_EXPORTER_OTLP_* variables. When telemetry is disabled, no-op providers
// are returned and nothing is exported.
func Init(ctx context.Context, cfg config.TelemetryConfig) (*Providers, Shutdown, error) {
	if !cfg.Enabled {
		return &Providers{
			Tracer: tracenoop.NewTracerProvider().Tracer(InstrumentationName),
			Meter:  metricnoop.NewMeterProvider().Meter(InstrumentationName),
		}, func(context.Context) error { return nil }, nil
	}

	var env envConfig
	if err := envdecode.Decode(&env); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return nil, nil, fmt.Errorf("failed to decode telemetry environment: %w", err)
	}

	res := resource.NewSchemaless(
		attribute.String("service.name", cfg.ServiceName),
		attribute.String("service.version", env.ServiceVersion),
		attribute.String("deployment.environment", env.DeployEnv),
	)

	traceExporter, err := otlptrace.New(ctx, otlptracegrpc.NewClient())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create trace exporter: %w", err)
	}
	metricExporter, err := otlpmetricgrpc.New(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create metric exporter: %w", err)
	}

	tracerProvider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(traceExporter),
		sdktrace.WithResource(res),
	)
	meterProvider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(metricExporter)),
		sdkmetric.WithResource(res),
	)

	otel.SetTracerProvider(tracerProvider)
	otel.SetMeterProvider(meterProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	shutdown := func(ctx context.Context) error {
		err := errors.Join(
			tracerProvider.Shutdown(ctx),
			meterProvider.Shutdown(ctx),
		)
		if err != nil && err.Error() == "gRPC exporter is shutdown" {
			return nil
		}
		return err
	}

	return &Providers{
		Tracer: tracerProvider.Tracer(InstrumentationName),
		Meter:  meterProvider.Meter(InstrumentationName),
	}, shutdown, nil
}
