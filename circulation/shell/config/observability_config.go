package config

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploggrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/log/global"
	"go.opentelemetry.io/otel/propagation"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

const metricExportInterval = 10 * time.Second

// ObservabilityConfig names the service and where telemetry goes.
// Without an OTLPEndpoint the providers are created without exporters: spans and
// metrics are recorded in-process only.
type ObservabilityConfig struct {
	ServiceName    string
	ServiceVersion string
	OTLPEndpoint   string
}

// ObservabilityProviders holds the OpenTelemetry providers of the running service.
type ObservabilityProviders struct {
	TracerProvider *trace.TracerProvider
	MeterProvider  *metric.MeterProvider
	LoggerProvider *sdklog.LoggerProvider
	Resource       *resource.Resource
}

// NewObservabilityProviders creates the providers and registers them globally, so that
// otel.Tracer, otel.Meter, and the otelslog bridge pick them up.
func NewObservabilityProviders(ctx context.Context, cfg ObservabilityConfig) (*ObservabilityProviders, error) {
	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceNameKey.String(cfg.ServiceName),
			semconv.ServiceVersionKey.String(cfg.ServiceVersion),
		),
	)
	if err != nil {
		return nil, err
	}

	traceOpts := []trace.TracerProviderOption{trace.WithResource(res)}
	metricOpts := []metric.Option{metric.WithResource(res)}
	logOpts := []sdklog.LoggerProviderOption{sdklog.WithResource(res)}

	if cfg.OTLPEndpoint != "" {
		traceExporter, err := otlptracegrpc.New(ctx,
			otlptracegrpc.WithEndpoint(cfg.OTLPEndpoint),
			otlptracegrpc.WithInsecure(),
		)
		if err != nil {
			return nil, err
		}

		metricExporter, err := otlpmetricgrpc.New(ctx,
			otlpmetricgrpc.WithEndpoint(cfg.OTLPEndpoint),
			otlpmetricgrpc.WithInsecure(),
		)
		if err != nil {
			return nil, err
		}

		logExporter, err := otlploggrpc.New(ctx,
			otlploggrpc.WithEndpoint(cfg.OTLPEndpoint),
			otlploggrpc.WithInsecure(),
		)
		if err != nil {
			return nil, err
		}

		traceOpts = append(traceOpts, trace.WithBatcher(traceExporter))
		metricOpts = append(metricOpts, metric.WithReader(
			metric.NewPeriodicReader(metricExporter, metric.WithInterval(metricExportInterval)),
		))
		logOpts = append(logOpts, sdklog.WithProcessor(sdklog.NewBatchProcessor(logExporter)))
	}

	providers := &ObservabilityProviders{
		TracerProvider: trace.NewTracerProvider(traceOpts...),
		MeterProvider:  metric.NewMeterProvider(metricOpts...),
		LoggerProvider: sdklog.NewLoggerProvider(logOpts...),
		Resource:       res,
	}

	otel.SetTracerProvider(providers.TracerProvider)
	otel.SetMeterProvider(providers.MeterProvider)
	otel.SetTextMapPropagator(propagation.TraceContext{})
	global.SetLoggerProvider(providers.LoggerProvider)

	return providers, nil
}

// Shutdown flushes and stops all providers.
func (p *ObservabilityProviders) Shutdown(ctx context.Context) error {
	return errors.Join(
		p.TracerProvider.Shutdown(ctx),
		p.MeterProvider.Shutdown(ctx),
		p.LoggerProvider.Shutdown(ctx),
	)
}
