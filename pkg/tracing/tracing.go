// Package tracing configures the global OpenTelemetry tracer provider with
// an OTLP exporter.
package tracing

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"

	"github.com/JaimeStill/applytrack/pkg/lifecycle"
)

// Supported OTLP export protocols.
const (
	ProtocolGRPC = "grpc"
	ProtocolHTTP = "http/protobuf"
)

// ShutdownFunc flushes and stops the tracer provider.
type ShutdownFunc func(context.Context) error

// Init installs the W3C propagators and, when enabled, a batching tracer
// provider exporting over OTLP. With tracing disabled the global provider
// stays a no-op and the returned ShutdownFunc does nothing.
func Init(ctx context.Context, cfg *Config, version string, logger *slog.Logger) (ShutdownFunc, error) {
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	if !cfg.Enabled {
		logger.Info("tracing disabled")
		return func(context.Context) error { return nil }, nil
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(cfg.ServiceName),
			semconv.ServiceVersion(version),
		),
		resource.WithFromEnv(),
		resource.WithTelemetrySDK(),
		resource.WithHost(),
	)
	if err != nil {
		return nil, fmt.Errorf("create resource: %w", err)
	}

	exporter, err := newExporter(ctx, cfg)
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.SampleRatio))),
	)
	otel.SetTracerProvider(tp)

	logger.Info("tracing configured",
		"protocol", cfg.Protocol,
		"endpoint", cfg.Endpoint,
		"sample_ratio", cfg.SampleRatio,
	)

	return tp.Shutdown, nil
}

// Register flushes the provider through a lifecycle shutdown hook.
func Register(lc *lifecycle.Coordinator, shutdown ShutdownFunc, logger *slog.Logger) {
	lc.OnShutdown(func() {
		<-lc.Context().Done()
		if err := shutdown(context.WithoutCancel(lc.Context())); err != nil {
			logger.Error("tracer shutdown failed", "error", err)
		}
	})
}

func newExporter(ctx context.Context, cfg *Config) (*otlptrace.Exporter, error) {
	var (
		exporter *otlptrace.Exporter
		err      error
	)

	switch cfg.Protocol {
	case ProtocolGRPC:
		opts := []otlptracegrpc.Option{}
		if cfg.Endpoint != "" {
			opts = append(opts, otlptracegrpc.WithEndpoint(cfg.Endpoint))
		}
		if cfg.Insecure {
			opts = append(opts, otlptracegrpc.WithInsecure())
		}
		exporter, err = otlptracegrpc.New(ctx, opts...)
	case ProtocolHTTP:
		opts := []otlptracehttp.Option{}
		if cfg.Endpoint != "" {
			opts = append(opts, otlptracehttp.WithEndpoint(cfg.Endpoint))
		}
		if cfg.Insecure {
			opts = append(opts, otlptracehttp.WithInsecure())
		}
		exporter, err = otlptracehttp.New(ctx, opts...)
	default:
		return nil, fmt.Errorf("unsupported OTLP protocol: %s", cfg.Protocol)
	}

	if err != nil {
		return nil, fmt.Errorf("create %s exporter: %w", cfg.Protocol, err)
	}

	return exporter, nil
}
