// Package tracing builds the OpenTelemetry tracer used around realm lookups.
package tracing

import (
	"context"
	"fmt"
	"io"
	"os"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const defaultServiceName = "classworlds"

// Config configures the tracing subsystem.
type Config struct {
	// Exporter selects the export backend: "none" (or empty) for a no-op
	// tracer, "stdout" to print spans.
	Exporter string `mapstructure:"exporter"`
	// ServiceName identifies this process in traces.
	ServiceName string `mapstructure:"service_name"`
	// Writer receives the spans of the stdout exporter.  Defaults to
	// os.Stdout.
	Writer io.Writer `mapstructure:"-"`
}

// Provider wraps the tracer provider so that it can be shut down.
type Provider struct {
	provider *sdktrace.TracerProvider
	tracer   trace.Tracer
}

// NewProvider creates the provider described by cfg.  A no-op provider is
// returned when no exporter is configured.
func NewProvider(cfg Config) (*Provider, error) {
	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = defaultServiceName
	}

	switch cfg.Exporter {
	case "", "none":
		return &Provider{
			tracer: noop.NewTracerProvider().Tracer(serviceName),
		}, nil
	case "stdout":
		w := cfg.Writer
		if w == nil {
			w = os.Stdout
		}
		exporter, err := stdouttrace.New(stdouttrace.WithWriter(w), stdouttrace.WithPrettyPrint())
		if err != nil {
			return nil, fmt.Errorf("create stdout exporter: %w", err)
		}
		provider := sdktrace.NewTracerProvider(
			sdktrace.WithResource(resource.NewSchemaless(
				attribute.String("service.name", serviceName),
			)),
			sdktrace.WithSyncer(exporter),
		)
		return &Provider{
			provider: provider,
			tracer:   provider.Tracer(serviceName),
		}, nil
	default:
		return nil, fmt.Errorf("unsupported exporter type: %s", cfg.Exporter)
	}
}

// Tracer returns the tracer.  It is safe to use when tracing is disabled.
func (p *Provider) Tracer() trace.Tracer {
	return p.tracer
}

// Enabled reports whether spans are exported.
func (p *Provider) Enabled() bool {
	return p.provider != nil
}

// Shutdown flushes pending spans and shuts down the provider.
func (p *Provider) Shutdown(ctx context.Context) error {
	if p.provider != nil {
		return p.provider.Shutdown(ctx)
	}
	return nil
}
