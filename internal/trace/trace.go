// Package trace wires OpenTelemetry spans for the *obs decorators. Until
// Init runs with Enabled set, StartSpan hands back the caller's span.
package trace

import (
	"context"
	"io"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.opentelemetry.io/otel/trace"
)

const serviceName = "indian-hedge-fund"

// Config is filled by logger.LoadConfigFromEnv.
type Config struct {
	Enabled bool
	// SampleRatio is the share of root spans kept; 0 or >= 1 keeps all.
	SampleRatio float64
	Pretty      bool
	// Output receives exported spans. Nil means stderr, so reports on
	// stdout are never interleaved with spans.
	Output io.Writer
}

var (
	tracer   trace.Tracer
	provider *sdktrace.TracerProvider
)

func Init(cfg Config) error {
	if !cfg.Enabled {
		return nil
	}

	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	opts := []stdouttrace.Option{stdouttrace.WithWriter(out)}
	if cfg.Pretty {
		opts = append(opts, stdouttrace.WithPrettyPrint())
	}
	exporter, err := stdouttrace.New(opts...)
	if err != nil {
		return err
	}

	res, err := resource.New(context.Background(),
		resource.WithAttributes(semconv.ServiceName(serviceName)),
	)
	if err != nil {
		return err
	}

	sampler := sdktrace.AlwaysSample()
	if cfg.SampleRatio > 0 && cfg.SampleRatio < 1 {
		sampler = sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.SampleRatio))
	}

	provider = sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sampler),
	)
	otel.SetTracerProvider(provider)
	tracer = provider.Tracer(serviceName)
	return nil
}

// Shutdown flushes pending spans. Spans started afterwards are no-ops.
func Shutdown(ctx context.Context) error {
	if provider == nil {
		return nil
	}
	p := provider
	provider, tracer = nil, nil
	return p.Shutdown(ctx)
}

func StartSpan(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	if tracer == nil {
		return ctx, trace.SpanFromContext(ctx)
	}
	return tracer.Start(ctx, name, opts...)
}

// GetTraceFields returns the IDs of the span in ctx, if it is a real one.
func GetTraceFields(ctx context.Context) (traceID, spanID string, ok bool) {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return "", "", false
	}
	return sc.TraceID().String(), sc.SpanID().String(), true
}
