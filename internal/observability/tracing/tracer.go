package tracing

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// InstrumentationName identifies spans created by this service.
const InstrumentationName = "news-extractor"

// tracer is the global tracer instance for the application.
var tracer = otel.Tracer(InstrumentationName)

// GetTracer returns the global tracer for creating spans.
func GetTracer() trace.Tracer {
	return tracer
}

// Setup installs a global SDK tracer provider sampling the given ratio of
// root spans (parent decisions are always honoured) and the W3C trace-context
// propagator. No exporter is attached; spans still carry IDs for log
// correlation and the X-Trace-Id header.
// The returned function flushes and stops the provider.
func Setup(sampleRatio float64) func(context.Context) error {
	if sampleRatio < 0 {
		sampleRatio = 0
	}
	if sampleRatio > 1 {
		sampleRatio = 1
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(sampleRatio))),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	tracer = tp.Tracer(InstrumentationName)

	return tp.Shutdown
}
