// Package tracing provides OpenTelemetry tracing integration.
//
// Setup installs an SDK tracer provider with a ratio-based sampler and the
// W3C trace-context propagator. Middleware starts a server span per HTTP
// request and returns the trace ID in the X-Trace-Id header so that clients
// and logs can be correlated.
//
// Example usage:
//
//	import "news-extractor/internal/observability/tracing"
//
//	func main() {
//	    shutdown := tracing.Setup(1.0)
//	    defer func() { _ = shutdown(context.Background()) }()
//	}
//
//	func process(ctx context.Context) {
//	    ctx, span := tracing.GetTracer().Start(ctx, "pipeline.process")
//	    defer span.End()
//	}
package tracing
