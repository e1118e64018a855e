// Package observability provides the observability infrastructure of the
// service: structured logging, Prometheus metrics and OpenTelemetry tracing.
//
// Subpackages:
//   - logging: slog loggers with request ID and trace ID propagation
//   - metrics: Prometheus registry for HTTP, pipeline and persistence metrics
//   - tracing: tracer provider setup and HTTP tracing middleware
package observability
