// Package metrics provides Prometheus metrics registry and recording utilities.
//
// This package centralizes all application metrics including:
//   - HTTP request metrics (duration, count, size)
//   - Pipeline metrics (outcomes, extraction failures, classifications)
//   - Persistence metrics (pushes by status, latency)
//
// All metrics are automatically registered with the Prometheus default registry
// and exposed via the /metrics endpoint.
//
// Example usage:
//
//	import "news-extractor/internal/observability/metrics"
//
//	func process(ctx context.Context, url string) {
//	    start := time.Now()
//	    // ... extract, classify, summarize ...
//	    metrics.RecordPipelineOutcome(metrics.OutcomeSuccess, time.Since(start))
//	}
package metrics
