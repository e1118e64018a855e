// Package logging provides structured logging utilities with context propagation.
//
// Key features:
//   - JSON and text output formats
//   - Request ID and trace ID propagation
//   - Configurable log levels
//
// Example usage:
//
//	import "news-extractor/internal/observability/logging"
//
//	func main() {
//	    slog.SetDefault(logging.NewLogger())
//	}
//
//	func handle(ctx context.Context) {
//	    logger := logging.WithRequestContext(ctx, slog.Default())
//	    logger.Info("processing url")
//	}
package logging
