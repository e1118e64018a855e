package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	awslambda "github.com/aws/aws-lambda-go/lambda"

	"news-extractor/internal/app"
	"news-extractor/internal/handler/lambda"
	"news-extractor/internal/observability/logging"
	"news-extractor/internal/observability/tracing"
	pkgconfig "news-extractor/pkg/config"
)

// main serves the API behind an API Gateway REST proxy integration.
// Configuration comes from the function's environment; .env files are not
// read.
func main() {
	logger := logging.NewLogger()
	slog.SetDefault(logger)

	tracing.Setup(pkgconfig.GetEnvFloat("TRACE_SAMPLE_RATIO", 1))

	ctx := context.Background()
	components, err := app.Build(ctx, logger)
	if err != nil {
		logger.Error("failed to assemble pipeline", slog.Any("error", err))
		os.Exit(1)
	}

	cfg := app.LoadServerConfig()
	handler, limiter := components.Handler(cfg, logger)
	if limiter != nil {
		// Buckets survive between invocations of a warm container.
		go limiter.StartCleanup(ctx, cfg.RateLimit.CleanupInterval)
	}
	go components.SLO.Run(ctx, time.Minute)

	awslambda.Start(lambda.Adapter{Handler: handler}.Handle)
}
