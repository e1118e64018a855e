package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"news-extractor/internal/app"
	"news-extractor/internal/infra/feed"
	workerPkg "news-extractor/internal/infra/worker"
	"news-extractor/internal/observability/logging"
	"news-extractor/internal/observability/tracing"
	"news-extractor/internal/usecase/backfill"
	pkgconfig "news-extractor/pkg/config"
)

func main() {
	once := flag.Bool("once", false, "run a single seed+backfill pass and exit")
	flag.Parse()

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn(".env file not loaded", slog.Any("error", err))
	}

	logger := logging.NewLogger()
	slog.SetDefault(logger)

	// Registered first so that it runs after every other deferred cleanup.
	exitCode := 0
	defer func() {
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing := tracing.Setup(pkgconfig.GetEnvFloat("TRACE_SAMPLE_RATIO", 1))

	// Load worker configuration (fail-open strategy)
	workerMetrics := workerPkg.NewWorkerMetrics()
	workerConfig, err := workerPkg.LoadConfigFromEnv(logger, workerMetrics)
	if err != nil {
		logger.Error("failed to load worker configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("worker configuration loaded",
		slog.String("cron_schedule", workerConfig.CronSchedule),
		slog.String("timezone", workerConfig.Timezone),
		slog.Duration("job_timeout", workerConfig.JobTimeout),
		slog.Int("health_port", workerConfig.HealthPort))

	backfillConfig, err := backfill.LoadConfigFromEnv()
	if err != nil {
		logger.Error("invalid backfill configuration", slog.Any("error", err))
		os.Exit(1)
	}

	components, err := app.Build(ctx, logger)
	if err != nil {
		logger.Error("failed to assemble pipeline", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), app.ShutdownTimeout)
		defer cancel()
		if err := components.Close(shutdownCtx); err != nil {
			logger.Error("component shutdown failed", slog.Any("error", err))
		}
		if err := shutdownTracing(shutdownCtx); err != nil {
			logger.Error("tracer shutdown failed", slog.Any("error", err))
		}
	}()

	if components.Pending == nil {
		logger.Error("backfill worker requires PERSISTENCE_BACKEND=airtable", slog.Any("error", app.ErrPendingUnsupported))
		os.Exit(1)
	}

	var feeds backfill.FeedFetcher
	if len(backfillConfig.FeedURLs) > 0 {
		feeds = feed.NewRSSFetcher(&http.Client{Timeout: 30 * time.Second},
			pkgconfig.GetEnvString("EXTRACT_USER_AGENT", "NewsExtractorBot/1.0"))
	}

	j := &job{
		svc:     backfill.NewService(components.Pending, components.Pipeline, feeds, backfillConfig),
		timeout: workerConfig.JobTimeout,
		metrics: workerMetrics,
		logger:  logger,
	}

	if *once {
		if _, err := j.run(ctx); err != nil {
			exitCode = 1
		}
		return
	}

	// Start health check server
	healthAddr := fmt.Sprintf(":%d", workerConfig.HealthPort)
	healthServer := workerPkg.NewHealthServer(healthAddr, logger)
	j.health = healthServer
	go func() {
		if err := healthServer.Start(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("health server failed", slog.Any("error", err))
		}
	}()

	startCronWorker(ctx, logger, j, workerConfig, healthServer)
}

// startCronWorker runs the job on the configured schedule until ctx is
// cancelled, then waits for a running pass to finish.
func startCronWorker(ctx context.Context, logger *slog.Logger, j *job, cfg *workerPkg.WorkerConfig, healthServer *workerPkg.HealthServer) {
	c := cron.New(
		cron.WithLocation(cfg.Location()),
		cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
	)

	_, err := c.AddFunc(cfg.CronSchedule, func() {
		j.run(ctx)
	})
	if err != nil {
		logger.Error("failed to add cron job", slog.Any("error", err))
		os.Exit(1)
	}
	c.Start()

	// Mark as ready after cron is set up
	healthServer.SetReady(true)
	logger.Info("worker started", slog.String("schedule", cfg.CronSchedule), slog.String("timezone", cfg.Timezone))

	<-ctx.Done()
	logger.Info("shutting down worker...")
	healthServer.SetReady(false)
	<-c.Stop().Done()
	logger.Info("worker stopped")
}
