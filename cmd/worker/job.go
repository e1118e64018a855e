package main

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"news-extractor/internal/handler/http/respond"
	workerPkg "news-extractor/internal/infra/worker"
	"news-extractor/internal/usecase/backfill"
)

// passRunner is the part of backfill.Service a job drives.
type passRunner interface {
	Seed(ctx context.Context) (*backfill.SeedStats, error)
	Run(ctx context.Context) (*backfill.Stats, error)
}

// job runs one seed+backfill pass and reports it to metrics and the health
// server.
type job struct {
	svc     passRunner
	timeout time.Duration
	metrics *workerPkg.WorkerMetrics
	health  *workerPkg.HealthServer
	logger  *slog.Logger
}

// run seeds pending rows from feeds, then backfills every pending row.
// A seed failure is logged and does not stop the backfill.
func (j *job) run(ctx context.Context) (workerPkg.RunReport, error) {
	start := time.Now()
	j.logger.Info("backfill pass started")

	ctx, cancel := context.WithTimeout(ctx, j.timeout)
	defer cancel()

	report := workerPkg.RunReport{StartedAt: start.UTC()}
	var errs []error

	seed, err := j.svc.Seed(ctx)
	if err != nil {
		errs = append(errs, err)
		j.logger.Error("feed seeding failed", slog.String("error", respond.SanitizeError(err)))
	}
	if seed != nil {
		report.FeedItems = seed.Items
		report.Inserted = seed.Inserted
		j.metrics.RecordFeedItems(seed.Inserted, seed.Duplicated, seed.Failed)
	}

	stats, err := j.svc.Run(ctx)
	if err != nil {
		errs = append(errs, err)
		j.logger.Error("backfill failed", slog.String("error", respond.SanitizeError(err)))
	}
	if stats != nil {
		report.Pending = stats.Pending
		report.Updated = stats.Updated
		report.Skipped = stats.Skipped
		report.Failed = stats.Failed
		j.metrics.RecordRows(stats.Updated, stats.Skipped, stats.Failed)
	}

	duration := time.Since(start)
	passErr := errors.Join(errs...)
	j.metrics.RecordJob(duration, passErr)

	report.Duration = duration.String()
	report.Successful = passErr == nil
	if passErr != nil {
		report.Error = respond.SanitizeError(passErr)
	}
	if j.health != nil {
		j.health.RecordRun(report)
	}

	j.logger.Info("backfill pass finished",
		slog.Bool("successful", report.Successful),
		slog.Int("pending", report.Pending),
		slog.Int64("updated", report.Updated),
		slog.Int("inserted", report.Inserted),
		slog.Duration("duration", duration))
	return report, passErr
}
