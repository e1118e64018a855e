package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	workerPkg "news-extractor/internal/infra/worker"
	"news-extractor/internal/usecase/backfill"
)

var testMetrics = workerPkg.NewWorkerMetrics()

type fakeRunner struct {
	seedStats *backfill.SeedStats
	seedErr   error
	runStats  *backfill.Stats
	runErr    error
	runCalled bool
	deadline  bool
}

func (f *fakeRunner) Seed(ctx context.Context) (*backfill.SeedStats, error) {
	return f.seedStats, f.seedErr
}

func (f *fakeRunner) Run(ctx context.Context) (*backfill.Stats, error) {
	f.runCalled = true
	_, f.deadline = ctx.Deadline()
	return f.runStats, f.runErr
}

func newTestJob(r passRunner) *job {
	return &job{
		svc:     r,
		timeout: time.Minute,
		metrics: testMetrics,
		health:  workerPkg.NewHealthServer(":0", slog.New(slog.NewTextHandler(io.Discard, nil))),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestJob_Run_Success(t *testing.T) {
	r := &fakeRunner{
		seedStats: &backfill.SeedStats{Items: 4, Inserted: 2, Duplicated: 2},
		runStats:  &backfill.Stats{Pending: 3, Updated: 2, Skipped: 1},
	}
	j := newTestJob(r)

	report, err := j.run(context.Background())
	require.NoError(t, err)

	assert.True(t, report.Successful)
	assert.Empty(t, report.Error)
	assert.Equal(t, 4, report.FeedItems)
	assert.Equal(t, 2, report.Inserted)
	assert.Equal(t, 3, report.Pending)
	assert.Equal(t, int64(2), report.Updated)
	assert.Equal(t, int64(1), report.Skipped)
	assert.True(t, r.deadline, "pass must run under the job timeout")

	rec := httptest.NewRecorder()
	j.health.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/last-run", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"successful":true`)
}

func TestJob_Run_SeedFailureStillBackfills(t *testing.T) {
	r := &fakeRunner{
		seedErr:  errors.New("feed lookup failed"),
		runStats: &backfill.Stats{Pending: 1, Updated: 1},
	}
	j := newTestJob(r)

	report, err := j.run(context.Background())
	require.Error(t, err)

	assert.True(t, r.runCalled)
	assert.False(t, report.Successful)
	assert.Contains(t, report.Error, "feed lookup failed")
	assert.Equal(t, int64(1), report.Updated)
}

func TestJob_Run_BackfillFailure(t *testing.T) {
	r := &fakeRunner{
		seedStats: &backfill.SeedStats{},
		runErr:    errors.New("list pending rows: 503"),
	}
	j := newTestJob(r)

	report, err := j.run(context.Background())
	require.Error(t, err)
	assert.False(t, report.Successful)
	assert.Zero(t, report.Pending)
}
