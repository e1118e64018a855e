package slo

import (
	"context"
	"math"
	"net/http"
	"sort"
	"sync"
	"time"

	"news-extractor/internal/handler/http/responsewriter"
)

// TrackedPath is the only route whose requests feed the tracker.
const TrackedPath = "/process_url"

type sample struct {
	at        time.Time
	duration  time.Duration
	serverErr bool
}

// Snapshot is the SLO state computed from one tracking window.
type Snapshot struct {
	Requests     int
	Availability float64
	ErrorRate    float64
	LatencyP95   time.Duration
	LatencyP99   time.Duration
}

// Tracker keeps the requests of the last window and turns them into the SLO
// gauges. It is safe for concurrent use.
type Tracker struct {
	mu      sync.Mutex
	window  time.Duration
	samples []sample
	now     func() time.Time
}

// NewTracker creates a tracker over a sliding window.
func NewTracker(window time.Duration) *Tracker {
	return &Tracker{window: window, now: time.Now}
}

// Record adds one finished request.
func (t *Tracker) Record(status int, d time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.samples = append(t.samples, sample{at: t.now(), duration: d, serverErr: status >= 500})
}

// Snapshot drops samples older than the window and summarizes the rest.
// An empty window reports full availability.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.Lock()
	cutoff := t.now().Add(-t.window)
	i := sort.Search(len(t.samples), func(i int) bool { return t.samples[i].at.After(cutoff) })
	t.samples = append(t.samples[:0], t.samples[i:]...)
	window := make([]sample, len(t.samples))
	copy(window, t.samples)
	t.mu.Unlock()

	snap := Snapshot{Requests: len(window), Availability: 1}
	if len(window) == 0 {
		return snap
	}

	errs := 0
	durations := make([]time.Duration, len(window))
	for i, s := range window {
		if s.serverErr {
			errs++
		}
		durations[i] = s.duration
	}
	sort.Slice(durations, func(i, j int) bool { return durations[i] < durations[j] })

	snap.ErrorRate = float64(errs) / float64(len(window))
	snap.Availability = 1 - snap.ErrorRate
	snap.LatencyP95 = percentile(durations, 0.95)
	snap.LatencyP99 = percentile(durations, 0.99)
	return snap
}

// Publish computes a snapshot and writes it to the SLO gauges.
func (t *Tracker) Publish() Snapshot {
	snap := t.Snapshot()
	UpdateAvailability(snap.Availability)
	UpdateErrorRate(snap.ErrorRate)
	UpdateLatencyP95(snap.LatencyP95.Seconds())
	UpdateLatencyP99(snap.LatencyP99.Seconds())
	return snap
}

// Run publishes every interval until ctx is cancelled.
func (t *Tracker) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.Publish()
		}
	}
}

// Middleware records every request to TrackedPath.
func (t *Tracker) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != TrackedPath {
			next.ServeHTTP(w, r)
			return
		}
		start := time.Now()
		rw := responsewriter.Wrap(w)
		next.ServeHTTP(rw, r)
		t.Record(rw.StatusCode(), time.Since(start))
	})
}

// percentile uses the nearest-rank method on sorted durations.
func percentile(sorted []time.Duration, p float64) time.Duration {
	rank := int(math.Ceil(p*float64(len(sorted)))) - 1
	if rank < 0 {
		rank = 0
	}
	return sorted[rank]
}
