package notify

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"news-extractor/internal/domain/entity"
	"news-extractor/internal/infra/notifier"
)

type fakeNotifier struct {
	name    string
	enabled bool
	err     error
	delay   time.Duration
	panics  bool

	mu     sync.Mutex
	alerts []notifier.Alert
}

func (f *fakeNotifier) Name() string    { return f.name }
func (f *fakeNotifier) IsEnabled() bool { return f.enabled }

func (f *fakeNotifier) Notify(ctx context.Context, alert notifier.Alert) error {
	if f.panics {
		panic("boom")
	}
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	f.mu.Lock()
	f.alerts = append(f.alerts, alert)
	f.mu.Unlock()
	return f.err
}

func (f *fakeNotifier) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.alerts)
}

func alert() notifier.Alert {
	return notifier.Alert{
		RequestID: "req-1",
		Record:    entity.Record{URL: "https://example.com/a"},
		Outcome:   entity.PersistOutcome{Status: entity.PersistFailed, StatusCode: 500, Error: "boom"},
	}
}

func TestService_DispatchesToEnabledChannels(t *testing.T) {
	slack := &fakeNotifier{name: "slack", enabled: true}
	discord := &fakeNotifier{name: "discord", enabled: false}

	svc := NewService([]notifier.Notifier{slack, discord}, 4)
	svc.NotifyPersistenceFailure(context.Background(), alert())

	require.NoError(t, svc.Shutdown(context.Background()))
	assert.Equal(t, 1, slack.count())
	assert.Equal(t, 0, discord.count())
}

func TestService_NonBlocking(t *testing.T) {
	slow := &fakeNotifier{name: "slow", enabled: true, delay: 200 * time.Millisecond}
	svc := NewService([]notifier.Notifier{slow}, 1)

	start := time.Now()
	svc.NotifyPersistenceFailure(context.Background(), alert())
	assert.Less(t, time.Since(start), 50*time.Millisecond)

	require.NoError(t, svc.Shutdown(context.Background()))
	assert.Equal(t, 1, slow.count())
}

func TestService_FailureIsRecorded(t *testing.T) {
	failing := &fakeNotifier{name: "failing-test", enabled: true, err: errors.New("webhook down")}
	svc := NewService([]notifier.Notifier{failing}, 1)

	before := testutil.ToFloat64(notificationSentTotal.WithLabelValues("failing-test", "failure"))
	svc.NotifyPersistenceFailure(context.Background(), alert())
	require.NoError(t, svc.Shutdown(context.Background()))

	assert.Equal(t, before+1, testutil.ToFloat64(notificationSentTotal.WithLabelValues("failing-test", "failure")))
}

func TestService_PanicIsRecovered(t *testing.T) {
	svc := NewService([]notifier.Notifier{&fakeNotifier{name: "panicky", enabled: true, panics: true}}, 1)

	assert.NotPanics(t, func() {
		svc.NotifyPersistenceFailure(context.Background(), alert())
		require.NoError(t, svc.Shutdown(context.Background()))
	})
}

func TestService_AfterShutdownDropsAlerts(t *testing.T) {
	n := &fakeNotifier{name: "late", enabled: true}
	svc := NewService([]notifier.Notifier{n}, 1)
	require.NoError(t, svc.Shutdown(context.Background()))

	svc.NotifyPersistenceFailure(context.Background(), alert())
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 0, n.count())
}

func TestService_ConcurrentNotifyAndShutdown(t *testing.T) {
	n := &fakeNotifier{name: "concurrent", enabled: true, delay: time.Millisecond}
	svc := NewService([]notifier.Notifier{n}, 8)

	var senders sync.WaitGroup
	start := make(chan struct{})
	for i := 0; i < 50; i++ {
		senders.Add(1)
		go func() {
			defer senders.Done()
			<-start
			for j := 0; j < 10; j++ {
				svc.NotifyPersistenceFailure(context.Background(), alert())
			}
		}()
	}

	close(start)
	require.NoError(t, svc.Shutdown(context.Background()))
	delivered := n.count()

	senders.Wait()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, delivered, n.count(), "no delivery may start after Shutdown returned")
}

func TestService_ShutdownTimeout(t *testing.T) {
	slow := &fakeNotifier{name: "very-slow", enabled: true, delay: time.Hour}
	svc := NewService([]notifier.Notifier{slow}, 1)
	svc.NotifyPersistenceFailure(context.Background(), alert())

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, svc.Shutdown(ctx), context.DeadlineExceeded)
}

func TestService_GetChannelHealth(t *testing.T) {
	svc := NewService([]notifier.Notifier{
		&fakeNotifier{name: "slack", enabled: true},
		notifier.NewNoOpNotifier(),
	}, 1)

	health := svc.GetChannelHealth()
	require.Len(t, health, 2)
	assert.Equal(t, ChannelHealthStatus{Name: "slack", Enabled: true}, health[0])
	assert.Equal(t, ChannelHealthStatus{Name: "noop", Enabled: false}, health[1])
}
