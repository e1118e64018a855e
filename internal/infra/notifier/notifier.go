// Package notifier sends operational alerts to chat webhooks. Alerts are
// raised when a processed article could not be persisted, so that the row
// can be re-submitted by hand.
//
// The package includes Slack and Discord webhook implementations and a no-op
// notifier for when alerts are disabled.
package notifier

import (
	"context"
	"time"

	"news-extractor/internal/domain/entity"
)

// Alert describes a persistence failure for one processed article.
type Alert struct {
	RequestID  string
	Record     entity.Record
	Outcome    entity.PersistOutcome
	OccurredAt time.Time
}

// Notifier delivers alerts to one channel.
// Implementations handle rate limiting, retries and error logging internally.
type Notifier interface {
	// Name returns the channel identifier used in logs and metrics.
	Name() string

	// IsEnabled reports whether the channel is configured.
	IsEnabled() bool

	// Notify sends one alert. It returns an error only after all retry
	// attempts failed. Implementations must respect ctx cancellation.
	Notify(ctx context.Context, alert Alert) error
}
