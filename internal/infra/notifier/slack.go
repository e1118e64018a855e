package notifier

import (
	"context"
	"fmt"
	"time"
)

// SlackConfig contains configuration for Slack webhook alerts.
type SlackConfig struct {
	// Enabled indicates whether Slack alerts are enabled
	Enabled bool

	// WebhookURL is the Slack Incoming Webhook URL (includes authentication token)
	WebhookURL string

	// Timeout is the HTTP request timeout for Slack API calls
	Timeout time.Duration
}

// SlackNotifier sends alerts to Slack via Incoming Webhook.
type SlackNotifier struct {
	config  SlackConfig
	webhook *webhook
}

// NewSlackNotifier creates a SlackNotifier rate limited to 1 request/second
// with burst of 1 (the Slack webhook limit).
func NewSlackNotifier(config SlackConfig) *SlackNotifier {
	return &SlackNotifier{
		config:  config,
		webhook: newWebhook("Slack", config.WebhookURL, config.Timeout, NewRateLimiter(1.0, 1)),
	}
}

// SlackWebhookPayload represents the JSON payload sent to Slack webhook using Block Kit.
type SlackWebhookPayload struct {
	Text   string       `json:"text"`   // Fallback text (required)
	Blocks []SlackBlock `json:"blocks"` // Rich formatting blocks
}

// SlackBlock represents a Slack Block Kit block.
type SlackBlock struct {
	Type     string            `json:"type"`               // "section", "context"
	Text     *SlackTextObject  `json:"text,omitempty"`     // Text content (for section)
	Elements []SlackTextObject `json:"elements,omitempty"` // Elements (for context)
}

// SlackTextObject represents a text object in Slack Block Kit.
type SlackTextObject struct {
	Type string `json:"type"` // "mrkdwn" or "plain_text"
	Text string `json:"text"`
}

const (
	// Slack Block Kit limits
	maxSectionTextLength = 3000
	maxFallbackLength    = 150

	slackTruncationSuffix = "..."
)

// buildBlockKitPayload creates a Slack payload for alert.
//
// The payload includes:
//   - Text: fallback text with the article URL
//   - Section Block: linked headline, persistence status and error
//   - Context Block: classification and timestamp
func (s *SlackNotifier) buildBlockKitPayload(alert Alert) SlackWebhookPayload {
	rec := alert.Record

	fallbackText := truncate(fmt.Sprintf("Persistence failed for %s", rec.URL), maxFallbackLength, slackTruncationSuffix)

	headline := rec.Headline
	if headline == "" {
		headline = rec.URL
	}
	sectionText := fmt.Sprintf(":warning: *Persistence failed*\n*<%s|%s>*\n%s", rec.URL, headline, statusText(alert.Outcome))
	sectionText = truncate(sectionText, maxSectionTextLength, slackTruncationSuffix)

	contextText := fmt.Sprintf("%s • %s • %s", rec.Country, rec.Category, alert.OccurredAt.UTC().Format(time.RFC3339))

	return SlackWebhookPayload{
		Text: fallbackText,
		Blocks: []SlackBlock{
			{
				Type: "section",
				Text: &SlackTextObject{Type: "mrkdwn", Text: sectionText},
			},
			{
				Type:     "context",
				Elements: []SlackTextObject{{Type: "mrkdwn", Text: contextText}},
			},
		},
	}
}

// Name implements Notifier.
func (s *SlackNotifier) Name() string { return "slack" }

// IsEnabled implements Notifier.
func (s *SlackNotifier) IsEnabled() bool { return s.config.Enabled }

// Notify implements Notifier.
func (s *SlackNotifier) Notify(ctx context.Context, alert Alert) error {
	return s.webhook.deliver(ctx, alert, s.buildBlockKitPayload(alert))
}
