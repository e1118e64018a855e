package notifier

import (
	"context"
	"time"
)

// DiscordConfig contains configuration for Discord webhook alerts.
type DiscordConfig struct {
	// Enabled indicates whether Discord alerts are enabled
	Enabled bool

	// WebhookURL is the Discord webhook URL (includes authentication token)
	WebhookURL string

	// Timeout is the HTTP request timeout for Discord API calls
	Timeout time.Duration
}

// DiscordNotifier sends alerts to Discord via webhook.
type DiscordNotifier struct {
	config  DiscordConfig
	webhook *webhook
}

// NewDiscordNotifier creates a DiscordNotifier rate limited to 0.5
// requests/second with burst of 3 (30 requests per minute).
func NewDiscordNotifier(config DiscordConfig) *DiscordNotifier {
	return &DiscordNotifier{
		config:  config,
		webhook: newWebhook("Discord", config.WebhookURL, config.Timeout, NewRateLimiter(0.5, 3)),
	}
}

// DiscordWebhookPayload represents the JSON payload sent to Discord webhook.
type DiscordWebhookPayload struct {
	Embeds []DiscordEmbed `json:"embeds"`
}

// DiscordEmbed represents a Discord embed message.
type DiscordEmbed struct {
	Title       string              `json:"title"`
	Description string              `json:"description"`
	URL         string              `json:"url"`
	Color       int                 `json:"color"`
	Fields      []DiscordEmbedField `json:"fields,omitempty"`
	Timestamp   string              `json:"timestamp"`
}

// DiscordEmbedField is a name/value pair shown under the description.
type DiscordEmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

const (
	// Discord limits
	maxTitleLength       = 256
	maxDescriptionLength = 4096
	truncationSuffix     = "..."

	// Discord red (#ED4245)
	discordRedColor = 15548997
)

// buildEmbedPayload creates a Discord payload for alert.
func (d *DiscordNotifier) buildEmbedPayload(alert Alert) DiscordWebhookPayload {
	rec := alert.Record
	title := rec.Headline
	if title == "" {
		title = rec.URL
	}

	embed := DiscordEmbed{
		Title:       truncate("Persistence failed: "+title, maxTitleLength, truncationSuffix),
		Description: truncate(statusText(alert.Outcome), maxDescriptionLength, truncationSuffix),
		URL:         rec.URL,
		Color:       discordRedColor,
		Fields: []DiscordEmbedField{
			{Name: "Country", Value: rec.Country, Inline: true},
			{Name: "Category", Value: rec.Category, Inline: true},
		},
		Timestamp: alert.OccurredAt.UTC().Format(time.RFC3339),
	}

	return DiscordWebhookPayload{Embeds: []DiscordEmbed{embed}}
}

// Name implements Notifier.
func (d *DiscordNotifier) Name() string { return "discord" }

// IsEnabled implements Notifier.
func (d *DiscordNotifier) IsEnabled() bool { return d.config.Enabled }

// Notify implements Notifier.
func (d *DiscordNotifier) Notify(ctx context.Context, alert Alert) error {
	return d.webhook.deliver(ctx, alert, d.buildEmbedPayload(alert))
}
