package notifier

import (
	"log/slog"
	"net/url"
	"strings"
	"time"

	pkgconfig "news-extractor/pkg/config"
)

const defaultWebhookTimeout = 30 * time.Second

// LoadSlackConfig loads Slack configuration from environment variables.
// Invalid webhook URLs disable the channel with a warning.
//
// Environment variables:
//   - SLACK_ENABLED: enable Slack alerts (default: false)
//   - SLACK_WEBHOOK_URL: https://hooks.slack.com/services/... (required if enabled)
func LoadSlackConfig(logger *slog.Logger) SlackConfig {
	if !pkgconfig.GetEnvBool("SLACK_ENABLED", false) {
		return SlackConfig{Enabled: false}
	}
	webhookURL := pkgconfig.GetEnvString("SLACK_WEBHOOK_URL", "")
	if !validWebhookURL(logger, "Slack", webhookURL, "hooks.slack.com", "/services/") {
		return SlackConfig{Enabled: false}
	}
	return SlackConfig{
		Enabled:    true,
		WebhookURL: webhookURL,
		Timeout:    defaultWebhookTimeout,
	}
}

// LoadDiscordConfig loads Discord configuration from environment variables.
//
// Environment variables:
//   - DISCORD_ENABLED: enable Discord alerts (default: false)
//   - DISCORD_WEBHOOK_URL: https://discord.com/api/webhooks/... (required if enabled)
func LoadDiscordConfig(logger *slog.Logger) DiscordConfig {
	if !pkgconfig.GetEnvBool("DISCORD_ENABLED", false) {
		return DiscordConfig{Enabled: false}
	}
	webhookURL := pkgconfig.GetEnvString("DISCORD_WEBHOOK_URL", "")
	if !validWebhookURL(logger, "Discord", webhookURL, "discord.com", "/api/webhooks/") {
		return DiscordConfig{Enabled: false}
	}
	return DiscordConfig{
		Enabled:    true,
		WebhookURL: webhookURL,
		Timeout:    defaultWebhookTimeout,
	}
}

func validWebhookURL(logger *slog.Logger, service, webhookURL, host, pathPrefix string) bool {
	if webhookURL == "" {
		logger.Warn("webhook URL is empty, disabling alerts", slog.String("channel", service))
		return false
	}

	u, err := url.Parse(webhookURL)
	if err != nil {
		logger.Warn("invalid webhook URL format, disabling alerts",
			slog.String("channel", service), slog.Any("error", err))
		return false
	}
	if u.Scheme != "https" {
		logger.Warn("webhook URL must use HTTPS, disabling alerts", slog.String("channel", service))
		return false
	}
	if u.Host != host {
		logger.Warn("invalid webhook host, disabling alerts",
			slog.String("channel", service), slog.String("host", u.Host))
		return false
	}
	if !strings.HasPrefix(u.Path, pathPrefix) {
		logger.Warn("invalid webhook path, disabling alerts",
			slog.String("channel", service), slog.String("path", u.Path))
		return false
	}
	return true
}
