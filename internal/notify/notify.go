// Package notify delivers best-effort sync failure alerts to chat.
// Delivery problems are logged, never returned: an unreachable channel
// must not take down the sync.
package notify

import (
	"context"
	"fmt"

	"github.com/apboats/bbgassetmanagement-sub003/internal/config"
)

// Notifier sends a failure alert for a sync job.
type Notifier interface {
	NotifyFailure(ctx context.Context, jobName, message string)
}

// Multi fans one alert out to several notifiers.
type Multi []Notifier

func (m Multi) NotifyFailure(ctx context.Context, jobName, message string) {
	for _, n := range m {
		n.NotifyFailure(ctx, jobName, message)
	}
}

// FromConfig builds the configured notifiers. Returns nil when no
// channel is configured, which callers treat as alerts disabled.
func FromConfig(cfg config.NotifyConfig) Notifier {
	var notifiers Multi
	if cfg.SlackToken != "" && cfg.SlackChannel != "" {
		notifiers = append(notifiers, NewSlack(cfg.SlackToken, cfg.SlackChannel))
	}
	if cfg.DiscordToken != "" && cfg.DiscordChannel != "" {
		if d, err := NewDiscord(cfg.DiscordToken, cfg.DiscordChannel); err == nil {
			notifiers = append(notifiers, d)
		}
	}
	if len(notifiers) == 0 {
		return nil
	}
	return notifiers
}

// formatAlert renders the alert text shared by all channels.
func formatAlert(jobName, message string) string {
	return fmt.Sprintf("Sync job %q failed: %s", jobName, message)
}
