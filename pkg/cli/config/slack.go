package config

import (
	"github.com/ragedunicorn/wago-release/pkg/domain/interfaces"
	"github.com/ragedunicorn/wago-release/pkg/infra/slack"
	"github.com/urfave/cli/v3"
)

// Slack holds release notification configuration
type Slack struct {
	WebhookURL string
}

// Flags returns CLI flags for Slack configuration
func (c *Slack) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "slack-webhook-url",
			Usage:       "Slack incoming webhook URL notified after a successful upload",
			Destination: &c.WebhookURL,
			Sources:     cli.EnvVars("WAGO_SLACK_WEBHOOK_URL"),
		},
	}
}

// Notifier returns the configured notifier, or nil when notifications are disabled
func (c *Slack) Notifier() (interfaces.Notifier, error) {
	if c.WebhookURL == "" {
		return nil, nil
	}

	notifier, err := slack.NewNotifier(c.WebhookURL)
	if err != nil {
		return nil, err
	}
	return notifier, nil
}
