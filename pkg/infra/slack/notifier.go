package slack

import (
	"context"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/ragedunicorn/wago-release/pkg/domain/interfaces"
	"github.com/ragedunicorn/wago-release/pkg/domain/model"
	"github.com/slack-go/slack"
)

// Notifier posts release announcements to a Slack incoming webhook
type Notifier struct {
	webhookURL string
}

var _ interfaces.Notifier = (*Notifier)(nil)

// NewNotifier creates a Notifier for webhookURL
func NewNotifier(webhookURL string) (*Notifier, error) {
	if webhookURL == "" {
		return nil, goerr.New("slack webhook URL is required", goerr.T(model.ErrTagConfiguration))
	}
	return &Notifier{webhookURL: webhookURL}, nil
}

// NotifyRelease posts a message describing the published release
func (n *Notifier) NotifyRelease(ctx context.Context, projectID string, metadata model.ReleaseMetadata) error {
	fields := []slack.AttachmentField{
		{Title: "Project", Value: projectID, Short: true},
		{Title: "Stability", Value: string(metadata.Stability), Short: true},
	}
	for _, patch := range []struct{ title, value string }{
		{"Retail", metadata.SupportedRetailPatch},
		{"BCC", metadata.SupportedBccPatch},
		{"Classic", metadata.SupportedClassicPatch},
	} {
		if patch.value != "" {
			fields = append(fields, slack.AttachmentField{Title: patch.title, Value: patch.value, Short: true})
		}
	}

	msg := &slack.WebhookMessage{
		Text: fmt.Sprintf("Released *%s* to Wago", metadata.Label),
		Attachments: []slack.Attachment{
			{
				Color:  stabilityColor(metadata.Stability),
				Fields: fields,
				Text:   metadata.Changelog,
			},
		},
	}

	if err := slack.PostWebhookContext(ctx, n.webhookURL, msg); err != nil {
		return goerr.Wrap(err, "failed to post slack notification", goerr.V("project_id", projectID))
	}
	return nil
}

func stabilityColor(s model.Stability) string {
	switch s {
	case model.StabilityStable:
		return "good"
	case model.StabilityBeta:
		return "warning"
	default:
		return "danger"
	}
}
