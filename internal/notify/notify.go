// Package notify sends alerts about newly raised critical recommendations.
package notify

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/slack-go/slack"

	"github.com/dm/esadvisor/internal/model"
)

const criticalColor = "danger"

// Notifier delivers new critical recommendations for one cluster.
type Notifier interface {
	Notify(ctx context.Context, cluster string, recs []model.Recommendation) error
}

// Nop discards every notification.
type Nop struct{}

// Notify implements Notifier.
func (Nop) Notify(context.Context, string, []model.Recommendation) error { return nil }

// SlackNotifier posts to a Slack incoming webhook.
type SlackNotifier struct {
	webhookURL string
	channel    string
	post       func(ctx context.Context, url string, msg *slack.WebhookMessage) error
}

// NewSlackNotifier returns a SlackNotifier for webhookURL. channel may be
// empty to use the webhook's default channel.
func NewSlackNotifier(webhookURL, channel string) *SlackNotifier {
	return &SlackNotifier{
		webhookURL: webhookURL,
		channel:    channel,
		post:       slack.PostWebhookContext,
	}
}

// New returns a SlackNotifier when webhookURL is set and Nop otherwise.
func New(webhookURL, channel string) Notifier {
	if webhookURL == "" {
		return Nop{}
	}
	return NewSlackNotifier(webhookURL, channel)
}

// Notify posts one message with one attachment per recommendation. An empty
// recs is a no-op.
func (s *SlackNotifier) Notify(ctx context.Context, cluster string, recs []model.Recommendation) error {
	if len(recs) == 0 {
		return nil
	}
	msg := message(cluster, s.channel, recs)
	if err := s.post(ctx, s.webhookURL, msg); err != nil {
		return fmt.Errorf("NotifySlack: %w", err)
	}
	logrus.WithFields(logrus.Fields{
		"cluster":         cluster,
		"recommendations": len(recs),
	}).Debug("slack notification sent")
	return nil
}

func message(cluster, channel string, recs []model.Recommendation) *slack.WebhookMessage {
	msg := &slack.WebhookMessage{
		Channel: channel,
		Text:    fmt.Sprintf("%d new critical recommendation(s) for cluster *%s*", len(recs), cluster),
	}
	for _, r := range recs {
		msg.Attachments = append(msg.Attachments, slack.Attachment{
			Color: criticalColor,
			Title: r.Title,
			Text:  r.Description,
			Fields: []slack.AttachmentField{
				{Title: "Action", Value: r.Action},
				{Title: "Category", Value: string(r.Category), Short: true},
				{Title: "Priority", Value: fmt.Sprintf("%d", r.Priority), Short: true},
			},
		})
	}
	return msg
}

// NewCritical returns the CRITICAL recommendations in curr whose title does
// not appear among prev's CRITICAL recommendations.
func NewCritical(prev, curr []model.Recommendation) []model.Recommendation {
	seen := make(map[string]bool, len(prev))
	for _, r := range prev {
		if r.Severity == model.SeverityCritical {
			seen[r.Title] = true
		}
	}
	var out []model.Recommendation
	for _, r := range curr {
		if r.Severity == model.SeverityCritical && !seen[r.Title] {
			out = append(out, r)
		}
	}
	return out
}
