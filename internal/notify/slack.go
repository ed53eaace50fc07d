package notify

import (
	"context"
	"log"

	slackapi "github.com/slack-go/slack"
)

// slackClient abstracts the Slack API methods we use, enabling test
// mocks.
type slackClient interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error)
}

// Slack posts failure alerts to a Slack channel.
type Slack struct {
	client  slackClient
	channel string
}

// NewSlack builds a Slack notifier from a bot token and channel id.
func NewSlack(token, channel string) *Slack {
	return &Slack{client: slackapi.New(token), channel: channel}
}

func (s *Slack) NotifyFailure(ctx context.Context, jobName, message string) {
	_, _, err := s.client.PostMessageContext(ctx, s.channel,
		slackapi.MsgOptionText(formatAlert(jobName, message), false))
	if err != nil {
		log.Printf("notify: slack post failed: %v", err)
	}
}
