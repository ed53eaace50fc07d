package notify

import (
	"context"
	"fmt"
	"log"

	"github.com/bwmarrin/discordgo"
)

// discordSession abstracts the discordgo methods we use, enabling test
// mocks. Sending a channel message is a plain REST call; no gateway
// connection is opened.
type discordSession interface {
	ChannelMessageSend(channelID, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// Discord posts failure alerts to a Discord channel.
type Discord struct {
	session discordSession
	channel string
}

// NewDiscord builds a Discord notifier from a bot token and channel id.
func NewDiscord(token, channel string) (*Discord, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("notify: discord session: %w", err)
	}
	return &Discord{session: session, channel: channel}, nil
}

func (d *Discord) NotifyFailure(ctx context.Context, jobName, message string) {
	_, err := d.session.ChannelMessageSend(d.channel, formatAlert(jobName, message), discordgo.WithContext(ctx))
	if err != nil {
		log.Printf("notify: discord post failed: %v", err)
	}
}
