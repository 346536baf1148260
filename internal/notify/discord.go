package notify

import (
	"bytes"
	"context"

	"github.com/bwmarrin/discordgo"

	"github.com/devilishantho2/retroachievements-bot/internal/retry"
)

// DiscordMessenger sends notifications through a discordgo session,
// wrapping every outbound call in the shared retry discipline
type DiscordMessenger struct {
	session *discordgo.Session
}

// NewDiscordMessenger creates a messenger over an open session
func NewDiscordMessenger(session *discordgo.Session) *DiscordMessenger {
	return &DiscordMessenger{session: session}
}

// FetchChannel verifies a channel is reachable before delivery
func (m *DiscordMessenger) FetchChannel(ctx context.Context, channelID string) error {
	_, err := retry.Do(ctx, "fetch channel", func() (*discordgo.Channel, error) {
		return m.session.Channel(channelID)
	}, retry.DefaultOptions())
	return err
}

// SendEmbed posts an embed to a channel
func (m *DiscordMessenger) SendEmbed(ctx context.Context, channelID string, embed *discordgo.MessageEmbed) error {
	_, err := retry.Do(ctx, "send embed", func() (*discordgo.Message, error) {
		return m.session.ChannelMessageSendEmbed(channelID, embed)
	}, retry.DefaultOptions())
	return err
}

// SendCard posts a rendered card image to a channel
func (m *DiscordMessenger) SendCard(ctx context.Context, channelID, filename string, png []byte) error {
	_, err := retry.Do(ctx, "send card", func() (*discordgo.Message, error) {
		// Fresh reader per attempt, the previous one may be drained
		return m.session.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
			Files: []*discordgo.File{{
				Name:        filename,
				ContentType: "image/png",
				Reader:      bytes.NewReader(png),
			}},
		})
	}, retry.DefaultOptions())
	return err
}
