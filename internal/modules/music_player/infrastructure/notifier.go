package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"
	"github.com/telinha/telinha/internal/modules/music_player/application/ports"
)

// Embed colors.
const (
	colorPlaying = 0x1DB954
)

// Notifier sends playback status messages to Discord text channels.
type Notifier struct {
	session *discordgo.Session
}

// NewNotifier creates a new Notifier.
func NewNotifier(session *discordgo.Session) *Notifier {
	return &Notifier{session: session}
}

func nowPlayingEmbed(info ports.NowPlayingInfo) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Author: &discordgo.MessageEmbedAuthor{
			Name: "Now Playing",
		},
		Title: info.Title,
		URL:   info.SourceURL,
		Color: colorPlaying,
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:   "Artist",
				Value:  info.Artist,
				Inline: true,
			},
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Requested by %s", info.RequesterName),
		},
	}

	if info.Duration > 0 {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   "Duration",
			Value:  formatDuration(info.Duration),
			Inline: true,
		})
	}
	if info.QueueLength > 0 {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   "Up Next",
			Value:  fmt.Sprintf("%d track(s)", info.QueueLength),
			Inline: true,
		})
	}

	var modes []string
	if info.Looping {
		modes = append(modes, "🔂 Loop")
	}
	if info.Shuffling {
		modes = append(modes, "🔀 Shuffle")
	}
	if len(modes) > 0 {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   "Mode",
			Value:  joinModes(modes),
			Inline: true,
		})
	}

	if info.ThumbnailURL != "" {
		embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: info.ThumbnailURL}
	}

	return embed
}

func formatDuration(d time.Duration) string {
	total := int(d.Seconds())
	hours := total / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60
	if hours > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}

func joinModes(modes []string) string {
	out := modes[0]
	for _, m := range modes[1:] {
		out += " " + m
	}
	return out
}

// SendNowPlaying posts a new status embed and returns its message ID.
func (n *Notifier) SendNowPlaying(
	ctx context.Context,
	channelID snowflake.ID,
	info ports.NowPlayingInfo,
) (snowflake.ID, error) {
	msg, err := n.session.ChannelMessageSendEmbed(
		channelID.String(),
		nowPlayingEmbed(info),
		discordgo.WithContext(ctx),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to send now playing message: %w", err)
	}
	return snowflake.Parse(msg.ID)
}

// EditNowPlaying updates an existing status embed in place.
func (n *Notifier) EditNowPlaying(
	ctx context.Context,
	channelID, messageID snowflake.ID,
	info ports.NowPlayingInfo,
) error {
	_, err := n.session.ChannelMessageEditEmbed(
		channelID.String(),
		messageID.String(),
		nowPlayingEmbed(info),
		discordgo.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("failed to edit now playing message: %w", err)
	}
	return nil
}

// DeleteMessage removes a status message. A message that was already
// deleted by hand is not an error.
func (n *Notifier) DeleteMessage(ctx context.Context, channelID, messageID snowflake.ID) error {
	err := n.session.ChannelMessageDelete(
		channelID.String(),
		messageID.String(),
		discordgo.WithContext(ctx),
	)
	if err != nil {
		var restErr *discordgo.RESTError
		if errors.As(err, &restErr) && restErr.Response != nil && restErr.Response.StatusCode == http.StatusNotFound {
			return nil
		}
		return fmt.Errorf("failed to delete message: %w", err)
	}
	return nil
}

// SendNotice posts a transient informational message.
func (n *Notifier) SendNotice(ctx context.Context, channelID snowflake.ID, content string) error {
	_, err := n.session.ChannelMessageSend(
		channelID.String(),
		content,
		discordgo.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("failed to send notice: %w", err)
	}
	return nil
}

// Ensure Notifier implements ports.Notifier.
var _ ports.Notifier = (*Notifier)(nil)
