package discord

import (
	"context"
	"log/slog"

	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"
	"github.com/telinha/telinha/internal/modules/music_player/application/usecases"
)

// EventHandlers reacts to gateway events relevant to the player.
type EventHandlers struct {
	playback *usecases.PlaybackService
}

// NewEventHandlers creates new EventHandlers.
func NewEventHandlers(playback *usecases.PlaybackService) *EventHandlers {
	return &EventHandlers{playback: playback}
}

// HandleVoiceStateUpdate tracks voice movements. A change to the bot's
// own state may mean it was moved or kicked; a change to anyone else's
// may leave the bot alone in its channel.
func (h *EventHandlers) HandleVoiceStateUpdate(
	s *discordgo.Session,
	event *discordgo.VoiceStateUpdate,
) {
	guildID, err := snowflake.Parse(event.GuildID)
	if err != nil {
		return
	}

	ctx := context.Background()

	// The session's bot user is populated by READY, which always precedes
	// voice state updates.
	if s.State.User != nil && event.UserID == s.State.User.ID {
		var newChannelID *snowflake.ID
		if event.ChannelID != "" {
			channelID, err := snowflake.Parse(event.ChannelID)
			if err != nil {
				return
			}
			newChannelID = &channelID
		}
		if err := h.playback.HandleBotVoiceStateChange(ctx, usecases.BotVoiceStateChangeInput{
			GuildID:      guildID,
			NewChannelID: newChannelID,
		}); err != nil {
			slog.Error("failed to handle bot voice state change",
				"guild_id", guildID, "error", err)
		}
		return
	}

	if err := h.playback.HandleUserVoiceStateChange(ctx, guildID); err != nil {
		slog.Error("failed to handle user voice state change",
			"guild_id", guildID, "error", err)
	}
}
