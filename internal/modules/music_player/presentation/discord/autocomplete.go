package discord

import (
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"
	"github.com/telinha/telinha/internal/modules/music_player/application/usecases"
)

// AutocompleteHandler handles autocomplete requests.
type AutocompleteHandler struct {
	playback *usecases.PlaybackService
}

// NewAutocompleteHandler creates a new AutocompleteHandler.
func NewAutocompleteHandler(playback *usecases.PlaybackService) *AutocompleteHandler {
	return &AutocompleteHandler{playback: playback}
}

// HandleQueueRemove offers the queued tracks as choices for /queue remove.
func (h *AutocompleteHandler) HandleQueueRemove(
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
) {
	guildID, err := snowflake.Parse(i.GuildID)
	if err != nil {
		return
	}

	var partial string
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name != "remove" {
			continue
		}
		for _, sub := range opt.Options {
			if sub.Name == "track" && sub.Focused {
				partial = strings.ToLower(sub.StringValue())
			}
		}
	}

	choices := []*discordgo.ApplicationCommandOptionChoice{}
	for _, track := range h.playback.QueuedTracks(guildID) {
		if partial != "" && !strings.Contains(strings.ToLower(track.Title), partial) {
			continue
		}
		name := track.Title
		if len(name) > 100 {
			name = name[:97] + "..."
		}
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{
			Name:  name,
			Value: string(track.ID),
		})
		if len(choices) == 25 {
			break
		}
	}

	_ = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionApplicationCommandAutocompleteResult,
		Data: &discordgo.InteractionResponseData{
			Choices: choices,
		},
	})
}
