package discord

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"
	"github.com/telinha/telinha/internal/bot"
	"github.com/telinha/telinha/internal/modules/music_player/application/usecases"
	"github.com/telinha/telinha/internal/modules/music_player/domain"
)

// Embed colors.
const (
	colorSuccess = 0x08c404
	colorError   = 0xE74C3C
)

// CommandHandlers holds all the command handlers.
type CommandHandlers struct {
	playback *usecases.PlaybackService
}

// NewCommandHandlers creates new CommandHandlers.
func NewCommandHandlers(playback *usecases.PlaybackService) *CommandHandlers {
	return &CommandHandlers{playback: playback}
}

// interactionIDs extracts the common snowflakes every handler needs.
func interactionIDs(i *discordgo.InteractionCreate) (guildID, userID, channelID snowflake.ID, err error) {
	guildID, err = snowflake.Parse(i.GuildID)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid guild id: %w", err)
	}
	if i.Member == nil || i.Member.User == nil {
		return 0, 0, 0, fmt.Errorf("interaction outside a guild")
	}
	userID, err = snowflake.Parse(i.Member.User.ID)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid user id: %w", err)
	}
	channelID, err = snowflake.Parse(i.ChannelID)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid channel id: %w", err)
	}
	return guildID, userID, channelID, nil
}

// HandleJoin handles the /join command.
func (h *CommandHandlers) HandleJoin(
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	ctx := context.Background()

	guildID, userID, channelID, err := interactionIDs(i)
	if err != nil {
		return respondError(r, "Invalid interaction")
	}

	output, err := h.playback.Join(ctx, usecases.JoinInput{
		GuildID:               guildID,
		UserID:                userID,
		NotificationChannelID: channelID,
	})
	if err != nil {
		return respondError(r, userFacingError(err))
	}

	return respondSuccess(r, fmt.Sprintf("Connected to <#%d>.", output.VoiceChannelID))
}

// HandleLeave handles the /leave command.
func (h *CommandHandlers) HandleLeave(
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	ctx := context.Background()

	guildID, err := snowflake.Parse(i.GuildID)
	if err != nil {
		return respondError(r, "Invalid guild")
	}

	if err := h.playback.Leave(ctx, guildID); err != nil {
		return respondError(r, userFacingError(err))
	}

	return respondSuccess(r, "Disconnected.")
}

// HandlePlay handles the /play command. The response is deferred because
// resolution may download the media before answering.
func (h *CommandHandlers) HandlePlay(
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	ctx := context.Background()

	guildID, userID, channelID, err := interactionIDs(i)
	if err != nil {
		return respondError(r, "Invalid interaction")
	}

	var query string
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == "query" {
			query = opt.StringValue()
		}
	}
	if strings.TrimSpace(query) == "" {
		return respondError(r, "Nothing to play.")
	}

	if err := r.Defer(); err != nil {
		return err
	}

	output, err := h.playback.Enqueue(ctx, usecases.EnqueueInput{
		GuildID:               guildID,
		UserID:                userID,
		UserDisplayName:       displayName(i.Member),
		NotificationChannelID: channelID,
		Query:                 query,
	})
	if err != nil {
		return followUpError(r, userFacingError(err))
	}

	description := fmt.Sprintf("Added [%s](%s) to the queue.", output.Track.Title, output.Track.SourceURL)
	if output.Started {
		description = fmt.Sprintf("Now playing [%s](%s).", output.Track.Title, output.Track.SourceURL)
	}
	return r.FollowUp(&discordgo.WebhookParams{
		Embeds: []*discordgo.MessageEmbed{
			{Description: description, Color: colorSuccess},
		},
	})
}

// HandlePause handles the /pause command.
func (h *CommandHandlers) HandlePause(
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	ctx := context.Background()

	guildID, err := snowflake.Parse(i.GuildID)
	if err != nil {
		return respondError(r, "Invalid guild")
	}

	if err := h.playback.Pause(ctx, guildID); err != nil {
		return respondError(r, userFacingError(err))
	}
	return respondSuccess(r, "Paused.")
}

// HandleResume handles the /resume command.
func (h *CommandHandlers) HandleResume(
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	ctx := context.Background()

	guildID, err := snowflake.Parse(i.GuildID)
	if err != nil {
		return respondError(r, "Invalid guild")
	}

	if err := h.playback.Resume(ctx, guildID); err != nil {
		return respondError(r, userFacingError(err))
	}
	return respondSuccess(r, "Resumed.")
}

// HandleSkip handles the /skip command.
func (h *CommandHandlers) HandleSkip(
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	ctx := context.Background()

	guildID, err := snowflake.Parse(i.GuildID)
	if err != nil {
		return respondError(r, "Invalid guild")
	}

	output, err := h.playback.Skip(ctx, guildID)
	if err != nil {
		return respondError(r, userFacingError(err))
	}

	description := fmt.Sprintf("Skipped **%s**.", output.SkippedTrack.Title)
	if output.NextTrack != nil {
		description += fmt.Sprintf(" Now playing **%s**.", output.NextTrack.Title)
	} else {
		description += " The queue is empty."
	}
	return respondSuccess(r, description)
}

// HandleStop handles the /stop command.
func (h *CommandHandlers) HandleStop(
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	ctx := context.Background()

	guildID, err := snowflake.Parse(i.GuildID)
	if err != nil {
		return respondError(r, "Invalid guild")
	}

	if err := h.playback.Stop(ctx, guildID); err != nil {
		return respondError(r, userFacingError(err))
	}
	return respondSuccess(r, "Stopped playback and cleared the queue.")
}

// HandleLoop handles the /loop command.
func (h *CommandHandlers) HandleLoop(
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	guildID, err := snowflake.Parse(i.GuildID)
	if err != nil {
		return respondError(r, "Invalid guild")
	}

	looping, err := h.playback.ToggleLoop(guildID)
	if err != nil {
		return respondError(r, userFacingError(err))
	}
	if looping {
		return respondSuccess(r, "Looping the current track. Shuffle is off.")
	}
	return respondSuccess(r, "Loop disabled.")
}

// HandleShuffle handles the /shuffle command.
func (h *CommandHandlers) HandleShuffle(
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	guildID, err := snowflake.Parse(i.GuildID)
	if err != nil {
		return respondError(r, "Invalid guild")
	}

	shuffling, err := h.playback.ToggleShuffle(guildID)
	if err != nil {
		return respondError(r, userFacingError(err))
	}
	if shuffling {
		return respondSuccess(r, "Shuffling the queue. Loop is off.")
	}
	return respondSuccess(r, "Shuffle disabled.")
}

// HandleQueue handles the /queue command and its subcommands.
func (h *CommandHandlers) HandleQueue(
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	options := i.ApplicationCommandData().Options
	if len(options) == 0 {
		return respondError(r, "Missing subcommand")
	}

	switch options[0].Name {
	case "list":
		return h.handleQueueList(i, r)
	case "remove":
		return h.handleQueueRemove(i, r, options[0].Options)
	default:
		return respondError(r, "Unknown subcommand")
	}
}

func (h *CommandHandlers) handleQueueList(
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	guildID, err := snowflake.Parse(i.GuildID)
	if err != nil {
		return respondError(r, "Invalid guild")
	}

	view, err := h.playback.QueueView(guildID)
	if err != nil {
		return respondError(r, userFacingError(err))
	}

	var sb strings.Builder
	if view.Current != nil {
		fmt.Fprintf(&sb, "**Now playing:** [%s](%s) `%s`\n\n",
			view.Current.Title, view.Current.SourceURL, view.Current.FormattedDuration())
	}
	if len(view.Upcoming) == 0 {
		sb.WriteString("The queue is empty.")
	}
	for idx, track := range view.Upcoming {
		fmt.Fprintf(&sb, "%d. [%s](%s) `%s`\n",
			idx+1, track.Title, track.SourceURL, track.FormattedDuration())
	}
	if view.MoreCount > 0 {
		fmt.Fprintf(&sb, "\n...and %d more.", view.MoreCount)
	}

	var modes []string
	if view.Looping {
		modes = append(modes, "loop")
	}
	if view.Shuffling {
		modes = append(modes, "shuffle")
	}

	embed := &discordgo.MessageEmbed{
		Title:       "Queue",
		Description: sb.String(),
		Color:       colorSuccess,
	}
	if len(modes) > 0 {
		embed.Footer = &discordgo.MessageEmbedFooter{
			Text: "Mode: " + strings.Join(modes, ", "),
		}
	}

	return r.Respond(&discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{embed},
		},
	})
}

func (h *CommandHandlers) handleQueueRemove(
	i *discordgo.InteractionCreate,
	r bot.Responder,
	options []*discordgo.ApplicationCommandInteractionDataOption,
) error {
	guildID, err := snowflake.Parse(i.GuildID)
	if err != nil {
		return respondError(r, "Invalid guild")
	}

	var trackID string
	for _, opt := range options {
		if opt.Name == "track" {
			trackID = opt.StringValue()
		}
	}
	if trackID == "" {
		return respondError(r, "No track selected")
	}

	track, err := h.playback.Remove(guildID, domain.TrackID(trackID))
	if err != nil {
		return respondError(r, userFacingError(err))
	}

	return respondSuccess(r, fmt.Sprintf("Removed [%s](%s).", track.Title, track.SourceURL))
}

// userFacingError maps use case errors to messages safe to show users.
func userFacingError(err error) string {
	return err.Error()
}

func displayName(member *discordgo.Member) string {
	if member == nil || member.User == nil {
		return ""
	}
	if member.Nick != "" {
		return member.Nick
	}
	if member.User.GlobalName != "" {
		return member.User.GlobalName
	}
	return member.User.Username
}

func respondSuccess(r bot.Responder, message string) error {
	return r.Respond(&discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{
				{
					Description: message,
					Color:       colorSuccess,
				},
			},
		},
	})
}

func respondError(r bot.Responder, message string) error {
	return r.Respond(&discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{
				{
					Title:       "Error",
					Description: message,
					Color:       colorError,
				},
			},
		},
	})
}

func followUpError(r bot.Responder, message string) error {
	return r.FollowUp(&discordgo.WebhookParams{
		Embeds: []*discordgo.MessageEmbed{
			{
				Title:       "Error",
				Description: message,
				Color:       colorError,
			},
		},
	})
}
