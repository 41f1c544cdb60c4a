package discord

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"
	"github.com/telinha/telinha/internal/bot"
	"github.com/telinha/telinha/internal/modules/media_browser/application/usecases"
	"github.com/telinha/telinha/internal/modules/media_browser/domain"
)

const colorError = 0xE74C3C

// CommandHandlers holds all the command handlers.
type CommandHandlers struct {
	browse *usecases.BrowseService
}

// NewCommandHandlers creates new CommandHandlers.
func NewCommandHandlers(browse *usecases.BrowseService) *CommandHandlers {
	return &CommandHandlers{browse: browse}
}

// HandleMovie handles the /movie command.
func (h *CommandHandlers) HandleMovie(s *discordgo.Session, i *discordgo.InteractionCreate, r bot.Responder) error {
	return h.startTitleSearch(s, i, r, domain.ItemKindMovie)
}

// HandleSeries handles the /series command.
func (h *CommandHandlers) HandleSeries(s *discordgo.Session, i *discordgo.InteractionCreate, r bot.Responder) error {
	return h.startTitleSearch(s, i, r, domain.ItemKindSeries)
}

// HandlePerson handles the /person command.
func (h *CommandHandlers) HandlePerson(s *discordgo.Session, i *discordgo.InteractionCreate, r bot.Responder) error {
	return h.startTitleSearch(s, i, r, domain.ItemKindPerson)
}

func (h *CommandHandlers) startTitleSearch(s *discordgo.Session, i *discordgo.InteractionCreate, r bot.Responder, kind domain.ItemKind) error {
	query := stringOption(i, "query")
	if strings.TrimSpace(query) == "" {
		return respondError(r, "Nothing to search for.")
	}
	return h.startSession(s, i, r, usecases.StartSessionInput{
		Query:  query,
		Kind:   kind,
		Search: domain.SearchKindTitle,
	})
}

// HandleGenre handles the /genre command. The genre name is resolved to
// its remote ID against the genre list for the chosen target.
func (h *CommandHandlers) HandleGenre(s *discordgo.Session, i *discordgo.InteractionCreate, r bot.Responder) error {
	ctx := context.Background()

	kind := domain.ItemKindMovie
	if stringOption(i, "target") == "series" {
		kind = domain.ItemKindSeries
	}
	name := stringOption(i, "name")

	genres, err := h.browse.Genres(ctx, kind)
	if err != nil {
		return respondError(r, "Could not load the genre list. Try again later.")
	}

	genreID := 0
	for _, g := range genres {
		if strings.EqualFold(g.Name, name) {
			genreID = g.ID
			name = g.Name
			break
		}
	}
	if genreID == 0 {
		return respondError(r, fmt.Sprintf("Unknown genre %q.", name))
	}

	return h.startSession(s, i, r, usecases.StartSessionInput{
		Query:   name,
		Kind:    kind,
		Search:  domain.SearchKindGenre,
		GenreID: genreID,
	})
}

// startSession runs the fetch, responds with the first render, and
// attaches the response message to the session so it can be edited on
// expiry.
func (h *CommandHandlers) startSession(s *discordgo.Session, i *discordgo.InteractionCreate, r bot.Responder, input usecases.StartSessionInput) error {
	ctx := context.Background()

	ownerID, channelID, err := interactionIDs(i)
	if err != nil {
		return respondError(r, "Invalid interaction")
	}
	input.OwnerID = ownerID
	input.ChannelID = channelID

	output, err := h.browse.StartSession(ctx, input)
	if err != nil {
		return respondError(r, userFacingError(err))
	}

	if err := r.Respond(&discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds:     []*discordgo.MessageEmbed{RenderEmbed(output.Render)},
			Components: RenderComponents(output.Render),
		},
	}); err != nil {
		return err
	}

	message, err := s.InteractionResponse(i.Interaction)
	if err != nil {
		return fmt.Errorf("failed to fetch session message: %w", err)
	}
	messageID, err := snowflake.Parse(message.ID)
	if err != nil {
		return fmt.Errorf("invalid message id: %w", err)
	}
	return h.browse.AttachMessage(output.SessionID, channelID, messageID)
}

// interactionIDs extracts the snowflakes every handler needs.
func interactionIDs(i *discordgo.InteractionCreate) (userID, channelID snowflake.ID, err error) {
	if i.Member == nil || i.Member.User == nil {
		return 0, 0, fmt.Errorf("interaction outside a guild")
	}
	userID, err = snowflake.Parse(i.Member.User.ID)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid user id: %w", err)
	}
	channelID, err = snowflake.Parse(i.ChannelID)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid channel id: %w", err)
	}
	return userID, channelID, nil
}

func stringOption(i *discordgo.InteractionCreate, name string) string {
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == name {
			return opt.StringValue()
		}
	}
	return ""
}

// userFacingError maps use case errors to a message fit for the channel.
func userFacingError(err error) string {
	switch {
	case errors.Is(err, usecases.ErrNoResults):
		// The error carries the original query.
		return fmt.Sprintf("Sorry, %v.", err)
	case errors.Is(err, usecases.ErrFetchFailed):
		return "The catalog is unreachable right now. Try again later."
	default:
		return "Something went wrong."
	}
}

func respondError(r bot.Responder, message string) error {
	return r.Respond(&discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{
				{Description: message, Color: colorError},
			},
			Flags: discordgo.MessageFlagsEphemeral,
		},
	})
}
