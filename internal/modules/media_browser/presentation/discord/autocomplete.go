package discord

import (
	"context"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/telinha/telinha/internal/modules/media_browser/application/usecases"
	"github.com/telinha/telinha/internal/modules/media_browser/domain"
)

// AutocompleteHandler handles autocomplete requests.
type AutocompleteHandler struct {
	browse *usecases.BrowseService
}

// NewAutocompleteHandler creates a new AutocompleteHandler.
func NewAutocompleteHandler(browse *usecases.BrowseService) *AutocompleteHandler {
	return &AutocompleteHandler{browse: browse}
}

// HandleGenreName offers the remote genre list as choices for
// /genre name, filtered by the partial input.
func (h *AutocompleteHandler) HandleGenreName(
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
) {
	kind := domain.ItemKindMovie
	var partial string
	for _, opt := range i.ApplicationCommandData().Options {
		switch opt.Name {
		case "target":
			if opt.StringValue() == "series" {
				kind = domain.ItemKindSeries
			}
		case "name":
			if opt.Focused {
				partial = strings.ToLower(opt.StringValue())
			}
		}
	}

	genres, err := h.browse.Genres(context.Background(), kind)
	if err != nil {
		return
	}

	choices := []*discordgo.ApplicationCommandOptionChoice{}
	for _, genre := range genres {
		if partial != "" && !strings.Contains(strings.ToLower(genre.Name), partial) {
			continue
		}
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{
			Name:  genre.Name,
			Value: genre.Name,
		})
		if len(choices) == 25 {
			break
		}
	}

	_ = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionApplicationCommandAutocompleteResult,
		Data: &discordgo.InteractionResponseData{Choices: choices},
	})
}
