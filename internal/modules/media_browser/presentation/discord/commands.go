package discord

import "github.com/bwmarrin/discordgo"

// Commands returns all slash commands for the media browser module.
func Commands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{
			Name:        "movie",
			Description: "Search for movies by title",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "query",
					Description: "Movie title to search for",
					Required:    true,
				},
			},
		},
		{
			Name:        "series",
			Description: "Search for TV series by title",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "query",
					Description: "Series title to search for",
					Required:    true,
				},
			},
		},
		{
			Name:        "person",
			Description: "Search for actors and filmmakers by name",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "query",
					Description: "Name to search for",
					Required:    true,
				},
			},
		},
		{
			Name:        "genre",
			Description: "Browse popular movies or series by genre",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "target",
					Description: "What to browse",
					Required:    true,
					Choices: []*discordgo.ApplicationCommandOptionChoice{
						{Name: "movie", Value: "movie"},
						{Name: "series", Value: "series"},
					},
				},
				{
					Type:         discordgo.ApplicationCommandOptionString,
					Name:         "name",
					Description:  "Genre name",
					Required:     true,
					Autocomplete: true,
				},
			},
		},
	}
}
