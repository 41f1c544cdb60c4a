package media_browser

import (
	"context"
	"log/slog"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/caarlos0/env/v11"
	"github.com/telinha/telinha/internal/bot"
	"github.com/telinha/telinha/internal/modules/media_browser/application/usecases"
	"github.com/telinha/telinha/internal/modules/media_browser/infrastructure"
	"github.com/telinha/telinha/internal/modules/media_browser/presentation/discord"
)

func init() {
	bot.Register(&MediaBrowserModule{})
}

// Compile-time interface checks.
var _ bot.ConfigurableModule = (*MediaBrowserModule)(nil)

// sessionSweepInterval is how often expired browse sessions are closed
// and their messages disabled.
const sessionSweepInterval = time.Minute

// MediaBrowserModule provides interactive movie, series and person
// browsing backed by TMDB.
type MediaBrowserModule struct {
	config            *Config
	browse            *usecases.BrowseService
	commandHandlers   *discord.CommandHandlers
	componentHandlers *discord.ComponentHandlers
	autocomplete      *discord.AutocompleteHandler

	session *discordgo.Session
	ctx     context.Context
	cancel  context.CancelFunc
}

// Name returns the module name.
func (m *MediaBrowserModule) Name() string {
	return "media_browser"
}

// Commands returns the slash commands for this module.
func (m *MediaBrowserModule) Commands() []*discordgo.ApplicationCommand {
	return discord.Commands()
}

// CommandHandlers returns the command handlers for this module.
func (m *MediaBrowserModule) CommandHandlers() map[string]bot.InteractionHandler {
	return map[string]bot.InteractionHandler{
		"movie":  m.handleMovie,
		"series": m.handleSeries,
		"person": m.handlePerson,
		"genre":  m.handleGenre,
	}
}

// EventHandlers returns the event handlers for this module.
func (m *MediaBrowserModule) EventHandlers() []bot.EventHandler {
	return []bot.EventHandler{
		func(s *discordgo.Session, i *discordgo.InteractionCreate) {
			m.handleInteractionCreate(s, i)
		},
	}
}

// LoadConfig loads module-specific configuration from environment variables.
func (m *MediaBrowserModule) LoadConfig() error {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return err
	}
	m.config = cfg
	return nil
}

// Init initializes the module.
func (m *MediaBrowserModule) Init(deps bot.ModuleDependencies) error {
	client, err := infrastructure.NewTMDBClient(m.config.TMDBToken, m.config.Language, m.config.Region)
	if err != nil {
		return err
	}

	repo := infrastructure.NewInMemorySessionRepository()
	m.browse = usecases.NewBrowseService(repo, client, client, slog.Default())

	m.commandHandlers = discord.NewCommandHandlers(m.browse)
	m.componentHandlers = discord.NewComponentHandlers(m.browse)
	m.autocomplete = discord.NewAutocompleteHandler(m.browse)

	m.session = deps.Session
	m.ctx, m.cancel = context.WithCancel(context.Background())
	go m.sweepExpiredSessions()

	slog.Info("media_browser module initialized")

	return nil
}

// Shutdown cleans up module resources.
func (m *MediaBrowserModule) Shutdown() error {
	if m.cancel != nil {
		m.cancel()
	}
	return nil
}

// sweepExpiredSessions periodically closes sessions past their lifetime
// and disables the controls on their messages.
func (m *MediaBrowserModule) sweepExpiredSessions() {
	ticker := time.NewTicker(sessionSweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-m.ctx.Done():
			return
		case now := <-ticker.C:
			expired, err := m.browse.CloseExpired(m.ctx, now)
			if err != nil {
				slog.Warn("failed to sweep browse sessions", "error", err)
				continue
			}
			for _, session := range expired {
				m.disableSessionMessage(session)
			}
		}
	}
}

func (m *MediaBrowserModule) disableSessionMessage(session usecases.ExpiredSession) {
	if m.session == nil {
		return
	}
	embeds := []*discordgo.MessageEmbed{discord.RenderEmbed(session.Render)}
	components := discord.RenderComponents(session.Render)
	_, err := m.session.ChannelMessageEditComplex(&discordgo.MessageEdit{
		Channel:    session.ChannelID.String(),
		ID:         session.MessageID.String(),
		Embeds:     &embeds,
		Components: &components,
	})
	if err != nil {
		slog.Warn("failed to disable expired session message",
			"channel_id", session.ChannelID,
			"message_id", session.MessageID,
			"error", err)
	}
}

// Gateway event handlers.

func (m *MediaBrowserModule) handleInteractionCreate(
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
) {
	switch i.Type {
	case discordgo.InteractionApplicationCommandAutocomplete:
		if m.autocomplete == nil {
			return
		}
		if i.ApplicationCommandData().Name == "genre" {
			m.autocomplete.HandleGenreName(s, i)
		}
	case discordgo.InteractionMessageComponent:
		if m.componentHandlers == nil {
			return
		}
		r := bot.NewDiscordResponder(s, i.Interaction)
		if err := m.componentHandlers.HandleComponent(s, i, r); err != nil {
			slog.Error("failed to handle browse component", "error", err)
		}
	case discordgo.InteractionModalSubmit:
		if m.componentHandlers == nil {
			return
		}
		r := bot.NewDiscordResponder(s, i.Interaction)
		if err := m.componentHandlers.HandleModalSubmit(s, i, r); err != nil {
			slog.Error("failed to handle browse modal", "error", err)
		}
	}
}

// Command handler trampolines. Kept as methods so the handler map can be
// built before Init wires the underlying services.

func (m *MediaBrowserModule) handleMovie(s *discordgo.Session, i *discordgo.InteractionCreate, r bot.Responder) error {
	return m.commandHandlers.HandleMovie(s, i, r)
}

func (m *MediaBrowserModule) handleSeries(s *discordgo.Session, i *discordgo.InteractionCreate, r bot.Responder) error {
	return m.commandHandlers.HandleSeries(s, i, r)
}

func (m *MediaBrowserModule) handlePerson(s *discordgo.Session, i *discordgo.InteractionCreate, r bot.Responder) error {
	return m.commandHandlers.HandlePerson(s, i, r)
}

func (m *MediaBrowserModule) handleGenre(s *discordgo.Session, i *discordgo.InteractionCreate, r bot.Responder) error {
	return m.commandHandlers.HandleGenre(s, i, r)
}
