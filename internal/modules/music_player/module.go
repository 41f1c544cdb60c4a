package music_player

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/bwmarrin/discordgo"
	"github.com/caarlos0/env/v11"
	"github.com/telinha/telinha/internal/bot"
	"github.com/telinha/telinha/internal/modules/music_player/application/usecases"
	"github.com/telinha/telinha/internal/modules/music_player/infrastructure"
	"github.com/telinha/telinha/internal/modules/music_player/presentation/discord"
)

func init() {
	bot.Register(&MusicPlayerModule{})
}

// Compile-time interface checks.
var _ bot.ConfigurableModule = (*MusicPlayerModule)(nil)

// MusicPlayerModule provides queue-based music playback commands.
type MusicPlayerModule struct {
	config          *Config
	playback        *usecases.PlaybackService
	commandHandlers *discord.CommandHandlers
	autocomplete    *discord.AutocompleteHandler
	eventHandlers   *discord.EventHandlers

	eventBus            *infrastructure.ChannelEventBus
	statusStore         *infrastructure.SqliteStatusStore
	playbackHandler     *usecases.PlaybackEventHandler
	notificationHandler *usecases.NotificationEventHandler

	ctx    context.Context
	cancel context.CancelFunc
}

// Name returns the module name.
func (m *MusicPlayerModule) Name() string {
	return "music_player"
}

// Commands returns the slash commands for this module.
func (m *MusicPlayerModule) Commands() []*discordgo.ApplicationCommand {
	return discord.Commands()
}

// CommandHandlers returns the command handlers for this module.
func (m *MusicPlayerModule) CommandHandlers() map[string]bot.InteractionHandler {
	return map[string]bot.InteractionHandler{
		"join":    m.handleJoin,
		"leave":   m.handleLeave,
		"play":    m.handlePlay,
		"pause":   m.handlePause,
		"resume":  m.handleResume,
		"skip":    m.handleSkip,
		"stop":    m.handleStop,
		"loop":    m.handleLoop,
		"shuffle": m.handleShuffle,
		"queue":   m.handleQueue,
	}
}

// EventHandlers returns the event handlers for this module.
func (m *MusicPlayerModule) EventHandlers() []bot.EventHandler {
	return []bot.EventHandler{
		func(s *discordgo.Session, event *discordgo.VoiceStateUpdate) {
			m.handleVoiceStateUpdate(s, event)
		},
		func(s *discordgo.Session, i *discordgo.InteractionCreate) {
			m.handleInteractionCreate(s, i)
		},
	}
}

// LoadConfig loads module-specific configuration from environment variables.
func (m *MusicPlayerModule) LoadConfig() error {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return err
	}
	m.config = cfg
	return nil
}

// Init initializes the module.
func (m *MusicPlayerModule) Init(deps bot.ModuleDependencies) error {
	if deps.Session == nil {
		slog.Warn("music_player module initialized without session, playback disabled")
		return nil
	}

	if err := os.MkdirAll(m.config.MediaCacheDir, 0o755); err != nil {
		return err
	}
	sweepCacheDir(m.config.MediaCacheDir)

	statusStore, err := infrastructure.NewSqliteStatusStore(m.config.StatusDBPath)
	if err != nil {
		return err
	}
	m.statusStore = statusStore

	m.ctx, m.cancel = context.WithCancel(context.Background())
	m.eventBus = infrastructure.NewChannelEventBus(infrastructure.DefaultEventBufferSize)

	repo := infrastructure.NewMemoryRepository()
	sink := infrastructure.NewDiscordVoiceSink(deps.Session, m.eventBus)
	resolver := infrastructure.NewYtdlpResolver(m.config.MediaCacheDir, m.config.DownloadThreshold)
	voiceState := infrastructure.NewVoiceStateProvider(deps.Session)
	notifier := infrastructure.NewNotifier(deps.Session)

	m.playback = usecases.NewPlaybackService(repo, sink, resolver, voiceState, m.eventBus)

	m.playbackHandler = usecases.NewPlaybackEventHandler(m.playback, m.eventBus)
	m.notificationHandler = usecases.NewNotificationEventHandler(
		m.playback,
		notifier,
		m.statusStore,
		m.eventBus,
	)
	m.playbackHandler.Start()
	m.notificationHandler.Start()

	// Clean up status messages left behind by an unclean shutdown.
	go m.notificationHandler.CleanupOrphanedMessages(m.ctx)

	m.commandHandlers = discord.NewCommandHandlers(m.playback)
	m.autocomplete = discord.NewAutocompleteHandler(m.playback)
	m.eventHandlers = discord.NewEventHandlers(m.playback)

	slog.Info("music_player module initialized")

	return nil
}

// Shutdown cleans up module resources.
func (m *MusicPlayerModule) Shutdown() error {
	if m.cancel != nil {
		m.cancel()
	}
	if m.eventBus != nil {
		m.eventBus.Close()
	}
	if m.statusStore != nil {
		if err := m.statusStore.Close(); err != nil {
			slog.Warn("failed to close status store", "error", err)
		}
	}
	return nil
}

// sweepCacheDir deletes media files orphaned by a previous run. Every
// file in the cache belongs to a track whose owning state died with the
// process, so everything present at startup is stale.
func sweepCacheDir(dir string) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		slog.Warn("failed to read media cache directory", "dir", dir, "error", err)
		return
	}
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if err := os.Remove(filepath.Join(dir, entry.Name())); err != nil {
			slog.Warn("failed to remove orphaned media file",
				"file", entry.Name(), "error", err)
			continue
		}
		removed++
	}
	if removed > 0 {
		slog.Info("removed orphaned media files", "count", removed)
	}
}

// Gateway event handlers.

func (m *MusicPlayerModule) handleVoiceStateUpdate(
	s *discordgo.Session,
	event *discordgo.VoiceStateUpdate,
) {
	if m.eventHandlers != nil {
		m.eventHandlers.HandleVoiceStateUpdate(s, event)
	}
}

func (m *MusicPlayerModule) handleInteractionCreate(
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
) {
	if i.Type != discordgo.InteractionApplicationCommandAutocomplete {
		return
	}
	if m.autocomplete == nil {
		return
	}

	data := i.ApplicationCommandData()
	if data.Name == "queue" && len(data.Options) > 0 && data.Options[0].Name == "remove" {
		m.autocomplete.HandleQueueRemove(s, i)
	}
}

// Command handler trampolines. Kept as methods so the handler map can be
// built before Init wires the underlying services.

func (m *MusicPlayerModule) handleJoin(s *discordgo.Session, i *discordgo.InteractionCreate, r bot.Responder) error {
	return m.commandHandlers.HandleJoin(s, i, r)
}

func (m *MusicPlayerModule) handleLeave(s *discordgo.Session, i *discordgo.InteractionCreate, r bot.Responder) error {
	return m.commandHandlers.HandleLeave(s, i, r)
}

func (m *MusicPlayerModule) handlePlay(s *discordgo.Session, i *discordgo.InteractionCreate, r bot.Responder) error {
	return m.commandHandlers.HandlePlay(s, i, r)
}

func (m *MusicPlayerModule) handlePause(s *discordgo.Session, i *discordgo.InteractionCreate, r bot.Responder) error {
	return m.commandHandlers.HandlePause(s, i, r)
}

func (m *MusicPlayerModule) handleResume(s *discordgo.Session, i *discordgo.InteractionCreate, r bot.Responder) error {
	return m.commandHandlers.HandleResume(s, i, r)
}

func (m *MusicPlayerModule) handleSkip(s *discordgo.Session, i *discordgo.InteractionCreate, r bot.Responder) error {
	return m.commandHandlers.HandleSkip(s, i, r)
}

func (m *MusicPlayerModule) handleStop(s *discordgo.Session, i *discordgo.InteractionCreate, r bot.Responder) error {
	return m.commandHandlers.HandleStop(s, i, r)
}

func (m *MusicPlayerModule) handleLoop(s *discordgo.Session, i *discordgo.InteractionCreate, r bot.Responder) error {
	return m.commandHandlers.HandleLoop(s, i, r)
}

func (m *MusicPlayerModule) handleShuffle(s *discordgo.Session, i *discordgo.InteractionCreate, r bot.Responder) error {
	return m.commandHandlers.HandleShuffle(s, i, r)
}

func (m *MusicPlayerModule) handleQueue(s *discordgo.Session, i *discordgo.InteractionCreate, r bot.Responder) error {
	return m.commandHandlers.HandleQueue(s, i, r)
}
