package usecases

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/telinha/telinha/internal/modules/music_player/application/ports"
	"github.com/telinha/telinha/internal/modules/music_player/domain"
)

// PlaybackEventHandler advances the state machine in response to
// track-end events from the audio sink.
type PlaybackEventHandler struct {
	playback   *PlaybackService
	subscriber ports.EventSubscriber
}

// NewPlaybackEventHandler creates a new PlaybackEventHandler.
func NewPlaybackEventHandler(
	playback *PlaybackService,
	subscriber ports.EventSubscriber,
) *PlaybackEventHandler {
	return &PlaybackEventHandler{
		playback:   playback,
		subscriber: subscriber,
	}
}

// Start registers the handler with the subscriber.
func (h *PlaybackEventHandler) Start() {
	h.subscriber.OnTrackEnded(h.handleTrackEnded)
	slog.Debug("playback event handler started")
}

func (h *PlaybackEventHandler) handleTrackEnded(ctx context.Context, event domain.TrackEndedEvent) {
	if err := h.playback.HandleTrackEnd(ctx, event.GuildID, event.TrackID, event.Reason); err != nil {
		slog.Error("failed to handle track end",
			"guild_id", event.GuildID,
			"reason", event.Reason,
			"error", err,
		)
	}
}

// NotificationEventHandler keeps the per-guild now-playing status message
// in sync with playback: one live message per guild, edited in place when
// the channel is unchanged, deleted when playback ends. Message locations
// are persisted so a restart can clean up leftovers.
type NotificationEventHandler struct {
	playback   *PlaybackService
	notifier   ports.Notifier
	store      ports.StatusMessageStore
	subscriber ports.EventSubscriber
}

// NewNotificationEventHandler creates a new NotificationEventHandler.
func NewNotificationEventHandler(
	playback *PlaybackService,
	notifier ports.Notifier,
	store ports.StatusMessageStore,
	subscriber ports.EventSubscriber,
) *NotificationEventHandler {
	return &NotificationEventHandler{
		playback:   playback,
		notifier:   notifier,
		store:      store,
		subscriber: subscriber,
	}
}

// Start registers the handler with the subscriber.
func (h *NotificationEventHandler) Start() {
	h.subscriber.OnPlaybackStarted(h.handlePlaybackStarted)
	h.subscriber.OnPlaybackFinished(h.handlePlaybackFinished)
	h.subscriber.OnTrackFailed(h.handleTrackFailed)
	h.subscriber.OnPlayerDestroyed(h.handlePlayerDestroyed)
	slog.Debug("notification event handler started")
}

func (h *NotificationEventHandler) handlePlaybackStarted(
	ctx context.Context,
	event domain.PlaybackStartedEvent,
) {
	view, err := h.playback.QueueView(event.GuildID)
	if err != nil {
		// Player torn down between the event and now.
		return
	}

	info := ports.NowPlayingInfo{
		Title:         event.Track.Title,
		Artist:        event.Track.Artist,
		Duration:      event.Track.Duration,
		SourceURL:     event.Track.SourceURL,
		ThumbnailURL:  event.Track.ThumbnailURL,
		RequesterName: event.Track.RequesterName,
		Looping:       view.Looping,
		Shuffling:     view.Shuffling,
		QueueLength:   len(view.Upcoming) + view.MoreCount,
	}

	// Edit the existing message in place when it lives in the same
	// channel; otherwise drop it and post fresh.
	if existing := h.playback.NowPlayingMessage(event.GuildID); existing != nil {
		if existing.ChannelID == event.NotificationChannelID {
			if err := h.notifier.EditNowPlaying(ctx, existing.ChannelID, existing.MessageID, info); err == nil {
				return
			}
			slog.Warn("failed to edit now playing message, posting a new one",
				"guild_id", event.GuildID)
		} else if err := h.notifier.DeleteMessage(ctx, existing.ChannelID, existing.MessageID); err != nil {
			slog.Warn("failed to delete superseded now playing message",
				"guild_id", event.GuildID, "error", err)
		}
	}

	messageID, err := h.notifier.SendNowPlaying(ctx, event.NotificationChannelID, info)
	if err != nil {
		slog.Error("failed to send now playing message",
			"guild_id", event.GuildID, "error", err)
		return
	}

	h.playback.SetNowPlayingMessage(event.GuildID, event.NotificationChannelID, messageID)
	if err := h.store.Put(ports.StatusMessageRecord{
		GuildID:   event.GuildID,
		ChannelID: event.NotificationChannelID,
		MessageID: messageID,
	}); err != nil {
		slog.Warn("failed to persist now playing message location",
			"guild_id", event.GuildID, "error", err)
	}
}

func (h *NotificationEventHandler) handlePlaybackFinished(
	ctx context.Context,
	event domain.PlaybackFinishedEvent,
) {
	if event.LastMessageID != nil {
		if err := h.notifier.DeleteMessage(ctx, event.NotificationChannelID, *event.LastMessageID); err != nil {
			slog.Warn("failed to delete now playing message",
				"guild_id", event.GuildID, "error", err)
		}
	}
	if err := h.store.Delete(event.GuildID); err != nil {
		slog.Warn("failed to delete persisted message location",
			"guild_id", event.GuildID, "error", err)
	}

	if event.Drained {
		if err := h.notifier.SendNotice(ctx, event.NotificationChannelID, "Queue finished, nothing left to play."); err != nil {
			slog.Warn("failed to send queue drained notice",
				"guild_id", event.GuildID, "error", err)
		}
	}
}

// handleTrackFailed posts a transient notice so the channel sees why a
// track was dropped from the queue.
func (h *NotificationEventHandler) handleTrackFailed(
	ctx context.Context,
	event domain.TrackFailedEvent,
) {
	notice := fmt.Sprintf("Skipping **%s**: its source failed to play.", event.Track.Title)
	if err := h.notifier.SendNotice(ctx, event.NotificationChannelID, notice); err != nil {
		slog.Warn("failed to send track failed notice",
			"guild_id", event.GuildID, "error", err)
	}
}

func (h *NotificationEventHandler) handlePlayerDestroyed(
	ctx context.Context,
	event domain.PlayerDestroyedEvent,
) {
	if err := h.store.Delete(event.GuildID); err != nil {
		slog.Warn("failed to delete persisted message location",
			"guild_id", event.GuildID, "error", err)
	}
}

// CleanupOrphanedMessages deletes status messages recorded by a previous
// process that shut down uncleanly.
func (h *NotificationEventHandler) CleanupOrphanedMessages(ctx context.Context) {
	records, err := h.store.All()
	if err != nil {
		slog.Warn("failed to load persisted message locations", "error", err)
		return
	}
	for _, record := range records {
		if err := h.notifier.DeleteMessage(ctx, record.ChannelID, record.MessageID); err != nil {
			slog.Warn("failed to delete orphaned status message",
				"guild_id", record.GuildID, "error", err)
		}
		if err := h.store.Delete(record.GuildID); err != nil {
			slog.Warn("failed to delete persisted message location",
				"guild_id", record.GuildID, "error", err)
		}
	}
}
