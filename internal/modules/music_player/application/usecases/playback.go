package usecases

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/telinha/telinha/internal/modules/music_player/application/ports"
	"github.com/telinha/telinha/internal/modules/music_player/domain"
)

// maxConsecutiveFailures is the number of back-to-back resource failures
// tolerated while advancing before playback halts and the queue is drained.
const maxConsecutiveFailures = 3

// idleTeardownDelay is how long an idle player lingers after the queue
// drains before it disconnects on its own.
const idleTeardownDelay = 5 * time.Minute

// voiceReconnectTimeout bounds the single rejoin attempt made after an
// unexpected voice disconnect mid-playback.
const voiceReconnectTimeout = 10 * time.Second

// EnqueueInput contains the input for the Enqueue use case.
type EnqueueInput struct {
	GuildID               snowflake.ID
	UserID                snowflake.ID
	UserDisplayName       string
	NotificationChannelID snowflake.ID
	Query                 string
}

// EnqueueOutput contains the result of the Enqueue use case.
type EnqueueOutput struct {
	Track   *domain.Track
	Started bool // true if playback began immediately
}

// JoinInput contains the input for the Join use case.
type JoinInput struct {
	GuildID               snowflake.ID
	UserID                snowflake.ID
	NotificationChannelID snowflake.ID
}

// JoinOutput contains the result of the Join use case.
type JoinOutput struct {
	VoiceChannelID snowflake.ID
}

// SkipOutput contains the result of the Skip use case.
type SkipOutput struct {
	SkippedTrack *domain.Track
	NextTrack    *domain.Track // nil if the queue was empty
}

// QueueViewOutput contains the result of the QueueView use case.
type QueueViewOutput struct {
	Current   *domain.Track
	Upcoming  []*domain.Track
	MoreCount int // queued tracks beyond Upcoming
	Looping   bool
	Shuffling bool
}

// BotVoiceStateChangeInput describes a change to the bot's own voice state.
type BotVoiceStateChangeInput struct {
	GuildID      snowflake.ID
	NewChannelID *snowflake.ID // nil means disconnected
}

// PlaybackService owns the per-guild playback state machine: the queue,
// the current track and its media file, loop/shuffle modes, the voice
// connection lifecycle, and the idle teardown timer. All state mutation
// for a guild happens under that guild's lock; media resolution is the
// one slow operation and runs before the lock is taken.
type PlaybackService struct {
	repo       domain.PlayerStateRepository
	sink       ports.AudioSink
	resolver   ports.MediaResolver
	voiceState ports.VoiceStateProvider
	publisher  ports.EventPublisher

	mu          sync.Mutex
	guildLocks  map[snowflake.ID]*sync.Mutex
	drainTimers map[snowflake.ID]*time.Timer
}

// NewPlaybackService creates a new PlaybackService.
func NewPlaybackService(
	repo domain.PlayerStateRepository,
	sink ports.AudioSink,
	resolver ports.MediaResolver,
	voiceState ports.VoiceStateProvider,
	publisher ports.EventPublisher,
) *PlaybackService {
	return &PlaybackService{
		repo:        repo,
		sink:        sink,
		resolver:    resolver,
		voiceState:  voiceState,
		publisher:   publisher,
		guildLocks:  make(map[snowflake.ID]*sync.Mutex),
		drainTimers: make(map[snowflake.ID]*time.Timer),
	}
}

// lockGuild acquires the lock serializing all state access for one guild.
func (p *PlaybackService) lockGuild(guildID snowflake.ID) *sync.Mutex {
	p.mu.Lock()
	lock, ok := p.guildLocks[guildID]
	if !ok {
		lock = &sync.Mutex{}
		p.guildLocks[guildID] = lock
	}
	p.mu.Unlock()

	lock.Lock()
	return lock
}

// Join connects the bot to the invoking user's voice channel without
// starting playback. Joining while already connected moves the player to
// the user's channel.
func (p *PlaybackService) Join(ctx context.Context, input JoinInput) (*JoinOutput, error) {
	channelID, ok := p.voiceState.GetUserVoiceChannel(input.GuildID, input.UserID)
	if !ok {
		return nil, ErrUserNotInVoice
	}

	lock := p.lockGuild(input.GuildID)
	defer lock.Unlock()

	state := p.repo.Get(input.GuildID)
	if state == nil {
		state = domain.NewPlayerState(input.GuildID, channelID, input.NotificationChannelID)
		p.repo.Save(state)
	} else {
		state.SetVoiceChannelID(channelID)
		state.SetNotificationChannelID(input.NotificationChannelID)
	}

	if err := p.sink.Join(ctx, input.GuildID, channelID); err != nil {
		if state.Current() == nil && state.Queue.IsEmpty() {
			p.repo.Delete(input.GuildID)
		}
		return nil, fmt.Errorf("%w: %w", ErrVoiceJoinFailed, err)
	}

	if state.Phase() == domain.PhaseConnecting {
		state.SetPhase(domain.PhaseIdle)
		p.startDrainTimerLocked(input.GuildID)
	}

	return &JoinOutput{VoiceChannelID: channelID}, nil
}

// Leave tears the guild's player down completely. Calling it when no
// player exists is not an error.
func (p *PlaybackService) Leave(ctx context.Context, guildID snowflake.ID) error {
	lock := p.lockGuild(guildID)
	defer lock.Unlock()

	return p.teardownLocked(ctx, guildID)
}

// Enqueue resolves a query into a track and appends it to the guild's
// queue, connecting to voice and starting playback when the player is
// idle. Resolution runs before the guild lock is taken so a slow download
// never blocks other commands.
func (p *PlaybackService) Enqueue(ctx context.Context, input EnqueueInput) (*EnqueueOutput, error) {
	channelID, ok := p.voiceState.GetUserVoiceChannel(input.GuildID, input.UserID)
	if !ok {
		return nil, ErrUserNotInVoice
	}

	media, err := p.resolver.Resolve(ctx, input.Query)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrResolveFailed, err)
	}

	var mediaFile *domain.MediaFile
	if media.LocalPath != "" {
		mediaFile = domain.NewMediaFile(media.LocalPath)
	}
	track := domain.NewTrack(
		media.Title,
		media.Artist,
		media.Duration,
		media.SourceURL,
		media.ThumbnailURL,
		input.UserID,
		input.UserDisplayName,
		mediaFile,
	)

	lock := p.lockGuild(input.GuildID)
	defer lock.Unlock()

	state := p.repo.Get(input.GuildID)
	if state == nil {
		state = domain.NewPlayerState(input.GuildID, channelID, input.NotificationChannelID)
		p.repo.Save(state)

		if err := p.sink.Join(ctx, input.GuildID, channelID); err != nil {
			p.repo.Delete(input.GuildID)
			releaseTrack(track)
			return nil, fmt.Errorf("%w: %w", ErrVoiceJoinFailed, err)
		}
		state.SetPhase(domain.PhaseIdle)
	} else {
		state.SetNotificationChannelID(input.NotificationChannelID)
	}

	p.cancelDrainTimerLocked(input.GuildID)

	wasIdle := state.Current() == nil
	state.Queue.Append(track)

	if err := p.publisher.PublishTrackEnqueued(domain.TrackEnqueuedEvent{
		GuildID: input.GuildID,
		Track:   track,
		WasIdle: wasIdle,
	}); err != nil {
		slog.Warn("failed to publish track enqueued event", "error", err)
	}

	started := false
	if wasIdle {
		if err := p.advanceLocked(ctx, state); err != nil {
			return nil, err
		}
		started = state.Current() != nil
	}

	return &EnqueueOutput{Track: track, Started: started}, nil
}

// advanceLocked moves the state machine to the next track. With loop
// enabled the current track replays and its file is retained; otherwise
// the spent track's file is released and the next queued track is popped,
// randomly under shuffle. An empty queue parks the player idle and arms
// the teardown timer. A track whose resource fails to start is released
// and the advance retries, up to maxConsecutiveFailures in a row.
//
// Must be called with the guild lock held.
func (p *PlaybackService) advanceLocked(ctx context.Context, state *domain.PlayerState) error {
	guildID := state.GuildID()

	var next *domain.Track
	if state.IsLooping() && state.Current() != nil {
		next = state.Current()
	} else {
		if current := state.Current(); current != nil {
			if err := current.ReleaseMedia(); err != nil {
				slog.Warn("failed to release media file", "guild_id", guildID, "error", err)
			}
			state.SetCurrent(nil)
		}
		if state.IsShuffling() {
			next = state.Queue.PopRandom()
		} else {
			next = state.Queue.PopFront()
		}
	}

	if next == nil {
		state.SetPhase(domain.PhaseIdle)
		state.ResetFailures()
		p.publishFinished(state, true)
		p.startDrainTimerLocked(guildID)
		return nil
	}

	if err := p.sink.Play(ctx, guildID, playbackSource(next)); err != nil {
		slog.Error("failed to start playback",
			"guild_id", guildID,
			"track", next.Title,
			"error", err)

		if err := next.ReleaseMedia(); err != nil {
			slog.Warn("failed to release media file", "guild_id", guildID, "error", err)
		}
		state.SetCurrent(nil)
		p.publishTrackFailed(state, next)

		if state.RecordFailure() >= maxConsecutiveFailures {
			p.drainQueueLocked(state)
			state.SetPhase(domain.PhaseIdle)
			state.ResetFailures()
			p.publishFinished(state, true)
			p.startDrainTimerLocked(guildID)
			return ErrTooManyFailures
		}
		return p.advanceLocked(ctx, state)
	}

	state.ResetFailures()
	state.ClearReconnectAttempt()
	state.SetCurrent(next)
	state.SetPhase(domain.PhasePlaying)

	if err := p.publisher.PublishPlaybackStarted(domain.PlaybackStartedEvent{
		GuildID:               guildID,
		Track:                 next,
		NotificationChannelID: state.NotificationChannelID(),
	}); err != nil {
		slog.Warn("failed to publish playback started event", "error", err)
	}

	return nil
}

// HandleTrackEnd reacts to a track-end event from the audio sink. Only
// natural finishes and resource failures advance the queue here; skips
// and stops already handled the transition on their own paths. The bus
// delivers events asynchronously, so an event whose track is no longer
// current is stale and must be dropped: its transition already happened.
func (p *PlaybackService) HandleTrackEnd(ctx context.Context, guildID snowflake.ID, trackID domain.TrackID, reason domain.TrackEndReason) error {
	if !reason.ShouldAdvanceQueue() {
		return nil
	}

	lock := p.lockGuild(guildID)
	defer lock.Unlock()

	state := p.repo.Get(guildID)
	if state == nil || state.Phase() == domain.PhaseDestroyed {
		return nil
	}

	current := state.Current()
	if current == nil || current.ID != trackID {
		slog.Debug("ignoring track end for a track that is no longer current",
			"guild_id", guildID, "track_id", trackID, "reason", reason)
		return nil
	}

	if reason == domain.TrackEndFailed {
		// Mid-playback failure: do not loop-replay a broken resource.
		if err := current.ReleaseMedia(); err != nil {
			slog.Warn("failed to release media file", "guild_id", guildID, "error", err)
		}
		state.SetCurrent(nil)
		p.publishTrackFailed(state, current)
		if state.RecordFailure() >= maxConsecutiveFailures {
			p.drainQueueLocked(state)
			state.SetPhase(domain.PhaseIdle)
			state.ResetFailures()
			p.publishFinished(state, true)
			p.startDrainTimerLocked(guildID)
			return ErrTooManyFailures
		}
	}

	return p.advanceLocked(ctx, state)
}

// Pause pauses the current playback.
func (p *PlaybackService) Pause(ctx context.Context, guildID snowflake.ID) error {
	lock := p.lockGuild(guildID)
	defer lock.Unlock()

	state := p.repo.Get(guildID)
	if state == nil {
		return ErrNotConnected
	}
	if state.Phase() != domain.PhasePlaying {
		return ErrNotPlaying
	}

	if err := p.sink.Pause(guildID); err != nil {
		return err
	}
	state.SetPhase(domain.PhasePaused)
	return nil
}

// Resume resumes paused playback.
func (p *PlaybackService) Resume(ctx context.Context, guildID snowflake.ID) error {
	lock := p.lockGuild(guildID)
	defer lock.Unlock()

	state := p.repo.Get(guildID)
	if state == nil {
		return ErrNotConnected
	}
	if state.Phase() != domain.PhasePaused {
		return ErrNotPlaying
	}

	if err := p.sink.Resume(guildID); err != nil {
		return err
	}
	state.SetPhase(domain.PhasePlaying)
	return nil
}

// Skip abandons the current track and advances to the next one. The skip
// always moves forward even with loop enabled, and the skipped track's
// file is released before the next track starts.
func (p *PlaybackService) Skip(ctx context.Context, guildID snowflake.ID) (*SkipOutput, error) {
	lock := p.lockGuild(guildID)
	defer lock.Unlock()

	state := p.repo.Get(guildID)
	if state == nil {
		return nil, ErrNotConnected
	}
	current := state.Current()
	if current == nil {
		return nil, ErrNotPlaying
	}

	// The sink's stop event carries a non-advancing reason, so the
	// advance below is the only transition that happens.
	if err := p.sink.Stop(guildID); err != nil {
		slog.Warn("failed to stop audio sink on skip", "guild_id", guildID, "error", err)
	}

	if err := current.ReleaseMedia(); err != nil {
		slog.Warn("failed to release media file", "guild_id", guildID, "error", err)
	}
	state.SetCurrent(nil)

	if err := p.advanceLocked(ctx, state); err != nil {
		return nil, err
	}

	return &SkipOutput{SkippedTrack: current, NextTrack: state.Current()}, nil
}

// Stop halts playback, drains the queue, releases every owned media file
// and disconnects from voice. It is idempotent: stopping a guild with no
// player is a no-op.
func (p *PlaybackService) Stop(ctx context.Context, guildID snowflake.ID) error {
	lock := p.lockGuild(guildID)
	defer lock.Unlock()

	return p.teardownLocked(ctx, guildID)
}

// teardownLocked performs the full idempotent teardown sequence. Must be
// called with the guild lock held.
func (p *PlaybackService) teardownLocked(ctx context.Context, guildID snowflake.ID) error {
	state := p.repo.Get(guildID)
	if state == nil {
		return nil
	}

	p.cancelDrainTimerLocked(guildID)

	// Halt the sink before touching files so nothing reads a path that is
	// about to be unlinked.
	if err := p.sink.Stop(guildID); err != nil {
		slog.Warn("failed to stop audio sink", "guild_id", guildID, "error", err)
	}

	if current := state.Current(); current != nil {
		if err := current.ReleaseMedia(); err != nil {
			slog.Warn("failed to release media file", "guild_id", guildID, "error", err)
		}
		state.SetCurrent(nil)
	}
	p.drainQueueLocked(state)

	p.publishFinished(state, false)

	state.SetPhase(domain.PhaseDestroyed)
	p.repo.Delete(guildID)

	if err := p.sink.Leave(ctx, guildID); err != nil {
		slog.Warn("failed to leave voice channel", "guild_id", guildID, "error", err)
	}

	if err := p.publisher.PublishPlayerDestroyed(domain.PlayerDestroyedEvent{GuildID: guildID}); err != nil {
		slog.Warn("failed to publish player destroyed event", "error", err)
	}

	return nil
}

// drainQueueLocked empties the queue and releases every drained track's
// media file. Must be called with the guild lock held.
func (p *PlaybackService) drainQueueLocked(state *domain.PlayerState) {
	for _, track := range state.Queue.Drain() {
		if err := track.ReleaseMedia(); err != nil {
			slog.Warn("failed to release media file",
				"guild_id", state.GuildID(),
				"track", track.Title,
				"error", err)
		}
	}
}

// publishFinished publishes a PlaybackFinishedEvent carrying the live
// status message, if any, and clears it from the state. drained marks
// that the queue ran out rather than being stopped or torn down.
func (p *PlaybackService) publishFinished(state *domain.PlayerState, drained bool) {
	var lastMessageID *snowflake.ID
	channelID := state.NotificationChannelID()
	if msg := state.NowPlayingMessage(); msg != nil {
		lastMessageID = &msg.MessageID
		channelID = msg.ChannelID
		state.ClearNowPlayingMessage()
	}

	if err := p.publisher.PublishPlaybackFinished(domain.PlaybackFinishedEvent{
		GuildID:               state.GuildID(),
		NotificationChannelID: channelID,
		LastMessageID:         lastMessageID,
		Drained:               drained,
	}); err != nil {
		slog.Warn("failed to publish playback finished event", "error", err)
	}
}

// publishTrackFailed announces a dropped track so the channel sees why
// the queue moved on.
func (p *PlaybackService) publishTrackFailed(state *domain.PlayerState, track *domain.Track) {
	if err := p.publisher.PublishTrackFailed(domain.TrackFailedEvent{
		GuildID:               state.GuildID(),
		Track:                 track,
		NotificationChannelID: state.NotificationChannelID(),
	}); err != nil {
		slog.Warn("failed to publish track failed event", "error", err)
	}
}

// ToggleLoop flips loop mode for the guild and returns the new value.
func (p *PlaybackService) ToggleLoop(guildID snowflake.ID) (bool, error) {
	lock := p.lockGuild(guildID)
	defer lock.Unlock()

	state := p.repo.Get(guildID)
	if state == nil {
		return false, ErrNotConnected
	}
	return state.ToggleLoop(), nil
}

// ToggleShuffle flips shuffle mode for the guild and returns the new value.
func (p *PlaybackService) ToggleShuffle(guildID snowflake.ID) (bool, error) {
	lock := p.lockGuild(guildID)
	defer lock.Unlock()

	state := p.repo.Get(guildID)
	if state == nil {
		return false, ErrNotConnected
	}
	return state.ToggleShuffle(), nil
}

// Remove removes a queued track by ID and releases its media file. The
// currently playing track cannot be removed; use Skip for that.
func (p *PlaybackService) Remove(guildID snowflake.ID, trackID domain.TrackID) (*domain.Track, error) {
	lock := p.lockGuild(guildID)
	defer lock.Unlock()

	state := p.repo.Get(guildID)
	if state == nil {
		return nil, ErrNotConnected
	}

	track := state.Queue.RemoveByID(trackID)
	if track == nil {
		return nil, ErrTrackNotFound
	}
	if err := track.ReleaseMedia(); err != nil {
		slog.Warn("failed to release media file", "guild_id", guildID, "error", err)
	}
	return track, nil
}

// queueViewLimit caps how many upcoming tracks a queue view includes.
const queueViewLimit = 10

// QueueView returns a snapshot of the guild's queue for display. An idle
// player with nothing queued returns ErrQueueEmpty.
func (p *PlaybackService) QueueView(guildID snowflake.ID) (*QueueViewOutput, error) {
	lock := p.lockGuild(guildID)
	defer lock.Unlock()

	state := p.repo.Get(guildID)
	if state == nil {
		return nil, ErrNotConnected
	}
	if state.Current() == nil && state.Queue.IsEmpty() {
		return nil, ErrQueueEmpty
	}

	upcoming := state.Queue.Upcoming(queueViewLimit)
	return &QueueViewOutput{
		Current:   state.Current(),
		Upcoming:  upcoming,
		MoreCount: state.Queue.Len() - len(upcoming),
		Looping:   state.IsLooping(),
		Shuffling: state.IsShuffling(),
	}, nil
}

// QueuedTracks returns all pending tracks, used for autocomplete.
func (p *PlaybackService) QueuedTracks(guildID snowflake.ID) []*domain.Track {
	lock := p.lockGuild(guildID)
	defer lock.Unlock()

	state := p.repo.Get(guildID)
	if state == nil {
		return nil
	}
	return state.Queue.List()
}

// SetNowPlayingMessage records the live status message for a guild. A
// no-op when the player is gone, which can happen if the player was torn
// down while the message was being sent.
func (p *PlaybackService) SetNowPlayingMessage(guildID, channelID, messageID snowflake.ID) {
	lock := p.lockGuild(guildID)
	defer lock.Unlock()

	state := p.repo.Get(guildID)
	if state == nil {
		return
	}
	state.SetNowPlayingMessage(channelID, messageID)
}

// NowPlayingMessage returns the guild's live status message, if any.
func (p *PlaybackService) NowPlayingMessage(guildID snowflake.ID) *domain.NowPlayingMessage {
	lock := p.lockGuild(guildID)
	defer lock.Unlock()

	state := p.repo.Get(guildID)
	if state == nil {
		return nil
	}
	return state.NowPlayingMessage()
}

// HandleBotVoiceStateChange reacts to changes in the bot's own voice
// state. A disconnect mid-playback gets one bounded reconnect attempt,
// since gateway drops are often transient; a second disconnect for the
// same track, or a failed rejoin, tears the player down. A move updates
// the tracked channel and tears down if the bot ends up alone.
func (p *PlaybackService) HandleBotVoiceStateChange(ctx context.Context, input BotVoiceStateChangeInput) error {
	lock := p.lockGuild(input.GuildID)
	defer lock.Unlock()

	state := p.repo.Get(input.GuildID)
	if state == nil {
		return nil
	}

	if input.NewChannelID == nil {
		if state.Current() != nil && !state.ReconnectAttempted() {
			state.MarkReconnectAttempted()
			if err := p.reconnectLocked(ctx, state); err == nil {
				return nil
			}
		}
		slog.Info("bot disconnected from voice, destroying player", "guild_id", input.GuildID)
		return p.teardownLocked(ctx, input.GuildID)
	}

	state.SetVoiceChannelID(*input.NewChannelID)
	if p.voiceState.CountChannelMembers(input.GuildID, *input.NewChannelID) == 0 {
		slog.Info("bot alone after move, destroying player", "guild_id", input.GuildID)
		return p.teardownLocked(ctx, input.GuildID)
	}
	return nil
}

// reconnectLocked makes the single allowed attempt to rejoin the tracked
// voice channel and restart the current track after an unexpected
// disconnect. Must be called with the guild lock held.
func (p *PlaybackService) reconnectLocked(ctx context.Context, state *domain.PlayerState) error {
	guildID := state.GuildID()
	slog.Info("bot disconnected from voice mid-playback, attempting reconnect",
		"guild_id", guildID, "channel_id", state.VoiceChannelID())

	joinCtx, cancel := context.WithTimeout(ctx, voiceReconnectTimeout)
	defer cancel()
	if err := p.sink.Join(joinCtx, guildID, state.VoiceChannelID()); err != nil {
		slog.Warn("voice reconnect failed", "guild_id", guildID, "error", err)
		return err
	}

	if err := p.sink.Play(ctx, guildID, playbackSource(state.Current())); err != nil {
		slog.Warn("failed to restart track after reconnect", "guild_id", guildID, "error", err)
		return err
	}
	return nil
}

// HandleUserVoiceStateChange reacts to other users' voice movements,
// tearing the player down when the bot is left alone in its channel.
func (p *PlaybackService) HandleUserVoiceStateChange(ctx context.Context, guildID snowflake.ID) error {
	lock := p.lockGuild(guildID)
	defer lock.Unlock()

	state := p.repo.Get(guildID)
	if state == nil {
		return nil
	}

	if p.voiceState.CountChannelMembers(guildID, state.VoiceChannelID()) == 0 {
		slog.Info("bot alone in voice channel, destroying player", "guild_id", guildID)
		return p.teardownLocked(ctx, guildID)
	}
	return nil
}

// startDrainTimerLocked arms the idle teardown timer for a guild. Any
// existing timer is replaced. Must be called with the guild lock held.
func (p *PlaybackService) startDrainTimerLocked(guildID snowflake.ID) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if timer, ok := p.drainTimers[guildID]; ok {
		timer.Stop()
	}
	p.drainTimers[guildID] = time.AfterFunc(idleTeardownDelay, func() {
		p.idleTeardown(guildID)
	})
}

// cancelDrainTimerLocked stops the idle teardown timer for a guild, if
// armed. Must be called with the guild lock held.
func (p *PlaybackService) cancelDrainTimerLocked(guildID snowflake.ID) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if timer, ok := p.drainTimers[guildID]; ok {
		timer.Stop()
		delete(p.drainTimers, guildID)
	}
}

// idleTeardown fires when the drain timer elapses. The player may have
// started playing again in the meantime, in which case it is left alone.
func (p *PlaybackService) idleTeardown(guildID snowflake.ID) {
	lock := p.lockGuild(guildID)
	defer lock.Unlock()

	state := p.repo.Get(guildID)
	if state == nil || state.Current() != nil || !state.Queue.IsEmpty() {
		return
	}

	slog.Info("idle timeout elapsed, disconnecting", "guild_id", guildID)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := p.teardownLocked(ctx, guildID); err != nil {
		slog.Error("idle teardown failed", "guild_id", guildID, "error", err)
	}
}

// releaseTrack releases a track's media file, logging any problem.
func releaseTrack(track *domain.Track) {
	if err := track.ReleaseMedia(); err != nil {
		slog.Warn("failed to release media file", "track", track.Title, "error", err)
	}
}

// playbackSource builds the sink source for a track, preferring its
// downloaded file over the remote stream.
func playbackSource(track *domain.Track) ports.PlaybackSource {
	source := ports.PlaybackSource{TrackID: track.ID, StreamURL: track.SourceURL}
	if track.HasLocalMedia() {
		source = ports.PlaybackSource{TrackID: track.ID, LocalPath: track.Media.Path()}
	}
	return source
}
