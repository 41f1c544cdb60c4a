package domain

import (
	"github.com/disgoorg/snowflake/v2"
)

// PlayerPhase represents the lifecycle phase of a guild's player.
type PlayerPhase int

const (
	// PhaseIdle means the player has a connection but nothing playing.
	PhaseIdle PlayerPhase = iota
	// PhaseConnecting means the voice connection is being established.
	PhaseConnecting
	// PhasePlaying means a track is playing.
	PhasePlaying
	// PhasePaused means a track is loaded but the sink is paused.
	PhasePaused
	// PhaseDestroyed is terminal; the state must be fully re-created.
	PhaseDestroyed
)

// String returns a human-readable representation of the phase.
func (p PlayerPhase) String() string {
	switch p {
	case PhaseConnecting:
		return "connecting"
	case PhasePlaying:
		return "playing"
	case PhasePaused:
		return "paused"
	case PhaseDestroyed:
		return "destroyed"
	default:
		return "idle"
	}
}

// NowPlayingMessage stores the channel and message ID of the live status
// message. Both are needed for deletion since the message may live in a
// different channel than the current notification channel.
type NowPlayingMessage struct {
	ChannelID snowflake.ID
	MessageID snowflake.ID
}

// PlayerState represents the playback state machine for one guild: the
// pending queue, the current track, loop/shuffle flags and the channels
// status is rendered to. All mutation must happen under the owning
// service's per-guild lock.
type PlayerState struct {
	guildID               snowflake.ID
	voiceChannelID        snowflake.ID
	notificationChannelID snowflake.ID
	nowPlayingMessage     *NowPlayingMessage

	Queue   Queue
	current *Track
	phase   PlayerPhase

	looping   bool
	shuffling bool

	// consecutive resource failures during advance; capped by the service
	failureStreak int

	// the one allowed voice reconnect for the current track was spent
	reconnectAttempted bool
}

// NewPlayerState creates a new PlayerState for the given guild and channels.
func NewPlayerState(guildID, voiceChannelID, notificationChannelID snowflake.ID) *PlayerState {
	return &PlayerState{
		guildID:               guildID,
		voiceChannelID:        voiceChannelID,
		notificationChannelID: notificationChannelID,
		Queue:                 NewQueue(),
		phase:                 PhaseConnecting,
	}
}

// GuildID returns the guild ID. Never modified after initialization.
func (p *PlayerState) GuildID() snowflake.ID {
	return p.guildID
}

// VoiceChannelID returns the current voice channel ID.
func (p *PlayerState) VoiceChannelID() snowflake.ID {
	return p.voiceChannelID
}

// SetVoiceChannelID updates the voice channel ID.
func (p *PlayerState) SetVoiceChannelID(channelID snowflake.ID) {
	p.voiceChannelID = channelID
}

// NotificationChannelID returns the text channel status is rendered to.
func (p *PlayerState) NotificationChannelID() snowflake.ID {
	return p.notificationChannelID
}

// SetNotificationChannelID updates the notification channel ID.
func (p *PlayerState) SetNotificationChannelID(channelID snowflake.ID) {
	p.notificationChannelID = channelID
}

// Phase returns the current lifecycle phase.
func (p *PlayerState) Phase() PlayerPhase {
	return p.phase
}

// SetPhase sets the lifecycle phase. Transitions out of PhaseDestroyed are
// ignored; a destroyed player must be re-created.
func (p *PlayerState) SetPhase(phase PlayerPhase) {
	if p.phase == PhaseDestroyed {
		return
	}
	p.phase = phase
}

// Current returns the currently playing track, or nil.
func (p *PlayerState) Current() *Track {
	return p.current
}

// SetCurrent sets the currently playing track.
func (p *PlayerState) SetCurrent(track *Track) {
	p.current = track
}

// IsLooping returns true if the current track repeats on natural end.
func (p *PlayerState) IsLooping() bool {
	return p.looping
}

// IsShuffling returns true if advance pops a random queued track.
func (p *PlayerState) IsShuffling() bool {
	return p.shuffling
}

// ToggleLoop flips loop mode and returns the new value. Loop and shuffle
// are mutually exclusive: enabling loop clears shuffle.
func (p *PlayerState) ToggleLoop() bool {
	p.looping = !p.looping
	if p.looping {
		p.shuffling = false
	}
	return p.looping
}

// ToggleShuffle flips shuffle mode and returns the new value. Enabling
// shuffle clears loop.
func (p *PlayerState) ToggleShuffle() bool {
	p.shuffling = !p.shuffling
	if p.shuffling {
		p.looping = false
	}
	return p.shuffling
}

// FailureStreak returns the count of consecutive resource failures.
func (p *PlayerState) FailureStreak() int {
	return p.failureStreak
}

// RecordFailure increments the consecutive-failure count and returns it.
func (p *PlayerState) RecordFailure() int {
	p.failureStreak++
	return p.failureStreak
}

// ResetFailures clears the consecutive-failure count.
func (p *PlayerState) ResetFailures() {
	p.failureStreak = 0
}

// ReconnectAttempted reports whether the single voice reconnect allowed
// for the current track has already been spent.
func (p *PlayerState) ReconnectAttempted() bool {
	return p.reconnectAttempted
}

// MarkReconnectAttempted records that the voice reconnect was spent.
func (p *PlayerState) MarkReconnectAttempted() {
	p.reconnectAttempted = true
}

// ClearReconnectAttempt makes a reconnect available again.
func (p *PlayerState) ClearReconnectAttempt() {
	p.reconnectAttempted = false
}

// NowPlayingMessage returns a copy of the live status message info, or nil.
func (p *PlayerState) NowPlayingMessage() *NowPlayingMessage {
	if p.nowPlayingMessage == nil {
		return nil
	}
	msg := *p.nowPlayingMessage
	return &msg
}

// SetNowPlayingMessage stores the live status message info.
func (p *PlayerState) SetNowPlayingMessage(channelID, messageID snowflake.ID) {
	p.nowPlayingMessage = &NowPlayingMessage{ChannelID: channelID, MessageID: messageID}
}

// ClearNowPlayingMessage clears the stored status message info.
func (p *PlayerState) ClearNowPlayingMessage() {
	p.nowPlayingMessage = nil
}
