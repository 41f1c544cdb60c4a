package domain

import (
	"github.com/disgoorg/snowflake/v2"
)

// TrackEndReason represents why a track stopped playing.
type TrackEndReason string

const (
	// TrackEndFinished means the track finished normally.
	TrackEndFinished TrackEndReason = "finished"
	// TrackEndFailed means the track's resource failed to load or play.
	TrackEndFailed TrackEndReason = "failed"
	// TrackEndSkipped means the track was skipped by a user.
	TrackEndSkipped TrackEndReason = "skipped"
	// TrackEndStopped means playback was stopped or the player torn down.
	TrackEndStopped TrackEndReason = "stopped"
)

// ShouldAdvanceQueue returns true if this end reason should advance the
// queue. Skips advance synchronously in the skip path, and stops tear the
// player down, so neither advances here.
func (r TrackEndReason) ShouldAdvanceQueue() bool {
	return r == TrackEndFinished || r == TrackEndFailed
}

// TrackEnqueuedEvent is published when a track is added to the queue.
type TrackEnqueuedEvent struct {
	GuildID snowflake.ID
	Track   *Track
	WasIdle bool // true if nothing was playing when this was enqueued
}

// PlaybackStartedEvent is published when a track starts playing.
type PlaybackStartedEvent struct {
	GuildID               snowflake.ID
	Track                 *Track
	NotificationChannelID snowflake.ID
}

// PlaybackFinishedEvent is published when the live status message should be
// removed (queue drained, player destroyed, or message superseded).
type PlaybackFinishedEvent struct {
	GuildID               snowflake.ID
	NotificationChannelID snowflake.ID
	LastMessageID         *snowflake.ID // status message to delete
	Drained               bool          // the queue ran out, rather than being stopped
}

// TrackFailedEvent is published when a track is dropped because its
// resource failed to load or play.
type TrackFailedEvent struct {
	GuildID               snowflake.ID
	Track                 *Track
	NotificationChannelID snowflake.ID
}

// TrackEndedEvent is published by the audio sink when a track ends. The
// track ID names which playback ended: the bus is asynchronous, so by the
// time the event is handled a different track may already be current.
type TrackEndedEvent struct {
	GuildID snowflake.ID
	TrackID TrackID
	Reason  TrackEndReason
}

// PlayerDestroyedEvent is published when a guild's player is fully torn down.
type PlayerDestroyedEvent struct {
	GuildID snowflake.ID
}
