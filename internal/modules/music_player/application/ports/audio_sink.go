package ports

import (
	"context"

	"github.com/disgoorg/snowflake/v2"
	"github.com/telinha/telinha/internal/modules/music_player/domain"
)

// PlaybackSource describes the playable resource for one track: a local
// file path when the media was downloaded, otherwise a remote stream URL.
// TrackID is carried into the track-end event the sink publishes.
type PlaybackSource struct {
	TrackID   domain.TrackID
	LocalPath string
	StreamURL string
}

// AudioSink defines the interface for the voice transport the player
// drives. Implementations own the low-level connection and must publish a
// TrackEndedEvent whenever a playing source ends, for any reason.
type AudioSink interface {
	// Join connects the bot to the given voice channel. The wait is bounded
	// by ctx; a timeout surfaces as an error.
	Join(ctx context.Context, guildID, channelID snowflake.ID) error

	// Leave disconnects the bot from voice for the guild.
	Leave(ctx context.Context, guildID snowflake.ID) error

	// Play starts playback of the given source, replacing any current one.
	Play(ctx context.Context, guildID snowflake.ID, source PlaybackSource) error

	// Pause pauses the current playback.
	Pause(guildID snowflake.ID) error

	// Resume resumes the paused playback.
	Resume(guildID snowflake.ID) error

	// Stop ends the current playback without disconnecting. The resulting
	// track-end event carries TrackEndStopped and does not advance the queue.
	Stop(guildID snowflake.ID) error
}
