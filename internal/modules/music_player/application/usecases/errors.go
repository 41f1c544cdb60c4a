package usecases

import "errors"

var (
	// ErrUserNotInVoice is returned when the invoking user is not connected
	// to any voice channel in the guild.
	ErrUserNotInVoice = errors.New("user is not in a voice channel")

	// ErrVoiceJoinFailed is returned when the voice connection could not be
	// established.
	ErrVoiceJoinFailed = errors.New("failed to join voice channel")

	// ErrNotConnected is returned when an operation requires an active
	// player and none exists for the guild.
	ErrNotConnected = errors.New("not connected to a voice channel")

	// ErrNotPlaying is returned when an operation requires a current track
	// and nothing is playing or paused.
	ErrNotPlaying = errors.New("nothing is currently playing")

	// ErrQueueEmpty is returned when an operation requires queued tracks
	// and the queue is empty.
	ErrQueueEmpty = errors.New("the queue is empty")

	// ErrTrackNotFound is returned when the referenced track is not in the
	// queue.
	ErrTrackNotFound = errors.New("track not found in queue")

	// ErrResolveFailed is returned when a query could not be resolved into
	// playable media.
	ErrResolveFailed = errors.New("failed to resolve media")

	// ErrTooManyFailures is returned when playback halts after consecutive
	// resource failures.
	ErrTooManyFailures = errors.New("too many consecutive playback failures")
)
