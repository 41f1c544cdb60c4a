package ports

import "github.com/telinha/telinha/internal/modules/music_player/domain"

// EventPublisher publishes player lifecycle events to interested handlers.
type EventPublisher interface {
	PublishTrackEnqueued(event domain.TrackEnqueuedEvent) error
	PublishPlaybackStarted(event domain.PlaybackStartedEvent) error
	PublishPlaybackFinished(event domain.PlaybackFinishedEvent) error
	PublishTrackFailed(event domain.TrackFailedEvent) error
	PublishTrackEnded(event domain.TrackEndedEvent) error
	PublishPlayerDestroyed(event domain.PlayerDestroyedEvent) error
}
