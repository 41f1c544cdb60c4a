package ports

import (
	"context"

	"github.com/telinha/telinha/internal/modules/music_player/domain"
)

// EventSubscriber registers callbacks for player lifecycle events.
// Handlers run on the bus's dispatcher goroutines.
type EventSubscriber interface {
	OnTrackEnqueued(handler func(context.Context, domain.TrackEnqueuedEvent))
	OnPlaybackStarted(handler func(context.Context, domain.PlaybackStartedEvent))
	OnPlaybackFinished(handler func(context.Context, domain.PlaybackFinishedEvent))
	OnTrackFailed(handler func(context.Context, domain.TrackFailedEvent))
	OnTrackEnded(handler func(context.Context, domain.TrackEndedEvent))
	OnPlayerDestroyed(handler func(context.Context, domain.PlayerDestroyedEvent))
}
