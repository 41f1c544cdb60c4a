package infrastructure

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/telinha/telinha/internal/modules/music_player/application/ports"
	"github.com/telinha/telinha/internal/modules/music_player/domain"
)

// DefaultEventBufferSize is the default buffer size for event channels.
const DefaultEventBufferSize = 100

// ErrBusClosed is returned when publishing to a closed event bus.
var ErrBusClosed = errors.New("event bus is closed")

// ErrBufferFull is returned when an event channel's buffer is full and the
// event had to be dropped.
var ErrBufferFull = errors.New("event buffer full")

// Compile-time checks that ChannelEventBus implements ports interfaces.
var (
	_ ports.EventPublisher  = (*ChannelEventBus)(nil)
	_ ports.EventSubscriber = (*ChannelEventBus)(nil)
)

// ChannelEventBus provides a channel-based event bus for async event
// handling. It implements both EventPublisher and EventSubscriber.
// Publishing never blocks; a full buffer drops the event with an error.
type ChannelEventBus struct {
	trackEnqueued    chan domain.TrackEnqueuedEvent
	playbackStarted  chan domain.PlaybackStartedEvent
	playbackFinished chan domain.PlaybackFinishedEvent
	trackFailed      chan domain.TrackFailedEvent
	trackEnded       chan domain.TrackEndedEvent
	playerDestroyed  chan domain.PlayerDestroyedEvent

	trackEnqueuedHandlers    []func(context.Context, domain.TrackEnqueuedEvent)
	playbackStartedHandlers  []func(context.Context, domain.PlaybackStartedEvent)
	playbackFinishedHandlers []func(context.Context, domain.PlaybackFinishedEvent)
	trackFailedHandlers      []func(context.Context, domain.TrackFailedEvent)
	trackEndedHandlers       []func(context.Context, domain.TrackEndedEvent)
	playerDestroyedHandlers  []func(context.Context, domain.PlayerDestroyedEvent)

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	closed bool
	mu     sync.RWMutex
}

// NewChannelEventBus creates a new ChannelEventBus with the given buffer size.
func NewChannelEventBus(bufferSize int) *ChannelEventBus {
	if bufferSize <= 0 {
		bufferSize = DefaultEventBufferSize
	}

	ctx, cancel := context.WithCancel(context.Background())

	bus := &ChannelEventBus{
		trackEnqueued:    make(chan domain.TrackEnqueuedEvent, bufferSize),
		playbackStarted:  make(chan domain.PlaybackStartedEvent, bufferSize),
		playbackFinished: make(chan domain.PlaybackFinishedEvent, bufferSize),
		trackFailed:      make(chan domain.TrackFailedEvent, bufferSize),
		trackEnded:       make(chan domain.TrackEndedEvent, bufferSize),
		playerDestroyed:  make(chan domain.PlayerDestroyedEvent, bufferSize),
		ctx:              ctx,
		cancel:           cancel,
	}

	bus.startDispatchers()

	return bus
}

// startDispatchers starts goroutines that dispatch events to registered handlers.
func (b *ChannelEventBus) startDispatchers() {
	b.wg.Add(6)

	go b.dispatchTrackEnqueued()
	go b.dispatchPlaybackStarted()
	go b.dispatchPlaybackFinished()
	go b.dispatchTrackFailed()
	go b.dispatchTrackEnded()
	go b.dispatchPlayerDestroyed()
}

func (b *ChannelEventBus) dispatchTrackEnqueued() {
	defer b.wg.Done()
	for {
		select {
		case <-b.ctx.Done():
			return
		case event, ok := <-b.trackEnqueued:
			if !ok {
				return
			}
			b.mu.RLock()
			handlers := b.trackEnqueuedHandlers
			b.mu.RUnlock()
			for _, handler := range handlers {
				handler(b.ctx, event)
			}
		}
	}
}

func (b *ChannelEventBus) dispatchPlaybackStarted() {
	defer b.wg.Done()
	for {
		select {
		case <-b.ctx.Done():
			return
		case event, ok := <-b.playbackStarted:
			if !ok {
				return
			}
			b.mu.RLock()
			handlers := b.playbackStartedHandlers
			b.mu.RUnlock()
			for _, handler := range handlers {
				handler(b.ctx, event)
			}
		}
	}
}

func (b *ChannelEventBus) dispatchPlaybackFinished() {
	defer b.wg.Done()
	for {
		select {
		case <-b.ctx.Done():
			return
		case event, ok := <-b.playbackFinished:
			if !ok {
				return
			}
			b.mu.RLock()
			handlers := b.playbackFinishedHandlers
			b.mu.RUnlock()
			for _, handler := range handlers {
				handler(b.ctx, event)
			}
		}
	}
}

func (b *ChannelEventBus) dispatchTrackFailed() {
	defer b.wg.Done()
	for {
		select {
		case <-b.ctx.Done():
			return
		case event, ok := <-b.trackFailed:
			if !ok {
				return
			}
			b.mu.RLock()
			handlers := b.trackFailedHandlers
			b.mu.RUnlock()
			for _, handler := range handlers {
				handler(b.ctx, event)
			}
		}
	}
}

func (b *ChannelEventBus) dispatchTrackEnded() {
	defer b.wg.Done()
	for {
		select {
		case <-b.ctx.Done():
			return
		case event, ok := <-b.trackEnded:
			if !ok {
				return
			}
			b.mu.RLock()
			handlers := b.trackEndedHandlers
			b.mu.RUnlock()
			for _, handler := range handlers {
				handler(b.ctx, event)
			}
		}
	}
}

func (b *ChannelEventBus) dispatchPlayerDestroyed() {
	defer b.wg.Done()
	for {
		select {
		case <-b.ctx.Done():
			return
		case event, ok := <-b.playerDestroyed:
			if !ok {
				return
			}
			b.mu.RLock()
			handlers := b.playerDestroyedHandlers
			b.mu.RUnlock()
			for _, handler := range handlers {
				handler(b.ctx, event)
			}
		}
	}
}

// --- EventPublisher interface ---

// PublishTrackEnqueued publishes a TrackEnqueuedEvent.
func (b *ChannelEventBus) PublishTrackEnqueued(event domain.TrackEnqueuedEvent) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return ErrBusClosed
	}

	select {
	case b.trackEnqueued <- event:
		slog.Debug("published event", "type", "TrackEnqueued", "guild_id", event.GuildID)
		return nil
	default:
		return ErrBufferFull
	}
}

// PublishPlaybackStarted publishes a PlaybackStartedEvent.
func (b *ChannelEventBus) PublishPlaybackStarted(event domain.PlaybackStartedEvent) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return ErrBusClosed
	}

	select {
	case b.playbackStarted <- event:
		slog.Debug("published event", "type", "PlaybackStarted", "guild_id", event.GuildID)
		return nil
	default:
		return ErrBufferFull
	}
}

// PublishPlaybackFinished publishes a PlaybackFinishedEvent.
func (b *ChannelEventBus) PublishPlaybackFinished(event domain.PlaybackFinishedEvent) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return ErrBusClosed
	}

	select {
	case b.playbackFinished <- event:
		slog.Debug("published event", "type", "PlaybackFinished", "guild_id", event.GuildID)
		return nil
	default:
		return ErrBufferFull
	}
}

// PublishTrackFailed publishes a TrackFailedEvent.
func (b *ChannelEventBus) PublishTrackFailed(event domain.TrackFailedEvent) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return ErrBusClosed
	}

	select {
	case b.trackFailed <- event:
		slog.Debug("published event", "type", "TrackFailed", "guild_id", event.GuildID)
		return nil
	default:
		return ErrBufferFull
	}
}

// PublishTrackEnded publishes a TrackEndedEvent.
func (b *ChannelEventBus) PublishTrackEnded(event domain.TrackEndedEvent) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return ErrBusClosed
	}

	select {
	case b.trackEnded <- event:
		slog.Debug("published event", "type", "TrackEnded", "guild_id", event.GuildID)
		return nil
	default:
		return ErrBufferFull
	}
}

// PublishPlayerDestroyed publishes a PlayerDestroyedEvent.
func (b *ChannelEventBus) PublishPlayerDestroyed(event domain.PlayerDestroyedEvent) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return ErrBusClosed
	}

	select {
	case b.playerDestroyed <- event:
		slog.Debug("published event", "type", "PlayerDestroyed", "guild_id", event.GuildID)
		return nil
	default:
		return ErrBufferFull
	}
}

// --- EventSubscriber interface ---

// OnTrackEnqueued registers a handler for TrackEnqueuedEvent.
func (b *ChannelEventBus) OnTrackEnqueued(
	handler func(context.Context, domain.TrackEnqueuedEvent),
) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.trackEnqueuedHandlers = append(b.trackEnqueuedHandlers, handler)
}

// OnPlaybackStarted registers a handler for PlaybackStartedEvent.
func (b *ChannelEventBus) OnPlaybackStarted(
	handler func(context.Context, domain.PlaybackStartedEvent),
) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.playbackStartedHandlers = append(b.playbackStartedHandlers, handler)
}

// OnPlaybackFinished registers a handler for PlaybackFinishedEvent.
func (b *ChannelEventBus) OnPlaybackFinished(
	handler func(context.Context, domain.PlaybackFinishedEvent),
) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.playbackFinishedHandlers = append(b.playbackFinishedHandlers, handler)
}

// OnTrackFailed registers a handler for TrackFailedEvent.
func (b *ChannelEventBus) OnTrackFailed(handler func(context.Context, domain.TrackFailedEvent)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.trackFailedHandlers = append(b.trackFailedHandlers, handler)
}

// OnTrackEnded registers a handler for TrackEndedEvent.
func (b *ChannelEventBus) OnTrackEnded(handler func(context.Context, domain.TrackEndedEvent)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.trackEndedHandlers = append(b.trackEndedHandlers, handler)
}

// OnPlayerDestroyed registers a handler for PlayerDestroyedEvent.
func (b *ChannelEventBus) OnPlayerDestroyed(
	handler func(context.Context, domain.PlayerDestroyedEvent),
) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.playerDestroyedHandlers = append(b.playerDestroyedHandlers, handler)
}

// Close stops the dispatchers and marks the bus closed. Pending buffered
// events are discarded.
func (b *ChannelEventBus) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	b.mu.Unlock()

	b.cancel()
	b.wg.Wait()
}
