package ports

import (
	"context"
	"time"

	"github.com/disgoorg/snowflake/v2"
)

// NowPlayingInfo carries everything the notifier needs to render a
// now-playing status message.
type NowPlayingInfo struct {
	Title         string
	Artist        string
	Duration      time.Duration
	SourceURL     string
	ThumbnailURL  string
	RequesterName string
	Looping       bool
	Shuffling     bool
	QueueLength   int
}

// Notifier sends and maintains player status messages in text channels.
type Notifier interface {
	// SendNowPlaying posts a new status message and returns its ID.
	SendNowPlaying(ctx context.Context, channelID snowflake.ID, info NowPlayingInfo) (snowflake.ID, error)

	// EditNowPlaying updates an existing status message in place.
	EditNowPlaying(ctx context.Context, channelID, messageID snowflake.ID, info NowPlayingInfo) error

	// DeleteMessage removes a previously sent status message. Deleting a
	// message that no longer exists is not an error.
	DeleteMessage(ctx context.Context, channelID, messageID snowflake.ID) error

	// SendNotice posts a transient informational message.
	SendNotice(ctx context.Context, channelID snowflake.ID, content string) error
}
