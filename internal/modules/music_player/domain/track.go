package domain

import (
	"strconv"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/google/uuid"
)

// TrackID is a unique identifier for a track in a queue.
type TrackID string

// Track represents one playable media item: metadata plus either a remote
// stream URL, a locally materialized file, or both. When Media is set, the
// playback state machine is the exclusive owner of that file and must
// release it exactly once when the track leaves the queue without being
// loop-retained.
type Track struct {
	ID            TrackID
	Title         string
	Artist        string
	Duration      time.Duration
	SourceURL     string
	ThumbnailURL  string
	RequesterID   snowflake.ID
	RequesterName string
	EnqueuedAt    time.Time

	// Media is nil for tracks played by direct streaming.
	Media *MediaFile
}

// NewTrack creates a new Track with a generated ID.
func NewTrack(
	title string,
	artist string,
	duration time.Duration,
	sourceURL string,
	thumbnailURL string,
	requesterID snowflake.ID,
	requesterName string,
	media *MediaFile,
) *Track {
	return &Track{
		ID:            TrackID(uuid.NewString()),
		Title:         title,
		Artist:        artist,
		Duration:      duration,
		SourceURL:     sourceURL,
		ThumbnailURL:  thumbnailURL,
		RequesterID:   requesterID,
		RequesterName: requesterName,
		EnqueuedAt:    time.Now().UTC(),
		Media:         media,
	}
}

// HasLocalMedia returns true if the track owns a live local file.
func (t *Track) HasLocalMedia() bool {
	return t.Media != nil && !t.Media.Released()
}

// ReleaseMedia releases the track's local file, if any. Safe to call on
// stream-only tracks and on tracks whose file was already released.
func (t *Track) ReleaseMedia() error {
	if t.Media == nil {
		return nil
	}
	if err := t.Media.Release(); err != nil && err != ErrAlreadyReleased {
		return err
	}
	return nil
}

// FormattedDuration returns the duration as a human-readable string (mm:ss or hh:mm:ss).
func (t *Track) FormattedDuration() string {
	totalSeconds := int(t.Duration.Seconds())
	hours := totalSeconds / 3600
	minutes := (totalSeconds % 3600) / 60
	seconds := totalSeconds % 60

	if hours > 0 {
		return pad(hours) + ":" + pad(minutes) + ":" + pad(seconds)
	}
	return pad(minutes) + ":" + pad(seconds)
}

func pad(n int) string {
	if n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}
