package ports

import (
	"context"
	"time"
)

// ResolvedMedia is what a resolver returns for a user query: track
// metadata plus either a local downloaded file or a direct stream URL.
type ResolvedMedia struct {
	Title        string
	Artist       string
	Duration     time.Duration
	SourceURL    string
	ThumbnailURL string

	// LocalPath is non-empty when the media was downloaded to disk.
	// Exactly one of LocalPath and StreamURL is populated.
	LocalPath string
	StreamURL string
}

// MediaResolver turns a free-form query (search terms or a URL) into
// playable media. Resolution may download files and is expected to be
// slow; callers must not hold player locks while resolving.
type MediaResolver interface {
	Resolve(ctx context.Context, query string) (*ResolvedMedia, error)
}
