package music_player

import "time"

// Config holds the music player module configuration.
type Config struct {
	// MediaCacheDir is where downloaded media files live. The directory
	// is created at startup and swept of leftovers from previous runs.
	MediaCacheDir string `env:"MUSIC_MEDIA_CACHE_DIR" envDefault:"./media_cache"`

	// StatusDBPath is the SQLite file persisting now-playing message
	// locations across restarts.
	StatusDBPath string `env:"MUSIC_STATUS_DB_PATH" envDefault:"./playback_status.db"`

	// DownloadThreshold is the longest track that gets downloaded before
	// playback; anything longer streams directly.
	DownloadThreshold time.Duration `env:"MUSIC_DOWNLOAD_THRESHOLD" envDefault:"15m"`
}
