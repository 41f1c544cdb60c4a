package infrastructure

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/lrstanley/go-ytdlp"
	"github.com/ppalone/ytsearch"
	"github.com/telinha/telinha/internal/modules/music_player/application/ports"
)

// spotifyOEmbedEndpoint resolves Spotify links to track metadata without
// API credentials.
const spotifyOEmbedEndpoint = "https://open.spotify.com/oembed?url="

// ErrNoSearchResults is returned when a search query matches nothing.
var ErrNoSearchResults = errors.New("no search results")

// YtdlpResolver resolves queries into playable media via yt-dlp. Short
// tracks are downloaded into the cache directory so playback does not
// depend on the network; tracks longer than the download threshold play
// from a direct stream URL instead.
type YtdlpResolver struct {
	cacheDir          string
	downloadThreshold time.Duration
	httpClient        *http.Client
	search            *ytsearch.Client
}

// NewYtdlpResolver creates a new YtdlpResolver.
func NewYtdlpResolver(cacheDir string, downloadThreshold time.Duration) *YtdlpResolver {
	return &YtdlpResolver{
		cacheDir:          cacheDir,
		downloadThreshold: downloadThreshold,
		httpClient:        &http.Client{Timeout: 10 * time.Second},
		search:            ytsearch.NewClient(nil),
	}
}

// Resolve turns a free-form query into playable media. Spotify links are
// translated to a search via the public oEmbed endpoint; bare search
// terms go through YouTube search; anything else is handed to yt-dlp
// directly.
func (r *YtdlpResolver) Resolve(ctx context.Context, query string) (*ports.ResolvedMedia, error) {
	query = strings.TrimSpace(query)

	target := query
	if isSpotifyURL(query) {
		searchQuery, err := r.spotifySearchQuery(ctx, query)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve spotify link: %w", err)
		}
		target = searchQuery
	}

	if !isURL(target) {
		videoURL, err := r.searchVideo(ctx, target)
		if err != nil {
			return nil, err
		}
		target = videoURL
	}

	meta, err := r.extractMetadata(ctx, target)
	if err != nil {
		return nil, fmt.Errorf("failed to extract metadata: %w", err)
	}

	media := &ports.ResolvedMedia{
		Title:        meta.title,
		Artist:       meta.uploader,
		Duration:     meta.duration,
		SourceURL:    target,
		ThumbnailURL: meta.thumbnail,
	}

	// Long tracks and live streams play straight off the source URL.
	if meta.duration == 0 || meta.duration > r.downloadThreshold {
		media.StreamURL = meta.mediaURL
		return media, nil
	}

	localPath, err := r.download(ctx, target)
	if err != nil {
		slog.Warn("download failed, falling back to streaming",
			"url", target, "error", err)
		media.StreamURL = meta.mediaURL
		return media, nil
	}
	media.LocalPath = localPath

	return media, nil
}

// searchVideo returns the URL of the top YouTube result for the query.
func (r *YtdlpResolver) searchVideo(ctx context.Context, query string) (string, error) {
	results, err := r.search.Search(ctx, query)
	if err != nil {
		return "", fmt.Errorf("search failed: %w", err)
	}
	for _, result := range results.Results {
		if result.VideoID != "" {
			return "https://www.youtube.com/watch?v=" + result.VideoID, nil
		}
	}
	return "", ErrNoSearchResults
}

// spotifySearchQuery fetches track metadata from Spotify's oEmbed
// endpoint and builds an equivalent search query from it.
func (r *YtdlpResolver) spotifySearchQuery(ctx context.Context, spotifyURL string) (string, error) {
	req, err := http.NewRequestWithContext(
		ctx, http.MethodGet, spotifyOEmbedEndpoint+url.QueryEscape(spotifyURL), nil,
	)
	if err != nil {
		return "", err
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("oembed returned status %d", resp.StatusCode)
	}

	var payload struct {
		Title string `json:"title"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", err
	}
	if payload.Title == "" {
		return "", errors.New("oembed response missing title")
	}
	return payload.Title, nil
}

type ytdlpMetadata struct {
	mediaURL  string
	title     string
	uploader  string
	duration  time.Duration
	thumbnail string
}

// extractMetadata runs yt-dlp without downloading to read the track's
// metadata and direct media URL.
func (r *YtdlpResolver) extractMetadata(ctx context.Context, target string) (*ytdlpMetadata, error) {
	result, err := ytdlp.New().
		Quiet().
		NoWarnings().
		IgnoreConfig().
		NoPlaylist().
		Format("bestaudio/best").
		Print("%(url)s\t%(title)s\t%(uploader)s\t%(duration)s\t%(thumbnail)s").
		SkipDownload().
		Run(ctx, target)
	if err != nil {
		return nil, err
	}

	for _, line := range strings.Split(strings.TrimSpace(result.Stdout), "\n") {
		parts := strings.Split(line, "\t")
		if len(parts) < 5 {
			continue
		}
		duration, _ := time.ParseDuration(parts[3] + "s")
		meta := &ytdlpMetadata{
			mediaURL: parts[0],
			title:    parts[1],
			uploader: parts[2],
			duration: duration,
		}
		if parts[4] != "NA" {
			meta.thumbnail = parts[4]
		}
		if meta.uploader == "NA" {
			meta.uploader = ""
		}
		return meta, nil
	}
	return nil, errors.New("failed to parse yt-dlp output")
}

// download fetches the track's audio into the cache directory and returns
// the path of the downloaded file.
func (r *YtdlpResolver) download(ctx context.Context, target string) (string, error) {
	result, err := ytdlp.New().
		Quiet().
		NoWarnings().
		IgnoreConfig().
		NoPlaylist().
		Format("bestaudio/best").
		Output(filepath.Join(r.cacheDir, "%(id)s-%(epoch)s.%(ext)s")).
		Print("after_move:filepath").
		NoSimulate().
		Run(ctx, target)
	if err != nil {
		return "", err
	}

	path := strings.TrimSpace(result.Stdout)
	if path == "" {
		return "", errors.New("yt-dlp did not report the downloaded file path")
	}
	if idx := strings.LastIndex(path, "\n"); idx != -1 {
		path = strings.TrimSpace(path[idx+1:])
	}
	return path, nil
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

func isSpotifyURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return strings.HasSuffix(u.Hostname(), "open.spotify.com")
}

// Ensure YtdlpResolver implements ports.MediaResolver.
var _ ports.MediaResolver = (*YtdlpResolver)(nil)
