package infrastructure

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/time/rate"

	"github.com/telinha/telinha/internal/modules/media_browser/application/ports"
	"github.com/telinha/telinha/internal/modules/media_browser/domain"
)

const (
	defaultBaseURL = "https://api.themoviedb.org/3"
	posterBaseURL  = "https://image.tmdb.org/t/p/w500"

	pageCacheSize  = 256
	genreCacheSize = 4

	// TMDB allows around 50 requests per second; stay under it.
	requestsPerSecond = 40
)

// TMDBClient talks to The Movie Database API v4-token endpoints. It
// implements both the search and detail ports, rate-limits outbound
// requests, and caches pages and genre lists in memory.
type TMDBClient struct {
	httpClient *http.Client
	baseURL    string
	token      string
	language   string
	region     string
	limiter    *rate.Limiter

	pageCache  *lru.Cache[string, *ports.PageResult]
	genreCache *lru.Cache[domain.ItemKind, []ports.Genre]
}

// TMDBOption customizes a TMDBClient.
type TMDBOption func(*TMDBClient)

// WithBaseURL overrides the API base URL. Used by tests.
func WithBaseURL(baseURL string) TMDBOption {
	return func(c *TMDBClient) {
		c.baseURL = strings.TrimSuffix(baseURL, "/")
	}
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(client *http.Client) TMDBOption {
	return func(c *TMDBClient) {
		c.httpClient = client
	}
}

// NewTMDBClient creates a TMDBClient authenticated with the given API
// read access token.
func NewTMDBClient(token, language, region string, opts ...TMDBOption) (*TMDBClient, error) {
	pageCache, err := lru.New[string, *ports.PageResult](pageCacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create page cache: %w", err)
	}
	genreCache, err := lru.New[domain.ItemKind, []ports.Genre](genreCacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create genre cache: %w", err)
	}

	c := &TMDBClient{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    defaultBaseURL,
		token:      token,
		language:   language,
		region:     region,
		limiter:    rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond),
		pageCache:  pageCache,
		genreCache: genreCache,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

type tmdbResult struct {
	ID           int     `json:"id"`
	Title        string  `json:"title"`
	Name         string  `json:"name"`
	Overview     string  `json:"overview"`
	ReleaseDate  string  `json:"release_date"`
	FirstAirDate string  `json:"first_air_date"`
	PosterPath   string  `json:"poster_path"`
	ProfilePath  string  `json:"profile_path"`
	VoteAverage  float64 `json:"vote_average"`
	VoteCount    int     `json:"vote_count"`
	KnownFor     []struct {
		Title string `json:"title"`
		Name  string `json:"name"`
	} `json:"known_for"`
}

type tmdbPage struct {
	Page       int          `json:"page"`
	Results    []tmdbResult `json:"results"`
	TotalPages int          `json:"total_pages"`
}

// SearchPage fetches one page of title search or genre discovery
// results. Identical requests within the cache window are served from
// memory.
func (c *TMDBClient) SearchPage(ctx context.Context, req ports.SearchRequest) (*ports.PageResult, error) {
	cacheKey := fmt.Sprintf("%s|%s|%s|%d|%d", req.Kind, req.Search, req.Query, req.GenreID, req.Page)
	if cached, ok := c.pageCache.Get(cacheKey); ok {
		return cached, nil
	}

	path, query := c.searchEndpoint(req)
	var page tmdbPage
	if err := c.get(ctx, path, query, &page); err != nil {
		return nil, err
	}

	result := &ports.PageResult{
		Items:      make([]domain.Item, 0, len(page.Results)),
		Page:       page.Page,
		TotalPages: page.TotalPages,
	}
	for _, r := range page.Results {
		result.Items = append(result.Items, toItem(req.Kind, r))
	}

	c.pageCache.Add(cacheKey, result)
	return result, nil
}

func (c *TMDBClient) searchEndpoint(req ports.SearchRequest) (string, url.Values) {
	query := url.Values{}
	query.Set("language", c.language)
	query.Set("page", strconv.Itoa(req.Page))

	if req.Search == domain.SearchKindGenre {
		query.Set("with_genres", strconv.Itoa(req.GenreID))
		query.Set("sort_by", "popularity.desc")
		if req.Kind == domain.ItemKindSeries {
			return "/discover/tv", query
		}
		return "/discover/movie", query
	}

	query.Set("query", req.Query)
	switch req.Kind {
	case domain.ItemKindSeries:
		return "/search/tv", query
	case domain.ItemKindPerson:
		return "/search/person", query
	default:
		return "/search/movie", query
	}
}

func toItem(kind domain.ItemKind, r tmdbResult) domain.Item {
	item := domain.Item{
		ID:        r.ID,
		Kind:      kind,
		Title:     r.Title,
		Overview:  r.Overview,
		Date:      r.ReleaseDate,
		Rating:    r.VoteAverage,
		VoteCount: r.VoteCount,
	}
	if item.Title == "" {
		item.Title = r.Name
	}
	if item.Date == "" {
		item.Date = r.FirstAirDate
	}
	if r.PosterPath != "" {
		item.PosterURL = posterBaseURL + r.PosterPath
	} else if r.ProfilePath != "" {
		item.PosterURL = posterBaseURL + r.ProfilePath
	}
	for _, credit := range r.KnownFor {
		name := credit.Title
		if name == "" {
			name = credit.Name
		}
		if name != "" {
			item.KnownFor = append(item.KnownFor, name)
		}
	}
	return item
}

type tmdbProviderEntry struct {
	ProviderName string `json:"provider_name"`
}

type tmdbProviderRegion struct {
	Link     string              `json:"link"`
	Flatrate []tmdbProviderEntry `json:"flatrate"`
	Rent     []tmdbProviderEntry `json:"rent"`
	Buy      []tmdbProviderEntry `json:"buy"`
}

type tmdbProviders struct {
	Results map[string]tmdbProviderRegion `json:"results"`
}

// WatchProviders returns a summary of where an item streams in the
// client's region. Returns an empty string if the remote lists nothing.
func (c *TMDBClient) WatchProviders(ctx context.Context, kind domain.ItemKind, id int) (string, error) {
	if kind == domain.ItemKindPerson {
		return "", nil
	}

	path := fmt.Sprintf("/movie/%d/watch/providers", id)
	if kind == domain.ItemKindSeries {
		path = fmt.Sprintf("/tv/%d/watch/providers", id)
	}

	var providers tmdbProviders
	if err := c.get(ctx, path, url.Values{}, &providers); err != nil {
		return "", err
	}

	region, ok := providers.Results[c.region]
	if !ok {
		return "", nil
	}

	var lines []string
	if names := providerNames(region.Flatrate); names != "" {
		lines = append(lines, "Stream: "+names)
	}
	if names := providerNames(region.Rent); names != "" {
		lines = append(lines, "Rent: "+names)
	}
	if names := providerNames(region.Buy); names != "" {
		lines = append(lines, "Buy: "+names)
	}
	return strings.Join(lines, "\n"), nil
}

func providerNames(entries []tmdbProviderEntry) string {
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.ProviderName)
	}
	return strings.Join(names, ", ")
}

type tmdbGenreList struct {
	Genres []struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	} `json:"genres"`
}

// Genres lists the selectable genres for movie or series discovery. The
// list is cached after the first fetch.
func (c *TMDBClient) Genres(ctx context.Context, kind domain.ItemKind) ([]ports.Genre, error) {
	if cached, ok := c.genreCache.Get(kind); ok {
		return cached, nil
	}

	path := "/genre/movie/list"
	if kind == domain.ItemKindSeries {
		path = "/genre/tv/list"
	}

	query := url.Values{}
	query.Set("language", c.language)

	var list tmdbGenreList
	if err := c.get(ctx, path, query, &list); err != nil {
		return nil, err
	}

	genres := make([]ports.Genre, 0, len(list.Genres))
	for _, g := range list.Genres {
		genres = append(genres, ports.Genre{ID: g.ID, Name: g.Name})
	}
	c.genreCache.Add(kind, genres)
	return genres, nil
}

func (c *TMDBClient) get(ctx context.Context, path string, query url.Values, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d from %s", resp.StatusCode, path)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", path, err)
	}
	return nil
}
