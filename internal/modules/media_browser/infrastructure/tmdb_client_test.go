package infrastructure

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/telinha/telinha/internal/modules/media_browser/application/ports"
	"github.com/telinha/telinha/internal/modules/media_browser/domain"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*TMDBClient, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewTMDBClient("test-token", "en-US", "US", WithBaseURL(server.URL))
	if err != nil {
		t.Fatalf("NewTMDBClient: %v", err)
	}
	return client, server
}

func TestSearchPage_TitleSearch(t *testing.T) {
	var gotPath, gotAuth, gotQuery string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotQuery = r.URL.Query().Get("query")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"page": 1,
			"total_pages": 3,
			"results": [
				{"id": 438631, "title": "Dune", "overview": "A noble family.", "release_date": "2021-09-15", "poster_path": "/dune.jpg", "vote_average": 7.8, "vote_count": 11000}
			]
		}`))
	})

	result, err := client.SearchPage(context.Background(), ports.SearchRequest{
		Kind:   domain.ItemKindMovie,
		Search: domain.SearchKindTitle,
		Query:  "Dune",
		Page:   1,
	})
	if err != nil {
		t.Fatalf("SearchPage: %v", err)
	}

	if gotPath != "/search/movie" {
		t.Errorf("path = %q, want /search/movie", gotPath)
	}
	if gotAuth != "Bearer test-token" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if gotQuery != "Dune" {
		t.Errorf("query = %q, want Dune", gotQuery)
	}
	if result.TotalPages != 3 || len(result.Items) != 1 {
		t.Fatalf("result = %d items, %d pages, want 1 item, 3 pages", len(result.Items), result.TotalPages)
	}
	item := result.Items[0]
	if item.Title != "Dune" || item.Date != "2021-09-15" {
		t.Errorf("item = %+v", item)
	}
	if !strings.HasSuffix(item.PosterURL, "/dune.jpg") || !strings.HasPrefix(item.PosterURL, "https://image.tmdb.org") {
		t.Errorf("PosterURL = %q", item.PosterURL)
	}
}

func TestSearchPage_SeriesUsesNameAndFirstAirDate(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search/tv" {
			t.Errorf("path = %q, want /search/tv", r.URL.Path)
		}
		w.Write([]byte(`{"page": 1, "total_pages": 1, "results": [{"id": 1, "name": "Severance", "first_air_date": "2022-02-18"}]}`))
	})

	result, err := client.SearchPage(context.Background(), ports.SearchRequest{
		Kind:   domain.ItemKindSeries,
		Search: domain.SearchKindTitle,
		Query:  "Severance",
		Page:   1,
	})
	if err != nil {
		t.Fatalf("SearchPage: %v", err)
	}
	if result.Items[0].Title != "Severance" || result.Items[0].Date != "2022-02-18" {
		t.Errorf("item = %+v", result.Items[0])
	}
}

func TestSearchPage_GenreDiscovery(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/discover/movie" {
			t.Errorf("path = %q, want /discover/movie", r.URL.Path)
		}
		if got := r.URL.Query().Get("with_genres"); got != "27" {
			t.Errorf("with_genres = %q, want 27", got)
		}
		if got := r.URL.Query().Get("sort_by"); got != "popularity.desc" {
			t.Errorf("sort_by = %q", got)
		}
		w.Write([]byte(`{"page": 2, "total_pages": 10, "results": [{"id": 7, "title": "Horror Movie"}]}`))
	})

	result, err := client.SearchPage(context.Background(), ports.SearchRequest{
		Kind:    domain.ItemKindMovie,
		Search:  domain.SearchKindGenre,
		GenreID: 27,
		Page:    2,
	})
	if err != nil {
		t.Fatalf("SearchPage: %v", err)
	}
	if result.Page != 2 || result.TotalPages != 10 {
		t.Errorf("result pages = %d/%d", result.Page, result.TotalPages)
	}
}

func TestSearchPage_PersonKnownFor(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search/person" {
			t.Errorf("path = %q, want /search/person", r.URL.Path)
		}
		w.Write([]byte(`{"page": 1, "total_pages": 1, "results": [
			{"id": 5, "name": "Denis Villeneuve", "profile_path": "/dv.jpg", "known_for": [{"title": "Dune"}, {"name": "Arrival"}]}
		]}`))
	})

	result, err := client.SearchPage(context.Background(), ports.SearchRequest{
		Kind:   domain.ItemKindPerson,
		Search: domain.SearchKindTitle,
		Query:  "villeneuve",
		Page:   1,
	})
	if err != nil {
		t.Fatalf("SearchPage: %v", err)
	}
	item := result.Items[0]
	if item.Title != "Denis Villeneuve" {
		t.Errorf("Title = %q", item.Title)
	}
	if len(item.KnownFor) != 2 || item.KnownFor[0] != "Dune" || item.KnownFor[1] != "Arrival" {
		t.Errorf("KnownFor = %v", item.KnownFor)
	}
}

func TestSearchPage_CachesIdenticalRequests(t *testing.T) {
	calls := 0
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(`{"page": 1, "total_pages": 1, "results": [{"id": 1, "title": "Dune"}]}`))
	})

	req := ports.SearchRequest{Kind: domain.ItemKindMovie, Search: domain.SearchKindTitle, Query: "Dune", Page: 1}
	for range 3 {
		if _, err := client.SearchPage(context.Background(), req); err != nil {
			t.Fatalf("SearchPage: %v", err)
		}
	}
	if calls != 1 {
		t.Errorf("remote called %d times, want 1", calls)
	}

	// A different page misses the cache.
	req.Page = 2
	if _, err := client.SearchPage(context.Background(), req); err != nil {
		t.Fatalf("SearchPage: %v", err)
	}
	if calls != 2 {
		t.Errorf("remote called %d times, want 2", calls)
	}
}

func TestSearchPage_ErrorStatus(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := client.SearchPage(context.Background(), ports.SearchRequest{
		Kind: domain.ItemKindMovie, Search: domain.SearchKindTitle, Query: "Dune", Page: 1,
	})
	if err == nil {
		t.Fatal("expected error for non-200 status")
	}
}

func TestWatchProviders_SummarizesRegion(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/movie/438631/watch/providers" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.Write([]byte(`{"results": {"US": {
			"flatrate": [{"provider_name": "MaxFlix"}],
			"rent": [{"provider_name": "RentCo"}, {"provider_name": "OtherRent"}]
		}}}`))
	})

	summary, err := client.WatchProviders(context.Background(), domain.ItemKindMovie, 438631)
	if err != nil {
		t.Fatalf("WatchProviders: %v", err)
	}
	if !strings.Contains(summary, "Stream: MaxFlix") {
		t.Errorf("summary = %q, missing stream line", summary)
	}
	if !strings.Contains(summary, "Rent: RentCo, OtherRent") {
		t.Errorf("summary = %q, missing rent line", summary)
	}
}

func TestWatchProviders_EmptyForUnknownRegion(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results": {"BR": {"flatrate": [{"provider_name": "Somewhere"}]}}}`))
	})

	summary, err := client.WatchProviders(context.Background(), domain.ItemKindMovie, 1)
	if err != nil {
		t.Fatalf("WatchProviders: %v", err)
	}
	if summary != "" {
		t.Errorf("summary = %q, want empty", summary)
	}
}

func TestGenres_CachesPerKind(t *testing.T) {
	calls := map[string]int{}
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls[r.URL.Path]++
		w.Write([]byte(`{"genres": [{"id": 28, "name": "Action"}, {"id": 27, "name": "Horror"}]}`))
	})

	for range 2 {
		genres, err := client.Genres(context.Background(), domain.ItemKindMovie)
		if err != nil {
			t.Fatalf("Genres: %v", err)
		}
		if len(genres) != 2 || genres[0].Name != "Action" {
			t.Errorf("genres = %v", genres)
		}
	}
	if calls["/genre/movie/list"] != 1 {
		t.Errorf("movie genre list fetched %d times, want 1", calls["/genre/movie/list"])
	}

	if _, err := client.Genres(context.Background(), domain.ItemKindSeries); err != nil {
		t.Fatalf("Genres: %v", err)
	}
	if calls["/genre/tv/list"] != 1 {
		t.Errorf("tv genre list fetched %d times, want 1", calls["/genre/tv/list"])
	}
}
