package ports

import (
	"context"

	"github.com/telinha/telinha/internal/modules/media_browser/domain"
)

// SearchRequest identifies one page of a catalog search. For genre
// discovery Query is empty and GenreID is set; for title search the
// reverse holds.
type SearchRequest struct {
	Kind    domain.ItemKind
	Search  domain.SearchKind
	Query   string
	GenreID int
	Page    int
}

// PageResult is one page of results as reported by the remote catalog.
type PageResult struct {
	Items      []domain.Item
	Page       int
	TotalPages int
}

// SearchClient fetches catalog pages from the remote search API.
type SearchClient interface {
	SearchPage(ctx context.Context, req SearchRequest) (*PageResult, error)
}

// Genre is one selectable genre of the remote catalog.
type Genre struct {
	ID   int
	Name string
}

// DetailProvider answers per-item and per-kind lookups beyond paging.
type DetailProvider interface {
	// WatchProviders returns a human-readable summary of where the item
	// can be watched, or an empty string if the remote lists none.
	WatchProviders(ctx context.Context, kind domain.ItemKind, id int) (string, error)
	// Genres lists the selectable genres for movie or series discovery.
	Genres(ctx context.Context, kind domain.ItemKind) ([]Genre, error)
}
