package domain

// ItemKind is the kind of catalog entry a browse session iterates over.
type ItemKind string

const (
	ItemKindMovie  ItemKind = "movie"
	ItemKindSeries ItemKind = "series"
	ItemKindPerson ItemKind = "person"
)

// SearchKind distinguishes title search from genre-based discovery.
type SearchKind string

const (
	SearchKindTitle SearchKind = "title"
	SearchKindGenre SearchKind = "genre"
)

// Item is one catalog entry as shown inside a browse session. Fields not
// applicable to the item's kind are zero.
type Item struct {
	ID        int
	Kind      ItemKind
	Title     string
	Overview  string
	Date      string // release / first-air date, as reported
	PosterURL string
	Rating    float64
	VoteCount int

	// KnownFor lists a person's notable credits.
	KnownFor []string
}
