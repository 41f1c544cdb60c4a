package domain

import (
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/google/uuid"
)

// SessionTTL is how long a browse session stays alive after creation.
// There is no activity-based extension.
const SessionTTL = 15 * time.Minute

// CloseReason says why a browse session ended.
type CloseReason string

const (
	CloseUserFinished CloseReason = "finished"
	ClosePublished    CloseReason = "published"
	CloseTimedOut     CloseReason = "timed out"
	CloseNoResults    CloseReason = "no results"
	CloseFetchFailed  CloseReason = "fetch failed"
)

// BrowseSession is one user's paginated browsing interaction: the items
// of the currently loaded page plus the cursor within and across pages.
// Only the owner may drive it. All mutation happens under the owning
// service's per-session serialization.
type BrowseSession struct {
	id        string
	ownerID   snowflake.ID
	channelID snowflake.ID
	messageID snowflake.ID

	query   string
	kind    ItemKind
	search  SearchKind
	genreID int

	items      []Item
	itemIndex  int
	page       int
	totalPages int

	createdAt   time.Time
	closed      bool
	closeReason CloseReason
}

// NewBrowseSession creates a session positioned on the first item of the
// given page. A reported page below 1 is clamped to 1.
func NewBrowseSession(
	ownerID, channelID snowflake.ID,
	query string,
	kind ItemKind,
	search SearchKind,
	genreID int,
	items []Item,
	page, totalPages int,
) *BrowseSession {
	if page < 1 {
		page = 1
	}
	if totalPages < 1 {
		totalPages = 1
	}
	return &BrowseSession{
		id:         uuid.NewString(),
		ownerID:    ownerID,
		channelID:  channelID,
		query:      query,
		kind:       kind,
		search:     search,
		genreID:    genreID,
		items:      items,
		page:       page,
		totalPages: totalPages,
		createdAt:  time.Now().UTC(),
	}
}

// ID returns the session's unique identifier.
func (s *BrowseSession) ID() string {
	return s.id
}

// OwnerID returns the only user allowed to drive the session.
func (s *BrowseSession) OwnerID() snowflake.ID {
	return s.ownerID
}

// ChannelID returns the channel the session's message lives in.
func (s *BrowseSession) ChannelID() snowflake.ID {
	return s.channelID
}

// MessageID returns the session's message, or 0 if not yet attached.
func (s *BrowseSession) MessageID() snowflake.ID {
	return s.messageID
}

// AttachMessage records the message rendering this session, so it can be
// edited when the session expires.
func (s *BrowseSession) AttachMessage(channelID, messageID snowflake.ID) {
	s.channelID = channelID
	s.messageID = messageID
}

// Query returns the original search query or genre name.
func (s *BrowseSession) Query() string {
	return s.query
}

// Kind returns the item kind browsed by this session.
func (s *BrowseSession) Kind() ItemKind {
	return s.kind
}

// Search returns the search kind of this session.
func (s *BrowseSession) Search() SearchKind {
	return s.search
}

// GenreID returns the genre filter for discover sessions, 0 otherwise.
func (s *BrowseSession) GenreID() int {
	return s.genreID
}

// CurrentItem returns the item under the cursor, or a zero Item if the
// page holds none.
func (s *BrowseSession) CurrentItem() Item {
	if len(s.items) == 0 {
		return Item{}
	}
	return s.items[s.itemIndex]
}

// ItemIndex returns the zero-based cursor within the current page.
func (s *BrowseSession) ItemIndex() int {
	return s.itemIndex
}

// ItemCount returns the number of items on the current page.
func (s *BrowseSession) ItemCount() int {
	return len(s.items)
}

// Page returns the one-indexed current page.
func (s *BrowseSession) Page() int {
	return s.page
}

// TotalPages returns the page count reported by the remote.
func (s *BrowseSession) TotalPages() int {
	return s.totalPages
}

// MoveItem shifts the cursor by delta, clamped to the page bounds. Moving
// past a bound is a no-op, not an error.
func (s *BrowseSession) MoveItem(delta int) {
	if len(s.items) == 0 {
		return
	}
	next := s.itemIndex + delta
	if next < 0 {
		next = 0
	}
	if next > len(s.items)-1 {
		next = len(s.items) - 1
	}
	s.itemIndex = next
}

// SetPage replaces the loaded page and resets the cursor to its first
// item. A reported page below 1 is clamped to 1.
func (s *BrowseSession) SetPage(page int, items []Item) {
	if page < 1 {
		page = 1
	}
	s.page = page
	s.items = items
	s.itemIndex = 0
}

// CreatedAt returns the session creation time.
func (s *BrowseSession) CreatedAt() time.Time {
	return s.createdAt
}

// Expired reports whether the session's absolute lifetime has elapsed.
func (s *BrowseSession) Expired(now time.Time) bool {
	return now.Sub(s.createdAt) >= SessionTTL
}

// Closed reports whether the session has terminated.
func (s *BrowseSession) Closed() bool {
	return s.closed
}

// CloseReason returns why the session terminated.
func (s *BrowseSession) CloseReason() CloseReason {
	return s.closeReason
}

// Close terminates the session. The first reason wins; closing an
// already closed session is a no-op.
func (s *BrowseSession) Close(reason CloseReason) {
	if s.closed {
		return
	}
	s.closed = true
	s.closeReason = reason
}
