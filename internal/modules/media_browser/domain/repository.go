package domain

// SessionRepository stores active browse sessions. Implementations must be
// safe for concurrent use.
type SessionRepository interface {
	// Get returns nil if no session with the given ID exists.
	Get(id string) (*BrowseSession, error)
	Save(session *BrowseSession) error
	Delete(id string) error
	// All returns every stored session, in no particular order.
	All() ([]*BrowseSession, error)
}
