package infrastructure

import (
	"sync"

	"github.com/telinha/telinha/internal/modules/media_browser/domain"
)

// InMemorySessionRepository stores browse sessions in memory. Sessions
// are short-lived and owned by a single process, so nothing persists.
type InMemorySessionRepository struct {
	mu       sync.RWMutex
	sessions map[string]*domain.BrowseSession
}

// NewInMemorySessionRepository creates an empty repository.
func NewInMemorySessionRepository() *InMemorySessionRepository {
	return &InMemorySessionRepository{
		sessions: make(map[string]*domain.BrowseSession),
	}
}

// Get returns nil if no session with the given ID exists.
func (r *InMemorySessionRepository) Get(id string) (*domain.BrowseSession, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sessions[id], nil
}

func (r *InMemorySessionRepository) Save(session *domain.BrowseSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[session.ID()] = session
	return nil
}

func (r *InMemorySessionRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
	return nil
}

// All returns every stored session, in no particular order.
func (r *InMemorySessionRepository) All() ([]*domain.BrowseSession, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	all := make([]*domain.BrowseSession, 0, len(r.sessions))
	for _, s := range r.sessions {
		all = append(all, s)
	}
	return all, nil
}
