package usecases

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/telinha/telinha/internal/modules/media_browser/application/ports"
	"github.com/telinha/telinha/internal/modules/media_browser/domain"
)

func testItems(n int) []domain.Item {
	items := make([]domain.Item, n)
	for i := range items {
		items[i] = domain.Item{ID: i + 1, Kind: domain.ItemKindMovie, Title: "Item"}
	}
	return items
}

type mockRepository struct {
	mu       sync.Mutex
	sessions map[string]*domain.BrowseSession
	saveErr  error
}

func newMockRepository() *mockRepository {
	return &mockRepository{sessions: make(map[string]*domain.BrowseSession)}
}

func (r *mockRepository) Get(id string) (*domain.BrowseSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sessions[id], nil
}

func (r *mockRepository) Save(session *domain.BrowseSession) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[session.ID()] = session
	return nil
}

func (r *mockRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
	return nil
}

func (r *mockRepository) All() ([]*domain.BrowseSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := make([]*domain.BrowseSession, 0, len(r.sessions))
	for _, s := range r.sessions {
		all = append(all, s)
	}
	return all, nil
}

type mockSearchClient struct {
	mu       sync.Mutex
	pages    map[int]*ports.PageResult
	err      error
	requests []ports.SearchRequest
	// blockOn, when non-nil, is closed-waited before returning, to
	// simulate an in-flight fetch.
	blockOn chan struct{}
}

func newMockSearchClient() *mockSearchClient {
	return &mockSearchClient{pages: make(map[int]*ports.PageResult)}
}

func (c *mockSearchClient) setPage(page int, items []domain.Item, totalPages int) {
	c.pages[page] = &ports.PageResult{Items: items, Page: page, TotalPages: totalPages}
}

func (c *mockSearchClient) SearchPage(_ context.Context, req ports.SearchRequest) (*ports.PageResult, error) {
	c.mu.Lock()
	c.requests = append(c.requests, req)
	block := c.blockOn
	c.mu.Unlock()
	if block != nil {
		<-block
	}
	if c.err != nil {
		return nil, c.err
	}
	result, ok := c.pages[req.Page]
	if !ok {
		return &ports.PageResult{Items: nil, Page: req.Page, TotalPages: 1}, nil
	}
	return result, nil
}

type mockDetailProvider struct {
	providers    string
	providersErr error
	genres       []ports.Genre
	genresErr    error
	lookups      []int
}

func (p *mockDetailProvider) WatchProviders(_ context.Context, _ domain.ItemKind, id int) (string, error) {
	p.lookups = append(p.lookups, id)
	return p.providers, p.providersErr
}

func (p *mockDetailProvider) Genres(_ context.Context, _ domain.ItemKind) ([]ports.Genre, error) {
	return p.genres, p.genresErr
}

func newTestService(t *testing.T) (*BrowseService, *mockRepository, *mockSearchClient, *mockDetailProvider) {
	t.Helper()
	repo := newMockRepository()
	search := newMockSearchClient()
	details := &mockDetailProvider{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewBrowseService(repo, search, details, logger), repo, search, details
}

// startDuneSession starts the canonical test session: a title search for
// "Dune" whose first page holds 5 items out of 3 pages.
func startDuneSession(t *testing.T, service *BrowseService, search *mockSearchClient) *StartSessionOutput {
	t.Helper()
	search.setPage(1, testItems(5), 3)
	out, err := service.StartSession(context.Background(), StartSessionInput{
		OwnerID:   100,
		ChannelID: 200,
		Query:     "Dune",
		Kind:      domain.ItemKindMovie,
		Search:    domain.SearchKindTitle,
	})
	if err != nil {
		t.Fatalf("StartSession: %v", err)
	}
	return out
}
