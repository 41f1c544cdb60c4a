package usecases

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/telinha/telinha/internal/modules/media_browser/application/ports"
	"github.com/telinha/telinha/internal/modules/media_browser/domain"
)

// StartSessionInput contains the input for the StartSession use case.
type StartSessionInput struct {
	OwnerID   snowflake.ID
	ChannelID snowflake.ID
	Query     string
	Kind      domain.ItemKind
	Search    domain.SearchKind
	GenreID   int
}

// StartSessionOutput contains the result of the StartSession use case.
type StartSessionOutput struct {
	SessionID string
	Render    domain.RenderModel
}

// ControlOutput contains the result of one handled control event.
type ControlOutput struct {
	// Render replaces the session message's content. Nil means the
	// message stays as it is.
	Render *domain.RenderModel
	// Notice is delivered privately to the actor.
	Notice string
	// Snapshot is a standalone copy of the current view to post as a
	// regular message. Set only for the publish event.
	Snapshot *domain.RenderModel
}

// ExpiredSession names a session the janitor closed, with the terminal
// render to apply to its message.
type ExpiredSession struct {
	ChannelID snowflake.ID
	MessageID snowflake.ID
	Render    domain.RenderModel
}

// sessionGuard serializes control handling for one session. busy is set
// for the duration of a remote fetch; gen increments whenever the loaded
// page or lifecycle changes, so a fetch that raced a close can tell its
// result is stale.
type sessionGuard struct {
	busy bool
	gen  uint64
}

// BrowseService runs the paginated browse engine: it owns session
// lifecycle, fetches catalog pages through the search client, and turns
// control events into renders. Control events for one session never
// interleave; an event arriving mid-fetch is rejected as busy.
type BrowseService struct {
	repo    domain.SessionRepository
	search  ports.SearchClient
	details ports.DetailProvider
	logger  *slog.Logger

	mu     sync.Mutex
	guards map[string]*sessionGuard
}

// NewBrowseService creates a BrowseService.
func NewBrowseService(
	repo domain.SessionRepository,
	search ports.SearchClient,
	details ports.DetailProvider,
	logger *slog.Logger,
) *BrowseService {
	return &BrowseService{
		repo:    repo,
		search:  search,
		details: details,
		logger:  logger,
		guards:  make(map[string]*sessionGuard),
	}
}

// StartSession fetches page 1 and creates a session positioned on its
// first item. A fetch yielding zero items returns ErrNoResults and no
// session is created.
func (s *BrowseService) StartSession(ctx context.Context, input StartSessionInput) (*StartSessionOutput, error) {
	result, err := s.search.SearchPage(ctx, ports.SearchRequest{
		Kind:    input.Kind,
		Search:  input.Search,
		Query:   input.Query,
		GenreID: input.GenreID,
		Page:    1,
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "initial page fetch failed",
			slog.String("query", input.Query),
			slog.String("kind", string(input.Kind)),
			slog.Any("error", err))
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	if len(result.Items) == 0 {
		return nil, fmt.Errorf("%w for %q", ErrNoResults, input.Query)
	}

	session := domain.NewBrowseSession(
		input.OwnerID, input.ChannelID,
		input.Query, input.Kind, input.Search, input.GenreID,
		result.Items, result.Page, result.TotalPages,
	)
	if err := s.repo.Save(session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	s.mu.Lock()
	s.guards[session.ID()] = &sessionGuard{}
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "browse session started",
		slog.String("session_id", session.ID()),
		slog.String("query", input.Query),
		slog.String("kind", string(input.Kind)),
		slog.Int("total_pages", session.TotalPages()))

	return &StartSessionOutput{
		SessionID: session.ID(),
		Render:    session.Render(),
	}, nil
}

// AttachMessage records the message a session is rendered in.
func (s *BrowseService) AttachMessage(sessionID string, channelID, messageID snowflake.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.repo.Get(sessionID)
	if err != nil {
		return err
	}
	if session == nil {
		return ErrSessionNotFound
	}
	session.AttachMessage(channelID, messageID)
	return s.repo.Save(session)
}

// HandleControl applies one control event to a session. Only the owner
// may drive the session; anyone else gets ErrNotOwner and the session is
// untouched.
func (s *BrowseService) HandleControl(ctx context.Context, sessionID string, actorID snowflake.ID, event domain.ControlEvent) (*ControlOutput, error) {
	s.mu.Lock()
	session, err := s.repo.Get(sessionID)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	if session == nil {
		s.mu.Unlock()
		return nil, ErrSessionNotFound
	}
	if session.Closed() {
		s.mu.Unlock()
		return nil, ErrSessionClosed
	}
	if actorID != session.OwnerID() {
		s.mu.Unlock()
		return nil, ErrNotOwner
	}
	guard := s.guards[sessionID]
	if guard == nil {
		guard = &sessionGuard{}
		s.guards[sessionID] = guard
	}
	if guard.busy {
		s.mu.Unlock()
		return nil, ErrBusy
	}

	switch ev := event.(type) {
	case domain.NextItem:
		session.MoveItem(1)
		return s.saveAndRenderLocked(session)
	case domain.PrevItem:
		session.MoveItem(-1)
		return s.saveAndRenderLocked(session)
	case domain.NextPage:
		if session.Page() >= session.TotalPages() {
			return s.saveAndRenderLocked(session)
		}
		return s.fetchPage(ctx, session, guard, session.Page()+1)
	case domain.PrevPage:
		if session.Page() <= 1 {
			return s.saveAndRenderLocked(session)
		}
		return s.fetchPage(ctx, session, guard, session.Page()-1)
	case domain.JumpToPage:
		if ev.Page < 1 || ev.Page > session.TotalPages() {
			s.mu.Unlock()
			return nil, fmt.Errorf("%w: %d is not between 1 and %d", ErrInvalidPage, ev.Page, session.TotalPages())
		}
		return s.fetchPage(ctx, session, guard, ev.Page)
	case domain.ShowProviders:
		return s.showProviders(ctx, session, guard)
	case domain.Publish:
		snapshot := session.Render()
		session.Close(domain.ClosePublished)
		guard.gen++
		out, err := s.saveAndRenderLocked(session)
		if err != nil {
			return nil, err
		}
		out.Snapshot = &snapshot
		return out, nil
	case domain.Finish:
		session.Close(domain.CloseUserFinished)
		guard.gen++
		return s.saveAndRenderLocked(session)
	default:
		s.mu.Unlock()
		return nil, fmt.Errorf("unknown control event %T", event)
	}
}

// saveAndRenderLocked persists the session, releases the service lock,
// and returns its current render.
func (s *BrowseService) saveAndRenderLocked(session *domain.BrowseSession) (*ControlOutput, error) {
	defer s.mu.Unlock()
	if err := s.repo.Save(session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}
	render := session.Render()
	return &ControlOutput{Render: &render}, nil
}

// fetchPage retrieves the given page and applies it to the session. The
// session is marked busy for the duration; a result arriving after the
// session changed underneath it is discarded. Called with s.mu held,
// released before the remote call.
func (s *BrowseService) fetchPage(ctx context.Context, session *domain.BrowseSession, guard *sessionGuard, page int) (*ControlOutput, error) {
	guard.busy = true
	gen := guard.gen
	s.mu.Unlock()

	result, fetchErr := s.search.SearchPage(ctx, ports.SearchRequest{
		Kind:    session.Kind(),
		Search:  session.Search(),
		Query:   session.Query(),
		GenreID: session.GenreID(),
		Page:    page,
	})

	s.mu.Lock()
	guard.busy = false
	if guard.gen != gen {
		s.mu.Unlock()
		return nil, ErrSessionClosed
	}
	guard.gen++

	if fetchErr != nil {
		s.logger.Error("page fetch failed",
			slog.String("session_id", session.ID()),
			slog.Int("page", page),
			slog.Any("error", fetchErr))
		session.Close(domain.CloseFetchFailed)
		out, err := s.saveAndRenderLocked(session)
		if err != nil {
			return nil, err
		}
		return out, fmt.Errorf("%w: %v", ErrFetchFailed, fetchErr)
	}
	if len(result.Items) == 0 {
		session.Close(domain.CloseNoResults)
		out, err := s.saveAndRenderLocked(session)
		if err != nil {
			return nil, err
		}
		return out, fmt.Errorf("%w on page %d", ErrNoResults, page)
	}

	session.SetPage(result.Page, result.Items)
	return s.saveAndRenderLocked(session)
}

// showProviders looks up watch providers for the current item and
// delivers the result as a private notice. The session is not mutated.
func (s *BrowseService) showProviders(ctx context.Context, session *domain.BrowseSession, guard *sessionGuard) (*ControlOutput, error) {
	item := session.CurrentItem()
	guard.busy = true
	gen := guard.gen
	s.mu.Unlock()

	providers, fetchErr := s.details.WatchProviders(ctx, item.Kind, item.ID)

	s.mu.Lock()
	guard.busy = false
	if guard.gen != gen {
		s.mu.Unlock()
		return nil, ErrSessionClosed
	}
	s.mu.Unlock()

	if fetchErr != nil {
		s.logger.Error("watch provider lookup failed",
			slog.String("session_id", session.ID()),
			slog.Int("item_id", item.ID),
			slog.Any("error", fetchErr))
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, fetchErr)
	}
	if providers == "" {
		return &ControlOutput{Notice: fmt.Sprintf("No watch providers listed for %s.", item.Title)}, nil
	}
	return &ControlOutput{Notice: fmt.Sprintf("Where to watch %s:\n%s", item.Title, providers)}, nil
}

// Genres lists the selectable genres for the given kind.
func (s *BrowseService) Genres(ctx context.Context, kind domain.ItemKind) ([]ports.Genre, error) {
	genres, err := s.details.Genres(ctx, kind)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	return genres, nil
}

// CloseExpired closes every session past its lifetime and returns the
// terminal renders to apply to their messages. Sessions already closed
// are removed from the repository.
func (s *BrowseService) CloseExpired(ctx context.Context, now time.Time) ([]ExpiredSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sessions, err := s.repo.All()
	if err != nil {
		return nil, err
	}

	var expired []ExpiredSession
	for _, session := range sessions {
		if session.Closed() {
			s.dropLocked(session.ID())
			continue
		}
		if !session.Expired(now) {
			continue
		}
		session.Close(domain.CloseTimedOut)
		if guard := s.guards[session.ID()]; guard != nil {
			guard.gen++
		}
		if session.MessageID() != 0 {
			expired = append(expired, ExpiredSession{
				ChannelID: session.ChannelID(),
				MessageID: session.MessageID(),
				Render:    session.Render(),
			})
		}
		s.dropLocked(session.ID())
		s.logger.InfoContext(ctx, "browse session expired",
			slog.String("session_id", session.ID()),
			slog.String("query", session.Query()))
	}
	return expired, nil
}

// dropLocked removes a session and its guard. Called with s.mu held.
func (s *BrowseService) dropLocked(sessionID string) {
	if err := s.repo.Delete(sessionID); err != nil {
		s.logger.Error("failed to delete session",
			slog.String("session_id", sessionID),
			slog.Any("error", err))
	}
	delete(s.guards, sessionID)
}
