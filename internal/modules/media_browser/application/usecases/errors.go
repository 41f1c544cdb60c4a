package usecases

import "errors"

var (
	// ErrNoResults means a fetch returned zero items.
	ErrNoResults = errors.New("no results")
	// ErrInvalidPage means a jump target was outside 1..totalPages.
	ErrInvalidPage = errors.New("invalid page")
	// ErrNotOwner means someone other than the session owner sent a
	// control event.
	ErrNotOwner = errors.New("not the session owner")
	// ErrSessionClosed means the session already terminated.
	ErrSessionClosed = errors.New("session closed")
	// ErrSessionNotFound means no session with the given ID exists.
	ErrSessionNotFound = errors.New("session not found")
	// ErrBusy means a fetch for the session is still in flight.
	ErrBusy = errors.New("session busy")
	// ErrFetchFailed means the remote catalog could not be reached.
	ErrFetchFailed = errors.New("fetch failed")
)
