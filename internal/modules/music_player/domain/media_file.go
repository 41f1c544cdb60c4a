package domain

import (
	"errors"
	"os"
	"sync"
)

// ErrAlreadyReleased is returned when Release is called on a spent handle.
var ErrAlreadyReleased = errors.New("media file already released")

// MediaFile is an exclusively owned handle to a locally materialized media
// file. Whoever holds the handle owns the file's lifecycle and must call
// Release exactly once when the track is no longer playable. Release is
// idempotent at the filesystem level: the file is unlinked on the first call
// only.
type MediaFile struct {
	mu       sync.Mutex
	path     string
	released bool
}

// NewMediaFile creates a handle owning the file at path.
func NewMediaFile(path string) *MediaFile {
	return &MediaFile{path: path}
}

// Path returns the file path, or "" if the handle was already released.
func (f *MediaFile) Path() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.released {
		return ""
	}
	return f.path
}

// Release deletes the underlying file. The first call performs the unlink;
// subsequent calls return ErrAlreadyReleased without touching the filesystem.
// A missing file is not an error: the handle is still marked released.
func (f *MediaFile) Release() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.released {
		return ErrAlreadyReleased
	}
	f.released = true

	if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Released reports whether Release has been called.
func (f *MediaFile) Released() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.released
}
