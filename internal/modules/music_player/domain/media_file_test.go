package domain

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTempMedia(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "track.mp3")
	if err := os.WriteFile(path, []byte("audio"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestMediaFile_ReleaseDeletesExactlyOnce(t *testing.T) {
	path := writeTempMedia(t)
	f := NewMediaFile(path)

	if err := f.Release(); err != nil {
		t.Fatalf("Release() error = %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("file still exists after Release")
	}
	if !f.Released() {
		t.Error("Released() = false after Release")
	}

	// Second release must be a no-op, not an unlink attempt.
	if err := f.Release(); err != ErrAlreadyReleased {
		t.Errorf("second Release() error = %v, want ErrAlreadyReleased", err)
	}
}

func TestMediaFile_ReleaseMissingFile(t *testing.T) {
	f := NewMediaFile(filepath.Join(t.TempDir(), "gone.mp3"))

	if err := f.Release(); err != nil {
		t.Errorf("Release() on missing file error = %v, want nil", err)
	}
	if !f.Released() {
		t.Error("Released() = false after Release of missing file")
	}
}

func TestMediaFile_PathAfterRelease(t *testing.T) {
	path := writeTempMedia(t)
	f := NewMediaFile(path)

	if got := f.Path(); got != path {
		t.Errorf("Path() = %q, want %q", got, path)
	}
	_ = f.Release()
	if got := f.Path(); got != "" {
		t.Errorf("Path() after Release = %q, want empty", got)
	}
}

func TestTrack_ReleaseMedia(t *testing.T) {
	t.Run("stream-only track", func(t *testing.T) {
		track := testTrack("stream")
		if err := track.ReleaseMedia(); err != nil {
			t.Errorf("ReleaseMedia() on stream track error = %v", err)
		}
		if track.HasLocalMedia() {
			t.Error("HasLocalMedia() = true for stream-only track")
		}
	})

	t.Run("downloaded track", func(t *testing.T) {
		path := writeTempMedia(t)
		track := testTrack("local")
		track.Media = NewMediaFile(path)

		if !track.HasLocalMedia() {
			t.Fatal("HasLocalMedia() = false for downloaded track")
		}
		if err := track.ReleaseMedia(); err != nil {
			t.Fatalf("ReleaseMedia() error = %v", err)
		}
		if track.HasLocalMedia() {
			t.Error("HasLocalMedia() = true after release")
		}
		// Releasing again must not error.
		if err := track.ReleaseMedia(); err != nil {
			t.Errorf("second ReleaseMedia() error = %v", err)
		}
	})
}
