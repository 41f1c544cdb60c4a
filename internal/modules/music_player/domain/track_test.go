package domain

import (
	"testing"
	"time"
)

func TestTrack_FormattedDuration(t *testing.T) {
	tests := []struct {
		name     string
		duration time.Duration
		want     string
	}{
		{name: "zero", duration: 0, want: "00:00"},
		{name: "seconds only", duration: 42 * time.Second, want: "00:42"},
		{name: "minutes and seconds", duration: 3*time.Minute + 7*time.Second, want: "03:07"},
		{name: "over an hour", duration: time.Hour + 2*time.Minute + 3*time.Second, want: "01:02:03"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			track := testTrack("x")
			track.Duration = tt.duration
			if got := track.FormattedDuration(); got != tt.want {
				t.Errorf("FormattedDuration() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNewTrack_GeneratesUniqueIDs(t *testing.T) {
	a := testTrack("a")
	b := testTrack("b")
	if a.ID == "" || b.ID == "" {
		t.Fatal("NewTrack() produced empty ID")
	}
	if a.ID == b.ID {
		t.Errorf("NewTrack() produced duplicate IDs: %s", a.ID)
	}
}

func TestTrackEndReason_ShouldAdvanceQueue(t *testing.T) {
	tests := []struct {
		reason TrackEndReason
		want   bool
	}{
		{TrackEndFinished, true},
		{TrackEndFailed, true},
		{TrackEndSkipped, false},
		{TrackEndStopped, false},
	}

	for _, tt := range tests {
		if got := tt.reason.ShouldAdvanceQueue(); got != tt.want {
			t.Errorf("ShouldAdvanceQueue(%s) = %v, want %v", tt.reason, got, tt.want)
		}
	}
}
