package domain

import (
	"testing"
	"time"

	"github.com/disgoorg/snowflake/v2"
)

func testTrack(title string) *Track {
	return NewTrack(title, "Artist", 3*time.Minute, "https://example.com/"+title, "", snowflake.ID(1), "tester", nil)
}

func TestQueue_PopFront(t *testing.T) {
	q := NewQueue()
	a := testTrack("a")
	b := testTrack("b")
	q.Append(a, b)

	if got := q.PopFront(); got != a {
		t.Errorf("PopFront() = %v, want track a", got)
	}
	if got := q.PopFront(); got != b {
		t.Errorf("PopFront() = %v, want track b", got)
	}
	if got := q.PopFront(); got != nil {
		t.Errorf("PopFront() on empty queue = %v, want nil", got)
	}
}

func TestQueue_PopRandom(t *testing.T) {
	q := NewQueue()
	tracks := map[TrackID]bool{}
	for range 5 {
		track := testTrack("t")
		tracks[track.ID] = true
		q.Append(track)
	}

	for range 5 {
		popped := q.PopRandom()
		if popped == nil {
			t.Fatal("PopRandom() = nil before queue drained")
		}
		if !tracks[popped.ID] {
			t.Errorf("PopRandom() returned unknown or duplicate track %s", popped.ID)
		}
		delete(tracks, popped.ID)
	}

	if !q.IsEmpty() {
		t.Errorf("queue not empty after popping all tracks, len = %d", q.Len())
	}
	if got := q.PopRandom(); got != nil {
		t.Errorf("PopRandom() on empty queue = %v, want nil", got)
	}
}

func TestQueue_RemoveByID(t *testing.T) {
	q := NewQueue()
	a := testTrack("a")
	b := testTrack("b")
	c := testTrack("c")
	q.Append(a, b, c)

	if got := q.RemoveByID(b.ID); got != b {
		t.Errorf("RemoveByID(b) = %v, want track b", got)
	}
	if q.Len() != 2 {
		t.Errorf("Len() = %d after removal, want 2", q.Len())
	}
	if got := q.RemoveByID(b.ID); got != nil {
		t.Errorf("RemoveByID(b) second call = %v, want nil", got)
	}

	// remaining order preserved
	if got := q.PopFront(); got != a {
		t.Errorf("PopFront() = %v, want track a", got)
	}
	if got := q.PopFront(); got != c {
		t.Errorf("PopFront() = %v, want track c", got)
	}
}

func TestQueue_Upcoming(t *testing.T) {
	tests := []struct {
		name    string
		queued  int
		limit   int
		wantLen int
	}{
		{name: "fewer than limit", queued: 3, limit: 10, wantLen: 3},
		{name: "exactly limit", queued: 10, limit: 10, wantLen: 10},
		{name: "more than limit", queued: 14, limit: 10, wantLen: 10},
		{name: "empty", queued: 0, limit: 10, wantLen: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := NewQueue()
			for range tt.queued {
				q.Append(testTrack("t"))
			}

			got := q.Upcoming(tt.limit)
			if len(got) != tt.wantLen {
				t.Errorf("Upcoming(%d) returned %d tracks, want %d", tt.limit, len(got), tt.wantLen)
			}
			// Upcoming must not consume the queue
			if q.Len() != tt.queued {
				t.Errorf("Len() = %d after Upcoming, want %d", q.Len(), tt.queued)
			}
		})
	}
}

func TestQueue_Drain(t *testing.T) {
	q := NewQueue()
	q.Append(testTrack("a"), testTrack("b"))

	drained := q.Drain()
	if len(drained) != 2 {
		t.Errorf("Drain() returned %d tracks, want 2", len(drained))
	}
	if !q.IsEmpty() {
		t.Errorf("queue not empty after Drain, len = %d", q.Len())
	}
}
