package domain

import (
	"math/rand/v2"
)

// Queue is an ordered FIFO queue of pending tracks. The currently playing
// track is not part of the queue; it lives in the PlayerState's current
// slot. Shuffle mode pops a uniformly random element instead of the head.
type Queue struct {
	tracks []*Track
}

// NewQueue creates a new empty Queue.
func NewQueue() Queue {
	return Queue{tracks: make([]*Track, 0)}
}

// Len returns the number of pending tracks.
func (q *Queue) Len() int {
	return len(q.tracks)
}

// IsEmpty returns true if the queue has no pending tracks.
func (q *Queue) IsEmpty() bool {
	return len(q.tracks) == 0
}

// Append adds track(s) to the end of the queue.
func (q *Queue) Append(tracks ...*Track) {
	q.tracks = append(q.tracks, tracks...)
}

// PopFront removes and returns the head of the queue, or nil if empty.
func (q *Queue) PopFront() *Track {
	if len(q.tracks) == 0 {
		return nil
	}
	track := q.tracks[0]
	q.tracks = q.tracks[1:]
	return track
}

// PopRandom removes and returns a uniformly random track, or nil if empty.
func (q *Queue) PopRandom() *Track {
	if len(q.tracks) == 0 {
		return nil
	}
	i := rand.IntN(len(q.tracks))
	track := q.tracks[i]
	q.tracks = append(q.tracks[:i], q.tracks[i+1:]...)
	return track
}

// RemoveByID removes and returns the track with the given ID, or nil if it
// is not queued.
func (q *Queue) RemoveByID(id TrackID) *Track {
	for i, track := range q.tracks {
		if track.ID == id {
			q.tracks = append(q.tracks[:i], q.tracks[i+1:]...)
			return track
		}
	}
	return nil
}

// Upcoming returns up to limit pending tracks in queue order.
func (q *Queue) Upcoming(limit int) []*Track {
	if limit > len(q.tracks) {
		limit = len(q.tracks)
	}
	result := make([]*Track, limit)
	copy(result, q.tracks[:limit])
	return result
}

// List returns a copy of all pending tracks.
func (q *Queue) List() []*Track {
	result := make([]*Track, len(q.tracks))
	copy(result, q.tracks)
	return result
}

// Drain removes all pending tracks and returns them so the caller can
// release their resources.
func (q *Queue) Drain() []*Track {
	drained := q.tracks
	q.tracks = make([]*Track, 0)
	return drained
}
