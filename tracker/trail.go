package tracker

import (
	"sync"

	"github.com/swdee/go-trafficcount/geometry"
)

// Track represents a track history
type Track struct {
	points []geometry.Point
	// seen marks if the track was updated in the current frame
	seen bool
}

// Trail is the struct to keep a history of the center points of tracked
// objects used for drawing a trail
type Trail struct {
	// size is the maximum number of most recent points to keep in history
	size int
	// history of tracked points
	history map[uint64]*Track
	sync.Mutex
}

// NewTrail returns a new trail history track instance.  Size is the number
// of most recent points to keep and specifies the maximum length of the trail
// to maintain
func NewTrail(size int) *Trail {
	return &Trail{
		size:    size,
		history: make(map[uint64]*Track),
	}
}

// Reset clears all history
func (t *Trail) Reset() {
	t.Lock()
	defer t.Unlock()

	t.history = make(map[uint64]*Track)
}

// Add the center point of an object's bounding box to its history
func (t *Trail) Add(id uint64, rect geometry.Rect) {
	t.Lock()
	defer t.Unlock()

	// init map if no history exists yet for the id
	track, exists := t.history[id]

	if !exists {
		track = &Track{}
		t.history[id] = track
	}

	track.points = append(track.points, rect.Centroid())
	track.seen = true

	// check if history is exceeded and drop oldest point
	if len(track.points) > t.size {
		track.points = track.points[1:]
	}
}

// Prune removes the history of all ids not added since the last call to
// Prune, these are objects no longer being tracked
func (t *Trail) Prune() {
	t.Lock()
	defer t.Unlock()

	for id, track := range t.history {
		if !track.seen {
			delete(t.history, id)
			continue
		}

		track.seen = false
	}
}

// GetPoints gets the point history for a specific object id
func (t *Trail) GetPoints(id uint64) []geometry.Point {
	t.Lock()
	defer t.Unlock()

	if track, exists := t.history[id]; exists {
		return append([]geometry.Point(nil), track.points...)
	}

	// no history yet
	return nil
}
