// Package mil follows a single object between frames with the OpenCV MIL
// tracker.
package mil

import (
	"fmt"

	"gocv.io/x/gocv"

	"github.com/swdee/go-trafficcount/geometry"
	"github.com/swdee/go-trafficcount/tracker"
)

// Tracker wraps a gocv MIL tracker
type Tracker struct {
	trk gocv.Tracker
	// rect is the last known position
	rect geometry.Rect
	// lost is set once the tracker can no longer follow the object, the
	// last known position is kept from then on
	lost bool
}

// New starts tracking the object in rect on the frame.  It has the
// signature of a tracker.Factory
func New(frame *gocv.Mat, rect geometry.Rect) (tracker.Tracker[*gocv.Mat], error) {

	t := &Tracker{
		trk:  gocv.NewTrackerMIL(),
		rect: rect,
	}

	// a box without area can not be followed, it stays where detected
	if rect.Area() == 0 {
		t.lost = true
		return t, nil
	}

	if !t.trk.Init(*frame, rect.ImageRect()) {
		t.trk.Close()
		return nil, fmt.Errorf("error starting MIL tracker on %s", rect)
	}

	return t, nil
}

// Update moves the tracked box to the object's position in frame
func (t *Tracker) Update(frame *gocv.Mat) error {

	if t.lost {
		return nil
	}

	ir, ok := t.trk.Update(*frame)

	if !ok {
		t.lost = true
		return nil
	}

	t.rect = geometry.FromImageRect(ir)

	return nil
}

// Position returns the current box of the tracked object
func (t *Tracker) Position() geometry.Rect {
	return t.rect
}

// Close frees the tracker
func (t *Tracker) Close() error {
	return t.trk.Close()
}
