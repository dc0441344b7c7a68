package tracker

import "github.com/swdee/go-trafficcount/geometry"

// Object represents an object being tracked by the Matcher
type Object[F any] struct {
	// ID is a unique ID given to the object which is never reused
	ID uint64
	// Tracker follows the object's position between detections
	Tracker Tracker[F]
	// Label is the class label of the object detected
	Label string
}

// Rect returns the current bounding box of the object
func (o *Object[F]) Rect() geometry.Rect {
	return o.Tracker.Position()
}
