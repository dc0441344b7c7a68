package tracker

import "github.com/swdee/go-trafficcount/geometry"

// Tracker is a single object tracker that follows one bounding box across
// frames between detection rounds.  F is the frame type the tracker operates
// on, eg: gocv.Mat
type Tracker[F any] interface {
	// Update advances the tracker to the given frame
	Update(frame F) error
	// Position returns the current bounding box of the tracked object
	Position() geometry.Rect
	// Close frees any resources held by the tracker
	Close() error
}

// Factory initializes a new Tracker on the frame at the given rectangle
type Factory[F any] func(frame F, rect geometry.Rect) (Tracker[F], error)
