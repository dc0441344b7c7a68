package postprocess

import "github.com/swdee/go-trafficcount/geometry"

// DetectResult defines the attributes of a single object detected
type DetectResult struct {
	// Class is the line number in the labels file the Model was trained on
	// defining the Class of the detected object
	Class int
	// Label is the class name of the object, eg: "car"
	Label string
	// Box are the bounding box dimensions of the object location
	Box geometry.Rect
	// Probability is the confidence score of the object detected
	Probability float32
}
