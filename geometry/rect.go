package geometry

import (
	"fmt"
	"image"
)

// Rect is an axis aligned bounding box in pixel coordinates.  Coordinates
// are clamped to be non-negative when created with NewRect
type Rect struct {
	StartX int
	StartY int
	EndX   int
	EndY   int
	// CX and CY are the center point of the box, floor of the midpoint
	CX int
	CY int
}

// NewRect creates a new Rect with given corner coordinates
func NewRect(startX, startY, endX, endY int) Rect {

	r := Rect{
		StartX: max(startX, 0),
		StartY: max(startY, 0),
		EndX:   max(endX, 0),
		EndY:   max(endY, 0),
	}

	r.CX = (r.StartX + r.EndX) / 2
	r.CY = (r.StartY + r.EndY) / 2

	return r
}

// FromImageRect converts an image.Rectangle into a Rect
func FromImageRect(ir image.Rectangle) Rect {
	return NewRect(ir.Min.X, ir.Min.Y, ir.Max.X, ir.Max.Y)
}

// ImageRect returns the Rect as an image.Rectangle
func (r Rect) ImageRect() image.Rectangle {
	return image.Rect(r.StartX, r.StartY, r.EndX, r.EndY)
}

// Area returns the area of the rectangle, a zero area is a degenerate box
func (r Rect) Area() int {
	return abs(r.EndX-r.StartX) * abs(r.EndY-r.StartY)
}

// Centroid returns the center point of the rectangle
func (r Rect) Centroid() Point {
	return Point{X: float64(r.CX), Y: float64(r.CY)}
}

// Polygon returns the four corners of the rectangle starting from the
// start corner
func (r Rect) Polygon() Polygon {
	return Polygon{
		{X: float64(r.StartX), Y: float64(r.StartY)},
		{X: float64(r.StartX), Y: float64(r.EndY)},
		{X: float64(r.EndX), Y: float64(r.EndY)},
		{X: float64(r.EndX), Y: float64(r.StartY)},
	}
}

// Intersection returns the intersection of both rectangles computed
// independently on each axis with IntersectInterval
func (r Rect) Intersection(other Rect) Rect {

	sx, ex := IntersectInterval(r.StartX, r.EndX, other.StartX, other.EndX)
	sy, ey := IntersectInterval(r.StartY, r.EndY, other.StartY, other.EndY)

	return NewRect(sx, sy, ex, ey)
}

// Union returns the smallest rectangle covering both rectangles
func (r Rect) Union(other Rect) Rect {
	return NewRect(
		min(r.StartX, other.StartX),
		min(r.StartY, other.StartY),
		max(r.EndX, other.EndX),
		max(r.EndY, other.EndY),
	)
}

// OverlapRatio returns the fraction of the rectangle's area that lies
// inside the given polygon.  Zero area rectangles return 0
func (r Rect) OverlapRatio(poly Polygon) float64 {

	area := r.Area()

	if area == 0 {
		return 0
	}

	return IntersectionArea(r.Polygon(), poly) / float64(area)
}

// String returns the rectangle coordinates
func (r Rect) String() string {
	return fmt.Sprintf("(start_x=%d, end_x=%d, start_y=%d, end_y=%d)",
		r.StartX, r.EndX, r.StartY, r.EndY)
}

// IntersectInterval returns the intersection of the closed intervals
// [a0, a1] and [b0, b1].  Rules are evaluated in order and intervals that
// only touch at a single point return [0, 0]
func IntersectInterval(a0, a1, b0, b1 int) (int, int) {

	switch {
	case a0 >= b0 && a1 <= b1:
		// a inside b
		return a0, a1

	case a0 < b0 && b1 < a1:
		// b inside a
		return b0, b1

	case a0 < b0 && a1 > b0:
		// a overlaps b from the left
		return b0, a1

	case a1 > b1 && a0 < b1:
		// a overlaps b from the right
		return a0, b1
	}

	return 0, 0
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
