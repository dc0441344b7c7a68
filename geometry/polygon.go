package geometry

import (
	"math"

	clipper "github.com/ctessum/go.clipper"
)

// clipScale is the factor polygon coordinates are multiplied by before
// being converted to Clipper's integer coordinates
const clipScale = 10000.0

// Point is a location in pixel coordinates
type Point struct {
	X float64
	Y float64
}

// Polygon is an ordered list of vertices, the last vertex implicitly
// connects back to the first
type Polygon []Point

// NewPolygon creates a Polygon from integer [x, y] pairs as found in zone
// configuration tables
func NewPolygon(pts [][2]int) Polygon {

	poly := make(Polygon, 0, len(pts))

	for _, pt := range pts {
		poly = append(poly, Point{X: float64(pt[0]), Y: float64(pt[1])})
	}

	return poly
}

// Area returns the absolute area of the polygon using the shoelace formula
func (p Polygon) Area() float64 {

	if len(p) < 3 {
		return 0
	}

	sum := 0.0

	for i := range p {
		j := (i + 1) % len(p)
		sum += p[i].X*p[j].Y - p[j].X*p[i].Y
	}

	return math.Abs(sum) / 2
}

// Contains reports whether the point lies strictly inside the polygon.
// Points on the polygon boundary are not contained
func (p Polygon) Contains(pt Point) bool {

	if len(p) < 3 {
		return false
	}

	if p.onBoundary(pt) {
		return false
	}

	// ray casting
	inside := false
	j := len(p) - 1

	for i := 0; i < len(p); i++ {
		xi, yi := p[i].X, p[i].Y
		xj, yj := p[j].X, p[j].Y

		if ((yi > pt.Y) != (yj > pt.Y)) &&
			(pt.X < (xj-xi)*(pt.Y-yi)/(yj-yi)+xi) {
			inside = !inside
		}

		j = i
	}

	return inside
}

// BoundaryDistance returns the shortest distance from the point to any edge
// of the polygon.  The distance is the same whether the point is inside or
// outside of the polygon
func (p Polygon) BoundaryDistance(pt Point) float64 {

	switch len(p) {
	case 0:
		return math.Inf(1)
	case 1:
		return math.Hypot(pt.X-p[0].X, pt.Y-p[0].Y)
	}

	dist := math.Inf(1)

	for i := range p {
		d := segmentDistance(pt, p[i], p[(i+1)%len(p)])

		if d < dist {
			dist = d
		}
	}

	return dist
}

// onBoundary checks if the point lies on any edge of the polygon
func (p Polygon) onBoundary(pt Point) bool {

	const epsilon = 1e-9

	for i := range p {
		if segmentDistance(pt, p[i], p[(i+1)%len(p)]) < epsilon {
			return true
		}
	}

	return false
}

// path converts the polygon to a Clipper path in scaled integer coordinates
func (p Polygon) path() clipper.Path {

	path := make(clipper.Path, 0, len(p))

	for _, pt := range p {
		path = append(path, &clipper.IntPoint{
			X: clipper.CInt(math.Round(pt.X * clipScale)),
			Y: clipper.CInt(math.Round(pt.Y * clipScale)),
		})
	}

	return path
}

// IntersectionArea returns the area of the region shared by both polygons
func IntersectionArea(a, b Polygon) float64 {

	if len(a) < 3 || len(b) < 3 {
		return 0
	}

	c := clipper.NewClipper(clipper.IoNone)
	c.AddPath(a.path(), clipper.PtSubject, true)
	c.AddPath(b.path(), clipper.PtClip, true)

	solution, ok := c.Execute1(clipper.CtIntersection, clipper.PftNonZero,
		clipper.PftNonZero)

	if !ok {
		return 0
	}

	// holes have the opposite orientation to outer rings so the signed
	// areas sum to the covered area
	area := 0.0

	for _, path := range solution {
		area += signedPathArea(path)
	}

	return math.Abs(area) / (clipScale * clipScale)
}

// signedPathArea returns the signed shoelace area of a Clipper path
func signedPathArea(path clipper.Path) float64 {

	if len(path) < 3 {
		return 0
	}

	sum := 0.0

	for i := range path {
		j := (i + 1) % len(path)
		sum += float64(path[i].X)*float64(path[j].Y) -
			float64(path[j].X)*float64(path[i].Y)
	}

	return sum / 2
}

// segmentDistance returns the distance from point p to the line segment ab
func segmentDistance(p, a, b Point) float64 {

	dx := b.X - a.X
	dy := b.Y - a.Y

	lenSq := dx*dx + dy*dy

	if lenSq == 0 {
		return math.Hypot(p.X-a.X, p.Y-a.Y)
	}

	// project p onto ab and clamp to the segment
	t := ((p.X-a.X)*dx + (p.Y-a.Y)*dy) / lenSq
	t = math.Max(0, math.Min(1, t))

	return math.Hypot(p.X-(a.X+t*dx), p.Y-(a.Y+t*dy))
}
