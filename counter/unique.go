package counter

import (
	"github.com/swdee/go-trafficcount/geometry"
)

// Track is a tracked object as seen by the Unique counter
type Track struct {
	ID    uint64
	Label string
	Box   geometry.Rect
}

// Unique counts the distinct tracked objects of one class that have entered
// a zone.  Every object ID is counted at most once
type Unique struct {
	series
	name     string
	class    string
	zone     geometry.Polygon
	minRatio float64
	counted  map[uint64]struct{}
	total    int
}

// NewUnique returns a Unique counter for objects labelled class.  An object
// enters the zone when its center point is inside the zone or more than
// minRatio of its box overlaps the zone
func NewUnique(name, class string, zone geometry.Polygon, minRatio float64) *Unique {
	return &Unique{
		series:   newSeries(),
		name:     name,
		class:    class,
		zone:     zone,
		minRatio: minRatio,
		counted:  make(map[uint64]struct{}),
	}
}

// Name returns the counter name
func (u *Unique) Name() string {
	return u.name
}

// Class returns the object class counted
func (u *Unique) Class() string {
	return u.class
}

// Zone returns the counted zone
func (u *Unique) Zone() geometry.Polygon {
	return u.zone
}

// Total returns the number of distinct objects counted so far
func (u *Unique) Total() int {
	return u.total
}

// Update counts the tracked objects of the current frame that have not been
// counted before and appends the running total to the series
func (u *Unique) Update(tracks []Track) {

	for _, trk := range tracks {

		if trk.Label != u.class {
			continue
		}

		if _, done := u.counted[trk.ID]; done {
			continue
		}

		// zero area boxes are tracker outliers
		if trk.Box.Area() == 0 {
			continue
		}

		if u.zone.Contains(trk.Box.Centroid()) ||
			trk.Box.OverlapRatio(u.zone) > u.minRatio {

			u.counted[trk.ID] = struct{}{}
			u.total++
		}
	}

	u.add(u.total)
}
