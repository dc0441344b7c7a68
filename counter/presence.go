package counter

import (
	"github.com/swdee/go-trafficcount/geometry"
	"github.com/swdee/go-trafficcount/postprocess"
)

// Presence counts how many objects are inside a zone on every frame.  Each
// frame is counted independently so the same vehicle waiting in a queue
// contributes to the count of every frame it is seen in
type Presence struct {
	series
	name     string
	zone     geometry.Polygon
	minRatio float64
}

// NewPresence returns a Presence counter for the zone.  A box is inside the
// zone when at least minRatio of its area overlaps the zone
func NewPresence(name string, zone geometry.Polygon, minRatio float64) *Presence {
	return &Presence{
		series:   newSeries(),
		name:     name,
		zone:     zone,
		minRatio: minRatio,
	}
}

// Name returns the counter name
func (p *Presence) Name() string {
	return p.name
}

// Zone returns the counted zone
func (p *Presence) Zone() geometry.Polygon {
	return p.zone
}

// Update counts the detections of the current frame and appends the tally
// to the series
func (p *Presence) Update(dets []postprocess.DetectResult) {

	tally := 0

	for _, det := range dets {
		// zero area boxes are detector outliers
		if det.Box.Area() == 0 {
			continue
		}

		if det.Box.OverlapRatio(p.zone) >= p.minRatio {
			tally++
		}
	}

	p.add(tally)
}
