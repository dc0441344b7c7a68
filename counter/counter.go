package counter

import (
	"github.com/swdee/go-trafficcount/geometry"
)

// Counter is a zone counter that records one value per processed frame
type Counter interface {
	// Name returns the counter name used for its output file
	Name() string
	// Series returns the per frame values, starting with the initial zero
	Series() []int
	// Current returns the most recent value in the series
	Current() int
	// Zone returns the polygon the counter counts in
	Zone() geometry.Polygon
}

// series is the append only per frame time series shared by the counters
type series struct {
	values []int
}

// newSeries returns a series seeded with an initial zero value
func newSeries() series {
	return series{values: []int{0}}
}

func (s *series) add(v int) {
	s.values = append(s.values, v)
}

// Series returns a copy of the per frame values
func (s *series) Series() []int {
	return append([]int(nil), s.values...)
}

// Current returns the last value in the series
func (s *series) Current() int {
	return s.values[len(s.values)-1]
}
