package zone

import (
	"github.com/swdee/go-trafficcount/counter"
	"github.com/swdee/go-trafficcount/geometry"
)

// DefaultVehicleClasses are the object classes a unique zone counts, each
// with its own counter
var DefaultVehicleClasses = []string{"car", "motorbike", "truck", "bus"}

// Spec is a counting zone
type Spec struct {
	Name    string
	Polygon geometry.Polygon
	// Ratio is the minimum fraction of a box that must overlap the zone
	Ratio float64
}

// Site is the zone configuration of one camera view of an intersection
type Site struct {
	Name string
	// Crop is the region of the resized frame that is analysed, the zone
	// coordinates are relative to the cropped frame
	Crop geometry.Rect
	// Boundary is the area in which objects are detected and tracked
	Boundary geometry.Polygon
	// Presence zones count all vehicles inside them on every frame
	Presence []Spec
	// Unique zones count every tracked vehicle once
	Unique []Spec
}

// Counters creates the counters for the site.  A unique counter is created
// for every combination of unique zone and vehicle class and is named
// <zone>_<class>
func (s Site) Counters(classes []string) ([]*counter.Presence, []*counter.Unique) {

	presence := make([]*counter.Presence, 0, len(s.Presence))

	for _, z := range s.Presence {
		presence = append(presence, counter.NewPresence(z.Name, z.Polygon, z.Ratio))
	}

	unique := make([]*counter.Unique, 0, len(s.Unique)*len(classes))

	for _, z := range s.Unique {
		for _, class := range classes {
			unique = append(unique, counter.NewUnique(z.Name+"_"+class, class,
				z.Polygon, z.Ratio))
		}
	}

	return presence, unique
}
