package render

import (
	"fmt"
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"github.com/swdee/go-trafficcount/counter"
	"github.com/swdee/go-trafficcount/geometry"
	"github.com/swdee/go-trafficcount/zone"
)

// ZoneStyle defines the colors used for drawing the site zones
type ZoneStyle struct {
	BoundaryColor color.RGBA
	ZoneColor     color.RGBA
	LineThickness int
}

// DefaultZoneStyle returns default zone style settings
func DefaultZoneStyle() ZoneStyle {
	return ZoneStyle{
		BoundaryColor: Blue,
		ZoneColor:     Red,
		LineThickness: 1,
	}
}

// Zones outlines the detection boundary of the site and the zone of every
// counter
func Zones(img *gocv.Mat, site *zone.Site, counters []counter.Counter,
	style ZoneStyle) {

	if site == nil {
		return
	}

	zones := make([]geometry.Polygon, 0, len(counters))

	for _, c := range counters {
		zones = append(zones, c.Zone())
	}

	polylines(img, zones, style.ZoneColor, style.LineThickness)
	polylines(img, []geometry.Polygon{site.Boundary}, style.BoundaryColor,
		style.LineThickness)
}

// Counters writes the current value of every counter in the top left corner
func Counters(img *gocv.Mat, counters []counter.Counter, font Font) {

	for i, c := range counters {
		text := fmt.Sprintf(" %s=%d ", c.Name(), c.Current())

		gocv.PutTextWithParams(img, text, image.Pt(0, (i+1)*20),
			font.Face, font.Scale, font.Color, font.Thickness,
			font.LineType, false)
	}
}

func polylines(img *gocv.Mat, polys []geometry.Polygon, clr color.RGBA,
	thickness int) {

	if len(polys) == 0 {
		return
	}

	pts := make([][]image.Point, 0, len(polys))

	for _, poly := range polys {
		line := make([]image.Point, len(poly))

		for i, p := range poly {
			line[i] = image.Pt(int(p.X), int(p.Y))
		}

		pts = append(pts, line)
	}

	pv := gocv.NewPointsVectorFromPoints(pts)
	defer pv.Close()

	gocv.Polylines(img, pv, true, clr, thickness)
}
