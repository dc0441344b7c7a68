package postprocess

import (
	"slices"

	"github.com/swdee/go-trafficcount/geometry"
)

// DefaultOverlap is the overlap ratio above which a detection is considered
// a duplicate of an earlier one
const DefaultOverlap = 0.4

// DefaultLabels are the object classes kept from the detector output
var DefaultLabels = []string{"car", "bus", "truck"}

// Suppress removes duplicate detections where the detector has output
// several boxes for the same object.  Detections are visited in order and a
// detection is dropped when its intersection with any already accepted box,
// divided by the larger of the two areas, exceeds the overlap ratio.  The
// first box seen wins
func Suppress(dets []DetectResult, overlap float64) []DetectResult {

	kept := make([]DetectResult, 0, len(dets))

	for _, cand := range dets {

		duplicate := false

		for _, acc := range kept {
			if overlapRatio(cand.Box, acc.Box) > overlap {
				duplicate = true
				break
			}
		}

		if !duplicate {
			kept = append(kept, cand)
		}
	}

	return kept
}

// overlapRatio returns the intersection area of both boxes relative to the
// larger box area
func overlapRatio(a, b geometry.Rect) float64 {

	maxArea := max(a.Area(), b.Area())

	if maxArea == 0 {
		return 0
	}

	return float64(a.Intersection(b).Area()) / float64(maxArea)
}

// Filter keeps detections with a Probability strictly above minConfidence
// and with a Label in the labels list
func Filter(dets []DetectResult, minConfidence float32,
	labels []string) []DetectResult {

	var res []DetectResult

	for _, det := range dets {
		if det.Probability > minConfidence && slices.Contains(labels, det.Label) {
			res = append(res, det)
		}
	}

	return res
}

// WithinBoundary keeps the detections whose center point lies inside the
// detection boundary polygon
func WithinBoundary(dets []DetectResult, boundary geometry.Polygon) []DetectResult {

	var res []DetectResult

	for _, det := range dets {
		if boundary.Contains(det.Box.Centroid()) {
			res = append(res, det)
		}
	}

	return res
}
