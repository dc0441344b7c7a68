package render

import (
	"fmt"
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"github.com/swdee/go-trafficcount/counter"
	"github.com/swdee/go-trafficcount/geometry"
	"github.com/swdee/go-trafficcount/postprocess"
)

// boxLabel defines where the object label should be rendered on the source
// image
type boxLabel struct {
	rect    image.Rectangle
	clr     color.RGBA
	text    string
	textPos image.Point
}

// DetectionBoxes renders the bounding boxes around the objects detected
func DetectionBoxes(img *gocv.Mat, dets []postprocess.DetectResult,
	font Font, lineThickness int) {

	labels := make([]boxLabel, 0, len(dets))

	for i, det := range dets {
		useClr := classColors[i%len(classColors)]
		text := fmt.Sprintf("%s %.2f", det.Label, det.Probability)

		labels = append(labels, drawBox(img, det.Box, useClr, text, font,
			lineThickness))
	}

	drawLabels(img, labels, font)
}

// TrackerBoxes renders the bounding boxes around the tracked objects
// labelled with their class and ID
func TrackerBoxes(img *gocv.Mat, tracks []counter.Track, font Font,
	lineThickness int) {

	labels := make([]boxLabel, 0, len(tracks))

	for _, trk := range tracks {
		useClr := trackColor(trk.ID)
		text := fmt.Sprintf("%s %d", trk.Label, trk.ID)

		labels = append(labels, drawBox(img, trk.Box, useClr, text, font,
			lineThickness))
	}

	drawLabels(img, labels, font)
}

// drawBox draws the rectangle around the object and calculates where its
// label goes
func drawBox(img *gocv.Mat, box geometry.Rect, useClr color.RGBA, text string,
	font Font, lineThickness int) boxLabel {

	gocv.Rectangle(img, box.ImageRect(), useClr, lineThickness)

	textSize := gocv.GetTextSize(text, font.Face, font.Scale, font.Thickness)

	// Calculate the alignment of text label
	var centerX int

	switch font.Alignment {
	case Center:
		centerX = box.CX

	case Right:
		centerX = box.EndX - (textSize.X / 2) - font.RightPad + (lineThickness / 2)

	case Left:
		fallthrough
	default:
		centerX = box.StartX + (textSize.X / 2) + font.LeftPad - (lineThickness / 2)
	}

	// Adjust the label position so the text is centered horizontally
	labelPosition := image.Pt(centerX-textSize.X/2, box.StartY-font.BottomPad)

	// create box for placing text on
	bRect := image.Rect(centerX-textSize.X/2-font.LeftPad,
		box.StartY-textSize.Y-font.TopPad-font.BottomPad,
		centerX+textSize.X/2+font.RightPad, box.StartY)

	return boxLabel{
		rect:    bRect,
		clr:     useClr,
		text:    text,
		textPos: labelPosition,
	}
}

// drawLabels draws all precalculated box labels after the boxes so they are
// the top most layer on the image
func drawLabels(img *gocv.Mat, labels []boxLabel, font Font) {

	for _, box := range labels {
		// draw box text gets written on
		gocv.Rectangle(img, box.rect, box.clr, -1)

		// Draw the label over box
		gocv.PutTextWithParams(img, box.text, box.textPos,
			font.Face, font.Scale, font.Color, font.Thickness,
			font.LineType, false)
	}
}

// trackColor returns the color for a tracked object ID
func trackColor(id uint64) color.RGBA {
	return classColors[id%uint64(len(classColors))]
}
