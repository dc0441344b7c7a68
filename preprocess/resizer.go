package preprocess

import (
	"image"

	"gocv.io/x/gocv"

	"github.com/swdee/go-trafficcount/geometry"
)

// Resizer scales video frames to a fixed width, keeping their aspect ratio,
// and crops them to the region of the site being analysed
type Resizer struct {
	// srcWidth is the width of the source image
	srcWidth int
	// srcHeight is the height of the source image
	srcHeight int
	// destWidth is the width to scale to
	destWidth int
	// crop is the region of the scaled image kept, empty for all of it
	crop image.Rectangle
	// tempMat is a Mat used during the resize process
	tempMat gocv.Mat
	// resize dimensions
	resizeW int
	resizeH int
}

// NewResizer returns a resizer for frames of the source dimensions.  The
// crop rectangle is in scaled image coordinates and is clipped to the scaled
// image, a zero crop keeps the whole image
func NewResizer(srcWidth, srcHeight, destWidth int, crop geometry.Rect) *Resizer {
	r := &Resizer{
		srcWidth:  srcWidth,
		srcHeight: srcHeight,
		destWidth: destWidth,
		tempMat:   gocv.NewMat(),
	}

	// precalculate scaling dimensions
	r.preCalc(crop)

	return r
}

// Close frees memory allocated during resize process
func (r *Resizer) Close() error {
	return r.tempMat.Close()
}

// preCalc the scaled size and crop region
func (r *Resizer) preCalc(crop geometry.Rect) {

	r.resizeW = r.srcWidth
	r.resizeH = r.srcHeight

	if r.destWidth > 0 && r.srcWidth > 0 {
		scale := float64(r.destWidth) / float64(r.srcWidth)
		r.resizeW = r.destWidth
		r.resizeH = int(float64(r.srcHeight) * scale)
	}

	bounds := image.Rect(0, 0, r.resizeW, r.resizeH)
	r.crop = bounds

	if crop.Area() > 0 {
		r.crop = crop.ImageRect().Intersect(bounds)
	}
}

// Resize scales the src image to the destination width and crops it into
// dest
func (r *Resizer) Resize(src gocv.Mat, dest *gocv.Mat) {

	gocv.Resize(src, &r.tempMat, image.Pt(r.resizeW, r.resizeH),
		0, 0, gocv.InterpolationArea)

	region := r.tempMat.Region(r.crop)
	defer region.Close()

	region.CopyTo(dest)
}

// Crop returns the region of the scaled image kept
func (r *Resizer) Crop() image.Rectangle {
	return r.crop
}
