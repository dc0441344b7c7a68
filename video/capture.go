package video

import (
	"fmt"

	"gocv.io/x/gocv"

	"github.com/swdee/go-trafficcount/geometry"
	"github.com/swdee/go-trafficcount/preprocess"
)

// Capture reads the frames of a video file, scaling them to a fixed width
// and cropping them to the site region
type Capture struct {
	video   *gocv.VideoCapture
	raw     gocv.Mat
	resizer *preprocess.Resizer
	width   int
	crop    geometry.Rect
	fps     float64
}

// OpenCapture opens the video file.  Frames are scaled to width keeping
// their aspect ratio, a width of 0 keeps the source size, and cropped to
// crop when it has an area
func OpenCapture(path string, width int, crop geometry.Rect) (*Capture, error) {

	video, err := gocv.VideoCaptureFile(path)

	if err != nil {
		return nil, fmt.Errorf("error opening video %s: %w", path, err)
	}

	return &Capture{
		video: video,
		raw:   gocv.NewMat(),
		width: width,
		crop:  crop,
		fps:   video.Get(gocv.VideoCaptureFPS),
	}, nil
}

// Read returns the next processed frame, the caller owns it and must Close
// it.  False is returned at the end of the video or on a read failure
func (c *Capture) Read() (*gocv.Mat, bool) {

	if ok := c.video.Read(&c.raw); !ok || c.raw.Empty() {
		return nil, false
	}

	// the source size is only known once the first frame is read
	if c.resizer == nil {
		c.resizer = preprocess.NewResizer(c.raw.Cols(), c.raw.Rows(), c.width, c.crop)
	}

	size := c.resizer.Crop().Size()
	frame := gocv.NewMatWithSize(size.Y, size.X, c.raw.Type())
	c.resizer.Resize(c.raw, &frame)

	return &frame, true
}

// FPS returns the frame rate reported by the video container
func (c *Capture) FPS() float64 {
	return c.fps
}

// Close the video and free the frame buffers
func (c *Capture) Close() error {

	if c.resizer != nil {
		c.resizer.Close()
	}

	c.raw.Close()

	return c.video.Close()
}
