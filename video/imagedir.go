package video

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/image/draw"

	"github.com/swdee/go-trafficcount/geometry"
)

// imageExts are the frame file types read from a directory
var imageExts = []string{".png", ".jpg", ".jpeg"}

// ImageDir reads a video that has been extracted to numbered image files.
// Frames are read in file name order, scaled and cropped the same way as
// Capture
type ImageDir struct {
	files []string
	next  int
	width int
	crop  geometry.Rect
	fps   float64
	log   zerolog.Logger
}

// OpenImageDir lists the frame images in dir.  The frame rate can not be
// read from images so is given by the caller
func OpenImageDir(dir string, fps float64, width int, crop geometry.Rect,
	log zerolog.Logger) (*ImageDir, error) {

	entries, err := os.ReadDir(dir)

	if err != nil {
		return nil, fmt.Errorf("error reading frame directory: %w", err)
	}

	var files []string

	for _, e := range entries {
		ext := strings.ToLower(filepath.Ext(e.Name()))

		if e.IsDir() || !slices.Contains(imageExts, ext) {
			continue
		}

		files = append(files, filepath.Join(dir, e.Name()))
	}

	slices.Sort(files)

	return &ImageDir{
		files: files,
		width: width,
		crop:  crop,
		fps:   fps,
		log:   log,
	}, nil
}

// Read returns the next frame.  False is returned after the last image or
// when an image can not be decoded
func (d *ImageDir) Read() (image.Image, bool) {

	if d.next >= len(d.files) {
		return nil, false
	}

	path := d.files[d.next]
	d.next++

	img, err := decode(path)

	if err != nil {
		d.log.Error().Err(err).Str("file", path).Msg("Error reading frame")
		return nil, false
	}

	return d.process(img), true
}

// Len returns the number of frames
func (d *ImageDir) Len() int {
	return len(d.files)
}

// FPS returns the frame rate
func (d *ImageDir) FPS() float64 {
	return d.fps
}

// Close has nothing to free
func (d *ImageDir) Close() error {
	return nil
}

// process scales the image to the frame width and crops it
func (d *ImageDir) process(img image.Image) image.Image {

	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	if d.width > 0 && w > 0 {
		h = int(float64(h) * float64(d.width) / float64(w))
		w = d.width
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)

	if d.crop.Area() == 0 {
		return dst
	}

	// copy the crop so the frame origin is at 0,0 like the zone coordinates
	cr := d.crop.ImageRect().Intersect(dst.Bounds())
	out := image.NewRGBA(image.Rect(0, 0, cr.Dx(), cr.Dy()))
	draw.Draw(out, out.Bounds(), dst, cr.Min, draw.Src)

	return out
}

func decode(path string) (image.Image, error) {

	f, err := os.Open(path)

	if err != nil {
		return nil, err
	}

	defer f.Close()

	img, _, err := image.Decode(f)

	return img, err
}
