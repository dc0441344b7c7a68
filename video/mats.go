package video

import (
	"image"

	"github.com/rs/zerolog"
	"gocv.io/x/gocv"
)

// ImageSource is a source of frames as Go images
type ImageSource interface {
	Read() (image.Image, bool)
	FPS() float64
	Close() error
}

// Mats converts the frames of an ImageSource into gocv Mats so they can be
// used with the gocv detector and trackers
type Mats struct {
	src ImageSource
	log zerolog.Logger
}

// NewMats wraps the image source
func NewMats(src ImageSource, log zerolog.Logger) *Mats {
	return &Mats{src: src, log: log}
}

// Read returns the next frame as a BGR Mat owned by the caller
func (m *Mats) Read() (*gocv.Mat, bool) {

	img, ok := m.src.Read()

	if !ok {
		return nil, false
	}

	mat, err := gocv.ImageToMatRGB(img)

	if err != nil {
		m.log.Error().Err(err).Msg("Error converting frame")
		return nil, false
	}

	return &mat, true
}

// FPS returns the frame rate of the image source
func (m *Mats) FPS() float64 {
	return m.src.FPS()
}

// Close the image source
func (m *Mats) Close() error {
	return m.src.Close()
}
