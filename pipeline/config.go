package pipeline

import (
	"errors"
	"fmt"

	"github.com/swdee/go-trafficcount/postprocess"
	"github.com/swdee/go-trafficcount/zone"
)

const (
	// DefaultFrameSkip is the number of frames between detection rounds
	DefaultFrameSkip = 12
	// DefaultMinConfidence is the detection confidence threshold
	DefaultMinConfidence = 0.3
	// DefaultEvictDistance is the distance in pixels from the detection
	// boundary at which tracked objects are treated as leaving the scene
	DefaultEvictDistance = 5
	// DefaultFPS is used when the video source does not report a frame rate
	DefaultFPS = 30
)

// Config holds the settings of a Pipeline
type Config struct {
	// FrameSkip runs the detector every FrameSkip frames, trackers follow
	// the objects in between
	FrameSkip int
	// MinConfidence is the probability a detection must exceed to be used
	MinConfidence float32
	// Labels are the detector classes kept
	Labels []string
	// Overlap is the duplicate suppression threshold
	Overlap float64
	// EvictDistance retires objects whose center point is this close to
	// the site boundary
	EvictDistance float64
	// VehicleClasses each get their own unique zone counter
	VehicleClasses []string
}

// DefaultConfig returns the default pipeline settings
func DefaultConfig() Config {
	return Config{
		FrameSkip:      DefaultFrameSkip,
		MinConfidence:  DefaultMinConfidence,
		Labels:         postprocess.DefaultLabels,
		Overlap:        postprocess.DefaultOverlap,
		EvictDistance:  DefaultEvictDistance,
		VehicleClasses: zone.DefaultVehicleClasses,
	}
}

func (c Config) validate() error {

	var errs []error

	if c.FrameSkip < 1 {
		errs = append(errs, fmt.Errorf("frame skip must be at least 1, got %d", c.FrameSkip))
	}

	if c.MinConfidence < 0 || c.MinConfidence > 1 {
		errs = append(errs, fmt.Errorf("min confidence %v out of range [0,1]", c.MinConfidence))
	}

	if c.Overlap < 0 || c.Overlap > 1 {
		errs = append(errs, fmt.Errorf("overlap %v out of range [0,1]", c.Overlap))
	}

	if c.EvictDistance < 0 {
		errs = append(errs, fmt.Errorf("evict distance %v is negative", c.EvictDistance))
	}

	if len(c.Labels) == 0 {
		errs = append(errs, errors.New("no labels to detect"))
	}

	return errors.Join(errs...)
}
