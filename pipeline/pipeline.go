package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/swdee/go-trafficcount/counter"
	"github.com/swdee/go-trafficcount/postprocess"
	"github.com/swdee/go-trafficcount/tracker"
	"github.com/swdee/go-trafficcount/zone"
)

// ErrStop can be returned by a frame hook to end the run early.  The
// counters keep the frames processed so far
var ErrStop = errors.New("stop requested")

// Source provides the frames of a video
type Source[F any] interface {
	// Read returns the next frame, false when no more frames can be read
	Read() (F, bool)
	// FPS returns the frame rate of the video
	FPS() float64
	Close() error
}

// Detector detects objects in a frame
type Detector[F any] interface {
	Detect(frame F) ([]postprocess.DetectResult, error)
}

// FrameResult describes the outcome of processing one frame
type FrameResult struct {
	// Index is the frame number starting from zero
	Index int
	// Detected is true when the detector ran on this frame
	Detected bool
	// Boxes are the detections, or tracked boxes on frames between
	// detection rounds, counted by the presence counters
	Boxes []postprocess.DetectResult
	// Tracks are the tracked objects remaining after eviction
	Tracks []counter.Track
}

// Stats summarises a Run
type Stats struct {
	Frames int
	FPS    float64
	// Stopped is true when the run ended before the end of the video
	Stopped bool
}

// Hook is called after every processed frame
type Hook[F any] func(frame F, res FrameResult) error

// Option configures a Pipeline
type Option[F any] func(*Pipeline[F])

// WithLogger sets the logger, by default nothing is logged
func WithLogger[F any](log zerolog.Logger) Option[F] {
	return func(p *Pipeline[F]) {
		p.log = log
	}
}

// WithHook sets a function called with every processed frame, used for
// rendering
func WithHook[F any](hook Hook[F]) Option[F] {
	return func(p *Pipeline[F]) {
		p.hook = hook
	}
}

// Pipeline counts the vehicles of one video.  Every FrameSkip frames objects
// are detected and matched to the tracked objects, on all other frames the
// tracked objects are followed by their trackers.  A Pipeline is not safe
// for concurrent use
type Pipeline[F any] struct {
	cfg      Config
	detector Detector[F]
	matcher  *tracker.Matcher[F]
	site     *zone.Site
	presence []*counter.Presence
	unique   []*counter.Unique
	frame    int
	log      zerolog.Logger
	hook     Hook[F]
}

// New returns a Pipeline using the detector and tracker factory.  When site
// is nil no counters are created and no boundary filtering or eviction takes
// place
func New[F any](det Detector[F], factory tracker.Factory[F], site *zone.Site,
	cfg Config, opts ...Option[F]) (*Pipeline[F], error) {

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid pipeline config: %w", err)
	}

	p := &Pipeline[F]{
		cfg:      cfg,
		detector: det,
		matcher:  tracker.NewMatcher(factory),
		site:     site,
		log:      zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(p)
	}

	if site != nil {
		p.presence, p.unique = site.Counters(cfg.VehicleClasses)
	}

	return p, nil
}

// Step processes the next frame of the video
func (p *Pipeline[F]) Step(frame F) (FrameResult, error) {

	res := FrameResult{Index: p.frame}

	if p.frame%p.cfg.FrameSkip == 0 {

		dets, err := p.detect(frame)

		if err != nil {
			return res, fmt.Errorf("frame %d: %w", p.frame, err)
		}

		if err := p.matcher.Match(frame, dets); err != nil {
			return res, fmt.Errorf("frame %d: error matching objects: %w", p.frame, err)
		}

		res.Detected = true
		res.Boxes = dets

	} else {

		if err := p.matcher.Advance(frame); err != nil {
			return res, fmt.Errorf("frame %d: %w", p.frame, err)
		}

		res.Boxes = p.trackedBoxes()
	}

	p.evict()

	res.Tracks = p.tracks()

	for _, u := range p.unique {
		u.Update(res.Tracks)
	}

	for _, c := range p.presence {
		c.Update(res.Boxes)
	}

	p.log.Trace().Int("frame", p.frame).Bool("detected", res.Detected).
		Int("boxes", len(res.Boxes)).Int("tracks", len(res.Tracks)).
		Msg("Processed frame")

	p.frame++

	return res, nil
}

// Run processes the frames of the source until the video ends, the context
// is cancelled or the hook returns ErrStop.  Counters hold the results of
// all frames processed
func (p *Pipeline[F]) Run(ctx context.Context, src Source[F]) (Stats, error) {

	stats := Stats{FPS: src.FPS()}

	if stats.FPS <= 0 {
		p.log.Warn().Float64("fps", stats.FPS).Msg("Video frame rate unknown, using default")
		stats.FPS = DefaultFPS
	}

	for {
		if ctx.Err() != nil {
			p.log.Info().Int("frames", stats.Frames).Msg("Run cancelled")
			stats.Stopped = true
			return stats, nil
		}

		frame, ok := src.Read()

		if !ok {
			break
		}

		res, err := p.Step(frame)

		if err == nil && p.hook != nil {
			err = p.hook(frame, res)
		}

		release(frame)

		if errors.Is(err, ErrStop) {
			stats.Frames++
			stats.Stopped = true
			p.log.Info().Int("frames", stats.Frames).Msg("Run stopped")
			return stats, nil
		}

		if err != nil {
			return stats, err
		}

		stats.Frames++
	}

	p.log.Debug().Int("frames", stats.Frames).Msg("End of video")

	return stats, nil
}

// Counters returns the presence counters followed by the unique counters
func (p *Pipeline[F]) Counters() []counter.Counter {

	res := make([]counter.Counter, 0, len(p.presence)+len(p.unique))

	for _, c := range p.presence {
		res = append(res, c)
	}

	for _, u := range p.unique {
		res = append(res, u)
	}

	return res
}

// Objects returns the number of objects currently tracked
func (p *Pipeline[F]) Objects() int {
	return p.matcher.Len()
}

// Close frees the trackers
func (p *Pipeline[F]) Close() error {
	return p.matcher.Close()
}

// detect runs the detector and keeps the wanted, non duplicate detections
// inside the site boundary
func (p *Pipeline[F]) detect(frame F) ([]postprocess.DetectResult, error) {

	dets, err := p.detector.Detect(frame)

	if err != nil {
		return nil, fmt.Errorf("error detecting objects: %w", err)
	}

	dets = postprocess.Filter(dets, p.cfg.MinConfidence, p.cfg.Labels)
	dets = postprocess.Suppress(dets, p.cfg.Overlap)

	if p.site != nil {
		dets = postprocess.WithinBoundary(dets, p.site.Boundary)
	}

	return dets, nil
}

// evict retires the tracked objects near the edge of the site boundary.
// Only the distance to the edge is checked so objects far outside the
// boundary are kept
func (p *Pipeline[F]) evict() {

	if p.site == nil {
		return
	}

	p.matcher.Retain(func(obj *tracker.Object[F]) bool {
		return p.site.Boundary.BoundaryDistance(obj.Rect().Centroid()) > p.cfg.EvictDistance
	})
}

// trackedBoxes returns the current boxes of the tracked objects
func (p *Pipeline[F]) trackedBoxes() []postprocess.DetectResult {

	objs := p.matcher.Objects()
	res := make([]postprocess.DetectResult, 0, len(objs))

	for _, obj := range objs {
		res = append(res, postprocess.DetectResult{
			Label: obj.Label,
			Box:   obj.Rect(),
		})
	}

	return res
}

func (p *Pipeline[F]) tracks() []counter.Track {

	objs := p.matcher.Objects()
	res := make([]counter.Track, 0, len(objs))

	for _, obj := range objs {
		res = append(res, counter.Track{
			ID:    obj.ID,
			Label: obj.Label,
			Box:   obj.Rect(),
		})
	}

	return res
}

// release frees frames holding native memory
func release(frame any) {
	if c, ok := frame.(io.Closer); ok {
		_ = c.Close()
	}
}
