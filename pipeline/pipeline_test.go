package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swdee/go-trafficcount/geometry"
	"github.com/swdee/go-trafficcount/postprocess"
	"github.com/swdee/go-trafficcount/tracker"
	"github.com/swdee/go-trafficcount/zone"
)

// frames are plain ints holding the frame index

// scriptDetector returns the detections scripted for each frame
type scriptDetector struct {
	script map[int][]postprocess.DetectResult
	calls  []int
	err    error
}

func (d *scriptDetector) Detect(frame int) ([]postprocess.DetectResult, error) {

	d.calls = append(d.calls, frame)

	if d.err != nil {
		return nil, d.err
	}

	return d.script[frame], nil
}

// stepTracker moves right by step pixels on every update
type stepTracker struct {
	rect geometry.Rect
	step int
}

func (s *stepTracker) Update(frame int) error {
	s.rect = geometry.NewRect(s.rect.StartX+s.step, s.rect.StartY,
		s.rect.EndX+s.step, s.rect.EndY)
	return nil
}

func (s *stepTracker) Position() geometry.Rect {
	return s.rect
}

func (s *stepTracker) Close() error {
	return nil
}

func stepFactory(step int) tracker.Factory[int] {
	return func(frame int, rect geometry.Rect) (tracker.Tracker[int], error) {
		return &stepTracker{rect: rect, step: step}, nil
	}
}

// sliceSource yields frames 0..n-1
type sliceSource struct {
	n    int
	next int
	fps  float64
}

func (s *sliceSource) Read() (int, bool) {

	if s.next >= s.n {
		return 0, false
	}

	s.next++

	return s.next - 1, true
}

func (s *sliceSource) FPS() float64 {
	return s.fps
}

func (s *sliceSource) Close() error {
	return nil
}

func car(sx, sy, ex, ey int) postprocess.DetectResult {
	return postprocess.DetectResult{
		Label:       "car",
		Box:         geometry.NewRect(sx, sy, ex, ey),
		Probability: 0.9,
	}
}

// testSite has a 1000x1000 boundary with a presence and a unique zone
func testSite() *zone.Site {
	return &zone.Site{
		Name:     "TEST",
		Boundary: geometry.NewPolygon([][2]int{{0, 0}, {0, 1000}, {1000, 1000}, {1000, 0}}),
		Presence: []zone.Spec{{
			Name:    "queue",
			Polygon: geometry.NewPolygon([][2]int{{100, 100}, {100, 300}, {300, 300}, {300, 100}}),
			Ratio:   0.5,
		}},
		Unique: []zone.Spec{{
			Name:    "crossing",
			Polygon: geometry.NewPolygon([][2]int{{100, 100}, {100, 300}, {300, 300}, {300, 100}}),
			Ratio:   0.1,
		}},
	}
}

func testConfig(skip int) Config {
	cfg := DefaultConfig()
	cfg.FrameSkip = skip
	cfg.VehicleClasses = []string{"car", "bus"}
	return cfg
}

func series(t *testing.T, p *Pipeline[int]) map[string][]int {
	t.Helper()

	res := make(map[string][]int)

	for _, c := range p.Counters() {
		res[c.Name()] = c.Series()
	}

	return res
}

func TestRunCountsObjectInZone(t *testing.T) {

	det := &scriptDetector{script: map[int][]postprocess.DetectResult{
		0: {car(150, 150, 200, 200)},
		1: {car(152, 150, 202, 200)},
		2: {car(154, 150, 204, 200)},
	}}

	p, err := New[int](det, stepFactory(0), testSite(), testConfig(1))
	require.NoError(t, err)

	stats, err := p.Run(context.Background(), &sliceSource{n: 3, fps: 25})
	require.NoError(t, err)

	assert.Equal(t, Stats{Frames: 3, FPS: 25}, stats)

	want := map[string][]int{
		"queue":        {0, 1, 1, 1},
		"crossing_car": {0, 1, 1, 1},
		"crossing_bus": {0, 0, 0, 0},
	}

	if diff := cmp.Diff(want, series(t, p)); diff != "" {
		t.Errorf("series mismatch (-want +got):\n%s", diff)
	}

	require.NoError(t, p.Close())
}

func TestStepSkipsDetection(t *testing.T) {

	det := &scriptDetector{script: map[int][]postprocess.DetectResult{
		0: {car(150, 150, 200, 200)},
		3: {car(400, 150, 450, 200)},
	}}

	p, err := New[int](det, stepFactory(50), testSite(), testConfig(3))
	require.NoError(t, err)

	var results []FrameResult

	for frame := 0; frame < 5; frame++ {
		res, err := p.Step(frame)
		require.NoError(t, err)
		results = append(results, res)
	}

	assert.Equal(t, []int{0, 3}, det.calls)

	assert.True(t, results[0].Detected)
	assert.False(t, results[1].Detected)
	assert.True(t, results[3].Detected)

	// tracked box moves by the tracker step between detections
	require.Len(t, results[2].Boxes, 1)
	assert.Equal(t, geometry.NewRect(250, 150, 300, 200), results[2].Boxes[0].Box)
	assert.Equal(t, "car", results[2].Boxes[0].Label)

	// the detection on frame 3 matches the same object
	require.Len(t, results[3].Tracks, 1)
	assert.Equal(t, uint64(0), results[3].Tracks[0].ID)

	want := map[string][]int{
		"queue":        {0, 1, 1, 1, 0, 0},
		"crossing_car": {0, 1, 1, 1, 1, 1},
		"crossing_bus": {0, 0, 0, 0, 0, 0},
	}

	if diff := cmp.Diff(want, series(t, p)); diff != "" {
		t.Errorf("series mismatch (-want +got):\n%s", diff)
	}
}

func TestEvictionNearBoundary(t *testing.T) {

	det := &scriptDetector{script: map[int][]postprocess.DetectResult{
		// center (997,500) is inside but 3px from the boundary edge
		0: {car(990, 490, 1004, 510), car(150, 150, 200, 200)},
	}}

	p, err := New[int](det, stepFactory(0), testSite(), testConfig(10))
	require.NoError(t, err)

	res, err := p.Step(0)
	require.NoError(t, err)

	assert.Len(t, res.Boxes, 2)
	require.Len(t, res.Tracks, 1)
	assert.Equal(t, uint64(1), res.Tracks[0].ID)
	assert.Equal(t, 1, p.Objects())
}

func TestEvictionKeepsObjectsFarOutside(t *testing.T) {

	det := &scriptDetector{script: map[int][]postprocess.DetectResult{
		0: {car(900, 490, 950, 510)},
	}}

	// tracker jumps 300px right on every frame
	p, err := New[int](det, stepFactory(300), testSite(), testConfig(10))
	require.NoError(t, err)

	for frame := 0; frame < 3; frame++ {
		_, err := p.Step(frame)
		require.NoError(t, err)
	}

	// center is now at x=1525, far outside the boundary, and still tracked
	assert.Equal(t, 1, p.Objects())
}

func TestDetectionsFiltered(t *testing.T) {

	lowConf := car(150, 150, 200, 200)
	lowConf.Probability = 0.3

	person := car(400, 400, 420, 440)
	person.Label = "person"

	det := &scriptDetector{script: map[int][]postprocess.DetectResult{
		0: {
			car(150, 150, 200, 200),
			// duplicate of the first box
			car(152, 152, 202, 202),
			lowConf,
			person,
			// outside the boundary
			car(1100, 100, 1150, 150),
		},
	}}

	p, err := New[int](det, stepFactory(0), testSite(), testConfig(1))
	require.NoError(t, err)

	res, err := p.Step(0)
	require.NoError(t, err)

	require.Len(t, res.Boxes, 1)
	assert.Equal(t, geometry.NewRect(150, 150, 200, 200), res.Boxes[0].Box)
}

func TestRunWithoutSite(t *testing.T) {

	det := &scriptDetector{script: map[int][]postprocess.DetectResult{
		0: {car(990, 490, 1004, 510), car(1100, 100, 1150, 150)},
	}}

	p, err := New[int](det, stepFactory(0), nil, testConfig(1))
	require.NoError(t, err)

	stats, err := p.Run(context.Background(), &sliceSource{n: 1, fps: 0})
	require.NoError(t, err)

	assert.Equal(t, float64(DefaultFPS), stats.FPS)
	assert.Empty(t, p.Counters())
	// no boundary filtering or eviction
	assert.Equal(t, 2, p.Objects())
}

func TestRunEmptySource(t *testing.T) {

	p, err := New[int](&scriptDetector{}, stepFactory(0), testSite(), testConfig(1))
	require.NoError(t, err)

	stats, err := p.Run(context.Background(), &sliceSource{fps: 30})
	require.NoError(t, err)

	assert.Equal(t, 0, stats.Frames)

	for _, c := range p.Counters() {
		assert.Equal(t, []int{0}, c.Series(), c.Name())
	}
}

func TestRunDetectorError(t *testing.T) {

	det := &scriptDetector{err: errors.New("net failed")}

	p, err := New[int](det, stepFactory(0), testSite(), testConfig(1))
	require.NoError(t, err)

	_, err = p.Run(context.Background(), &sliceSource{n: 3, fps: 30})
	require.Error(t, err)
	assert.ErrorIs(t, err, det.err)
}

func TestRunStops(t *testing.T) {

	det := &scriptDetector{script: map[int][]postprocess.DetectResult{}}

	stopAt := 2
	hook := func(frame int, res FrameResult) error {
		if res.Index == stopAt {
			return ErrStop
		}
		return nil
	}

	p, err := New[int](det, stepFactory(0), testSite(), testConfig(1),
		WithHook[int](hook))
	require.NoError(t, err)

	stats, err := p.Run(context.Background(), &sliceSource{n: 10, fps: 30})
	require.NoError(t, err)

	assert.True(t, stats.Stopped)
	assert.Equal(t, 3, stats.Frames)
	assert.Len(t, p.Counters()[0].Series(), 4)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p2, err := New[int](det, stepFactory(0), testSite(), testConfig(1))
	require.NoError(t, err)

	stats, err = p2.Run(ctx, &sliceSource{n: 10, fps: 30})
	require.NoError(t, err)
	assert.True(t, stats.Stopped)
	assert.Equal(t, 0, stats.Frames)
}

func TestNewInvalidConfig(t *testing.T) {

	cfg := DefaultConfig()
	cfg.FrameSkip = 0
	cfg.Labels = nil

	_, err := New[int](&scriptDetector{}, stepFactory(0), nil, cfg)
	assert.Error(t, err)
}
