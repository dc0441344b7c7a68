package counter

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"github.com/swdee/go-trafficcount/geometry"
	"github.com/swdee/go-trafficcount/postprocess"
)

var square = geometry.NewPolygon([][2]int{{0, 0}, {0, 100}, {100, 100}, {100, 0}})

func det(sx, sy, ex, ey int) postprocess.DetectResult {
	return postprocess.DetectResult{
		Label:       "car",
		Box:         geometry.NewRect(sx, sy, ex, ey),
		Probability: 0.9,
	}
}

func TestPresenceSeries(t *testing.T) {

	p := NewPresence("queue", square, 0.5)

	assert.Equal(t, []int{0}, p.Series())
	assert.Equal(t, 0, p.Current())

	// same object present in consecutive frames is counted every frame
	for i := 0; i < 5; i++ {
		p.Update([]postprocess.DetectResult{det(10, 10, 30, 30)})
	}

	if diff := cmp.Diff([]int{0, 1, 1, 1, 1, 1}, p.Series()); diff != "" {
		t.Errorf("series mismatch (-want +got):\n%s", diff)
	}

	p.Update(nil)
	assert.Equal(t, 0, p.Current())
	assert.Len(t, p.Series(), 7)
}

func TestPresenceRatio(t *testing.T) {

	tests := []struct {
		name  string
		dets  []postprocess.DetectResult
		ratio float64
		want  int
	}{
		{
			name:  "inside",
			dets:  []postprocess.DetectResult{det(10, 10, 30, 30)},
			ratio: 0.7,
			want:  1,
		},
		{
			name:  "half overlap equals threshold",
			dets:  []postprocess.DetectResult{det(90, 10, 110, 30)},
			ratio: 0.5,
			want:  1,
		},
		{
			name:  "half overlap below threshold",
			dets:  []postprocess.DetectResult{det(90, 10, 110, 30)},
			ratio: 0.7,
			want:  0,
		},
		{
			name:  "outside",
			dets:  []postprocess.DetectResult{det(200, 200, 210, 210)},
			ratio: 0.1,
			want:  0,
		},
		{
			name:  "zero area ignored",
			dets:  []postprocess.DetectResult{det(50, 50, 50, 60)},
			ratio: 0,
			want:  0,
		},
		{
			name: "several",
			dets: []postprocess.DetectResult{
				det(10, 10, 30, 30), det(40, 40, 60, 60), det(300, 0, 310, 10),
			},
			ratio: 0.7,
			want:  2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPresence("queue", square, tt.ratio)
			p.Update(tt.dets)
			assert.Equal(t, []int{0, tt.want}, p.Series())
		})
	}
}

func TestUniqueCountsOnce(t *testing.T) {

	u := NewUnique("crossing_car", "car", square, 0.1)

	frames := [][]Track{
		{{ID: 0, Label: "car", Box: geometry.NewRect(200, 10, 220, 30)}},
		{{ID: 0, Label: "car", Box: geometry.NewRect(40, 10, 60, 30)}},
		{{ID: 0, Label: "car", Box: geometry.NewRect(45, 10, 65, 30)}},
		nil,
		{
			{ID: 0, Label: "car", Box: geometry.NewRect(45, 10, 65, 30)},
			{ID: 3, Label: "car", Box: geometry.NewRect(10, 70, 30, 90)},
		},
	}

	for _, f := range frames {
		u.Update(f)
	}

	if diff := cmp.Diff([]int{0, 0, 1, 1, 1, 2}, u.Series()); diff != "" {
		t.Errorf("series mismatch (-want +got):\n%s", diff)
	}

	assert.Equal(t, 2, u.Total())
	assert.Equal(t, 2, u.Current())
}

func TestUniqueEntry(t *testing.T) {

	tests := []struct {
		name  string
		track Track
		ratio float64
		want  int
	}{
		{
			name:  "centroid inside",
			track: Track{ID: 1, Label: "car", Box: geometry.NewRect(10, 10, 30, 30)},
			ratio: 0.9,
			want:  1,
		},
		{
			name:  "centroid outside but overlapping",
			track: Track{ID: 1, Label: "car", Box: geometry.NewRect(80, 0, 130, 20)},
			ratio: 0.1,
			want:  1,
		},
		{
			name:  "centroid outside small overlap",
			track: Track{ID: 1, Label: "car", Box: geometry.NewRect(99, 0, 200, 20)},
			ratio: 0.1,
			want:  0,
		},
		{
			name:  "centroid on boundary",
			track: Track{ID: 1, Label: "car", Box: geometry.NewRect(90, 40, 110, 60)},
			ratio: 0.6,
			want:  0,
		},
		{
			name:  "overlap must exceed ratio",
			track: Track{ID: 1, Label: "car", Box: geometry.NewRect(90, 40, 110, 60)},
			ratio: 0.5,
			want:  0,
		},
		{
			name:  "other class",
			track: Track{ID: 1, Label: "bus", Box: geometry.NewRect(10, 10, 30, 30)},
			ratio: 0.1,
			want:  0,
		},
		{
			name:  "zero area",
			track: Track{ID: 1, Label: "car", Box: geometry.NewRect(10, 10, 10, 30)},
			ratio: 0,
			want:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := NewUnique("crossing_car", "car", square, tt.ratio)
			u.Update([]Track{tt.track})
			assert.Equal(t, tt.want, u.Current())
		})
	}
}

func TestUniqueClassesAreIndependent(t *testing.T) {

	cars := NewUnique("crossing_car", "car", square, 0.1)
	buses := NewUnique("crossing_bus", "bus", square, 0.1)

	tracks := []Track{
		{ID: 0, Label: "car", Box: geometry.NewRect(10, 10, 30, 30)},
		{ID: 1, Label: "bus", Box: geometry.NewRect(40, 40, 80, 80)},
		{ID: 2, Label: "car", Box: geometry.NewRect(50, 10, 70, 30)},
	}

	var counters []Counter = []Counter{cars, buses}

	cars.Update(tracks)
	buses.Update(tracks)

	assert.Equal(t, 2, counters[0].Current())
	assert.Equal(t, 1, counters[1].Current())
	assert.Equal(t, "crossing_bus", counters[1].Name())
}
