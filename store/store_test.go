package store

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/swdee/go-trafficcount/counter"
	"github.com/swdee/go-trafficcount/geometry"
	"github.com/swdee/go-trafficcount/postprocess"
)

func testCounters() []counter.Counter {

	zone := geometry.NewPolygon([][2]int{{0, 0}, {0, 100}, {100, 100}, {100, 0}})

	p := counter.NewPresence("queue_length_strait", zone, 0.5)
	u := counter.NewUnique("crossing_strait_car", "car", zone, 0.1)

	inside := postprocess.DetectResult{Label: "car", Box: geometry.NewRect(10, 10, 20, 20)}

	p.Update([]postprocess.DetectResult{inside})
	p.Update(nil)
	p.Update([]postprocess.DetectResult{inside, inside})

	u.Update(nil)
	u.Update([]counter.Track{{ID: 4, Label: "car", Box: inside.Box}})
	u.Update([]counter.Track{{ID: 4, Label: "car", Box: inside.Box}})

	return []counter.Counter{p, u}
}

func TestTimes(t *testing.T) {

	got := Times([]int{0, 1, 1, 2}, 2)

	want := map[float64]int{0: 0, 0.5: 1, 1: 1, 1.5: 2}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("times mismatch (-want +got):\n%s", diff)
	}
}

func TestSaveAllAndLoad(t *testing.T) {

	dir := t.TempDir()

	paths, err := SaveAll(dir, testCounters(), 4)
	require.NoError(t, err)

	assert.Equal(t, []string{
		filepath.Join(dir, "queue_length_strait.msgpack"),
		filepath.Join(dir, "crossing_strait_car.msgpack"),
	}, paths)

	got, err := Load(paths[0])
	require.NoError(t, err)

	want := map[float64]int{0: 0, 0.25: 1, 0.5: 0, 0.75: 2}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("series mismatch (-want +got):\n%s", diff)
	}

	got, err = Load(paths[1])
	require.NoError(t, err)
	assert.Equal(t, map[float64]int{0: 0, 0.25: 0, 0.5: 1, 0.75: 1}, got)
}

func TestSaveSortsKeys(t *testing.T) {

	dir := t.TempDir()

	values := make([]int, 50)
	for i := range values {
		values[i] = i
	}

	path, err := Save(dir, "series", values, 10)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	dec := msgpack.NewDecoder(bytes.NewReader(data))

	n, err := dec.DecodeMapLen()
	require.NoError(t, err)
	require.Equal(t, 50, n)

	prev := -1.0

	for i := 0; i < n; i++ {
		key, err := dec.DecodeFloat64()
		require.NoError(t, err)

		val, err := dec.DecodeInt()
		require.NoError(t, err)

		assert.Greater(t, key, prev)
		assert.Equal(t, i, val)
		prev = key
	}
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "none.msgpack"))
	assert.Error(t, err)
}

func TestOutputDir(t *testing.T) {

	tests := []struct {
		video  string
		output string
		ext    string
		want   string
	}{
		{video: "data/cam1.mp4", ext: ".mp4", want: "data/cam1"},
		{video: "data/cam1.avi", ext: ".mp4", want: "data/cam1"},
		{video: "data/cam1.mp4", output: "out", ext: ".mp4", want: "out"},
		{video: "cam2", ext: ".mp4", want: "cam2_counts"},
		{video: "data/frames", ext: ".mp4", want: "data/frames_counts"},
		{video: "data/frames/", ext: ".mp4", want: "data/frames_counts"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, OutputDir(tt.video, tt.output, tt.ext), tt.video)
	}
}

func TestPrepare(t *testing.T) {

	dir := filepath.Join(t.TempDir(), "cam1")

	// created when missing
	require.NoError(t, Prepare(dir))
	assert.DirExists(t, dir)

	// empty directory can be used
	require.NoError(t, Prepare(dir))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "queue.msgpack"), []byte{0x80}, 0o644))

	err := Prepare(dir)
	assert.ErrorIs(t, err, ErrOutputExists)
}

func TestOutputDirForFrameDirectory(t *testing.T) {

	frames := filepath.Join(t.TempDir(), "frames")
	require.NoError(t, os.MkdirAll(frames, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(frames, "0001.png"), []byte{0}, 0o644))

	dir := OutputDir(frames, "", ".mp4")

	assert.Equal(t, frames+CountsSuffix, dir)
	require.NoError(t, Prepare(dir))
	assert.DirExists(t, dir)

	// series are not written among the frames
	paths, err := SaveAll(dir, testCounters(), 4)
	require.NoError(t, err)

	for _, p := range paths {
		assert.Equal(t, dir, filepath.Dir(p))
	}

	entries, err := os.ReadDir(frames)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestSQLite(t *testing.T) {

	ctx := context.Background()

	db, err := OpenSQLite(filepath.Join(t.TempDir(), "counts.db"))
	require.NoError(t, err)

	defer db.Close()

	counters := testCounters()

	require.NoError(t, db.Write(ctx, "run-1", "cam1.mp4", counters, 4))
	require.NoError(t, db.Write(ctx, "run-2", "cam1.mp4", counters[:1], 2))

	got, err := db.Series(ctx, "run-1", "cam1.mp4", "queue_length_strait")
	require.NoError(t, err)
	assert.Equal(t, map[float64]int{0: 0, 0.25: 1, 0.5: 0, 0.75: 2}, got)

	got, err = db.Series(ctx, "run-2", "cam1.mp4", "queue_length_strait")
	require.NoError(t, err)
	assert.Equal(t, map[float64]int{0: 0, 0.5: 1, 1: 0, 1.5: 2}, got)

	got, err = db.Series(ctx, "run-2", "cam1.mp4", "crossing_strait_car")
	require.NoError(t, err)
	assert.Empty(t, got)
}
