package store

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/swdee/go-trafficcount/counter"
)

// Ext is the file extension of series files
const Ext = ".msgpack"

// ErrOutputExists is returned when the output directory of a video already
// holds results
var ErrOutputExists = errors.New("output directory not empty")

// Times converts a per frame series into a map of elapsed seconds to value,
// where frame i is at i/fps seconds
func Times(values []int, fps float64) map[float64]int {

	res := make(map[float64]int, len(values))

	for i, v := range values {
		res[float64(i)/fps] = v
	}

	return res
}

// Save writes the series to <dir>/<name>.msgpack as a map of elapsed
// seconds to value with the keys in ascending order
func Save(dir, name string, values []int, fps float64) (string, error) {

	path := filepath.Join(dir, name+Ext)

	f, err := os.Create(path)

	if err != nil {
		return "", fmt.Errorf("error creating series file: %w", err)
	}

	w := bufio.NewWriter(f)

	if err := encodeSeries(msgpack.NewEncoder(w), values, fps); err != nil {
		f.Close()
		return "", fmt.Errorf("error encoding series %s: %w", name, err)
	}

	if err := w.Flush(); err != nil {
		f.Close()
		return "", fmt.Errorf("error writing series %s: %w", name, err)
	}

	if err := f.Close(); err != nil {
		return "", fmt.Errorf("error closing series file: %w", err)
	}

	return path, nil
}

// encodeSeries writes the series as a msgpack map in frame order, frame i
// keyed by i/fps
func encodeSeries(enc *msgpack.Encoder, values []int, fps float64) error {

	if err := enc.EncodeMapLen(len(values)); err != nil {
		return err
	}

	for i, v := range values {
		if err := enc.EncodeFloat64(float64(i) / fps); err != nil {
			return err
		}

		if err := enc.EncodeInt(int64(v)); err != nil {
			return err
		}
	}

	return nil
}

// SaveAll writes the series of every counter into dir and returns the paths
// of the files written
func SaveAll(dir string, counters []counter.Counter, fps float64) ([]string, error) {

	paths := make([]string, 0, len(counters))

	for _, c := range counters {

		path, err := Save(dir, c.Name(), c.Series(), fps)

		if err != nil {
			return paths, err
		}

		paths = append(paths, path)
	}

	return paths, nil
}

// Load reads a series file written by Save
func Load(path string) (map[float64]int, error) {

	f, err := os.Open(path)

	if err != nil {
		return nil, fmt.Errorf("error opening series file: %w", err)
	}

	defer f.Close()

	var res map[float64]int

	if err := msgpack.NewDecoder(bufio.NewReader(f)).Decode(&res); err != nil {
		return nil, fmt.Errorf("error decoding series file %s: %w", path, err)
	}

	return res, nil
}

// CountsSuffix is appended to the default output directory of inputs without
// an extension, such as directories of frame images, so results are not
// written among the frames
const CountsSuffix = "_counts"

// OutputDir returns the directory results of the video are written to.  When
// output is empty the video path without its extension is used, or the path
// with CountsSuffix appended when it has no extension
func OutputDir(video, output, ext string) string {

	if output != "" {
		return output
	}

	video = filepath.Clean(video)

	var dir string

	if ext != "" && strings.HasSuffix(video, ext) {
		dir = strings.TrimSuffix(video, ext)
	} else {
		dir = strings.TrimSuffix(video, filepath.Ext(video))
	}

	if dir == video || dir == "" || strings.HasSuffix(dir, string(filepath.Separator)) {
		return video + CountsSuffix
	}

	return dir
}

// Prepare creates the output directory.  ErrOutputExists is returned when
// the directory already has files in it so videos are not processed twice
func Prepare(dir string) error {

	entries, err := os.ReadDir(dir)

	switch {
	case err == nil && len(entries) > 0:
		return fmt.Errorf("%s: %w", dir, ErrOutputExists)
	case err != nil && !errors.Is(err, os.ErrNotExist):
		return fmt.Errorf("error reading output directory: %w", err)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("error creating output directory: %w", err)
	}

	return nil
}
