package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gocv.io/x/gocv"

	"github.com/swdee/go-trafficcount"
	"github.com/swdee/go-trafficcount/counter"
	"github.com/swdee/go-trafficcount/detector"
	"github.com/swdee/go-trafficcount/geometry"
	"github.com/swdee/go-trafficcount/pipeline"
	"github.com/swdee/go-trafficcount/render"
	"github.com/swdee/go-trafficcount/report"
	"github.com/swdee/go-trafficcount/store"
	"github.com/swdee/go-trafficcount/tracker"
	"github.com/swdee/go-trafficcount/tracker/mil"
	"github.com/swdee/go-trafficcount/video"
	"github.com/swdee/go-trafficcount/zone"
)

// trailSize is the number of center points drawn behind tracked objects
const trailSize = 30

// Counter holds the settings shared by all videos processed
type Counter struct {
	cfg     pipeline.Config
	site    *zone.Site
	pool    *trafficcount.Pool[*detector.Darknet]
	db      *store.SQLite
	runID   string
	output  string
	ext     string
	width   int
	fps     float64
	display bool
	plot    bool
	log     zerolog.Logger
}

// Process counts the vehicles in one video, or directory of frame images,
// and writes the counter series to its output directory
func (c *Counter) Process(ctx context.Context, input string) error {

	log := c.log.With().Str("video", input).Logger()

	outDir := store.OutputDir(input, c.output, c.ext)

	// an explicit output directory is used as is
	if c.output == "" {
		if err := store.Prepare(outDir); err != nil {
			if errors.Is(err, store.ErrOutputExists) {
				log.Info().Str("output", outDir).Msg("Skipping, output exists")
				return nil
			}
			return err
		}
	} else if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}

	src, err := c.open(input, log)

	if err != nil {
		return err
	}

	defer src.Close()

	// detection networks can not be shared between goroutines
	det := c.pool.Get()
	defer c.pool.Return(det)

	opts := []pipeline.Option[*gocv.Mat]{pipeline.WithLogger[*gocv.Mat](log)}

	// counters are read by the display hook once the pipeline exists
	var pl *pipeline.Pipeline[*gocv.Mat]

	if c.display {
		window := gocv.NewWindow("trafficcount")
		defer window.Close()

		opts = append(opts, pipeline.WithHook(c.displayHook(window,
			func() []counter.Counter { return pl.Counters() })))
	}

	pl, err = pipeline.New[*gocv.Mat](det, mil.New, c.site, c.cfg, opts...)

	if err != nil {
		return err
	}

	defer pl.Close()

	log.Info().Float64("fps", src.FPS()).Msg("Processing video")
	start := time.Now()

	stats, err := pl.Run(ctx, src)

	if err != nil {
		return err
	}

	log.Info().Int("frames", stats.Frames).Bool("stopped", stats.Stopped).
		Dur("duration", time.Since(start)).Msg("Finished video")

	counters := pl.Counters()

	paths, err := store.SaveAll(outDir, counters, stats.FPS)

	if err != nil {
		return err
	}

	for _, p := range paths {
		log.Debug().Str("file", p).Msg("Saved series")
	}

	if c.db != nil {
		if err := c.db.Write(ctx, c.runID, input, counters, stats.FPS); err != nil {
			return err
		}
	}

	if c.plot && len(counters) > 0 {
		chart := filepath.Join(outDir, "counts.png")

		if err := report.Plot(chart, filepath.Base(input), counters, stats.FPS); err != nil {
			return err
		}

		log.Debug().Str("file", chart).Msg("Saved chart")
	}

	return nil
}

// open returns the frame source for a video file or a directory of frames
func (c *Counter) open(input string, log zerolog.Logger) (pipeline.Source[*gocv.Mat], error) {

	var crop geometry.Rect

	if c.site != nil {
		crop = c.site.Crop
	}

	info, err := os.Stat(input)

	if err != nil {
		return nil, err
	}

	if info.IsDir() {
		dir, err := video.OpenImageDir(input, c.fps, c.width, crop, log)

		if err != nil {
			return nil, err
		}

		return video.NewMats(dir, log), nil
	}

	return video.OpenCapture(input, c.width, crop)
}

// displayHook renders the tracked objects, zones and counters on each frame
// and shows it in the window.  Pressing q stops processing the video
func (c *Counter) displayHook(window *gocv.Window,
	counters func() []counter.Counter) pipeline.Hook[*gocv.Mat] {

	trail := tracker.NewTrail(trailSize)
	font := render.DefaultFont()
	counterFont := render.CounterFont()
	zoneStyle := render.DefaultZoneStyle()
	trailStyle := render.DefaultTrailStyle()

	return func(frame *gocv.Mat, res pipeline.FrameResult) error {

		for _, trk := range res.Tracks {
			trail.Add(trk.ID, trk.Box)
		}

		trail.Prune()

		current := counters()

		render.DetectionBoxes(frame, res.Boxes, font, 2)
		render.TrackerBoxes(frame, res.Tracks, font, 1)
		render.Trail(frame, res.Tracks, trail, trailStyle)
		render.Zones(frame, c.site, current, zoneStyle)
		render.Counters(frame, current, counterFont)

		window.IMShow(*frame)

		if window.WaitKey(1) == 'q' {
			return pipeline.ErrStop
		}

		return nil
	}
}

// inputs returns the files matching the glob pattern that have not been
// processed yet
func inputs(pattern string, done map[string]bool) ([]string, error) {

	matches, err := filepath.Glob(pattern)

	if err != nil {
		return nil, err
	}

	var res []string

	for _, m := range matches {
		if !done[m] {
			res = append(res, m)
		}
	}

	slices.Sort(res)

	return res, nil
}

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	// read in cli flags
	input := flag.String("i", "", "Path to the input video file or glob, a directory is read as video frame images")
	output := flag.String("o", "", "Output directory, defaults to the video path without its extension")
	frameSkip := flag.Int("f", pipeline.DefaultFrameSkip, "Number of frames between object detections")
	confidence := flag.Float64("c", pipeline.DefaultMinConfidence, "Minimum confidence of detections")
	frameWidth := flag.Int("w", 1280, "Width in pixels frames are scaled to")
	display := flag.Bool("d", false, "Display frames during analysis, press q to skip to the next video")
	dataset := flag.String("ds", "", "Dataset name of the site zone configuration")
	sites := flag.String("sites", "", "YAML file with additional site zone configurations")
	ext := flag.String("ext", ".mp4", "Video file extension")
	modelCfg := flag.String("cfg", "../data/yolov3.cfg", "Darknet YOLOv3 model configuration file")
	weights := flag.String("weights", "../data/yolov3.weights", "Darknet YOLOv3 weights file")
	labelFile := flag.String("l", "../data/coco.names", "Text file containing model labels")
	backend := flag.String("backend", "cpu", "Network backend [cpu|cuda]")
	workers := flag.Int("workers", 1, "Number of videos to process in parallel")
	fps := flag.Float64("fps", pipeline.DefaultFPS, "Frame rate of frame image directories")
	dbFile := flag.String("db", "", "SQLite database to also store counts in")
	plot := flag.Bool("plot", false, "Save a chart of the counters with each video")
	logLevel := flag.String("log", "info", "Log level [trace|debug|info|warn|error]")

	flag.Parse()

	level, err := zerolog.ParseLevel(*logLevel)

	if err != nil {
		log.Warn().Str("level", *logLevel).Msg("Invalid log level, using info")
		level = zerolog.InfoLevel
	}

	zerolog.SetGlobalLevel(level)

	if *input == "" {
		log.Fatal().Msg("No input given, use -i")
	}

	// windows must be used from a single thread
	if *display && *workers > 1 {
		log.Warn().Msg("Display enabled, processing one video at a time")
		*workers = 1
	}

	registry := zone.Builtin()

	if *sites != "" {
		loaded, err := zone.LoadFile(*sites)

		if err != nil {
			log.Fatal().Err(err).Msg("Error loading sites")
		}

		registry.Merge(loaded)
	}

	cfg := pipeline.DefaultConfig()
	cfg.FrameSkip = *frameSkip
	cfg.MinConfidence = float32(*confidence)

	runID := uuid.NewString()

	c := &Counter{
		cfg:     cfg,
		runID:   runID,
		output:  *output,
		ext:     *ext,
		width:   *frameWidth,
		fps:     *fps,
		display: *display,
		plot:    *plot,
		log:     log.With().Str("run", runID).Logger(),
	}

	if site, ok := registry.Lookup(*dataset); ok {
		c.site = &site
	} else {
		log.Warn().Str("dataset", *dataset).Strs("known", registry.Names()).
			Msg("Unknown dataset, counting disabled")
	}

	labels, err := trafficcount.LoadLabels(*labelFile)

	if err != nil {
		log.Fatal().Err(err).Msg("Error loading labels")
	}

	detCfg := detector.DefaultConfig(*modelCfg, *weights, labels)
	detCfg.Backend = detector.Backend(strings.ToLower(*backend))

	c.pool, err = trafficcount.NewPool(*workers, func(int) (*detector.Darknet, error) {
		return detector.NewDarknet(detCfg)
	})

	if err != nil {
		log.Fatal().Err(err).Msg("Error creating detector pool")
	}

	defer c.pool.Close()

	if *dbFile != "" {
		c.db, err = store.OpenSQLite(*dbFile)

		if err != nil {
			log.Fatal().Err(err).Msg("Error opening database")
		}

		defer c.db.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// keep processing while new videos matching the input appear
	done := make(map[string]bool)

	for ctx.Err() == nil {
		todo, err := inputs(*input, done)

		if err != nil {
			log.Error().Err(err).Msg("Invalid input pattern")
			return
		}

		if len(todo) == 0 {
			break
		}

		jobs := make(chan string)
		var wg sync.WaitGroup

		for i := 0; i < *workers; i++ {
			wg.Add(1)

			go func() {
				defer wg.Done()

				for path := range jobs {
					if err := c.Process(ctx, path); err != nil {
						c.log.Error().Err(err).Str("video", path).Msg("Error processing video")
					}
				}
			}()
		}

		for _, path := range todo {
			done[path] = true

			if ctx.Err() != nil {
				break
			}

			jobs <- path
		}

		close(jobs)
		wg.Wait()
	}

	log.Info().Int("videos", len(done)).Msg("Done")
}
