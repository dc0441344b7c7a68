package report

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/swdee/go-trafficcount/counter"
)

// Plot draws the series of the counters against elapsed seconds into an
// image file, the format is taken from the file extension (png, svg, pdf)
func Plot(path, title string, counters []counter.Counter, fps float64) error {

	if fps <= 0 {
		return fmt.Errorf("invalid frame rate %v", fps)
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Time (s)"
	p.Y.Label.Text = "Vehicles"

	for i, c := range counters {

		values := c.Series()
		pts := make(plotter.XYs, len(values))

		for j, v := range values {
			pts[j] = plotter.XY{X: float64(j) / fps, Y: float64(v)}
		}

		line, err := plotter.NewLine(pts)

		if err != nil {
			return fmt.Errorf("error plotting %s: %w", c.Name(), err)
		}

		line.Color = plotutil.Color(i)
		line.Width = vg.Points(1)

		p.Add(line)
		p.Legend.Add(c.Name(), line)
	}

	p.Legend.Top = true
	p.Legend.Left = true
	p.Legend.XOffs = 10
	p.Legend.YOffs = -10

	if err := p.Save(14*vg.Inch, 6*vg.Inch, path); err != nil {
		return fmt.Errorf("error saving plot: %w", err)
	}

	return nil
}
