// Package fieldplot plots the distribution of field samples.
package fieldplot

import (
	"fmt"
	"image/color"
	"io"

	"github.com/jhonatantft/isocube"
	"github.com/pkg/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

const (
	width  = 6 * vg.Inch
	height = 4 * vg.Inch
)

// Histogram writes a PNG histogram of the samples of f in bins bins with a
// vertical line marking threshold.
func Histogram(w io.Writer, f *isocube.Field, threshold float64, bins int) error {
	p, err := histPlot(f, threshold, bins)
	if err != nil {
		return err
	}
	wt, err := p.WriterTo(width, height, "png")
	if err != nil {
		return errors.Wrap(err, "histogram writer")
	}
	_, err = wt.WriteTo(w)
	return errors.Wrap(err, "write histogram")
}

func histPlot(f *isocube.Field, threshold float64, bins int) (*plot.Plot, error) {
	if bins < 1 {
		return nil, errors.Errorf("need at least one bin, got %d", bins)
	}
	p := plot.New()
	p.Title.Text = fmt.Sprintf("%d³ samples, seed %.4f", f.Side(), f.Seed())
	p.X.Label.Text = "value"
	p.Y.Label.Text = "count"
	p.X.Min, p.X.Max = 0, 1

	h, err := plotter.NewHist(plotter.Values(f.Samples()), bins)
	if err != nil {
		return nil, errors.Wrap(err, "histogram")
	}
	p.Add(h)

	var maxCount float64
	for _, b := range h.Bins {
		maxCount = max(maxCount, b.Weight)
	}
	line, err := plotter.NewLine(plotter.XYs{{X: threshold, Y: 0}, {X: threshold, Y: maxCount}})
	if err != nil {
		return nil, errors.Wrap(err, "threshold line")
	}
	line.Color = color.RGBA{R: 200, A: 255}
	line.Width = vg.Points(2)
	p.Add(line)
	p.Legend.Add(fmt.Sprintf("threshold %.2f", threshold), line)
	return p, nil
}
