package fieldplot

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/jhonatantft/isocube"
)

func TestHistogram(t *testing.T) {
	f := isocube.MustField(6, isocube.NewSimplex(1))
	f.Regenerate(0.3)
	var buf bytes.Buffer
	if err := Histogram(&buf, f, 0.5, 20); err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dx() == 0 || img.Bounds().Dy() == 0 {
		t.Errorf("empty image %v", img.Bounds())
	}
}

func TestHistogramBins(t *testing.T) {
	f := isocube.MustField(4, isocube.NewSimplex(1))
	f.Regenerate(0.3)
	p, err := histPlot(f, 0.5, 10)
	if err != nil {
		t.Fatal(err)
	}
	if p.X.Min != 0 || p.X.Max != 1 {
		t.Errorf("x range [%g,%g], want [0,1]", p.X.Min, p.X.Max)
	}
	var buf bytes.Buffer
	if err := Histogram(&buf, f, 0.5, 0); err == nil {
		t.Error("expected error for zero bins")
	}
}
