package render_test

import (
	"math"
	"testing"

	"github.com/jhonatantft/isocube"
	"github.com/jhonatantft/isocube/internal/d3"
	"github.com/jhonatantft/isocube/render"
	"gonum.org/v1/gonum/spatial/r3"
)

const benchSide = 33

func TestPolygonRendererTriangleCount(t *testing.T) {
	for _, threshold := range []float64{0.2, 0.5, 0.8} {
		s := surface(t, 10, threshold)
		want := 0
		s.EachPolygon(func(x, y, z int, poly []r3.Vec) {
			if len(poly) < 3 {
				t.Fatalf("cell (%d,%d,%d) has a %d vertex polygon", x, y, z, len(poly))
			}
			want += len(poly) - 2
		})
		model, err := render.RenderAll(render.NewPolygonRenderer(s, r3.Vec{}))
		if err != nil {
			t.Fatal(err)
		}
		if len(model) != want {
			t.Errorf("threshold %g: got %d triangles, want %d", threshold, len(model), want)
		}
		// Every triangle lies inside the grid.
		box := d3.GridBox(r3.Vec{}, s.Cells())
		for i, tri := range model {
			for _, v := range tri.V {
				if !box.Contains(v) {
					t.Fatalf("triangle %d vertex %v outside grid", i, v)
				}
			}
		}
	}
}

func TestCenteredOrigin(t *testing.T) {
	for _, test := range []struct {
		n    int
		want float64
	}{
		{n: 11, want: -5},
		{n: 10, want: -5},
		{n: 2, want: -1},
	} {
		if got := render.CenteredOrigin(test.n); got != d3.Elem(test.want) {
			t.Errorf("n=%d: got %v, want %v", test.n, got, d3.Elem(test.want))
		}
	}
}

func TestReferenceMesherSphere(t *testing.T) {
	const n = 17
	ball := isocube.NoiseFunc(func(x, y, z, w float64) float64 {
		return -math.Sqrt((x-0.5)*(x-0.5) + (y-0.5)*(y-0.5) + (z-0.5)*(z-0.5))
	})
	f, err := isocube.NewField(n, ball)
	if err != nil {
		t.Fatal(err)
	}
	f.Regenerate(0)
	origin := render.CenteredOrigin(n)
	model, err := render.RenderAll(render.NewReferenceMesher(f, 0.5, origin))
	if err != nil {
		t.Fatal(err)
	}
	if len(model) == 0 {
		t.Fatal("reference mesher produced no triangles for a ball")
	}
	bounds := d3.GridBox(origin, n-1).Grow(1.1)
	for i, tri := range model {
		if tri.Degenerate(0) {
			t.Fatalf("triangle %d degenerate", i)
		}
		for _, v := range tri.V {
			if !bounds.Contains(v) {
				t.Fatalf("triangle %d vertex %v outside field bounds", i, v)
			}
		}
	}

	// The polygon approximation covers the same ball.
	s := isocube.NewSurface(nil)
	s.Rebuild(f, 0.5)
	if s.NonEmpty() == 0 {
		t.Fatal("no cell polygons for a ball")
	}
}

func TestTriangleIndex(t *testing.T) {
	s := surface(t, 10, 0.5)
	model, err := render.RenderAll(render.NewPolygonRenderer(s, r3.Vec{}))
	if err != nil {
		t.Fatal(err)
	}
	idx := render.NewTriangleIndex(model)
	if idx.Len() != len(model) {
		t.Fatalf("indexed %d of %d triangles", idx.Len(), len(model))
	}
	box := d3.GridBox(r3.Vec{}, s.Cells())
	if b := d3.Box(idx.Bounds()); !box.Contains(b.Min) || !box.Contains(b.Max) {
		t.Errorf("index bounds %v outside grid", b)
	}
	for _, tri := range model[:min(len(model), 50)] {
		c := r3.Scale(1./3., r3.Add(tri.V[0], r3.Add(tri.V[1], tri.V[2])))
		_, d, ok := idx.Nearest(c)
		if !ok || d > 1e-12 {
			t.Fatalf("centroid %v of an indexed triangle at distance %g", c, d)
		}
	}
	if dev := render.MeasureDeviation(model, idx); dev.Max > 1e-12 || dev.Samples != len(model) {
		t.Errorf("self deviation %+v", dev)
	}

	empty := render.NewTriangleIndex(nil)
	if _, _, ok := empty.Nearest(r3.Vec{}); ok {
		t.Error("empty index returned a triangle")
	}
	if dev := render.MeasureDeviation(model, empty); dev.Samples != 0 {
		t.Errorf("deviation against empty index %+v", dev)
	}
}

func TestPolygonDeviationFromReference(t *testing.T) {
	f, err := isocube.NewField(12, isocube.NewSimplex(11))
	if err != nil {
		t.Fatal(err)
	}
	f.Regenerate(0.125)
	s := isocube.NewSurface(nil)
	s.Rebuild(f, 0.5)
	poly, err := render.RenderAll(render.NewPolygonRenderer(s, r3.Vec{}))
	if err != nil {
		t.Fatal(err)
	}
	ref, err := render.RenderAll(render.NewReferenceMesher(f, 0.5, r3.Vec{}))
	if err != nil {
		t.Fatal(err)
	}
	dev := render.MeasureDeviation(poly, render.NewTriangleIndex(ref))
	// Both meshes cross the same cells so centroids stay within two cell
	// diagonals, and mostly much closer.
	if dev.Samples != len(poly) || dev.Max > 2*math.Sqrt(3)+0.1 || dev.Mean > 1 {
		t.Errorf("deviation %+v", dev)
	}
}

func BenchmarkPolygonRenderer(b *testing.B) {
	s := surface(b, benchSide, 0.5)
	for i := 0; i < b.N; i++ {
		render.RenderAll(render.NewPolygonRenderer(s, r3.Vec{}))
	}
}

func BenchmarkReferenceMesher(b *testing.B) {
	f, _ := isocube.NewField(benchSide, isocube.NewSimplex(1))
	f.Regenerate(0.5)
	for i := 0; i < b.N; i++ {
		render.RenderAll(render.NewReferenceMesher(f, 0.5, r3.Vec{}))
	}
}

func surface(t testing.TB, n int, threshold float64) *isocube.Surface {
	f, err := isocube.NewField(n, isocube.NewSimplex(11))
	if err != nil {
		t.Fatal(err)
	}
	f.Regenerate(0.125)
	s := isocube.NewSurface(nil)
	s.Rebuild(f, threshold)
	return s
}
