package render

import (
	"bytes"
	"testing"

	"github.com/jhonatantft/isocube"
	"github.com/jhonatantft/isocube/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestFan(t *testing.T) {
	c := cellPolygon{
		origin: r3.Vec{X: 10, Y: 20, Z: 30},
		poly:   []r3.Vec{{X: 0.5}, {X: 1, Y: 0.5}, {X: 0.5, Y: 1}, {Y: 0.5}},
	}
	var dst [maxFanTriangles]Triangle3
	n := fan(dst[:], c)
	if n != 2 {
		t.Fatalf("got %d triangles, want 2", n)
	}
	want0 := r3.Add(c.origin, c.poly[0])
	for i, tri := range dst[:n] {
		if tri.V[0] != want0 {
			t.Errorf("triangle %d does not share the fan vertex", i)
		}
		if tri.V[1] != r3.Add(c.origin, c.poly[i+1]) || tri.V[2] != r3.Add(c.origin, c.poly[i+2]) {
			t.Errorf("triangle %d has wrong vertices %v", i, tri.V)
		}
		if tri.Degenerate(1e-12) {
			t.Errorf("triangle %d degenerate", i)
		}
	}
}

func TestMarchingPolygonMaxTriangles(t *testing.T) {
	// A saddle cell crosses all 12 edges.
	poly := isocube.Extract([8]float64{1, 0, 1, 0, 0, 1, 0, 1}, 0.5)
	var dst [maxFanTriangles]Triangle3
	if got := fan(dst[:], cellPolygon{poly: poly}); got != maxFanTriangles {
		t.Errorf("mismatch max fan triangles. got %d. want %d", got, maxFanTriangles)
	}
}

func TestPolygonRendererSmallBuffers(t *testing.T) {
	s := testSurface(t, 8, 0.5)
	want, err := RenderAll(NewPolygonRenderer(s, r3.Vec{}))
	if err != nil {
		t.Fatal(err)
	}
	for _, size := range []int{1, 3, maxFanTriangles - 1, maxFanTriangles, 64} {
		r := NewPolygonRenderer(s, r3.Vec{})
		buf := make([]Triangle3, size)
		var got []Triangle3
		for {
			n, err := r.ReadTriangles(buf)
			if err != nil {
				break
			}
			if n == 0 {
				t.Fatalf("buffer %d: ReadTriangles returned no triangles and no error", size)
			}
			got = append(got, buf[:n]...)
		}
		if len(got) != len(want) || r.Triangles() != len(want) {
			t.Fatalf("buffer %d: got %d triangles, want %d", size, len(got), len(want))
		}
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("buffer %d: triangle %d out of order", size, i)
			}
		}
	}
}

func TestSTLWriteReadback(t *testing.T) {
	const tol = 1e-5
	s := testSurface(t, 10, 0.4)
	input, err := RenderAll(NewPolygonRenderer(s, CenteredOrigin(10)))
	if err != nil {
		t.Fatal(err)
	}
	var b bytes.Buffer
	err = WriteSTL(&b, input)
	if err != nil {
		t.Fatal(err)
	}
	if b.Len() != stlHeaderSize+stlFacetSize*len(input) {
		t.Fatalf("got %d bytes for %d triangles", b.Len(), len(input))
	}
	output, err := ReadSTL(&b)
	if err != nil {
		t.Fatal(err)
	}
	if len(output) != len(input) {
		t.Fatal("length of triangles written/read not equal")
	}
	mismatches := 0
	for iface, expect := range input {
		got := output[iface]
		for i := range expect.V {
			if !d3.EqualWithin(got.V[i], expect.V[i], tol) {
				mismatches++
				t.Errorf("%dth triangle equality out of tolerance. got vertex %0.5g, want %0.5g", iface, got.V[i], expect.V[i])
			}
		}
		if mismatches > 10 {
			t.Fatal("too many mismatches")
		}
	}
}

func TestWriteSTLEmpty(t *testing.T) {
	var b bytes.Buffer
	if err := WriteSTL(&b, nil); err == nil {
		t.Error("expected error writing empty model")
	}
}

func testSurface(t testing.TB, n int, threshold float64) *isocube.Surface {
	f, err := isocube.NewField(n, isocube.NewSimplex(3))
	if err != nil {
		t.Fatal(err)
	}
	f.Regenerate(0.5)
	s := isocube.NewSurface(nil)
	s.Rebuild(f, threshold)
	return s
}
