package render

import (
	"io"

	sdfrender "github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/jhonatantft/isocube"
	"github.com/jhonatantft/isocube/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// ReferenceMesher renders the isosurface of a field with full Marching
// Cubes over the trilinearly interpolated samples, a watertight baseline for
// the cell polygon approximation.
type ReferenceMesher struct {
	s     fieldSDF
	cells int
	done  bool
	queue pending
}

var _ sdf.SDF3 = fieldSDF{}

// fieldSDF presents a field as a signed distance-like function, negative
// where the field is above threshold.
type fieldSDF struct {
	f         *isocube.Field
	threshold float64
	origin    r3.Vec
}

func (s fieldSDF) Evaluate(p v3.Vec) float64 {
	local := r3.Sub(r3.Vec{X: p.X, Y: p.Y, Z: p.Z}, s.origin)
	return s.threshold - s.f.Sample(local)
}

func (s fieldSDF) BoundingBox() sdf.Box3 {
	bb := d3.GridBox(s.origin, s.f.Cells())
	return sdf.Box3{Min: toV3(bb.Min), Max: toV3(bb.Max)}
}

// NewReferenceMesher returns a full Marching Cubes renderer of f at threshold
// sampled with one marching cube per field cell. The field is placed with
// sample (0,0,0) at origin. The field must not change while the mesher is read.
func NewReferenceMesher(f *isocube.Field, threshold float64, origin r3.Vec) *ReferenceMesher {
	return &ReferenceMesher{
		s:     fieldSDF{f: f, threshold: threshold, origin: origin},
		cells: f.Cells(),
	}
}

// ReadTriangles writes triangles of the reference mesh into dst.
func (m *ReferenceMesher) ReadTriangles(dst []Triangle3) (int, error) {
	if len(dst) == 0 {
		panic("cannot write to empty triangle slice")
	}
	if !m.done {
		m.march()
	}
	if m.queue.Len() == 0 {
		return 0, io.EOF
	}
	return m.queue.drain(dst), nil
}

func (m *ReferenceMesher) march() {
	m.done = true
	mc := sdfrender.NewMarchingCubesUniform(m.cells)
	for _, tri := range sdfrender.ToTriangles(m.s, mc) {
		t := Triangle3{V: [3]r3.Vec{
			fromV3(tri[0]),
			fromV3(tri[1]),
			fromV3(tri[2]),
		}}
		if t.Degenerate(0) {
			continue
		}
		m.queue.push(t)
	}
}

func toV3(v r3.Vec) v3.Vec {
	return v3.Vec{X: v.X, Y: v.Y, Z: v.Z}
}

func fromV3(v v3.Vec) r3.Vec {
	return r3.Vec{X: v.X, Y: v.Y, Z: v.Z}
}
