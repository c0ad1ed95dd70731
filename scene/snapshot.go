package scene

import (
	"github.com/soypat/glgl/math/ms3"
	"gonum.org/v1/gonum/spatial/r3"
)

// Snapshot is the read-only draw data of one frame in world coordinates.
// The grid is centered by subtracting Side/2 from every sample coordinate.
type Snapshot struct {
	Mode      DisplayMode
	Threshold float64
	Camera    Camera
	// Side is the number of field samples per axis.
	Side int
	// Points holds every field sample in points mode.
	Points []Point
	// Polygons holds every non empty cell polygon in mesh mode.
	Polygons []Polygon
}

// Point is a field sample position and whether it lies above the threshold.
type Point struct {
	Pos   ms3.Vec
	Above bool
}

// Polygon is a cell polygon translated to world coordinates.
type Polygon struct {
	Verts []ms3.Vec
	// Shade is a grey level in [0,1) graded along the X axis.
	Shade float32
}

// HalfExtent returns half the side of the grid bounding box.
func (s Snapshot) HalfExtent() float32 {
	return float32(s.Side-1) / 2
}

// Snapshot returns the draw data for the current state. Points mode reads
// only the field and mesh mode only the surface cache.
func (s *Scene) Snapshot() Snapshot {
	n := s.field.Side()
	snap := Snapshot{
		Mode:      s.mode,
		Threshold: s.threshold,
		Camera:    s.camera,
		Side:      n,
	}
	offset := float32(n / 2)
	switch s.mode {
	case ModePoints:
		snap.Points = make([]Point, 0, n*n*n)
		for x := 0; x < n; x++ {
			for y := 0; y < n; y++ {
				for z := 0; z < n; z++ {
					snap.Points = append(snap.Points, Point{
						Pos:   ms3.Vec{X: float32(x) - offset, Y: float32(y) - offset, Z: float32(z) - offset},
						Above: s.field.At(x, y, z) > s.threshold,
					})
				}
			}
		}
	case ModeMesh:
		verts := make([]ms3.Vec, 0, s.surface.VertexCount())
		s.surface.EachPolygon(func(x, y, z int, poly []r3.Vec) {
			start := len(verts)
			for _, v := range poly {
				verts = append(verts, ms3.Vec{
					X: float32(x) + float32(v.X) - offset,
					Y: float32(y) + float32(v.Y) - offset,
					Z: float32(z) + float32(v.Z) - offset,
				})
			}
			snap.Polygons = append(snap.Polygons, Polygon{
				Verts: verts[start:len(verts):len(verts)],
				Shade: float32(x) / float32(n),
			})
		})
	}
	return snap
}
