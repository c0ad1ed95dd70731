package isocube

import (
	"github.com/alitto/pond/v2"
	"gonum.org/v1/gonum/spatial/r3"
)

// Surface caches the polygon of every cell of a Field for one threshold.
// Polygons of all cells share one contiguous vertex buffer which is
// replaced, never modified, on rebuild. Slices returned by Polygon remain
// valid and unchanged after later rebuilds.
type Surface struct {
	topo *Topology
	// cells per axis.
	c     int
	verts []r3.Vec
	// offs[i]:offs[i+1] is the vertex range of cell i.
	offs []int

	field     *Field
	gen       uint64
	threshold float64
	built     bool
}

// NewSurface returns an empty surface cache that evaluates cells against topo.
// A nil topo selects DefaultTopology.
func NewSurface(topo *Topology) *Surface {
	if topo == nil {
		topo = DefaultTopology()
	}
	return &Surface{topo: topo}
}

// Rebuild recomputes the polygon of every cell of f for threshold, discarding
// the previous contents.
func (s *Surface) Rebuild(f *Field, threshold float64) {
	s.reset(f)
	verts := make([]r3.Vec, 0, len(s.verts))
	for z := 0; z < s.c; z++ {
		verts = s.appendSlab(verts, f, threshold, z)
	}
	s.commit(f, threshold, verts)
}

// RebuildParallel is like Rebuild but extracts z slabs of cells concurrently
// using up to workers goroutines. It returns once the whole cache is rebuilt
// and the result is identical to Rebuild.
func (s *Surface) RebuildParallel(f *Field, threshold float64, workers int) error {
	if workers <= 1 || f.Cells() < 2 {
		s.Rebuild(f, threshold)
		return nil
	}
	s.reset(f)
	slabs := make([][]r3.Vec, s.c)
	pool := pond.NewPool(workers)
	defer pool.StopAndWait()
	group := pool.NewGroup()
	for z := 0; z < s.c; z++ {
		group.Submit(func() {
			// Each slab writes only its own range of offsets.
			slabs[z] = s.appendSlab(nil, f, threshold, z)
		})
	}
	if err := group.Wait(); err != nil {
		return err
	}
	total := 0
	for _, slab := range slabs {
		total += len(slab)
	}
	verts := make([]r3.Vec, 0, total)
	cc := s.c * s.c
	for z, slab := range slabs {
		base := len(verts)
		offs := s.offs[z*cc+1 : (z+1)*cc+1]
		for i := range offs {
			offs[i] += base
		}
		verts = append(verts, slab...)
	}
	s.commit(f, threshold, verts)
	return nil
}

func (s *Surface) reset(f *Field) {
	c := f.Cells()
	if s.c != c || len(s.offs) != c*c*c+1 {
		s.c = c
		s.offs = make([]int, c*c*c+1)
	}
	s.built = false
}

func (s *Surface) commit(f *Field, threshold float64, verts []r3.Vec) {
	s.verts = verts
	s.field = f
	s.gen = f.Generation()
	s.threshold = threshold
	s.built = true
}

// appendSlab extracts the cells of slab z in linear index order, appending
// their vertices to dst. The end offset of every cell is recorded relative
// to the start of dst.
func (s *Surface) appendSlab(dst []r3.Vec, f *Field, threshold float64, z int) []r3.Vec {
	for y := 0; y < s.c; y++ {
		for x := 0; x < s.c; x++ {
			dst = s.topo.AppendExtract(dst, f.Corners(x, y, z), threshold)
			s.offs[s.index(x, y, z)+1] = len(dst)
		}
	}
	return dst
}

func (s *Surface) index(x, y, z int) int {
	return x + y*s.c + z*s.c*s.c
}

// Cells returns the number of cells per axis.
func (s *Surface) Cells() int { return s.c }

// Threshold returns the threshold of the last rebuild.
func (s *Surface) Threshold() float64 { return s.threshold }

// Generation returns the field generation of the last rebuild.
func (s *Surface) Generation() uint64 { return s.gen }

// Stale reports whether the cache does not reflect f at threshold.
func (s *Surface) Stale(f *Field, threshold float64) bool {
	return !s.built || s.field != f || s.gen != f.Generation() ||
		s.threshold != threshold || s.c != f.Cells()
}

// Polygon returns the cube-local polygon of cell (x,y,z). The returned
// slice must not be modified.
func (s *Surface) Polygon(x, y, z int) []r3.Vec {
	i := s.index(x, y, z)
	lo, hi := s.offs[i], s.offs[i+1]
	return s.verts[lo:hi:hi]
}

// Len returns the number of cells in the cache.
func (s *Surface) Len() int { return s.c * s.c * s.c }

// NonEmpty returns the number of cells with a polygon.
func (s *Surface) NonEmpty() (n int) {
	for i := 0; i < len(s.offs)-1; i++ {
		if s.offs[i+1] > s.offs[i] {
			n++
		}
	}
	return n
}

// VertexCount returns the total number of polygon vertices in the cache.
func (s *Surface) VertexCount() int { return len(s.verts) }

// EachPolygon calls fn for every cell with a polygon, iterating x in the
// outer loop and z in the inner loop.
func (s *Surface) EachPolygon(fn func(x, y, z int, poly []r3.Vec)) {
	for x := 0; x < s.c; x++ {
		for y := 0; y < s.c; y++ {
			for z := 0; z < s.c; z++ {
				if poly := s.Polygon(x, y, z); len(poly) > 0 {
					fn(x, y, z, poly)
				}
			}
		}
	}
}
