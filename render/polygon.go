package render

import (
	"io"

	"github.com/jhonatantft/isocube"
	"gonum.org/v1/gonum/spatial/r3"
)

// maxFanTriangles is the most triangles a single cell polygon fans into.
const maxFanTriangles = 10

// PolygonRenderer streams the cell polygons of a Surface as triangle fans
// in world coordinates.
type PolygonRenderer struct {
	todo  []cellPolygon
	queue pending
	// triangles counts triangles handed out so far.
	triangles int
}

type cellPolygon struct {
	origin r3.Vec // world position of the cell's (0,0,0) corner.
	poly   []r3.Vec
}

// NewPolygonRenderer returns a renderer over the polygons currently cached in s.
// Cell (x,y,z) is placed at origin+(x,y,z). Later rebuilds of s do not affect
// the returned renderer.
func NewPolygonRenderer(s *isocube.Surface, origin r3.Vec) *PolygonRenderer {
	var todo []cellPolygon
	s.EachPolygon(func(x, y, z int, poly []r3.Vec) {
		if len(poly) < 3 {
			// Nothing to fan.
			return
		}
		todo = append(todo, cellPolygon{
			origin: r3.Add(origin, r3.Vec{X: float64(x), Y: float64(y), Z: float64(z)}),
			poly:   poly,
		})
	})
	return &PolygonRenderer{
		todo:  todo,
		queue: pending{tris: make([]Triangle3, 0, maxFanTriangles)},
	}
}

// CenteredOrigin returns the origin that centers a field of side n samples
// about (0,0,0) the way it is drawn on screen.
func CenteredOrigin(n int) r3.Vec {
	off := -float64(n / 2)
	return r3.Vec{X: off, Y: off, Z: off}
}

// ReadTriangles writes triangles of the cached polygons into dst.
// Returns number of triangles written and io.EOF once all have been read.
func (p *PolygonRenderer) ReadTriangles(dst []Triangle3) (n int, err error) {
	if len(dst) == 0 {
		panic("cannot write to empty triangle slice")
	}
	if len(p.todo) == 0 && p.queue.Len() == 0 {
		return 0, io.EOF
	}
	n += p.queue.drain(dst)
	for n < len(dst) && len(p.todo) > 0 {
		c := p.todo[0]
		p.todo = p.todo[1:]
		if n+maxFanTriangles > len(dst) {
			// Not enough room in dst for a worst case fan.
			var tmp [maxFanTriangles]Triangle3
			nt := fan(tmp[:], c)
			written := copy(dst[n:], tmp[:nt])
			p.queue.push(tmp[written:nt]...)
			n += written
			break
		}
		n += fan(dst[n:], c)
	}
	p.triangles += n
	return n, nil
}

// Triangles returns the number of triangles read so far.
func (p *PolygonRenderer) Triangles() int { return p.triangles }

// fan triangulates the polygon around its first vertex.
func fan(dst []Triangle3, c cellPolygon) (n int) {
	v0 := r3.Add(c.origin, c.poly[0])
	for i := 1; i+1 < len(c.poly); i++ {
		dst[n] = Triangle3{V: [3]r3.Vec{
			v0,
			r3.Add(c.origin, c.poly[i]),
			r3.Add(c.origin, c.poly[i+1]),
		}}
		n++
	}
	return n
}
