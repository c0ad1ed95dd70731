// Package render converts cached cell polygons into triangle streams and
// writes them out as STL.
package render

import (
	"github.com/jhonatantft/isocube/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// Renderer streams triangles. ReadTriangles fills dst and returns the number
// of triangles written. Once every triangle has been read it returns 0, io.EOF.
type Renderer interface {
	ReadTriangles(dst []Triangle3) (int, error)
}

// Triangle3 is a 3D triangle.
type Triangle3 struct {
	V [3]r3.Vec
}

// Normal returns the unit normal of the triangle following the right hand rule.
func (t Triangle3) Normal() r3.Vec {
	return d3.Normal(t.V[0], t.V[1], t.V[2])
}

// Degenerate returns true if the triangle area is within tol of zero.
func (t Triangle3) Degenerate(tol float64) bool {
	return d3.Degenerate(t.V[0], t.V[1], t.V[2], tol)
}
