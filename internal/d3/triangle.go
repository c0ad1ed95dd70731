package d3

import "gonum.org/v1/gonum/spatial/r3"

// Normal returns the unit normal of the triangle a,b,c following
// the right hand rule. Degenerate triangles return the zero vector.
func Normal(a, b, c r3.Vec) r3.Vec {
	n := r3.Cross(r3.Sub(b, a), r3.Sub(c, a))
	if r3.Norm(n) == 0 {
		return r3.Vec{}
	}
	return r3.Unit(n)
}

// Degenerate returns true if the triangle a,b,c has (near) zero area.
func Degenerate(a, b, c r3.Vec, tol float64) bool {
	return r3.Norm(r3.Cross(r3.Sub(b, a), r3.Sub(c, a))) <= tol
}
