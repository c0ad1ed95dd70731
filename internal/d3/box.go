package d3

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

var inf = math.Inf(1)

// Box is an axis aligned box. Bounds are inclusive.
type Box r3.Box

// GridBox returns the box spanned by a grid of cells cells per axis whose
// first sample lies at origin.
func GridBox(origin r3.Vec, cells int) Box {
	return Box{Min: origin, Max: r3.Add(origin, Elem(float64(cells)))}
}

// EmptyBox returns an inverted box that any Include call replaces.
func EmptyBox() Box {
	return Box{Min: Elem(inf), Max: Elem(-inf)}
}

// Include grows a to contain v.
func (a Box) Include(v r3.Vec) Box {
	return Box{Min: MinElem(a.Min, v), Max: MaxElem(a.Max, v)}
}

// Grow returns a scaled by k about its center.
func (a Box) Grow(k float64) Box {
	c := Midpoint(a.Min, a.Max)
	half := r3.Scale(k/2, r3.Sub(a.Max, a.Min))
	return Box{Min: r3.Sub(c, half), Max: r3.Add(c, half)}
}

// Contains reports whether v lies in a, bounds included.
func (a Box) Contains(v r3.Vec) bool {
	return a.Min.X <= v.X && v.X <= a.Max.X &&
		a.Min.Y <= v.Y && v.Y <= a.Max.Y &&
		a.Min.Z <= v.Z && v.Z <= a.Max.Z
}
