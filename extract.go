package isocube

import (
	"github.com/jhonatantft/isocube/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// maxPolygonVertices is the upper bound of vertices a cell polygon can have,
// one per cube edge.
const maxPolygonVertices = 12

// Extract returns the approximate isosurface polygon crossing a cell with the
// given corner values using the default cube topology.
// See Topology.Extract.
func Extract(corners [8]float64, threshold float64) []r3.Vec {
	return defaultTopology.Extract(corners, threshold)
}

// Extract returns the ordered polygon vertices of the isosurface crossing a cell.
// corners are the cell's scalar values in topology corner order.
//
// A vertex is placed at the midpoint of every edge whose corners lie on
// opposite sides of threshold, regardless of where the crossing actually
// falls on the edge. The vertices are then chained greedily, each next vertex
// being the nearest of those not yet placed. The chain is not guaranteed to be
// a simple polygon for cells with six or more active edges.
//
// Vertices are returned in cube-local coordinates. A nil slice is returned
// when the cell has no crossing.
func (t *Topology) Extract(corners [8]float64, threshold float64) []r3.Vec {
	return t.AppendExtract(nil, corners, threshold)
}

// AppendExtract is like Extract but appends the polygon to dst and returns
// the extended slice.
func (t *Topology) AppendExtract(dst []r3.Vec, corners [8]float64, threshold float64) []r3.Vec {
	var buf [maxPolygonVertices]int
	active := t.appendActive(buf[:0], corners, threshold)
	if len(active) == 0 {
		return dst
	}
	start := len(dst)
	for _, e := range active {
		dst = append(dst, t.midpoints[e])
	}
	chainNearest(dst[start:])
	return dst
}

// ActiveEdges returns the indices of the edges whose two corners straddle
// threshold, in edge table order. A corner equal to threshold counts as below.
func (t *Topology) ActiveEdges(corners [8]float64, threshold float64) []int {
	return t.appendActive(nil, corners, threshold)
}

func (t *Topology) appendActive(dst []int, corners [8]float64, threshold float64) []int {
	for i, e := range t.edges {
		if (corners[e[0]] > threshold) != (corners[e[1]] > threshold) {
			dst = append(dst, i)
		}
	}
	return dst
}

// chainNearest orders poly in place as a greedy nearest neighbor chain
// starting at poly[0]. Equidistant vertices keep their relative order.
func chainNearest(poly []r3.Vec) {
	var keys [maxPolygonVertices]float64
	for i := 0; i < len(poly)-1; i++ {
		a := poly[i]
		rest := poly[i+1:]
		dist := keys[:len(rest)]
		for j, v := range rest {
			dist[j] = d3.Dist(a, v)
		}
		// Stable insertion sort of the remaining vertices by distance to a.
		for j := 1; j < len(rest); j++ {
			k, v := dist[j], rest[j]
			m := j - 1
			for ; m >= 0 && dist[m] > k; m-- {
				dist[m+1] = dist[m]
				rest[m+1] = rest[m]
			}
			dist[m+1] = k
			rest[m+1] = v
		}
	}
}
