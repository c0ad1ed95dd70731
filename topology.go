package isocube

import (
	"github.com/jhonatantft/isocube/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// Edge is a cube edge given as the indices of its two corners.
type Edge [2]int

// Topology is the fixed unit cube layout every cell is evaluated against.
// The zero value is not usable, use DefaultTopology.
type Topology struct {
	corners   [8]r3.Vec
	edges     [12]Edge
	midpoints [12]r3.Vec
}

var defaultTopology = newTopology(
	[8]r3.Vec{
		{X: 0, Y: 0, Z: 0},
		{X: 1, Y: 0, Z: 0},
		{X: 1, Y: 1, Z: 0},
		{X: 0, Y: 1, Z: 0},
		{X: 0, Y: 0, Z: 1},
		{X: 1, Y: 0, Z: 1},
		{X: 1, Y: 1, Z: 1},
		{X: 0, Y: 1, Z: 1},
	},
	[12]Edge{
		{0, 1}, {1, 2}, {2, 3}, {0, 3},
		{0, 4}, {1, 5}, {2, 6}, {3, 7},
		{4, 5}, {5, 6}, {6, 7}, {4, 7},
	},
)

// DefaultTopology returns the unit cube with corners ordered
//
//	(0,0,0),(1,0,0),(1,1,0),(0,1,0),(0,0,1),(1,0,1),(1,1,1),(0,1,1)
//
// and the 12 edges joining them. The returned value is shared and immutable.
func DefaultTopology() *Topology { return defaultTopology }

func newTopology(corners [8]r3.Vec, edges [12]Edge) *Topology {
	t := &Topology{corners: corners, edges: edges}
	for i, e := range edges {
		t.midpoints[i] = d3.Midpoint(corners[e[0]], corners[e[1]])
	}
	return t
}

// Corner returns the cube-local position of corner i.
func (t *Topology) Corner(i int) r3.Vec { return t.corners[i] }

// Corners returns a copy of the corner positions.
func (t *Topology) Corners() [8]r3.Vec { return t.corners }

// Edge returns the corner pair of edge i.
func (t *Topology) Edge(i int) Edge { return t.edges[i] }

// Edges returns a copy of the edge table.
func (t *Topology) Edges() [12]Edge { return t.edges }

// EdgeMidpoint returns the exact midpoint of edge i in cube-local coordinates.
func (t *Topology) EdgeMidpoint(i int) r3.Vec { return t.midpoints[i] }
