package render

import (
	"math"

	"github.com/jhonatantft/isocube/internal/d3"
	"gonum.org/v1/gonum/spatial/kdtree"
	"gonum.org/v1/gonum/spatial/r3"
)

var (
	_ kdtree.Interface = kdTriangles{}
	_ kdtree.Bounder   = kdTriangles{}
)

// TriangleIndex answers nearest triangle queries over a fixed mesh.
// Triangles are compared by centroid.
type TriangleIndex struct {
	tree *kdtree.Tree
	n    int
}

// NewTriangleIndex indexes a copy of model.
func NewTriangleIndex(model []Triangle3) *TriangleIndex {
	kd := make(kdTriangles, len(model))
	for i := range kd {
		kd[i] = kdTriangle(model[i])
	}
	return &TriangleIndex{tree: kdtree.New(kd, true), n: len(kd)}
}

// Len returns the number of indexed triangles.
func (idx *TriangleIndex) Len() int { return idx.n }

// Nearest returns the triangle whose centroid is closest to p and the
// distance between the two. ok is false for an empty index.
func (idx *TriangleIndex) Nearest(p r3.Vec) (t Triangle3, dist float64, ok bool) {
	if idx.n == 0 {
		return t, 0, false
	}
	got, d2 := idx.tree.Nearest(kdTriangle{V: [3]r3.Vec{p, p, p}})
	return Triangle3(got.(kdTriangle)), math.Sqrt(d2), true
}

// Bounds returns the box containing every indexed vertex.
func (idx *TriangleIndex) Bounds() r3.Box {
	if idx.n == 0 {
		return r3.Box{}
	}
	bb := idx.tree.Root.Bounding
	return r3.Box{
		Min: bb.Min.(kdTriangle).V[0],
		Max: bb.Max.(kdTriangle).V[0],
	}
}

// Deviation summarizes the centroid distances from one mesh to another.
type Deviation struct {
	Mean, Max float64
	// Samples is the number of triangles measured.
	Samples int
}

// MeasureDeviation measures, for every triangle of model, the distance from its
// centroid to the nearest triangle centroid of ref.
func MeasureDeviation(model []Triangle3, ref *TriangleIndex) Deviation {
	var dev Deviation
	if ref.Len() == 0 {
		return dev
	}
	var sum float64
	for _, t := range model {
		_, d, _ := ref.Nearest(kdCentroid(kdTriangle(t)))
		sum += d
		dev.Max = math.Max(dev.Max, d)
		dev.Samples++
	}
	if dev.Samples > 0 {
		dev.Mean = sum / float64(dev.Samples)
	}
	return dev
}

type kdTriangles []kdTriangle

type kdTriangle Triangle3

func (k kdTriangles) Index(i int) kdtree.Comparable { return k[i] }

func (k kdTriangles) Len() int { return len(k) }

func (k kdTriangles) Pivot(d kdtree.Dim) int {
	p := kdPlane{dim: int(d), triangles: k}
	return kdtree.Partition(p, kdtree.MedianOfMedians(p))
}

func (k kdTriangles) Slice(start, end int) kdtree.Interface { return k[start:end] }

// Bounds returns degenerate triangles at the corners of the box around k.
func (k kdTriangles) Bounds() *kdtree.Bounding {
	bb := d3.EmptyBox()
	for _, t := range k {
		for _, v := range t.V {
			bb = bb.Include(v)
		}
	}
	return &kdtree.Bounding{
		Min: kdTriangle{V: [3]r3.Vec{bb.Min, bb.Min, bb.Min}},
		Max: kdTriangle{V: [3]r3.Vec{bb.Max, bb.Max, bb.Max}},
	}
}

// Compare returns the signed distance between the centroids of a and b
// along dimension d.
func (a kdTriangle) Compare(b kdtree.Comparable, d kdtree.Dim) float64 {
	return kdComp(a, b.(kdTriangle), int(d))
}

func (a kdTriangle) Dims() int { return 3 }

// Distance returns the squared distance between centroids.
func (a kdTriangle) Distance(b kdtree.Comparable) float64 {
	return r3.Norm2(r3.Sub(kdCentroid(a), kdCentroid(b.(kdTriangle))))
}

func kdComp(a, b kdTriangle, dim int) float64 {
	ac, bc := kdCentroid(a), kdCentroid(b)
	switch dim {
	case 0:
		return ac.X - bc.X
	case 1:
		return ac.Y - bc.Y
	case 2:
		return ac.Z - bc.Z
	}
	panic("bad kd dimension")
}

func kdCentroid(a kdTriangle) r3.Vec {
	return r3.Scale(1./3., r3.Add(a.V[0], r3.Add(a.V[1], a.V[2])))
}

type kdPlane struct {
	dim       int
	triangles kdTriangles
}

func (p kdPlane) Less(i, j int) bool {
	return kdComp(p.triangles[i], p.triangles[j], p.dim) < 0
}

func (p kdPlane) Swap(i, j int) {
	p.triangles[i], p.triangles[j] = p.triangles[j], p.triangles[i]
}

func (p kdPlane) Len() int { return len(p.triangles) }

func (p kdPlane) Slice(start, end int) kdtree.SortSlicer {
	p.triangles = p.triangles[start:end]
	return p
}
