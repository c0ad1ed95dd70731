package render

import (
	"bufio"
	"encoding/binary"
	"io"
	"math"
	"os"

	"github.com/chewxy/math32"
	"github.com/pkg/errors"
	"github.com/soypat/glgl/math/ms3"
	"gonum.org/v1/gonum/spatial/r3"
)

// Binary STL layout: 80 byte free text, uint32 facet count, then 50 byte
// facets of normal, three vertices and a uint16 attribute, all little endian.
const (
	stlHeaderSize  = 84
	stlFacetSize   = 50
	facetsPerChunk = 1 << 10
	stlLabel       = "isocube cell polygon surface"
)

var errNoTriangles = errors.New("no triangles to write")

// CreateSTL streams the triangles of r into a binary STL file at path.
// The facet count is patched into the header once r is drained. Like
// WriteSTL it refuses an empty model, and removes the file it started.
func CreateSTL(path string, r Renderer) (err error) {
	fp, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create STL")
	}
	defer func() {
		fp.Close()
		if err != nil {
			os.Remove(path)
		}
	}()
	if _, err = fp.Seek(stlHeaderSize, io.SeekStart); err != nil {
		return errors.Wrap(err, "skip STL header")
	}
	n, err := io.CopyBuffer(fp, &facetEncoder{r: r}, make([]byte, stlFacetSize*facetsPerChunk))
	if err != nil {
		return errors.Wrapf(err, "write %s", path)
	}
	if n == 0 {
		return errors.Wrap(errNoTriangles, path)
	}
	if _, err = fp.Seek(0, io.SeekStart); err != nil {
		return errors.Wrap(err, "rewind to STL header")
	}
	if err = binary.Write(fp, binary.LittleEndian, newSTLHeader(int(n/stlFacetSize))); err != nil {
		return errors.Wrap(err, "write STL header")
	}
	return fp.Close()
}

// WriteSTL writes model to w as binary STL.
func WriteSTL(w io.Writer, model []Triangle3) error {
	if len(model) == 0 {
		return errNoTriangles
	}
	bw := bufio.NewWriter(w)
	if err := binary.Write(bw, binary.LittleEndian, newSTLHeader(len(model))); err != nil {
		return errors.Wrap(err, "write STL header")
	}
	var rec [stlFacetSize]byte
	for _, t := range model {
		facetOf(t).marshal(rec[:])
		if _, err := bw.Write(rec[:]); err != nil {
			return errors.Wrap(err, "write STL facet")
		}
	}
	return bw.Flush()
}

// ReadSTL reads a binary STL stream. Facets whose stored normal disagrees
// with their winding are accepted. Non finite or collapsed facets are not.
func ReadSTL(r io.Reader) ([]Triangle3, error) {
	var h stlHeader
	if err := binary.Read(r, binary.LittleEndian, &h); err != nil {
		return nil, errors.Wrap(err, "read STL header")
	}
	if h.Count == 0 {
		return nil, errors.New("STL header declares no facets")
	}
	model := make([]Triangle3, 0, h.Count)
	var (
		rec [stlFacetSize]byte
		f   stlFacet
	)
	for i := 0; i < int(h.Count); i++ {
		if _, err := io.ReadFull(r, rec[:]); err != nil {
			return nil, errors.Wrapf(err, "facet %d of %d", i, h.Count)
		}
		f.unmarshal(rec[:])
		if err := f.check(); err != nil && err != errNormalMismatch {
			return nil, errors.Wrapf(err, "facet %d of %d", i, h.Count)
		}
		model = append(model, f.triangle())
	}
	return model, nil
}

type stlHeader struct {
	Text  [80]byte
	Count uint32
}

func newSTLHeader(facets int) *stlHeader {
	h := &stlHeader{Count: uint32(facets)}
	copy(h.Text[:], stlLabel)
	return h
}

// facetEncoder is an io.Reader producing STL facet records from a Renderer.
type facetEncoder struct {
	r   Renderer
	buf [facetsPerChunk]Triangle3
}

func (e *facetEncoder) Read(b []byte) (int, error) {
	room := min(len(b)/stlFacetSize, len(e.buf))
	if room == 0 {
		return 0, errors.New("facet encoder needs room for at least one 50 byte facet")
	}
	var (
		err     error
		written int
	)
	for written < room && err == nil {
		var nt int
		nt, err = e.r.ReadTriangles(e.buf[:room-written])
		if nt > room-written {
			panic("bug: ReadTriangles overflowed its destination")
		}
		for _, t := range e.buf[:nt] {
			facetOf(t).marshal(b[written*stlFacetSize:])
			written++
		}
	}
	return written * stlFacetSize, err
}

// stlFacet is one triangle as stored in an STL file.
type stlFacet struct {
	Normal ms3.Vec
	V      [3]ms3.Vec
}

func facetOf(t Triangle3) stlFacet {
	return stlFacet{
		Normal: toMS3(t.Normal()),
		V:      [3]ms3.Vec{toMS3(t.V[0]), toMS3(t.V[1]), toMS3(t.V[2])},
	}
}

func (f stlFacet) triangle() Triangle3 {
	return Triangle3{V: [3]r3.Vec{fromMS3(f.V[0]), fromMS3(f.V[1]), fromMS3(f.V[2])}}
}

func (f stlFacet) marshal(b []byte) {
	_ = b[stlFacetSize-1]
	putVec(b, f.Normal)
	for i, v := range f.V {
		putVec(b[12*(i+1):], v)
	}
	binary.LittleEndian.PutUint16(b[48:], 0)
}

func (f *stlFacet) unmarshal(b []byte) {
	_ = b[stlFacetSize-1]
	f.Normal = getVec(b)
	for i := range f.V {
		f.V[i] = getVec(b[12*(i+1):])
	}
}

func putVec(b []byte, v ms3.Vec) {
	binary.LittleEndian.PutUint32(b, math.Float32bits(v.X))
	binary.LittleEndian.PutUint32(b[4:], math.Float32bits(v.Y))
	binary.LittleEndian.PutUint32(b[8:], math.Float32bits(v.Z))
}

func getVec(b []byte) ms3.Vec {
	return ms3.Vec{
		X: math.Float32frombits(binary.LittleEndian.Uint32(b)),
		Y: math.Float32frombits(binary.LittleEndian.Uint32(b[4:])),
		Z: math.Float32frombits(binary.LittleEndian.Uint32(b[8:])),
	}
}

var errNormalMismatch = errors.New("stored normal does not match facet winding")

func (f stlFacet) check() error {
	const (
		collapseTol = 1e-12
		normalTol   = 5e-2
	)
	if !finite(f.Normal) {
		return errors.New("non finite facet normal")
	}
	for _, v := range f.V {
		if !finite(v) {
			return errors.New("non finite facet vertex")
		}
	}
	if near(f.V[0], f.V[1], collapseTol) || near(f.V[1], f.V[2], collapseTol) || near(f.V[2], f.V[0], collapseTol) {
		return errors.New("collapsed facet")
	}
	n := toMS3(f.triangle().Normal())
	flipped := ms3.Vec{X: -n.X, Y: -n.Y, Z: -n.Z}
	if !near(n, f.Normal, normalTol) && !near(flipped, f.Normal, normalTol) {
		return errNormalMismatch
	}
	return nil
}

func finite(v ms3.Vec) bool {
	for _, c := range [3]float32{v.X, v.Y, v.Z} {
		if math32.IsNaN(c) || math32.IsInf(c, 0) {
			return false
		}
	}
	return true
}

func near(a, b ms3.Vec, tol float32) bool {
	return math32.Abs(a.X-b.X) <= tol && math32.Abs(a.Y-b.Y) <= tol && math32.Abs(a.Z-b.Z) <= tol
}

func toMS3(v r3.Vec) ms3.Vec {
	return ms3.Vec{X: float32(v.X), Y: float32(v.Y), Z: float32(v.Z)}
}

func fromMS3(v ms3.Vec) r3.Vec {
	return r3.Vec{X: float64(v.X), Y: float64(v.Y), Z: float64(v.Z)}
}
