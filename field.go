package isocube

import (
	"github.com/jhonatantft/isocube/internal/d3"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r3"
)

// DegenerateValue is the value every sample takes when a field with no
// variation is normalized.
const DegenerateValue = 0.5

// ErrFieldTooSmall is returned when a field has less than 2 samples per axis
// and therefore no cells.
var ErrFieldTooSmall = errors.New("field side must be 2 or larger")

// Field is a cubic grid of scalar samples. Samples are stored flat and
// indexed by x + y*n + z*n*n.
type Field struct {
	n       int
	samples []float64
	src     NoiseSource
	seed    float64
	// gen counts regenerations and edits so caches can detect staleness.
	gen uint64
}

// NewField allocates a field of n samples per axis (n-1 cells per axis)
// sampling src. The field is zero valued until Generate or Regenerate is called.
func NewField(n int, src NoiseSource) (*Field, error) {
	if n < 2 {
		return nil, ErrFieldTooSmall
	}
	if src == nil {
		return nil, errors.New("nil noise source")
	}
	return &Field{
		n:       n,
		samples: make([]float64, n*n*n),
		src:     src,
	}, nil
}

// MustField is like NewField but panics on error.
func MustField(n int, src NoiseSource) *Field {
	f, err := NewField(n, src)
	if err != nil {
		panic(err)
	}
	return f
}

// Side returns the number of samples per axis.
func (f *Field) Side() int { return f.n }

// Cells returns the number of cells per axis.
func (f *Field) Cells() int { return f.n - 1 }

// Seed returns the seed of the last generation.
func (f *Field) Seed() float64 { return f.seed }

// Generation is incremented every time the samples change.
func (f *Field) Generation() uint64 { return f.gen }

// Index returns the linear index of sample (x,y,z).
func (f *Field) Index(x, y, z int) int {
	return x + y*f.n + z*f.n*f.n
}

// At returns sample (x,y,z).
func (f *Field) At(x, y, z int) float64 {
	return f.samples[f.Index(x, y, z)]
}

// Set sets sample (x,y,z) to v. The field is not renormalized.
func (f *Field) Set(x, y, z int, v float64) {
	f.samples[f.Index(x, y, z)] = v
	f.gen++
}

// Samples returns a copy of the samples in linear index order.
func (f *Field) Samples() []float64 {
	return append([]float64(nil), f.samples...)
}

// Corners returns the 8 samples of cell (x,y,z) in topology corner order.
// Valid cells lie in [0, n-2] on every axis.
func (f *Field) Corners(x, y, z int) [8]float64 {
	n := f.n
	i := f.Index(x, y, z)
	nn := n * n
	return [8]float64{
		f.samples[i],
		f.samples[i+1],
		f.samples[i+1+n],
		f.samples[i+n],
		f.samples[i+nn],
		f.samples[i+1+nn],
		f.samples[i+1+n+nn],
		f.samples[i+n+nn],
	}
}

// Generate fills the field with raw noise sampled at (x/n, y/n, z/n, seed).
// The same seed and source always produce the same samples.
func (f *Field) Generate(seed float64) {
	n := f.n
	fn := float64(n)
	for z := 0; z < n; z++ {
		for y := 0; y < n; y++ {
			for x := 0; x < n; x++ {
				f.samples[f.Index(x, y, z)] = f.src.Eval4(float64(x)/fn, float64(y)/fn, float64(z)/fn, seed)
			}
		}
	}
	f.seed = seed
	f.gen++
}

// Normalize linearly rescales the samples so the minimum maps to 0 and the
// maximum to 1. A field with no variation is set to DegenerateValue.
func (f *Field) Normalize() {
	min := floats.Min(f.samples)
	max := floats.Max(f.samples)
	if max == min {
		for i := range f.samples {
			f.samples[i] = DegenerateValue
		}
	} else {
		// Divide rather than scale by the reciprocal so max lands on 1 exactly.
		span := max - min
		floats.AddConst(-min, f.samples)
		for i := range f.samples {
			f.samples[i] /= span
		}
	}
	f.gen++
}

// Regenerate resamples the field with seed and normalizes it, keeping the
// field dimensions.
func (f *Field) Regenerate(seed float64) {
	f.Generate(seed)
	f.Normalize()
}

// Sample returns the trilinear interpolation of the field at grid
// coordinate p. Points outside the grid are clamped to its boundary.
func (f *Field) Sample(p r3.Vec) float64 {
	hi := float64(f.n - 1)
	p = r3.Vec{X: d3.Clamp(p.X, 0, hi), Y: d3.Clamp(p.Y, 0, hi), Z: d3.Clamp(p.Z, 0, hi)}
	base := d3.FloorElem(p)
	x, y, z := int(base.X), int(base.Y), int(base.Z)
	// Points on the upper boundary interpolate within the last cell.
	if x == f.n-1 {
		x--
	}
	if y == f.n-1 {
		y--
	}
	if z == f.n-1 {
		z--
	}
	tx, ty, tz := p.X-float64(x), p.Y-float64(y), p.Z-float64(z)
	c := f.Corners(x, y, z)
	// Corner order is (0,0,0),(1,0,0),(1,1,0),(0,1,0) then the same at z+1.
	bottom := lerp(lerp(c[0], c[1], tx), lerp(c[3], c[2], tx), ty)
	top := lerp(lerp(c[4], c[5], tx), lerp(c[7], c[6], tx), ty)
	return lerp(bottom, top, tz)
}

func lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}
