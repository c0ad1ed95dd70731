package isocube

import (
	"math/rand"
	"time"

	"github.com/aquilax/go-perlin"
	"github.com/ojrac/opensimplex-go"
	"github.com/pkg/errors"
)

// NoiseSource is a deterministic 4 dimensional coherent noise function.
// Fields sample it at (x/n, y/n, z/n, seed).
type NoiseSource interface {
	Eval4(x, y, z, w float64) float64
}

// NoiseFunc adapts an ordinary function to a NoiseSource.
type NoiseFunc func(x, y, z, w float64) float64

// Eval4 calls f(x, y, z, w).
func (f NoiseFunc) Eval4(x, y, z, w float64) float64 { return f(x, y, z, w) }

// Names of the built in noise sources accepted by NewNoiseSource.
const (
	NoiseSimplex = "simplex"
	NoisePerlin  = "perlin"
)

// NewSimplex returns 4D OpenSimplex noise. The permutation seed is fixed by
// permSeed, run to run variation comes from the w coordinate.
func NewSimplex(permSeed int64) NoiseSource {
	return opensimplex.New(permSeed)
}

const (
	perlinAlpha     = 2
	perlinBeta      = 2
	perlinOctaves   = 3
	perlinFrequency = 4
	// perlinDrift moves the sampled domain along the diagonal per unit of w.
	perlinDrift = 97.31
)

type perlinSource struct {
	p *perlin.Perlin
}

// NewPerlin returns a 3 octave Perlin noise source. Perlin noise is 3
// dimensional so the w coordinate is folded into a translation of the
// sampled domain.
func NewPerlin(permSeed int64) NoiseSource {
	return perlinSource{p: perlin.NewPerlin(perlinAlpha, perlinBeta, perlinOctaves, permSeed)}
}

func (s perlinSource) Eval4(x, y, z, w float64) float64 {
	off := w * perlinDrift
	return s.p.Noise3D(perlinFrequency*x+off, perlinFrequency*y+off, perlinFrequency*z+off)
}

// NewNoiseSource returns the built in noise source registered under name.
func NewNoiseSource(name string, permSeed int64) (NoiseSource, error) {
	switch name {
	case NoiseSimplex, "":
		return NewSimplex(permSeed), nil
	case NoisePerlin:
		return NewPerlin(permSeed), nil
	}
	return nil, errors.Errorf("unknown noise source %q", name)
}

// RandomSeed returns a fresh noise seed in [0,1). It is not reproducible
// across calls.
func RandomSeed() float64 {
	return rand.New(rand.NewSource(time.Now().UnixNano())).Float64()
}
