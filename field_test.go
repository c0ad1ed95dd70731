package isocube

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func TestNewFieldTooSmall(t *testing.T) {
	for _, n := range []int{-1, 0, 1} {
		_, err := NewField(n, NewSimplex(0))
		if !errors.Is(err, ErrFieldTooSmall) {
			t.Errorf("n=%d: got err %v, want ErrFieldTooSmall", n, err)
		}
	}
	f, err := NewField(2, NewSimplex(0))
	if err != nil {
		t.Fatal(err)
	}
	if f.Cells() != 1 || f.Side() != 2 {
		t.Errorf("got side %d cells %d, want 2 and 1", f.Side(), f.Cells())
	}
}

func TestMustFieldPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for 1 sample field")
		}
	}()
	MustField(1, NewSimplex(0))
}

func TestFieldIndexing(t *testing.T) {
	const n = 4
	f := MustField(n, NoiseFunc(func(x, y, z, w float64) float64 {
		// Encode the grid coordinate so it can be read back.
		return x*n + y*n*10 + z*n*100
	}))
	f.Generate(0)
	for z := 0; z < n; z++ {
		for y := 0; y < n; y++ {
			for x := 0; x < n; x++ {
				want := float64(x + y*10 + z*100)
				if got := f.At(x, y, z); math.Abs(got-want) > 1e-9 {
					t.Fatalf("At(%d,%d,%d) = %g, want %g", x, y, z, got, want)
				}
				if f.Index(x, y, z) != x+y*n+z*n*n {
					t.Fatalf("bad index for (%d,%d,%d)", x, y, z)
				}
			}
		}
	}
	topo := DefaultTopology()
	corners := f.Corners(1, 2, 0)
	for i, c := range topo.Corners() {
		want := f.At(1+int(c.X), 2+int(c.Y), int(c.Z))
		if corners[i] != want {
			t.Errorf("corner %d: got %g, want %g", i, corners[i], want)
		}
	}
}

func TestGenerateDeterministic(t *testing.T) {
	for _, name := range []string{NoiseSimplex, NoisePerlin} {
		src, err := NewNoiseSource(name, 42)
		if err != nil {
			t.Fatal(err)
		}
		a := MustField(6, src)
		b := MustField(6, src)
		a.Regenerate(0.25)
		b.Regenerate(0.25)
		sa, sb := a.Samples(), b.Samples()
		for i := range sa {
			if sa[i] != sb[i] {
				t.Fatalf("%s: sample %d differs for same seed: %g != %g", name, i, sa[i], sb[i])
			}
		}
		if a.Seed() != 0.25 {
			t.Errorf("%s: seed not recorded", name)
		}
		b.Regenerate(0.75)
		different := false
		for i, v := range b.Samples() {
			if v != sa[i] {
				different = true
				break
			}
		}
		if !different {
			t.Errorf("%s: new seed produced identical field", name)
		}
	}
}

func TestNormalizeRange(t *testing.T) {
	const tol = 1e-12
	f := MustField(8, NewSimplex(1))
	f.Regenerate(0.3)
	min, max := math.Inf(1), math.Inf(-1)
	for _, v := range f.Samples() {
		if v < 0 || v > 1 {
			t.Fatalf("sample %g outside unit interval", v)
		}
		min = math.Min(min, v)
		max = math.Max(max, v)
	}
	if math.Abs(min) > tol || math.Abs(max-1) > tol {
		t.Errorf("got range [%g, %g], want [0, 1]", min, max)
	}
}

func TestNormalizeDegenerate(t *testing.T) {
	f := MustField(3, NoiseFunc(func(x, y, z, w float64) float64 { return 0.3 }))
	f.Regenerate(0)
	for i, v := range f.Samples() {
		if math.IsNaN(v) || v != DegenerateValue {
			t.Fatalf("sample %d: got %g, want %g", i, v, DegenerateValue)
		}
	}
}

func TestGenerationCounter(t *testing.T) {
	f := MustField(2, NewSimplex(0))
	g0 := f.Generation()
	f.Regenerate(0.1)
	g1 := f.Generation()
	if g1 <= g0 {
		t.Error("regenerate did not advance generation")
	}
	f.Set(0, 0, 0, 1)
	if f.Generation() <= g1 {
		t.Error("set did not advance generation")
	}
}

func TestNewNoiseSourceUnknown(t *testing.T) {
	if _, err := NewNoiseSource("worley", 0); err == nil {
		t.Error("expected error for unknown noise source")
	}
}

func TestRandomSeedRange(t *testing.T) {
	for i := 0; i < 100; i++ {
		if s := RandomSeed(); s < 0 || s >= 1 {
			t.Fatalf("seed %g out of [0,1)", s)
		}
	}
}

func TestFieldSample(t *testing.T) {
	const tol = 1e-12
	f := testField(t, 5, 0.6)
	// Grid points sample exactly.
	for _, p := range [][3]int{{0, 0, 0}, {4, 4, 4}, {1, 2, 3}, {4, 0, 2}} {
		got := f.Sample(r3.Vec{X: float64(p[0]), Y: float64(p[1]), Z: float64(p[2])})
		if want := f.At(p[0], p[1], p[2]); math.Abs(got-want) > tol {
			t.Errorf("Sample at grid point %v: got %g, want %g", p, got, want)
		}
	}
	// Cell centre is the mean of its corners.
	c := f.Corners(1, 1, 1)
	var mean float64
	for _, v := range c {
		mean += v / 8
	}
	if got := f.Sample(r3.Vec{X: 1.5, Y: 1.5, Z: 1.5}); math.Abs(got-mean) > tol {
		t.Errorf("Sample at cell centre: got %g, want %g", got, mean)
	}
	// Outside points clamp to the boundary.
	if got, want := f.Sample(r3.Vec{X: -3, Y: -1, Z: -9}), f.At(0, 0, 0); got != want {
		t.Errorf("clamped sample: got %g, want %g", got, want)
	}
}
