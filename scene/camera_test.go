package scene

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestCameraPosition(t *testing.T) {
	for _, test := range []struct {
		c    Camera
		want mgl64.Vec3
	}{
		{DefaultCamera(), mgl64.Vec3{0, 0, 20}},
		{Camera{R: 10, Theta: 90, Phi: 90}, mgl64.Vec3{10, 0, 0}},
		{Camera{R: 10, Theta: 0, Phi: 0}, mgl64.Vec3{0, 10, 0}},
		{Camera{R: 2, Theta: 180, Phi: 90}, mgl64.Vec3{0, 0, -2}},
	} {
		got := test.c.Position()
		if !vecNear(got, test.want, 1e-9) {
			t.Errorf("%+v: got %v, want %v", test.c, got, test.want)
		}
	}
}

// vecNear compares component wise with an absolute tolerance. Positions on an
// axis carry trig residue that a relative comparison against zero rejects.
func vecNear(a, b mgl64.Vec3, tol float64) bool {
	for i := range a {
		if math.Abs(a[i]-b[i]) > tol {
			return false
		}
	}
	return true
}

func TestCameraOrbitClampAndWrap(t *testing.T) {
	c := DefaultCamera()
	c.Orbit(0, -500)
	if c.Phi != minPhi {
		t.Errorf("phi not clamped to %v: %v", minPhi, c.Phi)
	}
	c.Orbit(0, 500)
	if c.Phi != maxPhi {
		t.Errorf("phi not clamped to %v: %v", maxPhi, c.Phi)
	}
	for _, test := range []struct {
		start, d, want float64
	}{
		{170, 20, -170},
		{-170, -20, 170},
		{0, 180, 180},
		{0, -180, 180},
		{10, 720, 10},
	} {
		c := Camera{R: 1, Theta: test.start, Phi: 90}
		c.Orbit(test.d, 0)
		if math.Abs(c.Theta-test.want) > 1e-9 {
			t.Errorf("theta %v%+v: got %v, want %v", test.start, test.d, c.Theta, test.want)
		}
	}
}

func TestCameraViewLooksAtOrigin(t *testing.T) {
	c := Camera{R: 15, Theta: 30, Phi: 60}
	// The origin must land on the view axis at distance R.
	got := mgl64.TransformCoordinate(mgl64.Vec3{}, c.View())
	if !vecNear(got, mgl64.Vec3{0, 0, -15}, 1e-9) {
		t.Errorf("origin in view space: got %v", got)
	}
	p := Projection(1)
	if p[0] != p[5] {
		t.Errorf("square aspect must scale x and y equally: %v %v", p[0], p[5])
	}
}
