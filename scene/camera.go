package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Camera orbits the origin on a sphere. Angles are in degrees: Theta is the
// azimuth about the Y axis and Phi the polar angle measured from +Y.
type Camera struct {
	R     float64
	Theta float64
	Phi   float64
}

const (
	minPhi = 1
	maxPhi = 179
	// orbitSpeed is the orbit rate in degrees per millisecond.
	orbitSpeed = 0.1
	fovy       = 45
	zNear      = 0.1
	zFar       = 50
)

// DefaultCamera looks at the origin from 20 units along +Z.
func DefaultCamera() Camera {
	return Camera{R: 20, Theta: 0, Phi: 90}
}

// Position returns the cartesian eye position, Y up.
func (c Camera) Position() mgl64.Vec3 {
	theta := mgl64.DegToRad(c.Theta)
	phi := mgl64.DegToRad(c.Phi)
	return mgl64.Vec3{
		c.R * math.Sin(theta) * math.Sin(phi),
		c.R * math.Cos(phi),
		c.R * math.Cos(theta) * math.Sin(phi),
	}
}

// Orbit moves the camera by dTheta and dPhi degrees. Phi is clamped
// short of the poles and Theta wraps into (-180, 180].
func (c *Camera) Orbit(dTheta, dPhi float64) {
	c.Phi = math.Max(minPhi, math.Min(maxPhi, c.Phi+dPhi))
	c.Theta += dTheta
	for c.Theta > 180 {
		c.Theta -= 360
	}
	for c.Theta <= -180 {
		c.Theta += 360
	}
}

// View returns the view matrix looking at the origin.
func (c Camera) View() mgl64.Mat4 {
	return mgl64.LookAtV(c.Position(), mgl64.Vec3{}, mgl64.Vec3{0, 1, 0})
}

// Projection returns the perspective projection for the given aspect ratio.
func Projection(aspect float64) mgl64.Mat4 {
	return mgl64.Perspective(mgl64.DegToRad(fovy), aspect, zNear, zFar)
}
