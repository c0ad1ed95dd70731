// Package preview renders scene snapshots to images without a GPU.
package preview

import (
	"fmt"
	"image"
	"path/filepath"

	"github.com/fogleman/fauxgl"
	"github.com/jhonatantft/isocube/scene"
	"github.com/nfnt/resize"
	"github.com/pkg/errors"
	"github.com/soypat/glgl/math/ms3"
)

// Options configures rendering. Zero values select the defaults.
type Options struct {
	Width, Height int
	// Supersample renders at this multiple of the output size and
	// downsamples for antialiasing.
	Supersample int
	// PointSize is the edge length of the cube drawn per field sample.
	PointSize float64
}

const (
	defaultWidth     = 640
	defaultHeight    = 480
	defaultPointSize = 0.2
	fovy             = 45
	zNear            = 0.1
	zFar             = 50
)

var (
	background = fauxgl.Gray(30.0 / 256)
	above      = fauxgl.Gray(0.9)
	below      = fauxgl.Gray(0.05)
	light      = fauxgl.V(-0.75, 1, 0.25).Normalize()
)

func (o Options) withDefaults() Options {
	if o.Width <= 0 {
		o.Width = defaultWidth
	}
	if o.Height <= 0 {
		o.Height = defaultHeight
	}
	if o.Supersample <= 0 {
		o.Supersample = 1
	}
	if o.PointSize <= 0 {
		o.PointSize = defaultPointSize
	}
	return o
}

// Render draws snap as seen from its camera. Mesh mode draws every polygon
// without back face culling shaded by its grey level. Points mode draws one
// small cube per sample, light above the threshold and dark below.
func Render(snap scene.Snapshot, opts Options) image.Image {
	opts = opts.withDefaults()
	width, height := opts.Width*opts.Supersample, opts.Height*opts.Supersample
	context := fauxgl.NewContext(width, height)
	context.ClearColorBufferWith(background)
	context.Cull = fauxgl.CullNone

	eye := snap.Camera.Position()
	eyeV := fauxgl.V(eye[0], eye[1], eye[2])
	aspect := float64(width) / float64(height)
	matrix := fauxgl.LookAt(eyeV, fauxgl.V(0, 0, 0), fauxgl.V(0, 1, 0)).Perspective(fovy, aspect, zNear, zFar)
	shader := fauxgl.NewPhongShader(matrix, light, eyeV)
	context.Shader = shader

	switch snap.Mode {
	case scene.ModePoints:
		hi, lo := pointMeshes(snap.Points, opts.PointSize)
		shader.ObjectColor = above
		context.DrawMesh(hi)
		shader.ObjectColor = below
		context.DrawMesh(lo)
	case scene.ModeMesh:
		// Polygons arrive ordered by X so equal shades are contiguous.
		polys := snap.Polygons
		for len(polys) > 0 {
			n := 1
			for n < len(polys) && polys[n].Shade == polys[0].Shade {
				n++
			}
			shader.ObjectColor = fauxgl.Gray(float64(polys[0].Shade))
			context.DrawMesh(polygonMesh(polys[:n]))
			polys = polys[n:]
		}
	}
	img := context.Image()
	if opts.Supersample > 1 {
		img = resize.Resize(uint(opts.Width), uint(opts.Height), img, resize.Bilinear)
	}
	return img
}

// polygonMesh fans every polygon into triangles.
func polygonMesh(polys []scene.Polygon) *fauxgl.Mesh {
	var tris []*fauxgl.Triangle
	for _, p := range polys {
		for i := 1; i+1 < len(p.Verts); i++ {
			tris = append(tris, fauxgl.NewTriangleForPoints(vec(p.Verts[0]), vec(p.Verts[i]), vec(p.Verts[i+1])))
		}
	}
	return fauxgl.NewTriangleMesh(tris)
}

func pointMeshes(points []scene.Point, size float64) (hi, lo *fauxgl.Mesh) {
	unit := fauxgl.NewCube()
	// Normalize the cube to edge length 1 whatever its native extent.
	unit.Transform(fauxgl.Scale(fauxgl.V(1, 1, 1).DivScalar(unit.BoundingBox().Size().X)))
	hi = fauxgl.NewEmptyMesh()
	lo = fauxgl.NewEmptyMesh()
	scale := fauxgl.Scale(fauxgl.V(size, size, size))
	for _, p := range points {
		c := unit.Copy()
		c.Transform(scale.Translate(vec(p.Pos)))
		if p.Above {
			hi.Add(c)
		} else {
			lo.Add(c)
		}
	}
	return hi, lo
}

func vec(v ms3.Vec) fauxgl.Vector {
	return fauxgl.V(float64(v.X), float64(v.Y), float64(v.Z))
}

// SavePNG writes img to path as a PNG file.
func SavePNG(path string, img image.Image) error {
	if err := fauxgl.SavePNG(path, img); err != nil {
		return errors.Wrapf(err, "save %s", path)
	}
	return nil
}

// Drawer is a scene.Drawer that renders every frame. If Dir is set each
// frame is written there as frameNNNN.png.
type Drawer struct {
	Options Options
	Dir     string
	// Last is the most recently rendered frame.
	Last   image.Image
	Frames int
}

var _ scene.Drawer = (*Drawer)(nil)

func (d *Drawer) Draw(snap scene.Snapshot) error {
	d.Last = Render(snap, d.Options)
	d.Frames++
	if d.Dir == "" {
		return nil
	}
	return SavePNG(filepath.Join(d.Dir, fmt.Sprintf("frame%04d.png", d.Frames)), d.Last)
}
