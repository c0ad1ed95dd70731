// Package scene drives a field and its surface cache one frame at a time.
//
// Every frame runs the same pipeline: apply the polled input (regenerate,
// threshold change, mode, camera), rebuild the surface cache if the field or
// threshold changed, then hand a read-only snapshot to a Drawer.
package scene

import (
	"math"
	"time"

	"github.com/jhonatantft/isocube"
	"github.com/jhonatantft/isocube/internal/d3"
	"github.com/pkg/errors"
)

// ErrQuit is returned by Frame when the input requested to quit.
var ErrQuit = errors.New("quit")

// Drawer consumes a frame snapshot. It must not retain the snapshot's slices
// past the call.
type Drawer interface {
	Draw(Snapshot) error
}

// DrawerFunc adapts a function to a Drawer.
type DrawerFunc func(Snapshot) error

// Draw calls f(s).
func (f DrawerFunc) Draw(s Snapshot) error { return f(s) }

// Options configures a Scene. Zero values select the defaults.
type Options struct {
	// Threshold is the initial isovalue, default 0.5.
	Threshold *float64
	// Step is the threshold increment, default 0.01.
	Step float64
	// FPS is the target frame rate. Regeneration is debounced to at most once
	// every FPS/4 frames and blocked for the first FPS frames. Default 30.
	FPS int
	// Mode is the initial display mode, default ModePoints.
	Mode DisplayMode
	// Workers above 1 rebuild the surface cache concurrently.
	Workers int
	// LazyMesh defers surface rebuilds while in points mode.
	LazyMesh bool
	// Seed returns the seed of each regeneration, default isocube.RandomSeed.
	Seed func() float64
}

const (
	DefaultThreshold = 0.5
	DefaultStep      = 0.01
	DefaultFPS       = 30
)

// Scene exclusively owns a field and its surface cache.
type Scene struct {
	field     *isocube.Field
	surface   *isocube.Surface
	threshold float64
	step      float64
	mode      DisplayMode
	camera    Camera
	fps       int
	workers   int
	lazy      bool
	seed      func() float64

	// cooldown counts frames until regeneration is allowed again.
	cooldown int
	// dirty is set by any mutation of the field or threshold.
	dirty    bool
	frames   int
	rebuilds int
}

// New returns a scene over f. The field is used as is, it is not regenerated.
// The surface cache is built before New returns.
func New(f *isocube.Field, opts Options) (*Scene, error) {
	if f == nil {
		return nil, errors.New("nil field")
	}
	s := &Scene{
		field:     f,
		surface:   isocube.NewSurface(nil),
		threshold: DefaultThreshold,
		step:      opts.Step,
		mode:      opts.Mode,
		camera:    DefaultCamera(),
		fps:       opts.FPS,
		workers:   opts.Workers,
		lazy:      opts.LazyMesh,
		seed:      opts.Seed,
		dirty:     true,
	}
	if opts.Threshold != nil {
		s.threshold = *opts.Threshold
	}
	if !(s.threshold >= 0 && s.threshold <= 1) {
		return nil, errors.Errorf("threshold %g outside [0,1]", s.threshold)
	}
	if s.step == 0 {
		s.step = DefaultStep
	} else if s.step < 0 {
		return nil, errors.Errorf("negative threshold step %g", s.step)
	}
	if s.fps == 0 {
		s.fps = DefaultFPS
	} else if s.fps < 0 {
		return nil, errors.Errorf("negative fps %d", s.fps)
	}
	if s.mode == ModeUnchanged {
		s.mode = ModePoints
	}
	if s.seed == nil {
		s.seed = isocube.RandomSeed
	}
	s.cooldown = s.fps
	if err := s.rebuild(); err != nil {
		return nil, err
	}
	return s, nil
}

// Frame runs one frame: apply input, rebuild if needed and draw.
// dt is the time elapsed since the previous frame. ErrQuit is returned,
// without drawing, when the input asks to quit.
func (s *Scene) Frame(in Input, dt time.Duration, d Drawer) error {
	if in.Quit {
		return ErrQuit
	}
	s.frames++
	s.apply(in, dt)
	if s.needsRebuild() {
		if err := s.rebuild(); err != nil {
			return err
		}
	}
	if d == nil {
		return nil
	}
	return d.Draw(s.Snapshot())
}

func (s *Scene) apply(in Input, dt time.Duration) {
	if in.ThresholdSteps != 0 {
		s.SetThreshold(s.threshold + float64(in.ThresholdSteps)*s.step)
	}
	if in.Regenerate && s.cooldown == 0 {
		s.cooldown = s.fps / 4
		s.Regenerate(s.seed())
	}
	if s.cooldown > 0 {
		s.cooldown--
	}
	if in.Mode != ModeUnchanged {
		s.mode = in.Mode
	}
	deg := orbitSpeed * float64(dt) / float64(time.Millisecond)
	var dTheta, dPhi float64
	if in.Up {
		dPhi -= deg
	}
	if in.Down {
		dPhi += deg
	}
	if in.Right {
		dTheta += deg
	}
	if in.Left {
		dTheta -= deg
	}
	if dTheta != 0 || dPhi != 0 {
		s.camera.Orbit(dTheta, dPhi)
	}
}

func (s *Scene) needsRebuild() bool {
	if s.lazy && s.mode == ModePoints {
		return false
	}
	return s.dirty || s.surface.Stale(s.field, s.threshold)
}

func (s *Scene) rebuild() error {
	if err := s.surface.RebuildParallel(s.field, s.threshold, s.workers); err != nil {
		return errors.Wrap(err, "rebuild surface")
	}
	s.dirty = false
	s.rebuilds++
	return nil
}

// SetThreshold sets the threshold clamped to [0,1]. The surface cache is
// rebuilt on the next frame if the value changed.
func (s *Scene) SetThreshold(t float64) {
	if math.IsNaN(t) {
		return
	}
	t = d3.Clamp(t, 0, 1)
	if t != s.threshold {
		s.threshold = t
		s.dirty = true
	}
}

// Regenerate resamples the field with seed immediately, bypassing the
// debounce. The surface cache is rebuilt on the next frame.
func (s *Scene) Regenerate(seed float64) {
	s.field.Regenerate(seed)
	s.dirty = true
}

// Sync rebuilds the surface cache now if it is out of date.
func (s *Scene) Sync() error {
	if s.dirty || s.surface.Stale(s.field, s.threshold) {
		return s.rebuild()
	}
	return nil
}

func (s *Scene) Threshold() float64 { return s.threshold }
func (s *Scene) Mode() DisplayMode  { return s.mode }
func (s *Scene) Camera() Camera     { return s.camera }

// SetMode switches the display mode. Entering mesh mode brings the surface
// cache up to date so a following Snapshot never reads a stale surface.
func (s *Scene) SetMode(m DisplayMode) error {
	s.mode = m
	if m == ModeMesh {
		return s.Sync()
	}
	return nil
}

// Field returns the scene's field. Callers must not modify it, use Regenerate.
func (s *Scene) Field() *isocube.Field { return s.field }

// Surface returns the scene's surface cache for reading.
func (s *Scene) Surface() *isocube.Surface { return s.surface }

// Frames returns the number of frames run.
func (s *Scene) Frames() int { return s.frames }

// Rebuilds returns how many times the surface cache was rebuilt.
func (s *Scene) Rebuilds() int { return s.rebuilds }
