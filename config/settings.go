// Package config loads isocube settings from a JSON file.
package config

import (
	"encoding/json"
	"os"

	"github.com/jhonatantft/isocube"
	"github.com/jhonatantft/isocube/scene"
	"github.com/pkg/errors"
)

type Settings struct {
	Field   FieldSettings   `json:"field"`
	Scene   SceneSettings   `json:"scene"`
	Preview PreviewSettings `json:"preview"`
	Export  ExportSettings  `json:"export"`
}

type FieldSettings struct {
	// Size is the number of cells per axis. The field has Size+1 samples
	// per axis.
	Size  int    `json:"size"`
	Noise string `json:"noise"`
	// PermSeed seeds the noise permutation tables.
	PermSeed int64 `json:"permSeed"`
	// Seed is the initial noise seed. Negative picks a random one.
	Seed float64 `json:"seed"`
}

type SceneSettings struct {
	Threshold float64 `json:"threshold"`
	Step      float64 `json:"step"`
	FPS       int     `json:"fps"`
	Mode      string  `json:"mode"`
	Workers   int     `json:"workers"`
	LazyMesh  bool    `json:"lazyMesh"`
}

type PreviewSettings struct {
	Width       int `json:"width"`
	Height      int `json:"height"`
	Supersample int `json:"supersample"`
}

type ExportSettings struct {
	// Mesher is "polygon" for the cell polygon fan or "reference" for full
	// Marching Cubes.
	Mesher        string `json:"mesher"`
	HistogramBins int    `json:"histogramBins"`
}

const (
	MesherPolygon   = "polygon"
	MesherReference = "reference"
)

// Default returns the settings used when no file is given.
func Default() Settings {
	return Settings{
		Field: FieldSettings{
			Size:  30,
			Noise: isocube.NoiseSimplex,
			Seed:  -1,
		},
		Scene: SceneSettings{
			Threshold: scene.DefaultThreshold,
			Step:      scene.DefaultStep,
			FPS:       scene.DefaultFPS,
			Mode:      scene.ModePoints.String(),
			Workers:   1,
		},
		Preview: PreviewSettings{
			Width:       640,
			Height:      480,
			Supersample: 2,
		},
		Export: ExportSettings{
			Mesher:        MesherPolygon,
			HistogramBins: 50,
		},
	}
}

// Load reads settings from path over the defaults. Keys missing from the
// file keep their default value. An empty path or a missing file yields the
// defaults and found is false.
func Load(path string) (s Settings, found bool, err error) {
	s = Default()
	if path == "" {
		return s, false, nil
	}
	fp, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, false, nil
		}
		return s, false, errors.Wrap(err, "open settings")
	}
	defer fp.Close()
	dec := json.NewDecoder(fp)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&s); err != nil {
		return s, false, errors.Wrapf(err, "parse %s", path)
	}
	return s, true, s.Validate()
}

// Validate checks the settings are usable.
func (s Settings) Validate() error {
	switch {
	case s.Field.Size < 1:
		return errors.Errorf("field size %d must be at least 1", s.Field.Size)
	case !(s.Scene.Threshold >= 0 && s.Scene.Threshold <= 1):
		return errors.Errorf("threshold %g outside [0,1]", s.Scene.Threshold)
	case s.Scene.Step <= 0:
		return errors.Errorf("threshold step %g must be positive", s.Scene.Step)
	case s.Scene.FPS <= 0:
		return errors.Errorf("fps %d must be positive", s.Scene.FPS)
	case s.Scene.Workers < 0:
		return errors.Errorf("negative worker count %d", s.Scene.Workers)
	case s.Preview.Width <= 0 || s.Preview.Height <= 0 || s.Preview.Supersample <= 0:
		return errors.Errorf("bad preview size %dx%d supersample %d", s.Preview.Width, s.Preview.Height, s.Preview.Supersample)
	case s.Export.HistogramBins < 1:
		return errors.Errorf("histogram bins %d must be at least 1", s.Export.HistogramBins)
	}
	if _, err := isocube.NewNoiseSource(s.Field.Noise, 0); err != nil {
		return err
	}
	if _, err := scene.ParseMode(s.Scene.Mode); err != nil {
		return err
	}
	if s.Export.Mesher != MesherPolygon && s.Export.Mesher != MesherReference {
		return errors.Errorf("unknown mesher %q", s.Export.Mesher)
	}
	return nil
}

// SceneOptions converts the scene settings. seed is used for every
// regeneration, nil picks random seeds.
func (s Settings) SceneOptions(seed func() float64) (scene.Options, error) {
	mode, err := scene.ParseMode(s.Scene.Mode)
	if err != nil {
		return scene.Options{}, err
	}
	threshold := s.Scene.Threshold
	return scene.Options{
		Threshold: &threshold,
		Step:      s.Scene.Step,
		FPS:       s.Scene.FPS,
		Mode:      mode,
		Workers:   s.Scene.Workers,
		LazyMesh:  s.Scene.LazyMesh,
		Seed:      seed,
	}, nil
}
