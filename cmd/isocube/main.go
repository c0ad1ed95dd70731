// Command isocube samples a noise field, approximates its isosurface with one
// polygon per grid cell and exports the result.
//
//	isocube -size 30 -threshold 0.5 -stl surface.stl -png preview.png -mode mesh
//
// A key script given with -script is replayed one line per frame before
// exporting, see scene.ParseScript for its syntax.
package main

import (
	"flag"
	"log"
	"os"
	"time"

	"github.com/jhonatantft/isocube"
	"github.com/jhonatantft/isocube/config"
	"github.com/jhonatantft/isocube/internal/fieldplot"
	"github.com/jhonatantft/isocube/preview"
	"github.com/jhonatantft/isocube/render"
	"github.com/jhonatantft/isocube/scene"
	"github.com/pkg/errors"
)

var (
	flagConfig    = flag.String("config", "", "JSON settings file")
	flagSize      = flag.Int("size", 0, "cells per axis")
	flagThreshold = flag.Float64("threshold", 0, "isovalue in [0,1]")
	flagSeed      = flag.Float64("seed", 0, "noise seed, negative picks a random seed")
	flagNoise     = flag.String("noise", "", "noise source: simplex or perlin")
	flagWorkers   = flag.Int("workers", 0, "concurrent surface rebuild workers")
	flagMesher    = flag.String("mesher", "", "STL mesher: polygon or reference")
	flagMode      = flag.String("mode", "", "preview display mode: points or mesh")
	flagSTL       = flag.String("stl", "", "write the surface to this binary STL file")
	flagPNG       = flag.String("png", "", "write a preview of the final frame to this PNG file")
	flagHist      = flag.String("hist", "", "write a histogram of the field samples to this PNG file")
	flagScript    = flag.String("script", "", "replay this key script before exporting")
	flagFrames    = flag.String("frames", "", "render every replayed frame into this directory")
	flagCompare   = flag.Bool("compare", false, "log how far the cell polygons deviate from full Marching Cubes")
)

func main() {
	flag.Parse()
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	settings, found, err := config.Load(*flagConfig)
	if err != nil {
		return err
	}
	if *flagConfig != "" && !found {
		log.Printf("no settings at %s, using defaults", *flagConfig)
	}
	overrideSettings(&settings)
	if err := settings.Validate(); err != nil {
		return err
	}

	src, err := isocube.NewNoiseSource(settings.Field.Noise, settings.Field.PermSeed)
	if err != nil {
		return err
	}
	field, err := isocube.NewField(settings.Field.Size+1, src)
	if err != nil {
		return err
	}
	seed := settings.Field.Seed
	if seed < 0 {
		seed = isocube.RandomSeed()
	}
	start := time.Now()
	field.Regenerate(seed)
	opts, err := settings.SceneOptions(nil)
	if err != nil {
		return err
	}
	sc, err := scene.New(field, opts)
	if err != nil {
		return err
	}
	log.Printf("field %d³ seed %.6f: %d polygons, %d vertices in %s",
		field.Side(), field.Seed(), sc.Surface().NonEmpty(), sc.Surface().VertexCount(), time.Since(start))

	var drawer *preview.Drawer
	if *flagScript != "" {
		if *flagFrames != "" {
			if err := os.MkdirAll(*flagFrames, 0o755); err != nil {
				return errors.Wrap(err, "frames directory")
			}
			drawer = &preview.Drawer{Options: previewOptions(settings), Dir: *flagFrames}
		}
		if err := replay(sc, *flagScript, settings.Scene.FPS, drawer); err != nil {
			return err
		}
		if err := sc.Sync(); err != nil {
			return err
		}
		log.Printf("replayed %d frames, %d rebuilds, threshold %.2f, mode %v",
			sc.Frames(), sc.Rebuilds(), sc.Threshold(), sc.Mode())
	}

	if *flagSTL != "" {
		if err := exportSTL(sc, settings.Export.Mesher, *flagSTL); err != nil {
			return err
		}
	}
	if *flagCompare {
		if err := compare(sc); err != nil {
			return err
		}
	}
	if *flagPNG != "" {
		img := preview.Render(sc.Snapshot(), previewOptions(settings))
		if err := preview.SavePNG(*flagPNG, img); err != nil {
			return err
		}
		log.Printf("wrote %s", *flagPNG)
	}
	if *flagHist != "" {
		fp, err := os.Create(*flagHist)
		if err != nil {
			return errors.Wrap(err, "create histogram file")
		}
		err = fieldplot.Histogram(fp, sc.Field(), sc.Threshold(), settings.Export.HistogramBins)
		if cerr := fp.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return err
		}
		log.Printf("wrote %s", *flagHist)
	}
	return nil
}

// overrideSettings applies the flags set on the command line.
func overrideSettings(s *config.Settings) {
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "size":
			s.Field.Size = *flagSize
		case "threshold":
			s.Scene.Threshold = *flagThreshold
		case "seed":
			s.Field.Seed = *flagSeed
		case "noise":
			s.Field.Noise = *flagNoise
		case "workers":
			s.Scene.Workers = *flagWorkers
		case "mesher":
			s.Export.Mesher = *flagMesher
		case "mode":
			s.Scene.Mode = *flagMode
		}
	})
}

func previewOptions(s config.Settings) preview.Options {
	return preview.Options{
		Width:       s.Preview.Width,
		Height:      s.Preview.Height,
		Supersample: s.Preview.Supersample,
	}
}

func replay(sc *scene.Scene, path string, fps int, drawer *preview.Drawer) error {
	fp, err := os.Open(path)
	if err != nil {
		return errors.Wrap(err, "open script")
	}
	defer fp.Close()
	frames, err := scene.ParseScript(fp)
	if err != nil {
		return errors.Wrap(err, path)
	}
	var d scene.Drawer
	if drawer != nil {
		d = drawer
	}
	dt := time.Second / time.Duration(fps)
	for _, in := range frames {
		err = sc.Frame(in, dt, d)
		if errors.Is(err, scene.ErrQuit) {
			return nil
		} else if err != nil {
			return err
		}
	}
	return nil
}

func exportSTL(sc *scene.Scene, mesher, path string) error {
	origin := render.CenteredOrigin(sc.Field().Side())
	var r render.Renderer
	switch mesher {
	case config.MesherReference:
		r = render.NewReferenceMesher(sc.Field(), sc.Threshold(), origin)
	default:
		r = render.NewPolygonRenderer(sc.Surface(), origin)
	}
	start := time.Now()
	if err := render.CreateSTL(path, r); err != nil {
		return err
	}
	log.Printf("wrote %s (%s mesher) in %s", path, mesher, time.Since(start))
	return nil
}

func compare(sc *scene.Scene) error {
	origin := render.CenteredOrigin(sc.Field().Side())
	poly, err := render.RenderAll(render.NewPolygonRenderer(sc.Surface(), origin))
	if err != nil {
		return err
	}
	ref, err := render.RenderAll(render.NewReferenceMesher(sc.Field(), sc.Threshold(), origin))
	if err != nil {
		return err
	}
	dev := render.MeasureDeviation(poly, render.NewTriangleIndex(ref))
	log.Printf("%d polygon triangles vs %d reference triangles: mean deviation %.3f, max %.3f",
		len(poly), len(ref), dev.Mean, dev.Max)
	return nil
}
