// Command glpipe renders one of the WebGL2 fundamentals demos and writes
// the canvas to a PNG file.
//
// Usage:
//
//	glpipe -demo translation -tx 150 -ty 78 -output f.png
//	glpipe -config demo.toml -scale 2
//	glpipe -backend gl33 -demo hello-world   (built with -tags glfw)
//
// Flags given on the command line override values from -config.
package main

import (
	"errors"
	"flag"
	"fmt"
	"image"
	"image/png"
	"io"
	"log"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/image/draw"

	"github.com/gogpu/glpipe"
	"github.com/gogpu/glpipe/backend"
	_ "github.com/gogpu/glpipe/backend/desktop"
	_ "github.com/gogpu/glpipe/backend/soft"
	"github.com/gogpu/glpipe/demo"
)

func main() {
	if err := run(os.Args[1:], os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		log.Fatalf("glpipe: %v", err)
	}
}

type settings struct {
	backend   string
	config    string
	output    string
	scale     int
	filter    string
	verbose   bool
	keepBlank bool
	cfg       demo.Config
}

func parseFlags(args []string, stderr io.Writer) (settings, error) {
	fs := flag.NewFlagSet("glpipe", flag.ContinueOnError)
	fs.SetOutput(stderr)
	def := demo.DefaultConfig()

	var s settings
	fs.StringVar(&s.backend, "backend", backend.BackendSoft, "backend: "+strings.Join(backend.Available(), ", ")+" or auto")
	fs.StringVar(&s.config, "config", "", "TOML config file")
	fs.StringVar(&s.output, "output", "glpipe.png", "output PNG file")
	fs.IntVar(&s.scale, "scale", 1, "integer upscale factor for the PNG")
	fs.StringVar(&s.filter, "filter", "nearest", "upscale filter: nearest, bilinear or catmullrom")
	fs.BoolVar(&s.verbose, "v", false, "log pipeline steps at debug level")
	fs.BoolVar(&s.keepBlank, "keep-blank", false, "save the blank canvas when the demo fails")

	name := fs.String("demo", def.Demo, "demo: "+strings.Join(demo.Names(), ", "))
	width := fs.Int("width", def.Width, "canvas width")
	height := fs.Int("height", def.Height, "canvas height")
	seed := fs.Uint64("seed", def.Seed, "random seed")
	count := fs.Int("count", def.Count, "rectangles drawn by random-rectangles")
	tx := fs.Float64("tx", float64(def.Translation[0]), "translation x in pixels")
	ty := fs.Float64("ty", float64(def.Translation[1]), "translation y in pixels")
	bg := fs.String("clear", def.ClearColor, "clear color: transparent or an SVG color name")

	if err := fs.Parse(args); err != nil {
		return s, err
	}

	s.cfg = def
	if s.config != "" {
		cfg, err := demo.LoadConfigFile(s.config)
		if err != nil {
			return s, err
		}
		s.cfg = cfg
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "demo":
			s.cfg.Demo = *name
		case "width":
			s.cfg.Width = *width
		case "height":
			s.cfg.Height = *height
		case "seed":
			s.cfg.Seed = *seed
		case "count":
			s.cfg.Count = *count
		case "tx":
			s.cfg.Translation[0] = float32(*tx)
		case "ty":
			s.cfg.Translation[1] = float32(*ty)
		case "clear":
			s.cfg.ClearColor = *bg
		}
	})
	if s.scale < 1 {
		return s, fmt.Errorf("scale %d must be at least 1", s.scale)
	}
	if _, err := scaler(s.filter); err != nil {
		return s, err
	}
	return s, s.cfg.Validate()
}

func run(args []string, stderr io.Writer) error {
	s, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}

	level := slog.LevelInfo
	if s.verbose {
		level = slog.LevelDebug
	}
	glpipe.SetLogger(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})))
	defer glpipe.SetLogger(nil)

	d, err := demo.Lookup(s.cfg.Demo, s.cfg)
	if err != nil {
		return err
	}

	b, err := openBackend(s.backend, s.cfg.Width, s.cfg.Height)
	if err != nil {
		return err
	}
	defer func() {
		_ = b.Close()
	}()

	opts := s.cfg.Options()
	_, runErr := demo.Run(b, b.Canvas(), d, opts...)
	if runErr != nil && !s.keepBlank {
		return runErr
	}

	img, err := b.Snapshot()
	if err != nil {
		return err
	}
	if err := writePNG(s.output, img, s.scale, s.filter); err != nil {
		return err
	}
	w, h := b.Canvas().Size()
	log.Printf("%s saved to %s (%dx%d, backend %s)", d.Name, s.output, w*s.scale, h*s.scale, b.Name())
	return runErr
}

func openBackend(name string, width, height int) (backend.Backend, error) {
	if name == "auto" {
		return backend.Default(width, height)
	}
	return backend.Open(name, width, height)
}

func scaler(name string) (draw.Scaler, error) {
	switch name {
	case "nearest":
		return draw.NearestNeighbor, nil
	case "bilinear":
		return draw.BiLinear, nil
	case "catmullrom":
		return draw.CatmullRom, nil
	}
	return nil, fmt.Errorf("unknown filter %q", name)
}

// upscale returns src enlarged by factor.
func upscale(src *image.NRGBA, factor int, filter string) (image.Image, error) {
	if factor == 1 {
		return src, nil
	}
	sc, err := scaler(filter)
	if err != nil {
		return nil, err
	}
	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx()*factor, b.Dy()*factor))
	sc.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	return dst, nil
}

func writePNG(path string, src *image.NRGBA, factor int, filter string) error {
	img, err := upscale(src, factor, filter)
	if err != nil {
		return err
	}
	f, err := os.Create(path) //nolint:gosec // output path is user-provided intentionally
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
