package demo

import (
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"slices"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"golang.org/x/image/colornames"

	"github.com/gogpu/glpipe"
)

// Config selects and parameterizes a demo run. It can be decoded from
// TOML:
//
//	demo = "translation"
//	width = 400
//	height = 300
//	seed = 7
//	translation = [150.0, 78.0]
//	clear_color = "transparent"
type Config struct {
	Demo   string `toml:"demo"`
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
	// Seed feeds the random generator of random-rectangles and translation.
	Seed uint64 `toml:"seed"`
	// Count is the number of rectangles drawn by random-rectangles.
	Count       int        `toml:"count"`
	Translation [2]float32 `toml:"translation"`
	// ClearColor is "transparent" or an SVG color name such as "white".
	ClearColor string `toml:"clear_color"`
}

// DefaultConfig returns the settings the demos were written for.
func DefaultConfig() Config {
	return Config{
		Demo:        NameHelloWorld,
		Width:       DefaultWidth,
		Height:      DefaultHeight,
		Seed:        1,
		Count:       50,
		Translation: [2]float32{150, 78},
		ClearColor:  "transparent",
	}
}

// LoadConfig decodes TOML from r over DefaultConfig. Unknown keys are
// rejected.
func LoadConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()
	dec := toml.NewDecoder(r).DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return Config{}, fmt.Errorf("demo: config: %s", strict.String())
		}
		return Config{}, fmt.Errorf("demo: config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfigFile reads a TOML config file.
func LoadConfigFile(path string) (Config, error) {
	f, err := os.Open(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return Config{}, err
	}
	defer func() {
		_ = f.Close()
	}()
	return LoadConfig(f)
}

// Validate checks the config for values no demo can run with.
func (c Config) Validate() error {
	var errs []error
	if !slices.Contains(Names(), c.Demo) {
		errs = append(errs, fmt.Errorf("%w: %q", ErrUnknownDemo, c.Demo))
	}
	if c.Width <= 0 || c.Height <= 0 {
		errs = append(errs, fmt.Errorf("canvas size %dx%d must be positive", c.Width, c.Height))
	}
	if c.Count < 0 {
		errs = append(errs, fmt.Errorf("count %d is negative", c.Count))
	}
	if _, err := ParseColor(c.ClearColor); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return fmt.Errorf("demo: invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// Rand returns the seeded generator for the config.
func (c Config) Rand() *rand.Rand {
	return rand.New(rand.NewPCG(c.Seed, c.Seed^0x9e3779b97f4a7c15))
}

// Options converts the config into pipeline options.
func (c Config) Options() []glpipe.Option {
	bg, err := ParseColor(c.ClearColor)
	if err != nil {
		bg = glpipe.Transparent
	}
	return []glpipe.Option{
		glpipe.WithCanvasSize(c.Width, c.Height),
		glpipe.WithClearColor(bg),
	}
}

// ParseColor resolves "transparent", an empty string (also transparent)
// or an SVG color name.
func ParseColor(name string) (glpipe.RGBA, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" || name == "transparent" {
		return glpipe.Transparent, nil
	}
	c, ok := colornames.Map[name]
	if !ok {
		return glpipe.RGBA{}, fmt.Errorf("demo: unknown color %q", name)
	}
	return glpipe.FromColor(c), nil
}

// Lookup builds the named demo from cfg.
func Lookup(name string, cfg Config) (Demo, error) {
	switch name {
	case NameHelloWorld:
		return HelloWorld(), nil
	case NameTwoRectangles:
		return TwoRectangles(), nil
	case NameRandomRectangles:
		return RandomRectangles(cfg.Rand(), cfg.Count), nil
	case NameTranslation:
		return Translation(cfg.Rand(), cfg.Translation[0], cfg.Translation[1]), nil
	}
	return Demo{}, fmt.Errorf("%w: %q (have %s)", ErrUnknownDemo, name, strings.Join(Names(), ", "))
}
