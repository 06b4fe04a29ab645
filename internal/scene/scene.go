// Package scene loads descriptions of fields to be meshed from TOML or YAML files.
package scene

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/soypat/isosurf"
	"github.com/soypat/isosurf/form3"
	"github.com/soypat/isosurf/internal/d3"
	"github.com/soypat/isosurf/render"
	"gonum.org/v1/gonum/spatial/r3"
	"gopkg.in/yaml.v3"
)

// Field kinds understood by Build.
const (
	KindSphere    = "sphere"
	KindTorus     = "torus"
	KindThreeFold = "threefold"
	KindMetaballs = "metaballs"
)

// boundsMargin enlarges automatic bounds so the surface does not touch the grid boundary.
const boundsMargin = 1.1

// Config describes a field, the grid it is sampled on and where output goes.
type Config struct {
	Field       string  `toml:"field" yaml:"field"`
	Radius      float64 `toml:"radius" yaml:"radius"`
	MinorRadius float64 `toml:"minor_radius" yaml:"minor_radius"`
	// Threshold of metaball figures.
	Threshold float64 `toml:"threshold" yaml:"threshold"`
	// Level selects the level set F = Level instead of F = 0.
	Level     float64 `toml:"level" yaml:"level"`
	Metaballs []Ball  `toml:"metaballs" yaml:"metaballs"`

	Cells []int `toml:"cells" yaml:"cells"`
	// Min and Max bound the sampled region. When both are empty the
	// bounds of the field are used, enlarged by 10%.
	Min     []float64 `toml:"min" yaml:"min"`
	Max     []float64 `toml:"max" yaml:"max"`
	Workers int       `toml:"workers" yaml:"workers"`

	Output  string `toml:"output" yaml:"output"`
	Preview string `toml:"preview" yaml:"preview"`
}

// Ball is a single metaball of a metaballs scene.
type Ball struct {
	Strength float64   `toml:"strength" yaml:"strength"`
	Radius   float64   `toml:"radius" yaml:"radius"`
	Center   []float64 `toml:"center" yaml:"center"`
}

// Scene is a validated Config ready to be rendered.
type Scene struct {
	Field    isosurf.Field
	Gradient isosurf.Gradient
	Grid     render.GridConfig
}

// Default returns the unit sphere scene. Its minor radius and threshold
// make it valid for every other field kind too.
func Default() Config {
	return Config{
		Field:       KindSphere,
		Radius:      1,
		MinorRadius: 0.25,
		Threshold:   0.5,
		Cells:       []int{32, 32, 32},
		Output:      "out.stl",
	}
}

// Load reads a Config from a TOML (.toml) or YAML (.yaml, .yml) file.
// Keys absent from the file keep their Default values.
func Load(path string) (Config, error) {
	fp, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer fp.Close()
	cfg, err := Decode(fp, filepath.Ext(path))
	if err != nil {
		return Config{}, fmt.Errorf("loading %s: %w", path, err)
	}
	return cfg, nil
}

// Decode reads a Config in the format given by a file extension.
// Unknown keys are an error.
func Decode(r io.Reader, ext string) (Config, error) {
	cfg := Default()
	var err error
	switch strings.ToLower(ext) {
	case ".toml":
		err = toml.NewDecoder(r).DisallowUnknownFields().Decode(&cfg)
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		err = dec.Decode(&cfg)
		if errors.Is(err, io.EOF) {
			err = nil // Empty document.
		}
	default:
		return Config{}, fmt.Errorf("unknown scene file format %q", ext)
	}
	if err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the Config for errors that don't depend on the field parameters.
func (c Config) Validate() error {
	switch c.Field {
	case KindSphere, KindTorus, KindThreeFold, KindMetaballs:
	default:
		return fmt.Errorf("unknown field %q", c.Field)
	}
	if len(c.Cells) != 3 {
		return errors.New("cells must have 3 components")
	}
	if len(c.Min) != len(c.Max) {
		return errors.New("min and max must be both set or both empty")
	}
	if len(c.Min) != 0 && len(c.Min) != 3 {
		return errors.New("min and max must have 3 components")
	}
	if c.Workers < 0 {
		return errors.New("negative workers")
	}
	if c.Output == "" {
		return errors.New("empty output path")
	}
	for i, b := range c.Metaballs {
		if len(b.Center) != 3 {
			return fmt.Errorf("metaball %d: center must have 3 components", i)
		}
	}
	return nil
}

// Build validates the Config and constructs the field and grid it describes.
func (c Config) Build() (Scene, error) {
	if err := c.Validate(); err != nil {
		return Scene{}, err
	}
	shape, err := c.shape()
	if err != nil {
		return Scene{}, fmt.Errorf("building %s: %w", c.Field, err)
	}
	bounds := d3.Scale(shape.Bounds(), boundsMargin)
	if len(c.Min) == 3 {
		bounds = r3.Box{Min: vec(c.Min), Max: vec(c.Max)}
	}
	sc := Scene{
		Field:    shape,
		Gradient: shape,
		Grid: render.GridConfig{
			Cells:   [3]int{c.Cells[0], c.Cells[1], c.Cells[2]},
			Bounds:  bounds,
			Workers: c.Workers,
		},
	}
	if c.Level != 0 {
		sc.Field = isosurf.Offset(shape, c.Level)
	}
	if err := sc.Grid.Validate(); err != nil {
		return Scene{}, err
	}
	return sc, nil
}

func (c Config) shape() (form3.Shape, error) {
	switch c.Field {
	case KindSphere:
		return form3.Sphere(c.Radius)
	case KindTorus:
		return form3.Torus(c.Radius, c.MinorRadius)
	case KindThreeFold:
		return form3.ThreeFold(), nil
	case KindMetaballs:
		if len(c.Metaballs) == 0 {
			demo := form3.DemoMetaballs()
			return form3.NewMetaballs(c.Threshold, demo.Balls)
		}
		balls := make([]form3.Metaball, len(c.Metaballs))
		for i, b := range c.Metaballs {
			balls[i] = form3.Metaball{Strength: b.Strength, Radius: b.Radius, Center: vec(b.Center)}
		}
		return form3.NewMetaballs(c.Threshold, balls)
	}
	return nil, fmt.Errorf("unknown field %q", c.Field)
}

func vec(v []float64) r3.Vec {
	return r3.Vec{X: v[0], Y: v[1], Z: v[2]}
}
