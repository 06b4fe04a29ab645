package scene

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/soypat/isosurf/form3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

const metaballsTOML = `
field = "metaballs"
threshold = 0.4
cells = [16, 8, 4]
workers = 3
output = "blob.stl"
preview = "blob.png"

[[metaballs]]
strength = 1
radius = 1
center = [0, 0, 0]

[[metaballs]]
strength = 2
radius = 0.5
center = [1, 0, 0]
`

const torusYAML = `
field: torus
radius: 2
minor_radius: 0.5
cells: [20, 20, 10]
min: [-3, -3, -1]
max: [3, 3, 1]
`

func TestDecodeTOML(t *testing.T) {
	cfg, err := Decode(strings.NewReader(metaballsTOML), ".toml")
	require.NoError(t, err)
	assert.Equal(t, KindMetaballs, cfg.Field)
	assert.Equal(t, 0.4, cfg.Threshold)
	assert.Equal(t, []int{16, 8, 4}, cfg.Cells)
	assert.Equal(t, 3, cfg.Workers)
	assert.Equal(t, "blob.png", cfg.Preview)
	require.Len(t, cfg.Metaballs, 2)
	assert.Equal(t, []float64{1, 0, 0}, cfg.Metaballs[1].Center)

	sc, err := cfg.Build()
	require.NoError(t, err)
	assert.Equal(t, [3]int{16, 8, 4}, sc.Grid.Cells)
	mb, ok := sc.Field.(*form3.Metaballs)
	require.True(t, ok)
	assert.Len(t, mb.Balls, 2)
	// Center of the first ball is inside the figure.
	assert.Less(t, sc.Field.Evaluate(r3.Vec{}), 0.0)
}

func TestDecodeYAML(t *testing.T) {
	cfg, err := Decode(strings.NewReader(torusYAML), ".yml")
	require.NoError(t, err)
	assert.Equal(t, KindTorus, cfg.Field)
	assert.Equal(t, 0.5, cfg.MinorRadius)
	// Unset keys keep their defaults.
	assert.Equal(t, Default().Output, cfg.Output)

	sc, err := cfg.Build()
	require.NoError(t, err)
	assert.Equal(t, r3.Box{Min: r3.Vec{X: -3, Y: -3, Z: -1}, Max: r3.Vec{X: 3, Y: 3, Z: 1}}, sc.Grid.Bounds)
	assert.Less(t, sc.Field.Evaluate(r3.Vec{X: 2}), 0.0)
	assert.Greater(t, sc.Field.Evaluate(r3.Vec{}), 0.0)
}

func TestDecodeEmptyYAML(t *testing.T) {
	cfg, err := Decode(strings.NewReader(""), ".yaml")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestDecodeUnknownKey(t *testing.T) {
	_, err := Decode(strings.NewReader("feild = \"sphere\"\n"), ".toml")
	assert.Error(t, err)
	_, err = Decode(strings.NewReader("feild: sphere\n"), ".yaml")
	assert.Error(t, err)
	_, err = Decode(strings.NewReader("{}"), ".json")
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "torus.yaml")
	require.NoError(t, os.WriteFile(path, []byte(torusYAML), 0o644))
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, KindTorus, cfg.Field)

	_, err = Load(filepath.Join(dir, "missing.toml"))
	assert.Error(t, err)
}

func TestDefaultBuild(t *testing.T) {
	sc, err := Default().Build()
	require.NoError(t, err)
	// Unit sphere bounds enlarged by 10%.
	assert.InDelta(t, -1.1, sc.Grid.Bounds.Min.X, 1e-12)
	assert.InDelta(t, 1.1, sc.Grid.Bounds.Max.Z, 1e-12)
	assert.NotNil(t, sc.Gradient)
	assert.InDelta(t, -1, sc.Field.Evaluate(r3.Vec{}), 1e-12)
}

func TestDefaultBuildEveryKind(t *testing.T) {
	for _, kind := range []string{KindSphere, KindTorus, KindThreeFold, KindMetaballs} {
		cfg := Default()
		cfg.Field = kind
		sc, err := cfg.Build()
		require.NoError(t, err, kind)
		assert.NoError(t, sc.Grid.Validate(), kind)
		assert.NotNil(t, sc.Field, kind)
	}
}

func TestBuildLevel(t *testing.T) {
	cfg := Default()
	cfg.Level = 3 // |p|² = 4 → radius 2.
	sc, err := cfg.Build()
	require.NoError(t, err)
	assert.InDelta(t, 0, sc.Field.Evaluate(r3.Vec{Y: 2}), 1e-12)
}

func TestBuildDemoMetaballs(t *testing.T) {
	cfg := Default()
	cfg.Field = KindMetaballs
	sc, err := cfg.Build()
	require.NoError(t, err)
	mb := sc.Field.(*form3.Metaballs)
	assert.Len(t, mb.Balls, len(form3.DemoMetaballs().Balls))
}

func TestValidate(t *testing.T) {
	for name, mod := range map[string]func(*Config){
		"unknown field": func(c *Config) { c.Field = "cube" },
		"short cells":   func(c *Config) { c.Cells = []int{4, 4} },
		"zero cells":    func(c *Config) { c.Cells = []int{4, 0, 4} },
		"min only":      func(c *Config) { c.Min = []float64{0, 0, 0} },
		"inverted box":  func(c *Config) { c.Min, c.Max = []float64{1, 0, 0}, []float64{0, 1, 1} },
		"negative work": func(c *Config) { c.Workers = -1 },
		"no output":     func(c *Config) { c.Output = "" },
		"bad radius":    func(c *Config) { c.Radius = -1 },
		"metaball center": func(c *Config) {
			c.Field = KindMetaballs
			c.Metaballs = []Ball{{Strength: 1, Radius: 1, Center: []float64{0}}}
		},
	} {
		cfg := Default()
		mod(&cfg)
		_, err := cfg.Build()
		assert.Error(t, err, name)
	}
}
