package form3

import (
	"errors"
	"math"
	"math/rand"
	"strings"
	"testing"

	"github.com/deadsy/sdfx/sdf"
	"github.com/soypat/isosurf"
	"github.com/soypat/isosurf/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestGradients(t *testing.T) {
	const (
		eps = 1e-6
		tol = 1e-4
	)
	sphere, _ := Sphere(1.3)
	torus, _ := Torus(2, 0.7)
	plane, _ := Plane(r3.Vec{X: 1, Y: -2, Z: 0.5}, 0.3)
	rng := rand.New(rand.NewSource(1))
	for _, test := range []struct {
		name string
		s    Surface
	}{
		{name: "sphere", s: sphere},
		{name: "torus", s: torus},
		{name: "plane", s: plane},
		{name: "threefold", s: ThreeFold()},
		{name: "metaballs", s: DemoMetaballs()},
	} {
		t.Run(test.name, func(t *testing.T) {
			for i := 0; i < 500; i++ {
				p := r3.Vec{X: 4*rng.Float64() - 2, Y: 4*rng.Float64() - 2, Z: 4*rng.Float64() - 2}
				got := test.s.Gradient(p)
				want := isosurf.CentralDifference(test.s, p, eps)
				scale := math.Max(1, r3.Norm(want))
				if r3.Norm(r3.Sub(got, want)) > tol*scale {
					t.Fatalf("gradient at %v: got %v. want %v", p, got, want)
				}
			}
		})
	}
}

func TestMetaballContinuity(t *testing.T) {
	const tol = 1e-9
	m := Metaball{Strength: 1.5, Radius: 0.8, Center: r3.Vec{X: 0.1, Y: -0.2, Z: 0.3}}
	dir := r3.Unit(r3.Vec{X: 1, Y: 2, Z: -1})
	at := func(r float64) r3.Vec { return r3.Add(m.Center, r3.Scale(r, dir)) }
	for _, r := range []float64{m.Radius / 3, m.Radius} {
		below, above := m.Value(at(r-tol)), m.Value(at(r+tol))
		if math.Abs(below-above) > 1e-6 {
			t.Errorf("value discontinuous at r=%g: %g != %g", r, below, above)
		}
		gb, ga := m.Gradient(at(r-tol)), m.Gradient(at(r+tol))
		if r3.Norm(r3.Sub(gb, ga)) > 1e-6 {
			t.Errorf("gradient discontinuous at r=%g: %v != %v", r, gb, ga)
		}
	}
	if got := m.Value(m.Center); got != m.Strength {
		t.Errorf("value at center got %g. want %g", got, m.Strength)
	}
	if got := m.Value(at(1.01 * m.Radius)); got != 0 {
		t.Errorf("value beyond radius got %g. want 0", got)
	}
	if got := m.Gradient(m.Center); got != (r3.Vec{}) {
		t.Errorf("gradient at center got %v. want zero", got)
	}
}

func TestMetaballsValidation(t *testing.T) {
	ball := Metaball{Strength: 1, Radius: 1}
	for _, test := range []struct {
		name      string
		threshold float64
		balls     []Metaball
	}{
		{name: "zero threshold", threshold: 0, balls: []Metaball{ball}},
		{name: "no balls", threshold: 0.5},
		{name: "zero radius", threshold: 0.5, balls: []Metaball{{Strength: 1}}},
		{name: "NaN radius", threshold: 0.5, balls: []Metaball{{Strength: 1, Radius: math.NaN()}}},
		{name: "inf center", threshold: 0.5, balls: []Metaball{{Strength: 1, Radius: 1, Center: r3.Vec{Y: math.Inf(1)}}}},
	} {
		if _, err := NewMetaballs(test.threshold, test.balls); err == nil {
			t.Errorf("%s: expected error", test.name)
		}
	}
	_, err := NewMetaballs(0.5, nil)
	var perr *ParamError
	if !errors.As(err, &perr) || !strings.HasSuffix(perr.Func, "form3.NewMetaballs") {
		t.Errorf("expected error naming NewMetaballs, got %v", err)
	}
	mb, err := NewMetaballs(0.5, []Metaball{ball})
	if err != nil {
		t.Fatal(err)
	}
	if got := mb.Evaluate(r3.Vec{X: 5}); got != 0.5 {
		t.Errorf("field far from balls got %g. want threshold", got)
	}
}

func TestBounds(t *testing.T) {
	sphere, _ := Sphere(1.5)
	torus, _ := Torus(2, 0.5)
	rng := rand.New(rand.NewSource(2))
	for _, test := range []struct {
		name string
		s    Shape
	}{
		{name: "sphere", s: sphere},
		{name: "torus", s: torus},
		{name: "threefold", s: ThreeFold()},
		{name: "metaballs", s: DemoMetaballs()},
	} {
		t.Run(test.name, func(t *testing.T) {
			bb := test.s.Bounds()
			big := d3.Scale(bb, 1.2)
			inside := 0
			for i := 0; i < 4000; i++ {
				sz := d3.Size(big)
				p := r3.Add(big.Min, r3.Vec{X: sz.X * rng.Float64(), Y: sz.Y * rng.Float64(), Z: sz.Z * rng.Float64()})
				v := test.s.Evaluate(p)
				if d3.Contains(bb, p) {
					if v < 0 {
						inside++
					}
					continue
				}
				if v < 0 {
					t.Fatalf("point %v outside bounds %+v is inside surface: %g", p, bb, v)
				}
			}
			if inside == 0 {
				t.Error("no sampled point inside the surface")
			}
		})
	}
}

func TestInvalidParameters(t *testing.T) {
	if _, err := Sphere(0); err == nil {
		t.Error("expected error for zero radius sphere")
	}
	if _, err := Plane(r3.Vec{}, 1); err == nil {
		t.Error("expected error for zero plane normal")
	}
	if _, err := Torus(1, 2); err == nil {
		t.Error("expected error for torus with minor radius larger than major")
	}
	_, err := Torus(1, -1)
	var perr *ParamError
	if !errors.As(err, &perr) || !strings.HasSuffix(perr.Func, "form3.Torus") {
		t.Errorf("expected error naming the constructor, got %v", err)
	}
}

func TestFromSDFX(t *testing.T) {
	s, err := sdf.Sphere3D(2)
	if err != nil {
		t.Fatal(err)
	}
	f := FromSDFX(s)
	for _, test := range []struct {
		p    r3.Vec
		want float64
	}{
		{p: r3.Vec{}, want: -2},
		{p: r3.Vec{X: 3}, want: 1},
		{p: r3.Vec{Y: -2}, want: 0},
	} {
		if got := f.Evaluate(test.p); math.Abs(got-test.want) > 1e-12 {
			t.Errorf("Evaluate(%v) got %g. want %g", test.p, got, test.want)
		}
	}
	bb := f.Bounds()
	if !d3.BoxEqualWithin(bb, r3.Box{Min: d3.Elem(-2), Max: d3.Elem(2)}, 1e-12) {
		t.Errorf("bounds got %+v", bb)
	}
}
