package isosurf_test

import (
	"math"
	"testing"

	"github.com/soypat/isosurf"
	"gonum.org/v1/gonum/spatial/r3"
)

type analytic struct{ isosurf.FieldFunc }

func (analytic) Gradient(p r3.Vec) r3.Vec { return r3.Vec{X: 3} }

func TestNormal(t *testing.T) {
	const tol = 1e-6
	sphere := isosurf.FieldFunc(func(x, y, z float64) float64 { return x*x + y*y + z*z - 1 })
	for _, p := range []r3.Vec{{X: 1}, {Y: -2}, {X: 1, Y: 1, Z: 1}, {X: -0.3, Y: 0.2, Z: 0.9}} {
		got := isosurf.Normal(sphere, p, 1e-4)
		want := r3.Unit(p)
		if r3.Norm(r3.Sub(got, want)) > tol {
			t.Errorf("Normal at %v: got %v. want %v", p, got, want)
		}
	}
	// Analytic gradients take precedence over sampling.
	f := analytic{FieldFunc: sphere}
	got := isosurf.Normal(f, r3.Vec{Y: 1}, 1e-4)
	if got != (r3.Vec{X: 1}) {
		t.Errorf("Normal of analytic field got %v. want +X", got)
	}
}

func TestCentralDifference(t *testing.T) {
	const tol = 1e-9
	f := isosurf.FieldFunc(func(x, y, z float64) float64 { return 2*x - 3*y + 0.5*z + 7 })
	got := isosurf.CentralDifference(f, r3.Vec{X: 10, Y: -4, Z: 1}, 1e-3)
	want := r3.Vec{X: 2, Y: -3, Z: 0.5}
	if r3.Norm(r3.Sub(got, want)) > tol {
		t.Errorf("CentralDifference got %v. want %v", got, want)
	}
}

func TestOffsetNegate(t *testing.T) {
	f := isosurf.FieldFunc(func(x, y, z float64) float64 { return math.Sqrt(x*x+y*y+z*z) - 1 })
	p := r3.Vec{X: 2}
	if got := isosurf.Offset(f, 0.5).Evaluate(p); got != 0.5 {
		t.Errorf("Offset got %g. want 0.5", got)
	}
	if got := isosurf.Negate(f).Evaluate(p); got != -1 {
		t.Errorf("Negate got %g. want -1", got)
	}
}
