package form3

import (
	"math"

	"github.com/soypat/isosurf"
	"gonum.org/v1/gonum/spatial/r3"
)

// Surface is a field with an analytic gradient.
type Surface interface {
	isosurf.Field
	isosurf.Gradient
}

// Shape is a Surface enclosed by a known bounding box.
type Shape interface {
	Surface
	Bounds() r3.Box
}

// Sphere returns the algebraic sphere field x²+y²+z²-r² centered at the origin.
func Sphere(radius float64) (Shape, error) {
	if radius <= 0 {
		return nil, errParam("invalid sphere radius")
	}
	return sphere{r2: radius * radius, r: radius}, nil
}

type sphere struct {
	r, r2 float64
}

func (s sphere) Evaluate(p r3.Vec) float64 { return r3.Norm2(p) - s.r2 }
func (s sphere) Gradient(p r3.Vec) r3.Vec  { return r3.Scale(2, p) }
func (s sphere) Bounds() r3.Box {
	return r3.Box{
		Min: r3.Vec{X: -s.r, Y: -s.r, Z: -s.r},
		Max: r3.Vec{X: s.r, Y: s.r, Z: s.r},
	}
}

// Plane returns the field n·p - offset of the plane with normal n.
// The outside of the plane is the half space the normal points to.
func Plane(normal r3.Vec, offset float64) (Surface, error) {
	norm := r3.Norm(normal)
	if norm == 0 || math.IsNaN(norm) || math.IsInf(norm, 0) {
		return nil, errParam("invalid plane normal")
	}
	return plane{n: r3.Scale(1/norm, normal), d: offset}, nil
}

type plane struct {
	n r3.Vec
	d float64
}

func (pl plane) Evaluate(p r3.Vec) float64 { return r3.Dot(pl.n, p) - pl.d }
func (pl plane) Gradient(r3.Vec) r3.Vec    { return pl.n }

// Torus returns the algebraic field (√(x²+y²)-R)²+z²-r² of a torus around the Z axis
// with major radius R and minor radius r.
func Torus(majorRadius, minorRadius float64) (Shape, error) {
	switch {
	case minorRadius <= 0:
		return nil, errParam("invalid torus minor radius")
	case majorRadius <= minorRadius:
		return nil, errParam("torus major radius must be larger than minor radius")
	}
	return torus{R: majorRadius, r: minorRadius}, nil
}

type torus struct {
	R, r float64
}

func (t torus) Evaluate(p r3.Vec) float64 {
	q := math.Hypot(p.X, p.Y) - t.R
	return q*q + p.Z*p.Z - t.r*t.r
}

func (t torus) Gradient(p r3.Vec) r3.Vec {
	h := math.Hypot(p.X, p.Y)
	if h == 0 {
		return r3.Vec{Z: 2 * p.Z}
	}
	k := 2 * (h - t.R) / h
	return r3.Vec{X: k * p.X, Y: k * p.Y, Z: 2 * p.Z}
}

func (t torus) Bounds() r3.Box {
	xy := t.R + t.r
	return r3.Box{
		Min: r3.Vec{X: -xy, Y: -xy, Z: -t.r},
		Max: r3.Vec{X: xy, Y: xy, Z: t.r},
	}
}
