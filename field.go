package isosurf

import (
	"gonum.org/v1/gonum/spatial/r3"
)

// 3D scalar field utility functions.

// Field is the interface to a 3D scalar field whose zero level set
// is the surface to be extracted.
type Field interface {
	// Evaluate returns the field value at a point in 3D space.
	// The value is negative if the point is inside the surface
	// and zero or positive if it is outside.
	Evaluate(p r3.Vec) float64
}

// Gradient is implemented by fields that know their analytic gradient.
// The gradient of a field points from the inside of the surface to
// the outside, so the normalized gradient at a surface point is its outward normal.
type Gradient interface {
	Gradient(p r3.Vec) r3.Vec
}

// Bounded is implemented by fields that can report a bounding box
// enclosing their surface.
type Bounded interface {
	Field
	Bounds() r3.Box
}

// FieldFunc adapts a function of three coordinates to the Field interface.
type FieldFunc func(x, y, z float64) float64

// Evaluate calls f(p.X, p.Y, p.Z).
func (f FieldFunc) Evaluate(p r3.Vec) float64 { return f(p.X, p.Y, p.Z) }

var _ Field = FieldFunc(nil)

// Normal returns the normal of a Field at a point (doesn't need to be on the surface).
// Computed by sampling it several times inside a box of side 2*eps centered on p.
// If f implements Gradient the analytic gradient is used instead and eps is ignored.
func Normal(f Field, p r3.Vec, eps float64) r3.Vec {
	if g, ok := f.(Gradient); ok {
		return r3.Unit(g.Gradient(p))
	}
	return r3.Unit(CentralDifference(f, p, eps))
}

// CentralDifference approximates the gradient of f at p with central differences of step eps.
func CentralDifference(f Field, p r3.Vec, eps float64) r3.Vec {
	inv := 1 / (2 * eps)
	return r3.Vec{
		X: inv * (f.Evaluate(r3.Add(p, r3.Vec{X: eps})) - f.Evaluate(r3.Add(p, r3.Vec{X: -eps}))),
		Y: inv * (f.Evaluate(r3.Add(p, r3.Vec{Y: eps})) - f.Evaluate(r3.Add(p, r3.Vec{Y: -eps}))),
		Z: inv * (f.Evaluate(r3.Add(p, r3.Vec{Z: eps})) - f.Evaluate(r3.Add(p, r3.Vec{Z: -eps}))),
	}
}

// Offset returns a field whose surface is the level set f = level.
func Offset(f Field, level float64) Field {
	return offset{f: f, level: level}
}

type offset struct {
	f     Field
	level float64
}

func (o offset) Evaluate(p r3.Vec) float64 { return o.f.Evaluate(p) - o.level }

// Negate returns a field with inside and outside swapped.
func Negate(f Field) Field {
	return FieldFunc(func(x, y, z float64) float64 {
		return -f.Evaluate(r3.Vec{X: x, Y: y, Z: z})
	})
}
