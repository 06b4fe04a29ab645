// Package d3 has the few 3D vector and box helpers gonum's r3 lacks.
package d3

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Elem returns a vector with all components set to k.
func Elem(k float64) r3.Vec {
	return r3.Vec{X: k, Y: k, Z: k}
}

// EqualWithin returns true if all components of a and b differ by no more than tol.
func EqualWithin(a, b r3.Vec, tol float64) bool {
	d := r3.Sub(a, b)
	return math.Abs(d.X) <= tol && math.Abs(d.Y) <= tol && math.Abs(d.Z) <= tol
}

// MinElem returns the component-wise minimum of a and b.
func MinElem(a, b r3.Vec) r3.Vec {
	return r3.Vec{X: math.Min(a.X, b.X), Y: math.Min(a.Y, b.Y), Z: math.Min(a.Z, b.Z)}
}

// MaxElem returns the component-wise maximum of a and b.
func MaxElem(a, b r3.Vec) r3.Vec {
	return r3.Vec{X: math.Max(a.X, b.X), Y: math.Max(a.Y, b.Y), Z: math.Max(a.Z, b.Z)}
}

// IsFinite reports whether no component of a is infinite or NaN.
func IsFinite(a r3.Vec) bool {
	finite := func(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }
	return finite(a.X) && finite(a.Y) && finite(a.Z)
}
