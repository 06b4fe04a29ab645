package d3

import "gonum.org/v1/gonum/spatial/r3"

// Bounds returns the smallest box containing pts. It panics if pts is empty.
func Bounds(pts []r3.Vec) r3.Box {
	b := r3.Box{Min: pts[0], Max: pts[0]}
	for _, p := range pts[1:] {
		b.Min = MinElem(b.Min, p)
		b.Max = MaxElem(b.Max, p)
	}
	return b
}

// Size returns the extent of b along each axis.
func Size(b r3.Box) r3.Vec { return r3.Sub(b.Max, b.Min) }

// Center returns the midpoint of b.
func Center(b r3.Box) r3.Vec { return r3.Scale(0.5, r3.Add(b.Min, b.Max)) }

// Scale returns b scaled by k about its center.
func Scale(b r3.Box, k float64) r3.Box {
	c := Center(b)
	half := r3.Scale(0.5*k, Size(b))
	return r3.Box{Min: r3.Sub(c, half), Max: r3.Add(c, half)}
}

// Contains reports whether v lies in b, boundary included.
func Contains(b r3.Box, v r3.Vec) bool {
	return b.Min.X <= v.X && v.X <= b.Max.X &&
		b.Min.Y <= v.Y && v.Y <= b.Max.Y &&
		b.Min.Z <= v.Z && v.Z <= b.Max.Z
}

// BoxEqualWithin returns true if the corners of a and b are within tol of each other.
func BoxEqualWithin(a, b r3.Box, tol float64) bool {
	return EqualWithin(a.Min, b.Min, tol) && EqualWithin(a.Max, b.Max, tol)
}
