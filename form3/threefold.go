package form3

import (
	"gonum.org/v1/gonum/spatial/r3"
)

// ThreeFold returns the sextic algebraic surface
//
//	F(x,y,z) = 2y(y²-3x²)(1-z²) + (x²+y²)² - (9z²-1)(1-z²)
//
// which has three fold symmetry about the Z axis. The closed part of the
// surface around the origin lies within the box [-2,2]³, which Bounds returns.
// Unbounded sheets of the surface exist for |z| > 1 far from the Z axis so
// sampling regions much larger than Bounds will include them.
func ThreeFold() Shape { return threeFold{} }

type threeFold struct{}

func (threeFold) Evaluate(p r3.Vec) float64 {
	x, y, z := p.X, p.Y, p.Z
	r := x*x + y*y
	return 2*y*(y*y-3*x*x)*(1-z*z) + r*r - (9*z*z-1)*(1-z*z)
}

func (threeFold) Gradient(p r3.Vec) r3.Vec {
	x, y, z := p.X, p.Y, p.Z
	return r3.Vec{
		X: 4 * (x*x*x + x*y*(y+3*z*z-3)),
		Y: x*x*(4*y+6*z*z-6) + 2*y*y*(2*y-3*z*z+3),
		Z: 4 * z * (3*x*x*y - y*y*y + 9*z*z - 5),
	}
}

func (threeFold) Bounds() r3.Box {
	return r3.Box{
		Min: r3.Vec{X: -2, Y: -2, Z: -2},
		Max: r3.Vec{X: 2, Y: 2, Z: 2},
	}
}
