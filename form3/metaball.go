package form3

import (
	"math"

	"github.com/soypat/isosurf/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// Metaball is a smoothly decaying scalar contribution centered at a point.
// Its value at distance r from the center is
//
//	a(1-3r²/b²)     for r < b/3
//	3a/2(1-r/b)²    for b/3 <= r < b
//	0               for r >= b
//
// with a the Strength and b the Radius. The value and its first
// derivative are continuous.
type Metaball struct {
	Strength float64
	Radius   float64
	Center   r3.Vec
}

// Value returns the contribution of the metaball at p.
func (m Metaball) Value(p r3.Vec) float64 {
	a, b := m.Strength, m.Radius
	r := r3.Norm(r3.Sub(p, m.Center))
	switch {
	case r >= b:
		return 0
	case r >= b/3:
		k := 1 - r/b
		return 1.5 * a * k * k
	default:
		return a * (1 - 3*r*r/(b*b))
	}
}

// Gradient returns the gradient of the metaball contribution at p.
func (m Metaball) Gradient(p r3.Vec) r3.Vec {
	a, b := m.Strength, m.Radius
	d := r3.Sub(p, m.Center)
	r := r3.Norm(d)
	switch {
	case r >= b:
		return r3.Vec{}
	case r >= b/3:
		// d/dr of the outer piece, along d/r.
		return r3.Scale(-3*a/b*(1-r/b)/r, d)
	default:
		return r3.Scale(-6*a/(b*b), d)
	}
}

// Metaballs is a blended surface of metaballs. Its field is
// Threshold minus the sum of all metaball contributions, so points
// where the sum exceeds Threshold are inside the surface.
type Metaballs struct {
	Threshold float64
	Balls     []Metaball
}

// NewMetaballs validates the parameters of a metaball figure.
func NewMetaballs(threshold float64, balls []Metaball) (*Metaballs, error) {
	if threshold <= 0 {
		return nil, errParam("metaball threshold must be positive")
	}
	if len(balls) == 0 {
		return nil, errParam("no metaballs")
	}
	for _, m := range balls {
		if !(m.Radius > 0) || math.IsInf(m.Radius, 0) {
			return nil, errParam("metaball radius must be positive and finite")
		}
		if !d3.IsFinite(m.Center) {
			return nil, errParam("metaball center must be finite")
		}
	}
	return &Metaballs{Threshold: threshold, Balls: balls}, nil
}

// Evaluate returns the metaball figure field at p.
func (mb *Metaballs) Evaluate(p r3.Vec) float64 {
	sum := 0.0
	for _, m := range mb.Balls {
		sum += m.Value(p)
	}
	return mb.Threshold - sum
}

// Gradient returns the gradient of the metaball figure field at p.
func (mb *Metaballs) Gradient(p r3.Vec) r3.Vec {
	var g r3.Vec
	for _, m := range mb.Balls {
		g = r3.Sub(g, m.Gradient(p))
	}
	return g
}

// Bounds returns the box enclosing every metaball's region of influence.
// Outside of it the field equals Threshold.
func (mb *Metaballs) Bounds() r3.Box {
	pts := make([]r3.Vec, 0, 2*len(mb.Balls))
	for _, m := range mb.Balls {
		rad := d3.Elem(m.Radius)
		pts = append(pts, r3.Sub(m.Center, rad), r3.Add(m.Center, rad))
	}
	return d3.Bounds(pts)
}

// DemoMetaballs returns a nine ball figure at threshold 0.5 resembling a
// head with ears and a snout, to be sampled over [-2,2]³.
func DemoMetaballs() *Metaballs {
	return &Metaballs{
		Threshold: 0.5,
		Balls: []Metaball{
			{Strength: 1, Radius: 1.2, Center: r3.Vec{}},

			{Strength: 1, Radius: 0.5, Center: r3.Vec{X: 0.7}},
			{Strength: 1, Radius: 0.5, Center: r3.Vec{X: -0.7}},
			{Strength: 1, Radius: 0.8, Center: r3.Vec{X: 0.4, Z: 0.9}},
			{Strength: 1, Radius: 0.8, Center: r3.Vec{X: -0.4, Z: 0.9}},

			{Strength: 1, Radius: 0.3, Center: r3.Vec{Y: 0.3}},

			{Strength: 1, Radius: 0.3, Center: r3.Vec{X: 0.25, Y: 0.3, Z: 0.2}},
			{Strength: 1, Radius: 0.3, Center: r3.Vec{X: -0.25, Y: 0.3, Z: 0.2}},

			{Strength: 1, Radius: 0.2, Center: r3.Vec{Y: 0.25, Z: -0.5}},
		},
	}
}
