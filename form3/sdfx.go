package form3

import (
	"github.com/deadsy/sdfx/sdf"
	"github.com/soypat/isosurf"
	"gonum.org/v1/gonum/spatial/r3"
)

// FromSDFX adapts a signed distance function from the sdfx library
// so it can be rendered with marching cubes.
func FromSDFX(s sdf.SDF3) isosurf.Bounded {
	if s == nil {
		panic("nil sdfx SDF3")
	}
	return sdfxField{s: s}
}

type sdfxField struct {
	s sdf.SDF3
}

func (f sdfxField) Evaluate(p r3.Vec) float64 {
	return f.s.Evaluate(sdf.V3{X: p.X, Y: p.Y, Z: p.Z})
}

func (f sdfxField) Bounds() r3.Box {
	bb := f.s.BoundingBox()
	return r3.Box{
		Min: r3.Vec{X: bb.Min.X, Y: bb.Min.Y, Z: bb.Min.Z},
		Max: r3.Vec{X: bb.Max.X, Y: bb.Max.Y, Z: bb.Max.Z},
	}
}
