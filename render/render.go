package render

import (
	"github.com/soypat/isosurf/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// Renderer streams the triangles of a rendered model.
type Renderer interface {
	// ReadTriangles writes triangles into dst and returns the amount written.
	// It returns io.EOF once the model has been fully read.
	ReadTriangles(dst []Triangle3) (int, error)
}

// Triangle3 is a 3D triangle.
type Triangle3 struct {
	V [3]r3.Vec
}

// Normal returns the unit normal of the triangle following the
// right hand rule on its vertex order. Triangles with no area have a zero normal.
func (t Triangle3) Normal() r3.Vec {
	e1 := r3.Sub(t.V[1], t.V[0])
	e2 := r3.Sub(t.V[2], t.V[0])
	n := r3.Cross(e1, e2)
	norm := r3.Norm(n)
	if norm == 0 {
		return r3.Vec{}
	}
	return r3.Scale(1/norm, n)
}

// Area returns the area of the triangle.
func (t Triangle3) Area() float64 {
	e1 := r3.Sub(t.V[1], t.V[0])
	e2 := r3.Sub(t.V[2], t.V[0])
	return 0.5 * r3.Norm(r3.Cross(e1, e2))
}

// Centroid returns the mean of the triangle vertices.
func (t Triangle3) Centroid() r3.Vec {
	return r3.Scale(1./3., r3.Add(t.V[0], r3.Add(t.V[1], t.V[2])))
}

// Degenerate returns true if two of the triangle's vertices
// are within tol of each other.
func (t Triangle3) Degenerate(tol float64) bool {
	return d3.EqualWithin(t.V[0], t.V[1], tol) ||
		d3.EqualWithin(t.V[1], t.V[2], tol) ||
		d3.EqualWithin(t.V[2], t.V[0], tol)
}

// Triangles groups a triangle soup into triangles. Trailing
// vertices that do not complete a triangle are ignored.
func Triangles(soup []r3.Vec) []Triangle3 {
	model := make([]Triangle3, len(soup)/3)
	for i := range model {
		copy(model[i].V[:], soup[3*i:3*i+3])
	}
	return model
}

// Soup flattens triangles back into a triangle soup.
func Soup(model []Triangle3) []r3.Vec {
	soup := make([]r3.Vec, 0, 3*len(model))
	for _, t := range model {
		soup = append(soup, t.V[:]...)
	}
	return soup
}
