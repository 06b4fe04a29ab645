package render

import (
	"github.com/chewxy/math32"
	"github.com/soypat/glgl/math/ms3"
	"github.com/soypat/isosurf"
	"gonum.org/v1/gonum/spatial/r3"
)

// VertexBuffers converts a triangle soup into single precision position and
// normal buffers, one entry per soup vertex, ready to be uploaded as vertex attributes.
// Normals are the normalized gradient of g at each vertex. If g is nil the
// flat normal of the triangle a vertex belongs to is used instead.
// Vertices where the normal is undefined get a zero normal.
func VertexBuffers(soup []r3.Vec, g isosurf.Gradient) (pos, normals []ms3.Vec) {
	pos = make([]ms3.Vec, len(soup))
	normals = make([]ms3.Vec, len(soup))
	for i, v := range soup {
		pos[i] = toMS3(v)
	}
	if g != nil {
		for i, v := range soup {
			normals[i] = unit32(toMS3(g.Gradient(v)))
		}
		return pos, normals
	}
	for i := 0; i+3 <= len(soup); i += 3 {
		t := Triangle3{V: [3]r3.Vec{soup[i], soup[i+1], soup[i+2]}}
		n := unit32(toMS3(t.Normal()))
		normals[i], normals[i+1], normals[i+2] = n, n, n
	}
	return pos, normals
}

// Interleave packs positions and normals into a single float32 buffer laid out as
// x, y, z, nx, ny, nz per vertex. pos and normals must have the same length.
func Interleave(pos, normals []ms3.Vec) []float32 {
	if len(pos) != len(normals) {
		panic("position and normal buffers length mismatch")
	}
	buf := make([]float32, 0, 6*len(pos))
	for i := range pos {
		p, n := pos[i], normals[i]
		buf = append(buf, p.X, p.Y, p.Z, n.X, n.Y, n.Z)
	}
	return buf
}

func toMS3(v r3.Vec) ms3.Vec {
	return ms3.Vec{X: float32(v.X), Y: float32(v.Y), Z: float32(v.Z)}
}

func unit32(v ms3.Vec) ms3.Vec {
	norm := math32.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
	if norm == 0 || math32.IsNaN(norm) || math32.IsInf(norm, 0) {
		return ms3.Vec{}
	}
	return ms3.Scale(1/norm, v)
}
