package render

import (
	"log/slog"

	"github.com/soypat/isosurf"
	"gonum.org/v1/gonum/spatial/r3"
)

// CaseIndex returns the marching cubes case of a cell: bit i
// is set when the value at corner i is negative.
func CaseIndex(v *[8]float64) uint8 {
	var ci uint8
	for i := 0; i < 8; i++ {
		if v[i] < 0 {
			ci |= 1 << i
		}
	}
	return ci
}

// CaseTriangles returns the edge indices of the triangles of case ci,
// three per triangle. Cases 0 and 255 have no triangles.
func CaseTriangles(ci uint8) []int8 {
	row := &mcTriangleTable[ci]
	n := 0
	for row[n] != mcTriangleEnd {
		n++
	}
	return row[:n:n]
}

// EdgeCorners returns the corner indices joined by a cell edge.
func EdgeCorners(edge int) (a, b int) {
	e := mcEdgeTable[edge]
	return int(e[0]), int(e[1])
}

// ProcessCell appends to dst the triangles that approximate the zero level set
// within a single cell with corner positions p and corner values v, ordered as
// described by mcCornerOffsets. Three consecutive vertices form a triangle.
// The extended slice is returned.
//
// Edge crossings are found by linear interpolation. Non-finite values are
// not guarded against and may yield non-finite vertices.
func ProcessCell(dst []r3.Vec, p *[8]r3.Vec, v *[8]float64) []r3.Vec {
	ci := CaseIndex(v)
	if ci == 0 || ci == 255 {
		return dst
	}
	var edgeVertex [12]r3.Vec
	for e, corners := range mcEdgeTable {
		ia, ib := corners[0], corners[1]
		va, vb := v[ia], v[ib]
		if (va < 0) != (vb < 0) {
			t := -va / (vb - va)
			edgeVertex[e] = r3.Add(r3.Scale(1-t, p[ia]), r3.Scale(t, p[ib]))
		}
	}
	row := &mcTriangleTable[ci]
	for i := 0; row[i] != mcTriangleEnd; i++ {
		dst = append(dst, edgeVertex[row[i]])
	}
	return dst
}

// MarchingCubes samples f over the box spanned by pmin and pmax, divided in
// nx*ny*nz cells, and returns the resulting triangle soup: every three
// consecutive vertices form a triangle and shared vertices are repeated.
// Cells are visited with X as the outermost and Z as the innermost axis.
// If any of nx, ny or nz is not positive the result is empty.
func MarchingCubes(f isosurf.Field, nx, ny, nz int, pmin, pmax r3.Vec) []r3.Vec {
	if nx <= 0 || ny <= 0 || nz <= 0 {
		return nil
	}
	g := newGridSampler(f, [3]int{nx, ny, nz}, pmin, pmax)
	var soup []r3.Vec
	for i := 0; i < nx; i++ {
		soup = g.marchSlab(soup, i)
	}
	logger().Debug("marching cubes",
		slog.Int("nx", nx), slog.Int("ny", ny), slog.Int("nz", nz),
		slog.Int("triangles", len(soup)/3))
	return soup
}

// gridSampler holds the geometry of a regular grid of cells.
type gridSampler struct {
	f     isosurf.Field
	cells [3]int
	min   r3.Vec
	size  r3.Vec // size of a single cell.
}

func newGridSampler(f isosurf.Field, cells [3]int, pmin, pmax r3.Vec) gridSampler {
	d := r3.Sub(pmax, pmin)
	return gridSampler{
		f:     f,
		cells: cells,
		min:   pmin,
		size: r3.Vec{
			X: d.X / float64(cells[0]),
			Y: d.Y / float64(cells[1]),
			Z: d.Z / float64(cells[2]),
		},
	}
}

// cell returns the corner positions and field values of cell (i, j, k).
// Corner values are evaluated anew on every call.
func (g *gridSampler) cell(i, j, k int) (p [8]r3.Vec, v [8]float64) {
	x := g.min.X + float64(i)*g.size.X
	y := g.min.Y + float64(j)*g.size.Y
	z := g.min.Z + float64(k)*g.size.Z
	for c, off := range mcCornerOffsets {
		p[c] = r3.Vec{
			X: x + float64(off[0])*g.size.X,
			Y: y + float64(off[1])*g.size.Y,
			Z: z + float64(off[2])*g.size.Z,
		}
		v[c] = g.f.Evaluate(p[c])
	}
	return p, v
}

// marchSlab appends the triangles of all cells with X index i.
func (g *gridSampler) marchSlab(dst []r3.Vec, i int) []r3.Vec {
	for j := 0; j < g.cells[1]; j++ {
		for k := 0; k < g.cells[2]; k++ {
			p, v := g.cell(i, j, k)
			dst = ProcessCell(dst, &p, &v)
		}
	}
	return dst
}
