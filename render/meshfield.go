package render

import (
	"math"

	"github.com/soypat/isosurf"
	"github.com/soypat/isosurf/internal/d3"
	"gonum.org/v1/gonum/spatial/kdtree"
	"gonum.org/v1/gonum/spatial/r3"
)

var (
	_ isosurf.Bounded   = (*MeshField)(nil)
	_ kdtree.Interface  = centroids{}
	_ kdtree.SortSlicer = centroidPlane{}
	_ kdtree.Comparable = centroid{}
)

// MeshField is an approximate signed distance field built from a triangle mesh,
// such as one produced by marching cubes. The distance is measured to the
// closest vertex of the triangle whose centroid is nearest to the query point,
// and is negative behind the triangle's face.
type MeshField struct {
	model  []Triangle3
	tree   *kdtree.Tree
	bounds r3.Box
}

// NewMeshField indexes model by triangle centroid. Triangles with no area are skipped.
// It panics if model contains no triangle with area.
func NewMeshField(model []Triangle3) *MeshField {
	mf := &MeshField{}
	var pts []r3.Vec
	var cs centroids
	for _, t := range model {
		if t.Area() == 0 {
			continue
		}
		cs = append(cs, centroid{Vec: t.Centroid(), idx: len(mf.model)})
		mf.model = append(mf.model, t)
		pts = append(pts, t.V[:]...)
	}
	if len(cs) == 0 {
		panic("mesh field requires at least one non degenerate triangle")
	}
	mf.tree = kdtree.New(cs, false)
	mf.bounds = d3.Bounds(pts)
	return mf
}

// Evaluate returns the approximate signed distance from v to the mesh.
func (m *MeshField) Evaluate(v r3.Vec) float64 {
	t := m.Nearest(v)
	d2 := math.Inf(1)
	var closest r3.Vec
	for _, vert := range t.V {
		if dd := r3.Norm2(r3.Sub(v, vert)); dd < d2 {
			d2, closest = dd, vert
		}
	}
	dist := math.Sqrt(d2)
	if dist < 1e-9 {
		return 0
	}
	if r3.Dot(r3.Sub(v, closest), t.Normal()) < 0 {
		return -dist
	}
	return dist
}

// Nearest returns the mesh triangle whose centroid is closest to v.
func (m *MeshField) Nearest(v r3.Vec) Triangle3 {
	got, _ := m.tree.Nearest(centroid{Vec: v, idx: -1})
	return m.model[got.(centroid).idx]
}

// Bounds returns the bounding box of the mesh vertices.
func (m *MeshField) Bounds() r3.Box { return m.bounds }

// centroid is a triangle centroid tagged with the triangle's index in the model.
type centroid struct {
	r3.Vec
	idx int
}

func (c centroid) Compare(b kdtree.Comparable, d kdtree.Dim) float64 {
	return axis(c.Vec, d) - axis(b.(centroid).Vec, d)
}

func (c centroid) Dims() int { return 3 }

// Distance is the squared Euclidean distance, as kdtree expects.
func (c centroid) Distance(b kdtree.Comparable) float64 {
	return r3.Norm2(r3.Sub(c.Vec, b.(centroid).Vec))
}

func axis(v r3.Vec, d kdtree.Dim) float64 {
	switch d {
	case 0:
		return v.X
	case 1:
		return v.Y
	}
	return v.Z
}

type centroids []centroid

func (cs centroids) Index(i int) kdtree.Comparable { return cs[i] }
func (cs centroids) Len() int                      { return len(cs) }
func (cs centroids) Slice(start, end int) kdtree.Interface {
	return cs[start:end]
}

func (cs centroids) Pivot(d kdtree.Dim) int {
	p := centroidPlane{centroids: cs, dim: d}
	return kdtree.Partition(p, kdtree.MedianOfMedians(p))
}

// centroidPlane sorts centroids along a single axis.
type centroidPlane struct {
	centroids
	dim kdtree.Dim
}

func (p centroidPlane) Less(i, j int) bool {
	return axis(p.centroids[i].Vec, p.dim) < axis(p.centroids[j].Vec, p.dim)
}

func (p centroidPlane) Swap(i, j int) {
	p.centroids[i], p.centroids[j] = p.centroids[j], p.centroids[i]
}

func (p centroidPlane) Slice(start, end int) kdtree.SortSlicer {
	p.centroids = p.centroids[start:end]
	return p
}
