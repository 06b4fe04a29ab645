package render

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/chewxy/math32"
	"gonum.org/v1/gonum/spatial/r3"
)

// Binary STL layout: an 80 byte comment, a little endian uint32 facet count
// and then one 50 byte record per facet holding the normal, the three
// vertices as float32 triplets and an unused attribute word.
const (
	stlCommentSize = 80
	stlHeaderSize  = stlCommentSize + 4
	stlFacetSize   = 50
	stlBatch       = 1 << 10
)

var errFacetNormal = errors.New("stored facet normal does not match vertex winding")

// CreateSTL renders the triangles of r into a binary STL file at path.
// Triangles are streamed to disk in batches so the mesh is never held in
// memory; the facet count is patched into the header once r is exhausted.
func CreateSTL(path string, r Renderer) error {
	fp, err := os.Create(path)
	if err != nil {
		return err
	}
	err = streamSTL(fp, r)
	if errClose := fp.Close(); err == nil {
		err = errClose
	}
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	return nil
}

func streamSTL(w io.WriteSeeker, r Renderer) error {
	if _, err := w.Seek(stlHeaderSize, io.SeekStart); err != nil {
		return err
	}
	var (
		tris  = make([]Triangle3, stlBatch)
		buf   = make([]byte, 0, stlBatch*stlFacetSize)
		count uint32
	)
	for {
		n, err := r.ReadTriangles(tris)
		buf = buf[:0]
		for _, t := range tris[:n] {
			buf = appendFacet(buf, t)
		}
		if _, werr := w.Write(buf); werr != nil {
			return werr
		}
		count += uint32(n)
		if errors.Is(err, io.EOF) {
			break
		} else if err != nil {
			return err
		}
	}
	if count == 0 {
		return errors.New("renderer produced no triangles")
	}
	if _, err := w.Seek(0, io.SeekStart); err != nil {
		return err
	}
	_, err := w.Write(stlHeader(count))
	return err
}

// WriteSTL writes model to w in binary STL format.
func WriteSTL(w io.Writer, model []Triangle3) error {
	if len(model) == 0 {
		return errors.New("empty triangle slice")
	}
	if _, err := w.Write(stlHeader(uint32(len(model)))); err != nil {
		return err
	}
	buf := make([]byte, 0, stlBatch*stlFacetSize)
	for len(model) > 0 {
		n := min(len(model), stlBatch)
		buf = buf[:0]
		for _, t := range model[:n] {
			buf = appendFacet(buf, t)
		}
		if _, err := w.Write(buf); err != nil {
			return err
		}
		model = model[n:]
	}
	return nil
}

func stlHeader(count uint32) []byte {
	var hdr [stlHeaderSize]byte
	binary.LittleEndian.PutUint32(hdr[stlCommentSize:], count)
	return hdr[:]
}

// ReadSTL reads a binary STL stream. Facets whose stored normal disagrees
// with their vertices are still returned, along with an error reporting
// how many disagreed.
func ReadSTL(r io.Reader) ([]Triangle3, error) {
	var hdr [stlHeaderSize]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return nil, fmt.Errorf("reading STL header: %w", err)
	}
	count := binary.LittleEndian.Uint32(hdr[stlCommentSize:])
	if count == 0 {
		return nil, errors.New("STL header indicates 0 triangles present")
	}
	var (
		rec        [stlFacetSize]byte
		mismatches int
	)
	model := make([]Triangle3, 0, min(count, 1<<20))
	for i := uint32(0); i < count; i++ {
		if _, err := io.ReadFull(r, rec[:]); err != nil {
			return nil, fmt.Errorf("reading facet %d/%d: %w", i+1, count, err)
		}
		f := decodeFacet(rec[:])
		switch err := f.check(); {
		case errors.Is(err, errFacetNormal):
			mismatches++
		case err != nil:
			return nil, fmt.Errorf("facet %d/%d: %w", i+1, count, err)
		}
		model = append(model, f.triangle())
	}
	if mismatches > 0 {
		return model, fmt.Errorf("%d of %d facets: %w", mismatches, count, errFacetNormal)
	}
	return model, nil
}

// facet is an STL record: the normal followed by the three vertices.
type facet [4][3]float32

func appendFacet(b []byte, t Triangle3) []byte {
	b = appendVec32(b, t.Normal())
	for _, v := range t.V {
		b = appendVec32(b, v)
	}
	return append(b, 0, 0)
}

func appendVec32(b []byte, v r3.Vec) []byte {
	b = binary.LittleEndian.AppendUint32(b, math.Float32bits(float32(v.X)))
	b = binary.LittleEndian.AppendUint32(b, math.Float32bits(float32(v.Y)))
	return binary.LittleEndian.AppendUint32(b, math.Float32bits(float32(v.Z)))
}

func decodeFacet(b []byte) (f facet) {
	_ = b[stlFacetSize-1]
	for i := range f {
		for j := range f[i] {
			f[i][j] = math.Float32frombits(binary.LittleEndian.Uint32(b[12*i+4*j:]))
		}
	}
	return f
}

func (f facet) triangle() Triangle3 {
	var t Triangle3
	for i := range t.V {
		v := f[i+1]
		t.V[i] = r3.Vec{X: float64(v[0]), Y: float64(v[1]), Z: float64(v[2])}
	}
	return t
}

// check rejects non-finite facets and reports errFacetNormal when the stored
// normal is neither the computed normal nor its opposite.
func (f facet) check() error {
	for i, v := range f {
		for _, c := range v {
			if math32.IsNaN(c) || math32.IsInf(c, 0) {
				if i == 0 {
					return errors.New("non-finite facet normal")
				}
				return errors.New("non-finite facet vertex")
			}
		}
	}
	const tol = 5e-2
	n := f.triangle().Normal()
	same, opposite := true, true
	for j, c := range [3]float64{n.X, n.Y, n.Z} {
		got := f[0][j]
		same = same && math32.Abs(got-float32(c)) <= tol
		opposite = opposite && math32.Abs(got+float32(c)) <= tol
	}
	if !same && !opposite {
		return errFacetNormal
	}
	return nil
}
