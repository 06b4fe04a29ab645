package render

import (
	"errors"
	"io"
)

// RenderAll reads r until io.EOF and returns every triangle read.
// A successful call returns a nil error.
func RenderAll(r Renderer) ([]Triangle3, error) {
	var model []Triangle3
	chunk := make([]Triangle3, 1<<10)
	for {
		n, err := r.ReadTriangles(chunk)
		model = append(model, chunk[:n]...)
		if errors.Is(err, io.EOF) {
			return model, nil
		} else if err != nil {
			return model, err
		}
	}
}

// triangleQueue holds triangles produced ahead of a ReadTriangles call.
type triangleQueue struct {
	pending []Triangle3
}

func (q *triangleQueue) push(t Triangle3) { q.pending = append(q.pending, t) }

// pop moves as many pending triangles as fit into dst.
func (q *triangleQueue) pop(dst []Triangle3) int {
	n := copy(dst, q.pending)
	q.pending = q.pending[n:]
	return n
}

func (q *triangleQueue) empty() bool { return len(q.pending) == 0 }

func (q *triangleQueue) reset() { q.pending = nil }
