package render

import (
	"errors"
	"io"
	"log/slog"
	"sync"

	"github.com/soypat/isosurf"
	"gonum.org/v1/gonum/spatial/r3"
)

// GridConfig configures a Grid renderer.
type GridConfig struct {
	// Cells is the number of cells along each axis.
	Cells [3]int
	// Bounds is the sampled region.
	Bounds r3.Box
	// Workers is the number of goroutines used by Soup. Zero or one
	// means the grid is marched on the calling goroutine.
	Workers int
}

// Validate returns a non-nil error if the configuration can't be used to render a grid.
func (cfg GridConfig) Validate() error {
	switch {
	case cfg.Cells[0] <= 0 || cfg.Cells[1] <= 0 || cfg.Cells[2] <= 0:
		return errors.New("grid cells must be positive along all axes")
	case !(cfg.Bounds.Min.X < cfg.Bounds.Max.X) || !(cfg.Bounds.Min.Y < cfg.Bounds.Max.Y) ||
		!(cfg.Bounds.Min.Z < cfg.Bounds.Max.Z):
		return errors.New("grid bounds must have positive size along all axes")
	case cfg.Workers < 0:
		return errors.New("negative grid workers")
	}
	return nil
}

// Grid renders a field with marching cubes over a regular grid of cells.
// It produces the same triangles, in the same order, as MarchingCubes.
type Grid struct {
	sampler gridSampler
	workers int

	// next is the linear index of the next cell to be processed by ReadTriangles.
	next     int
	scratch  []r3.Vec
	overflow triangleQueue
}

var _ Renderer = (*Grid)(nil)

// NewGrid returns a Grid renderer for f.
func NewGrid(f isosurf.Field, cfg GridConfig) (*Grid, error) {
	if f == nil {
		return nil, errors.New("nil field")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Grid{
		sampler: newGridSampler(f, cfg.Cells, cfg.Bounds.Min, cfg.Bounds.Max),
		workers: max(cfg.Workers, 1),
		scratch: make([]r3.Vec, 0, 3*marchingCubesMaxTriangles),
	}, nil
}

// Reset rewinds the renderer so ReadTriangles starts again from the first cell.
func (g *Grid) Reset() {
	g.next = 0
	g.overflow.reset()
}

// Soup marches the whole grid and returns the triangle soup. With more than
// one worker the X slabs of the grid are marched concurrently and merged in order.
// Soup does not affect the state of ReadTriangles.
func (g *Grid) Soup() []r3.Vec {
	nx := g.sampler.cells[0]
	workers := min(g.workers, nx)
	if workers <= 1 {
		var soup []r3.Vec
		for i := 0; i < nx; i++ {
			soup = g.sampler.marchSlab(soup, i)
		}
		return soup
	}
	slabs := make([][]r3.Vec, nx)
	jobs := make(chan int)
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := range jobs {
				slabs[i] = g.sampler.marchSlab(nil, i)
			}
		}()
	}
	for i := 0; i < nx; i++ {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	total := 0
	for _, slab := range slabs {
		total += len(slab)
	}
	soup := make([]r3.Vec, 0, total)
	for _, slab := range slabs {
		soup = append(soup, slab...)
	}
	logger().Debug("grid soup",
		slog.Int("workers", workers),
		slog.Int("slabs", nx),
		slog.Int("triangles", total/3))
	return soup
}

// ReadTriangles writes rendered triangles into dst.
// It returns io.EOF once every cell has been processed.
func (g *Grid) ReadTriangles(dst []Triangle3) (n int, err error) {
	if len(dst) == 0 {
		return 0, io.ErrShortBuffer
	}
	if !g.overflow.empty() {
		n += g.overflow.pop(dst)
		if n == len(dst) {
			return n, nil
		}
	}
	if g.done() {
		return n, io.EOF
	}
	n += g.readTriangles(dst[n:])
	return n, nil
}

// readTriangles processes cells until dst is full or the grid is exhausted.
// Triangles that don't fit in dst are kept for the next call.
func (g *Grid) readTriangles(dst []Triangle3) (n int) {
	ny, nz := g.sampler.cells[1], g.sampler.cells[2]
	total := g.numCells()
	for n < len(dst) && g.next < total {
		i := g.next / (ny * nz)
		j := (g.next / nz) % ny
		k := g.next % nz
		g.next++
		p, v := g.sampler.cell(i, j, k)
		g.scratch = ProcessCell(g.scratch[:0], &p, &v)
		for t := 0; t+3 <= len(g.scratch); t += 3 {
			tri := Triangle3{V: [3]r3.Vec{g.scratch[t], g.scratch[t+1], g.scratch[t+2]}}
			if n < len(dst) {
				dst[n] = tri
				n++
			} else {
				g.overflow.push(tri)
			}
		}
	}
	if g.next == total {
		logger().Debug("grid exhausted", slog.Int("cells", total))
	}
	return n
}

func (g *Grid) numCells() int {
	return g.sampler.cells[0] * g.sampler.cells[1] * g.sampler.cells[2]
}

func (g *Grid) done() bool {
	return g.next >= g.numCells() && g.overflow.empty()
}
