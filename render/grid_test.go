package render

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/soypat/isosurf"
	"gonum.org/v1/gonum/spatial/r3"
)

func sphereField(r float64) isosurf.Field {
	return isosurf.FieldFunc(func(x, y, z float64) float64 { return x*x + y*y + z*z - r*r })
}

func sphereGrid(t testing.TB, workers int) (*Grid, []r3.Vec) {
	cfg := GridConfig{
		Cells:   [3]int{13, 9, 11},
		Bounds:  r3.Box{Min: r3.Vec{X: -1.5, Y: -1.2, Z: -1.3}, Max: r3.Vec{X: 1.4, Y: 1.3, Z: 1.2}},
		Workers: workers,
	}
	f := sphereField(1)
	g, err := NewGrid(f, cfg)
	if err != nil {
		t.Fatal(err)
	}
	want := MarchingCubes(f, cfg.Cells[0], cfg.Cells[1], cfg.Cells[2], cfg.Bounds.Min, cfg.Bounds.Max)
	if len(want) == 0 {
		t.Fatal("reference soup is empty")
	}
	return g, want
}

func equalSoups(t *testing.T, got, want []r3.Vec) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d vertices. want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("vertex %d: got %v. want %v", i, got[i], want[i])
		}
	}
}

func TestGridSoup(t *testing.T) {
	for _, workers := range []int{0, 1, 2, 3, 8, 64} {
		g, want := sphereGrid(t, workers)
		equalSoups(t, g.Soup(), want)
	}
}

func TestGridReadTriangles(t *testing.T) {
	for _, bufSize := range []int{1, 2, 7, 1024} {
		g, want := sphereGrid(t, 1)
		buf := make([]Triangle3, bufSize)
		var model []Triangle3
		var err error
		for err == nil {
			var n int
			n, err = g.ReadTriangles(buf)
			if n > bufSize {
				t.Fatalf("read %d triangles into buffer of %d", n, bufSize)
			}
			model = append(model, buf[:n]...)
		}
		if err != io.EOF {
			t.Fatal(err)
		}
		equalSoups(t, Soup(model), want)

		n, err := g.ReadTriangles(buf)
		if n != 0 || err != io.EOF {
			t.Errorf("exhausted grid returned %d, %v", n, err)
		}
		g.Reset()
		again, err := RenderAll(g)
		if err != nil {
			t.Fatal(err)
		}
		equalSoups(t, Soup(again), want)
	}
}

func TestGridShortBuffer(t *testing.T) {
	g, _ := sphereGrid(t, 1)
	_, err := g.ReadTriangles(nil)
	if !errors.Is(err, io.ErrShortBuffer) {
		t.Errorf("got error %v. want %v", err, io.ErrShortBuffer)
	}
}

func TestGridConfigValidate(t *testing.T) {
	unit := r3.Box{Min: unitMin, Max: unitMax}
	for _, test := range []struct {
		name string
		cfg  GridConfig
	}{
		{name: "zero cells", cfg: GridConfig{Cells: [3]int{0, 1, 1}, Bounds: unit}},
		{name: "negative cells", cfg: GridConfig{Cells: [3]int{1, 1, -2}, Bounds: unit}},
		{name: "flat bounds", cfg: GridConfig{Cells: [3]int{1, 1, 1}, Bounds: r3.Box{Min: unitMin, Max: r3.Vec{X: 1, Y: -1, Z: 1}}}},
		{name: "inverted bounds", cfg: GridConfig{Cells: [3]int{1, 1, 1}, Bounds: r3.Box{Min: unitMax, Max: unitMin}}},
		{name: "negative workers", cfg: GridConfig{Cells: [3]int{1, 1, 1}, Bounds: unit, Workers: -1}},
	} {
		if _, err := NewGrid(sphereField(1), test.cfg); err == nil {
			t.Errorf("%s: expected error", test.name)
		}
	}
	if _, err := NewGrid(nil, GridConfig{Cells: [3]int{1, 1, 1}, Bounds: unit}); err == nil {
		t.Error("nil field: expected error")
	}
}

func TestSetLogger(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	defer SetLogger(nil)
	g, _ := sphereGrid(t, 2)
	g.Soup()
	if !strings.Contains(buf.String(), "triangles=") {
		t.Errorf("expected debug record with triangle count, got %q", buf.String())
	}
	SetLogger(nil)
	buf.Reset()
	g.Soup()
	if buf.Len() != 0 {
		t.Errorf("nil logger must discard records, got %q", buf.String())
	}
}

func BenchmarkGridSoup(b *testing.B) {
	f := sphereField(1)
	g, err := NewGrid(f, GridConfig{
		Cells:   [3]int{100, 100, 100},
		Bounds:  r3.Box{Min: r3.Vec{X: -1.2, Y: -1.2, Z: -1.2}, Max: r3.Vec{X: 1.2, Y: 1.2, Z: 1.2}},
		Workers: 4,
	})
	if err != nil {
		b.Fatal(err)
	}
	for i := 0; i < b.N; i++ {
		g.Soup()
	}
}
