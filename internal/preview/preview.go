// Package preview rasterizes STL meshes into images for quick inspection.
package preview

import (
	"errors"
	"fmt"
	"image"

	"github.com/fogleman/fauxgl"
	"github.com/nfnt/resize"
	"github.com/soypat/isosurf/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// View configures the camera and output size of a preview.
type View struct {
	// what position (point) to look at
	LookAt r3.Vec
	// which way is up (direction)
	Up r3.Vec
	// where the camera/eye located at (point)
	Eye  r3.Vec
	Far  float64
	Near float64
	// Output image size in pixels.
	Width, Height int
	// Supersample renders at a multiple of the output size and
	// downsamples for antialiasing. Zero means no supersampling.
	Supersample int
}

// DefaultView is an isometric view of a mesh fitted in the bi-unit cube.
func DefaultView() View {
	return View{
		Up:          r3.Vec{Z: 1},
		Eye:         d3.Elem(3),
		Near:        1,
		Far:         10,
		Width:       768,
		Height:      432,
		Supersample: 2,
	}
}

func (v View) validate() error {
	switch {
	case v.Width <= 0 || v.Height <= 0:
		return errors.New("preview size must be positive")
	case v.Supersample < 0:
		return errors.New("negative preview supersampling")
	case !(v.Near > 0) || !(v.Far > v.Near):
		return errors.New("preview clip planes must satisfy 0 < near < far")
	}
	return nil
}

// RenderSTL loads an STL file and renders it with a phong shader. The mesh is
// fitted in a bi-unit cube centered at the origin before rendering.
func RenderSTL(stlPath string, view View) (image.Image, error) {
	if err := view.validate(); err != nil {
		return nil, err
	}
	mesh, err := fauxgl.LoadSTL(stlPath)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", stlPath, err)
	}
	const fovy = 30 // vertical field of view in degrees
	scale := max(view.Supersample, 1)
	var (
		eye    = fauxgl.V(view.Eye.X, view.Eye.Y, view.Eye.Z)
		center = fauxgl.V(view.LookAt.X, view.LookAt.Y, view.LookAt.Z)
		up     = fauxgl.V(view.Up.X, view.Up.Y, view.Up.Z)
		light  = fauxgl.V(-0.75, 1, 0.25).Normalize()
		color  = fauxgl.HexColor("#468966")
	)
	mesh.BiUnitCube()
	context := fauxgl.NewContext(view.Width*scale, view.Height*scale)
	context.ClearColorBufferWith(fauxgl.HexColor("#FFF8E3"))
	aspect := float64(view.Width) / float64(view.Height)
	matrix := fauxgl.LookAt(eye, center, up).Perspective(fovy, aspect, view.Near, view.Far)
	shader := fauxgl.NewPhongShader(matrix, light, eye)
	shader.ObjectColor = color
	context.Shader = shader
	context.DrawMesh(mesh)

	img := context.Image()
	if scale > 1 {
		img = resize.Resize(uint(view.Width), uint(view.Height), img, resize.Bilinear)
	}
	return img, nil
}

// STLToPNG renders an STL file into a PNG file.
func STLToPNG(stlPath, pngPath string, view View) error {
	img, err := RenderSTL(stlPath, view)
	if err != nil {
		return err
	}
	return fauxgl.SavePNG(pngPath, img)
}
