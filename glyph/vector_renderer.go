package glyph

import (
	"image/color"
	"image/png"
	"io"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/rasterizer"
	"github.com/tdewolff/canvas/renderers/svg"
)

// VectorRenderer renders a stroke and its grid partitioning as vector
// graphics, either SVG or rasterized PNG. Unlike RasterRenderer it scales
// cleanly to any output resolution.
type VectorRenderer struct {
	Shape      *Bitmap
	Side       float64           // canvas side length in canvas units
	Padding    float64           // padding around the drawing
	Resolution canvas.Resolution // resolution for PNG output
}

// NewVectorRenderer creates a vector renderer with default settings
func NewVectorRenderer(shape *Bitmap) *VectorRenderer {
	return &VectorRenderer{
		Shape:      shape,
		Side:       100,
		Padding:    5,
		Resolution: canvas.DPI(300),
	}
}

// canvasRenderer is an interface that both svg and rasterizer renderers implement
type canvasRenderer interface {
	RenderPath(path *canvas.Path, style canvas.Style, m canvas.Matrix)
}

// RenderToSVG writes the shape as an SVG to the provided writer
func (r *VectorRenderer) RenderToSVG(w io.Writer) error {
	size := r.Side + 2*r.Padding
	svgRenderer := svg.New(w, size, size, nil)
	r.renderToCanvas(svgRenderer, size)
	return svgRenderer.Close()
}

// RenderToPNG writes the shape as a PNG to the provided writer
func (r *VectorRenderer) RenderToPNG(w io.Writer) error {
	size := r.Side + 2*r.Padding
	rast := rasterizer.New(size, size, r.Resolution, canvas.DefaultColorSpace)
	r.renderToCanvas(rast, size)
	return png.Encode(w, rast)
}

// renderToCanvas renders the stroke to a canvas renderer (shared logic for SVG and PNG)
func (r *VectorRenderer) renderToCanvas(renderer canvasRenderer, size float64) {
	// White background
	bgStyle := canvas.DefaultStyle
	bgStyle.Fill = canvas.Paint{Color: canvas.White}
	renderer.RenderPath(canvas.Rectangle(size, size), bgStyle, canvas.Identity)

	p := r.Shape.Precision()
	cell := r.Side / float64(p)

	// Grid lines
	gridStyle := canvas.DefaultStyle
	gridStyle.Fill = canvas.Paint{Color: canvas.Transparent}
	gridStyle.Stroke = canvas.Paint{Color: canvas.Gray}
	gridStyle.StrokeWidth = 0.2
	for i := 0; i <= p; i++ {
		offset := r.Padding + float64(i)*cell

		hPath := &canvas.Path{}
		hPath.MoveTo(r.Padding, offset)
		hPath.LineTo(r.Padding+r.Side, offset)
		renderer.RenderPath(hPath, gridStyle, canvas.Identity)

		vPath := &canvas.Path{}
		vPath.MoveTo(offset, r.Padding)
		vPath.LineTo(offset, r.Padding+r.Side)
		renderer.RenderPath(vPath, gridStyle, canvas.Identity)
	}

	// Occupied cells, shaded by density
	grid := r.Shape.Grid()
	cellStyle := canvas.DefaultStyle
	cellStyle.Stroke = canvas.Paint{Color: canvas.Transparent}
	for row := 0; row < p; row++ {
		for col := 0; col < p; col++ {
			if grid[row][col] == 0 {
				continue
			}
			shade := uint8(235 - 190*grid[row][col])
			cellStyle.Fill = canvas.Paint{Color: color.RGBA{shade, shade, 255, 255}}
			cp := canvas.Rectangle(cell, cell)
			cp = cp.Translate(r.Padding+float64(col)*cell, r.Padding+float64(row)*cell)
			renderer.RenderPath(cp, cellStyle, canvas.Identity)
		}
	}

	// Stroke polyline, normalized into the grid area
	points := r.Shape.Points()
	if len(points) < 1 {
		return
	}
	b := r.Shape.Bounds()
	toCanvas := func(pt Point) (float64, float64) {
		nx, ny := 0.5, 0.5
		if b.Width() > 0 {
			nx = (pt.X - b.Left) / b.Width()
		}
		if b.Height() > 0 {
			ny = (pt.Y - b.Bottom) / b.Height()
		}
		return r.Padding + nx*r.Side, r.Padding + ny*r.Side
	}

	strokeStyle := canvas.DefaultStyle
	strokeStyle.Fill = canvas.Paint{Color: canvas.Transparent}
	strokeStyle.Stroke = canvas.Paint{Color: canvas.Red}
	strokeStyle.StrokeWidth = 0.8

	sp := &canvas.Path{}
	for i, pt := range points {
		cx, cy := toCanvas(pt)
		if i == 0 {
			sp.MoveTo(cx, cy)
		} else {
			sp.LineTo(cx, cy)
		}
	}
	renderer.RenderPath(sp, strokeStyle, canvas.Identity)
}
