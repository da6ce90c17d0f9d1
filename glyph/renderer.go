package glyph

import (
	"image"
	"image/color"
	"image/png"
	"io"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// RasterRenderer draws a bitmap's grid density map as a shaded cell grid
// with the source stroke overlaid, for quick visual debugging of an
// encoding. Output is a fixed-size PNG-friendly RGBA image.
type RasterRenderer struct {
	Shape    *Bitmap
	Label    string
	CellSize int // pixels per grid cell
	Padding  int // pixels around the grid
}

// NewRasterRenderer creates a renderer with default sizing.
func NewRasterRenderer(shape *Bitmap, label string) *RasterRenderer {
	return &RasterRenderer{
		Shape:    shape,
		Label:    label,
		CellSize: 40,
		Padding:  20,
	}
}

// Render produces the debug image: grid cells shaded by density ratio,
// the stroke polyline in red, and the label in the top-left corner.
func (r *RasterRenderer) Render() *image.RGBA {
	p := r.Shape.Precision()
	gridSide := p * r.CellSize
	side := gridSide + 2*r.Padding

	img := image.NewRGBA(image.Rect(0, 0, side, side))

	// White background
	for y := 0; y < side; y++ {
		for x := 0; x < side; x++ {
			img.Set(x, y, color.RGBA{255, 255, 255, 255})
		}
	}

	// Shaded density cells. Grid row 0 is the bottom of the bounding box,
	// image row 0 is the top, so rows are flipped.
	grid := r.Shape.Grid()
	maxDensity := 0.0
	for _, row := range grid {
		for _, v := range row {
			if v > maxDensity {
				maxDensity = v
			}
		}
	}
	for row := 0; row < p; row++ {
		for col := 0; col < p; col++ {
			if grid[row][col] == 0 {
				continue
			}
			shade := uint8(235)
			if maxDensity > 0 {
				shade = uint8(235 - 190*grid[row][col]/maxDensity)
			}
			x0 := r.Padding + col*r.CellSize
			y0 := r.Padding + (p-1-row)*r.CellSize
			fillRect(img, x0, y0, r.CellSize, r.CellSize, color.RGBA{shade, shade, 255, 255})
		}
	}

	// Cell borders
	lineColor := color.RGBA{180, 180, 180, 255}
	for i := 0; i <= p; i++ {
		drawLine(img, r.Padding+i*r.CellSize, r.Padding, r.Padding+i*r.CellSize, r.Padding+gridSide, lineColor)
		drawLine(img, r.Padding, r.Padding+i*r.CellSize, r.Padding+gridSide, r.Padding+i*r.CellSize, lineColor)
	}

	// Stroke overlay, scaled into the grid area
	points := r.Shape.Points()
	if len(points) > 0 {
		b := r.Shape.Bounds()
		toImage := func(pt Point) (int, int) {
			nx, ny := 0.5, 0.5
			if b.Width() > 0 {
				nx = (pt.X - b.Left) / b.Width()
			}
			if b.Height() > 0 {
				ny = (pt.Y - b.Bottom) / b.Height()
			}
			return r.Padding + int(nx*float64(gridSide)), r.Padding + int((1-ny)*float64(gridSide))
		}

		strokeColor := color.RGBA{200, 30, 30, 255}
		px, py := toImage(points[0])
		for _, pt := range points[1:] {
			cx, cy := toImage(pt)
			drawLine(img, px, py, cx, cy, strokeColor)
			px, py = cx, cy
		}
	}

	if r.Label != "" {
		drawText(img, r.Padding, r.Padding-6, r.Label, color.RGBA{0, 0, 0, 255})
	}

	return img
}

// WritePNG renders and PNG-encodes the image to a writer.
func (r *RasterRenderer) WritePNG(w io.Writer) error {
	return png.Encode(w, r.Render())
}

// fillRect fills a rectangle, clipped to the image bounds.
func fillRect(img *image.RGBA, x0, y0, w, h int, c color.RGBA) {
	for y := y0; y < y0+h; y++ {
		for x := x0; x < x0+w; x++ {
			if image.Pt(x, y).In(img.Bounds()) {
				img.Set(x, y, c)
			}
		}
	}
}

// drawLine draws a line using Bresenham's algorithm
func drawLine(img *image.RGBA, x0, y0, x1, y1 int, c color.RGBA) {
	dx := int(math.Abs(float64(x1 - x0)))
	dy := int(math.Abs(float64(y1 - y0)))
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx - dy

	for {
		if image.Pt(x0, y0).In(img.Bounds()) {
			img.Set(x0, y0, c)
		}
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// drawText draws a text label using the basic 7x13 font
func drawText(img *image.RGBA, x, y int, text string, c color.RGBA) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: basicfont.Face7x13,
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)},
	}
	d.DrawString(text)
}
