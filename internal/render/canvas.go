package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/colornames"
	"golang.org/x/image/vector"
)

const markerSegments = 48

// Style controls colors and stroke sizes, in pixels.
type Style struct {
	Background   color.RGBA
	Rod          color.RGBA
	Bob          color.RGBA
	LineWidth    float64
	MarkerRadius float64
}

// DefaultStyle is a black rod and bob on white.
func DefaultStyle() Style {
	return Style{
		Background:   colornames.White,
		Rod:          colornames.Black,
		Bob:          colornames.Black,
		LineWidth:    2,
		MarkerRadius: 10,
	}
}

// Canvas is a square-extent drawing surface covering [-extent, extent] on
// both axes.
type Canvas struct {
	width, height int
	extent        float64
	style         Style
	img           *image.RGBA
	raster        *vector.Rasterizer
	bg, rod, bob  *image.Uniform
}

// NewCanvas sizes the visible extent to twice the pendulum length.
func NewCanvas(width, height int, length float64, style Style) (*Canvas, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("canvas size must be positive, got %dx%d", width, height)
	}
	if !(length > 0) {
		return nil, fmt.Errorf("canvas extent needs a positive length, got %g", length)
	}
	return &Canvas{
		width:  width,
		height: height,
		extent: 2 * length,
		style:  style,
		img:    image.NewRGBA(image.Rect(0, 0, width, height)),
		raster: vector.NewRasterizer(width, height),
		bg:     image.NewUniform(style.Background),
		rod:    image.NewUniform(style.Rod),
		bob:    image.NewUniform(style.Bob),
	}, nil
}

func (c *Canvas) Bounds() image.Rectangle { return c.img.Bounds() }

// ToPixel maps world coordinates to raster coordinates (y down).
func (c *Canvas) ToPixel(p Point) (float64, float64) {
	px := (p.X + c.extent) / (2 * c.extent) * float64(c.width)
	py := (c.extent - p.Y) / (2 * c.extent) * float64(c.height)
	return px, py
}

// Draw clears the canvas and draws the rod from pivot to bob with a marker
// at each end. The returned image is reused by the next call.
func (c *Canvas) Draw(pivot, bob Point) image.Image {
	draw.Draw(c.img, c.img.Bounds(), c.bg, image.Point{}, draw.Src)

	x0, y0 := c.ToPixel(pivot)
	x1, y1 := c.ToPixel(bob)

	c.fill(c.rod, func() { c.strokeLine(x0, y0, x1, y1, c.style.LineWidth) })
	c.fill(c.bob, func() {
		c.disc(x0, y0, c.style.MarkerRadius)
		c.disc(x1, y1, c.style.MarkerRadius)
	})
	return c.img
}

func (c *Canvas) fill(src image.Image, path func()) {
	c.raster.Reset(c.width, c.height)
	c.raster.DrawOp = draw.Over
	path()
	c.raster.Draw(c.img, c.img.Bounds(), src, image.Point{})
}

func (c *Canvas) strokeLine(x0, y0, x1, y1, width float64) {
	dx, dy := x1-x0, y1-y0
	l := math.Hypot(dx, dy)
	if l == 0 || width <= 0 {
		return
	}
	// unit normal scaled to half the stroke
	nx, ny := -dy/l*width/2, dx/l*width/2

	c.raster.MoveTo(float32(x0+nx), float32(y0+ny))
	c.raster.LineTo(float32(x1+nx), float32(y1+ny))
	c.raster.LineTo(float32(x1-nx), float32(y1-ny))
	c.raster.LineTo(float32(x0-nx), float32(y0-ny))
	c.raster.ClosePath()
}

func (c *Canvas) disc(cx, cy, r float64) {
	if r <= 0 {
		return
	}
	c.raster.MoveTo(float32(cx+r), float32(cy))
	for i := 1; i < markerSegments; i++ {
		a := 2 * math.Pi * float64(i) / markerSegments
		c.raster.LineTo(float32(cx+r*math.Cos(a)), float32(cy+r*math.Sin(a)))
	}
	c.raster.ClosePath()
}
