package viz

import (
	"math"
	"strings"

	"github.com/san-kum/pendsim/internal/render"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
const brailleBlank = 0x2800

var pixelMap = [4][2]rune{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
	}
	c.Clear()
	return c
}

// Set lights the dot at sub-pixel (x, y). The canvas is (Width*2) x
// (Height*4) sub-pixels; out of range dots are ignored.
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return
	}
	c.Grid[row][col] |= pixelMap[y%4][x%2]
}

func (c *Canvas) IsSet(x, y int) bool {
	if x < 0 || y < 0 || x/2 >= c.Width || y/4 >= c.Height {
		return false
	}
	return c.Grid[y/4][x/2]&pixelMap[y%4][x%2] != 0
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = brailleBlank
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0)
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

// FillDisc lights every dot within r sub-pixels of (cx, cy).
func (c *Canvas) FillDisc(cx, cy, r int) {
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if dx*dx+dy*dy <= r*r {
				c.Set(cx+dx, cy+dy)
			}
		}
	}
}

// Viewport maps world coordinates in [-Extent, Extent] onto a canvas,
// keeping the aspect ratio of a Braille dot (roughly square).
type Viewport struct {
	Canvas *Canvas
	Extent float64
}

func (v Viewport) ToDots(p render.Point) (int, int) {
	w, h := float64(v.Canvas.Width*2), float64(v.Canvas.Height*4)
	scale := math.Min(w, h) / (2 * v.Extent)
	x := w/2 + p.X*scale
	y := h/2 - p.Y*scale
	return int(math.Round(x)), int(math.Round(y))
}

// DrawPendulum draws the rod and bob for one frame. A diverged bob
// (NaN or ±Inf coordinates) leaves only the pivot.
func (v Viewport) DrawPendulum(pivot, bob render.Point) {
	x0, y0 := v.ToDots(pivot)
	if !finitePoint(bob) {
		v.Canvas.Set(x0, y0)
		return
	}
	x1, y1 := v.ToDots(bob)
	v.Canvas.DrawLine(x0, y0, x1, y1)
	v.Canvas.FillDisc(x1, y1, 2)
	v.Canvas.Set(x0, y0)
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

func finitePoint(p render.Point) bool {
	return !math.IsNaN(p.X) && !math.IsInf(p.X, 0) && !math.IsNaN(p.Y) && !math.IsInf(p.Y, 0)
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
