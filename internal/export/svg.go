// Package export renders stored runs as static SVG plots.
package export

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/san-kum/pendsim/internal/dynamo"
	"github.com/san-kum/pendsim/internal/render"
)

// Kinds lists the plots PlotRun can draw.
var Kinds = []string{"phase", "angle", "path"}

// PlotRun writes one SVG plot of a run: "phase" is omega against theta,
// "angle" is theta against time and "path" is the bob trajectory in space.
func PlotRun(w io.Writer, kind string, states []dynamo.State, times []float64, length float64, width, height int) error {
	points := make([]render.Point, 0, len(states))
	switch kind {
	case "phase":
		for _, x := range states {
			if len(x) < 2 {
				return fmt.Errorf("phase plot needs theta and omega")
			}
			points = append(points, render.Point{X: x[0], Y: x[1]})
		}
	case "angle":
		for i, x := range states {
			points = append(points, render.Point{X: times[i], Y: x[0]})
		}
	case "path":
		for _, x := range states {
			points = append(points, render.Project(length, x[0]))
		}
	default:
		return fmt.Errorf("unknown plot %q (available: %v)", kind, Kinds)
	}

	svg := TrajectoryToSVG(points, width, height, "#00ff88")
	if svg == "" {
		return fmt.Errorf("not enough finite samples to plot")
	}
	_, err := io.WriteString(w, svg)
	return err
}

// TrajectoryToSVG draws points as one polyline scaled to fit the view box.
// Non-finite points are skipped.
func TrajectoryToSVG(points []render.Point, width, height int, strokeColor string) string {
	finite := make([]render.Point, 0, len(points))
	for _, p := range points {
		if isFinite(p.X) && isFinite(p.Y) {
			finite = append(finite, p)
		}
	}
	points = finite
	if len(points) < 2 {
		return ""
	}

	minX, maxX := points[0].X, points[0].X
	minY, maxY := points[0].Y, points[0].Y
	for _, p := range points {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}

	// 10% padding
	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	maxX += rangeX * 0.1
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeX = maxX - minX
	rangeY = maxY - minY

	var sb strings.Builder

	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, strokeColor)

	for i, p := range points {
		x := (p.X - minX) / rangeX * float64(width)
		y := float64(height) - (p.Y-minY)/rangeY*float64(height)

		if i == 0 {
			fmt.Fprintf(&sb, "%.1f,%.1f", x, y)
		} else {
			fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
