package render

import (
	"math"

	"github.com/san-kum/pendsim/internal/dynamo"
)

type Point struct {
	X, Y float64
}

// Origin is the pivot.
var Origin = Point{}

// Project maps an angle from the downward vertical to the bob position,
// with the y-axis pointing up.
func Project(length, theta float64) Point {
	return Point{
		X: length * math.Sin(theta),
		Y: -length * math.Cos(theta),
	}
}

// Frames projects every sample once; frame i is Frames(...)[i].
func Frames(traj dynamo.Trajectory, length float64) []Point {
	pts := make([]Point, traj.Len())
	for i := range pts {
		pts[i] = Project(length, traj.At(i))
	}
	return pts
}
