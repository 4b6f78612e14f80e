package item

import "math"

// Point is a plain 2-D coordinate pair, used for port geometry results
// that are not themselves solver-tracked values.
type Point struct {
	X, Y float64
}

func distance(x0, y0, x1, y1 float64) float64 {
	dx, dy := x1-x0, y1-y0
	return math.Sqrt(dx*dx + dy*dy)
}
