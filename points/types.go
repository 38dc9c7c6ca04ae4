package points

import (
	"errors"
	"math"
)

// Sentinel errors for point storage.
var (
	// ErrLoad is returned when the input is shorter or longer than the
	// declared point count, or contains a malformed record.
	ErrLoad = errors.New("points: load error")

	// ErrOutOfRange is returned when a point ID lies outside [1, N].
	ErrOutOfRange = errors.New("points: id out of range")
)

// Point is an immutable 2-D coordinate.
type Point struct {
	X, Y float64
}

// DistanceTo returns the Euclidean distance between p and q.
func (p Point) DistanceTo(q Point) float64 {
	dx := p.X - q.X
	dy := p.Y - q.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// valid reports whether both coordinates are finite.
func (p Point) valid() bool {
	return !math.IsNaN(p.X) && !math.IsNaN(p.Y) &&
		!math.IsInf(p.X, 0) && !math.IsInf(p.Y, 0)
}
