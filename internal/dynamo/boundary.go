package dynamo

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Boundary is an axis-aligned rectangle [Min, Max]. It does not change for
// the lifetime of a scenario.
type Boundary struct {
	Min mgl64.Vec2
	Max mgl64.Vec2
}

// NewBoundary rejects a rectangle whose max does not exceed min on both axes.
func NewBoundary(min, max mgl64.Vec2) (Boundary, error) {
	if !(max[0] > min[0]) || !(max[1] > min[1]) {
		return Boundary{}, ErrInvalidBoundary
	}
	return Boundary{Min: min, Max: max}, nil
}

func (b Boundary) Width() float64  { return b.Max[0] - b.Min[0] }
func (b Boundary) Height() float64 { return b.Max[1] - b.Min[1] }

func (b Boundary) Center() mgl64.Vec2 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// Touching reports, per axis, whether a disc at pos reaches or crosses a wall.
func (b Boundary) Touching(pos mgl64.Vec2, radius float64) (x, y bool) {
	x = pos[0]-radius <= b.Min[0] || pos[0]+radius >= b.Max[0]
	y = pos[1]-radius <= b.Min[1] || pos[1]+radius >= b.Max[1]
	return x, y
}

// Contains reports min+radius <= pos <= max-radius on both axes.
func (b Boundary) Contains(pos mgl64.Vec2, radius float64) bool {
	return pos[0] >= b.Min[0]+radius && pos[0] <= b.Max[0]-radius &&
		pos[1] >= b.Min[1]+radius && pos[1] <= b.Max[1]-radius
}

// Clamp pulls pos into [min+radius, max-radius] on both axes.
func (b Boundary) Clamp(pos mgl64.Vec2, radius float64) mgl64.Vec2 {
	return mgl64.Vec2{
		clamp(pos[0], b.Min[0]+radius, b.Max[0]-radius),
		clamp(pos[1], b.Min[1]+radius, b.Max[1]-radius),
	}
}

// Enclose returns the bounding box of points padded by frac of its size on
// every side. A flat axis is treated as one unit wide. Enclose of no points
// is the unit square.
func Enclose(points []mgl64.Vec2, frac float64) Boundary {
	if len(points) == 0 {
		return Boundary{Max: mgl64.Vec2{1, 1}}
	}
	lo, hi := points[0], points[0]
	for _, p := range points[1:] {
		for k := 0; k < 2; k++ {
			lo[k] = math.Min(lo[k], p[k])
			hi[k] = math.Max(hi[k], p[k])
		}
	}
	for k := 0; k < 2; k++ {
		span := hi[k] - lo[k]
		if span == 0 {
			span = 1
			lo[k] -= 0.5
			hi[k] += 0.5
		}
		lo[k] -= span * frac
		hi[k] += span * frac
	}
	return Boundary{Min: lo, Max: hi}
}
