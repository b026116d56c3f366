package collision

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/chaoslab/internal/dynamo"
)

// NoCollision is returned by ComputeTOI when the disc does not reach a wall
// during the step.
const NoCollision = -1.0

// ComputeTOI returns the normalized time of impact of a disc against b over
// one step of length dt. Each axis contributes at most one candidate: the
// near wall when moving toward min, the far wall when moving toward max.
// Candidates outside [0, 1] are discarded and the earliest one wins. A disc
// that already overlaps a wall and keeps moving into it hits at t = 0.
func ComputeTOI(pos, vel mgl64.Vec2, radius, dt float64, b dynamo.Boundary) float64 {
	tc := math.Inf(1)

	for axis := 0; axis < 2; axis++ {
		disp := vel[axis] * dt
		if disp == 0 {
			continue
		}

		var t float64
		if disp < 0 {
			t = (b.Min[axis] + radius - pos[axis]) / disp
		} else {
			t = (b.Max[axis] - radius - pos[axis]) / disp
		}
		// Negative means the disc already overlaps this wall while moving into
		// it: hit now rather than let it tunnel further.
		if t < 0 {
			t = 0
		}

		if t <= 1 && t < tc {
			tc = t
		}
	}

	if math.IsInf(tc, 1) {
		return NoCollision
	}
	return tc
}

// Hit reports whether tc is a time of impact rather than NoCollision.
func Hit(tc float64) bool {
	return tc >= 0 && tc <= 1
}
