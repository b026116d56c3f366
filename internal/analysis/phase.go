package analysis

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/chaoslab/internal/dynamo"
)

// PhasePortrait integrates dyn from x0 and records (x[xIdx], x[yIdx]) after
// every step.
func PhasePortrait(
	dyn dynamo.System,
	integ dynamo.Integrator,
	x0 dynamo.State,
	xIdx, yIdx int,
	dt, duration float64,
) ([]mgl64.Vec2, error) {
	if len(x0) == 0 {
		return nil, ErrEmptyState
	}
	if xIdx < 0 || yIdx < 0 || xIdx >= len(x0) || yIdx >= len(x0) {
		return nil, fmt.Errorf("analysis: axis out of range [0, %d): x=%d y=%d", len(x0), xIdx, yIdx)
	}
	if !(dt > 0) || !(duration > 0) {
		return nil, ErrBadWindow
	}

	points := make([]mgl64.Vec2, 0, int(duration/dt)+1)
	x := x0.Clone()
	steps := 0
	for t := 0.0; t < duration; t += dt {
		x = integ.Step(dyn, x, t, dt)
		steps++
		if !x.IsValid() {
			return points, &dynamo.SimError{Time: t + dt, Step: steps, Wrapped: dynamo.ErrUnstable}
		}
		points = append(points, mgl64.Vec2{x[xIdx], x[yIdx]})
	}
	return points, nil
}
