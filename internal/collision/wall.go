package collision

import "github.com/san-kum/chaoslab/internal/dynamo"

// ResolveWall advances d by dt inside b and returns the time of impact used,
// or NoCollision.
//
// On a hit the disc moves to contact, every axis whose wall it is touching
// has its velocity component negated and scaled by restitution, and the disc
// then covers the remaining (1-tc)·dt with the new velocity. The position is
// always clamped into b afterwards so two walls hit in one step cannot leak
// the disc through a corner.
func ResolveWall(d *dynamo.Disc, dt float64, b dynamo.Boundary, restitution float64) float64 {
	tc := ComputeTOI(d.Position, d.Velocity, d.Radius, dt, b)

	if Hit(tc) {
		d.Position = d.Position.Add(d.Velocity.Mul(tc * dt))

		touchX, touchY := b.Touching(d.Position, d.Radius)
		if touchX {
			d.Velocity[0] = -d.Velocity[0] * restitution
		}
		if touchY {
			d.Velocity[1] = -d.Velocity[1] * restitution
		}

		d.Position = d.Position.Add(d.Velocity.Mul((1 - tc) * dt))
	} else {
		d.Position = d.Position.Add(d.Velocity.Mul(dt))
	}

	d.Position = b.Clamp(d.Position, d.Radius)
	return tc
}
