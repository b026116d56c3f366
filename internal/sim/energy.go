package sim

import "github.com/go-gl/mathgl/mgl64"

// Energy is the total mechanical energy of everything in the world: disc
// kinetic energy including spin, plus whatever the force model defines.
func (w *World) Energy() float64 {
	s := &w.scn
	e := 0.0
	for i := range s.Discs {
		e += s.Discs[i].KineticEnergy()
	}

	switch s.Force {
	case ForceGravity:
		if len(s.Bodies) > 0 {
			e += w.gravity.Energy(w.gravity.Pack(s.Bodies))
		}
	case ForceOrbiters:
		src := s.Source
		for i := range s.Bodies {
			b := &s.Bodies[i]
			e += 0.5 * b.Mass * b.Velocity.LenSqr()
			if r := b.Position.Sub(src.Position).Len(); r >= w.params.Epsilon {
				e -= w.params.G * src.Mass * b.Mass / r
			}
		}
	case ForcePendulum:
		e += s.Pendulum.Energy(s.Pendulum.State())
	}
	return e
}

// Momentum is the total linear momentum of discs and moving bodies. The
// source of an orbiter scenario is excluded.
func (w *World) Momentum() mgl64.Vec2 {
	var p mgl64.Vec2
	for i := range w.scn.Discs {
		p = p.Add(w.scn.Discs[i].Momentum())
	}
	for i := range w.scn.Bodies {
		b := &w.scn.Bodies[i]
		p = p.Add(b.Velocity.Mul(b.Mass))
	}
	return p
}
