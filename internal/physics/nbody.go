package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/chaoslab/internal/dynamo"
	"github.com/san-kum/chaoslab/internal/integrators"
)

// NBody is pairwise Newtonian gravity over a half-split state
// [x0, y0, x1, y1, ..., vx0, vy0, vx1, vy1, ...]. Masses must be set to match
// the state before Derive is called; Step does that from the bodies.
//
// Pairs closer than Epsilon contribute nothing. Massless bodies (stars)
// neither attract nor accelerate.
type NBody struct {
	G       float64
	Epsilon float64
	Masses  []float64

	integ dynamo.Integrator
}

// NewNBody steps with velocity Verlet unless WithIntegrator replaces it.
func NewNBody(g, epsilon float64) *NBody {
	return &NBody{
		G:       g,
		Epsilon: epsilon,
		integ:   integrators.NewVerlet(),
	}
}

// WithIntegrator replaces the Velocity-Verlet scheme used by Step.
func (nb *NBody) WithIntegrator(integ dynamo.Integrator) *NBody {
	nb.integ = integ
	return nb
}

// StateDim is a 2D position and a 2D velocity per body.
func (nb *NBody) StateDim() int { return len(nb.Masses) * 4 }

// Derive returns velocities and pairwise gravitational accelerations for a
// packed state. Pairs closer than Epsilon and massless bodies contribute
// nothing.
func (nb *NBody) Derive(x dynamo.State, t float64) dynamo.State {
	n := len(x) / 4
	off := 2 * n
	dx := make(dynamo.State, len(x))
	copy(dx[:off], x[off:])

	for i := 0; i < n; i++ {
		xi, yi := x[2*i], x[2*i+1]

		for j := i + 1; j < n; j++ {
			rx := x[2*j] - xi
			ry := x[2*j+1] - yi
			r := math.Sqrt(rx*rx + ry*ry)
			if r < nb.Epsilon {
				continue
			}
			r3Inv := 1.0 / (r * r * r)

			if nb.Masses[i] > 0 {
				f := nb.G * nb.Masses[j] * r3Inv
				dx[off+2*i] += f * rx
				dx[off+2*i+1] += f * ry
			}
			if nb.Masses[j] > 0 {
				f := nb.G * nb.Masses[i] * r3Inv
				dx[off+2*j] -= f * rx
				dx[off+2*j+1] -= f * ry
			}
		}
	}

	return dx
}

// Energy is kinetic plus pairwise potential energy, with the same distance
// guard as Derive.
func (nb *NBody) Energy(x dynamo.State) float64 {
	n := len(x) / 4
	off := 2 * n
	ke, pe := 0.0, 0.0

	for i := 0; i < n; i++ {
		vx, vy := x[off+2*i], x[off+2*i+1]
		ke += 0.5 * nb.Masses[i] * (vx*vx + vy*vy)

		for j := i + 1; j < n; j++ {
			rx := x[2*j] - x[2*i]
			ry := x[2*j+1] - x[2*i+1]
			r := math.Sqrt(rx*rx + ry*ry)
			if r < nb.Epsilon {
				continue
			}
			pe -= nb.G * nb.Masses[i] * nb.Masses[j] / r
		}
	}

	return ke + pe
}

// Momentum is the total linear momentum of a packed state.
func (nb *NBody) Momentum(x dynamo.State) (px, py float64) {
	n := len(x) / 4
	off := 2 * n
	for i := 0; i < n; i++ {
		px += nb.Masses[i] * x[off+2*i]
		py += nb.Masses[i] * x[off+2*i+1]
	}
	return
}

// AngularMomentum is the total angular momentum about the origin.
func (nb *NBody) AngularMomentum(x dynamo.State) float64 {
	n := len(x) / 4
	off := 2 * n
	L := 0.0
	for i := 0; i < n; i++ {
		L += nb.Masses[i] * (x[2*i]*x[off+2*i+1] - x[2*i+1]*x[off+2*i])
	}
	return L
}

// Step advances every body by dt under their mutual attraction.
func (nb *NBody) Step(bodies []dynamo.Celestial, dt float64) {
	if len(bodies) == 0 {
		return
	}
	x := nb.Pack(bodies)
	x = nb.integ.Step(nb, x, 0, dt)
	Unpack(x, bodies)
}

// Pack loads masses from bodies and returns their half-split state.
func (nb *NBody) Pack(bodies []dynamo.Celestial) dynamo.State {
	n := len(bodies)
	if cap(nb.Masses) < n {
		nb.Masses = make([]float64, n)
	}
	nb.Masses = nb.Masses[:n]

	x := make(dynamo.State, 4*n)
	for i := range bodies {
		b := &bodies[i]
		nb.Masses[i] = b.Mass
		x[2*i], x[2*i+1] = b.Position[0], b.Position[1]
		x[2*n+2*i], x[2*n+2*i+1] = b.Velocity[0], b.Velocity[1]
	}
	return x
}

// Unpack writes a half-split state back into bodies.
func Unpack(x dynamo.State, bodies []dynamo.Celestial) {
	n := len(bodies)
	for i := range bodies {
		bodies[i].Position = mgl64.Vec2{x[2*i], x[2*i+1]}
		bodies[i].Velocity = mgl64.Vec2{x[2*n+2*i], x[2*n+2*i+1]}
	}
}

// StepOrbiters advances each orbiter by dt under the attraction of source
// alone. Orbiters ignore one another and the source is never moved, so its
// mass is unaffected by what orbits it.
func (nb *NBody) StepOrbiters(source dynamo.Celestial, orbiters []dynamo.Celestial, dt float64) {
	sys := fixedSource{g: nb.G, eps: nb.Epsilon, mass: source.Mass, pos: source.Position}
	x := make(dynamo.State, 4)

	for i := range orbiters {
		o := &orbiters[i]
		if o.IsStar() {
			continue
		}
		x[0], x[1] = o.Position[0], o.Position[1]
		x[2], x[3] = o.Velocity[0], o.Velocity[1]

		next := nb.integ.Step(sys, x, 0, dt)

		o.Position = mgl64.Vec2{next[0], next[1]}
		o.Velocity = mgl64.Vec2{next[2], next[3]}
	}
}

// fixedSource is one orbiter [x, y, vx, vy] around an immovable mass.
type fixedSource struct {
	g, eps, mass float64
	pos          mgl64.Vec2
}

func (f fixedSource) StateDim() int { return 4 }

func (f fixedSource) Derive(x dynamo.State, t float64) dynamo.State {
	dx := dynamo.State{x[2], x[3], 0, 0}

	rx := f.pos[0] - x[0]
	ry := f.pos[1] - x[1]
	r := math.Sqrt(rx*rx + ry*ry)
	if r < f.eps {
		return dx
	}

	a := f.g * f.mass / (r * r * r)
	dx[2] = a * rx
	dx[3] = a * ry
	return dx
}
