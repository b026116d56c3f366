// Package physics holds the force models the simulation steps.
//
//   - [NBody]: pairwise Newtonian gravity over every body, stepped by a
//     [dynamo.Integrator] (velocity Verlet by default), plus
//     [NBody.StepOrbiters] for many independent orbiters around one
//     immovable source
//   - [DoublePendulum]: a two-link pendulum advanced with the closed-form
//     Lagrangian accelerations and semi-implicit Euler
//
// Both implement [dynamo.System] and [dynamo.Hamiltonian] so any integrator
// and energy metric can be pointed at them.
//
// # Energy Conservation
//
// Velocity Verlet keeps orbital energy bounded over many periods where
// explicit Euler spirals outward:
//
//	nb := physics.NewNBody(1, 1e-3)
//	x := nb.Pack(bodies)
//	e0 := nb.Energy(x)
//	nb.Step(bodies, dt)
//	drift := nb.Energy(nb.Pack(bodies)) - e0
package physics
